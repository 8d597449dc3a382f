/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package store

import dbmodel "github.com/asgardeo/fundguard/internal/system/database/model"

var (
	// queryCreateReceiptTable creates the receipt journal table if it does not exist.
	queryCreateReceiptTable = dbmodel.DBQuery{
		ID: "VRQ-RC-01",
		Query: "CREATE TABLE IF NOT EXISTS VERIFICATION_RECEIPT (" +
			"TRANSACTION_REFERENCE VARCHAR(32) PRIMARY KEY, " +
			"REFERENCE_ID VARCHAR(255) NOT NULL, " +
			"LABEL VARCHAR(255), " +
			"AMOUNT REAL NOT NULL, " +
			"BENEFICIARY VARCHAR(255), " +
			"VERIFIED_AT VARCHAR(64) NOT NULL)",
		PostgresQuery: "CREATE TABLE IF NOT EXISTS VERIFICATION_RECEIPT (" +
			"TRANSACTION_REFERENCE VARCHAR(32) PRIMARY KEY, " +
			"REFERENCE_ID VARCHAR(255) NOT NULL, " +
			"LABEL VARCHAR(255), " +
			"AMOUNT DOUBLE PRECISION NOT NULL, " +
			"BENEFICIARY VARCHAR(255), " +
			"VERIFIED_AT VARCHAR(64) NOT NULL)",
	}

	// queryInsertReceipt records a verified transaction.
	queryInsertReceipt = dbmodel.DBQuery{
		ID: "VRQ-RC-02",
		Query: "INSERT INTO VERIFICATION_RECEIPT " +
			"(TRANSACTION_REFERENCE, REFERENCE_ID, LABEL, AMOUNT, BENEFICIARY, VERIFIED_AT) " +
			"VALUES ($1, $2, $3, $4, $5, $6)",
	}

	// queryGetReceiptByReference reads a receipt by its transaction reference.
	queryGetReceiptByReference = dbmodel.DBQuery{
		ID: "VRQ-RC-03",
		Query: "SELECT TRANSACTION_REFERENCE, REFERENCE_ID, LABEL, AMOUNT, BENEFICIARY, VERIFIED_AT " +
			"FROM VERIFICATION_RECEIPT WHERE TRANSACTION_REFERENCE = $1",
	}
)
