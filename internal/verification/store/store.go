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

// Package store persists the receipts of verified sessions.
package store

import (
	"fmt"
	"strconv"
	"time"

	"github.com/asgardeo/fundguard/internal/system/database/provider"
	"github.com/asgardeo/fundguard/internal/system/log"
	"github.com/asgardeo/fundguard/internal/verification/model"
)

// ReceiptStoreInterface defines the interface for receipt journal operations.
type ReceiptStoreInterface interface {
	EnsureSchema() error
	SaveReceipt(receipt model.Receipt) error
	GetReceipt(transactionReference string) (*model.Receipt, error)
}

// receiptStore is the implementation of ReceiptStoreInterface.
type receiptStore struct {
	dbProvider provider.DBProviderInterface
}

// NewReceiptStore returns a receipt store backed by the receipts database.
func NewReceiptStore(dbProvider provider.DBProviderInterface) ReceiptStoreInterface {
	return &receiptStore{dbProvider: dbProvider}
}

// EnsureSchema creates the receipt table when it does not exist.
func (s *receiptStore) EnsureSchema() error {
	dbClient, err := s.dbProvider.GetDBClient(provider.ReceiptsDB)
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	if _, err := dbClient.Execute(queryCreateReceiptTable); err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}

// SaveReceipt records a verified transaction.
func (s *receiptStore) SaveReceipt(receipt model.Receipt) error {
	dbClient, err := s.dbProvider.GetDBClient(provider.ReceiptsDB)
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	_, err = dbClient.Execute(queryInsertReceipt, receipt.TransactionReference, receipt.ReferenceID,
		receipt.Label, receipt.Amount, receipt.Beneficiary, receipt.VerifiedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}

// GetReceipt reads a receipt by transaction reference. It returns nil when none exists.
func (s *receiptStore) GetReceipt(transactionReference string) (*model.Receipt, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "ReceiptStore"))

	dbClient, err := s.dbProvider.GetDBClient(provider.ReceiptsDB)
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(queryGetReceiptByReference, transactionReference)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	if len(results) == 0 {
		logger.Debug("Receipt not found", log.String("transactionReference", transactionReference))
		return nil, nil
	}
	if len(results) > 1 {
		return nil, fmt.Errorf("multiple receipts found for reference: %s", transactionReference)
	}

	return buildReceiptFromResultRow(results[0])
}

// buildReceiptFromResultRow maps a result row to a receipt.
func buildReceiptFromResultRow(row map[string]interface{}) (*model.Receipt, error) {
	reference, ok := asString(row["transaction_reference"])
	if !ok {
		return nil, fmt.Errorf("failed to parse transaction_reference as string")
	}
	referenceID, ok := asString(row["reference_id"])
	if !ok {
		return nil, fmt.Errorf("failed to parse reference_id as string")
	}
	label, _ := asString(row["label"])
	beneficiary, _ := asString(row["beneficiary"])

	amount, err := asFloat(row["amount"])
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}

	verifiedAtStr, ok := asString(row["verified_at"])
	if !ok {
		return nil, fmt.Errorf("failed to parse verified_at as string")
	}
	verifiedAt, err := time.Parse(time.RFC3339Nano, verifiedAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse verified_at: %w", err)
	}

	return &model.Receipt{
		TransactionReference: reference,
		ReferenceID:          referenceID,
		Label:                label,
		Amount:               amount,
		Beneficiary:          beneficiary,
		VerifiedAt:           verifiedAt,
	}, nil
}

func asString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	default:
		return "", false
	}
}

func asFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case []byte:
		return strconv.ParseFloat(string(v), 64)
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("unexpected type %T", value)
	}
}
