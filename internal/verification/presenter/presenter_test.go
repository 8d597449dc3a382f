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

package presenter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/fundguard/internal/verification/model"
)

type PresenterTestSuite struct {
	suite.Suite
}

func TestPresenterSuite(t *testing.T) {
	suite.Run(t, new(PresenterTestSuite))
}

func (suite *PresenterTestSuite) TestFormatAmount() {
	testCases := []struct {
		amount   float64
		expected string
	}{
		{0, "₹0.00"},
		{999, "₹999.00"},
		{600000, "₹600,000.00"},
		{1234567.5, "₹1,234,567.50"},
	}

	for _, tc := range testCases {
		suite.Equal(tc.expected, FormatAmount(tc.amount))
	}
}

func (suite *PresenterTestSuite) TestDetailLines() {
	lines := DetailLines(model.TransactionSummary{
		ReferenceID: "PHASE-2",
		Label:       "Rural Water Supply - Phase 2",
		Amount:      600000,
		Beneficiary: "District Water Board",
		Context:     map[string]string{"village": "Kothapalli", "agency": "PWD"},
	})

	suite.Equal([]model.DisplayLine{
		{Label: "Reference ID", Value: "PHASE-2"},
		{Label: "Transaction", Value: "Rural Water Supply - Phase 2"},
		{Label: "Amount", Value: "₹600,000.00"},
		{Label: "Beneficiary", Value: "District Water Board"},
		{Label: "agency", Value: "PWD"},
		{Label: "village", Value: "Kothapalli"},
	}, lines)
}

func (suite *PresenterTestSuite) TestDetailLinesMinimal() {
	lines := DetailLines(model.TransactionSummary{ReferenceID: "PHASE-9"})

	suite.Equal([]model.DisplayLine{
		{Label: "Reference ID", Value: "PHASE-9"},
		{Label: "Amount", Value: "₹0.00"},
	}, lines)
}

func (suite *PresenterTestSuite) TestReceiptLines() {
	verifiedAt := time.Date(2025, time.June, 3, 9, 15, 0, 0, time.UTC)
	lines := ReceiptLines(model.Receipt{
		TransactionReference: "TXN-3F2A9C01B7E4",
		ReferenceID:          "PHASE-2",
		Label:                "Rural Water Supply - Phase 2",
		Amount:               600000,
		VerifiedAt:           verifiedAt,
	})

	suite.Equal([]model.DisplayLine{
		{Label: "Transaction Reference", Value: "TXN-3F2A9C01B7E4"},
		{Label: "Reference ID", Value: "PHASE-2"},
		{Label: "Transaction", Value: "Rural Water Supply - Phase 2"},
		{Label: "Amount Released", Value: "₹600,000.00"},
		{Label: "Verified At", Value: "03 Jun 2025, 09:15:00 UTC"},
	}, lines)
}
