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

// Package presenter turns transaction summaries and receipts into display lines.
package presenter

import (
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/asgardeo/fundguard/internal/verification/model"
)

const (
	currencySymbol  = "₹"
	amountFormat    = "#,###.##"
	timestampLayout = "02 Jan 2006, 15:04:05 MST"
)

// FormatAmount renders an amount with the currency symbol, grouped digits and two decimals.
func FormatAmount(amount float64) string {
	return currencySymbol + humanize.FormatFloat(amountFormat, amount)
}

// DetailLines returns the lines shown in the details stage.
func DetailLines(summary model.TransactionSummary) []model.DisplayLine {
	lines := []model.DisplayLine{{Label: "Reference ID", Value: summary.ReferenceID}}
	if summary.Label != "" {
		lines = append(lines, model.DisplayLine{Label: "Transaction", Value: summary.Label})
	}
	lines = append(lines, model.DisplayLine{Label: "Amount", Value: FormatAmount(summary.Amount)})
	if summary.Beneficiary != "" {
		lines = append(lines, model.DisplayLine{Label: "Beneficiary", Value: summary.Beneficiary})
	}

	keys := make([]string, 0, len(summary.Context))
	for key := range summary.Context {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		lines = append(lines, model.DisplayLine{Label: key, Value: summary.Context[key]})
	}
	return lines
}

// ReceiptLines returns the lines shown on the success receipt.
func ReceiptLines(receipt model.Receipt) []model.DisplayLine {
	lines := []model.DisplayLine{
		{Label: "Transaction Reference", Value: receipt.TransactionReference},
		{Label: "Reference ID", Value: receipt.ReferenceID},
	}
	if receipt.Label != "" {
		lines = append(lines, model.DisplayLine{Label: "Transaction", Value: receipt.Label})
	}
	lines = append(lines, model.DisplayLine{Label: "Amount Released", Value: FormatAmount(receipt.Amount)})
	if receipt.Beneficiary != "" {
		lines = append(lines, model.DisplayLine{Label: "Beneficiary", Value: receipt.Beneficiary})
	}
	if !receipt.VerifiedAt.IsZero() {
		lines = append(lines, model.DisplayLine{Label: "Verified At", Value: receipt.VerifiedAt.Format(timestampLayout)})
	}
	return lines
}
