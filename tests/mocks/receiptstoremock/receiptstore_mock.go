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

// Package receiptstoremock provides mock implementations of the receipt journal.
package receiptstoremock

import (
	"sync"

	"github.com/asgardeo/fundguard/internal/verification/model"
)

// MockReceiptStore is a mock implementation of the ReceiptStoreInterface.
type MockReceiptStore struct {
	mu sync.Mutex

	// MockEnsureSchema defines the behavior for the EnsureSchema method.
	MockEnsureSchema func() error

	// MockSaveReceipt defines the behavior for the SaveReceipt method.
	MockSaveReceipt func(receipt model.Receipt) error

	// MockGetReceipt defines the behavior for the GetReceipt method.
	MockGetReceipt func(transactionReference string) (*model.Receipt, error)

	// SavedReceipts tracks the receipts passed to SaveReceipt.
	SavedReceipts []model.Receipt

	// EnsureSchemaCalls tracks the calls to EnsureSchema.
	EnsureSchemaCalls int
}

// EnsureSchema mocks the EnsureSchema method of the ReceiptStoreInterface.
func (m *MockReceiptStore) EnsureSchema() error {
	m.mu.Lock()
	m.EnsureSchemaCalls++
	m.mu.Unlock()

	if m.MockEnsureSchema != nil {
		return m.MockEnsureSchema()
	}
	return nil
}

// SaveReceipt mocks the SaveReceipt method of the ReceiptStoreInterface.
func (m *MockReceiptStore) SaveReceipt(receipt model.Receipt) error {
	m.mu.Lock()
	m.SavedReceipts = append(m.SavedReceipts, receipt)
	m.mu.Unlock()

	if m.MockSaveReceipt != nil {
		return m.MockSaveReceipt(receipt)
	}
	return nil
}

// GetReceipt mocks the GetReceipt method of the ReceiptStoreInterface.
func (m *MockReceiptStore) GetReceipt(transactionReference string) (*model.Receipt, error) {
	if m.MockGetReceipt != nil {
		return m.MockGetReceipt(transactionReference)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, receipt := range m.SavedReceipts {
		if receipt.TransactionReference == transactionReference {
			r := receipt
			return &r, nil
		}
	}
	return nil, nil
}
