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

// Package managers provides functionality for managing and registering system services.
package managers

import (
	"fmt"
	"net/http"

	"github.com/asgardeo/fundguard/internal/system/database/provider"
	"github.com/asgardeo/fundguard/internal/system/log"
	"github.com/asgardeo/fundguard/internal/verification"
	"github.com/asgardeo/fundguard/internal/verification/store"
)

// ServiceManagerInterface defines the interface for managing services.
type ServiceManagerInterface interface {
	RegisterServices() error
}

// ServiceManager registers the HTTP services of the server on a multiplexer.
type ServiceManager struct {
	mux        *http.ServeMux
	dbProvider provider.DBProviderInterface
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux, dbProvider provider.DBProviderInterface) ServiceManagerInterface {
	return &ServiceManager{
		mux:        mux,
		dbProvider: dbProvider,
	}
}

// RegisterServices registers all the services with the provided HTTP multiplexer.
func (sm *ServiceManager) RegisterServices() error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "ServiceManager"))

	// Prepare the receipt journal.
	receiptStore := store.NewReceiptStore(sm.dbProvider)
	if err := receiptStore.EnsureSchema(); err != nil {
		return fmt.Errorf("failed to prepare receipt store: %w", err)
	}

	// Register the verification service.
	if _, err := verification.Initialize(sm.mux, receiptStore); err != nil {
		return fmt.Errorf("failed to initialize verification service: %w", err)
	}
	logger.Debug("Verification service registered")

	return nil
}
