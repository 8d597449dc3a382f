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

// Package registry tracks the open verification sessions.
package registry

import (
	"sync"

	"github.com/asgardeo/fundguard/internal/system/error/serviceerror"
	"github.com/asgardeo/fundguard/internal/verification/constants"
	"github.com/asgardeo/fundguard/internal/verification/session"
)

// Entry is an open session together with the context that triggered it.
type Entry struct {
	ContextKey string
	Session    *session.Session
}

// Registry holds at most one open session per trigger context.
type Registry struct {
	mu        sync.RWMutex
	limit     int
	byID      map[string]Entry
	byContext map[string]string
}

// NewRegistry creates a registry holding at most limit sessions.
func NewRegistry(limit int) *Registry {
	return &Registry{
		limit:     limit,
		byID:      make(map[string]Entry),
		byContext: make(map[string]string),
	}
}

// Add registers the session for the context key.
func (r *Registry) Add(contextKey string, s *session.Session) *serviceerror.ServiceError {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byContext[contextKey]; exists {
		return &constants.ErrorSessionAlreadyActive
	}
	if r.limit > 0 && len(r.byID) >= r.limit {
		return &constants.ErrorSessionLimitReached
	}

	r.byID[s.ID()] = Entry{ContextKey: contextKey, Session: s}
	r.byContext[contextKey] = s.ID()
	return nil
}

// Get returns the entry for the session id.
func (r *Registry) Get(id string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.byID[id]
	return entry, ok
}

// Remove drops the session and frees its context. It returns false when the id is unknown.
func (r *Registry) Remove(id string) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.byID[id]
	if !ok {
		return Entry{}, false
	}
	delete(r.byID, id)
	if r.byContext[entry.ContextKey] == id {
		delete(r.byContext, entry.ContextKey)
	}
	return entry, true
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
