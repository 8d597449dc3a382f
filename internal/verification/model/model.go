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

// Package model defines the data structures used by the verification flow.
package model

import (
	"time"

	"github.com/asgardeo/fundguard/internal/verification/constants"
)

// TransactionSummary is the caller supplied, display only description of a fund release.
type TransactionSummary struct {
	ReferenceID string            `json:"referenceId" validate:"required"`
	Label       string            `json:"label"`
	Amount      float64           `json:"amount" validate:"gte=0"`
	Beneficiary string            `json:"beneficiary,omitempty"`
	Context     map[string]string `json:"context,omitempty"`
}

// Receipt is the record of a verified session.
type Receipt struct {
	TransactionReference string    `json:"transactionReference"`
	ReferenceID          string    `json:"referenceId"`
	Label                string    `json:"label"`
	Amount               float64   `json:"amount"`
	Beneficiary          string    `json:"beneficiary,omitempty"`
	VerifiedAt           time.Time `json:"verifiedAt"`
}

// DisplayLine is a single label and value pair rendered by the presentation layer.
type DisplayLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SessionSnapshot is a point in time copy of a session's state.
type SessionSnapshot struct {
	Stage                constants.Stage
	Summary              TransactionSummary
	CaptchaText          string
	Cells                []string
	FocusIndex           int
	Attempts             int
	Verified             bool
	TransactionReference string
}

// SessionView is the API representation of a verification session.
type SessionView struct {
	ID                   string          `json:"id"`
	ContextKey           string          `json:"context"`
	Stage                constants.Stage `json:"stage"`
	Details              []DisplayLine   `json:"details"`
	Captcha              string          `json:"captcha,omitempty"`
	Cells                []string        `json:"cells,omitempty"`
	FocusIndex           int             `json:"focusIndex"`
	Attempts             int             `json:"attempts"`
	Verified             bool            `json:"verified"`
	TransactionReference string          `json:"transactionReference,omitempty"`
	Receipt              []DisplayLine   `json:"receipt,omitempty"`
}

// OpenSessionRequest is the request body for opening a verification session.
type OpenSessionRequest struct {
	Context string             `json:"context" validate:"required"`
	Summary TransactionSummary `json:"summary"`
}

// SetCellRequest is the request body for writing a single code cell.
type SetCellRequest struct {
	Value string `json:"value"`
}

// VerifyRequest is the request body for a verify attempt.
type VerifyRequest struct {
	Captcha string `json:"captcha"`
}

// FocusResponse tells the presentation layer where to move input focus.
type FocusResponse struct {
	Kind  string `json:"kind"`
	Index int    `json:"index"`
}

// CellResponse is the response for cell edits.
type CellResponse struct {
	Focus   FocusResponse `json:"focus"`
	Session SessionView   `json:"session"`
}

// VerifyResponse is the response for a verify attempt.
type VerifyResponse struct {
	Outcome constants.Outcome `json:"outcome"`
	Session SessionView       `json:"session"`
}
