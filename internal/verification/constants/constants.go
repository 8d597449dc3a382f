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

// Package constants defines the stages, events, outcomes and errors of the verification flow.
package constants

import "time"

// Stage represents a named state of a verification session.
type Stage string

const (
	// StageDetails shows the transaction summary. It is the initial stage.
	StageDetails Stage = "DETAILS"
	// StageChallenge collects the one-time code and the captcha answer.
	StageChallenge Stage = "CHALLENGE"
	// StageVerifying presents the confirmation while the success transition is pending.
	StageVerifying Stage = "VERIFYING"
	// StageSuccess shows the receipt until the session auto-closes.
	StageSuccess Stage = "SUCCESS"
	// StageClosed is the final stage of every session.
	StageClosed Stage = "CLOSED"
)

// IsTerminal reports whether no user driven transition leaves the stage.
func (s Stage) IsTerminal() bool {
	return s == StageSuccess || s == StageClosed
}

// Event is an input to the verification state machine.
type Event string

// Events accepted by the verification state machine.
const (
	EventProceed            Event = "PROCEED"
	EventBack               Event = "BACK"
	EventCancel             Event = "CANCEL"
	EventEditCode           Event = "EDIT_CODE"
	EventRefreshCaptcha     Event = "REFRESH_CAPTCHA"
	EventSubmitIncomplete   Event = "SUBMIT_INCOMPLETE"
	EventSubmitMismatch     Event = "SUBMIT_MISMATCH"
	EventSubmitRejected     Event = "SUBMIT_REJECTED"
	EventSubmitAccepted     Event = "SUBMIT_ACCEPTED"
	EventAttemptsExhausted  Event = "ATTEMPTS_EXHAUSTED"
	EventVerifyDelayElapsed Event = "VERIFY_DELAY_ELAPSED"
	EventCloseDelayElapsed  Event = "CLOSE_DELAY_ELAPSED"
)

// Outcome is the result of a verify attempt.
type Outcome string

const (
	// OutcomeOK means the code and captcha were accepted and the session is verifying.
	OutcomeOK Outcome = "OK"
	// OutcomeIncompleteCode means fewer than six code cells were filled.
	OutcomeIncompleteCode Outcome = "INCOMPLETE_CODE"
	// OutcomeCaptchaMismatch means the captcha answer did not match the active challenge.
	OutcomeCaptchaMismatch Outcome = "CAPTCHA_MISMATCH"
	// OutcomeOTPRejected means the one-time code verifier rejected the code.
	OutcomeOTPRejected Outcome = "OTP_REJECTED"
	// OutcomeAttemptsExhausted means the failed attempt limit was reached and the session closed.
	OutcomeAttemptsExhausted Outcome = "ATTEMPTS_EXHAUSTED"
)

const (
	// DefaultVerifyDelay is the delay between an accepted submission and the success stage.
	DefaultVerifyDelay = 2 * time.Second
	// DefaultCloseDelay is the delay between the success stage and closing the session.
	DefaultCloseDelay = 3 * time.Second
	// CodeLength is the number of cells in the one-time code entry.
	CodeLength = 6
	// ReferencePrefix prefixes every generated transaction reference.
	ReferencePrefix = "TXN-"
)
