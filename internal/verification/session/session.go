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

// Package session implements the verification session state machine.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/asgardeo/fundguard/internal/system/error/serviceerror"
	"github.com/asgardeo/fundguard/internal/system/log"
	"github.com/asgardeo/fundguard/internal/system/scheduler"
	"github.com/asgardeo/fundguard/internal/verification/captcha"
	"github.com/asgardeo/fundguard/internal/verification/constants"
	"github.com/asgardeo/fundguard/internal/verification/model"
	"github.com/asgardeo/fundguard/internal/verification/otpentry"
	"github.com/asgardeo/fundguard/internal/verification/otpverifier"
)

const referenceHexLength = 12

// Listener receives the events emitted by a session. Nil callbacks are skipped.
// Callbacks run while the session is serialising operations, so they may call Snapshot
// but must not call any other session method.
type Listener struct {
	OnStageChange func(from, to constants.Stage)
	OnVerified    func(summary model.TransactionSummary, transactionReference string)
	OnClosed      func()
}

// Options configures a session. Zero values select the defaults.
type Options struct {
	Captcha     captcha.GeneratorInterface
	Verifier    otpverifier.OTPVerifierInterface
	Scheduler   scheduler.SchedulerInterface
	Random      io.Reader
	VerifyDelay time.Duration
	CloseDelay  time.Duration
	// MaxAttempts closes the session after this many failed complete submissions. 0 disables the limit.
	MaxAttempts int
	Listener    Listener
}

// Session is a single run of the verification flow for one transaction.
type Session struct {
	// opMu serialises operations, timer firings and listener delivery.
	opMu sync.Mutex
	// mu guards the fields below for concurrent readers.
	mu sync.Mutex

	id        string
	summary   model.TransactionSummary
	stage     constants.Stage
	challenge captcha.Challenge
	entry     *otpentry.Entry
	attempts  int
	verified  bool
	reference string
	disposed  bool

	pending  scheduler.TaskHandle
	timerGen uint64

	captcha     captcha.GeneratorInterface
	verifier    otpverifier.OTPVerifierInterface
	scheduler   scheduler.SchedulerInterface
	random      io.Reader
	verifyDelay time.Duration
	closeDelay  time.Duration
	maxAttempts int
	listener    Listener
	logger      *log.Logger
}

// New opens a session in the details stage.
func New(id string, summary model.TransactionSummary, opts Options) *Session {
	if opts.Random == nil {
		opts.Random = rand.Reader
	}
	if opts.Captcha == nil {
		opts.Captcha = captcha.NewGenerator(opts.Random)
	}
	if opts.Verifier == nil {
		opts.Verifier = otpverifier.NewLengthVerifier()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = scheduler.NewScheduler()
	}
	if opts.VerifyDelay <= 0 {
		opts.VerifyDelay = constants.DefaultVerifyDelay
	}
	if opts.CloseDelay <= 0 {
		opts.CloseDelay = constants.DefaultCloseDelay
	}

	return &Session{
		id:          id,
		summary:     summary,
		stage:       constants.StageDetails,
		entry:       otpentry.New(),
		captcha:     opts.Captcha,
		verifier:    opts.Verifier,
		scheduler:   opts.Scheduler,
		random:      opts.Random,
		verifyDelay: opts.VerifyDelay,
		closeDelay:  opts.CloseDelay,
		maxAttempts: opts.MaxAttempts,
		listener:    opts.Listener,
		logger: log.GetLogger().With(log.String(log.LoggerKeyComponentName, "VerificationSession"),
			log.String(log.LoggerKeySessionID, id)),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Summary returns the transaction summary the session was opened with.
func (s *Session) Summary() model.TransactionSummary {
	return s.summary
}

// Stage returns the current stage.
func (s *Session) Stage() constants.Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() model.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := model.SessionSnapshot{
		Stage:                s.stage,
		Summary:              s.summary,
		FocusIndex:           s.entry.Focus(),
		Attempts:             s.attempts,
		Verified:             s.verified,
		TransactionReference: s.reference,
	}
	if s.stage == constants.StageChallenge {
		snapshot.CaptchaText = s.challenge.Text()
		snapshot.Cells = s.entry.Cells()
	}
	return snapshot
}

// Proceed moves from the details stage to the challenge stage with a fresh challenge and empty code.
func (s *Session) Proceed() *serviceerror.ServiceError {
	return s.run(func(events *[]func()) *serviceerror.ServiceError {
		next, svcErr := s.check(constants.EventProceed)
		if svcErr != nil {
			return svcErr
		}
		if svcErr := s.regenerate(); svcErr != nil {
			return svcErr
		}
		s.entry.Reset()
		s.moveTo(next, events)
		return nil
	})
}

// Back returns from the challenge stage to the details stage, discarding the challenge and code.
func (s *Session) Back() *serviceerror.ServiceError {
	return s.run(func(events *[]func()) *serviceerror.ServiceError {
		next, svcErr := s.check(constants.EventBack)
		if svcErr != nil {
			return svcErr
		}
		s.discardInput()
		s.moveTo(next, events)
		return nil
	})
}

// Cancel closes the session from the details or challenge stage and notifies the caller.
func (s *Session) Cancel() *serviceerror.ServiceError {
	return s.run(func(events *[]func()) *serviceerror.ServiceError {
		next, svcErr := s.check(constants.EventCancel)
		if svcErr != nil {
			return svcErr
		}
		s.discardInput()
		s.moveTo(next, events)
		return nil
	})
}

// RefreshCaptcha replaces the active challenge and keeps the code cells.
func (s *Session) RefreshCaptcha() *serviceerror.ServiceError {
	return s.run(func(events *[]func()) *serviceerror.ServiceError {
		if _, svcErr := s.check(constants.EventRefreshCaptcha); svcErr != nil {
			return svcErr
		}
		return s.regenerate()
	})
}

// SetCell writes a character into a code cell.
func (s *Session) SetCell(index int, value string) (otpentry.FocusSignal, *serviceerror.ServiceError) {
	var signal otpentry.FocusSignal
	svcErr := s.run(func(events *[]func()) *serviceerror.ServiceError {
		if _, svcErr := s.check(constants.EventEditCode); svcErr != nil {
			return svcErr
		}
		var ok bool
		signal, ok = s.entry.SetCell(index, value)
		if !ok {
			return &constants.ErrorInvalidCellIndex
		}
		return nil
	})
	return signal, svcErr
}

// Backspace clears a filled code cell, or moves focus back when the cell is already empty.
func (s *Session) Backspace(index int) (otpentry.FocusSignal, *serviceerror.ServiceError) {
	var signal otpentry.FocusSignal
	svcErr := s.run(func(events *[]func()) *serviceerror.ServiceError {
		if _, svcErr := s.check(constants.EventEditCode); svcErr != nil {
			return svcErr
		}
		var ok bool
		if s.entry.Cell(index) != "" {
			signal, ok = s.entry.SetCell(index, "")
		} else {
			signal, ok = s.entry.HandleBackspaceAt(index)
		}
		if !ok {
			return &constants.ErrorInvalidCellIndex
		}
		return nil
	})
	return signal, svcErr
}

// Verify submits the captcha answer together with the entered code.
func (s *Session) Verify(captchaAnswer string) (constants.Outcome, *serviceerror.ServiceError) {
	var outcome constants.Outcome
	svcErr := s.run(func(events *[]func()) *serviceerror.ServiceError {
		if s.stage != constants.StageChallenge {
			return &constants.ErrorInvalidTransition
		}

		if !s.entry.IsComplete() {
			s.logger.Debug("Verification attempted with an incomplete code",
				log.Int("filled", s.entry.Filled()))
			outcome = constants.OutcomeIncompleteCode
			return nil
		}

		if !s.challenge.Matches(captchaAnswer) {
			s.logger.Debug("Captcha answer did not match", log.String("answer", log.MaskString(captchaAnswer)))
			outcome = constants.OutcomeCaptchaMismatch
			return s.fail(&outcome, events)
		}

		if !s.verifier.VerifyOTP(s.entry.Value()) {
			s.logger.Debug("One-time code was rejected")
			outcome = constants.OutcomeOTPRejected
			return s.fail(&outcome, events)
		}

		next, _ := transition(s.stage, constants.EventSubmitAccepted)
		s.moveTo(next, events)
		s.schedule(s.verifyDelay, constants.StageVerifying, s.completeVerification)
		outcome = constants.OutcomeOK
		return nil
	})
	return outcome, svcErr
}

// Dispose tears the session down from any stage. Pending timers are cancelled and no
// listener is called once Dispose returns.
func (s *Session) Dispose() {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return
	}
	s.disposed = true
	s.cancelPending()
	s.discardInput()
	if s.stage != constants.StageClosed {
		s.logger.Debug("Session disposed", log.String(log.LoggerKeyStage, string(s.stage)))
		s.stage = constants.StageClosed
	}
}

// run executes op with the session locked and delivers the collected events afterwards.
func (s *Session) run(op func(events *[]func()) *serviceerror.ServiceError) *serviceerror.ServiceError {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	var events []func()
	s.mu.Lock()
	var svcErr *serviceerror.ServiceError
	if s.disposed {
		svcErr = &constants.ErrorInvalidTransition
	} else {
		svcErr = op(&events)
	}
	s.mu.Unlock()

	for _, event := range events {
		event()
	}
	return svcErr
}

// check validates that event is allowed in the current stage.
func (s *Session) check(event constants.Event) (constants.Stage, *serviceerror.ServiceError) {
	next, ok := transition(s.stage, event)
	if !ok {
		s.logger.Debug("Rejected transition", log.String(log.LoggerKeyStage, string(s.stage)),
			log.String("event", string(event)))
		return s.stage, &constants.ErrorInvalidTransition
	}
	return next, nil
}

// fail records a failed complete submission and either presents a new challenge or closes the session.
func (s *Session) fail(outcome *constants.Outcome, events *[]func()) *serviceerror.ServiceError {
	s.attempts++
	if s.maxAttempts > 0 && s.attempts >= s.maxAttempts {
		s.logger.Info("Verification attempts exhausted", log.Int("attempts", s.attempts))
		next, _ := transition(s.stage, constants.EventAttemptsExhausted)
		s.discardInput()
		s.moveTo(next, events)
		*outcome = constants.OutcomeAttemptsExhausted
		return nil
	}

	s.entry.Reset()
	return s.regenerate()
}

// regenerate replaces the active challenge in one step.
func (s *Session) regenerate() *serviceerror.ServiceError {
	challenge, err := s.captcha.Generate()
	if err != nil {
		s.logger.Error("Failed to generate captcha challenge", log.Error(err))
		return &constants.ErrorInternalServerError
	}
	s.challenge = challenge
	return nil
}

func (s *Session) discardInput() {
	s.challenge = captcha.Challenge{}
	s.entry.Reset()
}

// moveTo sets the stage and queues the listener notifications for the move.
func (s *Session) moveTo(next constants.Stage, events *[]func()) {
	from := s.stage
	if from == next {
		return
	}
	s.stage = next
	s.logger.Debug("Stage changed", log.String("from", string(from)), log.String("to", string(next)))

	if s.listener.OnStageChange != nil {
		onStageChange := s.listener.OnStageChange
		*events = append(*events, func() { onStageChange(from, next) })
	}
	if next == constants.StageClosed && s.listener.OnClosed != nil {
		*events = append(*events, s.listener.OnClosed)
	}
}

// schedule arms the single pending timer. A firing is ignored unless it is still the latest
// timer and the session is still in the expected stage.
func (s *Session) schedule(delay time.Duration, expected constants.Stage, fire func(events *[]func())) {
	s.cancelPending()
	s.timerGen++
	gen := s.timerGen
	s.pending = s.scheduler.Schedule(delay, func() {
		s.opMu.Lock()
		defer s.opMu.Unlock()

		var events []func()
		s.mu.Lock()
		if s.disposed || gen != s.timerGen || s.stage != expected {
			s.mu.Unlock()
			return
		}
		s.pending = nil
		fire(&events)
		s.mu.Unlock()

		for _, event := range events {
			event()
		}
	})
}

func (s *Session) cancelPending() {
	if s.pending != nil {
		s.pending.Cancel()
		s.pending = nil
	}
	s.timerGen++
}

// completeVerification moves a verifying session to success and emits the verified event.
func (s *Session) completeVerification(events *[]func()) {
	next, _ := transition(s.stage, constants.EventVerifyDelayElapsed)
	s.reference = s.newReference()
	s.verified = true
	s.moveTo(next, events)
	s.logger.Info("Transaction verified", log.String(log.LoggerKeyReferenceID, s.summary.ReferenceID),
		log.String("transactionReference", s.reference))

	if s.listener.OnVerified != nil {
		onVerified := s.listener.OnVerified
		summary, reference := s.summary, s.reference
		*events = append(*events, func() { onVerified(summary, reference) })
	}
	s.schedule(s.closeDelay, constants.StageSuccess, s.close)
}

// close moves a successful session to closed.
func (s *Session) close(events *[]func()) {
	next, _ := transition(s.stage, constants.EventCloseDelayElapsed)
	s.moveTo(next, events)
}

// newReference builds a transaction reference such as TXN-3F2A9C01B7E4.
func (s *Session) newReference() string {
	id, err := uuid.NewRandomFromReader(s.random)
	if err != nil {
		s.logger.Warn("Falling back to the system random source for the transaction reference", log.Error(err))
		id = uuid.New()
	}
	encoded := hex.EncodeToString(id[:])
	return constants.ReferencePrefix + strings.ToUpper(encoded[:referenceHexLength])
}
