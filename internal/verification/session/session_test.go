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

package session

import (
	"errors"
	"math/rand"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/fundguard/internal/system/scheduler"
	"github.com/asgardeo/fundguard/internal/verification/captcha"
	"github.com/asgardeo/fundguard/internal/verification/constants"
	"github.com/asgardeo/fundguard/internal/verification/model"
	"github.com/asgardeo/fundguard/internal/verification/otpentry"
	"github.com/asgardeo/fundguard/tests/mocks/otpverifiermock"
)

var referencePattern = regexp.MustCompile(`^TXN-[0-9A-F]{12}$`)

type stageChange struct {
	from constants.Stage
	to   constants.Stage
}

type recorder struct {
	stageChanges []stageChange
	verified     []model.TransactionSummary
	references   []string
	closed       int
}

func (r *recorder) listener() Listener {
	return Listener{
		OnStageChange: func(from, to constants.Stage) {
			r.stageChanges = append(r.stageChanges, stageChange{from, to})
		},
		OnVerified: func(summary model.TransactionSummary, reference string) {
			r.verified = append(r.verified, summary)
			r.references = append(r.references, reference)
		},
		OnClosed: func() { r.closed++ },
	}
}

// sequenceGenerator returns the configured texts in order and then repeats the last one.
type sequenceGenerator struct {
	texts []string
	calls int
	err   error
}

func (g *sequenceGenerator) Generate() (captcha.Challenge, error) {
	if g.err != nil {
		return captcha.Challenge{}, g.err
	}
	i := g.calls
	if i >= len(g.texts) {
		i = len(g.texts) - 1
	}
	g.calls++
	return captcha.NewChallenge(g.texts[i]), nil
}

type SessionTestSuite struct {
	suite.Suite
	scheduler *scheduler.ManualScheduler
	verifier  *otpverifiermock.MockOTPVerifier
	recorder  *recorder
	summary   model.TransactionSummary
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

func (suite *SessionTestSuite) SetupTest() {
	suite.scheduler = scheduler.NewManualScheduler()
	suite.verifier = &otpverifiermock.MockOTPVerifier{}
	suite.recorder = &recorder{}
	suite.summary = model.TransactionSummary{
		ReferenceID: "PHASE-2",
		Label:       "Rural Water Supply - Phase 2",
		Amount:      600000,
		Beneficiary: "District Water Board",
	}
}

func (suite *SessionTestSuite) newSession(opts Options) *Session {
	if opts.Scheduler == nil {
		opts.Scheduler = suite.scheduler
	}
	if opts.Verifier == nil {
		opts.Verifier = suite.verifier
	}
	if opts.Random == nil {
		opts.Random = rand.New(rand.NewSource(2025))
	}
	opts.Listener = suite.recorder.listener()
	return New("session-1", suite.summary, opts)
}

func (suite *SessionTestSuite) fillCode(s *Session, code string) {
	for i, c := range code {
		_, svcErr := s.SetCell(i, string(c))
		suite.Require().Nil(svcErr)
	}
}

func (suite *SessionTestSuite) TestNewSessionStartsInDetails() {
	s := suite.newSession(Options{})

	snapshot := s.Snapshot()
	suite.Equal("session-1", s.ID())
	suite.Equal(constants.StageDetails, snapshot.Stage)
	suite.Equal(suite.summary, snapshot.Summary)
	suite.Empty(snapshot.CaptchaText)
	suite.False(snapshot.Verified)
	suite.Empty(snapshot.TransactionReference)
}

func (suite *SessionTestSuite) TestProceedCreatesChallenge() {
	s := suite.newSession(Options{})

	suite.Nil(s.Proceed())

	snapshot := s.Snapshot()
	suite.Equal(constants.StageChallenge, snapshot.Stage)
	suite.Len(snapshot.CaptchaText, captcha.Length)
	suite.Equal([]string{"", "", "", "", "", ""}, snapshot.Cells)
	suite.Equal(0, snapshot.FocusIndex)
	suite.Equal([]stageChange{{constants.StageDetails, constants.StageChallenge}}, suite.recorder.stageChanges)
}

func (suite *SessionTestSuite) TestIllegalTransitions() {
	testCases := []struct {
		name  string
		setup func(s *Session)
		op    func(s *Session) bool
	}{
		{"VerifyFromDetails", func(*Session) {}, func(s *Session) bool {
			_, svcErr := s.Verify("anything")
			return svcErr != nil && svcErr.Code == constants.ErrorInvalidTransition.Code
		}},
		{"BackFromDetails", func(*Session) {}, func(s *Session) bool {
			svcErr := s.Back()
			return svcErr != nil && svcErr.Code == constants.ErrorInvalidTransition.Code
		}},
		{"SetCellFromDetails", func(*Session) {}, func(s *Session) bool {
			_, svcErr := s.SetCell(0, "1")
			return svcErr != nil && svcErr.Code == constants.ErrorInvalidTransition.Code
		}},
		{"RefreshFromDetails", func(*Session) {}, func(s *Session) bool {
			svcErr := s.RefreshCaptcha()
			return svcErr != nil && svcErr.Code == constants.ErrorInvalidTransition.Code
		}},
		{"ProceedFromChallenge", func(s *Session) { _ = s.Proceed() }, func(s *Session) bool {
			svcErr := s.Proceed()
			return svcErr != nil && svcErr.Code == constants.ErrorInvalidTransition.Code
		}},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			s := suite.newSession(Options{})
			tc.setup(s)
			before := s.Snapshot()

			suite.True(tc.op(s))
			suite.Equal(before, s.Snapshot())
		})
	}
}

func (suite *SessionTestSuite) TestVerifyIncompleteCode() {
	s := suite.newSession(Options{})
	suite.Require().Nil(s.Proceed())
	suite.fillCode(s, "12345")
	before := s.Snapshot()

	outcome, svcErr := s.Verify(before.CaptchaText)

	suite.Nil(svcErr)
	suite.Equal(constants.OutcomeIncompleteCode, outcome)
	suite.Equal(before, s.Snapshot())
	suite.Empty(suite.verifier.VerifyOTPCalls)
	suite.Equal(0, suite.scheduler.Pending())
}

func (suite *SessionTestSuite) TestVerifyCaptchaIsCaseSensitive() {
	generator := &sequenceGenerator{texts: []string{"Ab3dE7", "Qw8rTy"}}
	s := suite.newSession(Options{Captcha: generator})
	suite.Require().Nil(s.Proceed())
	suite.fillCode(s, "123456")

	outcome, svcErr := s.Verify("ab3de7")

	suite.Nil(svcErr)
	suite.Equal(constants.OutcomeCaptchaMismatch, outcome)
	snapshot := s.Snapshot()
	suite.Equal(constants.StageChallenge, snapshot.Stage)
	suite.Equal("Qw8rTy", snapshot.CaptchaText)
	suite.Equal([]string{"", "", "", "", "", ""}, snapshot.Cells)
	suite.Equal(1, snapshot.Attempts)
	suite.Empty(suite.verifier.VerifyOTPCalls)
}

func (suite *SessionTestSuite) TestConsecutiveFailuresPresentFreshChallenges() {
	s := suite.newSession(Options{})
	suite.Require().Nil(s.Proceed())

	previous := s.Snapshot().CaptchaText
	for i := 0; i < 5; i++ {
		suite.fillCode(s, "654321")
		outcome, svcErr := s.Verify("wrong!")
		suite.Nil(svcErr)
		suite.Equal(constants.OutcomeCaptchaMismatch, outcome)

		current := s.Snapshot().CaptchaText
		suite.NotEqual(previous, current)
		previous = current
	}
	suite.Equal(5, s.Snapshot().Attempts)
}

func (suite *SessionTestSuite) TestVerifyOTPRejected() {
	suite.verifier.MockVerifyOTP = func(code string) bool { return false }
	generator := &sequenceGenerator{texts: []string{"Ab3dE7", "Zx9kLm"}}
	s := suite.newSession(Options{Captcha: generator})
	suite.Require().Nil(s.Proceed())
	suite.fillCode(s, "246810")

	outcome, svcErr := s.Verify("Ab3dE7")

	suite.Nil(svcErr)
	suite.Equal(constants.OutcomeOTPRejected, outcome)
	suite.Equal([]string{"246810"}, suite.verifier.VerifyOTPCalls)
	snapshot := s.Snapshot()
	suite.Equal(constants.StageChallenge, snapshot.Stage)
	suite.Equal("Zx9kLm", snapshot.CaptchaText)
	suite.Equal("", snapshot.Cells[0])
}

func (suite *SessionTestSuite) TestEndToEndVerification() {
	s := suite.newSession(Options{})
	suite.Require().Nil(s.Proceed())
	suite.fillCode(s, "123456")

	outcome, svcErr := s.Verify(s.Snapshot().CaptchaText)
	suite.Nil(svcErr)
	suite.Equal(constants.OutcomeOK, outcome)
	suite.Equal(constants.StageVerifying, s.Stage())

	suite.scheduler.Advance(1999 * time.Millisecond)
	suite.Equal(constants.StageVerifying, s.Stage())
	suite.Empty(suite.recorder.verified)

	suite.scheduler.Advance(time.Millisecond)
	suite.Equal(constants.StageSuccess, s.Stage())
	suite.Require().Len(suite.recorder.verified, 1)
	suite.Equal("PHASE-2", suite.recorder.verified[0].ReferenceID)
	suite.Equal(float64(600000), suite.recorder.verified[0].Amount)
	suite.Regexp(referencePattern, suite.recorder.references[0])
	suite.Equal(suite.recorder.references[0], s.Snapshot().TransactionReference)
	suite.True(s.Snapshot().Verified)
	suite.Equal(0, suite.recorder.closed)

	suite.scheduler.Advance(2999 * time.Millisecond)
	suite.Equal(0, suite.recorder.closed)

	suite.scheduler.Advance(time.Millisecond)
	suite.Equal(constants.StageClosed, s.Stage())
	suite.Equal(1, suite.recorder.closed)
	suite.Equal([]stageChange{
		{constants.StageDetails, constants.StageChallenge},
		{constants.StageChallenge, constants.StageVerifying},
		{constants.StageVerifying, constants.StageSuccess},
		{constants.StageSuccess, constants.StageClosed},
	}, suite.recorder.stageChanges)
	suite.Equal(0, suite.scheduler.Pending())
}

func (suite *SessionTestSuite) TestConfiguredDelays() {
	s := suite.newSession(Options{VerifyDelay: 500 * time.Millisecond, CloseDelay: time.Second})
	suite.Require().Nil(s.Proceed())
	suite.fillCode(s, "000000")
	_, _ = s.Verify(s.Snapshot().CaptchaText)

	suite.scheduler.Advance(500 * time.Millisecond)
	suite.Equal(constants.StageSuccess, s.Stage())
	suite.scheduler.Advance(time.Second)
	suite.Equal(constants.StageClosed, s.Stage())
}

func (suite *SessionTestSuite) TestDisposeWhileVerifyingCancelsTimers() {
	s := suite.newSession(Options{})
	suite.Require().Nil(s.Proceed())
	suite.fillCode(s, "123456")
	outcome, _ := s.Verify(s.Snapshot().CaptchaText)
	suite.Require().Equal(constants.OutcomeOK, outcome)

	s.Dispose()

	suite.Equal(0, suite.scheduler.Pending())
	suite.scheduler.Advance(10 * time.Second)
	suite.Empty(suite.recorder.verified)
	suite.Equal(0, suite.recorder.closed)
	suite.Equal(constants.StageClosed, s.Stage())
}

func (suite *SessionTestSuite) TestDisposeWhileSucceededCancelsClose() {
	s := suite.newSession(Options{})
	suite.Require().Nil(s.Proceed())
	suite.fillCode(s, "123456")
	_, _ = s.Verify(s.Snapshot().CaptchaText)
	suite.scheduler.Advance(2 * time.Second)
	suite.Require().Len(suite.recorder.verified, 1)

	s.Dispose()
	suite.scheduler.Advance(10 * time.Second)

	suite.Equal(0, suite.recorder.closed)
	suite.Len(suite.recorder.verified, 1)
}

func (suite *SessionTestSuite) TestDisposeWithRealTimer() {
	s := suite.newSession(Options{
		Scheduler:   scheduler.NewScheduler(),
		VerifyDelay: 20 * time.Millisecond,
		CloseDelay:  20 * time.Millisecond,
	})
	suite.Require().Nil(s.Proceed())
	suite.fillCode(s, "123456")
	_, _ = s.Verify(s.Snapshot().CaptchaText)

	s.Dispose()
	time.Sleep(100 * time.Millisecond)

	suite.Empty(suite.recorder.verified)
	suite.Equal(0, suite.recorder.closed)
}

func (suite *SessionTestSuite) TestOperationsAfterDispose() {
	s := suite.newSession(Options{})
	s.Dispose()
	s.Dispose()

	suite.Equal(constants.ErrorInvalidTransition.Code, s.Proceed().Code)
	suite.Equal(constants.ErrorInvalidTransition.Code, s.Cancel().Code)
	suite.Equal(0, suite.recorder.closed)
	suite.Empty(suite.recorder.stageChanges)
}

func (suite *SessionTestSuite) TestCancel() {
	testCases := []struct {
		name    string
		proceed bool
	}{
		{"FromDetails", false},
		{"FromChallenge", true},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.recorder = &recorder{}
			s := suite.newSession(Options{})
			if tc.proceed {
				suite.Require().Nil(s.Proceed())
			}

			suite.Nil(s.Cancel())

			snapshot := s.Snapshot()
			suite.Equal(constants.StageClosed, snapshot.Stage)
			suite.Empty(snapshot.CaptchaText)
			suite.Equal(1, suite.recorder.closed)
			suite.Empty(suite.recorder.verified)
		})
	}
}

func (suite *SessionTestSuite) TestCancelIgnoredOnceVerifying() {
	s := suite.newSession(Options{})
	suite.Require().Nil(s.Proceed())
	suite.fillCode(s, "123456")
	_, _ = s.Verify(s.Snapshot().CaptchaText)

	svcErr := s.Cancel()

	suite.Require().NotNil(svcErr)
	suite.Equal(constants.ErrorInvalidTransition.Code, svcErr.Code)
	suite.Equal(constants.StageVerifying, s.Stage())

	suite.scheduler.Advance(5 * time.Second)
	suite.Len(suite.recorder.verified, 1)
	suite.Equal(1, suite.recorder.closed)
}

func (suite *SessionTestSuite) TestBackDiscardsInput() {
	s := suite.newSession(Options{})
	suite.Require().Nil(s.Proceed())
	suite.fillCode(s, "123")

	suite.Nil(s.Back())

	snapshot := s.Snapshot()
	suite.Equal(constants.StageDetails, snapshot.Stage)
	suite.Empty(snapshot.CaptchaText)
	suite.Equal(0, snapshot.FocusIndex)

	suite.Require().Nil(s.Proceed())
	suite.Equal([]string{"", "", "", "", "", ""}, s.Snapshot().Cells)
}

func (suite *SessionTestSuite) TestRefreshCaptchaKeepsCode() {
	generator := &sequenceGenerator{texts: []string{"Ab3dE7", "Hj4kMn"}}
	s := suite.newSession(Options{Captcha: generator})
	suite.Require().Nil(s.Proceed())
	suite.fillCode(s, "98")

	suite.Nil(s.RefreshCaptcha())

	snapshot := s.Snapshot()
	suite.Equal("Hj4kMn", snapshot.CaptchaText)
	suite.Equal([]string{"9", "8", "", "", "", ""}, snapshot.Cells)
	suite.Equal(0, snapshot.Attempts)
}

func (suite *SessionTestSuite) TestAttemptsExhausted() {
	s := suite.newSession(Options{MaxAttempts: 2})
	suite.Require().Nil(s.Proceed())

	suite.fillCode(s, "111111")
	outcome, _ := s.Verify("nope")
	suite.Equal(constants.OutcomeCaptchaMismatch, outcome)
	suite.Equal(0, suite.recorder.closed)

	suite.fillCode(s, "111111")
	outcome, svcErr := s.Verify("nope")

	suite.Nil(svcErr)
	suite.Equal(constants.OutcomeAttemptsExhausted, outcome)
	suite.Equal(constants.StageClosed, s.Stage())
	suite.Equal(1, suite.recorder.closed)
	suite.Empty(suite.recorder.verified)
}

func (suite *SessionTestSuite) TestIncompleteCodeDoesNotCountAsAttempt() {
	s := suite.newSession(Options{MaxAttempts: 1})
	suite.Require().Nil(s.Proceed())

	for i := 0; i < 3; i++ {
		outcome, _ := s.Verify("nope")
		suite.Equal(constants.OutcomeIncompleteCode, outcome)
	}
	suite.Equal(constants.StageChallenge, s.Stage())
	suite.Equal(0, s.Snapshot().Attempts)
}

func (suite *SessionTestSuite) TestSetCellAndBackspace() {
	s := suite.newSession(Options{})
	suite.Require().Nil(s.Proceed())

	signal, svcErr := s.SetCell(0, "7")
	suite.Nil(svcErr)
	suite.Equal(otpentry.FocusSignal{Kind: otpentry.FocusAdvance, Index: 1}, signal)

	signal, svcErr = s.Backspace(1)
	suite.Nil(svcErr)
	suite.Equal(otpentry.FocusSignal{Kind: otpentry.FocusRetreat, Index: 0}, signal)

	signal, svcErr = s.Backspace(0)
	suite.Nil(svcErr)
	suite.Equal(otpentry.FocusNone, signal.Kind)
	suite.Equal("", s.Snapshot().Cells[0])
}

func (suite *SessionTestSuite) TestSetCellInvalidIndex() {
	s := suite.newSession(Options{})
	suite.Require().Nil(s.Proceed())

	_, svcErr := s.SetCell(6, "1")
	suite.Require().NotNil(svcErr)
	suite.Equal(constants.ErrorInvalidCellIndex.Code, svcErr.Code)

	_, svcErr = s.Backspace(-1)
	suite.Require().NotNil(svcErr)
	suite.Equal(constants.ErrorInvalidCellIndex.Code, svcErr.Code)
}

func (suite *SessionTestSuite) TestCaptchaGenerationFailure() {
	s := suite.newSession(Options{Captcha: &sequenceGenerator{err: errors.New("entropy unavailable")}})

	svcErr := s.Proceed()

	suite.Require().NotNil(svcErr)
	suite.Equal(constants.ErrorInternalServerError.Code, svcErr.Code)
	suite.Equal(constants.StageDetails, s.Stage())
	suite.Empty(suite.recorder.stageChanges)
}

func (suite *SessionTestSuite) TestReferenceFollowsRandomSource() {
	references := make([]string, 0, 2)
	for i := 0; i < 2; i++ {
		sched := scheduler.NewManualScheduler()
		rec := &recorder{}
		s := New("session", suite.summary, Options{
			Scheduler: sched,
			Random:    rand.New(rand.NewSource(11)),
			Listener:  rec.listener(),
		})
		suite.Require().Nil(s.Proceed())
		suite.fillCode(s, "123456")
		_, _ = s.Verify(s.Snapshot().CaptchaText)
		sched.Advance(2 * time.Second)

		suite.Require().Len(rec.references, 1)
		references = append(references, rec.references[0])
	}

	suite.Equal(references[0], references[1])
	suite.Regexp(referencePattern, references[0])
}

func (suite *SessionTestSuite) TestTransitionTable() {
	testCases := []struct {
		stage    constants.Stage
		event    constants.Event
		expected constants.Stage
		ok       bool
	}{
		{constants.StageDetails, constants.EventProceed, constants.StageChallenge, true},
		{constants.StageDetails, constants.EventSubmitAccepted, "", false},
		{constants.StageChallenge, constants.EventSubmitAccepted, constants.StageVerifying, true},
		{constants.StageChallenge, constants.EventSubmitMismatch, constants.StageChallenge, true},
		{constants.StageVerifying, constants.EventCancel, "", false},
		{constants.StageVerifying, constants.EventVerifyDelayElapsed, constants.StageSuccess, true},
		{constants.StageSuccess, constants.EventCloseDelayElapsed, constants.StageClosed, true},
		{constants.StageClosed, constants.EventProceed, "", false},
	}

	for _, tc := range testCases {
		next, ok := transition(tc.stage, tc.event)
		suite.Equal(tc.ok, ok, "%s + %s", tc.stage, tc.event)
		suite.Equal(tc.expected, next)
	}
}
