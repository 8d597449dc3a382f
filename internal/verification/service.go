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

// Package verification provides the fund release verification service and its HTTP surface.
package verification

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/asgardeo/fundguard/internal/system/config"
	"github.com/asgardeo/fundguard/internal/system/error/serviceerror"
	"github.com/asgardeo/fundguard/internal/system/log"
	"github.com/asgardeo/fundguard/internal/system/scheduler"
	"github.com/asgardeo/fundguard/internal/system/utils"
	"github.com/asgardeo/fundguard/internal/verification/constants"
	"github.com/asgardeo/fundguard/internal/verification/model"
	"github.com/asgardeo/fundguard/internal/verification/otpentry"
	"github.com/asgardeo/fundguard/internal/verification/otpverifier"
	"github.com/asgardeo/fundguard/internal/verification/presenter"
	"github.com/asgardeo/fundguard/internal/verification/registry"
	"github.com/asgardeo/fundguard/internal/verification/session"
	"github.com/asgardeo/fundguard/internal/verification/store"
)

// VerificationServiceInterface defines the interface for the verification service.
type VerificationServiceInterface interface {
	OpenSession(request model.OpenSessionRequest) (*model.SessionView, *serviceerror.ServiceError)
	GetSession(id string) (*model.SessionView, *serviceerror.ServiceError)
	Proceed(id string) (*model.SessionView, *serviceerror.ServiceError)
	Back(id string) (*model.SessionView, *serviceerror.ServiceError)
	RefreshCaptcha(id string) (*model.SessionView, *serviceerror.ServiceError)
	Cancel(id string) (*model.SessionView, *serviceerror.ServiceError)
	SetCell(id string, index int, value string) (*model.CellResponse, *serviceerror.ServiceError)
	Backspace(id string, index int) (*model.CellResponse, *serviceerror.ServiceError)
	Verify(id string, captchaAnswer string) (*model.VerifyResponse, *serviceerror.ServiceError)
	DisposeSession(id string) *serviceerror.ServiceError
	GetReceipt(transactionReference string) (*model.Receipt, *serviceerror.ServiceError)
}

// verificationService is the default implementation of VerificationServiceInterface.
type verificationService struct {
	cfg          config.VerificationConfig
	registry     *registry.Registry
	receiptStore store.ReceiptStoreInterface
	verifier     otpverifier.OTPVerifierInterface
	scheduler    scheduler.SchedulerInterface
	random       io.Reader
	now          func() time.Time
	// receipts holds the receipt of every verified session that is still open.
	receipts sync.Map
}

// newVerificationService creates a new instance of verificationService.
func newVerificationService(cfg config.VerificationConfig, verifier otpverifier.OTPVerifierInterface,
	sched scheduler.SchedulerInterface, random io.Reader,
	receiptStore store.ReceiptStoreInterface) *verificationService {
	return &verificationService{
		cfg:          cfg,
		registry:     registry.NewRegistry(cfg.GetSessionLimit()),
		receiptStore: receiptStore,
		verifier:     verifier,
		scheduler:    sched,
		random:       random,
		now:          time.Now,
	}
}

// OpenSession opens a verification session for a trigger context.
func (vs *verificationService) OpenSession(
	request model.OpenSessionRequest) (*model.SessionView, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "VerificationService"))

	contextKey := strings.TrimSpace(request.Context)
	if contextKey == "" {
		return nil, &constants.ErrorInvalidContextKey
	}
	if err := utils.ValidateStruct(request.Summary); err != nil {
		logger.Debug("Invalid transaction summary", log.Error(err))
		return nil, &constants.ErrorInvalidSummary
	}

	id := utils.GenerateUUID()
	s := session.New(id, request.Summary, session.Options{
		Verifier:    vs.verifier,
		Scheduler:   vs.scheduler,
		Random:      vs.random,
		VerifyDelay: vs.cfg.GetVerifyDelay(),
		CloseDelay:  vs.cfg.GetCloseDelay(),
		MaxAttempts: vs.cfg.MaxAttempts,
		Listener:    vs.listenerFor(id),
	})

	if svcErr := vs.registry.Add(contextKey, s); svcErr != nil {
		s.Dispose()
		return nil, svcErr
	}

	logger.Debug("Verification session opened", log.String(log.LoggerKeySessionID, id),
		log.String(log.LoggerKeyReferenceID, request.Summary.ReferenceID))
	view := vs.buildView(id, contextKey, s)
	return &view, nil
}

// GetSession returns the current view of a session.
func (vs *verificationService) GetSession(id string) (*model.SessionView, *serviceerror.ServiceError) {
	entry, ok := vs.registry.Get(id)
	if !ok {
		return nil, &constants.ErrorSessionNotFound
	}
	view := vs.buildView(id, entry.ContextKey, entry.Session)
	return &view, nil
}

// Proceed moves a session from the details stage to the challenge stage.
func (vs *verificationService) Proceed(id string) (*model.SessionView, *serviceerror.ServiceError) {
	return vs.apply(id, (*session.Session).Proceed)
}

// Back returns a session to the details stage.
func (vs *verificationService) Back(id string) (*model.SessionView, *serviceerror.ServiceError) {
	return vs.apply(id, (*session.Session).Back)
}

// RefreshCaptcha presents a new captcha challenge.
func (vs *verificationService) RefreshCaptcha(id string) (*model.SessionView, *serviceerror.ServiceError) {
	return vs.apply(id, (*session.Session).RefreshCaptcha)
}

// Cancel closes a session that has not started verifying.
func (vs *verificationService) Cancel(id string) (*model.SessionView, *serviceerror.ServiceError) {
	return vs.apply(id, (*session.Session).Cancel)
}

// SetCell writes a character into a code cell.
func (vs *verificationService) SetCell(id string, index int,
	value string) (*model.CellResponse, *serviceerror.ServiceError) {
	return vs.editCell(id, func(s *session.Session) (otpentry.FocusSignal, *serviceerror.ServiceError) {
		return s.SetCell(index, value)
	})
}

// Backspace handles a backspace key press on a code cell.
func (vs *verificationService) Backspace(id string, index int) (*model.CellResponse, *serviceerror.ServiceError) {
	return vs.editCell(id, func(s *session.Session) (otpentry.FocusSignal, *serviceerror.ServiceError) {
		return s.Backspace(index)
	})
}

// Verify submits the captcha answer and the entered code.
func (vs *verificationService) Verify(id string,
	captchaAnswer string) (*model.VerifyResponse, *serviceerror.ServiceError) {
	entry, ok := vs.registry.Get(id)
	if !ok {
		return nil, &constants.ErrorSessionNotFound
	}

	outcome, svcErr := entry.Session.Verify(captchaAnswer)
	if svcErr != nil {
		return nil, svcErr
	}

	return &model.VerifyResponse{
		Outcome: outcome,
		Session: vs.buildView(id, entry.ContextKey, entry.Session),
	}, nil
}

// DisposeSession tears a session down from any stage without notifying listeners.
func (vs *verificationService) DisposeSession(id string) *serviceerror.ServiceError {
	entry, ok := vs.registry.Remove(id)
	if !ok {
		return &constants.ErrorSessionNotFound
	}
	entry.Session.Dispose()
	vs.receipts.Delete(id)

	log.GetLogger().With(log.String(log.LoggerKeyComponentName, "VerificationService")).
		Debug("Verification session disposed", log.String(log.LoggerKeySessionID, id))
	return nil
}

// GetReceipt reads a receipt from the journal.
func (vs *verificationService) GetReceipt(transactionReference string) (*model.Receipt, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "VerificationService"))

	if vs.receiptStore == nil || strings.TrimSpace(transactionReference) == "" {
		return nil, &constants.ErrorReceiptNotFound
	}

	receipt, err := vs.receiptStore.GetReceipt(transactionReference)
	if err != nil {
		logger.Error("Failed to read receipt", log.String("transactionReference", transactionReference),
			log.Error(err))
		return nil, &constants.ErrorInternalServerError
	}
	if receipt == nil {
		return nil, &constants.ErrorReceiptNotFound
	}
	return receipt, nil
}

// apply runs a stage transition on a session and returns the resulting view.
func (vs *verificationService) apply(id string,
	op func(*session.Session) *serviceerror.ServiceError) (*model.SessionView, *serviceerror.ServiceError) {
	entry, ok := vs.registry.Get(id)
	if !ok {
		return nil, &constants.ErrorSessionNotFound
	}
	if svcErr := op(entry.Session); svcErr != nil {
		return nil, svcErr
	}
	view := vs.buildView(id, entry.ContextKey, entry.Session)
	return &view, nil
}

// editCell runs a code cell edit and returns the focus signal with the resulting view.
func (vs *verificationService) editCell(id string,
	op func(*session.Session) (otpentry.FocusSignal, *serviceerror.ServiceError),
) (*model.CellResponse, *serviceerror.ServiceError) {
	entry, ok := vs.registry.Get(id)
	if !ok {
		return nil, &constants.ErrorSessionNotFound
	}
	signal, svcErr := op(entry.Session)
	if svcErr != nil {
		return nil, svcErr
	}
	return &model.CellResponse{
		Focus:   model.FocusResponse{Kind: string(signal.Kind), Index: signal.Index},
		Session: vs.buildView(id, entry.ContextKey, entry.Session),
	}, nil
}

// listenerFor builds the listener that connects a session to the registry and the receipt journal.
func (vs *verificationService) listenerFor(id string) session.Listener {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "VerificationService"),
		log.String(log.LoggerKeySessionID, id))

	return session.Listener{
		OnStageChange: func(from, to constants.Stage) {
			logger.Debug("Session stage changed", log.String("from", string(from)), log.String("to", string(to)))
		},
		OnVerified: func(summary model.TransactionSummary, transactionReference string) {
			receipt := model.Receipt{
				TransactionReference: transactionReference,
				ReferenceID:          summary.ReferenceID,
				Label:                summary.Label,
				Amount:               summary.Amount,
				Beneficiary:          summary.Beneficiary,
				VerifiedAt:           vs.now().UTC(),
			}
			vs.receipts.Store(id, receipt)

			if vs.receiptStore == nil {
				return
			}
			if err := vs.receiptStore.SaveReceipt(receipt); err != nil {
				logger.Error("Failed to journal receipt", log.String("transactionReference", transactionReference),
					log.Error(err))
			}
		},
		OnClosed: func() {
			vs.registry.Remove(id)
			vs.receipts.Delete(id)
			logger.Debug("Verification session closed")
		},
	}
}

// buildView renders the API view of a session.
func (vs *verificationService) buildView(id, contextKey string, s *session.Session) model.SessionView {
	snapshot := s.Snapshot()
	view := model.SessionView{
		ID:                   id,
		ContextKey:           contextKey,
		Stage:                snapshot.Stage,
		Details:              presenter.DetailLines(snapshot.Summary),
		Captcha:              snapshot.CaptchaText,
		Cells:                snapshot.Cells,
		FocusIndex:           snapshot.FocusIndex,
		Attempts:             snapshot.Attempts,
		Verified:             snapshot.Verified,
		TransactionReference: snapshot.TransactionReference,
	}

	if snapshot.Verified {
		receipt := model.Receipt{
			TransactionReference: snapshot.TransactionReference,
			ReferenceID:          snapshot.Summary.ReferenceID,
			Label:                snapshot.Summary.Label,
			Amount:               snapshot.Summary.Amount,
			Beneficiary:          snapshot.Summary.Beneficiary,
		}
		if stored, ok := vs.receipts.Load(id); ok {
			receipt = stored.(model.Receipt)
		}
		view.Receipt = presenter.ReceiptLines(receipt)
	}
	return view
}
