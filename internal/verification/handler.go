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

package verification

import (
	"net/http"
	"strconv"

	"github.com/asgardeo/fundguard/internal/system/error/serviceerror"
	"github.com/asgardeo/fundguard/internal/system/log"
	sysutils "github.com/asgardeo/fundguard/internal/system/utils"
	"github.com/asgardeo/fundguard/internal/verification/constants"
	"github.com/asgardeo/fundguard/internal/verification/model"
)

// verificationHandler handles HTTP requests for verification sessions.
type verificationHandler struct {
	service VerificationServiceInterface
}

// newVerificationHandler creates a new instance of verificationHandler.
func newVerificationHandler(service VerificationServiceInterface) *verificationHandler {
	return &verificationHandler{
		service: service,
	}
}

// HandleOpenRequest handles the request to open a verification session.
func (h *verificationHandler) HandleOpenRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "VerificationHandler"))

	request, err := sysutils.DecodeJSONBody[model.OpenSessionRequest](r)
	if err != nil {
		h.handleError(w, logger, &constants.ErrorInvalidRequestFormat, "Failed to parse request body: "+err.Error())
		return
	}

	view, svcErr := h.service.OpenSession(*request)
	if svcErr != nil {
		h.handleError(w, logger, svcErr, "")
		return
	}

	sysutils.WriteJSONResponse(w, http.StatusCreated, view)
}

// HandleGetRequest handles the request to read a verification session.
func (h *verificationHandler) HandleGetRequest(w http.ResponseWriter, r *http.Request) {
	h.respondWithView(w, r, h.service.GetSession)
}

// HandleProceedRequest handles the request to move from the details stage to the challenge stage.
func (h *verificationHandler) HandleProceedRequest(w http.ResponseWriter, r *http.Request) {
	h.respondWithView(w, r, h.service.Proceed)
}

// HandleBackRequest handles the request to return to the details stage.
func (h *verificationHandler) HandleBackRequest(w http.ResponseWriter, r *http.Request) {
	h.respondWithView(w, r, h.service.Back)
}

// HandleRefreshCaptchaRequest handles the request to replace the captcha challenge.
func (h *verificationHandler) HandleRefreshCaptchaRequest(w http.ResponseWriter, r *http.Request) {
	h.respondWithView(w, r, h.service.RefreshCaptcha)
}

// HandleCancelRequest handles the request to cancel a verification session.
func (h *verificationHandler) HandleCancelRequest(w http.ResponseWriter, r *http.Request) {
	h.respondWithView(w, r, h.service.Cancel)
}

// HandleSetCellRequest handles the request to write a code cell.
func (h *verificationHandler) HandleSetCellRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "VerificationHandler"))

	index, ok := h.parseIndex(w, r, logger)
	if !ok {
		return
	}
	request, err := sysutils.DecodeJSONBody[model.SetCellRequest](r)
	if err != nil {
		h.handleError(w, logger, &constants.ErrorInvalidRequestFormat, "Failed to parse request body: "+err.Error())
		return
	}

	resp, svcErr := h.service.SetCell(r.PathValue("id"), index, request.Value)
	if svcErr != nil {
		h.handleError(w, logger, svcErr, "")
		return
	}

	sysutils.WriteJSONResponse(w, http.StatusOK, resp)
}

// HandleBackspaceRequest handles a backspace key press on a code cell.
func (h *verificationHandler) HandleBackspaceRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "VerificationHandler"))

	index, ok := h.parseIndex(w, r, logger)
	if !ok {
		return
	}

	resp, svcErr := h.service.Backspace(r.PathValue("id"), index)
	if svcErr != nil {
		h.handleError(w, logger, svcErr, "")
		return
	}

	sysutils.WriteJSONResponse(w, http.StatusOK, resp)
}

// HandleVerifyRequest handles a verify attempt.
func (h *verificationHandler) HandleVerifyRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "VerificationHandler"))

	request, err := sysutils.DecodeJSONBody[model.VerifyRequest](r)
	if err != nil {
		h.handleError(w, logger, &constants.ErrorInvalidRequestFormat, "Failed to parse request body: "+err.Error())
		return
	}

	resp, svcErr := h.service.Verify(r.PathValue("id"), request.Captcha)
	if svcErr != nil {
		h.handleError(w, logger, svcErr, "")
		return
	}

	sysutils.WriteJSONResponse(w, http.StatusOK, resp)
}

// HandleDisposeRequest handles the request to tear a verification session down.
func (h *verificationHandler) HandleDisposeRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "VerificationHandler"))

	if svcErr := h.service.DisposeSession(r.PathValue("id")); svcErr != nil {
		h.handleError(w, logger, svcErr, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleGetReceiptRequest handles the request to read a receipt.
func (h *verificationHandler) HandleGetReceiptRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "VerificationHandler"))

	receipt, svcErr := h.service.GetReceipt(r.PathValue("reference"))
	if svcErr != nil {
		h.handleError(w, logger, svcErr, "")
		return
	}

	sysutils.WriteJSONResponse(w, http.StatusOK, receipt)
}

// respondWithView runs a session operation keyed by the id path value and writes the resulting view.
func (h *verificationHandler) respondWithView(w http.ResponseWriter, r *http.Request,
	op func(id string) (*model.SessionView, *serviceerror.ServiceError)) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "VerificationHandler"))

	view, svcErr := op(r.PathValue("id"))
	if svcErr != nil {
		h.handleError(w, logger, svcErr, "")
		return
	}

	sysutils.WriteJSONResponse(w, http.StatusOK, view)
}

// parseIndex reads the cell index path value.
func (h *verificationHandler) parseIndex(w http.ResponseWriter, r *http.Request, logger *log.Logger) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		h.handleError(w, logger, &constants.ErrorInvalidCellIndex, "")
		return 0, false
	}
	return index, true
}

// handleError writes a service error as an API error response.
func (h *verificationHandler) handleError(w http.ResponseWriter, logger *log.Logger,
	svcErr *serviceerror.ServiceError, customErrDesc string) {
	errDesc := svcErr.ErrorDescription
	if customErrDesc != "" {
		errDesc = customErrDesc
	}

	statusCode := http.StatusInternalServerError
	if svcErr.Type == serviceerror.ClientErrorType {
		switch svcErr.Code {
		case constants.ErrorSessionNotFound.Code, constants.ErrorReceiptNotFound.Code:
			statusCode = http.StatusNotFound
		case constants.ErrorSessionAlreadyActive.Code, constants.ErrorInvalidTransition.Code:
			statusCode = http.StatusConflict
		case constants.ErrorSessionLimitReached.Code:
			statusCode = http.StatusTooManyRequests
		default:
			statusCode = http.StatusBadRequest
		}
	} else {
		logger.Error("Verification request failed", log.String("code", svcErr.Code))
	}

	sysutils.WriteJSONError(w, svcErr.Code, svcErr.Error, errDesc, statusCode)
}
