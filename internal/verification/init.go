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
	"crypto/rand"
	"net/http"

	"github.com/asgardeo/fundguard/internal/system/config"
	"github.com/asgardeo/fundguard/internal/system/middleware"
	"github.com/asgardeo/fundguard/internal/system/scheduler"
	"github.com/asgardeo/fundguard/internal/verification/otpverifier"
	"github.com/asgardeo/fundguard/internal/verification/store"
)

// Initialize creates the verification service components and registers the HTTP routes.
func Initialize(mux *http.ServeMux,
	receiptStore store.ReceiptStoreInterface) (VerificationServiceInterface, error) {
	cfg := config.GetServerRuntime().Config.Verification

	verifier, err := otpverifier.NewOTPVerifier(cfg.OTPVerifier)
	if err != nil {
		return nil, err
	}

	service := newVerificationService(cfg, verifier, scheduler.NewScheduler(), rand.Reader, receiptStore)
	handler := newVerificationHandler(service)
	registerRoutes(mux, handler)
	return service, nil
}

func registerRoutes(mux *http.ServeMux, handler *verificationHandler) {
	opts := middleware.CORSOptions{
		AllowedMethods:   "GET, POST, PUT, DELETE",
		AllowedHeaders:   "Content-Type, Authorization",
		AllowCredentials: true,
	}

	mux.HandleFunc(middleware.WithCORS("POST /verifications", handler.HandleOpenRequest, opts))
	mux.HandleFunc(middleware.WithCORS("OPTIONS /verifications", middleware.NoContent, opts))

	mux.HandleFunc(middleware.WithCORS("GET /verifications/{id}", handler.HandleGetRequest, opts))
	mux.HandleFunc(middleware.WithCORS("DELETE /verifications/{id}", handler.HandleDisposeRequest, opts))
	mux.HandleFunc(middleware.WithCORS("OPTIONS /verifications/{id}", middleware.NoContent, opts))

	mux.HandleFunc(middleware.WithCORS("POST /verifications/{id}/proceed", handler.HandleProceedRequest, opts))
	mux.HandleFunc(middleware.WithCORS("POST /verifications/{id}/back", handler.HandleBackRequest, opts))
	mux.HandleFunc(middleware.WithCORS("POST /verifications/{id}/cancel", handler.HandleCancelRequest, opts))
	mux.HandleFunc(middleware.WithCORS("POST /verifications/{id}/captcha/refresh",
		handler.HandleRefreshCaptchaRequest, opts))
	mux.HandleFunc(middleware.WithCORS("OPTIONS /verifications/{id}/captcha/refresh", middleware.NoContent, opts))
	mux.HandleFunc(middleware.WithCORS("POST /verifications/{id}/verify", handler.HandleVerifyRequest, opts))
	mux.HandleFunc(middleware.WithCORS("OPTIONS /verifications/{id}/{action}", middleware.NoContent, opts))

	mux.HandleFunc(middleware.WithCORS("PUT /verifications/{id}/otp/{index}", handler.HandleSetCellRequest, opts))
	mux.HandleFunc(middleware.WithCORS("POST /verifications/{id}/otp/{index}/backspace",
		handler.HandleBackspaceRequest, opts))
	mux.HandleFunc(middleware.WithCORS("OPTIONS /verifications/{id}/otp/{index}", middleware.NoContent, opts))
	mux.HandleFunc(middleware.WithCORS("OPTIONS /verifications/{id}/otp/{index}/backspace",
		middleware.NoContent, opts))

	mux.HandleFunc(middleware.WithCORS("GET /receipts/{reference}", handler.HandleGetReceiptRequest, opts))
	mux.HandleFunc(middleware.WithCORS("OPTIONS /receipts/{reference}", middleware.NoContent, opts))
}
