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

// Package otpverifier provides the implementations that decide whether a one-time code is valid.
package otpverifier

import (
	"errors"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/asgardeo/fundguard/internal/system/config"
	"github.com/asgardeo/fundguard/internal/system/log"
	"github.com/asgardeo/fundguard/internal/verification/constants"
)

const (
	// TypeLength selects the verifier that accepts any complete code.
	TypeLength = "length"
	// TypeTOTP selects the time based one-time password verifier.
	TypeTOTP = "totp"
)

// OTPVerifierInterface checks a complete one-time code.
type OTPVerifierInterface interface {
	VerifyOTP(code string) bool
}

// lengthVerifier accepts any code of the expected length.
type lengthVerifier struct{}

// NewLengthVerifier returns a verifier that only checks the code length.
func NewLengthVerifier() OTPVerifierInterface {
	return &lengthVerifier{}
}

func (v *lengthVerifier) VerifyOTP(code string) bool {
	return len([]rune(code)) == constants.CodeLength
}

// totpVerifier validates codes against a shared TOTP secret.
type totpVerifier struct {
	secret string
	opts   totp.ValidateOpts
	now    func() time.Time
}

// NewTOTPVerifier returns a verifier that validates six digit SHA1 TOTP codes.
func NewTOTPVerifier(secret string, period, skew uint) OTPVerifierInterface {
	return newTOTPVerifier(secret, period, skew, time.Now)
}

func newTOTPVerifier(secret string, period, skew uint, now func() time.Time) *totpVerifier {
	return &totpVerifier{
		secret: secret,
		opts: totp.ValidateOpts{
			Period:    period,
			Skew:      skew,
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA1,
		},
		now: now,
	}
}

func (v *totpVerifier) VerifyOTP(code string) bool {
	valid, err := totp.ValidateCustom(code, v.secret, v.now().UTC(), v.opts)
	if err != nil {
		logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "TOTPVerifier"))
		logger.Debug("One-time code validation failed", log.Error(err))
		return false
	}
	return valid
}

// NewOTPVerifier builds the verifier selected in the configuration.
func NewOTPVerifier(cfg config.OTPVerifierConfig) (OTPVerifierInterface, error) {
	switch cfg.Type {
	case "", TypeLength:
		return NewLengthVerifier(), nil
	case TypeTOTP:
		if cfg.TOTPSecret == "" {
			return nil, errors.New("totp verifier requires a secret")
		}
		return NewTOTPVerifier(cfg.TOTPSecret, cfg.GetTOTPPeriod(), cfg.GetTOTPSkew()), nil
	default:
		return nil, fmt.Errorf("unsupported otp verifier type: %s", cfg.Type)
	}
}
