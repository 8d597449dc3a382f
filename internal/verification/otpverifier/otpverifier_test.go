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

package otpverifier

import (
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/fundguard/internal/system/config"
)

const testSecret = "JBSWY3DPEHPK3PXP"

type OTPVerifierTestSuite struct {
	suite.Suite
}

func TestOTPVerifierSuite(t *testing.T) {
	suite.Run(t, new(OTPVerifierTestSuite))
}

func (suite *OTPVerifierTestSuite) TestLengthVerifier() {
	verifier := NewLengthVerifier()

	testCases := []struct {
		name     string
		code     string
		expected bool
	}{
		{"SixDigits", "123456", true},
		{"SixLetters", "abcdef", true},
		{"Short", "12345", false},
		{"Long", "1234567", false},
		{"Empty", "", false},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, verifier.VerifyOTP(tc.code))
		})
	}
}

func (suite *OTPVerifierTestSuite) TestTOTPVerifier() {
	fixed := time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)
	verifier := newTOTPVerifier(testSecret, 30, 1, func() time.Time { return fixed })

	current := suite.codeAt(fixed)
	previous := suite.codeAt(fixed.Add(-30 * time.Second))
	stale := suite.codeAt(fixed.Add(-5 * time.Minute))

	suite.True(verifier.VerifyOTP(current))
	suite.True(verifier.VerifyOTP(previous))
	if stale != current && stale != previous {
		suite.False(verifier.VerifyOTP(stale))
	}
	suite.False(verifier.VerifyOTP("12345"))
	suite.False(verifier.VerifyOTP("abcdef"))
}

func (suite *OTPVerifierTestSuite) TestTOTPVerifierInvalidSecret() {
	verifier := newTOTPVerifier("not base32!", 30, 1, time.Now)

	suite.False(verifier.VerifyOTP("123456"))
}

func (suite *OTPVerifierTestSuite) TestNewOTPVerifier() {
	testCases := []struct {
		name        string
		cfg         config.OTPVerifierConfig
		expectTOTP  bool
		expectError bool
	}{
		{"DefaultsToLength", config.OTPVerifierConfig{}, false, false},
		{"Length", config.OTPVerifierConfig{Type: TypeLength}, false, false},
		{"TOTP", config.OTPVerifierConfig{Type: TypeTOTP, TOTPSecret: testSecret}, true, false},
		{"TOTPWithoutSecret", config.OTPVerifierConfig{Type: TypeTOTP}, false, true},
		{"Unknown", config.OTPVerifierConfig{Type: "sms"}, false, true},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			verifier, err := NewOTPVerifier(tc.cfg)
			if tc.expectError {
				suite.Error(err)
				suite.Nil(verifier)
				return
			}
			suite.NoError(err)
			if tc.expectTOTP {
				v, ok := verifier.(*totpVerifier)
				suite.Require().True(ok)
				suite.Equal(uint(30), v.opts.Period)
				suite.Equal(uint(1), v.opts.Skew)
			} else {
				suite.IsType(&lengthVerifier{}, verifier)
			}
		})
	}
}

func (suite *OTPVerifierTestSuite) codeAt(t time.Time) string {
	code, err := totp.GenerateCodeCustom(testSecret, t, totp.ValidateOpts{
		Period:    30,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	suite.Require().NoError(err)
	return code
}
