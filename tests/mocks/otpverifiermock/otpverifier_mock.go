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

// Package otpverifiermock provides mock implementations of the one-time code verifier.
package otpverifiermock

// MockOTPVerifier is a mock implementation of the OTPVerifierInterface.
type MockOTPVerifier struct {
	// MockVerifyOTP defines the behavior for the VerifyOTP method.
	MockVerifyOTP func(code string) bool

	// VerifyOTPCalls tracks the codes passed to VerifyOTP.
	VerifyOTPCalls []string
}

// VerifyOTP mocks the VerifyOTP method of the OTPVerifierInterface.
func (m *MockOTPVerifier) VerifyOTP(code string) bool {
	m.VerifyOTPCalls = append(m.VerifyOTPCalls, code)

	if m.MockVerifyOTP != nil {
		return m.MockVerifyOTP(code)
	}
	return true
}
