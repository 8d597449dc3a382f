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

package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/fundguard/internal/system/error/apierror"
)

type HTTPUtilTestSuite struct {
	suite.Suite
}

func TestHTTPUtilSuite(t *testing.T) {
	suite.Run(t, new(HTTPUtilTestSuite))
}

type samplePayload struct {
	Captcha string `json:"captcha"`
}

func (suite *HTTPUtilTestSuite) TestDecodeJSONBody() {
	testCases := []struct {
		name        string
		body        string
		expected    string
		expectedErr string
	}{
		{"ValidBody", `{"captcha":"Ab3dE7"}`, "Ab3dE7", ""},
		{"EmptyBody", "", "", "request body is empty"},
		{"MalformedBody", `{"captcha":`, "", "failed to decode JSON body"},
	}

	for _, tc := range testCases {
		suite.T().Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/verifications/x/verify", strings.NewReader(tc.body))

			payload, err := DecodeJSONBody[samplePayload](req)

			if tc.expectedErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErr)
				assert.Nil(t, payload)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, payload.Captcha)
		})
	}
}

func (suite *HTTPUtilTestSuite) TestWriteJSONResponse() {
	rr := httptest.NewRecorder()

	WriteJSONResponse(rr, http.StatusCreated, samplePayload{Captcha: "XyZ234"})

	suite.Equal(http.StatusCreated, rr.Code)
	suite.Equal("application/json", rr.Header().Get("Content-Type"))

	var decoded samplePayload
	suite.NoError(json.Unmarshal(rr.Body.Bytes(), &decoded))
	suite.Equal("XyZ234", decoded.Captcha)
}

func (suite *HTTPUtilTestSuite) TestWriteJSONError() {
	rr := httptest.NewRecorder()

	WriteJSONError(rr, "VRF-1002", "Session not found", "No session with the given id", http.StatusNotFound)

	suite.Equal(http.StatusNotFound, rr.Code)
	suite.Equal("application/json", rr.Header().Get("Content-Type"))

	var errResp apierror.ErrorResponse
	suite.NoError(json.Unmarshal(rr.Body.Bytes(), &errResp))
	suite.Equal("VRF-1002", errResp.Code)
	suite.Equal("Session not found", errResp.Message)
	suite.Equal("No session with the given id", errResp.Description)
}
