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

package constants

import "github.com/asgardeo/fundguard/internal/system/error/serviceerror"

// Client errors for verification operations.
var (
	// ErrorInvalidRequestFormat is the error returned when the request body is malformed.
	ErrorInvalidRequestFormat = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "VRF-1001",
		Error:            "Invalid request format",
		ErrorDescription: "The request body is malformed or contains invalid data",
	}
	// ErrorSessionNotFound is the error returned when a verification session does not exist.
	ErrorSessionNotFound = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "VRF-1002",
		Error:            "Session not found",
		ErrorDescription: "The requested verification session could not be found",
	}
	// ErrorInvalidTransition is the error returned when an operation is not allowed in the current stage.
	ErrorInvalidTransition = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "VRF-1003",
		Error:            "Invalid transition",
		ErrorDescription: "The operation is not allowed in the current stage of the session",
	}
	// ErrorSessionAlreadyActive is the error returned when a session is already open for the context.
	ErrorSessionAlreadyActive = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "VRF-1004",
		Error:            "Session already active",
		ErrorDescription: "A verification session is already open for the given context",
	}
	// ErrorSessionLimitReached is the error returned when no more sessions can be opened.
	ErrorSessionLimitReached = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "VRF-1005",
		Error:            "Session limit reached",
		ErrorDescription: "The maximum number of open verification sessions has been reached",
	}
	// ErrorInvalidSummary is the error returned when the transaction summary is invalid.
	ErrorInvalidSummary = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "VRF-1006",
		Error:            "Invalid transaction summary",
		ErrorDescription: "The transaction summary requires a reference id and a non-negative amount",
	}
	// ErrorInvalidCellIndex is the error returned when a code cell index is out of range.
	ErrorInvalidCellIndex = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "VRF-1007",
		Error:            "Invalid cell index",
		ErrorDescription: "The code cell index must be between 0 and 5",
	}
	// ErrorReceiptNotFound is the error returned when a receipt does not exist.
	ErrorReceiptNotFound = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "VRF-1008",
		Error:            "Receipt not found",
		ErrorDescription: "No receipt exists for the given transaction reference",
	}
	// ErrorInvalidContextKey is the error returned when the trigger context is missing.
	ErrorInvalidContextKey = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             "VRF-1009",
		Error:            "Invalid context",
		ErrorDescription: "A trigger context is required to open a verification session",
	}
)

// Server errors for verification operations.
var (
	// ErrorInternalServerError is the error returned when an unexpected error occurs.
	ErrorInternalServerError = serviceerror.ServiceError{
		Type:             serviceerror.ServerErrorType,
		Code:             "VRF-5000",
		Error:            "Internal server error",
		ErrorDescription: "An unexpected error occurred while processing the request",
	}
)
