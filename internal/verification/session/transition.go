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

import "github.com/asgardeo/fundguard/internal/verification/constants"

// transitions lists every legal (stage, event) pair and the stage it leads to.
var transitions = map[constants.Stage]map[constants.Event]constants.Stage{
	constants.StageDetails: {
		constants.EventProceed: constants.StageChallenge,
		constants.EventCancel:  constants.StageClosed,
	},
	constants.StageChallenge: {
		constants.EventBack:              constants.StageDetails,
		constants.EventCancel:            constants.StageClosed,
		constants.EventEditCode:          constants.StageChallenge,
		constants.EventRefreshCaptcha:    constants.StageChallenge,
		constants.EventSubmitIncomplete:  constants.StageChallenge,
		constants.EventSubmitMismatch:    constants.StageChallenge,
		constants.EventSubmitRejected:    constants.StageChallenge,
		constants.EventSubmitAccepted:    constants.StageVerifying,
		constants.EventAttemptsExhausted: constants.StageClosed,
	},
	constants.StageVerifying: {
		constants.EventVerifyDelayElapsed: constants.StageSuccess,
	},
	constants.StageSuccess: {
		constants.EventCloseDelayElapsed: constants.StageClosed,
	},
}

// transition returns the stage reached by applying event in stage.
func transition(stage constants.Stage, event constants.Event) (constants.Stage, bool) {
	next, ok := transitions[stage][event]
	return next, ok
}
