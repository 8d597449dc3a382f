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

// Package otpentry manages the fixed width one-time code input and its focus navigation.
package otpentry

import (
	"strings"
	"unicode/utf8"

	"github.com/asgardeo/fundguard/internal/verification/constants"
)

// FocusKind is the direction of a focus move requested by the controller.
type FocusKind string

const (
	// FocusNone requests no focus change.
	FocusNone FocusKind = "NONE"
	// FocusAdvance requests focus on the next cell.
	FocusAdvance FocusKind = "ADVANCE"
	// FocusRetreat requests focus on the previous cell.
	FocusRetreat FocusKind = "RETREAT"
)

// FocusSignal asks the presentation layer to move input focus to Index.
type FocusSignal struct {
	Kind  FocusKind
	Index int
}

// noFocus is the signal for events that do not move focus.
func noFocus(index int) FocusSignal {
	return FocusSignal{Kind: FocusNone, Index: index}
}

// Entry holds the code cells and the focused index.
type Entry struct {
	cells [constants.CodeLength]string
	focus int
}

// New creates an empty entry focused on the first cell.
func New() *Entry {
	return &Entry{}
}

// SetCell stores a character at index. Only the first character of value is kept and an empty
// value clears the cell. It returns false without changes when the index is out of range.
func (e *Entry) SetCell(index int, value string) (FocusSignal, bool) {
	if !inRange(index) {
		return noFocus(e.focus), false
	}

	if value == "" {
		e.cells[index] = ""
		e.focus = index
		return noFocus(index), true
	}

	r, _ := utf8.DecodeRuneInString(value)
	if r == utf8.RuneError {
		return noFocus(e.focus), false
	}
	e.cells[index] = string(r)

	if index < constants.CodeLength-1 {
		e.focus = index + 1
		return FocusSignal{Kind: FocusAdvance, Index: e.focus}, true
	}
	e.focus = index
	return noFocus(index), true
}

// HandleBackspaceAt moves focus to the previous cell when the cell at index is already empty.
// It never deletes characters.
func (e *Entry) HandleBackspaceAt(index int) (FocusSignal, bool) {
	if !inRange(index) {
		return noFocus(e.focus), false
	}

	if e.cells[index] == "" && index > 0 {
		e.focus = index - 1
		return FocusSignal{Kind: FocusRetreat, Index: e.focus}, true
	}
	e.focus = index
	return noFocus(index), true
}

// Cell returns the character at index, or an empty string when the index is out of range.
func (e *Entry) Cell(index int) string {
	if !inRange(index) {
		return ""
	}
	return e.cells[index]
}

// Value returns the concatenation of all cells in order.
func (e *Entry) Value() string {
	return strings.Join(e.cells[:], "")
}

// Filled returns the number of non-empty cells.
func (e *Entry) Filled() int {
	count := 0
	for _, c := range e.cells {
		if c != "" {
			count++
		}
	}
	return count
}

// IsComplete reports whether every cell holds a character.
func (e *Entry) IsComplete() bool {
	return e.Filled() == constants.CodeLength
}

// Cells returns a copy of the cells.
func (e *Entry) Cells() []string {
	cells := make([]string, constants.CodeLength)
	copy(cells, e.cells[:])
	return cells
}

// Focus returns the focused cell index.
func (e *Entry) Focus() int {
	return e.focus
}

// Reset clears all cells and focuses the first cell.
func (e *Entry) Reset() {
	e.cells = [constants.CodeLength]string{}
	e.focus = 0
}

func inRange(index int) bool {
	return index >= 0 && index < constants.CodeLength
}
