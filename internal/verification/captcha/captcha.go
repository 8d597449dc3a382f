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

// Package captcha generates the human readable challenges shown alongside the one-time code.
package captcha

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"math/big"
)

const (
	// Alphabet is the set of characters a challenge is drawn from. 0, O, 1, I, i, l and o are excluded.
	Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"
	// Length is the number of characters in every challenge.
	Length = 6
)

// Challenge is an immutable captcha challenge.
type Challenge struct {
	text string
}

// NewChallenge wraps an existing challenge text.
func NewChallenge(text string) Challenge {
	return Challenge{text: text}
}

// Text returns the challenge text.
func (c Challenge) Text() string {
	return c.text
}

// Matches reports whether the answer is exactly the challenge text. The comparison is case sensitive.
func (c Challenge) Matches(answer string) bool {
	if c.text == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.text), []byte(answer)) == 1
}

// GeneratorInterface defines the interface for generating captcha challenges.
type GeneratorInterface interface {
	Generate() (Challenge, error)
}

// Generator draws challenges from a source of randomness.
type Generator struct {
	random io.Reader
}

// NewGenerator creates a generator reading from the given source, or crypto/rand when it is nil.
func NewGenerator(random io.Reader) *Generator {
	if random == nil {
		random = rand.Reader
	}
	return &Generator{random: random}
}

// Generate draws a new challenge. Each character is picked uniformly and independently.
func (g *Generator) Generate() (Challenge, error) {
	chars := []byte(Alphabet)
	result := make([]byte, Length)

	max := big.NewInt(int64(len(chars)))
	for i := 0; i < Length; i++ {
		n, err := rand.Int(g.random, max)
		if err != nil {
			return Challenge{}, fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = chars[n.Int64()]
	}

	return Challenge{text: string(result)}, nil
}
