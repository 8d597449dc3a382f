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

// Package config provides structures and functions for loading and managing server configurations.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/asgardeo/fundguard/internal/system/log"

	yaml "gopkg.in/yaml.v3"
)

const (
	defaultVerifyDelay  = 2 * time.Second
	defaultCloseDelay   = 3 * time.Second
	defaultSessionLimit = 1000
	defaultTOTPPeriod   = 30
	defaultTOTPSkew     = 1
)

// ServerConfig holds the server configuration details.
type ServerConfig struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	HTTPOnly bool   `yaml:"http_only"`
}

// SecurityConfig holds the security configuration details.
type SecurityConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// CORSConfig holds the configuration details for cross-origin requests.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DataSource holds the individual database connection details.
type DataSource struct {
	Type            string `yaml:"type"`
	Hostname        string `yaml:"hostname"`
	Port            int    `yaml:"port"`
	Name            string `yaml:"name"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	SSLMode         string `yaml:"sslmode"`
	Path            string `yaml:"path"`
	Options         string `yaml:"options"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"`
}

// DatabaseConfig holds the different database configuration details.
type DatabaseConfig struct {
	Receipts DataSource `yaml:"receipts"`
}

// OTPVerifierConfig selects the implementation used to check one-time codes.
type OTPVerifierConfig struct {
	// Type is either "length" (accept any complete code) or "totp".
	Type       string `yaml:"type"`
	TOTPSecret string `yaml:"totp_secret"`
	TOTPPeriod uint   `yaml:"totp_period"`
	TOTPSkew   uint   `yaml:"totp_skew"`
}

// VerificationConfig holds the configuration of the fund release verification flow.
type VerificationConfig struct {
	VerifyDelay  string            `yaml:"verify_delay"`
	CloseDelay   string            `yaml:"close_delay"`
	MaxAttempts  int               `yaml:"max_attempts"`
	SessionLimit int               `yaml:"session_limit"`
	OTPVerifier  OTPVerifierConfig `yaml:"otp_verifier"`
}

// Config holds the complete configuration details of the server.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Security     SecurityConfig     `yaml:"security"`
	CORS         CORSConfig         `yaml:"cors"`
	Database     DatabaseConfig     `yaml:"database"`
	Verification VerificationConfig `yaml:"verification"`
}

// LoadConfig loads the configurations from the specified YAML file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	path = filepath.Clean(path)

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if ferr := file.Close(); ferr != nil {
			log.GetLogger().Error("Failed to close config file", log.Error(ferr))
		}
	}()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetVerifyDelay returns the delay between accepting a submission and reporting success.
func (c VerificationConfig) GetVerifyDelay() time.Duration {
	return parseDelay(c.VerifyDelay, defaultVerifyDelay)
}

// GetCloseDelay returns the delay between reporting success and closing the session.
func (c VerificationConfig) GetCloseDelay() time.Duration {
	return parseDelay(c.CloseDelay, defaultCloseDelay)
}

// GetSessionLimit returns the maximum number of concurrently open sessions.
func (c VerificationConfig) GetSessionLimit() int {
	if c.SessionLimit <= 0 {
		return defaultSessionLimit
	}
	return c.SessionLimit
}

// GetTOTPPeriod returns the TOTP step in seconds.
func (c OTPVerifierConfig) GetTOTPPeriod() uint {
	if c.TOTPPeriod == 0 {
		return defaultTOTPPeriod
	}
	return c.TOTPPeriod
}

// GetTOTPSkew returns the number of TOTP steps tolerated on either side of now.
func (c OTPVerifierConfig) GetTOTPSkew() uint {
	if c.TOTPSkew == 0 {
		return defaultTOTPSkew
	}
	return c.TOTPSkew
}

func parseDelay(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		log.GetLogger().Warn("Invalid delay in configuration, using default",
			log.String("value", value), log.Duration("default", fallback))
		return fallback
	}
	return d
}
