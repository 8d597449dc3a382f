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

package cert

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/fundguard/internal/system/config"
)

type CertTestSuite struct {
	suite.Suite
	home string
}

func TestCertSuite(t *testing.T) {
	suite.Run(t, new(CertTestSuite))
}

func (suite *CertTestSuite) SetupTest() {
	suite.home = suite.T().TempDir()
}

// writeKeyPair writes a self-signed certificate and its key under the test home.
func (suite *CertTestSuite) writeKeyPair() {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	suite.Require().NoError(err)

	template := x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{Organization: []string{"fundguard"}, CommonName: "localhost"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		DNSNames:              []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	suite.Require().NoError(err)

	keyDer, err := x509.MarshalECPrivateKey(key)
	suite.Require().NoError(err)

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDer})
	suite.Require().NoError(os.WriteFile(filepath.Join(suite.home, "server.cert"), certPEM, 0600))
	suite.Require().NoError(os.WriteFile(filepath.Join(suite.home, "server.key"), keyPEM, 0600))
}

func securityConfig(certFile, keyFile string) *config.Config {
	return &config.Config{Security: config.SecurityConfig{CertFile: certFile, KeyFile: keyFile}}
}

func (suite *CertTestSuite) TestGetTLSConfigSuccess() {
	suite.writeKeyPair()

	tlsConfig, err := GetTLSConfig(securityConfig("server.cert", "server.key"), suite.home)

	suite.NoError(err)
	suite.Len(tlsConfig.Certificates, 1)
	suite.Equal(uint16(tls.VersionTLS12), tlsConfig.MinVersion)
}

func (suite *CertTestSuite) TestGetTLSConfigErrors() {
	suite.writeKeyPair()
	suite.Require().NoError(os.WriteFile(filepath.Join(suite.home, "broken.cert"), []byte("not a cert"), 0600))

	testCases := []struct {
		name     string
		certFile string
		keyFile  string
		contains string
	}{
		{"NotConfigured", "", "", "must be configured"},
		{"CertMissing", "missing.cert", "server.key", "certificate file not found"},
		{"KeyMissing", "server.cert", "missing.key", "key file not found"},
		{"InvalidCert", "broken.cert", "server.key", ""},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			tlsConfig, err := GetTLSConfig(securityConfig(tc.certFile, tc.keyFile), suite.home)
			suite.Nil(tlsConfig)
			suite.Error(err)
			if tc.contains != "" {
				suite.Contains(err.Error(), tc.contains)
			}
		})
	}
}
