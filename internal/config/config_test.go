package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigCarriesRSAPublicKey(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	t.Setenv("APP_PORT", "8080")
	t.Setenv("DEMO_MODE", "true")
	t.Setenv("RSA_PUBLIC_KEY_BASE64", base64.StdEncoding.EncodeToString(pemBytes))

	cfg := LoadConfig()

	// The parsed key must land on the config so main can hand it to the
	// auth middleware; a nil key would reject every bearer token.
	require.NotNil(t, cfg.RSAPublicKey)
	require.Equal(t, &key.PublicKey, cfg.RSAPublicKey)
	require.True(t, cfg.DemoMode)
	require.Equal(t, "8080", cfg.AppPort)
}
