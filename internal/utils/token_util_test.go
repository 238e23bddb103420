package utils

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyPair(t *testing.T) ([]byte, []byte) {
	t.Helper()
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	privDER, err := x509.MarshalECPrivateKey(ecKey)
	require.NoError(t, err)
	pubDER, err := x509.MarshalPKIXPublicKey(&ecKey.PublicKey)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: privDER}),
		pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
}

func TestGenerateAndValidateToken(t *testing.T) {
	privPEM, pubPEM := keyPair(t)

	tok, err := GenerateJWTToken(privPEM, TokenClaims{Claim: map[string]interface{}{"uid": "u1"}}, 1)
	require.NoError(t, err)

	claims, err := ValidateToken(pubPEM, tok)
	require.NoError(t, err)
	claim, ok := claims["claim"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "u1", claim["uid"])
	assert.NotNil(t, claims["exp"])
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	privPEM, pubPEM := keyPair(t)

	claims := TokenClaims{}
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	tok, err := GenerateJWTToken(privPEM, claims, 0)
	require.NoError(t, err)

	_, err = ValidateToken(pubPEM, tok)
	assert.Error(t, err)
}

func TestGenerateJWTTokenRejectsBadKey(t *testing.T) {
	_, err := GenerateJWTToken([]byte("not a key"), TokenClaims{}, 1)
	assert.Error(t, err)
}
