package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenClaims struct {
	// Meta data
	Claim interface{} `json:"claim"`

	// Inherit from registered claims
	jwt.RegisteredClaims
}

// GenerateJWTToken signs claim with an ES256 private key. A positive expireOffsetHour
// sets the expiry relative to now.
func GenerateJWTToken(privateKeydata []byte, claim TokenClaims, expireOffsetHour int64) (string, error) {
	privateKey, keyErr := jwt.ParseECPrivateKeyFromPEM(privateKeydata)
	if keyErr != nil {
		return "", fmt.Errorf("unable to parse private key: %w", keyErr)
	}

	if expireOffsetHour > 0 && claim.ExpiresAt == nil {
		claim.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Duration(expireOffsetHour) * time.Hour))
	}
	if claim.IssuedAt == nil {
		claim.IssuedAt = jwt.NewNumericDate(time.Now())
	}

	method := jwt.GetSigningMethod(jwt.SigningMethodES256.Name)
	return jwt.NewWithClaims(method, claim).SignedString(privateKey)
}

// ValidateToken
func ValidateToken(keydata []byte, token string) (jwt.MapClaims, error) {
	publicKey, keyErr := jwt.ParseECPublicKeyFromPEM(keydata)
	if keyErr != nil {
		return nil, keyErr
	}

	parsed, parseErr := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return publicKey, nil
	})
	if parseErr != nil {
		return nil, parseErr
	}

	if claims, ok := parsed.Claims.(jwt.MapClaims); ok && parsed.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("token claim is not valid")
}
