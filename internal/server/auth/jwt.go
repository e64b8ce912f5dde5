// Package auth issues and verifies the HS256 bearer tokens protecting the
// API. Token issuance lives with the surrounding product; the server only
// needs verification plus a helper for tests and operators.
package auth

import (
	"time"

	"github.com/avolkov/qrforge/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the client identifier the
// middleware exposes to handlers.
type Claims struct {
	jwt.RegisteredClaims
	ClientID string
}

// GenerateToken signs a token for clientID, valid for validityDuration.
func GenerateToken(clientID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		ClientID: clientID,
	})

	return token.SignedString(secretKey)
}

// ClientIDFromToken verifies the signature and expiry and returns the
// embedded client identifier.
func ClientIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.ClientID, nil
}
