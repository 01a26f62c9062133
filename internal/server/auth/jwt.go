// Package auth mints and parses the signed principal tokens handed to the
// command layer after login. A token is a convenience for callers; the
// ledger engine always re-reads the role from the account store before
// admin-gated operations.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/ledgerkeeper/internal/common"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the principal's identity next to the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string
	Username  string
	Role      models.Role
}

// GenerateToken signs an HS256 token for the principal, valid for
// validityDuration from now.
func GenerateToken(p *models.Principal, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		AccountID: p.AccountID,
		Username:  p.Username,
		Role:      p.Role,
	})

	return token.SignedString(secretKey)
}

// ParsePrincipal validates tokenString and returns the principal it encodes.
// Expired tokens yield common.ErrTokenExpired, all other validation failures
// common.ErrInvalidToken.
func ParsePrincipal(tokenString string, secretKey []byte) (*models.Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return &models.Principal{
		AccountID: claims.AccountID,
		Username:  claims.Username,
		Role:      claims.Role,
	}, nil
}
