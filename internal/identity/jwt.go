package identity

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims includes the standard claims plus the user id set by the auth
// service.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// TokenProvider extracts the owner id from an HS256 access token issued by
// the auth service.
type TokenProvider struct {
	token     string
	secretKey []byte
}

func NewTokenProvider(token string, secretKey []byte) *TokenProvider {
	return &TokenProvider{token: token, secretKey: secretKey}
}

// OwnerID validates the token and returns the user id claim.
func (p *TokenProvider) OwnerID(ctx context.Context) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(p.token, claims, func(t *jwt.Token) (interface{}, error) {
		return p.secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}

// GenerateToken issues an HS256 token carrying the user id. Used by tests
// and local tooling; production tokens come from the auth service.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
