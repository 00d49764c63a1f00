package utils

import (
	"fmt"
	"os"
	"time"

	"bookwise/core/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims is what the auth middleware puts on the request context.
// Token issuance lives outside this service; we only validate.
type TokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  *string   `json:"email,omitempty"`
	Scope  string    `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// GenerateToken signs a short-lived token. Used for action links in
// outbound email (cancel booking), not for login.
func GenerateToken(userID uuid.UUID, email *string, scope string, ttl time.Duration) (string, error) {
	claims := &TokenClaims{
		UserID: userID,
		Email:  email,
		Scope:  scope,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ValidateAndParseToken verifies signature and expiry and returns claims.
func ValidateAndParseToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil {
		if err == jwt.ErrTokenExpired {
			return nil, errors.NewAppError(errors.ErrTokenExpired, "token expired", err)
		}
		return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "invalid token", err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "invalid token claims", nil)
	}
	return claims, nil
}
