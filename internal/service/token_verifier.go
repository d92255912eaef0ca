package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/domain/auth"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ErrInvalidJWTToken is wrapped by every verification failure
var ErrInvalidJWTToken = domain.NewUnauthorizedError("invalid or expired token")

// TokenVerifier validates bearer credentials issued by the external identity provider
type TokenVerifier interface {
	ValidateJWT(ctx context.Context, tokenString string) (*auth.Claims, error)
}

type tokenVerifier struct {
	secret []byte
	logger *zap.Logger
}

// NewTokenVerifier creates an HS256 verifier
func NewTokenVerifier(secret string, logger *zap.Logger) (TokenVerifier, error) {
	if secret == "" {
		return nil, domain.NewInvalidConfigError("auth.jwt_secret is not configured")
	}
	return &tokenVerifier{secret: []byte(secret), logger: logger}, nil
}

func (v *tokenVerifier) ValidateJWT(_ context.Context, tokenString string) (*auth.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &auth.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			v.logger.Warn("JWT token expired", zap.Error(err))
		} else {
			v.logger.Warn("JWT validation failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	claims, ok := token.Claims.(*auth.Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidJWTToken
	}
	return claims, nil
}

// SignAccessToken issues an access token for userID. The CLI and tests use it;
// the HTTP surface only verifies.
func SignAccessToken(secret, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := auth.Claims{
		UserID:    userID,
		TokenType: auth.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
