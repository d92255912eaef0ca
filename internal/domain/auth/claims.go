package auth

import "github.com/golang-jwt/jwt/v5"

// TokenTypeAccess is the only token type accepted on protected routes
const TokenTypeAccess = "access"

// Claims are the JWT claims issued by the external identity provider
type Claims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}
