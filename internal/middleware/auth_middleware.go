package middleware

import (
	"fmt"
	"strings"

	"quiz-forge/internal/domain/auth"
	"quiz-forge/internal/logger"
	"quiz-forge/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID" // Key for storing UserID in fiber.Ctx locals
)

// Protected requires a valid access token and stores the caller's user ID in the context.
func Protected(verifier service.TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "MISSING_AUTH_HEADER",
				Message: "Authorization header is missing",
				Status:  fiber.StatusUnauthorized,
			})
		}

		tokenString, isBearer := bearerToken(authHeader)
		if !isBearer {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_AUTH_SCHEME",
				Message: "Authorization scheme is not Bearer",
				Status:  fiber.StatusUnauthorized,
			})
		}

		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "EMPTY_TOKEN",
				Message: "Token is empty",
				Status:  fiber.StatusUnauthorized,
			})
		}

		claims, err := verifier.ValidateJWT(c.Context(), tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN",
				Message: err.Error(),
				Status:  fiber.StatusUnauthorized,
			})
		}

		if claims.TokenType != auth.TokenTypeAccess {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN_TYPE",
				Message: fmt.Sprintf("Invalid token type: expected %s, got %s", auth.TokenTypeAccess, claims.TokenType),
				Status:  fiber.StatusForbidden,
			})
		}

		c.Locals(UserIDKey, claims.UserID)
		return c.Next()
	}
}

// OptionalAuth sets the user ID when a valid access token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(verifier service.TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return c.Next()
		}

		tokenString, isBearer := bearerToken(authHeader)
		if !isBearer {
			logger.Get().Debug("OptionalAuth: authorization scheme is not Bearer, proceeding as anonymous")
			return c.Next()
		}

		if tokenString == "" {
			logger.Get().Debug("OptionalAuth: empty bearer token, proceeding as anonymous")
			return c.Next()
		}

		claims, err := verifier.ValidateJWT(c.Context(), tokenString)
		if err != nil {
			logger.Get().Debug("OptionalAuth: JWT validation failed, proceeding as anonymous", zap.Error(err))
			return c.Next()
		}

		if claims.TokenType != auth.TokenTypeAccess {
			logger.Get().Debug("OptionalAuth: not an access token, proceeding as anonymous", zap.String("tokenType", claims.TokenType))
			return c.Next()
		}

		c.Locals(UserIDKey, claims.UserID)
		return c.Next()
	}
}

// bearerToken extracts the token from a Bearer header. The server trims
// trailing whitespace, so a bare "Bearer" is an empty token, not another scheme.
func bearerToken(header string) (string, bool) {
	if strings.TrimSpace(header) == strings.TrimSpace(BearerSchema) {
		return "", true
	}
	if !strings.HasPrefix(header, BearerSchema) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(header, BearerSchema)), true
}

// UserID returns the authenticated user, or "" for anonymous requests.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}
