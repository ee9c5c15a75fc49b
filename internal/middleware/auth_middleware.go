package middleware

import (
	"strings"

	"mocktest-engine/internal/dto"
	"mocktest-engine/internal/logger"
	"mocktest-engine/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID"
	ClaimsKey           = "claims"
)

// Protected requires a valid bearer token on the route. When no verification
// secret is configured the route is left open.
func Protected(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !authService.Enabled() {
			return c.Next()
		}

		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return unauthorized(c, "MISSING_AUTH_HEADER", "Authorization header is missing")
		}
		if !strings.HasPrefix(authHeader, BearerSchema) {
			return unauthorized(c, "INVALID_AUTH_SCHEME", "Authorization scheme is not Bearer")
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
		if tokenString == "" {
			return unauthorized(c, "EMPTY_TOKEN", "Token is empty")
		}

		claims, err := authService.ValidateToken(c.UserContext(), tokenString)
		if err != nil {
			return unauthorized(c, "INVALID_TOKEN", err.Error())
		}

		c.Locals(UserIDKey, claims.UserID)
		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

// RequireRole rejects authenticated callers whose role is not listed.
// It must run after Protected.
func RequireRole(authService service.AuthService, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !authService.Enabled() {
			return c.Next()
		}
		claims, ok := c.Locals(ClaimsKey).(*dto.AuthClaims)
		if !ok || claims == nil {
			return unauthorized(c, "MISSING_CLAIMS", "Request is not authenticated")
		}
		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}
		logger.Get().Info("Role not permitted",
			zap.String("user_id", claims.UserID),
			zap.String("role", claims.Role),
			zap.String("path", c.Path()),
		)
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Code:    "FORBIDDEN",
			Message: "Role " + claims.Role + " may not access this resource",
			Status:  fiber.StatusForbidden,
		})
	}
}

// ClaimsFrom returns the claims stored by Protected, or nil for open routes.
func ClaimsFrom(c *fiber.Ctx) *dto.AuthClaims {
	claims, _ := c.Locals(ClaimsKey).(*dto.AuthClaims)
	return claims
}

func unauthorized(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Code:    code,
		Message: message,
		Status:  fiber.StatusUnauthorized,
	})
}
