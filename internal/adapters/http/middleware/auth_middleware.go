package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"payaso-portal/internal/config"
	"payaso-portal/internal/core/domain"
	"payaso-portal/internal/pkg/jwt"
	"payaso-portal/internal/pkg/response"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}
		if _, ok := domain.ParseRole(claims.Role); !ok {
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set user info in context
		c.Locals("userID", claims.UserID)
		c.Locals("email", claims.Email)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowed func(domain.Role) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		if allowed(domain.Role(role)) {
			return c.Next()
		}
		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly allows admin and board roles
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.Role.IsAdministrative)
}

// StaffOnly allows admin, board and treasurer roles
func StaffOnly() fiber.Handler {
	return RoleMiddleware(domain.Role.IsStaff)
}

// FinanceOnly allows admin and treasurer roles
func FinanceOnly() fiber.Handler {
	return RoleMiddleware(domain.Role.IsFinance)
}
