package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/matleal/fit-pro/pkg/utils"
)

// SessionCookieName carries the signed session token issued after sign-in.
// The route guard only checks its presence; AuthRequired validates it.
const SessionCookieName = "fitpro_session"

func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			tokenString = c.Cookies(SessionCookieName)
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing credentials",
			})
		}

		claims, err := utils.ValidateToken(tokenString, secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// OptionalAuth populates user_id and role when a valid token is present and
// lets the request through either way. Used by routes that behave
// differently for signed-in users but stay open to everyone, like the
// catalog and the invite landing page.
func OptionalAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			tokenString = c.Cookies(SessionCookieName)
		}
		if tokenString != "" {
			if claims, err := utils.ValidateToken(tokenString, secret); err == nil {
				c.Locals("user_id", claims.UserID)
				c.Locals("role", claims.Role)
			}
		}
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
