package middleware

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Paths reachable without a session. Prefix-matched in order.
var publicRoutes = []string{
	"/login",
	"/register",
	"/convite",
	"/escolher-tipo",
	"/debug-auth",
}

// RouteGuard redirects unauthenticated page requests to the login page,
// preserving the original path as callbackUrl. It is a presence check only:
// API handlers verify the token themselves, so a forged cookie gets past
// the redirect but never past AuthRequired.
func RouteGuard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()

		// API routes handle their own auth.
		if strings.HasPrefix(path, "/api") {
			return c.Next()
		}

		// Static assets.
		if strings.HasPrefix(path, "/_next") || strings.HasPrefix(path, "/favicon") || strings.Contains(path, ".") {
			return c.Next()
		}

		if path == "/" {
			return c.Next()
		}

		for _, route := range publicRoutes {
			if strings.HasPrefix(path, route) {
				return c.Next()
			}
		}

		if c.Cookies(SessionCookieName) == "" {
			return c.Redirect("/login?callbackUrl="+url.QueryEscape(path), fiber.StatusTemporaryRedirect)
		}

		return c.Next()
	}
}
