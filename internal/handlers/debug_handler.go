package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/matleal/fit-pro/internal/config"
	"github.com/matleal/fit-pro/internal/middleware"
)

// DebugHandler exposes the session as the server sees it. Registered only
// outside production; in any other environment the route does not exist.
type DebugHandler struct {
	cfg *config.Config
}

func NewDebugHandler(cfg *config.Config) *DebugHandler {
	return &DebugHandler{cfg: cfg}
}

func (h *DebugHandler) Session(c *fiber.Ctx) error {
	if !h.cfg.IsDevelopment() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	}

	userID, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(string)

	return c.JSON(fiber.Map{
		"authenticated": userID != "",
		"userId":        userID,
		"role":          role,
		"hasCookie":     c.Cookies(middleware.SessionCookieName) != "",
		"env":           h.cfg.AppEnv,
	})
}
