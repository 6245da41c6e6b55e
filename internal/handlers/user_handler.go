package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/matleal/fit-pro/internal/models"
	"github.com/matleal/fit-pro/internal/services"
	"github.com/matleal/fit-pro/pkg/utils"
)

type roleService interface {
	SetRole(ctx context.Context, userID int64, role string) (*models.User, error)
}

type UserHandler struct {
	userService roleService
	jwtSecret   string
}

func NewUserHandler(userService roleService, jwtSecret string) *UserHandler {
	return &UserHandler{userService: userService, jwtSecret: jwtSecret}
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateRole is the self-service role switch. It is repeatable: no
// transition guard applies. The session cookie is re-issued so the new
// role takes effect without a fresh login.
func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req updateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.userService.SetRole(c.Context(), userID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role"})
		case errors.Is(err, pgx.ErrNoRows):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "Failed to update role"})
		}
	}

	token, err := utils.GenerateToken(strconv.FormatInt(user.ID, 10), user.Role, h.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to issue token"})
	}
	setSessionCookie(c, token)

	return c.JSON(fiber.Map{"success": true, "role": user.Role})
}
