package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/matleal/fit-pro/internal/models"
)

type inviteApplicationService interface {
	CreateInvite(ctx context.Context, teacherID int64, courseID *int64) (*models.InviteCode, error)
	ListInvites(ctx context.Context, teacherID int64) ([]models.InviteCodeDetail, error)
	DeleteInvite(ctx context.Context, teacherID, inviteID int64) error
}

type InviteHandler struct {
	service inviteApplicationService
}

func NewInviteHandler(service inviteApplicationService) *InviteHandler {
	return &InviteHandler{service: service}
}

type createInviteRequest struct {
	CourseID *int64 `json:"courseId"`
}

func (h *InviteHandler) ListInvites(c *fiber.Ctx) error {
	teacherID, err := requireTeacher(c)
	if err != nil {
		return teacherGateResponse(c, err)
	}

	invites, err := h.service.ListInvites(c.Context(), teacherID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch invites"})
	}

	return c.JSON(fiber.Map{"invites": invites})
}

func (h *InviteHandler) CreateInvite(c *fiber.Ctx) error {
	teacherID, err := requireTeacher(c)
	if err != nil {
		return teacherGateResponse(c, err)
	}

	var req createInviteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	invite, err := h.service.CreateInvite(c.Context(), teacherID, req.CourseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to create invite"})
	}

	return c.Status(fiber.StatusCreated).JSON(invite)
}

func (h *InviteHandler) DeleteInvite(c *fiber.Ctx) error {
	teacherID, err := requireTeacher(c)
	if err != nil {
		return teacherGateResponse(c, err)
	}

	inviteID, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid invite id"})
	}

	if err := h.service.DeleteInvite(c.Context(), teacherID, inviteID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invite not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to delete invite"})
	}

	return c.JSON(fiber.Map{"success": true})
}
