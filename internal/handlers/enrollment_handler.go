package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/matleal/fit-pro/internal/models"
	"github.com/matleal/fit-pro/internal/services"
)

type enrollmentApplicationService interface {
	Enroll(ctx context.Context, userID, courseID int64) (*models.Enrollment, error)
	ListEnrollments(ctx context.Context, userID int64) ([]models.EnrollmentDetail, error)
}

type EnrollmentHandler struct {
	service enrollmentApplicationService
}

func NewEnrollmentHandler(service enrollmentApplicationService) *EnrollmentHandler {
	return &EnrollmentHandler{service: service}
}

type enrollRequest struct {
	CourseID int64 `json:"courseId"`
}

func (h *EnrollmentHandler) ListEnrollments(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	enrollments, err := h.service.ListEnrollments(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch enrollments"})
	}

	return c.JSON(fiber.Map{"enrollments": enrollments})
}

func (h *EnrollmentHandler) Enroll(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req enrollRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	enrollment, err := h.service.Enroll(c.Context(), userID, req.CourseID)
	if err != nil {
		var paymentErr *services.PaymentRequiredError
		switch {
		case errors.As(err, &paymentErr):
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"error":           "This course requires payment",
				"requiresPayment": true,
				"price":           paymentErr.PriceCents,
			})
		case errors.Is(err, services.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Course id is required"})
		case errors.Is(err, pgx.ErrNoRows):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
		case errors.Is(err, services.ErrCourseUnavailable):
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "This course is not open for enrollment"})
		case errors.Is(err, services.ErrSelfEnrollment):
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "You cannot enroll in your own course"})
		case errors.Is(err, services.ErrAlreadyEnrolled):
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "You are already enrolled in this course"})
		default:
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "Failed to enroll"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(enrollment)
}
