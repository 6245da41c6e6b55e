package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/matleal/fit-pro/internal/models"
	"github.com/matleal/fit-pro/internal/services"
)

type courseApplicationService interface {
	CreateCourse(ctx context.Context, teacherID int64, input services.CreateCourseInput) (*models.CourseDetail, error)
	GetCourse(ctx context.Context, actorID, courseID int64) (*models.CourseDetail, error)
	ListCourses(ctx context.Context, actorID int64, role string) ([]models.CourseDetail, error)
	UpdateCourse(ctx context.Context, teacherID, courseID int64, input services.UpdateCourseInput) (*models.Course, error)
	DeleteCourse(ctx context.Context, teacherID, courseID int64) error
	Catalog(ctx context.Context, actorID int64) ([]models.CatalogCourse, error)
}

type CourseHandler struct {
	service courseApplicationService
}

func NewCourseHandler(service courseApplicationService) *CourseHandler {
	return &CourseHandler{service: service}
}

type createCourseRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	WeeksCount  int     `json:"weeksCount"`
	IsPublic    *bool   `json:"isPublic"`
	Price       *int64  `json:"price"`
}

type updateCourseRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
	IsPublic    *bool   `json:"isPublic"`
	Price       *int64  `json:"price"`
}

func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || !models.ValidRole(role) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	actorID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	courses, err := h.service.ListCourses(c.Context(), actorID, role)
	if err != nil {
		return mapCourseError(c, err)
	}

	return c.JSON(fiber.Map{"courses": courses})
}

func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != models.RoleTeacher {
		return c.Status(fiber.StatusForbidden).
			JSON(fiber.Map{"error": "Only teachers can create courses"})
	}

	teacherID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
	}

	input := services.CreateCourseInput{
		Name:        req.Name,
		Description: req.Description,
		WeeksCount:  req.WeeksCount,
		IsPublic:    true,
	}
	if req.IsPublic != nil {
		input.IsPublic = *req.IsPublic
	}
	if req.Price != nil {
		input.PriceCents = *req.Price
	}

	course, err := h.service.CreateCourse(c.Context(), teacherID, input)
	if err != nil {
		return mapCourseError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(course)
}

func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	actorID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	courseID, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course id"})
	}

	course, err := h.service.GetCourse(c.Context(), actorID, courseID)
	if err != nil {
		return mapCourseError(c, err)
	}

	return c.JSON(course)
}

func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != models.RoleTeacher {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	teacherID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	courseID, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course id"})
	}

	var req updateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	course, err := h.service.UpdateCourse(c.Context(), teacherID, courseID, services.UpdateCourseInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
		IsPublic:    req.IsPublic,
		PriceCents:  req.Price,
	})
	if err != nil {
		return mapCourseError(c, err)
	}

	return c.JSON(course)
}

func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != models.RoleTeacher {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	teacherID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	courseID, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course id"})
	}

	if err := h.service.DeleteCourse(c.Context(), teacherID, courseID); err != nil {
		return mapCourseError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// Catalog is open to everyone; a signed-in requester additionally gets
// their enrollment flag per course.
func (h *CourseHandler) Catalog(c *fiber.Ctx) error {
	actorID, err := parseUserID(c)
	if err != nil {
		actorID = 0
	}

	courses, err := h.service.Catalog(c.Context(), actorID)
	if err != nil {
		return mapCourseError(c, err)
	}

	return c.JSON(fiber.Map{"courses": courses})
}

func mapCourseError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to process course request"})
	}
}

func parseIDParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, strconv.ErrSyntax
	}
	return id, nil
}
