package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/matleal/fit-pro/internal/models"
	"github.com/matleal/fit-pro/internal/services"
)

type exerciseApplicationService interface {
	CreateExercise(ctx context.Context, teacherID, dayID int64, fields services.ExerciseFields) (*models.Exercise, error)
	UpdateExercise(ctx context.Context, teacherID, exerciseID int64, fields services.ExerciseFields) (*models.Exercise, error)
	DeleteExercise(ctx context.Context, teacherID, exerciseID int64) error
}

type ExerciseHandler struct {
	service exerciseApplicationService
}

func NewExerciseHandler(service exerciseApplicationService) *ExerciseHandler {
	return &ExerciseHandler{service: service}
}

type exerciseRequest struct {
	DayID      int64   `json:"dayId"`
	Name       string  `json:"name"`
	YoutubeURL *string `json:"youtubeUrl"`
	Notes      *string `json:"notes"`
	Sets       *int    `json:"sets"`
	Reps       *string `json:"reps"`
	Rest       *string `json:"rest"`
}

func (h *ExerciseHandler) CreateExercise(c *fiber.Ctx) error {
	teacherID, err := requireTeacher(c)
	if err != nil {
		return teacherGateResponse(c, err)
	}

	var req exerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	exercise, err := h.service.CreateExercise(c.Context(), teacherID, req.DayID, services.ExerciseFields{
		Name:       req.Name,
		YoutubeURL: req.YoutubeURL,
		Notes:      req.Notes,
		Sets:       req.Sets,
		Reps:       req.Reps,
		Rest:       req.Rest,
	})
	if err != nil {
		return mapExerciseError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(exercise)
}

func (h *ExerciseHandler) UpdateExercise(c *fiber.Ctx) error {
	teacherID, err := requireTeacher(c)
	if err != nil {
		return teacherGateResponse(c, err)
	}

	exerciseID, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid exercise id"})
	}

	var req exerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	exercise, err := h.service.UpdateExercise(c.Context(), teacherID, exerciseID, services.ExerciseFields{
		Name:       req.Name,
		YoutubeURL: req.YoutubeURL,
		Notes:      req.Notes,
		Sets:       req.Sets,
		Reps:       req.Reps,
		Rest:       req.Rest,
	})
	if err != nil {
		return mapExerciseError(c, err)
	}

	return c.JSON(exercise)
}

func (h *ExerciseHandler) DeleteExercise(c *fiber.Ctx) error {
	teacherID, err := requireTeacher(c)
	if err != nil {
		return teacherGateResponse(c, err)
	}

	exerciseID, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid exercise id"})
	}

	if err := h.service.DeleteExercise(c.Context(), teacherID, exerciseID); err != nil {
		return mapExerciseError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

var (
	errNotTeacher      = errors.New("role is not teacher")
	errBadSessionToken = errors.New("session token has no usable user id")
)

// requireTeacher resolves the authenticated user and rejects everyone who is
// not a teacher. Callers translate the error through teacherGateResponse.
func requireTeacher(c *fiber.Ctx) (int64, error) {
	role, ok := c.Locals("role").(string)
	if !ok || role != models.RoleTeacher {
		return 0, errNotTeacher
	}

	userID, err := parseUserID(c)
	if err != nil {
		return 0, errBadSessionToken
	}
	return userID, nil
}

func teacherGateResponse(c *fiber.Ctx, err error) error {
	if errors.Is(err, errBadSessionToken) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
}

func mapExerciseError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Exercise not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to process exercise request"})
	}
}
