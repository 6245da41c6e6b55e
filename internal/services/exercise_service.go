package services

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/matleal/fit-pro/internal/models"
	"github.com/matleal/fit-pro/internal/repository"
)

type exerciseStore interface {
	Create(ctx context.Context, input repository.CreateExerciseInput) (*models.Exercise, error)
	Update(ctx context.Context, id int64, input repository.UpdateExerciseInput) (*models.Exercise, error)
	Delete(ctx context.Context, id int64) error
	MaxOrderIndex(ctx context.Context, dayID int64) (int, error)
	DayOwner(ctx context.Context, dayID int64) (int64, error)
	ExerciseOwner(ctx context.Context, exerciseID int64) (int64, error)
}

type ExerciseService struct {
	exerciseRepo exerciseStore
}

func NewExerciseService(exerciseRepo exerciseStore) *ExerciseService {
	return &ExerciseService{exerciseRepo: exerciseRepo}
}

type ExerciseFields struct {
	Name       string
	YoutubeURL *string
	Notes      *string
	Sets       *int
	Reps       *string
	Rest       *string
}

// CreateExercise appends an exercise to the day. Ownership is re-derived
// through day -> week -> course; a day in someone else's course reads the
// same as a missing one, so nothing is leaked to non-owners.
func (s *ExerciseService) CreateExercise(
	ctx context.Context,
	teacherID, dayID int64,
	fields ExerciseFields,
) (*models.Exercise, error) {
	if dayID <= 0 {
		return nil, ErrInvalidInput
	}
	name := strings.TrimSpace(fields.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	owner, err := s.exerciseRepo.DayOwner(ctx, dayID)
	if err != nil {
		return nil, err
	}
	if owner != teacherID {
		return nil, pgx.ErrNoRows
	}

	maxIndex, err := s.exerciseRepo.MaxOrderIndex(ctx, dayID)
	if err != nil {
		return nil, err
	}

	return s.exerciseRepo.Create(ctx, repository.CreateExerciseInput{
		DayID:      dayID,
		Name:       name,
		YoutubeURL: fields.YoutubeURL,
		Notes:      fields.Notes,
		Sets:       fields.Sets,
		Reps:       fields.Reps,
		Rest:       fields.Rest,
		OrderIndex: maxIndex + 1,
	})
}

func (s *ExerciseService) UpdateExercise(
	ctx context.Context,
	teacherID, exerciseID int64,
	fields ExerciseFields,
) (*models.Exercise, error) {
	name := strings.TrimSpace(fields.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	if err := s.checkOwner(ctx, teacherID, exerciseID); err != nil {
		return nil, err
	}

	return s.exerciseRepo.Update(ctx, exerciseID, repository.UpdateExerciseInput{
		Name:       name,
		YoutubeURL: fields.YoutubeURL,
		Notes:      fields.Notes,
		Sets:       fields.Sets,
		Reps:       fields.Reps,
		Rest:       fields.Rest,
	})
}

func (s *ExerciseService) DeleteExercise(ctx context.Context, teacherID, exerciseID int64) error {
	if err := s.checkOwner(ctx, teacherID, exerciseID); err != nil {
		return err
	}
	// Remaining order_index values keep their gaps; only relative order
	// matters on read.
	return s.exerciseRepo.Delete(ctx, exerciseID)
}

func (s *ExerciseService) checkOwner(ctx context.Context, teacherID, exerciseID int64) error {
	owner, err := s.exerciseRepo.ExerciseOwner(ctx, exerciseID)
	if err != nil {
		return err
	}
	if owner != teacherID {
		return pgx.ErrNoRows
	}
	return nil
}
