package repository

import (
	"context"

	"github.com/matleal/fit-pro/internal/models"
)

type CreateExerciseInput struct {
	DayID      int64
	Name       string
	YoutubeURL *string
	Notes      *string
	Sets       *int
	Reps       *string
	Rest       *string
	OrderIndex int
}

type UpdateExerciseInput struct {
	Name       string
	YoutubeURL *string
	Notes      *string
	Sets       *int
	Reps       *string
	Rest       *string
}

type ExerciseRepository struct {
	db DBTX
}

func NewExerciseRepository(db DBTX) *ExerciseRepository {
	return &ExerciseRepository{db: db}
}

func (r *ExerciseRepository) Create(ctx context.Context, input CreateExerciseInput) (*models.Exercise, error) {
	query := `
		INSERT INTO exercises (day_id, name, youtube_url, notes, sets, reps, rest, order_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, day_id, name, youtube_url, notes, sets, reps, rest, order_index
	`
	var exercise models.Exercise
	err := r.db.QueryRow(
		ctx,
		query,
		input.DayID,
		input.Name,
		input.YoutubeURL,
		input.Notes,
		input.Sets,
		input.Reps,
		input.Rest,
		input.OrderIndex,
	).Scan(
		&exercise.ID,
		&exercise.DayID,
		&exercise.Name,
		&exercise.YoutubeURL,
		&exercise.Notes,
		&exercise.Sets,
		&exercise.Reps,
		&exercise.Rest,
		&exercise.OrderIndex,
	)
	if err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (r *ExerciseRepository) Update(ctx context.Context, id int64, input UpdateExerciseInput) (*models.Exercise, error) {
	query := `
		UPDATE exercises
		SET name = $2, youtube_url = $3, notes = $4, sets = $5, reps = $6, rest = $7
		WHERE id = $1
		RETURNING id, day_id, name, youtube_url, notes, sets, reps, rest, order_index
	`
	var exercise models.Exercise
	err := r.db.QueryRow(
		ctx,
		query,
		id,
		input.Name,
		input.YoutubeURL,
		input.Notes,
		input.Sets,
		input.Reps,
		input.Rest,
	).Scan(
		&exercise.ID,
		&exercise.DayID,
		&exercise.Name,
		&exercise.YoutubeURL,
		&exercise.Notes,
		&exercise.Sets,
		&exercise.Reps,
		&exercise.Rest,
		&exercise.OrderIndex,
	)
	if err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (r *ExerciseRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM exercises WHERE id = $1`, id)
	return err
}

// MaxOrderIndex reports the highest order_index in the day, or -1 when the
// day has no exercises yet. Appending at max+1 keeps the relative order
// stable; gaps left behind by deletions are never compacted.
func (r *ExerciseRepository) MaxOrderIndex(ctx context.Context, dayID int64) (int, error) {
	query := `
		SELECT COALESCE(MAX(order_index), -1)
		FROM exercises
		WHERE day_id = $1
	`
	var max int
	if err := r.db.QueryRow(ctx, query, dayID).Scan(&max); err != nil {
		return 0, err
	}
	return max, nil
}

func (r *ExerciseRepository) ListByDayIDs(ctx context.Context, dayIDs []int64) ([]models.Exercise, error) {
	if len(dayIDs) == 0 {
		return []models.Exercise{}, nil
	}

	query := `
		SELECT id, day_id, name, youtube_url, notes, sets, reps, rest, order_index
		FROM exercises
		WHERE day_id = ANY($1)
		ORDER BY day_id ASC, order_index ASC
	`
	rows, err := r.db.Query(ctx, query, dayIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]models.Exercise, 0)
	for rows.Next() {
		var exercise models.Exercise
		if err := rows.Scan(
			&exercise.ID,
			&exercise.DayID,
			&exercise.Name,
			&exercise.YoutubeURL,
			&exercise.Notes,
			&exercise.Sets,
			&exercise.Reps,
			&exercise.Rest,
			&exercise.OrderIndex,
		); err != nil {
			return nil, err
		}
		exercises = append(exercises, exercise)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return exercises, nil
}

// DayOwner resolves the teacher owning a day through the
// day -> week -> course chain in one join.
func (r *ExerciseRepository) DayOwner(ctx context.Context, dayID int64) (int64, error) {
	query := `
		SELECT c.teacher_id
		FROM days d
		JOIN weeks w ON w.id = d.week_id
		JOIN courses c ON c.id = w.course_id
		WHERE d.id = $1
	`
	var teacherID int64
	if err := r.db.QueryRow(ctx, query, dayID).Scan(&teacherID); err != nil {
		return 0, err
	}
	return teacherID, nil
}

// ExerciseOwner resolves the teacher owning an exercise through the
// exercise -> day -> week -> course chain in one join.
func (r *ExerciseRepository) ExerciseOwner(ctx context.Context, exerciseID int64) (int64, error) {
	query := `
		SELECT c.teacher_id
		FROM exercises e
		JOIN days d ON d.id = e.day_id
		JOIN weeks w ON w.id = d.week_id
		JOIN courses c ON c.id = w.course_id
		WHERE e.id = $1
	`
	var teacherID int64
	if err := r.db.QueryRow(ctx, query, exerciseID).Scan(&teacherID); err != nil {
		return 0, err
	}
	return teacherID, nil
}
