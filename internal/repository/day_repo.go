package repository

import (
	"context"

	"github.com/matleal/fit-pro/internal/models"
)

type DayRepository struct {
	db DBTX
}

func NewDayRepository(db DBTX) *DayRepository {
	return &DayRepository{db: db}
}

func (r *DayRepository) Create(ctx context.Context, weekID int64, dayNumber int, name string) (*models.Day, error) {
	query := `
		INSERT INTO days (week_id, day_number, name)
		VALUES ($1, $2, $3)
		RETURNING id, week_id, day_number, name
	`
	var day models.Day
	err := r.db.QueryRow(ctx, query, weekID, dayNumber, name).
		Scan(&day.ID, &day.WeekID, &day.DayNumber, &day.Name)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *DayRepository) ListByWeekIDs(ctx context.Context, weekIDs []int64) ([]models.Day, error) {
	if len(weekIDs) == 0 {
		return []models.Day{}, nil
	}

	query := `
		SELECT id, week_id, day_number, name
		FROM days
		WHERE week_id = ANY($1)
		ORDER BY week_id ASC, day_number ASC
	`
	rows, err := r.db.Query(ctx, query, weekIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make([]models.Day, 0)
	for rows.Next() {
		var day models.Day
		if err := rows.Scan(&day.ID, &day.WeekID, &day.DayNumber, &day.Name); err != nil {
			return nil, err
		}
		day.Exercises = make([]models.Exercise, 0)
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return days, nil
}
