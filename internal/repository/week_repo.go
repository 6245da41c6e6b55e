package repository

import (
	"context"

	"github.com/matleal/fit-pro/internal/models"
)

type WeekRepository struct {
	db DBTX
}

func NewWeekRepository(db DBTX) *WeekRepository {
	return &WeekRepository{db: db}
}

func (r *WeekRepository) Create(ctx context.Context, courseID int64, weekNumber int, name string) (*models.Week, error) {
	query := `
		INSERT INTO weeks (course_id, week_number, name)
		VALUES ($1, $2, $3)
		RETURNING id, course_id, week_number, name
	`
	var week models.Week
	err := r.db.QueryRow(ctx, query, courseID, weekNumber, name).
		Scan(&week.ID, &week.CourseID, &week.WeekNumber, &week.Name)
	if err != nil {
		return nil, err
	}
	return &week, nil
}

func (r *WeekRepository) ListByCourseID(ctx context.Context, courseID int64) ([]models.Week, error) {
	query := `
		SELECT id, course_id, week_number, name
		FROM weeks
		WHERE course_id = $1
		ORDER BY week_number ASC
	`
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	weeks := make([]models.Week, 0)
	for rows.Next() {
		var week models.Week
		if err := rows.Scan(&week.ID, &week.CourseID, &week.WeekNumber, &week.Name); err != nil {
			return nil, err
		}
		week.Days = make([]models.Day, 0)
		weeks = append(weeks, week)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return weeks, nil
}
