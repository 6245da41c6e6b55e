package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/matleal/fit-pro/internal/models"
)

type CreateCourseInput struct {
	TeacherID   int64
	Name        string
	Description *string
	Thumbnail   *string
	IsPublic    bool
	PriceCents  int64
}

type UpdateCourseInput struct {
	Name        string
	Description *string
	IsActive    bool
	IsPublic    bool
	PriceCents  int64
}

type CourseRepository struct {
	db DBTX
}

func NewCourseRepository(db DBTX) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) Create(ctx context.Context, input CreateCourseInput) (*models.Course, error) {
	query := `
		INSERT INTO courses (teacher_id, name, description, thumbnail, is_public, price_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, teacher_id, name, description, thumbnail, is_active, is_public, price_cents, created_at, updated_at
	`
	return r.scanCourse(r.db.QueryRow(
		ctx,
		query,
		input.TeacherID,
		input.Name,
		input.Description,
		input.Thumbnail,
		input.IsPublic,
		input.PriceCents,
	))
}

func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `
		SELECT id, teacher_id, name, description, thumbnail, is_active, is_public, price_cents, created_at, updated_at
		FROM courses
		WHERE id = $1
	`
	return r.scanCourse(r.db.QueryRow(ctx, query, id))
}

func (r *CourseRepository) ListByTeacherID(ctx context.Context, teacherID int64) ([]models.Course, error) {
	query := `
		SELECT id, teacher_id, name, description, thumbnail, is_active, is_public, price_cents, created_at, updated_at
		FROM courses
		WHERE teacher_id = $1
		ORDER BY updated_at DESC, id DESC
	`
	return r.list(ctx, query, teacherID)
}

// ListEnrolledByUserID returns the courses reachable through the user's
// active enrollments, newest enrollment first.
func (r *CourseRepository) ListEnrolledByUserID(ctx context.Context, userID int64) ([]models.Course, error) {
	query := `
		SELECT c.id, c.teacher_id, c.name, c.description, c.thumbnail, c.is_active, c.is_public, c.price_cents, c.created_at, c.updated_at
		FROM courses c
		JOIN enrollments e ON e.course_id = c.id
		WHERE e.user_id = $1 AND e.is_active
		ORDER BY e.created_at DESC, c.id DESC
	`
	return r.list(ctx, query, userID)
}

func (r *CourseRepository) Update(ctx context.Context, id int64, input UpdateCourseInput) (*models.Course, error) {
	query := `
		UPDATE courses
		SET name = $2, description = $3, is_active = $4, is_public = $5, price_cents = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING id, teacher_id, name, description, thumbnail, is_active, is_public, price_cents, created_at, updated_at
	`
	return r.scanCourse(r.db.QueryRow(
		ctx,
		query,
		id,
		input.Name,
		input.Description,
		input.IsActive,
		input.IsPublic,
		input.PriceCents,
	))
}

func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	return err
}

// Catalog returns all active public courses with live aggregate counts.
// userID 0 stands for an anonymous requester and never matches an enrollment.
func (r *CourseRepository) Catalog(ctx context.Context, userID int64) ([]models.CatalogCourse, error) {
	query := `
		SELECT c.id, c.name, c.description, c.thumbnail, c.price_cents, c.created_at,
		       u.id, u.name, u.image,
		       (SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.id),
		       (SELECT COUNT(*) FROM weeks w WHERE w.course_id = c.id),
		       EXISTS (SELECT 1 FROM enrollments e WHERE e.course_id = c.id AND e.user_id = $1)
		FROM courses c
		JOIN users u ON u.id = c.teacher_id
		WHERE c.is_active AND c.is_public
		ORDER BY c.created_at DESC, c.id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := make([]models.CatalogCourse, 0)
	for rows.Next() {
		var course models.CatalogCourse
		if err := rows.Scan(
			&course.ID,
			&course.Name,
			&course.Description,
			&course.Thumbnail,
			&course.PriceCents,
			&course.CreatedAt,
			&course.Teacher.ID,
			&course.Teacher.Name,
			&course.Teacher.Image,
			&course.EnrollmentCount,
			&course.WeeksCount,
			&course.IsEnrolled,
		); err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *CourseRepository) list(ctx context.Context, query string, args ...any) ([]models.Course, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := make([]models.Course, 0)
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(
			&course.ID,
			&course.TeacherID,
			&course.Name,
			&course.Description,
			&course.Thumbnail,
			&course.IsActive,
			&course.IsPublic,
			&course.PriceCents,
			&course.CreatedAt,
			&course.UpdatedAt,
		); err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *CourseRepository) scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	err := row.Scan(
		&course.ID,
		&course.TeacherID,
		&course.Name,
		&course.Description,
		&course.Thumbnail,
		&course.IsActive,
		&course.IsPublic,
		&course.PriceCents,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &course, nil
}
