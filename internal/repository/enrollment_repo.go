package repository

import (
	"context"

	"github.com/matleal/fit-pro/internal/models"
)

type EnrollmentRepository struct {
	db DBTX
}

func NewEnrollmentRepository(db DBTX) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create inserts the enrollment. The UNIQUE (course_id, user_id) constraint
// is the authoritative duplicate guard; callers pre-check only for the
// error message.
func (r *EnrollmentRepository) Create(ctx context.Context, courseID, userID int64, isPaid bool) (*models.Enrollment, error) {
	query := `
		INSERT INTO enrollments (course_id, user_id, is_paid)
		VALUES ($1, $2, $3)
		RETURNING id, course_id, user_id, is_active, is_paid, created_at
	`
	var enrollment models.Enrollment
	err := r.db.QueryRow(ctx, query, courseID, userID, isPaid).Scan(
		&enrollment.ID,
		&enrollment.CourseID,
		&enrollment.UserID,
		&enrollment.IsActive,
		&enrollment.IsPaid,
		&enrollment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) GetByCourseAndUser(ctx context.Context, courseID, userID int64) (*models.Enrollment, error) {
	query := `
		SELECT id, course_id, user_id, is_active, is_paid, created_at
		FROM enrollments
		WHERE course_id = $1 AND user_id = $2
	`
	var enrollment models.Enrollment
	err := r.db.QueryRow(ctx, query, courseID, userID).Scan(
		&enrollment.ID,
		&enrollment.CourseID,
		&enrollment.UserID,
		&enrollment.IsActive,
		&enrollment.IsPaid,
		&enrollment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) ExistsByUserID(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM enrollments WHERE user_id = $1)`, userID).
		Scan(&exists)
	return exists, err
}

func (r *EnrollmentRepository) CountByCourseID(ctx context.Context, courseID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM enrollments WHERE course_id = $1`, courseID).
		Scan(&count)
	return count, err
}

// ListByCourseID returns the course's enrollments with the enrolled user
// attached, for the owning teacher's course view.
func (r *EnrollmentRepository) ListByCourseID(ctx context.Context, courseID int64) ([]models.EnrollmentDetail, error) {
	query := `
		SELECT e.id, e.course_id, e.user_id, e.is_active, e.is_paid, e.created_at,
		       u.id, u.name, u.email, u.image
		FROM enrollments e
		JOIN users u ON u.id = e.user_id
		WHERE e.course_id = $1
		ORDER BY e.created_at DESC, e.id DESC
	`
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	enrollments := make([]models.EnrollmentDetail, 0)
	for rows.Next() {
		var detail models.EnrollmentDetail
		var user models.UserRef
		if err := rows.Scan(
			&detail.ID,
			&detail.CourseID,
			&detail.UserID,
			&detail.IsActive,
			&detail.IsPaid,
			&detail.CreatedAt,
			&user.ID,
			&user.Name,
			&user.Email,
			&user.Image,
		); err != nil {
			return nil, err
		}
		detail.User = &user
		enrollments = append(enrollments, detail)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return enrollments, nil
}

// ListByUserID returns the user's enrollments with the course, its teacher
// and the live week count attached, newest first.
func (r *EnrollmentRepository) ListByUserID(ctx context.Context, userID int64) ([]models.EnrollmentDetail, error) {
	query := `
		SELECT e.id, e.course_id, e.user_id, e.is_active, e.is_paid, e.created_at,
		       c.id, c.teacher_id, c.name, c.description, c.thumbnail, c.is_active, c.is_public, c.price_cents, c.created_at, c.updated_at,
		       u.id, u.name, u.image,
		       (SELECT COUNT(*) FROM weeks w WHERE w.course_id = c.id)
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		JOIN users u ON u.id = c.teacher_id
		WHERE e.user_id = $1
		ORDER BY e.created_at DESC, e.id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	enrollments := make([]models.EnrollmentDetail, 0)
	for rows.Next() {
		var detail models.EnrollmentDetail
		var course models.EnrolledCourse
		if err := rows.Scan(
			&detail.ID,
			&detail.CourseID,
			&detail.UserID,
			&detail.IsActive,
			&detail.IsPaid,
			&detail.CreatedAt,
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
			&course.Teacher.ID,
			&course.Teacher.Name,
			&course.Teacher.Image,
			&course.WeeksCount,
		); err != nil {
			return nil, err
		}
		detail.Course = &course
		enrollments = append(enrollments, detail)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return enrollments, nil
}
