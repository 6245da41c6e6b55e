package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/matleal/fit-pro/internal/models"
)

var (
	ErrCourseUnavailable = errors.New("course is not available")
	ErrSelfEnrollment    = errors.New("teachers cannot enroll in their own course")
	ErrAlreadyEnrolled   = errors.New("already enrolled")
)

const uniqueViolationCode = "23505"

// PaymentRequiredError marks the unimplemented monetization path. The price
// travels with the error so the handler can include it in the 402 body.
type PaymentRequiredError struct {
	PriceCents int64
}

func (e *PaymentRequiredError) Error() string {
	return fmt.Sprintf("payment of %d required", e.PriceCents)
}

type courseReader interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
}

type enrollmentStore interface {
	Create(ctx context.Context, courseID, userID int64, isPaid bool) (*models.Enrollment, error)
	GetByCourseAndUser(ctx context.Context, courseID, userID int64) (*models.Enrollment, error)
	ListByUserID(ctx context.Context, userID int64) ([]models.EnrollmentDetail, error)
}

type EnrollmentService struct {
	courseRepo     courseReader
	enrollmentRepo enrollmentStore
}

func NewEnrollmentService(courseRepo courseReader, enrollmentRepo enrollmentStore) *EnrollmentService {
	return &EnrollmentService{
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// Enroll grants the user access to a free, active, public course. The
// duplicate pre-check only shapes the error message; the unique constraint
// on (course_id, user_id) is what actually prevents a double enrollment
// under concurrent requests.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID int64) (*models.Enrollment, error) {
	if courseID <= 0 {
		return nil, ErrInvalidInput
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsActive || !course.IsPublic {
		return nil, ErrCourseUnavailable
	}
	if course.TeacherID == userID {
		return nil, ErrSelfEnrollment
	}

	_, err = s.enrollmentRepo.GetByCourseAndUser(ctx, courseID, userID)
	if err == nil {
		return nil, ErrAlreadyEnrolled
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if course.PriceCents > 0 {
		return nil, &PaymentRequiredError{PriceCents: course.PriceCents}
	}

	enrollment, err := s.enrollmentRepo.Create(ctx, courseID, userID, course.PriceCents == 0)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}
	return enrollment, nil
}

func (s *EnrollmentService) ListEnrollments(ctx context.Context, userID int64) ([]models.EnrollmentDetail, error) {
	return s.enrollmentRepo.ListByUserID(ctx, userID)
}
