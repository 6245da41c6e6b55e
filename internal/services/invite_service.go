package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/matleal/fit-pro/internal/models"
)

var ErrInviteUsed = errors.New("invite already used")

// 4 random bytes give an 8 character uppercase hex code. With the bounded
// retry below the residual collision odds are small enough that a final
// clash is left to the unique index on invite_codes.code.
const inviteCodeBytes = 4

const maxCodeAttempts = 10

type inviteStore interface {
	Create(ctx context.Context, code string, teacherID int64, courseID *int64) (*models.InviteCode, error)
	GetByID(ctx context.Context, id int64) (*models.InviteCode, error)
	GetByCode(ctx context.Context, code string) (*models.InviteCodeDetail, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	ListByTeacherID(ctx context.Context, teacherID int64) ([]models.InviteCodeDetail, error)
	MarkUsed(ctx context.Context, id int64, email string) error
	Delete(ctx context.Context, id int64) error
}

type inviteEnrollmentStore interface {
	Create(ctx context.Context, courseID, userID int64, isPaid bool) (*models.Enrollment, error)
	GetByCourseAndUser(ctx context.Context, courseID, userID int64) (*models.Enrollment, error)
}

type InviteService struct {
	courseRepo     courseReader
	inviteRepo     inviteStore
	enrollmentRepo inviteEnrollmentStore
	userRepo       userReader
}

func NewInviteService(
	courseRepo courseReader,
	inviteRepo inviteStore,
	enrollmentRepo inviteEnrollmentStore,
	userRepo userReader,
) *InviteService {
	return &InviteService{
		courseRepo:     courseRepo,
		inviteRepo:     inviteRepo,
		enrollmentRepo: enrollmentRepo,
		userRepo:       userRepo,
	}
}

// CreateInvite issues a fresh single-use code. A course binding must point
// at one of the caller's own courses; anything else reads as not found.
func (s *InviteService) CreateInvite(ctx context.Context, teacherID int64, courseID *int64) (*models.InviteCode, error) {
	if courseID != nil {
		course, err := s.courseRepo.GetByID(ctx, *courseID)
		if err != nil {
			return nil, err
		}
		if course.TeacherID != teacherID {
			return nil, pgx.ErrNoRows
		}
	}

	code, err := s.uniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	return s.inviteRepo.Create(ctx, code, teacherID, courseID)
}

func (s *InviteService) ListInvites(ctx context.Context, teacherID int64) ([]models.InviteCodeDetail, error) {
	return s.inviteRepo.ListByTeacherID(ctx, teacherID)
}

// DeleteInvite removes the invite regardless of its used state.
func (s *InviteService) DeleteInvite(ctx context.Context, teacherID, inviteID int64) error {
	invite, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		return err
	}
	if invite.TeacherID != teacherID {
		return pgx.ErrNoRows
	}
	return s.inviteRepo.Delete(ctx, inviteID)
}

func (s *InviteService) GetInvite(ctx context.Context, code string) (*models.InviteCodeDetail, error) {
	return s.inviteRepo.GetByCode(ctx, code)
}

// Redeem consumes the invite for an authenticated user. For a course-bound
// invite the enrollment is created idempotently (an existing one is left
// untouched) and is always paid: invite grants are free to the redeemer.
// The invite is then marked used unconditionally. Used invites are terminal
// and never mutate anything again.
func (s *InviteService) Redeem(ctx context.Context, code string, userID int64) (*models.InviteCodeDetail, error) {
	invite, err := s.inviteRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if invite.Used {
		return nil, ErrInviteUsed
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if invite.CourseID != nil {
		_, err := s.enrollmentRepo.GetByCourseAndUser(ctx, *invite.CourseID, userID)
		if errors.Is(err, pgx.ErrNoRows) {
			if _, err := s.enrollmentRepo.Create(ctx, *invite.CourseID, userID, true); err != nil {
				var pgErr *pgconn.PgError
				if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
					return nil, err
				}
			}
		} else if err != nil {
			return nil, err
		}
	}

	if err := s.inviteRepo.MarkUsed(ctx, invite.ID, user.Email); err != nil {
		return nil, err
	}

	return invite, nil
}

func (s *InviteService) uniqueCode(ctx context.Context) (string, error) {
	code, err := generateInviteCode()
	if err != nil {
		return "", err
	}
	for attempts := 0; attempts < maxCodeAttempts; attempts++ {
		exists, err := s.inviteRepo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			break
		}
		if code, err = generateInviteCode(); err != nil {
			return "", err
		}
	}
	return code, nil
}

func generateInviteCode() (string, error) {
	buf := make([]byte, inviteCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
