package services

import (
	"context"

	"github.com/matleal/fit-pro/internal/models"
)

type userStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateRole(ctx context.Context, id int64, role string) (*models.User, error)
}

type enrollmentChecker interface {
	ExistsByUserID(ctx context.Context, userID int64) (bool, error)
}

type UserService struct {
	userRepo       userStore
	enrollmentRepo enrollmentChecker
}

func NewUserService(userRepo userStore, enrollmentRepo enrollmentChecker) *UserService {
	return &UserService{
		userRepo:       userRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// SetRole overwrites the user's role. There is deliberately no transition
// guard: the same endpoint that sets the role the first time can change it
// again later.
func (s *UserService) SetRole(ctx context.Context, userID int64, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, ErrInvalidInput
	}
	return s.userRepo.UpdateRole(ctx, userID, role)
}

// SessionProfile returns the user plus whether the role chooser should be
// shown: only students who never picked a role and hold no enrollments
// (an enrollment means they arrived through an invite) are asked to choose.
func (s *UserService) SessionProfile(ctx context.Context, userID int64) (*models.User, bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	needsRoleChoice := false
	if !user.HasChosenRole && user.Role == models.RoleStudent {
		hasEnrollments, err := s.enrollmentRepo.ExistsByUserID(ctx, userID)
		if err != nil {
			return nil, false, err
		}
		needsRoleChoice = !hasEnrollments
	}

	return user, needsRoleChoice, nil
}
