package services

import (
	"errors"
	"fmt"

	"github.com/mtakagi/discussion-board-api/internal/authz"
	"github.com/mtakagi/discussion-board-api/internal/models"
	"github.com/mtakagi/discussion-board-api/internal/repository"
	"gorm.io/gorm"
)

var ErrUserUpdateForbidden = errors.New("not authorized to update this user")

// UserService provides user directory and profile operations.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// ListUsers returns users matching an optional name/email search.
func (s *UserService) ListUsers(search string) ([]models.User, error) {
	users, err := s.userRepo.List(search)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUserInput carries optional profile changes. Nil fields are left
// untouched.
type UpdateUserInput struct {
	Name      *string
	Phone     *string
	AuthLevel *models.AuthLevel
}

// UpdateUser applies profile changes. Only the user themselves or a
// superuser may update; a non-superuser attempting to set AuthLevel has that
// field silently dropped rather than rejected.
func (s *UserService) UpdateUser(actor models.User, targetID uint64, input UpdateUserInput) (*models.User, error) {
	if !authz.CanManageUser(actor.IsSuperuser(), actor.ID == targetID) {
		return nil, ErrUserUpdateForbidden
	}

	user, err := s.userRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.AuthLevel != nil && actor.IsSuperuser() {
		user.AuthLevel = *input.AuthLevel
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes a user record. Superuser-only; enforced at the route.
func (s *UserService) DeleteUser(id uint64) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
