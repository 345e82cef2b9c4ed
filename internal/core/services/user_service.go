package services

import (
	"context"
	"errors"

	"condocore/internal/adapters/persistence/models"
	"condocore/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// UserService exposes the user-directory operations used by the admin
// endpoints.
type UserService struct {
	users repositories.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetByID returns a single user.
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// List returns a page of users plus the total count.
func (s *UserService) List(ctx context.Context, offset, limit int) ([]*models.UserResponse, int64, error) {
	users, total, err := s.users.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*models.UserResponse, len(users))
	for i, u := range users {
		out[i] = u.ToResponse()
	}
	return out, total, nil
}

// SetActive toggles an account. Deactivation locks the user out on their
// next request regardless of outstanding tokens, because the authenticator
// re-resolves the principal every time.
func (s *UserService) SetActive(ctx context.Context, id uint, active bool) (*models.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.IsActive = active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}
