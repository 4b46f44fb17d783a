package service

import (
	"fmt"
	"strings"

	"github.com/munckapp/munck-backend/internal/domain"
)

// ProfileService handles profile-related business logic
type ProfileService struct {
	userRepo domain.UserRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo domain.UserRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

// GetProfile retrieves a user's profile by Auth0 ID
func (s *ProfileService) GetProfile(auth0ID string) (*domain.User, error) {
	return s.userRepo.GetByAuth0ID(auth0ID)
}

// UpdateProfile updates a user's display name by Auth0 ID. The name is
// what gets stamped into created-by on service and expense writes.
func (s *ProfileService) UpdateProfile(auth0ID string, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if len(name) > domain.MaxNameLength {
		return nil, fmt.Errorf("%w: name exceeds %d characters", domain.ErrInvalidInput, domain.MaxNameLength)
	}
	return s.userRepo.UpdateName(auth0ID, name)
}
