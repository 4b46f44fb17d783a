package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/munckapp/munck-backend/internal/domain"
	"github.com/munckapp/munck-backend/internal/testutil"
)

func TestProfileUpdate(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	repo.AddUser(&domain.User{ID: uuid.New(), Auth0ID: "auth0|abc123", Email: "maria@munck.app"})
	svc := NewProfileService(repo)

	updated, err := svc.UpdateProfile("auth0|abc123", "  Maria Souza  ")
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Name == nil || *updated.Name != "Maria Souza" {
		t.Errorf("UpdateProfile() name = %v, want trimmed Maria Souza", updated.Name)
	}

	if _, err := svc.UpdateProfile("auth0|abc123", "   "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("UpdateProfile(blank) error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.UpdateProfile("auth0|missing", "Nome"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("UpdateProfile(unknown) error = %v, want ErrUserNotFound", err)
	}
}

func TestProfileGet(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	repo.AddUser(&domain.User{ID: uuid.New(), Auth0ID: "auth0|abc123", Email: "maria@munck.app"})
	svc := NewProfileService(repo)

	user, err := svc.GetProfile("auth0|abc123")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if user.DisplayName() != "maria@munck.app" {
		t.Errorf("DisplayName() = %q, want email fallback", user.DisplayName())
	}
}
