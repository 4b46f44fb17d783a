package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an office user authenticated through Auth0. The display name is
// stamped into createdBy on every write so records stay attributable.
type User struct {
	ID         uuid.UUID `json:"id"`
	Auth0ID    string    `json:"auth0Id"`
	Email      string    `json:"email"`
	Name       *string   `json:"name"`
	PictureURL *string   `json:"pictureUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// DisplayName prefers the chosen profile name, falling back to the email.
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}

type UserRepository interface {
	GetByAuth0ID(auth0ID string) (*User, error)
	UpdateName(auth0ID string, name string) (*User, error)
	CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string) (*User, error)
}
