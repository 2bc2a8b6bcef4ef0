package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName    = errors.New("name is required")
	ErrInvalidEmail = errors.New("email must contain '@'")
)

// User is a registered customer referenced by orders.
type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

// NewUser builds a user with a generated id. When email is empty it is derived
// from the name, e.g. "Ada Lovelace" -> "ada.lovelace@example.com".
func NewUser(name, email string) (*User, error) {
	user := &User{ID: NewID(), CreatedAt: time.Now().UTC()}
	if err := user.Rename(name); err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		email = DefaultEmail(user.Name)
	}
	if err := user.SetEmail(email); err != nil {
		return nil, err
	}
	return user, nil
}

// NewID returns an 8 character identifier.
func NewID() string {
	return uuid.NewString()[:8]
}

// DefaultEmail derives the placeholder address used when none is supplied.
func DefaultEmail(name string) string {
	local := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", ".")
	return local + "@example.com"
}

// Rename trims and validates the display name.
func (u *User) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	u.Name = name
	return nil
}

// SetEmail validates and stores the address.
func (u *User) SetEmail(email string) error {
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	u.Email = email
	return nil
}

// Validate enforces invariants on the entity.
func (u *User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id is required")
	}
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	if !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}
