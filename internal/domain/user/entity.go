// Package user defines the user domain entity
package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents an account in the system
type User struct {
	id           uuid.UUID
	email        string
	name         string
	passwordHash string
	isStaff      bool
	isSuperuser  bool
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates a new user with validation.
// The email's domain part is lowercased; the local part is kept as given.
func NewUser(email, name, password string) (*User, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrPasswordHashFailed
	}

	now := time.Now()
	return &User{
		id:           uuid.New(),
		email:        normalized,
		name:         name,
		passwordHash: string(hashedPassword),
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// NewSuperuser creates a user with staff and superuser privileges.
func NewSuperuser(email, password string) (*User, error) {
	u, err := NewUser(email, "", password)
	if err != nil {
		return nil, err
	}
	u.isStaff = true
	u.isSuperuser = true
	return u, nil
}

// Rehydrate reconstructs a user from persisted state.
func Rehydrate(id uuid.UUID, email, name, passwordHash string, isStaff, isSuperuser bool, createdAt, updatedAt time.Time) *User {
	return &User{
		id:           id,
		email:        email,
		name:         name,
		passwordHash: passwordHash,
		isStaff:      isStaff,
		isSuperuser:  isSuperuser,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ID returns the user's ID
func (u *User) ID() uuid.UUID {
	return u.id
}

// Email returns the user's email
func (u *User) Email() string {
	return u.email
}

// Name returns the user's display name
func (u *User) Name() string {
	return u.name
}

// PasswordHash returns the stored bcrypt hash
func (u *User) PasswordHash() string {
	return u.passwordHash
}

// IsStaff returns whether the user is staff
func (u *User) IsStaff() bool {
	return u.isStaff
}

// IsSuperuser returns whether the user is a superuser
func (u *User) IsSuperuser() bool {
	return u.isSuperuser
}

// CreatedAt returns when the user was created
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// UpdatedAt returns when the user was last updated
func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// CanListAllRecipes reports whether the user may list recipes owned by others.
func (u *User) CanListAllRecipes() bool {
	return u.isSuperuser
}

// CanActOnAnyRecipe reports whether the user may read, update or delete
// recipes owned by others.
func (u *User) CanActOnAnyRecipe() bool {
	return u.isSuperuser
}

// CheckPassword verifies if the provided password matches
func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password))
}

// UpdatePassword replaces the user's password with a new hash
func (u *User) UpdatePassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrPasswordHashFailed
	}

	u.passwordHash = string(hashedPassword)
	u.updatedAt = time.Now()
	return nil
}

// UpdateName updates the user's display name
func (u *User) UpdateName(name string) {
	u.name = name
	u.updatedAt = time.Now()
}

// NormalizeEmail validates an email and lowercases its domain part.
// The local part keeps the casing it was given.
func NormalizeEmail(email string) (string, error) {
	if email == "" {
		return "", ErrEmailRequired
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", ErrEmailInvalid
	}

	if len(email) > 255 {
		return "", ErrEmailTooLong
	}

	return email[:at+1] + strings.ToLower(email[at+1:]), nil
}

func validatePassword(password string) error {
	if len(password) < 5 {
		return ErrPasswordTooShort
	}

	if len(password) > 128 {
		return ErrPasswordTooLong
	}

	return nil
}
