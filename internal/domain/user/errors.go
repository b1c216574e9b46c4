package user

import "errors"

// Domain errors for user operations

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("invalid email format")
	ErrEmailTooLong       = errors.New("email must not exceed 255 characters")
	ErrPasswordTooShort   = errors.New("password must be at least 5 characters")
	ErrPasswordTooLong    = errors.New("password must not exceed 128 characters")
	ErrPasswordHashFailed = errors.New("failed to hash password")

	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrTokenNotFound = errors.New("auth token not found")
)
