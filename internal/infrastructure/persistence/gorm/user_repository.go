package gorm

import (
	"context"
	"errors"
	"strings"

	"github.com/forkful/v1/internal/domain/user"
	"github.com/forkful/v1/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository implements the user repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) outbound.UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. A unique-index violation on the email
// column surfaces as user.ErrEmailTaken so callers that lost a
// concurrent registration race can report it as a client error.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	model := UserToModel(u)

	result := dbFromContext(ctx, r.db).Create(model)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return user.ErrEmailTaken
		}
		return result.Error
	}

	return nil
}

// isUniqueViolation matches the duplicate-key errors of the drivers in
// use. SQLite and Postgres report them with different messages and the
// connection is not opened with error translation.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// Update updates an existing user
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	model := UserToModel(u)

	result := dbFromContext(ctx, r.db).
		Model(&UserModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":          model.Name,
			"password_hash": model.PasswordHash,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var model UserModel

	result := dbFromContext(ctx, r.db).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, result.Error
	}

	return ModelToUser(&model), nil
}

// FindByEmail finds a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel

	result := dbFromContext(ctx, r.db).First(&model, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, result.Error
	}

	return ModelToUser(&model), nil
}
