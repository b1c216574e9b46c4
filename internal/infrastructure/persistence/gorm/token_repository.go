package gorm

import (
	"context"
	"errors"

	"github.com/forkful/v1/internal/domain/user"
	"github.com/forkful/v1/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthTokenRepository implements the token repository interface using GORM
type AuthTokenRepository struct {
	db *gorm.DB
}

// NewAuthTokenRepository creates a new auth token repository
func NewAuthTokenRepository(db *gorm.DB) outbound.AuthTokenRepository {
	return &AuthTokenRepository{db: db}
}

// Create stores a new token row
func (r *AuthTokenRepository) Create(ctx context.Context, t *user.AuthToken) error {
	model := TokenToModel(t)

	result := dbFromContext(ctx, r.db).Create(model)
	if result.Error != nil {
		return result.Error
	}

	return nil
}

// FindByKey finds a token by its opaque key
func (r *AuthTokenRepository) FindByKey(ctx context.Context, key string) (*user.AuthToken, error) {
	var model AuthTokenModel

	result := dbFromContext(ctx, r.db).First(&model, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, user.ErrTokenNotFound
		}
		return nil, result.Error
	}

	return ModelToToken(&model), nil
}

// DeleteByKey removes a token row. Deleting a missing key is not an error.
func (r *AuthTokenRepository) DeleteByKey(ctx context.Context, key string) error {
	result := dbFromContext(ctx, r.db).Delete(&AuthTokenModel{}, "key = ?", key)
	return result.Error
}

// FindByUserID finds the token issued to the given user
func (r *AuthTokenRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*user.AuthToken, error) {
	var model AuthTokenModel

	result := dbFromContext(ctx, r.db).First(&model, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, user.ErrTokenNotFound
		}
		return nil, result.Error
	}

	return ModelToToken(&model), nil
}
