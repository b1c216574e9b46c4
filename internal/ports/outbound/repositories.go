// Package outbound defines interfaces for external dependencies.
// The application layer depends on these, never on concrete storage.
package outbound

import (
	"context"

	"github.com/forkful/v1/internal/domain/recipe"
	"github.com/forkful/v1/internal/domain/user"
	"github.com/google/uuid"
)

// UserRepository handles user persistence
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	Update(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

// AuthTokenRepository maps opaque token keys to users
type AuthTokenRepository interface {
	Create(ctx context.Context, t *user.AuthToken) error
	FindByKey(ctx context.Context, key string) (*user.AuthToken, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*user.AuthToken, error)
	DeleteByKey(ctx context.Context, key string) error
}

// RecipeRepository handles recipe persistence.
//
// Update persists the entity's scalar fields and syncs both association
// sets to match the entity state. FindByIDForUser folds the ownership
// check into the lookup so a foreign recipe and a missing recipe are
// the same ErrRecipeNotFound.
type RecipeRepository interface {
	Create(ctx context.Context, r *recipe.Recipe) error
	Update(ctx context.Context, r *recipe.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*recipe.Recipe, error)
	ListAll(ctx context.Context) ([]*recipe.Recipe, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*recipe.Recipe, error)
}

// AttributeRepository handles tag and ingredient persistence. The two
// registries share a contract and differ only in kind.
type AttributeRepository interface {
	Create(ctx context.Context, kind recipe.AttributeKind, attr recipe.Attribute) error
	Update(ctx context.Context, kind recipe.AttributeKind, attr recipe.Attribute) error
	Delete(ctx context.Context, kind recipe.AttributeKind, id uuid.UUID) error
	FindByIDForUser(ctx context.Context, kind recipe.AttributeKind, id, userID uuid.UUID) (recipe.Attribute, error)
	FindByNameForUser(ctx context.Context, kind recipe.AttributeKind, name string, userID uuid.UUID) (recipe.Attribute, error)
	ListByUser(ctx context.Context, kind recipe.AttributeKind, userID uuid.UUID) ([]recipe.Attribute, error)
}

// TxManager runs a function inside a single storage transaction. The
// transactional handle travels in the context so repositories used
// within fn participate in the same transaction.
type TxManager interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
