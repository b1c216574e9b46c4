// Package security provides authentication services built on opaque tokens.
package security

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/forkful/v1/internal/domain/user"
	"github.com/forkful/v1/internal/infrastructure/cache"
	"github.com/forkful/v1/internal/infrastructure/config"
	"github.com/forkful/v1/internal/ports/outbound"
	apperrors "github.com/forkful/v1/pkg/errors"
)

// AuthService authenticates credentials and resolves opaque tokens back to
// users. Tokens are random keys stored server side, one per user: repeated
// authentication returns the existing key instead of minting a new one.
type AuthService struct {
	users    outbound.UserRepository
	tokens   outbound.AuthTokenRepository
	cache    *cache.TokenCache
	tokenTTL time.Duration
	logger   *zap.Logger
}

// NewAuthService creates an authentication service. The token cache is
// optional and may be nil when Redis is disabled.
func NewAuthService(
	users outbound.UserRepository,
	tokens outbound.AuthTokenRepository,
	tokenCache *cache.TokenCache,
	cfg *config.Config,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		cache:    tokenCache,
		tokenTTL: cfg.Auth.TokenTTL,
		logger:   logger,
	}
}

// Authenticate verifies the email and password pair and returns the user's
// token, creating one on first login. Bad credentials and unknown emails are
// indistinguishable to the caller.
func (a *AuthService) Authenticate(ctx context.Context, email, password string) (*user.AuthToken, error) {
	normalized, err := user.NormalizeEmail(email)
	if err != nil {
		return nil, apperrors.NewInvalidCredentialsError()
	}

	u, err := a.users.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperrors.NewInvalidCredentialsError()
		}
		return nil, apperrors.NewDatabaseError("look up user", err)
	}

	if err := u.CheckPassword(password); err != nil {
		a.logger.Debug("password mismatch", zap.String("email", normalized))
		return nil, apperrors.NewInvalidCredentialsError()
	}

	return a.getOrCreateToken(ctx, u)
}

func (a *AuthService) getOrCreateToken(ctx context.Context, u *user.User) (*user.AuthToken, error) {
	token, err := a.tokens.FindByUserID(ctx, u.ID())
	if err == nil {
		if a.expired(token) {
			// Stale token: rotate it so the client gets a fresh key.
			if delErr := a.tokens.DeleteByKey(ctx, token.Key); delErr != nil {
				return nil, apperrors.NewDatabaseError("rotate token", delErr)
			}
			if a.cache != nil {
				a.cache.Invalidate(ctx, token.Key)
			}
		} else {
			return token, nil
		}
	} else if !errors.Is(err, user.ErrTokenNotFound) {
		return nil, apperrors.NewDatabaseError("look up token", err)
	}

	token, err = user.NewAuthToken(u.ID())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate token")
	}
	if err := a.tokens.Create(ctx, token); err != nil {
		return nil, apperrors.NewDatabaseError("store token", err)
	}

	a.logger.Info("issued auth token", zap.String("user_id", u.ID().String()))
	return token, nil
}

// ResolveToken returns the user owning the given token key. Unknown and
// expired keys both produce an unauthorized error.
func (a *AuthService) ResolveToken(ctx context.Context, key string) (*user.User, error) {
	if a.cache != nil {
		if userID, ok := a.cache.Get(ctx, key); ok {
			u, err := a.users.FindByID(ctx, userID)
			if err == nil {
				return u, nil
			}
			a.cache.Invalidate(ctx, key)
		}
	}

	token, err := a.tokens.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, user.ErrTokenNotFound) {
			return nil, apperrors.NewUnauthorizedError("Invalid token.")
		}
		return nil, apperrors.NewDatabaseError("look up token", err)
	}

	if a.expired(token) {
		if a.cache != nil {
			a.cache.Invalidate(ctx, key)
		}
		return nil, apperrors.NewUnauthorizedError("Invalid token.")
	}

	u, err := a.users.FindByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("Invalid token.")
		}
		return nil, apperrors.NewDatabaseError("load token user", err)
	}

	if a.cache != nil {
		a.cache.Set(ctx, key, u.ID())
	}
	return u, nil
}

func (a *AuthService) expired(token *user.AuthToken) bool {
	if a.tokenTTL <= 0 {
		return false
	}
	return time.Since(token.CreatedAt) > a.tokenTTL
}
