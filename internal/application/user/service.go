// Package user provides the application layer for user management
package user

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/forkful/v1/internal/domain/user"
	"github.com/forkful/v1/internal/ports/outbound"
	apperrors "github.com/forkful/v1/pkg/errors"
)

// UserService implements user management use cases
type UserService struct {
	userRepo outbound.UserRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo outbound.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		validate: validator.New(),
		logger:   logger.Named("user-service"),
	}
}

// RegisterCommand contains user registration data
type RegisterCommand struct {
	Email    string `json:"email" validate:"required,max=255"`
	Name     string `json:"name" validate:"max=255"`
	Password string `json:"password" validate:"required,min=5,max=128"`
}

// UpdateProfileCommand carries a partial profile update. Nil fields are
// left untouched.
type UpdateProfileCommand struct {
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Password *string `json:"password" validate:"omitempty,min=5,max=128"`
}

// UserDTO represents user data returned by the API
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ToDTO maps a domain user to its API representation.
func ToDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:        u.ID(),
		Email:     u.Email(),
		Name:      u.Name(),
		CreatedAt: u.CreatedAt(),
	}
}

// Register creates a new user account. Registering an email that already
// has an account is a client error, not a conflict leak: the response
// carries a 400 like any other invalid payload.
func (s *UserService) Register(ctx context.Context, cmd RegisterCommand) (*UserDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	u, err := user.NewUser(cmd.Email, cmd.Name, cmd.Password)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if _, err := s.userRepo.FindByEmail(ctx, u.Email()); err == nil {
		return nil, apperrors.NewEmailAlreadyExistsError(u.Email())
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return nil, apperrors.NewDatabaseError("check email uniqueness", err)
	}

	// Two registrations can race past the uniqueness read; the email
	// index is the backstop and its violation is still a client error.
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, apperrors.NewEmailAlreadyExistsError(u.Email())
		}
		return nil, apperrors.NewDatabaseError("create user", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", u.ID().String()),
		zap.String("email", u.Email()),
	)

	dto := ToDTO(u)
	return &dto, nil
}

// GetProfile returns the caller's own record.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user")
		}
		return nil, apperrors.NewDatabaseError("load user", err)
	}

	dto := ToDTO(u)
	return &dto, nil
}

// UpdateProfile applies a partial update to the caller's own record.
// A new password is re-hashed before it is stored.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, cmd UpdateProfileCommand) (*UserDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user")
		}
		return nil, apperrors.NewDatabaseError("load user", err)
	}

	if cmd.Name != nil {
		u.UpdateName(*cmd.Name)
	}
	if cmd.Password != nil {
		if err := u.UpdatePassword(*cmd.Password); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, apperrors.NewDatabaseError("update user", err)
	}

	s.logger.Info("profile updated", zap.String("user_id", u.ID().String()))

	dto := ToDTO(u)
	return &dto, nil
}
