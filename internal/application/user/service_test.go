package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	gormLogger "gorm.io/gorm/logger"

	"github.com/forkful/v1/internal/domain/user"
	gormRepo "github.com/forkful/v1/internal/infrastructure/persistence/gorm"
	"github.com/forkful/v1/internal/infrastructure/persistence/sqlite"
	"github.com/forkful/v1/internal/ports/outbound"
	apperrors "github.com/forkful/v1/pkg/errors"
)

type UserServiceTestSuite struct {
	suite.Suite
	users   outbound.UserRepository
	service *UserService
	ctx     context.Context
}

func (s *UserServiceTestSuite) SetupTest() {
	db, err := sqlite.SetupDatabase(":memory:", gormLogger.Silent)
	s.Require().NoError(err)

	s.users = gormRepo.NewUserRepository(db)
	s.service = NewUserService(s.users, zap.NewNop())
	s.ctx = context.Background()
}

func (s *UserServiceTestSuite) TestRegister() {
	dto, err := s.service.Register(s.ctx, RegisterCommand{
		Email:    "new@EXAMPLE.com",
		Name:     "New User",
		Password: "password123",
	})
	s.Require().NoError(err)
	s.Equal("new@example.com", dto.Email)
	s.Equal("New User", dto.Name)

	stored, err := s.users.FindByEmail(s.ctx, "new@example.com")
	s.Require().NoError(err)
	s.NoError(stored.CheckPassword("password123"))
	s.False(stored.IsSuperuser())
}

func (s *UserServiceTestSuite) TestRegister_DuplicateEmail() {
	_, err := s.service.Register(s.ctx, RegisterCommand{
		Email: "dup@example.com", Name: "First", Password: "password123",
	})
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, RegisterCommand{
		Email: "dup@example.com", Name: "Second", Password: "password456",
	})
	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.CodeEmailAlreadyExists))

	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(400, appErr.StatusCode())
}

// blindUserRepo never sees existing rows on the uniqueness read, the
// way a registration that loses a concurrent race would not.
type blindUserRepo struct {
	outbound.UserRepository
}

func (r *blindUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, user.ErrUserNotFound
}

func (s *UserServiceTestSuite) TestRegister_LostRaceStillClientError() {
	_, err := s.service.Register(s.ctx, RegisterCommand{
		Email: "dup@example.com", Name: "First", Password: "password123",
	})
	s.Require().NoError(err)

	racing := NewUserService(&blindUserRepo{UserRepository: s.users}, zap.NewNop())
	_, err = racing.Register(s.ctx, RegisterCommand{
		Email: "dup@example.com", Name: "Second", Password: "password456",
	})
	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.CodeEmailAlreadyExists))

	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(400, appErr.StatusCode())
}

func (s *UserServiceTestSuite) TestRegister_ShortPasswordRejected() {
	_, err := s.service.Register(s.ctx, RegisterCommand{
		Email: "short@example.com", Name: "Short", Password: "pw",
	})
	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.CodeValidationFailed))

	// No partial row was written.
	_, err = s.users.FindByEmail(s.ctx, "short@example.com")
	s.ErrorIs(err, user.ErrUserNotFound)
}

func (s *UserServiceTestSuite) TestRegister_MissingEmail() {
	_, err := s.service.Register(s.ctx, RegisterCommand{
		Name: "No Email", Password: "password123",
	})
	s.True(apperrors.Is(err, apperrors.CodeValidationFailed))
}

func (s *UserServiceTestSuite) TestGetProfile() {
	dto, err := s.service.Register(s.ctx, RegisterCommand{
		Email: "me@example.com", Name: "Me", Password: "password123",
	})
	s.Require().NoError(err)

	got, err := s.service.GetProfile(s.ctx, dto.ID)
	s.Require().NoError(err)
	s.Equal("me@example.com", got.Email)
	s.Equal("Me", got.Name)
}

func (s *UserServiceTestSuite) TestUpdateProfile_PartialMerge() {
	dto, err := s.service.Register(s.ctx, RegisterCommand{
		Email: "me@example.com", Name: "Me", Password: "password123",
	})
	s.Require().NoError(err)

	name := "Renamed"
	got, err := s.service.UpdateProfile(s.ctx, dto.ID, UpdateProfileCommand{Name: &name})
	s.Require().NoError(err)
	s.Equal("Renamed", got.Name)
	s.Equal("me@example.com", got.Email)

	// Old password still valid: only the name changed.
	stored, err := s.users.FindByID(s.ctx, dto.ID)
	s.Require().NoError(err)
	s.NoError(stored.CheckPassword("password123"))
}

func (s *UserServiceTestSuite) TestUpdateProfile_PasswordRehash() {
	dto, err := s.service.Register(s.ctx, RegisterCommand{
		Email: "me@example.com", Name: "Me", Password: "password123",
	})
	s.Require().NoError(err)

	password := "fresh-password"
	_, err = s.service.UpdateProfile(s.ctx, dto.ID, UpdateProfileCommand{Password: &password})
	s.Require().NoError(err)

	stored, err := s.users.FindByID(s.ctx, dto.ID)
	s.Require().NoError(err)
	s.NoError(stored.CheckPassword("fresh-password"))
	s.Error(stored.CheckPassword("password123"))
}

func (s *UserServiceTestSuite) TestUpdateProfile_ShortPasswordRejected() {
	dto, err := s.service.Register(s.ctx, RegisterCommand{
		Email: "me@example.com", Name: "Me", Password: "password123",
	})
	s.Require().NoError(err)

	password := "pw"
	_, err = s.service.UpdateProfile(s.ctx, dto.ID, UpdateProfileCommand{Password: &password})
	s.True(apperrors.Is(err, apperrors.CodeValidationFailed))
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
