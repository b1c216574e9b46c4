package recipe

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/forkful/v1/internal/domain/recipe"
	"github.com/forkful/v1/internal/domain/user"
	"github.com/forkful/v1/internal/ports/outbound"
	apperrors "github.com/forkful/v1/pkg/errors"
)

// AttributeService implements the tag and ingredient registries. Both
// kinds share the contract; only the kind argument differs. There is no
// direct create path: rows come into existence through recipe payloads.
type AttributeService struct {
	attrs    outbound.AttributeRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAttributeService creates a new attribute service
func NewAttributeService(attrs outbound.AttributeRepository, logger *zap.Logger) *AttributeService {
	return &AttributeService{
		attrs:    attrs,
		validate: validator.New(),
		logger:   logger.Named("attribute-service"),
	}
}

// RenameAttributeCommand carries an attribute rename.
type RenameAttributeCommand struct {
	Name string `json:"name" validate:"required,max=255"`
}

// List returns the caller's attributes of one kind, name descending.
// No capability widens this view: even privileged users only see their
// own rows here.
func (s *AttributeService) List(ctx context.Context, caller *user.User, kind recipe.AttributeKind) ([]AttributeDTO, error) {
	attrs, err := s.attrs.ListByUser(ctx, kind, caller.ID())
	if err != nil {
		return nil, apperrors.NewDatabaseError("list "+string(kind)+"s", err)
	}
	return toAttributeDTOs(attrs), nil
}

// Get returns one of the caller's attributes by id.
func (s *AttributeService) Get(ctx context.Context, caller *user.User, kind recipe.AttributeKind, id uuid.UUID) (*AttributeDTO, error) {
	attr, err := s.findForCaller(ctx, caller, kind, id)
	if err != nil {
		return nil, err
	}
	dto := AttributeDTO{ID: attr.ID, Name: attr.Name}
	return &dto, nil
}

// Rename changes an attribute's name. Renaming onto a name the caller
// already uses is allowed; rows are distinguished by id, not name.
func (s *AttributeService) Rename(ctx context.Context, caller *user.User, kind recipe.AttributeKind, id uuid.UUID, cmd RenameAttributeCommand) (*AttributeDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	attr, err := s.findForCaller(ctx, caller, kind, id)
	if err != nil {
		return nil, err
	}

	if err := attr.Rename(cmd.Name); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.attrs.Update(ctx, kind, attr); err != nil {
		if errors.Is(err, recipe.ErrAttributeNotFound) {
			return nil, apperrors.NewNotFoundError(string(kind))
		}
		return nil, apperrors.NewDatabaseError("update "+string(kind), err)
	}

	dto := AttributeDTO{ID: attr.ID, Name: attr.Name}
	return &dto, nil
}

// Delete removes one of the caller's attributes. Any recipe links to it
// go away with the row.
func (s *AttributeService) Delete(ctx context.Context, caller *user.User, kind recipe.AttributeKind, id uuid.UUID) error {
	if _, err := s.findForCaller(ctx, caller, kind, id); err != nil {
		return err
	}

	if err := s.attrs.Delete(ctx, kind, id); err != nil {
		if errors.Is(err, recipe.ErrAttributeNotFound) {
			return apperrors.NewNotFoundError(string(kind))
		}
		return apperrors.NewDatabaseError("delete "+string(kind), err)
	}

	s.logger.Info("attribute deleted",
		zap.String("kind", string(kind)),
		zap.String("attribute_id", id.String()),
	)
	return nil
}

func (s *AttributeService) findForCaller(ctx context.Context, caller *user.User, kind recipe.AttributeKind, id uuid.UUID) (recipe.Attribute, error) {
	attr, err := s.attrs.FindByIDForUser(ctx, kind, id, caller.ID())
	if err != nil {
		if errors.Is(err, recipe.ErrAttributeNotFound) {
			return recipe.Attribute{}, apperrors.NewNotFoundError(string(kind))
		}
		return recipe.Attribute{}, apperrors.NewDatabaseError("load "+string(kind), err)
	}
	return attr, nil
}
