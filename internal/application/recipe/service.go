// Package recipe provides the application layer for recipes, tags and
// ingredients. All operations are scoped to the calling user unless the
// caller's capabilities say otherwise.
package recipe

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/forkful/v1/internal/domain/recipe"
	"github.com/forkful/v1/internal/domain/user"
	"github.com/forkful/v1/internal/ports/outbound"
	apperrors "github.com/forkful/v1/pkg/errors"
)

// RecipeService implements recipe use cases
type RecipeService struct {
	recipes  outbound.RecipeRepository
	attrs    outbound.AttributeRepository
	tx       outbound.TxManager
	validate *validator.Validate
	logger   *zap.Logger
}

// NewRecipeService creates a new recipe service
func NewRecipeService(
	recipes outbound.RecipeRepository,
	attrs outbound.AttributeRepository,
	tx outbound.TxManager,
	logger *zap.Logger,
) *RecipeService {
	return &RecipeService{
		recipes:  recipes,
		attrs:    attrs,
		tx:       tx,
		validate: validator.New(),
		logger:   logger.Named("recipe-service"),
	}
}

// AttributeInput names a tag or ingredient in a recipe payload.
type AttributeInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

// CreateRecipeCommand contains the payload for creating a recipe.
// TimeMinutes and Price are pointers so that an explicit zero still
// satisfies required; the association fields are pointers too, nil
// meaning the field was absent.
type CreateRecipeCommand struct {
	Title       string            `json:"title" validate:"required,max=255"`
	TimeMinutes *int              `json:"time_minutes" validate:"required,min=0"`
	Price       *decimal.Decimal  `json:"price" validate:"required"`
	Description string            `json:"description"`
	Link        string            `json:"link" validate:"max=255"`
	Tags        *[]AttributeInput `json:"tags" validate:"omitempty,dive"`
	Ingredients *[]AttributeInput `json:"ingredients" validate:"omitempty,dive"`
}

// UpdateRecipeCommand contains a recipe update. Every field is three
// state: nil means absent. PUT requires title, time_minutes and price
// and resets the optional scalars; PATCH merges whatever is present.
// Association fields behave the same under both verbs: absent leaves
// the set alone, present replaces it wholesale, empty clears it.
type UpdateRecipeCommand struct {
	Title       *string           `json:"title" validate:"omitempty,max=255"`
	TimeMinutes *int              `json:"time_minutes" validate:"omitempty,min=0"`
	Price       *decimal.Decimal  `json:"price"`
	Description *string           `json:"description"`
	Link        *string           `json:"link" validate:"omitempty,max=255"`
	Tags        *[]AttributeInput `json:"tags" validate:"omitempty,dive"`
	Ingredients *[]AttributeInput `json:"ingredients" validate:"omitempty,dive"`
}

// AttributeDTO is the nested representation of a tag or ingredient.
type AttributeDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// RecipeSummaryDTO is the list representation of a recipe. It carries
// no description and no nested attributes.
type RecipeSummaryDTO struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Link        string          `json:"link"`
}

// RecipeDetailDTO is the expanded representation of a single recipe.
type RecipeDetailDTO struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Link        string          `json:"link"`
	Tags        []AttributeDTO  `json:"tags"`
	Ingredients []AttributeDTO  `json:"ingredients"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toSummaryDTO(r *recipe.Recipe) RecipeSummaryDTO {
	return RecipeSummaryDTO{
		ID:          r.ID(),
		Title:       r.Title(),
		TimeMinutes: r.TimeMinutes(),
		Price:       r.Price(),
		Link:        r.Link(),
	}
}

func toDetailDTO(r *recipe.Recipe) RecipeDetailDTO {
	return RecipeDetailDTO{
		ID:          r.ID(),
		Title:       r.Title(),
		TimeMinutes: r.TimeMinutes(),
		Price:       r.Price(),
		Description: r.Description(),
		Link:        r.Link(),
		Tags:        toAttributeDTOs(r.Tags()),
		Ingredients: toAttributeDTOs(r.Ingredients()),
		CreatedAt:   r.CreatedAt(),
	}
}

func toAttributeDTOs(attrs []recipe.Attribute) []AttributeDTO {
	dtos := make([]AttributeDTO, 0, len(attrs))
	for _, a := range attrs {
		dtos = append(dtos, AttributeDTO{ID: a.ID, Name: a.Name})
	}
	return dtos
}

// ListRecipes returns the caller's recipes, newest first. Callers with
// the list-all capability see every user's recipes.
func (s *RecipeService) ListRecipes(ctx context.Context, caller *user.User) ([]RecipeSummaryDTO, error) {
	var (
		found []*recipe.Recipe
		err   error
	)
	if caller.CanListAllRecipes() {
		found, err = s.recipes.ListAll(ctx)
	} else {
		found, err = s.recipes.ListByUser(ctx, caller.ID())
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("list recipes", err)
	}

	dtos := make([]RecipeSummaryDTO, 0, len(found))
	for _, r := range found {
		dtos = append(dtos, toSummaryDTO(r))
	}
	return dtos, nil
}

// GetRecipe returns one recipe in its expanded representation. A recipe
// owned by someone else reads as not found unless the caller may act on
// any recipe.
func (s *RecipeService) GetRecipe(ctx context.Context, caller *user.User, id uuid.UUID) (*RecipeDetailDTO, error) {
	r, err := s.findForCaller(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	dto := toDetailDTO(r)
	return &dto, nil
}

// CreateRecipe creates a recipe owned by the caller. Named tags and
// ingredients resolve to the caller's existing rows or fresh ones; the
// whole write runs in one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, caller *user.User, cmd CreateRecipeCommand) (*RecipeDetailDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	r, err := recipe.NewRecipe(caller.ID(), cmd.Title, *cmd.TimeMinutes, *cmd.Price, cmd.Description, cmd.Link)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.applyAssociations(ctx, r, cmd.Tags, cmd.Ingredients); err != nil {
			return err
		}
		if err := s.recipes.Create(ctx, r); err != nil {
			return apperrors.NewDatabaseError("create recipe", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("recipe created",
		zap.String("recipe_id", r.ID().String()),
		zap.String("user_id", caller.ID().String()),
	)

	dto := toDetailDTO(r)
	return &dto, nil
}

// ReplaceRecipe is the full-replace update. The required scalars must
// all be present; absent optional scalars reset to their defaults.
func (s *RecipeService) ReplaceRecipe(ctx context.Context, caller *user.User, id uuid.UUID, cmd UpdateRecipeCommand) (*RecipeDetailDTO, error) {
	if cmd.Title == nil || cmd.TimeMinutes == nil || cmd.Price == nil {
		return nil, apperrors.NewValidationError("title, time_minutes and price are required")
	}
	if cmd.Description == nil {
		empty := ""
		cmd.Description = &empty
	}
	if cmd.Link == nil {
		empty := ""
		cmd.Link = &empty
	}
	return s.updateRecipe(ctx, caller, id, cmd)
}

// PatchRecipe is the partial update: only present fields change.
func (s *RecipeService) PatchRecipe(ctx context.Context, caller *user.User, id uuid.UUID, cmd UpdateRecipeCommand) (*RecipeDetailDTO, error) {
	return s.updateRecipe(ctx, caller, id, cmd)
}

func (s *RecipeService) updateRecipe(ctx context.Context, caller *user.User, id uuid.UUID, cmd UpdateRecipeCommand) (*RecipeDetailDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	r, err := s.findForCaller(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if cmd.Title != nil {
		if err := r.UpdateTitle(*cmd.Title); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}
	if cmd.TimeMinutes != nil {
		if err := r.UpdateTimeMinutes(*cmd.TimeMinutes); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}
	if cmd.Price != nil {
		if err := r.UpdatePrice(*cmd.Price); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}
	if cmd.Description != nil {
		r.UpdateDescription(*cmd.Description)
	}
	if cmd.Link != nil {
		r.UpdateLink(*cmd.Link)
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.applyAssociations(ctx, r, cmd.Tags, cmd.Ingredients); err != nil {
			return err
		}
		if err := s.recipes.Update(ctx, r); err != nil {
			if errors.Is(err, recipe.ErrRecipeNotFound) {
				return apperrors.NewNotFoundError("recipe")
			}
			return apperrors.NewDatabaseError("update recipe", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := toDetailDTO(r)
	return &dto, nil
}

// DeleteRecipe removes a recipe together with its association rows. The
// tag and ingredient rows themselves survive.
func (s *RecipeService) DeleteRecipe(ctx context.Context, caller *user.User, id uuid.UUID) error {
	r, err := s.findForCaller(ctx, caller, id)
	if err != nil {
		return err
	}

	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.recipes.Delete(ctx, r.ID()); err != nil {
			if errors.Is(err, recipe.ErrRecipeNotFound) {
				return apperrors.NewNotFoundError("recipe")
			}
			return apperrors.NewDatabaseError("delete recipe", err)
		}
		return nil
	})
}

// findForCaller loads a recipe the caller may act on. For ordinary
// users the ownership check is folded into the query itself.
func (s *RecipeService) findForCaller(ctx context.Context, caller *user.User, id uuid.UUID) (*recipe.Recipe, error) {
	var (
		r   *recipe.Recipe
		err error
	)
	if caller.CanActOnAnyRecipe() {
		r, err = s.recipes.FindByID(ctx, id)
	} else {
		r, err = s.recipes.FindByIDForUser(ctx, id, caller.ID())
	}
	if err != nil {
		if errors.Is(err, recipe.ErrRecipeNotFound) {
			return nil, apperrors.NewNotFoundError("recipe")
		}
		return nil, apperrors.NewDatabaseError("load recipe", err)
	}
	return r, nil
}

// applyAssociations resolves the payload's tag and ingredient names and
// replaces the recipe's sets. Resolution always runs under the recipe
// owner's identity, so a privileged caller editing someone else's
// recipe reuses and creates rows in the owner's namespace.
func (s *RecipeService) applyAssociations(ctx context.Context, r *recipe.Recipe, tags, ingredients *[]AttributeInput) error {
	ownerID := r.UserID()

	if tags != nil {
		resolved, err := s.resolveAttributes(ctx, recipe.KindTag, ownerID, *tags)
		if err != nil {
			return err
		}
		if err := r.SetTags(resolved); err != nil {
			return apperrors.NewValidationError(err.Error())
		}
	}
	if ingredients != nil {
		resolved, err := s.resolveAttributes(ctx, recipe.KindIngredient, ownerID, *ingredients)
		if err != nil {
			return err
		}
		if err := r.SetIngredients(resolved); err != nil {
			return apperrors.NewValidationError(err.Error())
		}
	}
	return nil
}

// resolveAttributes maps payload names to attribute rows owned by
// ownerID, creating rows for names that do not exist yet. Matching is
// exact: no trimming, no case folding. Names repeated within one
// payload collapse to a single row via the in-request cache.
func (s *RecipeService) resolveAttributes(ctx context.Context, kind recipe.AttributeKind, ownerID uuid.UUID, inputs []AttributeInput) ([]recipe.Attribute, error) {
	resolved := make([]recipe.Attribute, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))

	for _, in := range inputs {
		if _, ok := seen[in.Name]; ok {
			continue
		}

		attr, err := s.attrs.FindByNameForUser(ctx, kind, in.Name, ownerID)
		if err != nil {
			if !errors.Is(err, recipe.ErrAttributeNotFound) {
				return nil, apperrors.NewDatabaseError("look up "+string(kind), err)
			}
			attr, err = recipe.NewAttribute(ownerID, in.Name)
			if err != nil {
				return nil, apperrors.NewValidationError(err.Error())
			}
			if err := s.attrs.Create(ctx, kind, attr); err != nil {
				return nil, apperrors.NewDatabaseError("create "+string(kind), err)
			}
		}

		seen[in.Name] = struct{}{}
		resolved = append(resolved, attr)
	}
	return resolved, nil
}
