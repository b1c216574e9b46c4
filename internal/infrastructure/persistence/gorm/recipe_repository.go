package gorm

import (
	"context"
	"errors"

	"github.com/forkful/v1/internal/domain/recipe"
	"github.com/forkful/v1/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) outbound.RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create persists a new recipe. The scalar row is written first, then
// the association sets; callers run this inside a transaction.
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	db := dbFromContext(ctx, r.db)
	model := RecipeToModel(rec)

	result := db.Omit("Tags", "Ingredients").Create(model)
	if result.Error != nil {
		return result.Error
	}

	return r.syncAssociations(db, model)
}

// Update persists scalar fields and syncs both association sets to the
// entity state.
func (r *RecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) error {
	db := dbFromContext(ctx, r.db)
	model := RecipeToModel(rec)

	result := db.Model(&RecipeModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"title":        model.Title,
			"time_minutes": model.TimeMinutes,
			"price":        model.Price,
			"description":  model.Description,
			"link":         model.Link,
			"updated_at":   model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return recipe.ErrRecipeNotFound
	}

	return r.syncAssociations(db, model)
}

// Delete removes a recipe and its association rows
func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFromContext(ctx, r.db)
	model := &RecipeModel{ID: id}

	if err := db.Model(model).Association("Tags").Clear(); err != nil {
		return err
	}
	if err := db.Model(model).Association("Ingredients").Clear(); err != nil {
		return err
	}

	result := db.Delete(&RecipeModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return recipe.ErrRecipeNotFound
	}

	return nil
}

// FindByID finds a recipe by ID without an ownership scope
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByIDForUser finds a recipe by ID scoped to its owner. A foreign
// recipe and a missing recipe are the same ErrRecipeNotFound.
func (r *RecipeRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*recipe.Recipe, error) {
	return r.findOne(ctx, "id = ? AND user_id = ?", id, userID)
}

// ListAll lists every recipe, newest first
func (r *RecipeRepository) ListAll(ctx context.Context) ([]*recipe.Recipe, error) {
	return r.list(ctx, dbFromContext(ctx, r.db))
}

// ListByUser lists a user's recipes, newest first
func (r *RecipeRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*recipe.Recipe, error) {
	db := dbFromContext(ctx, r.db).Where("user_id = ?", userID)
	return r.list(ctx, db)
}

func (r *RecipeRepository) findOne(ctx context.Context, query string, args ...interface{}) (*recipe.Recipe, error) {
	var model RecipeModel

	result := preloadAttributes(dbFromContext(ctx, r.db)).
		First(&model, append([]interface{}{query}, args...)...)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, recipe.ErrRecipeNotFound
		}
		return nil, result.Error
	}

	return ModelToRecipe(&model), nil
}

func (r *RecipeRepository) list(ctx context.Context, db *gorm.DB) ([]*recipe.Recipe, error) {
	var models []RecipeModel

	result := preloadAttributes(db).
		Order("created_at DESC, id DESC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	recipes := make([]*recipe.Recipe, len(models))
	for i := range models {
		recipes[i] = ModelToRecipe(&models[i])
	}

	return recipes, nil
}

// syncAssociations replaces both association sets wholesale. Rows
// absent from the model are detached even if previously attached.
func (r *RecipeRepository) syncAssociations(db *gorm.DB, model *RecipeModel) error {
	anchor := &RecipeModel{ID: model.ID}

	tags := make([]*TagModel, len(model.Tags))
	for i := range model.Tags {
		tags[i] = &model.Tags[i]
	}
	if err := db.Model(anchor).Association("Tags").Replace(tags); err != nil {
		return err
	}

	ingredients := make([]*IngredientModel, len(model.Ingredients))
	for i := range model.Ingredients {
		ingredients[i] = &model.Ingredients[i]
	}
	if err := db.Model(anchor).Association("Ingredients").Replace(ingredients); err != nil {
		return err
	}

	return nil
}

func preloadAttributes(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("name DESC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("name DESC") })
}
