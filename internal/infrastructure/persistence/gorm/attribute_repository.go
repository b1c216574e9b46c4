package gorm

import (
	"context"
	"errors"

	"github.com/forkful/v1/internal/domain/recipe"
	"github.com/forkful/v1/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttributeRepository implements tag and ingredient persistence using
// GORM. Both registries share this implementation; the kind selects the
// table. All scoped lookups fold the ownership check into the query so
// a foreign row and a missing row both come back as not-found.
type AttributeRepository struct {
	db *gorm.DB
}

// NewAttributeRepository creates a new attribute repository
func NewAttributeRepository(db *gorm.DB) outbound.AttributeRepository {
	return &AttributeRepository{db: db}
}

// Create creates a new tag or ingredient
func (r *AttributeRepository) Create(ctx context.Context, kind recipe.AttributeKind, attr recipe.Attribute) error {
	db := dbFromContext(ctx, r.db)

	switch kind {
	case recipe.KindTag:
		model := AttributeToTagModel(attr)
		return db.Create(&model).Error
	case recipe.KindIngredient:
		model := AttributeToIngredientModel(attr)
		return db.Create(&model).Error
	default:
		return errors.New("unknown attribute kind")
	}
}

// Update renames an existing tag or ingredient
func (r *AttributeRepository) Update(ctx context.Context, kind recipe.AttributeKind, attr recipe.Attribute) error {
	db := dbFromContext(ctx, r.db)

	var result *gorm.DB
	switch kind {
	case recipe.KindTag:
		result = db.Model(&TagModel{}).Where("id = ?", attr.ID).Update("name", attr.Name)
	case recipe.KindIngredient:
		result = db.Model(&IngredientModel{}).Where("id = ?", attr.ID).Update("name", attr.Name)
	default:
		return errors.New("unknown attribute kind")
	}
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return recipe.ErrAttributeNotFound
	}

	return nil
}

// Delete removes a tag or ingredient by ID along with its recipe links.
func (r *AttributeRepository) Delete(ctx context.Context, kind recipe.AttributeKind, id uuid.UUID) error {
	db := dbFromContext(ctx, r.db)

	var result *gorm.DB
	switch kind {
	case recipe.KindTag:
		if err := db.Exec("DELETE FROM recipe_tags WHERE tag_model_id = ?", id).Error; err != nil {
			return err
		}
		result = db.Delete(&TagModel{}, "id = ?", id)
	case recipe.KindIngredient:
		if err := db.Exec("DELETE FROM recipe_ingredients WHERE ingredient_model_id = ?", id).Error; err != nil {
			return err
		}
		result = db.Delete(&IngredientModel{}, "id = ?", id)
	default:
		return errors.New("unknown attribute kind")
	}
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return recipe.ErrAttributeNotFound
	}

	return nil
}

// FindByIDForUser finds an attribute by ID scoped to its owner
func (r *AttributeRepository) FindByIDForUser(ctx context.Context, kind recipe.AttributeKind, id, userID uuid.UUID) (recipe.Attribute, error) {
	return r.findOne(ctx, kind, "id = ? AND user_id = ?", id, userID)
}

// FindByNameForUser finds an attribute by exact name scoped to its owner
func (r *AttributeRepository) FindByNameForUser(ctx context.Context, kind recipe.AttributeKind, name string, userID uuid.UUID) (recipe.Attribute, error) {
	return r.findOne(ctx, kind, "name = ? AND user_id = ?", name, userID)
}

// ListByUser lists a user's attributes ordered by name descending
func (r *AttributeRepository) ListByUser(ctx context.Context, kind recipe.AttributeKind, userID uuid.UUID) ([]recipe.Attribute, error) {
	db := dbFromContext(ctx, r.db)

	switch kind {
	case recipe.KindTag:
		var models []TagModel
		if err := db.Where("user_id = ?", userID).Order("name DESC").Find(&models).Error; err != nil {
			return nil, err
		}
		attrs := make([]recipe.Attribute, len(models))
		for i, m := range models {
			attrs[i] = TagModelToAttribute(m)
		}
		return attrs, nil
	case recipe.KindIngredient:
		var models []IngredientModel
		if err := db.Where("user_id = ?", userID).Order("name DESC").Find(&models).Error; err != nil {
			return nil, err
		}
		attrs := make([]recipe.Attribute, len(models))
		for i, m := range models {
			attrs[i] = IngredientModelToAttribute(m)
		}
		return attrs, nil
	default:
		return nil, errors.New("unknown attribute kind")
	}
}

func (r *AttributeRepository) findOne(ctx context.Context, kind recipe.AttributeKind, query string, args ...interface{}) (recipe.Attribute, error) {
	db := dbFromContext(ctx, r.db)

	switch kind {
	case recipe.KindTag:
		var model TagModel
		if err := db.First(&model, append([]interface{}{query}, args...)...).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return recipe.Attribute{}, recipe.ErrAttributeNotFound
			}
			return recipe.Attribute{}, err
		}
		return TagModelToAttribute(model), nil
	case recipe.KindIngredient:
		var model IngredientModel
		if err := db.First(&model, append([]interface{}{query}, args...)...).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return recipe.Attribute{}, recipe.ErrAttributeNotFound
			}
			return recipe.Attribute{}, err
		}
		return IngredientModelToAttribute(model), nil
	default:
		return recipe.Attribute{}, errors.New("unknown attribute kind")
	}
}
