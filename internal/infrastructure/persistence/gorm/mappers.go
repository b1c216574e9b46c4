package gorm

import (
	"github.com/forkful/v1/internal/domain/recipe"
	"github.com/forkful/v1/internal/domain/user"
)

// UserToModel converts a user entity to its GORM model
func UserToModel(u *user.User) *UserModel {
	return &UserModel{
		ID:           u.ID(),
		Email:        u.Email(),
		Name:         u.Name(),
		PasswordHash: u.PasswordHash(),
		IsStaff:      u.IsStaff(),
		IsSuperuser:  u.IsSuperuser(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
	}
}

// ModelToUser converts a GORM model to a user entity
func ModelToUser(m *UserModel) *user.User {
	return user.Rehydrate(
		m.ID,
		m.Email,
		m.Name,
		m.PasswordHash,
		m.IsStaff,
		m.IsSuperuser,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

// TokenToModel converts an auth token to its GORM model
func TokenToModel(t *user.AuthToken) *AuthTokenModel {
	return &AuthTokenModel{
		Key:       t.Key,
		UserID:    t.UserID,
		CreatedAt: t.CreatedAt,
	}
}

// ModelToToken converts a GORM model to an auth token
func ModelToToken(m *AuthTokenModel) *user.AuthToken {
	return &user.AuthToken{
		Key:       m.Key,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
	}
}

// AttributeToTagModel converts an attribute to a tag model
func AttributeToTagModel(a recipe.Attribute) TagModel {
	return TagModel{
		ID:        a.ID,
		Name:      a.Name,
		UserID:    a.UserID,
		CreatedAt: a.CreatedAt,
	}
}

// AttributeToIngredientModel converts an attribute to an ingredient model
func AttributeToIngredientModel(a recipe.Attribute) IngredientModel {
	return IngredientModel{
		ID:        a.ID,
		Name:      a.Name,
		UserID:    a.UserID,
		CreatedAt: a.CreatedAt,
	}
}

// TagModelToAttribute converts a tag model to an attribute
func TagModelToAttribute(m TagModel) recipe.Attribute {
	return recipe.Attribute{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
}

// IngredientModelToAttribute converts an ingredient model to an attribute
func IngredientModelToAttribute(m IngredientModel) recipe.Attribute {
	return recipe.Attribute{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
}

// RecipeToModel converts a recipe entity to its GORM model
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	tags := make([]TagModel, len(r.Tags()))
	for i, t := range r.Tags() {
		tags[i] = AttributeToTagModel(t)
	}

	ingredients := make([]IngredientModel, len(r.Ingredients()))
	for i, in := range r.Ingredients() {
		ingredients[i] = AttributeToIngredientModel(in)
	}

	return &RecipeModel{
		ID:          r.ID(),
		UserID:      r.UserID(),
		Title:       r.Title(),
		TimeMinutes: r.TimeMinutes(),
		Price:       r.Price(),
		Description: r.Description(),
		Link:        r.Link(),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
		Tags:        tags,
		Ingredients: ingredients,
	}
}

// ModelToRecipe converts a GORM model to a recipe entity
func ModelToRecipe(m *RecipeModel) *recipe.Recipe {
	tags := make([]recipe.Attribute, len(m.Tags))
	for i, t := range m.Tags {
		tags[i] = TagModelToAttribute(t)
	}

	ingredients := make([]recipe.Attribute, len(m.Ingredients))
	for i, in := range m.Ingredients {
		ingredients[i] = IngredientModelToAttribute(in)
	}

	return recipe.RehydrateRecipe(
		m.ID,
		m.UserID,
		m.Title,
		m.TimeMinutes,
		m.Price,
		m.Description,
		m.Link,
		tags,
		ingredients,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
