// Package gorm provides GORM model definitions and repository
// implementations for the application
package gorm

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UserModel represents the GORM model for users
type UserModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string    `gorm:"type:varchar(255)"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	IsStaff      bool      `gorm:"default:false"`
	IsSuperuser  bool      `gorm:"default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Relationships
	Recipes []RecipeModel `gorm:"foreignKey:UserID"`
}

// AuthTokenModel maps an opaque token key to a user
type AuthTokenModel struct {
	Key       string    `gorm:"type:char(40);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex"`
	CreatedAt time.Time

	// Relationships
	User UserModel `gorm:"foreignKey:UserID"`
}

// TagModel represents the GORM model for per-user tags.
// (name, user_id) uniqueness is an application convention, not a
// database constraint.
type TagModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null;index"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index"`
	CreatedAt time.Time

	// Relationships
	User UserModel `gorm:"foreignKey:UserID"`
}

// IngredientModel represents the GORM model for per-user ingredients,
// same shape and rules as TagModel.
type IngredientModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null;index"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index"`
	CreatedAt time.Time

	// Relationships
	User UserModel `gorm:"foreignKey:UserID"`
}

// RecipeModel represents the GORM model for recipes
type RecipeModel struct {
	ID          uuid.UUID       `gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID       `gorm:"type:char(36);not null;index"`
	Title       string          `gorm:"type:varchar(255);not null"`
	TimeMinutes int             `gorm:"not null;check:time_minutes >= 0"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Description string          `gorm:"type:text"`
	Link        string          `gorm:"type:varchar(255)"`
	CreatedAt   time.Time       `gorm:"index"`
	UpdatedAt   time.Time

	// Relationships
	User        UserModel         `gorm:"foreignKey:UserID"`
	Tags        []TagModel        `gorm:"many2many:recipe_tags"`
	Ingredients []IngredientModel `gorm:"many2many:recipe_ingredients"`
}

// BeforeCreate hook for UserModel
func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for TagModel
func (t *TagModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for IngredientModel
func (i *IngredientModel) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for RecipeModel
func (r *RecipeModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName methods for custom table names
func (UserModel) TableName() string {
	return "users"
}

func (AuthTokenModel) TableName() string {
	return "auth_tokens"
}

func (TagModel) TableName() string {
	return "tags"
}

func (IngredientModel) TableName() string {
	return "ingredients"
}

func (RecipeModel) TableName() string {
	return "recipes"
}
