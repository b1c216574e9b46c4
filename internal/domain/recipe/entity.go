// Package recipe contains the core domain logic for recipes and their
// per-user tag and ingredient attributes.
package recipe

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Recipe is the aggregate root. It references its owning user and holds
// many-to-many links to tags and ingredients owned by the same user.
type Recipe struct {
	id          uuid.UUID
	userID      uuid.UUID
	title       string
	timeMinutes int
	price       decimal.Decimal
	description string
	link        string
	tags        []Attribute
	ingredients []Attribute
	createdAt   time.Time
	updatedAt   time.Time
}

// Attribute is a per-user named entity: a tag or an ingredient. Both
// kinds share the same shape and lifecycle rules.
type Attribute struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	CreatedAt time.Time
}

// AttributeKind distinguishes the two attribute registries.
type AttributeKind string

const (
	KindTag        AttributeKind = "tag"
	KindIngredient AttributeKind = "ingredient"
)

// NewAttribute creates a tag or ingredient owned by the given user.
func NewAttribute(userID uuid.UUID, name string) (Attribute, error) {
	if name == "" {
		return Attribute{}, ErrAttributeNameRequired
	}
	if len(name) > 255 {
		return Attribute{}, ErrAttributeNameTooLong
	}
	return Attribute{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
	}, nil
}

// Rename changes the attribute's name with validation.
func (a *Attribute) Rename(name string) error {
	if name == "" {
		return ErrAttributeNameRequired
	}
	if len(name) > 255 {
		return ErrAttributeNameTooLong
	}
	a.Name = name
	return nil
}

// NewRecipe creates a new recipe with validation.
func NewRecipe(userID uuid.UUID, title string, timeMinutes int, price decimal.Decimal, description, link string) (*Recipe, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateTimeMinutes(timeMinutes); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Recipe{
		id:          uuid.New(),
		userID:      userID,
		title:       title,
		timeMinutes: timeMinutes,
		price:       price,
		description: description,
		link:        link,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// RehydrateRecipe reconstructs a recipe from persisted state.
func RehydrateRecipe(id, userID uuid.UUID, title string, timeMinutes int, price decimal.Decimal, description, link string, tags, ingredients []Attribute, createdAt, updatedAt time.Time) *Recipe {
	return &Recipe{
		id:          id,
		userID:      userID,
		title:       title,
		timeMinutes: timeMinutes,
		price:       price,
		description: description,
		link:        link,
		tags:        tags,
		ingredients: ingredients,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the recipe's unique identifier
func (r *Recipe) ID() uuid.UUID {
	return r.id
}

// UserID returns the owning user's identifier. Ownership never changes
// after creation.
func (r *Recipe) UserID() uuid.UUID {
	return r.userID
}

// Title returns the recipe's title
func (r *Recipe) Title() string {
	return r.title
}

// TimeMinutes returns the preparation time in minutes
func (r *Recipe) TimeMinutes() int {
	return r.timeMinutes
}

// Price returns the recipe's price with exact decimal semantics
func (r *Recipe) Price() decimal.Decimal {
	return r.price
}

// Description returns the recipe's description
func (r *Recipe) Description() string {
	return r.description
}

// Link returns the recipe's external link
func (r *Recipe) Link() string {
	return r.link
}

// Tags returns the recipe's tags
func (r *Recipe) Tags() []Attribute {
	return r.tags
}

// Ingredients returns the recipe's ingredients
func (r *Recipe) Ingredients() []Attribute {
	return r.ingredients
}

// CreatedAt returns when the recipe was created
func (r *Recipe) CreatedAt() time.Time {
	return r.createdAt
}

// UpdatedAt returns when the recipe was last updated
func (r *Recipe) UpdatedAt() time.Time {
	return r.updatedAt
}

// UpdateTitle updates the recipe title with validation
func (r *Recipe) UpdateTitle(title string) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	r.title = title
	r.updatedAt = time.Now()
	return nil
}

// UpdateTimeMinutes updates the preparation time with validation
func (r *Recipe) UpdateTimeMinutes(timeMinutes int) error {
	if err := validateTimeMinutes(timeMinutes); err != nil {
		return err
	}
	r.timeMinutes = timeMinutes
	r.updatedAt = time.Now()
	return nil
}

// UpdatePrice updates the price with validation
func (r *Recipe) UpdatePrice(price decimal.Decimal) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	r.price = price
	r.updatedAt = time.Now()
	return nil
}

// UpdateDescription updates the description
func (r *Recipe) UpdateDescription(description string) {
	r.description = description
	r.updatedAt = time.Now()
}

// UpdateLink updates the external link
func (r *Recipe) UpdateLink(link string) {
	r.link = link
	r.updatedAt = time.Now()
}

// SetTags replaces the recipe's tag set wholesale. Every tag must be
// owned by the recipe's owner.
func (r *Recipe) SetTags(tags []Attribute) error {
	for _, t := range tags {
		if t.UserID != r.userID {
			return ErrAttributeOwnerMismatch
		}
	}
	r.tags = tags
	r.updatedAt = time.Now()
	return nil
}

// SetIngredients replaces the recipe's ingredient set wholesale. Every
// ingredient must be owned by the recipe's owner.
func (r *Recipe) SetIngredients(ingredients []Attribute) error {
	for _, in := range ingredients {
		if in.UserID != r.userID {
			return ErrAttributeOwnerMismatch
		}
	}
	r.ingredients = ingredients
	r.updatedAt = time.Now()
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return ErrTitleRequired
	}
	if len(title) > 255 {
		return ErrTitleTooLong
	}
	return nil
}

func validateTimeMinutes(timeMinutes int) error {
	if timeMinutes < 0 {
		return ErrNegativeTime
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}
