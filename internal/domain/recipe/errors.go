package recipe

import "errors"

// Domain errors for recipe operations

var (
	// Entity validation errors
	ErrTitleRequired         = errors.New("recipe title is required")
	ErrTitleTooLong          = errors.New("recipe title must not exceed 255 characters")
	ErrNegativeTime          = errors.New("time_minutes must not be negative")
	ErrNegativePrice         = errors.New("price must not be negative")
	ErrAttributeNameRequired = errors.New("name is required")
	ErrAttributeNameTooLong  = errors.New("name must not exceed 255 characters")

	// Invariant violations
	ErrAttributeOwnerMismatch = errors.New("attribute is not owned by the recipe owner")

	// Lookup errors. Ownership violations are reported as not-found so
	// that existence of another user's rows is never revealed.
	ErrRecipeNotFound    = errors.New("recipe not found")
	ErrAttributeNotFound = errors.New("attribute not found")
)
