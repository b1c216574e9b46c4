package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	recipeapp "github.com/forkful/v1/internal/application/recipe"
	"github.com/forkful/v1/internal/domain/user"
	"github.com/forkful/v1/internal/infrastructure/http/middleware"
	apperrors "github.com/forkful/v1/pkg/errors"
)

// RecipeAPIHandlers handles recipe CRUD requests
type RecipeAPIHandlers struct {
	recipeService *recipeapp.RecipeService
	logger        *zap.Logger
}

// NewRecipeAPIHandlers creates a new recipe API handlers instance
func NewRecipeAPIHandlers(recipeService *recipeapp.RecipeService, logger *zap.Logger) *RecipeAPIHandlers {
	return &RecipeAPIHandlers{
		recipeService: recipeService,
		logger:        logger,
	}
}

// caller extracts the authenticated user, or writes a 401.
func caller(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (*user.User, bool) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, logger, apperrors.NewUnauthorizedError(""))
	}
	return u, ok
}

// pathID parses the {id} path parameter, or writes a 404. An ID that
// does not parse can never name an existing resource.
func pathID(w http.ResponseWriter, r *http.Request, logger *zap.Logger, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, logger, apperrors.NewNotFoundError(resource))
		return uuid.Nil, false
	}
	return id, true
}

// ListRecipes handles GET /api/v1/recipes
func (h *RecipeAPIHandlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	u, ok := caller(w, r, h.logger)
	if !ok {
		return
	}

	dtos, err := h.recipeService.ListRecipes(r.Context(), u)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true, Data: dtos})
}

// GetRecipe handles GET /api/v1/recipes/{id}
func (h *RecipeAPIHandlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	u, ok := caller(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathID(w, r, h.logger, "recipe")
	if !ok {
		return
	}

	dto, err := h.recipeService.GetRecipe(r.Context(), u, id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true, Data: dto})
}

// CreateRecipe handles POST /api/v1/recipes
func (h *RecipeAPIHandlers) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	u, ok := caller(w, r, h.logger)
	if !ok {
		return
	}

	var cmd recipeapp.CreateRecipeCommand
	if err := decodeJSON(r, &cmd); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.recipeService.CreateRecipe(r.Context(), u, cmd)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, APIResponse{Success: true, Data: dto})
}

// ReplaceRecipe handles PUT /api/v1/recipes/{id}
func (h *RecipeAPIHandlers) ReplaceRecipe(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

// PatchRecipe handles PATCH /api/v1/recipes/{id}
func (h *RecipeAPIHandlers) PatchRecipe(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *RecipeAPIHandlers) update(w http.ResponseWriter, r *http.Request, full bool) {
	u, ok := caller(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathID(w, r, h.logger, "recipe")
	if !ok {
		return
	}

	var cmd recipeapp.UpdateRecipeCommand
	if err := decodeJSON(r, &cmd); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var (
		dto *recipeapp.RecipeDetailDTO
		err error
	)
	if full {
		dto, err = h.recipeService.ReplaceRecipe(r.Context(), u, id, cmd)
	} else {
		dto, err = h.recipeService.PatchRecipe(r.Context(), u, id, cmd)
	}
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true, Data: dto})
}

// DeleteRecipe handles DELETE /api/v1/recipes/{id}
func (h *RecipeAPIHandlers) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	u, ok := caller(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathID(w, r, h.logger, "recipe")
	if !ok {
		return
	}

	if err := h.recipeService.DeleteRecipe(r.Context(), u, id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
