package handlers

import (
	"net/http"

	"go.uber.org/zap"

	recipeapp "github.com/forkful/v1/internal/application/recipe"
	"github.com/forkful/v1/internal/domain/recipe"
)

// AttributeAPIHandlers serves the tag and ingredient registries. One
// instance per kind; the routes differ, the behavior does not.
type AttributeAPIHandlers struct {
	attributeService *recipeapp.AttributeService
	kind             recipe.AttributeKind
	logger           *zap.Logger
}

// NewTagAPIHandlers creates handlers for the tag registry
func NewTagAPIHandlers(attributeService *recipeapp.AttributeService, logger *zap.Logger) *AttributeAPIHandlers {
	return &AttributeAPIHandlers{
		attributeService: attributeService,
		kind:             recipe.KindTag,
		logger:           logger,
	}
}

// NewIngredientAPIHandlers creates handlers for the ingredient registry
func NewIngredientAPIHandlers(attributeService *recipeapp.AttributeService, logger *zap.Logger) *AttributeAPIHandlers {
	return &AttributeAPIHandlers{
		attributeService: attributeService,
		kind:             recipe.KindIngredient,
		logger:           logger,
	}
}

// List handles GET /api/v1/{tags,ingredients}
func (h *AttributeAPIHandlers) List(w http.ResponseWriter, r *http.Request) {
	u, ok := caller(w, r, h.logger)
	if !ok {
		return
	}

	dtos, err := h.attributeService.List(r.Context(), u, h.kind)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true, Data: dtos})
}

// Get handles GET /api/v1/{tags,ingredients}/{id}
func (h *AttributeAPIHandlers) Get(w http.ResponseWriter, r *http.Request) {
	u, ok := caller(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathID(w, r, h.logger, string(h.kind))
	if !ok {
		return
	}

	dto, err := h.attributeService.Get(r.Context(), u, h.kind, id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true, Data: dto})
}

// Rename handles PUT and PATCH on /api/v1/{tags,ingredients}/{id}.
// The resource has a single mutable field, so the two verbs coincide.
func (h *AttributeAPIHandlers) Rename(w http.ResponseWriter, r *http.Request) {
	u, ok := caller(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathID(w, r, h.logger, string(h.kind))
	if !ok {
		return
	}

	var cmd recipeapp.RenameAttributeCommand
	if err := decodeJSON(r, &cmd); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.attributeService.Rename(r.Context(), u, h.kind, id, cmd)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true, Data: dto})
}

// Delete handles DELETE /api/v1/{tags,ingredients}/{id}
func (h *AttributeAPIHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := caller(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathID(w, r, h.logger, string(h.kind))
	if !ok {
		return
	}

	if err := h.attributeService.Delete(r.Context(), u, h.kind, id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
