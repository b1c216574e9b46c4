// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	recipeapp "github.com/forkful/v1/internal/application/recipe"
	userapp "github.com/forkful/v1/internal/application/user"
	"github.com/forkful/v1/internal/infrastructure/config"
	"github.com/forkful/v1/internal/infrastructure/http/handlers"
	"github.com/forkful/v1/internal/infrastructure/http/middleware"
	"github.com/forkful/v1/internal/infrastructure/monitoring"
	"github.com/forkful/v1/internal/infrastructure/security"
)

// APIServer serves the JSON API. There is no template rendering: every
// response is JSON, including errors.
type APIServer struct {
	config           *config.Config
	logger           *zap.Logger
	server           *http.Server
	router           *chi.Mux
	userService      *userapp.UserService
	recipeService    *recipeapp.RecipeService
	attributeService *recipeapp.AttributeService
	authService      *security.AuthService
	metrics          *monitoring.Metrics
}

// NewAPIServer creates a new API server instance
func NewAPIServer(
	cfg *config.Config,
	log *zap.Logger,
	userService *userapp.UserService,
	recipeService *recipeapp.RecipeService,
	attributeService *recipeapp.AttributeService,
	authService *security.AuthService,
	metrics *monitoring.Metrics,
) *APIServer {
	s := &APIServer{
		config:           cfg,
		logger:           log,
		userService:      userService,
		recipeService:    recipeService,
		attributeService: attributeService,
		authService:      authService,
		metrics:          metrics,
	}

	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

// Router returns the configured router, used by tests to serve requests
// without binding a port.
func (s *APIServer) Router() http.Handler {
	return s.router
}

func (s *APIServer) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.JSONOnly())

	r.MethodNotAllowed(handlers.MethodNotAllowed(s.logger))

	if s.config.Server.EnableMetrics {
		r.Use(s.metrics.Middleware())
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Get("/health", s.handleHealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		s.setupAPIV1Routes(r)
	})

	return r
}

func (s *APIServer) setupAPIV1Routes(r chi.Router) {
	userH := handlers.NewUserAPIHandlers(s.userService, s.authService, s.logger)
	recipeH := handlers.NewRecipeAPIHandlers(s.recipeService, s.logger)
	tagH := handlers.NewTagAPIHandlers(s.attributeService, s.logger)
	ingredientH := handlers.NewIngredientAPIHandlers(s.attributeService, s.logger)

	r.Route("/users", func(r chi.Router) {
		r.Post("/create", userH.Register)
		r.Post("/token", userH.Token)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(s.authService))
			r.Get("/me", userH.GetProfile)
			r.Patch("/me", userH.UpdateProfile)
		})
	})

	r.Route("/recipes", func(r chi.Router) {
		r.Use(middleware.Authenticate(s.authService))
		r.Get("/", recipeH.ListRecipes)
		r.Post("/", recipeH.CreateRecipe)
		r.Get("/{id}", recipeH.GetRecipe)
		r.Put("/{id}", recipeH.ReplaceRecipe)
		r.Patch("/{id}", recipeH.PatchRecipe)
		r.Delete("/{id}", recipeH.DeleteRecipe)
	})

	for path, h := range map[string]*handlers.AttributeAPIHandlers{
		"/tags":        tagH,
		"/ingredients": ingredientH,
	} {
		h := h
		r.Route(path, func(r chi.Router) {
			r.Use(middleware.Authenticate(s.authService))
			r.Get("/", h.List)
			r.Get("/{id}", h.Get)
			r.Put("/{id}", h.Rename)
			r.Patch("/{id}", h.Rename)
			r.Delete("/{id}", h.Delete)
		})
	}
}

func (s *APIServer) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","service":%q,"version":%q}`,
		s.config.App.Name, s.config.App.Version)
}

// Start begins listening for HTTP requests
func (s *APIServer) Start() error {
	s.logger.Info("starting API server",
		zap.Int("port", s.config.Server.Port),
		zap.String("environment", s.config.App.Environment),
	)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("API server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}
