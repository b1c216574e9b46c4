package apiserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	gormLogger "gorm.io/gorm/logger"

	recipeapp "github.com/forkful/v1/internal/application/recipe"
	userapp "github.com/forkful/v1/internal/application/user"
	"github.com/forkful/v1/internal/domain/user"
	"github.com/forkful/v1/internal/infrastructure/config"
	"github.com/forkful/v1/internal/infrastructure/monitoring"
	gormRepo "github.com/forkful/v1/internal/infrastructure/persistence/gorm"
	"github.com/forkful/v1/internal/infrastructure/persistence/sqlite"
	"github.com/forkful/v1/internal/infrastructure/security"
	"github.com/forkful/v1/internal/ports/outbound"
)

// APITestSuite drives the whole stack end to end through the router,
// backed by in-memory SQLite.
type APITestSuite struct {
	suite.Suite
	handler http.Handler
	users   outbound.UserRepository
}

func (s *APITestSuite) SetupTest() {
	db, err := sqlite.SetupDatabase(":memory:", gormLogger.Silent)
	s.Require().NoError(err)

	cfg := &config.Config{
		App: config.AppConfig{
			Name:        "forkful-test",
			Version:     "test",
			Environment: "test",
		},
		Server: config.ServerConfig{
			Port:          0,
			ReadTimeout:   5 * time.Second,
			WriteTimeout:  5 * time.Second,
			IdleTimeout:   5 * time.Second,
			EnableMetrics: true,
		},
	}

	logger := zap.NewNop()
	users := gormRepo.NewUserRepository(db)
	tokens := gormRepo.NewAuthTokenRepository(db)
	recipes := gormRepo.NewRecipeRepository(db)
	attrs := gormRepo.NewAttributeRepository(db)
	tx := gormRepo.NewTxManager(db)

	authService := security.NewAuthService(users, tokens, nil, cfg, logger)
	userService := userapp.NewUserService(users, logger)
	recipeService := recipeapp.NewRecipeService(recipes, attrs, tx, logger)
	attributeService := recipeapp.NewAttributeService(attrs, logger)

	server := NewAPIServer(cfg, logger, userService, recipeService, attributeService, authService, monitoring.NewMetrics())
	s.handler = server.Router()
	s.users = users
}

func (s *APITestSuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *APITestSuite) data(rec *httptest.ResponseRecorder) map[string]interface{} {
	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &envelope))
	s.True(envelope.Success)
	return envelope.Data
}

func (s *APITestSuite) dataList(rec *httptest.ResponseRecorder) []map[string]interface{} {
	var envelope struct {
		Success bool                     `json:"success"`
		Data    []map[string]interface{} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &envelope))
	s.True(envelope.Success)
	return envelope.Data
}

func (s *APITestSuite) register(email, password string) {
	rec := s.do(http.MethodPost, "/api/v1/users/create", "", map[string]string{
		"email": email, "name": "Test User", "password": password,
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
}

func (s *APITestSuite) token(email, password string) string {
	rec := s.do(http.MethodPost, "/api/v1/users/token", "", map[string]string{
		"email": email, "password": password,
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	return s.data(rec)["token"].(string)
}

func (s *APITestSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "healthy")
}

func (s *APITestSuite) TestMetricsExposed() {
	// Drive one request through the middleware so the counter has a sample.
	s.do(http.MethodGet, "/health", "", nil)

	rec := s.do(http.MethodGet, "/metrics", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "forkful_http_requests_total")
}

func (s *APITestSuite) TestRegisterAndToken() {
	s.register("chef@example.com", "password123")
	key := s.token("chef@example.com", "password123")
	s.Len(key, 40)

	// Token is stable across logins.
	s.Equal(key, s.token("chef@example.com", "password123"))
}

func (s *APITestSuite) TestRegister_DuplicateEmailIs400() {
	s.register("chef@example.com", "password123")

	rec := s.do(http.MethodPost, "/api/v1/users/create", "", map[string]string{
		"email": "chef@example.com", "name": "Another", "password": "password456",
	})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APITestSuite) TestToken_BadCredentialsAre400() {
	s.register("chef@example.com", "password123")

	for _, body := range []map[string]string{
		{"email": "chef@example.com", "password": "wrong"},
		{"email": "chef@example.com", "password": ""},
		{"email": "nobody@example.com", "password": "password123"},
	} {
		rec := s.do(http.MethodPost, "/api/v1/users/token", "", body)
		s.Equal(http.StatusBadRequest, rec.Code, body)
	}
}

func (s *APITestSuite) TestProtectedEndpointsRequireToken() {
	for _, path := range []string{"/api/v1/recipes/", "/api/v1/tags/", "/api/v1/ingredients/", "/api/v1/users/me"} {
		rec := s.do(http.MethodGet, path, "", nil)
		s.Equal(http.StatusUnauthorized, rec.Code, path)
	}

	rec := s.do(http.MethodGet, "/api/v1/recipes/", "bogus-token", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *APITestSuite) TestProfile() {
	s.register("chef@example.com", "password123")
	key := s.token("chef@example.com", "password123")

	rec := s.do(http.MethodGet, "/api/v1/users/me", key, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("chef@example.com", s.data(rec)["email"])

	rec = s.do(http.MethodPatch, "/api/v1/users/me", key, map[string]string{"name": "Head Chef"})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("Head Chef", s.data(rec)["name"])

	// Unwired verb on a wired path gets the standard error envelope.
	rec = s.do(http.MethodDelete, "/api/v1/users/me", key, nil)
	s.Equal(http.StatusMethodNotAllowed, rec.Code)
	s.Contains(rec.Body.String(), "METHOD_NOT_ALLOWED")
}

func (s *APITestSuite) TestRecipeLifecycle() {
	s.register("chef@example.com", "password123")
	key := s.token("chef@example.com", "password123")

	// Create with both association kinds.
	rec := s.do(http.MethodPost, "/api/v1/recipes/", key, map[string]interface{}{
		"title":        "Pongal",
		"time_minutes": 30,
		"price":        "5.50",
		"description":  "A festive rice dish",
		"tags":         []map[string]string{{"name": "Indian"}, {"name": "Breakfast"}},
		"ingredients":  []map[string]string{{"name": "Rice"}, {"name": "Lentils"}},
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	created := s.data(rec)
	recipeID := created["id"].(string)
	s.Len(created["tags"], 2)
	s.Len(created["ingredients"], 2)
	s.Equal("5.50", created["price"])

	// List: summary representation, no description key.
	rec = s.do(http.MethodGet, "/api/v1/recipes/", key, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	listed := s.dataList(rec)
	s.Require().Len(listed, 1)
	s.Equal("Pongal", listed[0]["title"])
	s.NotContains(listed[0], "description")
	s.NotContains(listed[0], "tags")

	// Detail: expanded representation.
	rec = s.do(http.MethodGet, "/api/v1/recipes/"+recipeID, key, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	detail := s.data(rec)
	s.Equal("A festive rice dish", detail["description"])

	// Patch: clear tags with an empty list, leave ingredients alone.
	rec = s.do(http.MethodPatch, "/api/v1/recipes/"+recipeID, key, map[string]interface{}{
		"tags": []map[string]string{},
	})
	s.Require().Equal(http.StatusOK, rec.Code)
	patched := s.data(rec)
	s.Empty(patched["tags"])
	s.Len(patched["ingredients"], 2)

	// The tag rows survive in the registry.
	rec = s.do(http.MethodGet, "/api/v1/tags/", key, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Len(s.dataList(rec), 2)

	// Delete.
	rec = s.do(http.MethodDelete, "/api/v1/recipes/"+recipeID, key, nil)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/recipes/"+recipeID, key, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APITestSuite) TestOwnershipHidesForeignRecipes() {
	s.register("alice@example.com", "password123")
	s.register("bob@example.com", "password123")
	aliceKey := s.token("alice@example.com", "password123")
	bobKey := s.token("bob@example.com", "password123")

	rec := s.do(http.MethodPost, "/api/v1/recipes/", aliceKey, map[string]interface{}{
		"title":        "Secret Sauce",
		"time_minutes": 10,
		"price":        "3.00",
	})
	s.Require().Equal(http.StatusCreated, rec.Code)
	recipeID := s.data(rec)["id"].(string)

	rec = s.do(http.MethodGet, "/api/v1/recipes/", bobKey, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Empty(s.dataList(rec))

	for _, probe := range []struct {
		method string
		body   interface{}
	}{
		{http.MethodGet, nil},
		{http.MethodPatch, map[string]string{"title": "Hijacked"}},
		{http.MethodDelete, nil},
	} {
		rec = s.do(probe.method, "/api/v1/recipes/"+recipeID, bobKey, probe.body)
		s.Equal(http.StatusNotFound, rec.Code, probe.method)
	}
}

func (s *APITestSuite) TestSuperuserBypassWithOwnerScopedResolution() {
	s.register("alice@example.com", "password123")
	aliceKey := s.token("alice@example.com", "password123")

	admin, err := user.NewSuperuser("admin@example.com", "password123")
	s.Require().NoError(err)
	s.Require().NoError(s.users.Create(context.Background(), admin))
	adminKey := s.token("admin@example.com", "password123")

	rec := s.do(http.MethodPost, "/api/v1/recipes/", aliceKey, map[string]interface{}{
		"title":        "Alice's Curry",
		"time_minutes": 45,
		"price":        "8.00",
	})
	s.Require().Equal(http.StatusCreated, rec.Code)
	recipeID := s.data(rec)["id"].(string)

	// Admin can see and edit it.
	rec = s.do(http.MethodPatch, "/api/v1/recipes/"+recipeID, adminKey, map[string]interface{}{
		"tags": []map[string]string{{"name": "Reviewed"}},
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	// The created tag landed in alice's registry, not the admin's.
	rec = s.do(http.MethodGet, "/api/v1/tags/", aliceKey, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	aliceTags := s.dataList(rec)
	s.Require().Len(aliceTags, 1)
	s.Equal("Reviewed", aliceTags[0]["name"])

	rec = s.do(http.MethodGet, "/api/v1/tags/", adminKey, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Empty(s.dataList(rec))
}

func (s *APITestSuite) TestTagRegistryEndpoints() {
	s.register("chef@example.com", "password123")
	key := s.token("chef@example.com", "password123")

	rec := s.do(http.MethodPost, "/api/v1/recipes/", key, map[string]interface{}{
		"title":        "Pongal",
		"time_minutes": 30,
		"price":        "5.00",
		"tags":         []map[string]string{{"name": "Indian"}},
	})
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/tags/", key, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	tags := s.dataList(rec)
	s.Require().Len(tags, 1)
	tagID := tags[0]["id"].(string)

	rec = s.do(http.MethodPatch, fmt.Sprintf("/api/v1/tags/%s", tagID), key, map[string]string{"name": "South Indian"})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("South Indian", s.data(rec)["name"])

	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/tags/%s", tagID), key, nil)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/v1/tags/%s", tagID), key, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APITestSuite) TestValidationErrors() {
	s.register("chef@example.com", "password123")
	key := s.token("chef@example.com", "password123")

	// Missing title.
	rec := s.do(http.MethodPost, "/api/v1/recipes/", key, map[string]interface{}{
		"time_minutes": 10,
		"price":        "5.00",
	})
	s.Equal(http.StatusBadRequest, rec.Code)

	// Title alone is not enough: time_minutes and price are required.
	rec = s.do(http.MethodPost, "/api/v1/recipes/", key, map[string]interface{}{
		"title": "Title Only",
	})
	s.Equal(http.StatusBadRequest, rec.Code)

	// Negative time.
	rec = s.do(http.MethodPost, "/api/v1/recipes/", key, map[string]interface{}{
		"title":        "Broken",
		"time_minutes": -5,
		"price":        "5.00",
	})
	s.Equal(http.StatusBadRequest, rec.Code)

	// Malformed JSON body.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+key)
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	s.Equal(http.StatusBadRequest, w.Code)
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
