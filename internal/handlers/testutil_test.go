package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/psyline/psyline-api/internal/cache"
	"github.com/psyline/psyline-api/internal/config"
	dbpkg "github.com/psyline/psyline-api/internal/db"
	"github.com/psyline/psyline-api/internal/media"
	"github.com/psyline/psyline-api/internal/routes"
)

const testSecret = "test-secret"

func itoa(id uint) string {
	return fmt.Sprintf("%d", id)
}

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	return setupRouterDeps(t, nil, nil)
}

func setupRouterWithMedia(t *testing.T, mediaStore media.Store) (*gin.Engine, *gorm.DB) {
	return setupRouterDeps(t, nil, mediaStore)
}

func setupRouterWithCache(t *testing.T, cacheClient cache.Client) (*gin.Engine, *gorm.DB) {
	return setupRouterDeps(t, cacheClient, nil)
}

func setupRouterDeps(t *testing.T, cacheClient cache.Client, mediaStore media.Store) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))

	cfg := &config.Config{JWTSecret: testSecret}

	r := gin.New()
	routes.RegisterRoutes(r, routes.Deps{
		DB:    db,
		Cfg:   cfg,
		Cache: cacheClient,
		Media: mediaStore,
	})

	return r, db
}

// memCache is an in-process cache.Client for tests.
type memCache struct {
	mu    sync.Mutex
	items map[string]string
}

func newMemCache() *memCache {
	return &memCache{items: map[string]string{}}
}

func (m *memCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.items[key]; ok {
		return v, nil
	}
	return "", cache.ErrMiss
}

func (m *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *memCache) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func (m *memCache) Close() error { return nil }

func doJSON(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

// registerUser creates a user through the API and returns its id.
func registerUser(t *testing.T, r http.Handler, email string) uint {
	t.Helper()

	w := doJSON(r, http.MethodPost, "/users/register", gin.H{
		"email":     email,
		"full_name": "Test User",
		"phone":     "+10000000000",
		"password":  "password1",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "register: %s", w.Body.String())

	body := decodeBody(t, w)
	return uint(body["id"].(float64))
}

func loginUser(t *testing.T, r http.Handler, email string) string {
	t.Helper()

	w := doJSON(r, http.MethodPost, "/users/login", gin.H{
		"email":    email,
		"password": "password1",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "login: %s", w.Body.String())

	body := decodeBody(t, w)
	return body["access_token"].(string)
}

// createPsychologist creates a profile for userID and returns its id.
func createPsychologist(t *testing.T, r http.Handler, userID uint, specializationIDs []uint) uint {
	t.Helper()

	w := doJSON(r, http.MethodPost, "/psychologists/", gin.H{
		"user_id":            userID,
		"experience":         5,
		"bio":                "CBT practitioner",
		"price_per_hour":     90.0,
		"specialization_ids": specializationIDs,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "create psychologist: %s", w.Body.String())

	body := decodeBody(t, w)
	return uint(body["id"].(float64))
}

func createSpecialization(t *testing.T, r http.Handler, name string) uint {
	t.Helper()

	w := doJSON(r, http.MethodPost, "/specializations/", gin.H{
		"name":        name,
		"description": "practice area",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "create specialization: %s", w.Body.String())

	body := decodeBody(t, w)
	return uint(body["id"].(float64))
}
