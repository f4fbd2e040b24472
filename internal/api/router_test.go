package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mateuszmatysiak/collab-list/internal/config"
	"github.com/mateuszmatysiak/collab-list/internal/store"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			AccessExpiresIn:  time.Minute,
			RefreshExpiresIn: time.Hour,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
	return SetupRouter(cfg, zap.NewNop().Sugar(), store.NewMemory())
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload), "body: %s", rr.Body.String())
	return payload
}

func registerUser(t *testing.T, router *gin.Engine, name, login string) (token string, userID string) {
	t.Helper()

	rr := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"login":    login,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	payload := decode(t, rr)
	token, _ = payload["accessToken"].(string)
	require.NotEmpty(t, token)
	user, _ := payload["user"].(map[string]any)
	userID, _ = user["id"].(string)
	require.NotEmpty(t, userID)
	return token, userID
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthFlow(t *testing.T) {
	router := newTestRouter(t)

	registerUser(t, router, "Anna", "anna")

	rr := doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"login":    "anna",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	payload := decode(t, rr)
	refreshToken, _ := payload["refreshToken"].(string)
	require.NotEmpty(t, refreshToken)

	rr = doJSON(t, router, http.MethodPost, "/api/auth/refresh", "", gin.H{"refreshToken": refreshToken})
	require.Equal(t, http.StatusOK, rr.Code)

	// Rotation makes the first refresh token single use.
	rr = doJSON(t, router, http.MethodPost, "/api/auth/refresh", "", gin.H{"refreshToken": refreshToken})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLoginBadPasswordEnvelope(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, "Anna", "anna")

	rr := doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"login":    "anna",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	payload := decode(t, rr)
	errObj, ok := payload["error"].(map[string]any)
	require.True(t, ok, "body: %s", rr.Body.String())
	assert.Equal(t, "UNAUTHORIZED", errObj["code"])
	assert.NotEmpty(t, errObj["message"])
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/api/lists", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/lists", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestListSharingFlow(t *testing.T) {
	router := newTestRouter(t)
	annaToken, _ := registerUser(t, router, "Anna", "anna")
	benToken, benID := registerUser(t, router, "Ben", "ben")
	eveToken, _ := registerUser(t, router, "Eve", "eve")

	rr := doJSON(t, router, http.MethodPost, "/api/lists", annaToken, gin.H{"name": "Groceries"})
	require.Equal(t, http.StatusCreated, rr.Code)
	listID, _ := decode(t, rr)["id"].(string)
	require.NotEmpty(t, listID)

	// Before sharing Ben sees nothing, and cannot tell the list exists.
	rr = doJSON(t, router, http.MethodGet, "/api/lists/"+listID, benToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/api/lists/"+listID+"/share", annaToken, gin.H{"login": "ben"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/lists/"+listID, benToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "editor", decode(t, rr)["role"])

	// Ben can add items now.
	rr = doJSON(t, router, http.MethodPost, "/api/lists/"+listID+"/items", benToken, gin.H{"title": "Milk"})
	require.Equal(t, http.StatusCreated, rr.Code)

	// Eve still gets NotFound, same as for a missing list.
	rr = doJSON(t, router, http.MethodGet, "/api/lists/"+listID, eveToken, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	errObj, _ := decode(t, rr)["error"].(map[string]any)
	require.NotNil(t, errObj)
	assert.Equal(t, "NOT_FOUND", errObj["code"])

	// Removing the share revokes access.
	rr = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/lists/%s/share/%s", listID, benID), annaToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/lists/"+listID, benToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestItemLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token, _ := registerUser(t, router, "Anna", "anna")

	rr := doJSON(t, router, http.MethodPost, "/api/lists", token, gin.H{"name": "Groceries"})
	require.Equal(t, http.StatusCreated, rr.Code)
	listID, _ := decode(t, rr)["id"].(string)

	rr = doJSON(t, router, http.MethodPost, "/api/lists/"+listID+"/items", token, gin.H{"title": "Milk"})
	require.Equal(t, http.StatusCreated, rr.Code)
	milkID, _ := decode(t, rr)["id"].(string)

	rr = doJSON(t, router, http.MethodPost, "/api/lists/"+listID+"/items", token, gin.H{"title": "Bread"})
	require.Equal(t, http.StatusCreated, rr.Code)
	breadID, _ := decode(t, rr)["id"].(string)

	rr = doJSON(t, router, http.MethodPatch, "/api/lists/"+listID+"/items/"+milkID, token, gin.H{"isCompleted": true})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, decode(t, rr)["isCompleted"])

	rr = doJSON(t, router, http.MethodPut, "/api/lists/"+listID+"/items/reorder", token, gin.H{
		"itemIds": []string{breadID, milkID},
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/lists/"+listID+"/items", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Bread", items[0]["title"])
	assert.Equal(t, "Milk", items[1]["title"])

	rr = doJSON(t, router, http.MethodDelete, "/api/lists/"+listID+"/items/"+breadID, token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestPersonalCategoryEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token, _ := registerUser(t, router, "Anna", "anna")

	rr := doJSON(t, router, http.MethodPost, "/api/categories", token, gin.H{"name": "Dairy", "icon": "milk"})
	require.Equal(t, http.StatusCreated, rr.Code)
	categoryID, _ := decode(t, rr)["id"].(string)

	rr = doJSON(t, router, http.MethodPost, "/api/categories", token, gin.H{"name": "Dairy", "icon": "cheese"})
	require.Equal(t, http.StatusConflict, rr.Code)
	errObj, _ := decode(t, rr)["error"].(map[string]any)
	require.NotNil(t, errObj)
	assert.Equal(t, "CONFLICT", errObj["code"])

	rr = doJSON(t, router, http.MethodPatch, "/api/categories/"+categoryID, token, gin.H{"name": "Fresh"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Fresh", decode(t, rr)["name"])

	rr = doJSON(t, router, http.MethodGet, "/api/categories", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodDelete, "/api/categories/"+categoryID, token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestPersonalCategoryUpdateRejectsOversizedName(t *testing.T) {
	router := newTestRouter(t)
	token, _ := registerUser(t, router, "Anna", "anna")

	rr := doJSON(t, router, http.MethodPost, "/api/categories", token, gin.H{"name": "Dairy", "icon": "milk"})
	require.Equal(t, http.StatusCreated, rr.Code)
	categoryID, _ := decode(t, rr)["id"].(string)

	rr = doJSON(t, router, http.MethodPatch, "/api/categories/"+categoryID, token,
		gin.H{"name": strings.Repeat("x", 300)})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	errObj, _ := decode(t, rr)["error"].(map[string]any)
	require.NotNil(t, errObj)
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])

	rr = doJSON(t, router, http.MethodGet, "/api/categories", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Dairy")
}

func TestValidationErrorEnvelope(t *testing.T) {
	router := newTestRouter(t)
	token, _ := registerUser(t, router, "Anna", "anna")

	rr := doJSON(t, router, http.MethodPost, "/api/lists", token, gin.H{"name": ""})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	errObj, _ := decode(t, rr)["error"].(map[string]any)
	require.NotNil(t, errObj)
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
}
