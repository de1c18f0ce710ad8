package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthHandler(t *testing.T) (http.Handler, *Service) {
	t.Helper()
	service := newTestService()
	r := chi.NewRouter()
	NewController(service, zap.NewNop()).RegisterRoutes(r)
	return r, service
}

func postLogin(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLoginEndpoint(t *testing.T) {
	h, service := newAuthHandler(t)

	rec := postLogin(t, h, LoginRequest{Username: "admin", Password: "password"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "admin", resp.Username)
	require.NotEmpty(t, resp.Token)

	username, ok := service.Validate(resp.Token)
	assert.True(t, ok)
	assert.Equal(t, "admin", username)
}

func TestLoginEndpoint_InvalidCredentials(t *testing.T) {
	h, _ := newAuthHandler(t)

	rec := postLogin(t, h, LoginRequest{Username: "admin", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestLoginEndpoint_BadRequests(t *testing.T) {
	h, _ := newAuthHandler(t)

	rec := postLogin(t, h, LoginRequest{Username: "admin"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("{nope"))
	raw := httptest.NewRecorder()
	h.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestLogoutEndpoint(t *testing.T) {
	h, service := newAuthHandler(t)

	token, err := service.Login("admin", "password")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, ok := service.Validate(token)
	assert.False(t, ok)

	// Logout without a session is still a 204.
	req = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
