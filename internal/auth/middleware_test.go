package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockVerifier struct {
	ValidateFunc func(token string) (string, bool)
}

func (m *mockVerifier) Validate(token string) (string, bool) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(token)
	}
	return "", false
}

func protectedEcho(t *testing.T, verifier Verifier) (http.Handler, *string) {
	t.Helper()
	var seenUsername string
	handler := Middleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUsername = ContextUsername(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &seenUsername
}

func TestMiddleware_AllowsValidToken(t *testing.T) {
	verifier := &mockVerifier{
		ValidateFunc: func(token string) (string, bool) {
			if token == "good-token" {
				return "admin", true
			}
			return "", false
		},
	}
	handler, seenUsername := protectedEcho(t, verifier)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", *seenUsername)
}

func TestMiddleware_Rejections(t *testing.T) {
	handler, _ := protectedEcho(t, &mockVerifier{})

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic abc123"},
		{"unknown token", "Bearer stale-token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
		})
	}
}

func TestContextUsername_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", ContextUsername(req.Context()))
}
