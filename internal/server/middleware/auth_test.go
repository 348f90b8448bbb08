package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophchat/internal/server/handlers"
	"github.com/iudanet/gophchat/internal/server/jwt"
	"github.com/iudanet/gophchat/pkg/api"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testHandler is a simple handler that checks context values
func testHandler(t *testing.T, expectedUserID int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := handlers.GetUserID(r.Context())
		require.True(t, ok, "user_id should be in context")
		assert.Equal(t, expectedUserID, userID)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

func TestAuthMiddleware_Success(t *testing.T) {
	tokens := jwt.NewService("test-secret-key", time.Hour)
	token, err := tokens.Issue(42)
	require.NoError(t, err)

	wrapped := AuthMiddleware(setupTestLogger(), tokens)(testHandler(t, 42))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestAuthMiddleware_LowercaseScheme(t *testing.T) {
	tokens := jwt.NewService("test-secret-key", time.Hour)
	token, err := tokens.Issue(5)
	require.NoError(t, err)

	wrapped := AuthMiddleware(setupTestLogger(), tokens)(testHandler(t, 5))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	req.Header.Set("Authorization", "bearer "+token)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	tokens := jwt.NewService("test-secret-key", time.Hour)
	valid, err := tokens.Issue(1)
	require.NoError(t, err)

	otherSecret, err := jwt.NewService("another-secret", time.Hour).Issue(1)
	require.NoError(t, err)

	expiredSvc := jwt.NewService("test-secret-key", time.Minute,
		jwt.WithClock(func() time.Time { return time.Now().Add(-time.Hour) }))
	expired, err := expiredSvc.Issue(1)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "no scheme", header: valid},
		{name: "basic scheme", header: "Basic " + valid},
		{name: "empty token", header: "Bearer "},
		{name: "garbage token", header: "Bearer not.a.token"},
		{name: "wrong secret", header: "Bearer " + otherSecret},
		{name: "expired", header: "Bearer " + expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			wrapped := AuthMiddleware(setupTestLogger(), tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, req)

			assert.False(t, called, "next handler must not run")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var resp api.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, "authentication required", resp.Message)
		})
	}
}
