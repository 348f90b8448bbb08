package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophchat/pkg/api"
)

func TestAuthHandler_Register(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		body       any
		name       string
		wantMsg    string
		wantStatus int
	}{
		{
			name:       "successful registration",
			body:       api.RegisterRequest{Email: "a@x.com", Password: "secret1", Name: "Alice"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "duplicate email",
			body:       api.RegisterRequest{Email: "a@x.com", Password: "secret1"},
			wantStatus: http.StatusConflict,
			wantMsg:    "email is already registered",
		},
		{
			name:       "invalid email",
			body:       api.RegisterRequest{Email: "nope", Password: "secret1"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "invalid email",
		},
		{
			name:       "short password",
			body:       api.RegisterRequest{Email: "b@x.com", Password: "123"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "at least 6 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.auth.Register(w, jsonRequest(t, http.MethodPost, "/api/v1/auth/register", tt.body))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			resp := decodeResponse[api.AuthResponse](t, w)
			if tt.wantStatus == http.StatusCreated {
				assert.True(t, resp.Success)
				assert.NotEmpty(t, resp.Data.Token)
				assert.Equal(t, "a@x.com", resp.Data.User.Email)
				assert.NotContains(t, w.Body.String(), "password")
				return
			}
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Message, tt.wantMsg)
		})
	}
}

func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader("{not json"))
	s.auth.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", decodeResponse[any](t, w).Message)
}

func TestAuthHandler_Login(t *testing.T) {
	s := newTestServer(t)
	userID := s.registerUser(t, "a@x.com")

	w := httptest.NewRecorder()
	s.auth.Login(w, jsonRequest(t, http.MethodPost, "/api/v1/auth/login",
		api.LoginRequest{Email: "a@x.com", Password: "secret1"}))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse[api.AuthResponse](t, w)
	assert.Equal(t, userID, resp.Data.User.ID)
	assert.NotEmpty(t, resp.Data.Token)

	for _, creds := range []api.LoginRequest{
		{Email: "a@x.com", Password: "wrong-password"},
		{Email: "ghost@x.com", Password: "secret1"},
	} {
		w := httptest.NewRecorder()
		s.auth.Login(w, jsonRequest(t, http.MethodPost, "/api/v1/auth/login", creds))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		resp := decodeResponse[api.AuthResponse](t, w)
		assert.Equal(t, "invalid email or password", resp.Message)
		assert.Empty(t, resp.Data.Token)
	}
}
