package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophchat/pkg/api"
)

// writeOK отвечает успешным конвертом
func writeOK(t *testing.T, w http.ResponseWriter, status int, data any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(api.Response[any]{Success: true, Data: data}))
}

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	assert.NotNil(t, client)
	assert.Equal(t, baseURL, client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 60*time.Second, client.httpClient.Timeout)
	assert.Empty(t, client.token)
}

func TestClient_Register(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/auth/register", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var req api.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice@example.com", req.Email)
		assert.Equal(t, "secret1", req.Password)

		writeOK(t, w, http.StatusCreated, api.AuthResponse{
			User:  api.User{ID: 1, Email: req.Email},
			Token: "token-123",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Register(context.Background(), api.RegisterRequest{Email: "alice@example.com", Password: "secret1"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.User.ID)
	assert.Equal(t, "token-123", resp.Token)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		responseBody   any
		name           string
		expectedErrMsg string
		statusCode     int
		unauthorized   bool
	}{
		{
			name:           "Conflict",
			statusCode:     http.StatusConflict,
			responseBody:   api.ErrorResponse{Message: "email already registered"},
			expectedErrMsg: "server error (409): email already registered",
		},
		{
			name:           "Unauthorized",
			statusCode:     http.StatusUnauthorized,
			responseBody:   api.ErrorResponse{Message: "invalid email or password"},
			expectedErrMsg: "server error (401): invalid email or password",
			unauthorized:   true,
		},
		{
			name:           "Plain text 500",
			statusCode:     http.StatusInternalServerError,
			responseBody:   "Internal Server Error",
			expectedErrMsg: "server error (500): Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				if errResp, ok := tt.responseBody.(api.ErrorResponse); ok {
					_ = json.NewEncoder(w).Encode(errResp)
				} else {
					_, _ = w.Write([]byte(tt.responseBody.(string)))
				}
			}))
			defer server.Close()

			_, err := NewClient(server.URL).Login(context.Background(), api.LoginRequest{Email: "a@b.co", Password: "x"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErrMsg)
			assert.Equal(t, tt.unauthorized, IsUnauthorized(err))
		})
	}
}

func TestClient_SendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/v1/user", r.URL.Path)
		writeOK(t, w, http.StatusOK, api.User{ID: 9, Email: "me@example.com"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetToken("tok")

	user, err := client.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(9), user.ID)
}

func TestClient_ListRooms(t *testing.T) {
	tests := []struct {
		name          string
		limit         int
		offset        int
		expectedQuery string
	}{
		{name: "defaults", expectedQuery: ""},
		{name: "limit only", limit: 10, expectedQuery: "limit=10"},
		{name: "limit and offset", limit: 10, offset: 20, expectedQuery: "limit=10&offset=20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/api/v1/rooms", r.URL.Path)
				assert.Equal(t, tt.expectedQuery, r.URL.RawQuery)
				writeOK(t, w, http.StatusOK, []api.Room{{ID: 2, Name: "B"}, {ID: 1, Name: "A"}})
			}))
			defer server.Close()

			rooms, err := NewClient(server.URL).ListRooms(context.Background(), tt.limit, tt.offset)
			require.NoError(t, err)
			require.Len(t, rooms, 2)
			assert.Equal(t, "B", rooms[0].Name)
		})
	}
}

func TestClient_UsesMethodOverride(t *testing.T) {
	tests := []struct {
		call         func(c *Client) error
		name         string
		expectedPath string
		expectedVerb string
	}{
		{
			name:         "rename room",
			expectedPath: "/api/v1/rooms/3",
			expectedVerb: "PUT",
			call: func(c *Client) error {
				_, err := c.RenameRoom(context.Background(), 3, "New")
				return err
			},
		},
		{
			name:         "delete room",
			expectedPath: "/api/v1/rooms/3",
			expectedVerb: "DELETE",
			call: func(c *Client) error {
				return c.DeleteRoom(context.Background(), 3)
			},
		},
		{
			name:         "delete message",
			expectedPath: "/api/v1/rooms/3/messages/8",
			expectedVerb: "DELETE",
			call: func(c *Client) error {
				return c.DeleteMessage(context.Background(), 3, 8)
			},
		},
		{
			name:         "delete account",
			expectedPath: "/api/v1/user",
			expectedVerb: "DELETE",
			call: func(c *Client) error {
				return c.DeleteAccount(context.Background(), "secret1")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, tt.expectedPath, r.URL.Path)

				var override api.MethodOverride
				require.NoError(t, json.NewDecoder(r.Body).Decode(&override))
				assert.Equal(t, tt.expectedVerb, override.Method)

				writeOK(t, w, http.StatusOK, api.Room{ID: 3, Name: "New"})
			}))
			defer server.Close()

			require.NoError(t, tt.call(NewClient(server.URL)))
		})
	}
}

func TestClient_Send(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/chat", r.URL.Path)

		var req api.ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(4), req.RoomID)
		assert.Equal(t, "hello", req.Message)
		require.Len(t, req.History, 1)
		assert.Equal(t, "assistant", req.History[0].Role)

		writeOK(t, w, http.StatusOK, api.ChatResponse{Response: "hi there", UserMessageID: 10, BotMessageID: 11})
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).Send(context.Background(), api.ChatRequest{
		RoomID:  4,
		Message: "hello",
		History: []api.HistoryItem{{Role: "assistant", Content: "welcome"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp.Response)
	assert.Equal(t, int64(11), resp.BotMessageID)
}

func TestClient_MissingData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Profile(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data")
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(url).Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
	assert.False(t, IsUnauthorized(err))
}
