package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/gophchat/internal/crypto"
	"github.com/iudanet/gophchat/internal/models"
	"github.com/iudanet/gophchat/internal/server/completion"
	"github.com/iudanet/gophchat/internal/server/jwt"
	"github.com/iudanet/gophchat/internal/server/service"
	"github.com/iudanet/gophchat/internal/server/storage/sqlite"
	"github.com/iudanet/gophchat/pkg/api"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubCompleter отвечает фиксированным текстом или ошибкой
type stubCompleter struct {
	err   error
	reply string
}

func (s *stubCompleter) Complete(context.Context, []completion.Message) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type testServer struct {
	store     *sqlite.Storage
	completer *stubCompleter
	auth      *AuthHandler
	account   *AccountHandler
	rooms     *RoomsHandler
	chat      *ChatHandler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := setupTestLogger()
	tokens := jwt.NewService("test-secret", time.Hour)
	completer := &stubCompleter{reply: "bot reply"}

	guard := service.NewGuard(store, logger)
	accounts := service.NewAccounts(store, crypto.NewPasswordHasherWithCost(bcrypt.MinCost), tokens, logger)
	rooms := service.NewRooms(store, store, guard, logger)
	chat := service.NewChat(guard, store, service.NewAssembler(store, service.HistoryFromClient), completer, logger)

	return &testServer{
		store:     store,
		completer: completer,
		auth:      NewAuthHandler(logger, accounts),
		account:   NewAccountHandler(logger, accounts),
		rooms:     NewRoomsHandler(logger, rooms),
		chat:      NewChatHandler(logger, chat),
	}
}

// registerUser регистрирует пользователя через handler и возвращает его id
func (s *testServer) registerUser(t *testing.T, email string) int64 {
	t.Helper()

	w := httptest.NewRecorder()
	s.auth.Register(w, jsonRequest(t, http.MethodPost, "/api/v1/auth/register",
		api.RegisterRequest{Email: email, Password: "secret1"}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decodeResponse[api.AuthResponse](t, w)
	return resp.Data.User.ID
}

func (s *testServer) createRoom(t *testing.T, userID int64, name string) int64 {
	t.Helper()

	w := httptest.NewRecorder()
	s.rooms.Create(w, asUser(jsonRequest(t, http.MethodPost, "/api/v1/rooms", api.CreateRoomRequest{Name: name}), userID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return decodeResponse[api.Room](t, w).Data.ID
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func asUser(r *http.Request, userID int64) *http.Request {
	return r.WithContext(WithUserID(r.Context(), userID))
}

func withOperation(r *http.Request, op models.Operation) *http.Request {
	return r.WithContext(WithOperation(r.Context(), op))
}

func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) api.Response[T] {
	t.Helper()

	var resp api.Response[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}
