package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/gophchat/internal/crypto"
	"github.com/iudanet/gophchat/internal/server/completion"
	"github.com/iudanet/gophchat/internal/server/jwt"
	"github.com/iudanet/gophchat/internal/server/storage/sqlite"
)

// fakeCompleter запоминает промпты и отвечает заданным текстом или ошибкой
type fakeCompleter struct {
	err     error
	reply   string
	prompts [][]completion.Message
	mu      sync.Mutex
}

func (f *fakeCompleter) Complete(_ context.Context, messages []completion.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.prompts = append(f.prompts, messages)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeCompleter) lastPrompt() []completion.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return nil
	}
	return f.prompts[len(f.prompts)-1]
}

// tickingClock каждый вызов сдвигается на миллисекунду, чтобы порядок был строгим
func tickingClock() func() time.Time {
	var mu sync.Mutex
	current := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Millisecond)
		return current
	}
}

type testEnv struct {
	store     *sqlite.Storage
	tokens    *jwt.Service
	completer *fakeCompleter
	accounts  *Accounts
	rooms     *Rooms
	chat      *Chat
	guard     *Guard
	assembler *Assembler
}

func newTestEnv(t *testing.T, source HistorySource) *testEnv {
	t.Helper()

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := tickingClock()

	tokens := jwt.NewService("test-secret", 24*time.Hour)
	completer := &fakeCompleter{reply: "Hi! How can I help?"}
	guard := NewGuard(store, logger)
	assembler := NewAssembler(store, source)

	accounts := NewAccounts(store, crypto.NewPasswordHasherWithCost(bcrypt.MinCost), tokens, logger)
	accounts.now = clock
	rooms := NewRooms(store, store, guard, logger)
	rooms.now = clock
	chat := NewChat(guard, store, assembler, completer, logger)
	chat.now = clock

	return &testEnv{
		store:     store,
		tokens:    tokens,
		completer: completer,
		accounts:  accounts,
		rooms:     rooms,
		chat:      chat,
		guard:     guard,
		assembler: assembler,
	}
}

func (e *testEnv) register(t *testing.T, email string) int64 {
	t.Helper()
	res, err := e.accounts.Register(context.Background(), email, "secret1", "")
	require.NoError(t, err)
	return res.User.ID
}

func (e *testEnv) createRoom(t *testing.T, userID int64, name string) int64 {
	t.Helper()
	room, err := e.rooms.Create(context.Background(), userID, name)
	require.NoError(t, err)
	return room.ID
}
