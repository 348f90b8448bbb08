package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/gophchat/internal/client/iocli"
	"github.com/iudanet/gophchat/internal/client/storage"
	"github.com/iudanet/gophchat/pkg/api"
)

// APIClient методы сервера, которые использует CLI
type APIClient interface {
	SetToken(token string)
	Health(ctx context.Context) (*api.HealthResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error)
	Profile(ctx context.Context) (*api.User, error)
	DeleteAccount(ctx context.Context, password string) error
	ListRooms(ctx context.Context, limit, offset int) ([]api.Room, error)
	CreateRoom(ctx context.Context, name string) (*api.Room, error)
	GetRoom(ctx context.Context, roomID int64, limit, offset int) (*api.RoomDetails, error)
	RenameRoom(ctx context.Context, roomID int64, name string) (*api.Room, error)
	DeleteRoom(ctx context.Context, roomID int64) error
	DeleteMessage(ctx context.Context, roomID, messageID int64) error
	Send(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
}

// Store локальная сессия и кэш истории
type Store interface {
	storage.AuthStorage
	storage.HistoryStorage
}

var (
	errNotLoggedIn    = errors.New("not logged in. Please run 'gophchat login' first")
	errSessionExpired = errors.New("session expired. Please run 'gophchat login' again")
)

type Cli struct {
	io        iocli.IO
	apiClient APIClient
	store     Store
	now       func() time.Time
	serverURL string
}

func New(io iocli.IO, apiClient APIClient, store Store, serverURL string) *Cli {
	return &Cli{
		io:        io,
		apiClient: apiClient,
		store:     store,
		now:       time.Now,
		serverURL: serverURL,
	}
}

// Run выполняет команду; args не включают имя команды
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "rooms":
		return c.runRooms(ctx)
	case "room-create":
		return c.runRoomCreate(ctx, args)
	case "room-show":
		return c.runRoomShow(ctx, args)
	case "room-rename":
		return c.runRoomRename(ctx, args)
	case "room-delete":
		return c.runRoomDelete(ctx, args)
	case "send":
		return c.runSend(ctx, args)
	case "message-delete":
		return c.runMessageDelete(ctx, args)
	case "account-delete":
		return c.runAccountDelete(ctx)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// requireSession загружает сессию и передает токен API клиенту
func (c *Cli) requireSession(ctx context.Context) (*storage.AuthData, error) {
	auth, err := c.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil, errNotLoggedIn
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if auth.ExpiresAt > 0 && c.now().Unix() >= auth.ExpiresAt {
		return nil, errSessionExpired
	}

	c.apiClient.SetToken(auth.Token)
	return auth, nil
}

// serverError отбрасывает сессию, если сервер больше не принимает токен
func (c *Cli) serverError(ctx context.Context, err error) error {
	if !isUnauthorized(err) {
		return err
	}
	if delErr := c.forgetSession(ctx); delErr != nil {
		return fmt.Errorf("%w (also failed to clear session: %v)", errSessionExpired, delErr)
	}
	return errSessionExpired
}

// forgetSession удаляет токен и кэш истории
func (c *Cli) forgetSession(ctx context.Context) error {
	if err := c.store.DeleteAuth(ctx); err != nil && !errors.Is(err, storage.ErrAuthNotFound) {
		return err
	}
	return c.store.ClearHistory(ctx)
}

func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id: %q", what, arg)
	}
	return id, nil
}

func PrintUsage(io iocli.IO) {
	io.Println("GophChat Client")
	io.Println()
	io.Println("Usage:")
	io.Println("  gophchat [OPTIONS] COMMAND [ARGS]")
	io.Println()
	io.Println("Options:")
	io.Println("  --version                    Show version information")
	io.Println("  --server URL                 Server URL (default: http://localhost:8080)")
	io.Println("  --db PATH                    Path to local database (default: gophchat-client.db)")
	io.Println()
	io.Println("Commands:")
	io.Println("  register                          Register new user")
	io.Println("  login                             Login to server")
	io.Println("  logout                            Forget the local session")
	io.Println("  status                            Show session and server status")
	io.Println("  rooms                             List your rooms")
	io.Println("  room-create [NAME]                Create a room (default name: New Chat)")
	io.Println("  room-show ROOM_ID                 Show room messages")
	io.Println("  room-rename ROOM_ID NAME          Rename a room")
	io.Println("  room-delete ROOM_ID               Delete a room")
	io.Println("  send ROOM_ID TEXT                 Send a message and print the reply")
	io.Println("  message-delete ROOM_ID MSG_ID     Delete a message")
	io.Println("  account-delete                    Delete your account and all rooms")
	io.Println()
	io.Println("Examples:")
	io.Println("  gophchat register")
	io.Println("  gophchat room-create Travel plans")
	io.Println("  gophchat send 1 What should I pack for Iceland?")
	io.Println("  gophchat --server https://chat.example.com login")
}
