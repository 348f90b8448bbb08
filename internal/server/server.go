// Package server wires handlers and middleware into the HTTP API and runs it.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/iudanet/gophchat/internal/server/handlers"
	"github.com/iudanet/gophchat/internal/server/middleware"
	"github.com/iudanet/gophchat/internal/server/service"
)

const healthPath = "/api/v1/health"

// Deps собирает все зависимости маршрутизатора
type Deps struct {
	Logger   *slog.Logger
	DB       handlers.Pinger
	Tokens   middleware.TokenVerifier
	Accounts *service.Accounts
	Rooms    *service.Rooms
	Chat     *service.Chat
	Version  string
}

// NewRouter строит http.Handler со всеми маршрутами API.
// Порядок middleware: logging -> recovery -> method override -> mux,
// override стоит перед mux, чтобы маршрут выбирался по итоговому методу.
func NewRouter(d Deps) http.Handler {
	health := handlers.NewHealthHandler(d.Logger, d.DB, d.Version)
	auth := handlers.NewAuthHandler(d.Logger, d.Accounts)
	account := handlers.NewAccountHandler(d.Logger, d.Accounts)
	rooms := handlers.NewRoomsHandler(d.Logger, d.Rooms)
	chat := handlers.NewChatHandler(d.Logger, d.Chat)

	protected := middleware.AuthMiddleware(d.Logger, d.Tokens)

	mux := http.NewServeMux()

	// Public endpoints
	mux.HandleFunc("GET "+healthPath, health.Health)
	mux.HandleFunc("POST /api/v1/auth/register", auth.Register)
	mux.HandleFunc("POST /api/v1/auth/login", auth.Login)

	// Protected endpoints
	// /user и /rooms/{roomID} принимают несколько операций, handler выбирает по Operation
	mux.Handle("/api/v1/user", protected(http.HandlerFunc(account.User)))
	mux.Handle("GET /api/v1/rooms", protected(http.HandlerFunc(rooms.List)))
	mux.Handle("POST /api/v1/rooms", protected(http.HandlerFunc(rooms.Create)))
	mux.Handle("/api/v1/rooms/{roomID}", protected(http.HandlerFunc(rooms.Room)))
	mux.Handle("/api/v1/rooms/{roomID}/messages/{messageID}", protected(http.HandlerFunc(rooms.Message)))
	mux.Handle("POST /api/v1/chat", protected(http.HandlerFunc(chat.Send)))

	var h http.Handler = mux
	h = middleware.MethodOverride(d.Logger)(h)
	h = middleware.RecoveryMiddleware(d.Logger)(h)
	h = middleware.LoggingWithSkip(d.Logger, []string{healthPath})(h)
	return h
}

// Server HTTP сервер с graceful shutdown
type Server struct {
	httpServer      *http.Server
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// New создает сервер на адресе addr
func New(addr string, handler http.Handler, logger *slog.Logger, shutdownTimeout time.Duration) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			// ответ completion API может идти до COMPLETION_TIMEOUT
			WriteTimeout: 2 * time.Minute,
			IdleTimeout:  2 * time.Minute,
		},
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}
}

// Run слушает addr до отмены ctx, затем останавливает сервер,
// давая активным запросам shutdownTimeout на завершение
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve обслуживает уже открытый listener (используется в тестах с :0)
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server started", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server", "timeout", s.shutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}
