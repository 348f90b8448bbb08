package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/gophchat/internal/config"
	"github.com/iudanet/gophchat/internal/crypto"
	"github.com/iudanet/gophchat/internal/server"
	"github.com/iudanet/gophchat/internal/server/completion"
	"github.com/iudanet/gophchat/internal/server/jwt"
	"github.com/iudanet/gophchat/internal/server/service"
	"github.com/iudanet/gophchat/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// -version обрабатываем до загрузки конфига: секрет для него не нужен
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" {
			printVersion()
			os.Exit(0)
		}
	}

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if cfg.UsingDevSecret {
		logger.Warn("SESSION_SECRET is not set, using the development secret; never run like this in production")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	source, err := service.ParseHistorySource(cfg.HistorySource)
	if err != nil {
		return err
	}

	if cfg.OpenAIAPIKey == "" {
		logger.Warn("OPENAI_API_KEY is not set, chat replies will fail")
	}

	tokens := jwt.NewService(cfg.SessionSecret, cfg.TokenTTL)
	completer := completion.NewOpenAIClient(completion.Config{
		BaseURL: cfg.OpenAIBaseURL,
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.CompletionTimeout,
	}, logger)

	guard := service.NewGuard(store, logger)
	router := server.NewRouter(server.Deps{
		Logger:   logger,
		DB:       store,
		Tokens:   tokens,
		Accounts: service.NewAccounts(store, crypto.NewPasswordHasher(), tokens, logger),
		Rooms:    service.NewRooms(store, store, guard, logger),
		Chat:     service.NewChat(guard, store, service.NewAssembler(store, source), completer, logger),
		Version:  Version,
	})

	logger.Info("GophChat server starting",
		"version", Version,
		"addr", cfg.Address,
		"database", cfg.DatabasePath,
		"history_source", string(source),
	)

	return server.New(cfg.Address, router, logger, cfg.ShutdownTimeout).Run(ctx)
}

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func printVersion() {
	fmt.Printf("GophChat Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
