package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"wgze/internal/ai"
	"wgze/internal/config"
	"wgze/internal/db"
	"wgze/internal/db/mock"
	applog "wgze/internal/log"
	"wgze/internal/server"
)

type serverLifecycle interface {
	Start() error
	Stop() error
}

var (
	loadEnvFunc         = func() error { return godotenv.Load() }
	loadConfigFunc      = config.Load
	setLogLevelFunc     = applog.SetLevel
	newMockDatabaseFunc = mock.New
	configureDatabase   = db.Configure
	newGeneratorFunc    = func(cfg config.AIConfig) (ai.Generator, error) {
		return ai.NewClient(ai.Config{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		})
	}
	newServerFunc = func(cfg server.Config) (serverLifecycle, error) {
		return server.New(cfg)
	}
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		return ch, func() { signal.Stop(ch) }
	}
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	if err := loadEnvFunc(); err != nil && !errors.Is(err, os.ErrNotExist) {
		applog.Error(ctx, "failed to read .env file", "error", err)
		return 1
	}

	cfg, err := loadConfigFunc()
	if err != nil {
		applog.Error(ctx, "failed to load configuration", "error", err)
		return 1
	}
	if err := setLogLevelFunc(cfg.Logging.Level); err != nil {
		applog.Error(ctx, "invalid log level", "level", cfg.Logging.Level, "error", err)
		return 1
	}

	database, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		applog.Error(ctx, "failed to configure database", "error", err)
		return 1
	}

	suggester := &ai.Assembler{Language: cfg.AI.Language}
	if cfg.AI.APIKey != "" {
		generator, err := newGeneratorFunc(cfg.AI)
		if err != nil {
			applog.Error(ctx, "failed to configure suggestion client", "error", err)
			return 1
		}
		suggester.Generator = generator
	} else {
		applog.Info(ctx, "no AI API key configured, suggestions disabled")
	}

	srv, err := newServerFunc(server.Config{
		Addr:     cfg.Server.Addr,
		Database: database,
		Auth: server.AuthConfig{
			Mode:         cfg.Auth.Mode,
			Password:     cfg.Auth.Password,
			PasswordHash: cfg.Auth.PasswordHash,
			JWTSecret:    cfg.Auth.JWTSecret,
			Session: server.SessionConfig{
				Lifetime:     cfg.Auth.Session.Lifetime,
				CookieName:   cfg.Auth.Session.CookieName,
				CookieDomain: cfg.Auth.Session.CookieDomain,
				CookieSecure: cfg.Auth.Session.CookieSecure,
			},
		},
		Suggester: suggester,
	})
	if err != nil {
		applog.Error(ctx, "failed to build server", "error", err)
		return 1
	}

	shutdown, unsubscribe := subscribeShutdownSig()
	defer unsubscribe()

	errCh := make(chan error, 1)
	go func() {
		applog.Info(ctx, "starting http server", "addr", cfg.Server.Addr)
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.Error(ctx, "server encountered an error", "error", err)
			return 1
		}
		return 0
	case sig := <-shutdown:
		applog.Info(ctx, "shutting down http server", "signal", sig.String())
	case <-ctx.Done():
		applog.Info(ctx, "shutting down http server", "reason", ctx.Err())
	}

	if err := srv.Stop(); err != nil {
		applog.Error(ctx, "graceful shutdown failed", "error", err)
		return 1
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		applog.Error(ctx, "server encountered an error", "error", err)
		return 1
	}
	return 0
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.UseMock {
		applog.Info(ctx, "using in-memory mock database")
		return newMockDatabaseFunc(ctx)
	}
	return configureDatabase(cfg)
}
