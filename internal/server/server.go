package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"wgze/internal/ai"
	"wgze/internal/auth"
	"wgze/internal/handlers"
	applog "wgze/internal/log"
)

// Config captures the runtime configuration for the HTTP server.
type Config struct {
	Addr      string
	Auth      AuthConfig
	Database  *gorm.DB
	Suggester *ai.Assembler
}

// AuthConfig selects how the shared password and the authenticated state are handled.
type AuthConfig struct {
	Mode         string
	Password     string
	PasswordHash string
	JWTSecret    string
	Session      SessionConfig
}

// SessionConfig controls the authentication cookie.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// Server wraps an http.Server and exposes helpers for bootstrapping a
// production-ready web service.
type Server struct {
	config     Config
	httpServer *http.Server
}

// New builds a new Server using the provided configuration.
func New(cfg Config) (*Server, error) {
	applog.Debug(context.Background(), "initializing server",
		"addr", cfg.Addr,
		"authMode", cfg.Auth.Mode,
		"cookieName", cfg.Auth.Session.CookieName,
	)

	password, err := auth.NewPassword(cfg.Auth.Password, cfg.Auth.PasswordHash)
	if err != nil {
		return nil, err
	}

	authenticator, sessions, err := newAuthenticator(cfg.Auth)
	if err != nil {
		return nil, err
	}

	handlers.Configure(handlers.Dependencies{
		Database:      cfg.Database,
		Authenticator: authenticator,
		Password:      password,
		Suggester:     cfg.Suggester,
	})
	applog.Debug(context.Background(), "handler dependencies configured",
		"database", cfg.Database != nil,
		"suggestions", cfg.Suggester != nil && cfg.Suggester.Generator != nil,
	)

	return &Server{
		config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           newRouter(sessions),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

func newAuthenticator(cfg AuthConfig) (auth.Authenticator, *scs.SessionManager, error) {
	options := auth.CookieOptions{
		Name:     strings.TrimSpace(cfg.Session.CookieName),
		Domain:   strings.TrimSpace(cfg.Session.CookieDomain),
		Secure:   cfg.Session.CookieSecure,
		Lifetime: cfg.Session.Lifetime,
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Mode)) {
	case "", "jwt":
		authenticator, err := auth.NewJWTCookie(cfg.JWTSecret, options)
		if err != nil {
			return nil, nil, err
		}
		return authenticator, nil, nil
	case "session":
		sessions := auth.NewSessions(options)
		return sessions, sessions.Manager(), nil
	default:
		return nil, nil, fmt.Errorf("server: unknown auth mode %q", cfg.Mode)
	}
}

// Start begins serving HTTP traffic using the underlying http.Server.
func (s *Server) Start() error {
	applog.Info(context.Background(), "server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server with a timeout.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	applog.Debug(ctx, "server initiating graceful shutdown")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured HTTP handler, enabling integration tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
