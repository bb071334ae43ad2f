package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"wgze/internal/ai"
	"wgze/internal/auth"
	"wgze/internal/db"
)

var testDBCounter atomic.Int64

var fixedNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

type stubGenerator struct {
	reply  string
	err    error
	prompt string
	calls  int
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.prompt = prompt
	return s.reply, s.err
}

type testEnv struct {
	db        *gorm.DB
	auth      *auth.JWTCookie
	generator *stubGenerator
}

func setupHandlers(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:handlers-test-%d?mode=memory&cache=shared", testDBCounter.Add(1))
	database, err := db.OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	authenticator, err := auth.NewJWTCookie("handler-secret", auth.CookieOptions{})
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}
	pw, err := auth.NewPassword("letmein", "")
	if err != nil {
		t.Fatalf("password: %v", err)
	}
	generator := &stubGenerator{reply: "1. Pasta"}

	Configure(Dependencies{
		Database:      database,
		Authenticator: authenticator,
		Password:      pw,
		Suggester:     &ai.Assembler{Generator: generator},
	})
	originalNow := nowFunc
	nowFunc = func() time.Time { return fixedNow }

	t.Cleanup(func() {
		Configure(Dependencies{})
		nowFunc = originalNow
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return &testEnv{db: database, auth: authenticator, generator: generator}
}

func formRequest(method, target string, values url.Values) *http.Request {
	req, _ := http.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	req.RemoteAddr = "192.0.2.1:1234"
	return req
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
