package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func newJWT(t *testing.T) *JWTCookie {
	t.Helper()
	a, err := NewJWTCookie("test-secret", CookieOptions{Secure: true})
	if err != nil {
		t.Fatalf("NewJWTCookie() error = %v", err)
	}
	return a
}

func TestNewJWTCookieRequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewJWTCookie(" ", CookieOptions{}); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestJWTCookieEstablishSetsStrictCookie(t *testing.T) {
	t.Parallel()

	a := newJWT(t)
	rec := httptest.NewRecorder()
	if err := a.Establish(rec, httptest.NewRequest(http.MethodPost, "/login", nil)); err != nil {
		t.Fatalf("Establish() error = %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != "auth" || !cookie.HttpOnly || !cookie.Secure {
		t.Fatalf("unexpected cookie flags: %+v", cookie)
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Fatalf("SameSite = %v, want strict", cookie.SameSite)
	}
	if cookie.MaxAge != 34560000 {
		t.Fatalf("MaxAge = %d, want 34560000", cookie.MaxAge)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	if !a.Authenticated(req) {
		t.Fatal("expected request with issued cookie to be authenticated")
	}
}

func TestJWTCookieRejectsForeignTokens(t *testing.T) {
	t.Parallel()

	a := newJWT(t)
	other, err := NewJWTCookie("another-secret", CookieOptions{})
	if err != nil {
		t.Fatalf("NewJWTCookie() error = %v", err)
	}
	forged, err := other.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	unauthenticated := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{Authenticated: false})
	notAuthed, err := unauthenticated.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	for name, value := range map[string]string{
		"missing":         "",
		"garbage":         "not-a-token",
		"wrong secret":    forged,
		"flag not set":    notAuthed,
		"unsigned header": "eyJhbGciOiJub25lIn0.eyJhdXRoZW50aWNhdGVkIjp0cnVlfQ.",
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if value != "" {
			req.AddCookie(&http.Cookie{Name: "auth", Value: value})
		}
		if a.Authenticated(req) {
			t.Errorf("%s: expected request to be rejected", name)
		}
	}
}

func TestJWTCookieAcceptsBearerToken(t *testing.T) {
	t.Parallel()

	a := newJWT(t)
	token, err := a.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/tools/call", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if !a.Authenticated(req) {
		t.Fatal("expected bearer token to authenticate")
	}
}

func TestJWTCookieTokensAreUnique(t *testing.T) {
	t.Parallel()

	a := newJWT(t)
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return fixed }

	first, err := a.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	second, err := a.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if first == second {
		t.Fatal("expected distinct token ids")
	}
}

func TestJWTCookieClearExpiresCookie(t *testing.T) {
	t.Parallel()

	a := newJWT(t)
	rec := httptest.NewRecorder()
	if err := a.Clear(rec, httptest.NewRequest(http.MethodPost, "/logout", nil)); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	header := rec.Header().Get("Set-Cookie")
	if !strings.Contains(header, "auth=") || !strings.Contains(header, "Max-Age=0") {
		t.Fatalf("unexpected Set-Cookie header %q", header)
	}
}

func TestSessionsRoundTrip(t *testing.T) {
	t.Parallel()

	sessions := NewSessions(CookieOptions{Name: "wgze_session"})
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if err := sessions.Establish(w, r); err != nil {
			t.Errorf("Establish() error = %v", err)
		}
	})
	mux.HandleFunc("/check", func(w http.ResponseWriter, r *http.Request) {
		if sessions.Authenticated(r) {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		if err := sessions.Clear(w, r); err != nil {
			t.Errorf("Clear() error = %v", err)
		}
	})
	handler := sessions.Manager().LoadAndSave(mux)

	check := func(cookie *http.Cookie) int {
		req := httptest.NewRequest(http.MethodGet, "/check", nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := check(nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous check = %d, want 401", code)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "wgze_session" {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("expected session cookie after login")
	}
	if sessionCookie.SameSite != http.SameSiteStrictMode {
		t.Fatalf("SameSite = %v, want strict", sessionCookie.SameSite)
	}
	if code := check(sessionCookie); code != http.StatusOK {
		t.Fatalf("authenticated check = %d, want 200", code)
	}

	logout := httptest.NewRequest(http.MethodPost, "/logout", nil)
	logout.AddCookie(sessionCookie)
	handler.ServeHTTP(httptest.NewRecorder(), logout)
	if code := check(sessionCookie); code != http.StatusUnauthorized {
		t.Fatalf("check after logout = %d, want 401", code)
	}
}

func TestPasswordPlain(t *testing.T) {
	t.Parallel()

	p, err := NewPassword("hunter2", "")
	if err != nil {
		t.Fatalf("NewPassword() error = %v", err)
	}
	if !p.Matches("hunter2") {
		t.Fatal("expected correct password to match")
	}
	for _, wrong := range []string{"", "hunter", "hunter22", "HUNTER2"} {
		if p.Matches(wrong) {
			t.Errorf("expected %q not to match", wrong)
		}
	}
}

func TestPasswordHash(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	p, err := NewPassword("ignored", string(hash))
	if err != nil {
		t.Fatalf("NewPassword() error = %v", err)
	}
	if !p.Matches("correct horse") {
		t.Fatal("expected hashed password to match")
	}
	if p.Matches("ignored") {
		t.Fatal("plain password must be ignored when a hash is configured")
	}

	if _, err := NewPassword("", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
	if _, err := NewPassword("", ""); err == nil {
		t.Fatal("expected error when nothing is configured")
	}
}

type staticAuth bool

func (s staticAuth) Establish(http.ResponseWriter, *http.Request) error { return nil }
func (s staticAuth) Authenticated(*http.Request) bool                 { return bool(s) }
func (s staticAuth) Clear(http.ResponseWriter, *http.Request) error     { return nil }

func TestRequire(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	onFail := func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}

	rec := httptest.NewRecorder()
	Require(staticAuth(true), onFail)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("authenticated status = %d, want 418", rec.Code)
	}

	rec = httptest.NewRecorder()
	Require(staticAuth(false), onFail)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("unauthenticated response = %d %q", rec.Code, rec.Header().Get("Location"))
	}
}
