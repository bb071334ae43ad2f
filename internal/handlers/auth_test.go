package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestLoginRendersForm(t *testing.T) {
	setupHandlers(t)

	w := httptest.NewRecorder()
	Login(w, httptest.NewRequest(http.MethodGet, "/login", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `name="password"`) || !strings.Contains(body, "<html") {
		t.Fatalf("expected full login page: %s", body)
	}
	if strings.Contains(body, "<nav>") {
		t.Fatalf("login page should not show navigation: %s", body)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	setupHandlers(t)

	w := httptest.NewRecorder()
	Login(w, formRequest(http.MethodPost, "/login", url.Values{"password": {"nope"}}))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid password") {
		t.Fatalf("expected invalid password alert: %s", w.Body.String())
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatal("expected no cookie on failed login")
	}
}

func TestLoginSuccessWithHTMX(t *testing.T) {
	env := setupHandlers(t)

	w := httptest.NewRecorder()
	Login(w, formRequest(http.MethodPost, "/login", url.Values{"password": {"letmein"}}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("HX-Redirect"); got != "/" {
		t.Fatalf("expected HX-Redirect to /, got %q", got)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "auth" {
		t.Fatalf("expected auth cookie, got %+v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	if !env.auth.Authenticated(req) {
		t.Fatal("issued cookie should authenticate")
	}
}

func TestLoginSuccessWithoutHTMXRedirects(t *testing.T) {
	setupHandlers(t)

	req := formRequest(http.MethodPost, "/login", url.Values{"password": {"letmein"}})
	req.Header.Del("HX-Request")
	w := httptest.NewRecorder()
	Login(w, req)

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
		t.Fatalf("expected 303 to /, got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestLoginWithoutDependencies(t *testing.T) {
	Configure(Dependencies{})

	w := httptest.NewRecorder()
	Login(w, formRequest(http.MethodPost, "/login", url.Values{"password": {"x"}}))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestRequireAuthentication(t *testing.T) {
	env := setupHandlers(t)

	protected := RequireAuthentication(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	protected.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dishes", nil))
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to login, got %d %q", w.Code, w.Header().Get("Location"))
	}

	htmxReq := httptest.NewRequest(http.MethodPost, "/dishes", nil)
	htmxReq.Header.Set("HX-Request", "true")
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, htmxReq)
	if w.Header().Get("HX-Redirect") != "/login" {
		t.Fatalf("expected HX-Redirect to login, got %q", w.Header().Get("HX-Redirect"))
	}

	token, err := env.auth.Token()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	authed := httptest.NewRequest(http.MethodGet, "/dishes", nil)
	authed.AddCookie(&http.Cookie{Name: "auth", Value: token})
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, authed)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected authenticated request to pass, got %d", w.Code)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	setupHandlers(t)

	w := httptest.NewRecorder()
	Logout(w, httptest.NewRequest(http.MethodPost, "/logout", nil))

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to login, got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), "Max-Age=0") {
		t.Fatalf("expected expired cookie, got %q", w.Header().Get("Set-Cookie"))
	}

	w = httptest.NewRecorder()
	Logout(w, httptest.NewRequest(http.MethodDelete, "/logout", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}
