package handlers

import (
	"net/http"

	"wgze/internal/auth"
	applog "wgze/internal/log"
	"wgze/internal/views/components"
	"wgze/internal/views/layout"
	"wgze/internal/views/pages"
)

const invalidPasswordMessage = "Invalid password"

// RequireAuthentication sends clients without valid credentials to the login page.
func RequireAuthentication(next http.Handler) http.Handler {
	return auth.Require(authenticator, redirectToLogin)(next)
}

// Login renders the password form and processes sign-in submissions.
func Login(w http.ResponseWriter, r *http.Request) {
	applog.Debug(r.Context(), "handling login request", "method", r.Method, "htmx", isHTMX(r))

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if authenticator != nil && authenticator.Authenticated(r) {
			redirect(w, r, "/")
			return
		}
		renderLogin(w, r, http.StatusOK, "")
	case http.MethodPost:
		if authenticator == nil || password == nil {
			applog.Error(r.Context(), "authentication dependencies unavailable")
			renderAlert(w, r, http.StatusServiceUnavailable, components.AlertError, "Sign-in is not available.")
			return
		}
		if err := r.ParseForm(); err != nil {
			applog.Debug(r.Context(), "failed to parse login form", "error", err)
			renderAlert(w, r, http.StatusBadRequest, components.AlertError, "Invalid form submission.")
			return
		}
		if !password.Matches(r.PostFormValue("password")) {
			applog.Info(r.Context(), "login rejected", "remote", r.RemoteAddr)
			if isHTMX(r) {
				renderAlert(w, r, http.StatusUnauthorized, components.AlertError, invalidPasswordMessage)
				return
			}
			renderLogin(w, r, http.StatusUnauthorized, invalidPasswordMessage)
			return
		}
		if err := authenticator.Establish(w, r); err != nil {
			applog.Error(r.Context(), "failed to establish authentication", "error", err)
			renderAlert(w, r, http.StatusInternalServerError, components.AlertError, "We were unable to sign you in. Please try again.")
			return
		}
		applog.Debug(r.Context(), "authentication succeeded")
		redirect(w, r, "/")
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Logout clears the credentials and redirects to the login screen.
func Logout(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodPost:
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if authenticator != nil {
		if err := authenticator.Clear(w, r); err != nil {
			applog.Error(r.Context(), "failed to clear authentication", "error", err)
		}
	}
	redirectToLogin(w, r)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, "/login")
}

func renderLogin(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	component := pages.Login(message)
	if !isHTMX(r) {
		component = layout.Layout("Sign in", "", component, false)
	}
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render login component", "error", err)
	}
}
