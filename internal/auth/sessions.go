package auth

import (
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
)

const sessionAuthenticatedKey = "auth:authenticated"

// Sessions keeps the authenticated state in a server-side scs session.
// Requests must pass through Manager().LoadAndSave.
type Sessions struct {
	manager *scs.SessionManager
}

// NewSessions builds an scs session manager with a strict same-site cookie.
func NewSessions(options CookieOptions) *Sessions {
	options = options.withDefaults()

	manager := scs.New()
	manager.Lifetime = options.Lifetime
	manager.Cookie.Name = options.Name
	manager.Cookie.Domain = options.Domain
	manager.Cookie.HttpOnly = true
	manager.Cookie.Persist = true
	manager.Cookie.SameSite = http.SameSiteStrictMode
	manager.Cookie.Secure = options.Secure
	return &Sessions{manager: manager}
}

// Manager exposes the underlying session manager for middleware wiring.
func (s *Sessions) Manager() *scs.SessionManager {
	return s.manager
}

// Establish renews the session token and marks the session authenticated.
func (s *Sessions) Establish(w http.ResponseWriter, r *http.Request) error {
	if s == nil || s.manager == nil {
		return errors.New("auth: session manager not configured")
	}
	if err := s.manager.RenewToken(r.Context()); err != nil {
		return err
	}
	s.manager.Put(r.Context(), sessionAuthenticatedKey, true)
	return nil
}

// Authenticated reports whether the session was marked authenticated.
func (s *Sessions) Authenticated(r *http.Request) bool {
	if s == nil || s.manager == nil {
		return false
	}
	return s.manager.GetBool(r.Context(), sessionAuthenticatedKey)
}

// Clear destroys the session.
func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) error {
	if s == nil || s.manager == nil {
		return nil
	}
	return s.manager.Destroy(r.Context())
}
