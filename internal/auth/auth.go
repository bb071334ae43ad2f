// Package auth guards the application behind a single shared password.
package auth

import (
	"net/http"
	"time"
)

// DefaultCookieName is the cookie carrying the authenticated state.
const DefaultCookieName = "auth"

// DefaultLifetime matches a Max-Age of 34560000 seconds, the ceiling browsers honour.
const DefaultLifetime = 34560000 * time.Second

// Authenticator records and checks whether a client has entered the password.
type Authenticator interface {
	Establish(w http.ResponseWriter, r *http.Request) error
	Authenticated(r *http.Request) bool
	Clear(w http.ResponseWriter, r *http.Request) error
}

// CookieOptions configures the cookie issued after a successful login.
type CookieOptions struct {
	Name     string
	Domain   string
	Secure   bool
	Lifetime time.Duration
}

func (o CookieOptions) withDefaults() CookieOptions {
	if o.Name == "" {
		o.Name = DefaultCookieName
	}
	if o.Lifetime <= 0 {
		o.Lifetime = DefaultLifetime
	}
	return o
}

// Require lets authenticated requests through and hands the rest to onFail.
func Require(a Authenticator, onFail http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if a == nil || !a.Authenticated(r) {
				onFail(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
