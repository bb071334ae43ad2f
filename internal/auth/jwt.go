package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type claims struct {
	Authenticated bool `json:"authenticated"`
	jwt.RegisteredClaims
}

// JWTCookie keeps the authenticated state in an HS256-signed token stored in a cookie.
// The token carries no expiry; the cookie lifetime bounds it.
type JWTCookie struct {
	secret  []byte
	options CookieOptions
	now     func() time.Time
}

// NewJWTCookie returns a JWTCookie signing with secret.
func NewJWTCookie(secret string, options CookieOptions) (*JWTCookie, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: jwt secret must not be empty")
	}
	return &JWTCookie{
		secret:  []byte(secret),
		options: options.withDefaults(),
		now:     time.Now,
	}, nil
}

// Token issues a freshly signed token.
func (j *JWTCookie) Token() (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Authenticated: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(j.now()),
		},
	})
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Establish sets the auth cookie.
func (j *JWTCookie) Establish(w http.ResponseWriter, r *http.Request) error {
	signed, err := j.Token()
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     j.options.Name,
		Value:    signed,
		Path:     "/",
		Domain:   j.options.Domain,
		MaxAge:   int(j.options.Lifetime / time.Second),
		HttpOnly: true,
		Secure:   j.options.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

// Authenticated accepts the auth cookie or an Authorization bearer token.
func (j *JWTCookie) Authenticated(r *http.Request) bool {
	if cookie, err := r.Cookie(j.options.Name); err == nil && j.valid(cookie.Value) {
		return true
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return j.valid(strings.TrimSpace(token))
	}
	return false
}

// Clear expires the auth cookie.
func (j *JWTCookie) Clear(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, &http.Cookie{
		Name:     j.options.Name,
		Value:    "",
		Path:     "/",
		Domain:   j.options.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   j.options.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

func (j *JWTCookie) valid(raw string) bool {
	if raw == "" {
		return false
	}
	parsed, err := jwt.ParseWithClaims(raw, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil || !parsed.Valid {
		return false
	}
	c, ok := parsed.Claims.(*claims)
	return ok && c.Authenticated
}
