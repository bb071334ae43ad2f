package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Password checks submissions against the shared password.
type Password struct {
	plain []byte
	hash  []byte
}

// NewPassword prefers a bcrypt hash and falls back to a plain secret.
func NewPassword(plain, hash string) (*Password, error) {
	hash = strings.TrimSpace(hash)
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("auth: invalid password hash: %w", err)
		}
		return &Password{hash: []byte(hash)}, nil
	}
	if plain == "" {
		return nil, errors.New("auth: password must not be empty")
	}
	return &Password{plain: []byte(plain)}, nil
}

// Matches reports whether candidate is the shared password.
func (p *Password) Matches(candidate string) bool {
	if p == nil || candidate == "" {
		return false
	}
	if p.hash != nil {
		return bcrypt.CompareHashAndPassword(p.hash, []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare(p.plain, []byte(candidate)) == 1
}
