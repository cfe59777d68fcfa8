package api

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
)

// Authenticator decides whether a request may reach the /api routes.
// It returns the caller's principal when it does.
type Authenticator interface {
	Authenticate(r *http.Request) (string, bool)
}

// TokenAuthenticator accepts a fixed set of bearer tokens.
type TokenAuthenticator struct {
	tokens [][]byte
}

func NewTokenAuthenticator(tokens []string) *TokenAuthenticator {
	a := &TokenAuthenticator{}
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			a.tokens = append(a.tokens, []byte(t))
		}
	}
	return a
}

func (a *TokenAuthenticator) Authenticate(r *http.Request) (string, bool) {
	token, ok := bearerToken(r)
	if !ok {
		return "", false
	}
	for i, t := range a.tokens {
		if subtle.ConstantTimeCompare(t, []byte(token)) == 1 {
			return fmt.Sprintf("token-%d", i), true
		}
	}
	return "", false
}

// AllowAll accepts every request. Only for local use with auth disabled.
type AllowAll struct{}

func (AllowAll) Authenticate(*http.Request) (string, bool) { return "anonymous", true }

type denyAll struct{}

func (denyAll) Authenticate(*http.Request) (string, bool) { return "", false }

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}
