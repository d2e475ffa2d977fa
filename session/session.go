// Package session carries the signed-in identity through request contexts
// and verifies the tokens issued by the identity provider.
package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// CookieName is the cookie the identity provider stores its session token in.
const CookieName = "__session"

// ErrNoToken is returned when a request carries no session token.
var ErrNoToken = errors.New("no session token")

// Session is an authenticated identity.
type Session struct {
	UserID string
	Role   string
	Email  string
	Token  string
}

// IsAdmin reports whether the session may use administrative endpoints.
func (s Session) IsAdmin() bool { return s.Role == "admin" }

// Verifier turns a raw token into a Session.
type Verifier interface {
	Verify(ctx context.Context, token string) (Session, error)
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session in ctx, if any. A session without a user
// identifier is treated as absent.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	if !ok || s.UserID == "" {
		return Session{}, false
	}
	return s, true
}

// TokenFromRequest extracts a bearer token from the Authorization header,
// falling back to the session cookie.
func TokenFromRequest(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", errors.New("invalid Authorization header format")
		}
		return parts[1], nil
	}
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", ErrNoToken
}

// NewVerifier returns the verifier for provider: "firebase" verifies Firebase
// ID tokens, anything else verifies HS256 tokens signed with secret.
func NewVerifier(ctx context.Context, provider string, secret []byte, firebaseProjectID string) (Verifier, error) {
	if provider == "firebase" {
		return NewFirebaseVerifier(ctx, firebaseProjectID)
	}
	return NewJWTVerifier(secret), nil
}
