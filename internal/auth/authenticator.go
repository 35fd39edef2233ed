package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnauthenticated is returned when a request carries no usable credentials.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrMissingToken is wrapped with ErrUnauthenticated when there is no bearer token.
var ErrMissingToken = errors.New("missing bearer token")

// Identity is the caller resolved from a verified token.
type Identity struct {
	UserID string
	Email  string
}

// TokenVerifier verifies access tokens.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}

// Authenticator resolves the request identity from the Authorization header.
// The token subject is trusted without a lookup in the users table.
type Authenticator struct {
	tokens TokenVerifier
}

// NewAuthenticator creates an Authenticator backed by tokens.
func NewAuthenticator(tokens TokenVerifier) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// Authenticate returns the identity for r.
// Every failure wraps ErrUnauthenticated together with its cause.
func (a *Authenticator) Authenticate(r *http.Request) (*Identity, error) {
	token := BearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, ErrMissingToken)
	}

	claims, err := a.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	return &Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

// BearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively; anything else yields "".
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
