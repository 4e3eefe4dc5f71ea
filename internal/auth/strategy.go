package auth

import (
	"context"
	"net/http"
)

// Strategy resolves a request to an authenticated principal. Variants are
// selected once at startup from configuration and injected into the
// RequireAuth middleware; there is no global auth singleton.
//
// Decoding and lookup failures inside a strategy are not errors: they
// resolve to a nil principal so the HTTP boundary can map them to 401/403
// without learning why resolution failed.
type Strategy interface {
	// Credential returns the raw credential string the strategy would
	// consume from the request, or "" if none is present. The middleware
	// uses this to distinguish "no credential supplied" (401) from
	// "credential did not resolve" (403).
	Credential(r *http.Request) string

	// CurrentUser resolves the request's credential to a principal, or nil
	// if the request carries no valid credential.
	CurrentUser(ctx context.Context, r *http.Request) (*User, error)
}

// NoAuth is the null strategy: it consumes no credential and resolves no
// principal, so every protected route rejects. Routes are only reachable
// through exclusion patterns. Deployments that want authentication off
// entirely simply don't install the middleware.
type NoAuth struct{}

// Credential always reports no credential.
func (NoAuth) Credential(*http.Request) string { return "" }

// CurrentUser never resolves a principal.
func (NoAuth) CurrentUser(context.Context, *http.Request) (*User, error) {
	return nil, nil
}

// SessionAuth authenticates via the session cookie: the cookie value is
// resolved through the session store (which enforces expiry), then the
// owning user is loaded from the directory.
type SessionAuth struct {
	store SessionStore
	repo  UserRepository
}

// NewSessionAuth creates a session-cookie strategy.
func NewSessionAuth(store SessionStore, repo UserRepository) *SessionAuth {
	return &SessionAuth{store: store, repo: repo}
}

// Credential returns the session cookie value.
func (s *SessionAuth) Credential(r *http.Request) string {
	return SessionCookie(r)
}

// CurrentUser resolves the session cookie to its owning user. Unknown and
// expired sessions, and directory lookup failures, resolve to nil.
func (s *SessionAuth) CurrentUser(ctx context.Context, r *http.Request) (*User, error) {
	userID, err := s.store.UserID(ctx, s.Credential(r))
	if err != nil || userID == "" {
		return nil, nil
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, nil
	}
	return user, nil
}
