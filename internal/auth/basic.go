package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"unicode/utf8"
)

// basicPrefix is the scheme marker of an HTTP Basic Authorization header.
const basicPrefix = "Basic "

// BasicAuth authenticates via the Authorization header: it decodes a
// Base64 "Basic" credential into an email/password pair and resolves it
// against the user directory. Each pipeline stage short-circuits to the
// empty result on any violation.
type BasicAuth struct {
	repo   UserRepository
	hasher PasswordHasher
}

// NewBasicAuth creates a Basic-header strategy.
func NewBasicAuth(repo UserRepository, hasher PasswordHasher) *BasicAuth {
	return &BasicAuth{repo: repo, hasher: hasher}
}

// Credential returns the raw Authorization header.
func (b *BasicAuth) Credential(r *http.Request) string {
	return AuthorizationHeader(r)
}

// CurrentUser runs the full pipeline: header -> Base64 segment -> decoded
// text -> (email, password) -> principal. Any stage failing, including a
// directory lookup error, yields a nil principal.
func (b *BasicAuth) CurrentUser(ctx context.Context, r *http.Request) (*User, error) {
	segment := extractBase64Segment(b.Credential(r))
	decoded := decodeBase64(segment)
	email, password, ok := splitCredentials(decoded)
	if !ok {
		return nil, nil
	}
	return b.resolvePrincipal(ctx, email, password), nil
}

// extractBase64Segment returns the Base64 part of a Basic Authorization
// header, or "" unless the header starts with exactly "Basic ". The
// trailing segment is trimmed of surrounding whitespace.
func extractBase64Segment(header string) string {
	if !strings.HasPrefix(header, basicPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(basicPrefix):])
}

// decodeBase64 decodes a standard-encoding Base64 segment, or returns ""
// if the segment is not valid Base64 or the decoded bytes are not valid
// UTF-8 text.
func decodeBase64(segment string) string {
	if segment == "" {
		return ""
	}
	raw, err := base64.StdEncoding.DecodeString(segment)
	if err != nil {
		return ""
	}
	if !utf8.Valid(raw) {
		return ""
	}
	return string(raw)
}

// splitCredentials splits decoded text on the first ":" into an email and a
// password. The password may itself contain ":". Text without a separator
// carries no credentials.
func splitCredentials(decoded string) (email, password string, ok bool) {
	if decoded == "" {
		return "", "", false
	}
	return strings.Cut(decoded, ":")
}

// resolvePrincipal looks the email up in the directory and verifies the
// password against the stored hash. Lookup errors are treated as "no
// principal" rather than propagated: a broken directory must not let a
// request through, and the boundary response stays indistinguishable from
// a wrong password.
func (b *BasicAuth) resolvePrincipal(ctx context.Context, email, password string) *User {
	user, err := b.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil
	}
	if !b.hasher.Verify(password, user.PasswordHash) {
		return nil
	}
	return user
}
