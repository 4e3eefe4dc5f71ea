package auth

import "net/http"

// SessionCookieName is the HTTP cookie carrying the session identifier.
const SessionCookieName = "session_id"

// AuthorizationHeader returns the literal value of the Authorization header,
// or the empty string if the request or header is missing. No parsing is
// performed here; decoding belongs to the strategy layer.
func AuthorizationHeader(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.Header.Get("Authorization")
}

// SessionCookie returns the value of the session identifier cookie, or the
// empty string if the request or cookie is missing.
func SessionCookie(r *http.Request) string {
	if r == nil {
		return ""
	}
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}
