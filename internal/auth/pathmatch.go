package auth

import "strings"

// RequiresAuth reports whether a request path needs authentication given a
// list of exempt patterns. A pattern ending in "*" matches by prefix;
// anything else matches exactly, ignoring a single trailing slash on either
// side. An empty path or an empty pattern list always requires auth: a
// request that cannot be proven exempt is not exempt.
//
// Pure function, no I/O.
func RequiresAuth(path string, excluded []string) bool {
	if path == "" {
		return true
	}
	if len(excluded) == 0 {
		return true
	}

	path = trimTrailingSlash(path)

	for _, pattern := range excluded {
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
			if strings.HasPrefix(path, prefix) {
				return false
			}
			continue
		}
		if path == trimTrailingSlash(pattern) {
			return false
		}
	}
	return true
}

// trimTrailingSlash removes at most one trailing slash so "/status/" and
// "/status" compare equal. The bare root "/" trims to "".
func trimTrailingSlash(s string) string {
	return strings.TrimSuffix(s, "/")
}
