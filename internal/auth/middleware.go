package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/gatehouse/gatehouse/internal/apperror"
)

// contextKeyUser is the Echo context key holding the resolved principal.
const contextKeyUser = "auth_user"

// RequireAuth returns middleware that guards routes with the given strategy.
// Paths matching an exclusion pattern pass through untouched. Otherwise a
// request with no credential is rejected with 401, and a credential that
// resolves to no principal with 403. The principal is stored in the Echo
// context for downstream handlers (see GetUser).
func RequireAuth(strategy Strategy, excluded []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			if !RequiresAuth(req.URL.Path, excluded) {
				return next(c)
			}

			if strategy.Credential(req) == "" {
				return apperror.NewUnauthorized("authentication required")
			}

			user, err := strategy.CurrentUser(req.Context(), req)
			if err != nil || user == nil {
				return apperror.NewForbidden("forbidden")
			}

			c.Set(contextKeyUser, user)

			return next(c)
		}
	}
}

// GetUser retrieves the authenticated principal from the Echo context.
// Returns nil if the request is not authenticated (middleware not applied
// or path excluded).
func GetUser(c echo.Context) *User {
	user, ok := c.Get(contextKeyUser).(*User)
	if !ok {
		return nil
	}
	return user
}
