package auth

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"

	"github.com/gatehouse/gatehouse/internal/apperror"
)

// newTestServer wires the full HTTP surface over the fake repo and an
// in-memory session store, with an error handler matching the one the
// application installs.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	repo := newFakeRepo()
	tokens := UUIDGenerator{}
	store := NewMemoryStore(tokens, 0)
	svc := NewService(repo, testHasher(), tokens, store)

	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		c.JSON(apperror.SafeCode(err), map[string]string{"message": apperror.SafeMessage(err)})
	}
	RegisterRoutes(e, NewHandler(svc, 0))

	return e
}

// register creates a user through the HTTP surface.
func register(t *testing.T, e *echo.Echo, email, password string) {
	t.Helper()

	apitest.New().
		Handler(e).
		Post("/users").
		FormData("email", email).
		FormData("password", password).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.message", "user created")).
		End()
}

// login opens a session through the HTTP surface and returns the session
// cookie value.
func login(t *testing.T, e *echo.Echo, email, password string) string {
	t.Helper()

	result := apitest.New().
		Handler(e).
		Post("/sessions").
		FormData("email", email).
		FormData("password", password).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.message", "logged in")).
		CookiePresent(SessionCookieName).
		End()

	for _, c := range result.Response.Cookies() {
		if c.Name == SessionCookieName {
			return c.Value
		}
	}
	t.Fatal("session cookie not set")
	return ""
}

func TestIndex(t *testing.T) {
	e := newTestServer(t)

	apitest.New().
		Handler(e).
		Get("/").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.message", "Bienvenue")).
		End()
}

func TestRegisterEndpoint(t *testing.T) {
	e := newTestServer(t)

	register(t, e, "a@x.com", "pw1")

	// Same email again: 400 with the documented message.
	apitest.New().
		Handler(e).
		Post("/users").
		FormData("email", "a@x.com").
		FormData("password", "pw1").
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.message", "email already registered")).
		End()
}

func TestRegisterMissingFields(t *testing.T) {
	e := newTestServer(t)

	apitest.New().
		Handler(e).
		Post("/users").
		FormData("email", "a@x.com").
		Expect(t).
		Status(http.StatusBadRequest).
		End()
}

func TestLoginEndpoint(t *testing.T) {
	e := newTestServer(t)
	register(t, e, "a@x.com", "pw1")

	login(t, e, "a@x.com", "pw1")

	// Wrong password and unknown email produce the identical 401.
	for _, creds := range [][2]string{
		{"a@x.com", "wrong"},
		{"nobody@x.com", "pw1"},
	} {
		apitest.New().
			Handler(e).
			Post("/sessions").
			FormData("email", creds[0]).
			FormData("password", creds[1]).
			Expect(t).
			Status(http.StatusUnauthorized).
			Assert(jsonpath.Equal("$.message", "invalid email or password")).
			End()
	}
}

func TestProfileEndpoint(t *testing.T) {
	e := newTestServer(t)
	register(t, e, "a@x.com", "pw1")

	// No cookie: 403.
	apitest.New().
		Handler(e).
		Get("/profile").
		Expect(t).
		Status(http.StatusForbidden).
		End()

	// Valid cookie: 200 with the right email.
	sessionID := login(t, e, "a@x.com", "pw1")
	apitest.New().
		Handler(e).
		Get("/profile").
		Cookie(SessionCookieName, sessionID).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.email", "a@x.com")).
		End()

	// Garbage cookie: 403.
	apitest.New().
		Handler(e).
		Get("/profile").
		Cookie(SessionCookieName, "not-a-session").
		Expect(t).
		Status(http.StatusForbidden).
		End()
}

func TestLogoutEndpoint(t *testing.T) {
	e := newTestServer(t)
	register(t, e, "a@x.com", "pw1")
	sessionID := login(t, e, "a@x.com", "pw1")

	// Logout redirects home.
	apitest.New().
		Handler(e).
		Delete("/sessions").
		Cookie(SessionCookieName, sessionID).
		Expect(t).
		Status(http.StatusFound).
		Header("Location", "/").
		End()

	// The cookie is dead afterwards.
	apitest.New().
		Handler(e).
		Get("/profile").
		Cookie(SessionCookieName, sessionID).
		Expect(t).
		Status(http.StatusForbidden).
		End()

	// Logging out without a session is forbidden.
	apitest.New().
		Handler(e).
		Delete("/sessions").
		Expect(t).
		Status(http.StatusForbidden).
		End()
}

func TestResetPasswordEndpoints(t *testing.T) {
	e := newTestServer(t)
	register(t, e, "a@x.com", "pw1")

	// Unknown email: 403.
	apitest.New().
		Handler(e).
		Post("/reset_password").
		FormData("email", "nobody@x.com").
		Expect(t).
		Status(http.StatusForbidden).
		End()

	// Issue a token.
	result := apitest.New().
		Handler(e).
		Post("/reset_password").
		FormData("email", "a@x.com").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.email", "a@x.com")).
		Assert(jsonpath.Present("$.reset_token")).
		End()

	var payload struct {
		ResetToken string `json:"reset_token"`
	}
	result.JSON(&payload)
	if payload.ResetToken == "" {
		t.Fatal("empty reset token in response")
	}

	// Consume it.
	apitest.New().
		Handler(e).
		Put("/reset_password").
		FormData("email", "a@x.com").
		FormData("reset_token", payload.ResetToken).
		FormData("new_password", "pw2").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.message", "Password updated")).
		End()

	// Replay: 403.
	apitest.New().
		Handler(e).
		Put("/reset_password").
		FormData("email", "a@x.com").
		FormData("reset_token", payload.ResetToken).
		FormData("new_password", "pw3").
		Expect(t).
		Status(http.StatusForbidden).
		End()

	// Old password is gone, new one works.
	apitest.New().
		Handler(e).
		Post("/sessions").
		FormData("email", "a@x.com").
		FormData("password", "pw1").
		Expect(t).
		Status(http.StatusUnauthorized).
		End()
	login(t, e, "a@x.com", "pw2")
}
