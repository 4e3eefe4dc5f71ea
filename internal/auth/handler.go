package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gatehouse/gatehouse/internal/apperror"
)

// Handler handles HTTP requests for authentication. Handlers are thin: they
// bind the request, call the service, and shape the response. No business
// logic lives here.
type Handler struct {
	service    *Service
	sessionTTL time.Duration
}

// NewHandler creates a new auth handler. sessionTTL caps the session cookie
// lifetime; zero or less produces a session cookie with no Max-Age.
func NewHandler(service *Service, sessionTTL time.Duration) *Handler {
	return &Handler{service: service, sessionTTL: sessionTTL}
}

// Index is the welcome endpoint (GET /).
func (h *Handler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Bienvenue"})
}

// Register creates a new user (POST /users). Responds 400 if the email is
// already registered.
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}
	if req.Email == "" || req.Password == "" {
		return apperror.NewBadRequest("email and password are required")
	}

	user, err := h.service.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"email":   user.Email,
		"message": "user created",
	})
}

// Login verifies credentials and opens a session (POST /sessions). On
// success the session identifier is set as a cookie. Responds 401 on bad
// credentials without revealing whether the email exists.
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	ok, err := h.service.ValidLogin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewInvalidCredentials()
	}

	sessionID, err := h.service.CreateSession(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, sessionID)

	return c.JSON(http.StatusOK, map[string]string{
		"email":   req.Email,
		"message": "logged in",
	})
}

// Logout destroys the session behind the request's cookie and redirects to
// the welcome page (DELETE /sessions). Responds 403 if the cookie resolves
// to no user.
func (h *Handler) Logout(c echo.Context) error {
	user, err := h.service.UserFromSession(c.Request().Context(), SessionCookie(c.Request()))
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewForbidden("forbidden")
	}

	if err := h.service.DestroySession(c.Request().Context(), user.ID); err != nil {
		return err
	}

	clearSessionCookie(c)

	return c.Redirect(http.StatusFound, "/")
}

// Profile returns the email of the session's user (GET /profile).
// Responds 403 if the cookie resolves to no user.
func (h *Handler) Profile(c echo.Context) error {
	user, err := h.service.UserFromSession(c.Request().Context(), SessionCookie(c.Request()))
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewForbidden("forbidden")
	}

	return c.JSON(http.StatusOK, map[string]string{"email": user.Email})
}

// ResetToken issues a password reset token (POST /reset_password).
// Responds 403 if the email is not registered.
func (h *Handler) ResetToken(c echo.Context) error {
	email := c.FormValue("email")

	token, err := h.service.ResetToken(c.Request().Context(), email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"email":       email,
		"reset_token": token,
	})
}

// UpdatePassword consumes a reset token and sets a new password
// (PUT /reset_password). Responds 403 if the token is invalid or spent.
func (h *Handler) UpdatePassword(c echo.Context) error {
	var req UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	if err := h.service.UpdatePassword(c.Request().Context(), req.ResetToken, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"email":   req.Email,
		"message": "Password updated",
	})
}

// --- Cookie helpers ---

// setSessionCookie sets the session cookie on the response. The cookie is
// HttpOnly (JS can't read it), Secure behind TLS, and SameSite=Lax.
func (h *Handler) setSessionCookie(c echo.Context, sessionID string) {
	req := c.Request()
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   req.TLS != nil || req.Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
	}
	if h.sessionTTL > 0 {
		cookie.MaxAge = int(h.sessionTTL.Seconds())
	}
	c.SetCookie(cookie)
}

// clearSessionCookie removes the session cookie by setting MaxAge to -1.
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
