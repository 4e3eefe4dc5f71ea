package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gatehouse/gatehouse/internal/middleware"
)

// RegisterRoutes sets up the authentication HTTP surface on the given Echo
// instance.
//
// Credential-accepting endpoints are rate-limited to slow brute-force and
// credential stuffing: 10 login attempts per IP per minute, 5 for
// registration and reset-token requests.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/", h.Index)

	e.POST("/users", h.Register, middleware.RateLimit(5, time.Minute))

	e.POST("/sessions", h.Login, middleware.RateLimit(10, time.Minute))
	e.DELETE("/sessions", h.Logout)

	e.GET("/profile", h.Profile)

	e.POST("/reset_password", h.ResetToken, middleware.RateLimit(5, time.Minute))
	e.PUT("/reset_password", h.UpdatePassword)
}
