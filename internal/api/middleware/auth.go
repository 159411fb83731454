package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/skladhub/warehousing-system/internal/api/metrics"
	"github.com/skladhub/warehousing-system/internal/core/ports"
)

// Context keys populated by Auth for downstream handlers.
const (
	CtxUser     = "user"
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
	CtxToken    = "token"
)

// Auth validates the "Authorization: Token <token>" header against the auth
// service and injects the authenticated user into context. Tokens issued at
// login are revoked on logout, so validation always goes through the service.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "token") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			user, err := auth.Authenticate(c.Request().Context(), parts[1])
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(CtxUser, user)
			c.Set(CtxUserID, user.ID)
			c.Set(CtxUsername, user.Username)
			c.Set(CtxRole, string(user.Role))
			c.Set(CtxToken, parts[1])

			return next(c)
		}
	}
}
