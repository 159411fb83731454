package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skladhub/warehousing-system/internal/api/middleware"
	"github.com/skladhub/warehousing-system/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any service call: both values must be
// present, proving the middleware actually ran on this route.
func ctxIdentity(c echo.Context) (userID string, role domain.Role, err error) {
	userID, _ = c.Get(middleware.CtxUserID).(string)
	roleStr, _ := c.Get(middleware.CtxRole).(string)
	if userID == "" || roleStr == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	role, ok := domain.ParseRole(roleStr)
	if !ok {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "unknown role")
	}

	return userID, role, nil
}

// ctxUser returns the full authenticated user stashed by the Auth middleware.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.CtxUser).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}
