package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/vidtube/vidtube-api/internal/core/domain"
)

// SelfOnly restricts a route to the user whose id is in the path parameter
// param. It must run after Authenticate.
func SelfOnly(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := domain.ActorFrom(c.Request().Context())
			if !ok {
				return domain.ErrUnauthorized
			}
			if c.Param(param) != actor.ID {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
