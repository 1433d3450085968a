package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

// AccessCookie is the cookie carrying the access token.
const AccessCookie = "accessToken"

// Authenticate resolves the bearer credential into the acting user and stores
// it in the request context. Requests without a valid credential fail with the
// resolver's error.
func Authenticate(resolver ports.IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			user, err := resolver.ResolveIdentity(req.Context(), bearer(c))
			if err != nil {
				return err
			}

			c.SetRequest(req.WithContext(domain.WithActor(req.Context(), user)))
			return next(c)
		}
	}
}

// OptionalAuth is Authenticate for public routes: an absent or unusable
// credential lets the request through anonymously.
func OptionalAuth(resolver ports.IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearer(c)
			if token == "" {
				return next(c)
			}

			req := c.Request()
			user, err := resolver.ResolveIdentity(req.Context(), token)
			if err == nil {
				c.SetRequest(req.WithContext(domain.WithActor(req.Context(), user)))
			}
			return next(c)
		}
	}
}

// bearer returns the access token from the cookie, falling back to the
// Authorization header.
func bearer(c echo.Context) string {
	if ck, err := c.Cookie(AccessCookie); err == nil && ck.Value != "" {
		return ck.Value
	}

	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
