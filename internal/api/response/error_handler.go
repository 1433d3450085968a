package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vidtube/vidtube-api/internal/api/metrics"
	"github.com/vidtube/vidtube-api/internal/core/domain"
)

const apiPrefix = "/api/v1/"

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders the error in the common Envelope with data set to null.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if code == http.StatusForbidden && !errors.Is(err, domain.ErrSelfRelation) {
			metrics.OwnershipDenialsTotal.WithLabelValues(resourceOf(c.Path())).Inc()
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = JSON(c, code, nil, msg)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, router 404/405, rate limiting).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, domain.ErrTokenMismatch):
		return http.StatusUnauthorized, domain.ErrTokenMismatch.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, domain.ErrInvalidCredentials.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, domain.ErrUnauthorized.Error()
	case errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrIdentityNotFound):
		if strings.HasSuffix(c.Path(), "/refresh-token") {
			return http.StatusUnauthorized, "invalid refresh token"
		}
		return http.StatusUnauthorized, "invalid access token"

	case errors.Is(err, domain.ErrSelfRelation):
		return http.StatusForbidden, domain.ErrSelfRelation.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, domain.ErrForbidden.Error()

	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, domain.ErrUserNotFound.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, domain.ErrNotFound.Error()

	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, domain.ErrUserExists.Error()
	}

	// Unexpected error, upload failures included: log the real cause and
	// return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	if errors.Is(err, domain.ErrUploadFailed) {
		return http.StatusInternalServerError, domain.ErrUploadFailed.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

// resourceOf returns the first path segment after the API prefix, e.g.
// "comments" for "/api/v1/comments/c/:commentId".
func resourceOf(path string) string {
	rest, ok := strings.CutPrefix(path, apiPrefix)
	if !ok || rest == "" {
		return "other"
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
