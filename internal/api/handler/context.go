package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

// actorFrom returns the user stored by the Authenticate middleware. A missing
// actor means the route was registered without it, so the request is treated
// as unauthenticated.
func actorFrom(c echo.Context) (*domain.User, error) {
	actor, ok := domain.ActorFrom(c.Request().Context())
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return actor, nil
}

// viewerFrom returns the optional actor set by OptionalAuth, or nil.
func viewerFrom(c echo.Context) *domain.User {
	actor, _ := domain.ActorFrom(c.Request().Context())
	return actor
}

// pageRequest reads the page and limit query parameters. Missing or malformed
// values fall back to the first page of domain.DefaultPageSize items.
func pageRequest(c echo.Context) domain.PageRequest {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil {
		limit = domain.DefaultPageSize
	}
	return domain.NewPageRequest(page, limit)
}

// formUpload opens the multipart file under field. A missing file yields a nil
// upload; the returned close func is always safe to call.
func formUpload(c echo.Context, field string) (*ports.Upload, func(), error) {
	noop := func() {}

	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, fmt.Errorf("%w: %s: %v", domain.ErrValidation, field, err)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("open %s: %w", field, err)
	}
	return &ports.Upload{Filename: fh.Filename, Body: f}, func() { _ = f.Close() }, nil
}

// requireUpload is formUpload for mandatory files.
func requireUpload(c echo.Context, field string) (*ports.Upload, func(), error) {
	up, closeFn, err := formUpload(c, field)
	if err != nil {
		return nil, closeFn, err
	}
	if up == nil {
		return nil, closeFn, fmt.Errorf("%w: %s file is required", domain.ErrValidation, field)
	}
	return up, closeFn, nil
}

// bindAndValidate binds the request into req and runs the echo validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
