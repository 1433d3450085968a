// Package response renders every API reply in the same JSON envelope.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the body of every response, successful or not.
type Envelope struct {
	StatusCode int    `json:"status_code"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// JSON writes data wrapped in an Envelope with the given status code.
func JSON(c echo.Context, code int, data any, message string) error {
	return c.JSON(code, Envelope{
		StatusCode: code,
		Data:       data,
		Message:    message,
		Success:    code < http.StatusBadRequest,
	})
}

// OK writes a 200 envelope.
func OK(c echo.Context, data any, message string) error {
	return JSON(c, http.StatusOK, data, message)
}

// Created writes a 201 envelope.
func Created(c echo.Context, data any, message string) error {
	return JSON(c, http.StatusCreated, data, message)
}
