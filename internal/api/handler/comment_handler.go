package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/vidtube/vidtube-api/internal/api/response"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

type commentRequest struct {
	Content string `json:"content" validate:"required"`
}

// List returns the comments of a video, newest first.
//
// @Summary      List comments of a video
// @Tags         comments
// @Produce      json
// @Param        videoId  path      string  true   "Video ID"
// @Param        page     query     int     false  "Page number (default 1)"
// @Param        limit    query     int     false  "Page size (default 10, max 100)"
// @Success      200      {object}  response.Envelope{data=domain.Page[domain.Comment]}
// @Router       /comments/{videoId} [get]
func (h *CommentHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), c.Param("videoId"), pageRequest(c))
	if err != nil {
		return err
	}
	return response.OK(c, page, "Comments fetched successfully")
}

// Get returns a single comment.
//
// @Summary      Get a comment
// @Tags         comments
// @Produce      json
// @Param        commentId  path      string  true  "Comment ID"
// @Success      200        {object}  response.Envelope{data=domain.Comment}
// @Failure      404        {object}  response.Envelope
// @Router       /comments/c/{commentId} [get]
func (h *CommentHandler) Get(c echo.Context) error {
	comment, err := h.service.Get(c.Request().Context(), c.Param("commentId"))
	if err != nil {
		return err
	}
	return response.OK(c, comment, "Comment fetched successfully")
}

// Add comments on a video as the acting user.
//
// @Summary      Add a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        videoId  path      string          true  "Video ID"
// @Param        body     body      commentRequest  true  "Comment content"
// @Success      201      {object}  response.Envelope{data=domain.Comment}
// @Failure      400      {object}  response.Envelope
// @Failure      404      {object}  response.Envelope
// @Router       /comments/{videoId} [post]
func (h *CommentHandler) Add(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.service.Add(c.Request().Context(), actor, c.Param("videoId"), req.Content)
	if err != nil {
		return err
	}
	return response.Created(c, comment, "Comment added successfully")
}

// Update edits a comment owned by the acting user.
//
// @Summary      Update a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        commentId  path      string          true  "Comment ID"
// @Param        body       body      commentRequest  true  "New content"
// @Success      200        {object}  response.Envelope{data=domain.Comment}
// @Failure      403        {object}  response.Envelope
// @Failure      404        {object}  response.Envelope
// @Router       /comments/c/{commentId} [patch]
func (h *CommentHandler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.service.Update(c.Request().Context(), actor, c.Param("commentId"), req.Content)
	if err != nil {
		return err
	}
	return response.OK(c, comment, "Comment updated successfully")
}

// Delete removes a comment owned by the acting user.
//
// @Summary      Delete a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        commentId  path      string  true  "Comment ID"
// @Success      200        {object}  response.Envelope
// @Failure      403        {object}  response.Envelope
// @Failure      404        {object}  response.Envelope
// @Router       /comments/c/{commentId} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("commentId")); err != nil {
		return err
	}
	return response.OK(c, struct{}{}, "Comment deleted successfully")
}
