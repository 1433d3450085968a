package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/vidtube/vidtube-api/internal/api/response"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

type TweetHandler struct {
	service ports.TweetService
}

func NewTweetHandler(service ports.TweetService) *TweetHandler {
	return &TweetHandler{service: service}
}

type tweetRequest struct {
	Content string `json:"content" validate:"required"`
}

// Create posts a tweet as the acting user.
//
// @Summary      Create a tweet
// @Tags         tweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      tweetRequest  true  "Tweet content"
// @Success      201   {object}  response.Envelope{data=domain.Tweet}
// @Failure      400   {object}  response.Envelope
// @Router       /tweets [post]
func (h *TweetHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req tweetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tweet, err := h.service.Create(c.Request().Context(), actor, req.Content)
	if err != nil {
		return err
	}
	return response.Created(c, tweet, "Tweet created successfully")
}

// ListByUser returns the tweets of a user. Only the user may list them.
//
// @Summary      List tweets of a user
// @Tags         tweets
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true   "User ID"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 10, max 100)"
// @Success      200     {object}  response.Envelope{data=domain.Page[domain.Tweet]}
// @Failure      403     {object}  response.Envelope
// @Router       /tweets/user/{userId} [get]
func (h *TweetHandler) ListByUser(c echo.Context) error {
	page, err := h.service.ListByUser(c.Request().Context(), c.Param("userId"), pageRequest(c))
	if err != nil {
		return err
	}
	return response.OK(c, page, "Tweets fetched successfully")
}

// Update edits a tweet owned by the acting user.
//
// @Summary      Update a tweet
// @Tags         tweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        tweetId  path      string        true  "Tweet ID"
// @Param        body     body      tweetRequest  true  "New content"
// @Success      200      {object}  response.Envelope{data=domain.Tweet}
// @Failure      403      {object}  response.Envelope
// @Failure      404      {object}  response.Envelope
// @Router       /tweets/{tweetId} [patch]
func (h *TweetHandler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req tweetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tweet, err := h.service.Update(c.Request().Context(), actor, c.Param("tweetId"), req.Content)
	if err != nil {
		return err
	}
	return response.OK(c, tweet, "Tweet updated successfully")
}

// Delete removes a tweet owned by the acting user.
//
// @Summary      Delete a tweet
// @Tags         tweets
// @Produce      json
// @Security     BearerAuth
// @Param        tweetId  path      string  true  "Tweet ID"
// @Success      200      {object}  response.Envelope
// @Failure      403      {object}  response.Envelope
// @Failure      404      {object}  response.Envelope
// @Router       /tweets/{tweetId} [delete]
func (h *TweetHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("tweetId")); err != nil {
		return err
	}
	return response.OK(c, struct{}{}, "Tweet deleted successfully")
}
