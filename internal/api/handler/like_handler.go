package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/vidtube/vidtube-api/internal/api/metrics"
	"github.com/vidtube/vidtube-api/internal/api/response"
	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

type LikeHandler struct {
	service ports.LikeService
}

func NewLikeHandler(service ports.LikeService) *LikeHandler {
	return &LikeHandler{service: service}
}

type toggleFunc func(ctx context.Context, actor *domain.User, id string) (domain.ToggleResult, error)

// ToggleVideoLike likes or unlikes a video.
//
// @Summary      Toggle like on a video
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        videoId  path      string  true  "Video ID"
// @Success      200      {object}  response.Envelope{data=domain.ToggleResult}
// @Failure      404      {object}  response.Envelope
// @Router       /likes/toggle/v/{videoId} [post]
func (h *LikeHandler) ToggleVideoLike(c echo.Context) error {
	return h.toggle(c, domain.RelationLikesVideo, "videoId", h.service.ToggleVideoLike)
}

// ToggleCommentLike likes or unlikes a comment.
//
// @Summary      Toggle like on a comment
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        commentId  path      string  true  "Comment ID"
// @Success      200        {object}  response.Envelope{data=domain.ToggleResult}
// @Failure      404        {object}  response.Envelope
// @Router       /likes/toggle/c/{commentId} [post]
func (h *LikeHandler) ToggleCommentLike(c echo.Context) error {
	return h.toggle(c, domain.RelationLikesComment, "commentId", h.service.ToggleCommentLike)
}

// ToggleTweetLike likes or unlikes a tweet.
//
// @Summary      Toggle like on a tweet
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        tweetId  path      string  true  "Tweet ID"
// @Success      200      {object}  response.Envelope{data=domain.ToggleResult}
// @Failure      404      {object}  response.Envelope
// @Router       /likes/toggle/t/{tweetId} [post]
func (h *LikeHandler) ToggleTweetLike(c echo.Context) error {
	return h.toggle(c, domain.RelationLikesTweet, "tweetId", h.service.ToggleTweetLike)
}

// VideoLikers lists the users who like a video, most recent first.
//
// @Summary      Users who like a video
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        videoId  path      string  true   "Video ID"
// @Param        page     query     int     false  "Page number (default 1)"
// @Param        limit    query     int     false  "Page size (default 10, max 100)"
// @Success      200      {object}  response.Envelope{data=domain.Page[domain.UserSummary]}
// @Failure      404      {object}  response.Envelope
// @Router       /likes/v/{videoId} [get]
func (h *LikeHandler) VideoLikers(c echo.Context) error {
	page, err := h.service.VideoLikers(c.Request().Context(), c.Param("videoId"), pageRequest(c))
	if err != nil {
		return err
	}
	return response.OK(c, page, "Video likes fetched successfully")
}

// LikedVideos lists the videos the acting user likes.
//
// @Summary      Videos liked by the current user
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Page size (default 10, max 100)"
// @Success      200    {object}  response.Envelope{data=domain.Page[domain.Video]}
// @Router       /likes/videos [get]
func (h *LikeHandler) LikedVideos(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	page, err := h.service.LikedVideos(c.Request().Context(), actor, pageRequest(c))
	if err != nil {
		return err
	}
	return response.OK(c, page, "Liked videos fetched successfully")
}

func (h *LikeHandler) toggle(c echo.Context, kind domain.RelationKind, param string, fn toggleFunc) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	res, err := fn(c.Request().Context(), actor, c.Param(param))
	if err != nil {
		return err
	}
	metrics.RelationTogglesTotal.WithLabelValues(string(kind), metrics.Toggled(res.Active)).Inc()

	msg := "Like removed"
	if res.Active {
		msg = "Like added"
	}
	return response.OK(c, res, msg)
}
