package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/vidtube/vidtube-api/internal/api/metrics"
	"github.com/vidtube/vidtube-api/internal/api/response"
	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

type SubscriptionHandler struct {
	service ports.SubscriptionService
}

func NewSubscriptionHandler(service ports.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

// Toggle subscribes the acting user to a channel, or unsubscribes.
//
// @Summary      Toggle subscription
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        channelId  path      string  true  "Channel (user) ID"
// @Success      200        {object}  response.Envelope{data=domain.ToggleResult}
// @Failure      403        {object}  response.Envelope
// @Failure      404        {object}  response.Envelope
// @Router       /subscriptions/c/{channelId} [post]
func (h *SubscriptionHandler) Toggle(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	res, err := h.service.Toggle(c.Request().Context(), actor, c.Param("channelId"))
	if err != nil {
		return err
	}
	metrics.RelationTogglesTotal.WithLabelValues(string(domain.RelationSubscribesTo), metrics.Toggled(res.Active)).Inc()

	msg := "Unsubscribed successfully"
	if res.Active {
		msg = "Subscribed successfully"
	}
	return response.OK(c, res, msg)
}

// Subscribers lists the subscribers of a channel, most recent first.
//
// @Summary      Channel subscribers
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        channelId  path      string  true   "Channel (user) ID"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Page size (default 10, max 100)"
// @Success      200        {object}  response.Envelope{data=domain.Page[domain.UserSummary]}
// @Failure      404        {object}  response.Envelope
// @Router       /subscriptions/c/{channelId} [get]
func (h *SubscriptionHandler) Subscribers(c echo.Context) error {
	page, err := h.service.Subscribers(c.Request().Context(), c.Param("channelId"), pageRequest(c))
	if err != nil {
		return err
	}
	return response.OK(c, page, "Subscribers fetched successfully")
}

// SubscribedChannels lists the channels a user subscribes to.
//
// @Summary      Subscribed channels
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        subscriberId  path      string  true   "Subscriber (user) ID"
// @Param        page          query     int     false  "Page number (default 1)"
// @Param        limit         query     int     false  "Page size (default 10, max 100)"
// @Success      200           {object}  response.Envelope{data=domain.Page[domain.UserSummary]}
// @Router       /subscriptions/u/{subscriberId} [get]
func (h *SubscriptionHandler) SubscribedChannels(c echo.Context) error {
	page, err := h.service.SubscribedChannels(c.Request().Context(), c.Param("subscriberId"), pageRequest(c))
	if err != nil {
		return err
	}
	return response.OK(c, page, "Subscribed channels fetched successfully")
}
