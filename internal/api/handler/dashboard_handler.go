package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vidtube/vidtube-api/internal/api/metrics"
	"github.com/vidtube/vidtube-api/internal/api/response"
	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats returns the live statistics of the acting user's channel.
//
// @Summary      Channel statistics
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=domain.ChannelStats}
// @Failure      401  {object}  response.Envelope
// @Router       /dashboard/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	timer := prometheus.NewTimer(metrics.ChannelStatsDuration)
	stats, err := h.service.ChannelStats(c.Request().Context(), actor.ID)
	timer.ObserveDuration()
	if err != nil {
		return err
	}
	return response.OK(c, stats, "Channel stats fetched successfully")
}

// Videos lists the published videos of the acting user's channel.
//
// @Summary      Channel videos
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        sortBy  query     string  false  "newest, oldest, popular or mostLiked (default newest)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 10, max 100)"
// @Success      200     {object}  response.Envelope{data=domain.Page[domain.Video]}
// @Router       /dashboard/videos [get]
func (h *DashboardHandler) Videos(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	sort := domain.VideoSort(c.QueryParam("sortBy"))
	page, err := h.service.ChannelVideos(c.Request().Context(), actor.ID, sort, pageRequest(c))
	if err != nil {
		return err
	}
	return response.OK(c, page, "Channel videos fetched successfully")
}
