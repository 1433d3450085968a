package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/vidtube/vidtube-api/internal/api/response"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

type PlaylistHandler struct {
	service ports.PlaylistService
}

func NewPlaylistHandler(service ports.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{service: service}
}

type createPlaylistRequest struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description" validate:"required"`
}

// updatePlaylistRequest leaves fields that are absent from the body untouched.
type updatePlaylistRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Create makes a playlist owned by the acting user.
//
// @Summary      Create a playlist
// @Tags         playlists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPlaylistRequest  true  "Playlist details"
// @Success      201   {object}  response.Envelope{data=domain.Playlist}
// @Failure      400   {object}  response.Envelope
// @Router       /playlist [post]
func (h *PlaylistHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req createPlaylistRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	playlist, err := h.service.Create(c.Request().Context(), actor, req.Name, req.Description)
	if err != nil {
		return err
	}
	return response.Created(c, playlist, "Playlist created successfully")
}

// Get returns a playlist owned by the acting user.
//
// @Summary      Get a playlist
// @Tags         playlists
// @Produce      json
// @Security     BearerAuth
// @Param        playlistId  path      string  true  "Playlist ID"
// @Success      200         {object}  response.Envelope{data=domain.Playlist}
// @Failure      403         {object}  response.Envelope
// @Failure      404         {object}  response.Envelope
// @Router       /playlist/{playlistId} [get]
func (h *PlaylistHandler) Get(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	playlist, err := h.service.Get(c.Request().Context(), actor, c.Param("playlistId"))
	if err != nil {
		return err
	}
	return response.OK(c, playlist, "Playlist fetched successfully")
}

// ListByUser returns the playlists of a user.
//
// @Summary      List playlists of a user
// @Tags         playlists
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true   "User ID"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 10, max 100)"
// @Success      200     {object}  response.Envelope{data=domain.Page[domain.Playlist]}
// @Router       /playlist/user/{userId} [get]
func (h *PlaylistHandler) ListByUser(c echo.Context) error {
	page, err := h.service.ListByUser(c.Request().Context(), c.Param("userId"), pageRequest(c))
	if err != nil {
		return err
	}
	return response.OK(c, page, "Playlists fetched successfully")
}

// Update renames or redescribes a playlist owned by the acting user.
//
// @Summary      Update a playlist
// @Tags         playlists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        playlistId  path      string                 true  "Playlist ID"
// @Param        body        body      updatePlaylistRequest  true  "Fields to change"
// @Success      200         {object}  response.Envelope{data=domain.Playlist}
// @Failure      403         {object}  response.Envelope
// @Failure      404         {object}  response.Envelope
// @Router       /playlist/{playlistId} [patch]
func (h *PlaylistHandler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req updatePlaylistRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	playlist, err := h.service.Update(c.Request().Context(), actor, c.Param("playlistId"), ports.PlaylistUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return response.OK(c, playlist, "Playlist updated successfully")
}

// Delete removes a playlist owned by the acting user.
//
// @Summary      Delete a playlist
// @Tags         playlists
// @Produce      json
// @Security     BearerAuth
// @Param        playlistId  path      string  true  "Playlist ID"
// @Success      200         {object}  response.Envelope
// @Failure      403         {object}  response.Envelope
// @Failure      404         {object}  response.Envelope
// @Router       /playlist/{playlistId} [delete]
func (h *PlaylistHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("playlistId")); err != nil {
		return err
	}
	return response.OK(c, struct{}{}, "Playlist deleted successfully")
}

// AddVideo appends a video to a playlist owned by the acting user.
//
// @Summary      Add a video to a playlist
// @Tags         playlists
// @Produce      json
// @Security     BearerAuth
// @Param        videoId     path      string  true  "Video ID"
// @Param        playlistId  path      string  true  "Playlist ID"
// @Success      200         {object}  response.Envelope{data=domain.Playlist}
// @Failure      400         {object}  response.Envelope
// @Failure      403         {object}  response.Envelope
// @Failure      404         {object}  response.Envelope
// @Router       /playlist/add/{videoId}/{playlistId} [patch]
func (h *PlaylistHandler) AddVideo(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	playlist, err := h.service.AddVideo(c.Request().Context(), actor, c.Param("playlistId"), c.Param("videoId"))
	if err != nil {
		return err
	}
	return response.OK(c, playlist, "Video added to playlist")
}

// RemoveVideo takes a video out of a playlist owned by the acting user.
//
// @Summary      Remove a video from a playlist
// @Tags         playlists
// @Produce      json
// @Security     BearerAuth
// @Param        videoId     path      string  true  "Video ID"
// @Param        playlistId  path      string  true  "Playlist ID"
// @Success      200         {object}  response.Envelope{data=domain.Playlist}
// @Failure      403         {object}  response.Envelope
// @Failure      404         {object}  response.Envelope
// @Router       /playlist/remove/{videoId}/{playlistId} [patch]
func (h *PlaylistHandler) RemoveVideo(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	playlist, err := h.service.RemoveVideo(c.Request().Context(), actor, c.Param("playlistId"), c.Param("videoId"))
	if err != nil {
		return err
	}
	return response.OK(c, playlist, "Video removed from playlist")
}
