package handler

import (
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/vidtube/vidtube-api/internal/api/response"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

type VideoHandler struct {
	service ports.VideoService
}

func NewVideoHandler(service ports.VideoService) *VideoHandler {
	return &VideoHandler{service: service}
}

type publishVideoRequest struct {
	Title       string `form:"title"       json:"title"       validate:"required"`
	Description string `form:"description" json:"description" validate:"required"`
}

// List returns published videos.
//
// @Summary      List videos
// @Tags         videos
// @Produce      json
// @Param        query     query     string  false  "Search in title and description"
// @Param        userId    query     string  false  "Only videos of this owner"
// @Param        sortBy    query     string  false  "created_at, views, duration or title"
// @Param        sortType  query     string  false  "asc or desc (default desc)"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Page size (default 10, max 100)"
// @Success      200       {object}  response.Envelope{data=domain.Page[domain.Video]}
// @Router       /videos [get]
func (h *VideoHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), ports.ListVideosInput{
		Search: c.QueryParam("query"),
		Owner:  c.QueryParam("userId"),
		SortBy: c.QueryParam("sortBy"),
		Desc:   c.QueryParam("sortType") != "asc",
		Page:   pageRequest(c),
	})
	if err != nil {
		return err
	}
	return response.OK(c, page, "Videos fetched successfully")
}

// Publish uploads and publishes a video as the acting user.
//
// @Summary      Publish a video
// @Tags         videos
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title        formData  string  true   "Title"
// @Param        description  formData  string  true   "Description"
// @Param        videoFile    formData  file    true   "Video file"
// @Param        thumbnail    formData  file    false  "Thumbnail image"
// @Success      201          {object}  response.Envelope{data=domain.Video}
// @Failure      400          {object}  response.Envelope
// @Failure      500          {object}  response.Envelope
// @Router       /videos [post]
func (h *VideoHandler) Publish(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req publishVideoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	videoFile, closeVideo, err := requireUpload(c, "videoFile")
	defer closeVideo()
	if err != nil {
		return err
	}
	thumbnail, closeThumb, err := formUpload(c, "thumbnail")
	defer closeThumb()
	if err != nil {
		return err
	}

	video, err := h.service.Publish(c.Request().Context(), actor, ports.PublishVideoInput{
		Title:       req.Title,
		Description: req.Description,
		VideoFile:   videoFile,
		Thumbnail:   thumbnail,
	})
	if err != nil {
		return err
	}
	return response.Created(c, video, "Video published successfully")
}

// Get returns a video and counts the view. Anonymous viewers are keyed by
// client IP.
//
// @Summary      Get a video
// @Tags         videos
// @Produce      json
// @Param        videoId  path      string  true  "Video ID"
// @Success      200      {object}  response.Envelope{data=domain.Video}
// @Failure      404      {object}  response.Envelope
// @Router       /videos/{videoId} [get]
func (h *VideoHandler) Get(c echo.Context) error {
	viewer := viewerFrom(c)
	viewerKey := c.RealIP()
	if viewer != nil {
		viewerKey = viewer.ID
	}

	video, err := h.service.Get(c.Request().Context(), c.Param("videoId"), viewer, viewerKey)
	if err != nil {
		return err
	}
	return response.OK(c, video, "Video fetched successfully")
}

// Update changes the details of a video owned by the acting user. Only the
// form fields that are present are applied.
//
// @Summary      Update a video
// @Tags         videos
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        videoId      path      string  true   "Video ID"
// @Param        title        formData  string  false  "Title"
// @Param        description  formData  string  false  "Description"
// @Param        thumbnail    formData  file    false  "Thumbnail image"
// @Success      200          {object}  response.Envelope{data=domain.Video}
// @Failure      400          {object}  response.Envelope
// @Failure      403          {object}  response.Envelope
// @Failure      404          {object}  response.Envelope
// @Router       /videos/{videoId} [patch]
func (h *VideoHandler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	thumbnail, closeThumb, err := formUpload(c, "thumbnail")
	defer closeThumb()
	if err != nil {
		return err
	}
	params, err := c.FormParams()
	if err != nil {
		params = url.Values{}
	}

	video, err := h.service.Update(c.Request().Context(), actor, c.Param("videoId"), ports.UpdateVideoInput{
		Title:       formValue(params, "title"),
		Description: formValue(params, "description"),
		Thumbnail:   thumbnail,
	})
	if err != nil {
		return err
	}
	return response.OK(c, video, "Video updated successfully")
}

// TogglePublish flips the published flag of a video owned by the acting user.
//
// @Summary      Toggle publish status
// @Tags         videos
// @Produce      json
// @Security     BearerAuth
// @Param        videoId  path      string  true  "Video ID"
// @Success      200      {object}  response.Envelope{data=domain.Video}
// @Failure      403      {object}  response.Envelope
// @Failure      404      {object}  response.Envelope
// @Router       /videos/toggle/publish/{videoId} [patch]
func (h *VideoHandler) TogglePublish(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	video, err := h.service.TogglePublish(c.Request().Context(), actor, c.Param("videoId"))
	if err != nil {
		return err
	}
	return response.OK(c, video, "Publish status toggled successfully")
}

// Delete removes a video owned by the acting user.
//
// @Summary      Delete a video
// @Tags         videos
// @Produce      json
// @Security     BearerAuth
// @Param        videoId  path      string  true  "Video ID"
// @Success      200      {object}  response.Envelope
// @Failure      403      {object}  response.Envelope
// @Failure      404      {object}  response.Envelope
// @Router       /videos/{videoId} [delete]
func (h *VideoHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("videoId")); err != nil {
		return err
	}
	return response.OK(c, struct{}{}, "Video deleted successfully")
}

// formValue returns a pointer to the value of key, or nil when the key is
// absent from the form.
func formValue(params url.Values, key string) *string {
	if !params.Has(key) {
		return nil
	}
	v := params.Get(key)
	return &v
}
