package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/vidtube/vidtube-api/internal/api/response"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type updateAccountRequest struct {
	Fullname string `json:"fullname" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
}

// CurrentUser returns the acting user.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=domain.User}
// @Failure      401  {object}  response.Envelope
// @Router       /users/current-user [get]
func (h *AccountHandler) CurrentUser(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	return response.OK(c, actor, "Current user fetched successfully")
}

// ChangePassword replaces the password of the acting user.
//
// @Summary      Change password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      401   {object}  response.Envelope
// @Router       /users/change-password [post]
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.ChangePassword(c.Request().Context(), actor, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return response.OK(c, struct{}{}, "Password changed successfully")
}

// UpdateAccount changes the full name and email of the acting user.
//
// @Summary      Update account details
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateAccountRequest  true  "Account details"
// @Success      200   {object}  response.Envelope{data=domain.User}
// @Failure      400   {object}  response.Envelope
// @Failure      409   {object}  response.Envelope
// @Router       /users/update-account [patch]
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req updateAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.UpdateAccount(c.Request().Context(), actor, req.Fullname, req.Email)
	if err != nil {
		return err
	}
	return response.OK(c, user, "Account details updated successfully")
}

// UpdateAvatar replaces the avatar of the acting user.
//
// @Summary      Update avatar
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar  formData  file  true  "Avatar image"
// @Success      200     {object}  response.Envelope{data=domain.User}
// @Failure      400     {object}  response.Envelope
// @Failure      500     {object}  response.Envelope
// @Router       /users/avatar [patch]
func (h *AccountHandler) UpdateAvatar(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	file, closeFile, err := requireUpload(c, "avatar")
	defer closeFile()
	if err != nil {
		return err
	}

	user, err := h.service.UpdateAvatar(c.Request().Context(), actor, *file)
	if err != nil {
		return err
	}
	return response.OK(c, user, "Avatar image updated successfully")
}

// UpdateCoverImage replaces the cover image of the acting user.
//
// @Summary      Update cover image
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        coverImage  formData  file  true  "Cover image"
// @Success      200         {object}  response.Envelope{data=domain.User}
// @Failure      400         {object}  response.Envelope
// @Failure      500         {object}  response.Envelope
// @Router       /users/cover-image [patch]
func (h *AccountHandler) UpdateCoverImage(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	file, closeFile, err := requireUpload(c, "coverImage")
	defer closeFile()
	if err != nil {
		return err
	}

	user, err := h.service.UpdateCoverImage(c.Request().Context(), actor, *file)
	if err != nil {
		return err
	}
	return response.OK(c, user, "Cover image updated successfully")
}

// ChannelProfile returns the public channel page of a user.
//
// @Summary      Channel profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Channel username"
// @Success      200       {object}  response.Envelope{data=domain.ChannelProfile}
// @Failure      404       {object}  response.Envelope
// @Router       /users/c/{username} [get]
func (h *AccountHandler) ChannelProfile(c echo.Context) error {
	profile, err := h.service.ChannelProfile(c.Request().Context(), c.Param("username"), viewerFrom(c))
	if err != nil {
		return err
	}
	return response.OK(c, profile, "User channel fetched successfully")
}

// WatchHistory returns the videos the acting user watched, most recent first.
//
// @Summary      Watch history
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=[]domain.WatchedVideo}
// @Failure      401  {object}  response.Envelope
// @Router       /users/history [get]
func (h *AccountHandler) WatchHistory(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	history, err := h.service.WatchHistory(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return response.OK(c, history, "Watch history fetched successfully")
}
