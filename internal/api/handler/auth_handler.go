package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vidtube/vidtube-api/internal/api/metrics"
	"github.com/vidtube/vidtube-api/internal/api/middleware"
	"github.com/vidtube/vidtube-api/internal/api/response"
	"github.com/vidtube/vidtube-api/internal/core/domain"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

const (
	accessCookie  = middleware.AccessCookie
	refreshCookie = "refreshToken"
)

// SessionCookies controls the cookies that carry the session tokens.
type SessionCookies struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AuthHandler struct {
	authService ports.AuthService
	cookies     SessionCookies
}

func NewAuthHandler(authService ports.AuthService, cookies SessionCookies) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

type registerRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	Fullname string `json:"fullname" form:"fullname" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type sessionResponse struct {
	User         *domain.User `json:"user,omitempty"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        username    formData  string  true   "Username"
// @Param        email       formData  string  true   "Email"
// @Param        password    formData  string  true   "Password"
// @Param        fullname    formData  string  true   "Full name"
// @Param        avatar      formData  file    true   "Avatar image"
// @Param        coverImage  formData  file    false  "Cover image"
// @Success      201         {object}  response.Envelope{data=domain.User}
// @Failure      400         {object}  response.Envelope
// @Failure      409         {object}  response.Envelope
// @Failure      500         {object}  response.Envelope
// @Router       /users/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	avatar, closeAvatar, err := requireUpload(c, "avatar")
	defer closeAvatar()
	if err != nil {
		return err
	}
	cover, closeCover, err := formUpload(c, "coverImage")
	defer closeCover()
	if err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		Fullname:   req.Fullname,
		Avatar:     avatar,
		CoverImage: cover,
	})
	metrics.AuthEventsTotal.WithLabelValues("register", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	return response.Created(c, user, "User registered successfully")
}

// Login authenticates a user by username or email and opens a session.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  response.Envelope{data=sessionResponse}
// @Failure      400   {object}  response.Envelope
// @Failure      401   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Router       /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	login := req.Username
	if login == "" {
		login = req.Email
	}

	user, pair, err := h.authService.Login(c.Request().Context(), login, req.Password)
	metrics.AuthEventsTotal.WithLabelValues("login", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	h.setSessionCookies(c, pair)
	return response.OK(c, sessionResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "User logged in successfully")
}

// Logout ends the session of the acting user.
//
// @Summary      Logout
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope
// @Failure      401  {object}  response.Envelope
// @Router       /users/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	err = h.authService.Logout(c.Request().Context(), actor.ID)
	metrics.AuthEventsTotal.WithLabelValues("logout", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	h.clearSessionCookies(c)
	return response.OK(c, struct{}{}, "User logged out")
}

// Refresh rotates the session. The refresh token is read from the cookie or,
// failing that, from the JSON body.
//
// @Summary      Refresh the access token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  false  "Refresh token when no cookie is sent"
// @Success      200   {object}  response.Envelope{data=sessionResponse}
// @Failure      401   {object}  response.Envelope
// @Router       /users/refresh-token [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	token := ""
	if ck, err := c.Cookie(refreshCookie); err == nil {
		token = ck.Value
	}
	if token == "" {
		var req refreshRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		token = req.RefreshToken
	}

	pair, err := h.authService.Refresh(c.Request().Context(), token)
	metrics.AuthEventsTotal.WithLabelValues("refresh", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	h.setSessionCookies(c, pair)
	return response.OK(c, sessionResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "Access token refreshed")
}

func (h *AuthHandler) setSessionCookies(c echo.Context, pair *domain.SessionPair) {
	c.SetCookie(h.cookie(accessCookie, pair.AccessToken, h.cookies.AccessTTL))
	c.SetCookie(h.cookie(refreshCookie, pair.RefreshToken, h.cookies.RefreshTTL))
}

func (h *AuthHandler) clearSessionCookies(c echo.Context) {
	for _, name := range []string{accessCookie, refreshCookie} {
		ck := h.cookie(name, "", 0)
		ck.MaxAge = -1
		c.SetCookie(ck)
	}
}

func (h *AuthHandler) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
