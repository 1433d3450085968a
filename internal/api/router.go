package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/vidtube/vidtube-api/docs"
	"github.com/vidtube/vidtube-api/internal/api/handler"
	"github.com/vidtube/vidtube-api/internal/api/middleware"
	"github.com/vidtube/vidtube-api/internal/api/response"
	"github.com/vidtube/vidtube-api/internal/core/ports"
)

const metricsSubsystem = "vidtube"

// Services are the application services the router exposes.
type Services struct {
	Auth          ports.AuthService
	Identity      ports.IdentityResolver
	Account       ports.AccountService
	Comments      ports.CommentService
	Tweets        ports.TweetService
	Playlists     ports.PlaylistService
	Videos        ports.VideoService
	Likes         ports.LikeService
	Subscriptions ports.SubscriptionService
	Dashboard     ports.DashboardService
}

// Options tune the HTTP surface.
type Options struct {
	Cookies     handler.SessionCookies
	CORSOrigins []string
	// AuthRateLimit is the per-client requests/second on register, login and
	// refresh. Zero disables the limiter.
	AuthRateLimit float64
	// UploadDir is served under /uploads when set.
	UploadDir    string
	HealthChecks map[string]handler.HealthCheck
	// Registerer receives the HTTP metrics. Defaults to the global registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = response.NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     opts.CORSOrigins,
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  metricsSubsystem,
		Registerer: opts.Registerer,
	}))

	// --- Dependencies ---
	auth := middleware.Authenticate(svc.Identity)
	optionalAuth := middleware.OptionalAuth(svc.Identity)
	limit := authLimiter(opts.AuthRateLimit)

	authHandler := handler.NewAuthHandler(svc.Auth, opts.Cookies)
	accountHandler := handler.NewAccountHandler(svc.Account)
	commentHandler := handler.NewCommentHandler(svc.Comments)
	tweetHandler := handler.NewTweetHandler(svc.Tweets)
	playlistHandler := handler.NewPlaylistHandler(svc.Playlists)
	videoHandler := handler.NewVideoHandler(svc.Videos)
	likeHandler := handler.NewLikeHandler(svc.Likes)
	subscriptionHandler := handler.NewSubscriptionHandler(svc.Subscriptions)
	dashboardHandler := handler.NewDashboardHandler(svc.Dashboard)
	healthHandler := handler.NewHealthHandler(opts.HealthChecks)

	v1 := e.Group("/api/v1")

	// --- Users ---
	users := v1.Group("/users")
	users.POST("/register", authHandler.Register, limit)
	users.POST("/login", authHandler.Login, limit)
	users.POST("/refresh-token", authHandler.Refresh, limit)
	users.POST("/logout", authHandler.Logout, auth)
	users.POST("/change-password", accountHandler.ChangePassword, auth)
	users.GET("/current-user", accountHandler.CurrentUser, auth)
	users.PATCH("/update-account", accountHandler.UpdateAccount, auth)
	users.PATCH("/avatar", accountHandler.UpdateAvatar, auth)
	users.PATCH("/cover-image", accountHandler.UpdateCoverImage, auth)
	users.GET("/c/:username", accountHandler.ChannelProfile, auth)
	users.GET("/history", accountHandler.WatchHistory, auth)

	// --- Comments ---
	comments := v1.Group("/comments")
	comments.GET("/:videoId", commentHandler.List)
	comments.POST("/:videoId", commentHandler.Add, auth)
	comments.GET("/c/:commentId", commentHandler.Get)
	comments.PATCH("/c/:commentId", commentHandler.Update, auth)
	comments.DELETE("/c/:commentId", commentHandler.Delete, auth)

	// --- Tweets ---
	tweets := v1.Group("/tweets", auth)
	tweets.POST("", tweetHandler.Create)
	tweets.GET("/user/:userId", tweetHandler.ListByUser, middleware.SelfOnly("userId"))
	tweets.PATCH("/:tweetId", tweetHandler.Update)
	tweets.DELETE("/:tweetId", tweetHandler.Delete)

	// --- Playlists ---
	playlists := v1.Group("/playlist", auth)
	playlists.POST("", playlistHandler.Create)
	playlists.GET("/:playlistId", playlistHandler.Get)
	playlists.PATCH("/:playlistId", playlistHandler.Update)
	playlists.DELETE("/:playlistId", playlistHandler.Delete)
	playlists.PATCH("/add/:videoId/:playlistId", playlistHandler.AddVideo)
	playlists.PATCH("/remove/:videoId/:playlistId", playlistHandler.RemoveVideo)
	playlists.GET("/user/:userId", playlistHandler.ListByUser)

	// --- Videos ---
	videos := v1.Group("/videos")
	videos.GET("", videoHandler.List)
	videos.POST("", videoHandler.Publish, auth)
	videos.GET("/:videoId", videoHandler.Get, optionalAuth)
	videos.PATCH("/:videoId", videoHandler.Update, auth)
	videos.DELETE("/:videoId", videoHandler.Delete, auth)
	videos.PATCH("/toggle/publish/:videoId", videoHandler.TogglePublish, auth)

	// --- Likes ---
	likes := v1.Group("/likes", auth)
	likes.POST("/toggle/v/:videoId", likeHandler.ToggleVideoLike)
	likes.POST("/toggle/c/:commentId", likeHandler.ToggleCommentLike)
	likes.POST("/toggle/t/:tweetId", likeHandler.ToggleTweetLike)
	likes.GET("/videos", likeHandler.LikedVideos)
	likes.GET("/v/:videoId", likeHandler.VideoLikers)

	// --- Subscriptions ---
	subscriptions := v1.Group("/subscriptions", auth)
	subscriptions.POST("/c/:channelId", subscriptionHandler.Toggle)
	subscriptions.GET("/c/:channelId", subscriptionHandler.Subscribers)
	subscriptions.GET("/u/:subscriberId", subscriptionHandler.SubscribedChannels)

	// --- Dashboard ---
	dashboard := v1.Group("/dashboard", auth)
	dashboard.GET("/stats", dashboardHandler.Stats)
	dashboard.GET("/videos", dashboardHandler.Videos)

	v1.GET("/healthcheck", healthHandler.Healthcheck)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if opts.UploadDir != "" {
		e.Static("/uploads", opts.UploadDir)
	}

	return e
}

// authLimiter throttles the unauthenticated session endpoints per client IP.
func authLimiter(perSecond float64) echo.MiddlewareFunc {
	if perSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStore(rate.Limit(perSecond)),
	})
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil {
				event = log.Warn().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
