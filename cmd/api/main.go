// Command api is the entry point of the vidtube HTTP API server.
//
// @title                       vidtube API
// @version                     1.0
// @description                 Video sharing backend: sessions, channels, videos, comments, tweets, playlists, likes and subscriptions.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/vidtube/vidtube-api/internal/api"
	"github.com/vidtube/vidtube-api/internal/api/handler"
	"github.com/vidtube/vidtube-api/internal/core/service"
	"github.com/vidtube/vidtube-api/internal/infrastructure/blob"
	mongostore "github.com/vidtube/vidtube-api/internal/infrastructure/db/mongo"
	redisstore "github.com/vidtube/vidtube-api/internal/infrastructure/db/redis"
	"github.com/vidtube/vidtube-api/internal/pkg/config"
	"github.com/vidtube/vidtube-api/pkg/logger"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 15 * time.Second
)

func main() {
	// ── 1. Configuration and logger ──────────────────────────────────────
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "vidtube-api",
	})
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("configuration loaded")

	startupCtx, startupCancel := context.WithTimeout(context.Background(), startupTimeout)
	defer startupCancel()

	// ── 2. MongoDB ───────────────────────────────────────────────────────
	mongoClient, db, err := mongostore.Connect(startupCtx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	must(log, err, "connect to mongodb")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect error")
		}
	}()

	users := mongostore.NewUserRepository(db)
	videos := mongostore.NewVideoRepository(db)
	comments := mongostore.NewCommentRepository(db)
	tweets := mongostore.NewTweetRepository(db)
	playlists := mongostore.NewPlaylistRepository(db)
	edges := mongostore.NewEdgeRepository(db)
	must(log, mongostore.EnsureIndexes(startupCtx, users, videos, comments, tweets, playlists, edges), "ensure indexes")

	// ── 3. Redis ─────────────────────────────────────────────────────────
	rdb, err := redisstore.Connect(startupCtx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
		Timeout:  cfg.Redis.Timeout,
	})
	must(log, err, "connect to redis")
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close error")
		}
	}()

	// ── 4. Blob store ────────────────────────────────────────────────────
	blobs, err := blob.NewLocalStore(cfg.Blob.Dir, cfg.Blob.BaseURL, log)
	must(log, err, "open blob store")

	// ── 5. Services ──────────────────────────────────────────────────────
	tokens := service.NewTokenCodec(
		cfg.Auth.AccessTokenSecret, cfg.Auth.RefreshTokenSecret,
		cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL,
	)
	credentials := service.NewCredentialVerifier(users, blobs, log)
	sessions := service.NewSessionManager(users, tokens, log)
	relations := service.NewRelationEngine(edges, log)
	views := redisstore.NewViewDeduper(rdb, cfg.Redis.ViewWindow)

	services := api.Services{
		Auth:          service.NewAuthService(credentials, sessions),
		Identity:      service.NewGuard(users, tokens),
		Account:       service.NewAccountService(users, blobs, credentials, log),
		Comments:      service.NewCommentService(comments, videos, relations, log),
		Tweets:        service.NewTweetService(tweets, relations, log),
		Playlists:     service.NewPlaylistService(playlists, videos, log),
		Videos:        service.NewVideoService(videos, users, blobs, views, relations, log),
		Likes:         service.NewLikeService(relations, users, videos, comments, tweets, log),
		Subscriptions: service.NewSubscriptionService(relations, users, log),
		Dashboard:     service.NewAggregator(users, videos, edges, log),
	}

	// ── 6. HTTP server ───────────────────────────────────────────────────
	router := api.NewRouter(services, api.Options{
		Cookies: handler.SessionCookies{
			Secure:     cfg.HTTP.CookieSecure,
			AccessTTL:  cfg.Auth.AccessTokenTTL,
			RefreshTTL: cfg.Auth.RefreshTokenTTL,
		},
		CORSOrigins:   cfg.HTTP.CORSOrigins,
		AuthRateLimit: cfg.Auth.RateLimit,
		UploadDir:     cfg.Blob.Dir,
		HealthChecks: map[string]handler.HealthCheck{
			"mongodb": func(ctx context.Context) error {
				return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
			},
			"redis": func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			},
		},
	}, log)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ── 7. Graceful shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-serverErr:
		log.Error().Err(err).Msg("http server error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
		return
	}
	log.Info().Msg("server stopped cleanly")
}

// must logs a fatal startup error and terminates the process if err is non-nil.
// It is only used during wiring.
func must(log zerolog.Logger, err error, step string) {
	if err != nil {
		log.Fatal().Err(err).Str("step", step).Msg("startup failure")
	}
}
