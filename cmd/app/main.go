package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kgothalangLekitlane/Learn/internal/engine"
	"github.com/kgothalangLekitlane/Learn/internal/identity"
	"github.com/kgothalangLekitlane/Learn/internal/profile"
	"github.com/kgothalangLekitlane/Learn/internal/store"
	"github.com/kgothalangLekitlane/Learn/pkg/cache"
	"github.com/kgothalangLekitlane/Learn/pkg/config"
	"github.com/kgothalangLekitlane/Learn/pkg/database"
	"github.com/kgothalangLekitlane/Learn/pkg/health"
	"github.com/kgothalangLekitlane/Learn/pkg/logger"
	"github.com/kgothalangLekitlane/Learn/pkg/media"
	"github.com/kgothalangLekitlane/Learn/pkg/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(ctx, cfg.Database, appLogger)
	if err != nil {
		appLogger.Error("database connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := database.Close(db, appLogger); err != nil {
			appLogger.Error("database close failed", slog.String("error", err.Error()))
		}
	}()

	// Role fallback cache: Redis when configured, in-memory otherwise.
	var cacheClient cache.Client
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		cacheClient = redisClient
		appLogger.Info("role cache backed by redis", slog.String("addr", cfg.Redis.Addr))
	} else {
		cacheClient = cache.NewMemoryClient()
		appLogger.Info("role cache running in-memory (no redis configured)")
	}
	defer cacheClient.Close()

	var mediaService media.Service
	if cfg.Media.StorageZone != "" {
		mediaService = media.NewBunnyStorage(
			cfg.Media.StorageZone,
			cfg.Media.APIKey,
			cfg.Media.BaseURL,
			cfg.Media.CDNURL,
		)
	}

	remote := store.NewPostgres(db)
	provisioner := profile.NewProvisioner(remote, profile.NewCacheRoleStore(cacheClient), appLogger)
	syncEngine := engine.New(remote, provisioner, mediaService, appLogger)

	provider, err := identityProvider(ctx, cfg)
	if err != nil {
		appLogger.Error("identity provider setup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if provider != nil {
		id, err := provider.Identity(ctx)
		if err != nil {
			appLogger.Error("identity resolution failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		if err := syncEngine.SignIn(ctx, id); err != nil {
			appLogger.Error("session sign-in failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		prof, _ := syncEngine.Profile()
		appLogger.Info("session ready",
			slog.String("profile_id", prof.ID.String()),
			slog.String("role", string(prof.Role)),
			slog.Int("videos", len(syncEngine.Videos())),
		)
	} else {
		appLogger.Warn("no session identity configured, engine idle until sign-in")
	}

	router := gin.New()
	router.Use(gin.Recovery())

	healthHandler := health.NewHandler(db, cacheClient, appLogger)
	router.GET("/healthz", healthHandler.Health)
	router.GET("/readyz", healthHandler.Ready)
	router.GET("/version", healthHandler.VersionInfo)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	srv := &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		appLogger.Info("ops server starting",
			slog.String("addr", cfg.ServerAddress()),
			slog.String("env", cfg.Env),
			slog.String("log_level", cfg.LogLevel),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("ops server listen failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	syncEngine.SignOut()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("ops server shutdown failed", slog.String("error", err.Error()))
	} else {
		appLogger.Info("ops server stopped gracefully")
	}
}

// identityProvider picks the configured identity source: a signed session
// token when present, Google userinfo as the alternative, nil when the
// process starts without a session.
func identityProvider(ctx context.Context, cfg *config.Config) (identity.Provider, error) {
	switch {
	case cfg.Identity.SessionToken != "":
		return identity.NewTokenProvider(cfg.Identity.JWTSecret, cfg.Identity.SessionToken), nil
	case cfg.Identity.GoogleAccessToken != "":
		return identity.NewGoogleProvider(ctx, cfg.Identity.GoogleAccessToken)
	default:
		return nil, nil
	}
}
