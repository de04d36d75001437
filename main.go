package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"url-shortener/internal/cache"
	"url-shortener/internal/config"
	"url-shortener/internal/controllers"
	"url-shortener/internal/database"
	"url-shortener/internal/middleware"
	"url-shortener/internal/repository"
	"url-shortener/internal/routes"
	"url-shortener/internal/service"
	"url-shortener/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Env)

	if !cfg.EnvFileLoaded {
		logger.Info().Msg("No .env file found, using environment variables or defaults")
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Storage: Postgres when configured, otherwise an in-memory store
	var (
		db       *sql.DB
		linkRepo repository.LinkRepository
		dbPinger controllers.Pinger
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.NewConnection(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()
		logger.Info().Msg("Connected to database")

		if err := database.RunMigrations(db); err != nil {
			logger.Fatal().Err(err).Msg("Failed to run migrations")
		}
		logger.Info().Msg("Database migrations completed")

		linkRepo = repository.NewPostgresLinkRepository(db, cfg.DBQueryTimeout)
		dbPinger = db
	} else {
		logger.Warn().Msg("DATABASE_URL not set, links are kept in memory and lost on restart")
		linkRepo = repository.NewMemoryLinkRepository()
	}

	// Redis cache is optional - continue without it if unavailable
	var cacheClient cache.Cache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Redis, continuing without cache")
		} else {
			cacheClient = redisCache
			defer redisCache.Close()
			logger.Info().Msg("Connected to Redis cache")
		}
	}

	linkService := service.NewLinkService(linkRepo, cacheClient,
		service.WithCodeLength(cfg.CodeLength),
		service.WithCacheTTL(cfg.CacheTTL),
	)

	handlers := routes.Handlers{
		Shortener: controllers.NewShortenerController(linkService, cfg.BaseURL),
		QRCode:    controllers.NewQRCodeController(linkService, cfg.BaseURL),
		Health:    controllers.NewHealthController(dbPinger, cacheClient),
	}
	if cfg.EnableMetrics {
		handlers.Metrics = middleware.NewMetrics(prometheus.DefaultRegisterer, "url_shortener")
		handlers.MetricsHandler = promhttp.Handler()
	}
	router := routes.NewRouter(handlers)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}
