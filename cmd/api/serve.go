package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/brandflow/brandflow/internal/ai"
	"github.com/brandflow/brandflow/internal/auth"
	"github.com/brandflow/brandflow/internal/cache"
	"github.com/brandflow/brandflow/internal/config"
	"github.com/brandflow/brandflow/internal/handler"
	"github.com/brandflow/brandflow/internal/metrics"
	"github.com/brandflow/brandflow/internal/middleware"
	"github.com/brandflow/brandflow/internal/repository"
	"github.com/brandflow/brandflow/internal/server"
	"github.com/brandflow/brandflow/internal/service"
	"github.com/brandflow/brandflow/internal/storage"
	"github.com/brandflow/brandflow/internal/upstream"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := initLogger(cfg.LogLevel, cfg.LogFormat)

	if cfg.MigrateOnStart {
		if err := repository.MigrateUp(ctx, cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migrate on start: %s", sanitizeError(err, cfg.DatabaseURL))
		}
		logger.Info("database migrations applied")
	}

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL, repository.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return errors.New("connect database")
	}
	logger.Info("connected to database")

	// Initialize metrics
	var (
		recorder metrics.Recorder = metrics.NewNoop()
		exporter http.Handler
	)
	if cfg.MetricsEnabled {
		prom := metrics.NewPrometheus()
		recorder = prom
		exporter = prom.Handler()
	}

	// Initialize cache. Redis is optional: without it identities are not
	// cached and rate limiting falls back to process memory.
	var (
		identityCache service.IdentityCache
		cacheHealth   handler.HealthChecker
		aiLimiter     middleware.Limiter = middleware.NewLocalLimiter(cfg.RateLimitAIPerMinute, cfg.RateLimitAIBurst)
		cacheClient   *cache.Cache
	)
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			repo.Close()
			return errors.New("connect redis")
		}
		identityCache = cacheClient
		cacheHealth = cacheClient
		aiLimiter = middleware.NewRedisLimiter(cacheClient, cfg.RateLimitAIPerMinute, cfg.RateLimitAIBurst)
		logger.Info("connected to Redis")
	} else {
		logger.Info("REDIS_URL not set, running without cache")
	}

	// Initialize third-party clients
	httpClient := upstream.NewHTTPClient(cfg.UpstreamTimeout)
	chatClient := ai.NewChatClient(ai.ChatConfig{
		BaseURL:        cfg.ChatAPIURL,
		APIKey:         cfg.ChatAPIKey,
		Model:          cfg.ChatModel,
		AppTitle:       cfg.ChatAppTitle,
		DefaultReferer: cfg.ChatDefaultReferer,
	}, httpClient, recorder)
	imageClient := ai.NewImageClient(ai.ImageConfig{
		BaseURL:  cfg.ImageAPIURL,
		APIKey:   cfg.ImageAPIKey,
		Model:    cfg.ImageModel,
		Quality:  cfg.ImageQuality,
		MaxBytes: cfg.MaxGeneratedImageBytes,
	}, httpClient, recorder)
	uploader, err := storage.New(ctx, storage.Config{
		Provider:            cfg.AssetProvider,
		Folder:              cfg.AssetFolder,
		CloudinaryCloudName: cfg.CloudinaryCloudName,
		CloudinaryAPIKey:    cfg.CloudinaryAPIKey,
		CloudinaryAPISecret: cfg.CloudinaryAPISecret,
		S3Bucket:            cfg.S3Bucket,
		S3Region:            cfg.S3Region,
		S3Endpoint:          cfg.S3Endpoint,
		S3AccessKey:         cfg.S3AccessKey,
		S3SecretKey:         cfg.S3SecretKey,
		S3PublicBaseURL:     cfg.S3PublicBaseURL,
		MaxSourceBytes:      cfg.MaxGeneratedImageBytes,
	}, httpClient, logger)
	if err != nil {
		closeAll(repo, cacheClient)
		return fmt.Errorf("init asset storage: %w", err)
	}

	// Initialize services
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	accounts := service.NewAccountService(repo, tokens, identityCache, recorder, logger)
	businesses := service.NewBusinessService(repo, recorder)
	media := service.NewMediaService(repo, repo, uploader, recorder)
	plans := service.NewPlanService(repo, repo, recorder)
	chat := service.NewChatService(chatClient, repo, repo, recorder)
	logos := service.NewLogoService(imageClient, uploader, repo, repo, recorder, logger)

	// Initialize handlers
	handlers := server.Handlers{
		Root:       handler.New(),
		Health:     handler.NewHealthHandler(repo, cacheHealth),
		Accounts:   handler.NewAccountHandler(accounts, logger),
		Businesses: handler.NewBusinessHandler(businesses, logger),
		Media:      handler.NewMediaHandler(media, logger),
		Plans:      handler.NewPlanHandler(plans, logger),
		Chat:       handler.NewChatHandler(chat, logger),
		Logos:      handler.NewLogoHandler(logos, logger),
	}
	if exporter != nil {
		handlers.Metrics = handler.NewMetricsHandler(exporter)
	}

	corsCfg := middleware.DefaultCORSConfig()
	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg.AllowedOrigins = origins
	}

	router := server.NewRouter(handlers, server.RouterConfig{
		Logger:           logger,
		Authenticator:    accounts,
		Recorder:         recorder,
		AILimiter:        aiLimiter,
		RateLimitEnabled: cfg.RateLimitAIEnabled,
		CORS:             corsCfg,
		IsDevelopment:    cfg.IsDevelopment(),
		MaxBodySize:      cfg.MaxRequestBodySize,

		TrustProxyHeaders: cfg.TrustProxyHeaders,
	})

	// Create and run server
	srv := server.New(router, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("database", func(context.Context) error {
		repo.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"asset_provider", cfg.AssetProvider,
		"metrics", cfg.MetricsEnabled,
	)

	return srv.Run(ctx)
}

func closeAll(repo *repository.Repository, cacheClient *cache.Cache) {
	repo.Close()
	if cacheClient != nil {
		_ = cacheClient.Close()
	}
}
