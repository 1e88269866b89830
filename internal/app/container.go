package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/kapu/collabhub-go/internal/config"
	"github.com/kapu/collabhub-go/internal/dashboard"
	"github.com/kapu/collabhub-go/internal/domain"
	"github.com/kapu/collabhub-go/internal/server"
	"github.com/kapu/collabhub-go/internal/service/cache"
	"github.com/kapu/collabhub-go/internal/service/database"
	"github.com/kapu/collabhub-go/internal/session"
	"github.com/kapu/collabhub-go/internal/social"
	"github.com/kapu/collabhub-go/internal/steps"
	"github.com/kapu/collabhub-go/internal/store"
	"go.uber.org/zap"
)

// Container bundles the assembled services of a running server.
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Server   *server.Server
	Sessions *session.Manager

	closers []func()
}

// Build assembles all infrastructure services. Redis and Postgres are only
// dialled when a configured component needs them.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	health := make(map[string]server.HealthCheck)

	// Cache
	var cacheSvc *cache.CacheService
	if cfg.NeedsRedis() {
		cacheSvc, err = cache.NewCacheService(cache.CacheConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create cache service: %w", err)
		}
		closers = append(closers, func() {
			_ = cacheSvc.Close()
		})
		health["redis"] = func(ctx context.Context) error {
			if !cacheSvc.IsConnected(ctx) {
				return errors.New("redis ping failed")
			}
			return nil
		}
	}

	// Dashboards
	mock, err := dashboard.NewMock()
	if err != nil {
		return nil, fmt.Errorf("failed to load mock dashboards: %w", err)
	}
	var dashboards dashboard.Source = mock

	if cfg.Dashboard.Source == config.DashboardSourcePostgres {
		postgresSvc, pgErr := database.NewPostgresService(postgresConfig(cfg.Postgres), logger)
		if pgErr != nil {
			return nil, fmt.Errorf("failed to create postgres service: %w", pgErr)
		}
		closers = append(closers, func() {
			_ = postgresSvc.Close()
		})
		health["postgres"] = postgresSvc.Ping

		catalog := database.NewCatalogRepository(postgresSvc, logger)
		if err = catalog.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to prepare catalog schema: %w", err)
		}
		dashboards = dashboard.NewCatalogSource(dashboards, catalog)
	}
	if cfg.Dashboard.ReadStore {
		dashboards = dashboard.NewStoreOverlay(dashboards, logger)
	}
	logger.Info("Dashboard source ready",
		zap.String("source", cfg.Dashboard.Source),
		zap.Bool("read_store", cfg.Dashboard.ReadStore))

	// Social stats
	var statsCache social.StatsCache
	if cacheSvc != nil {
		statsCache = cacheSvc
	}
	socialSvc := social.NewService(statsCache, logger)

	if cfg.Social.YouTubeAPIKey != "" {
		yt, ytErr := social.NewYouTubeProvider(ctx, cfg.Social.YouTubeAPIKey, logger)
		if ytErr != nil {
			logger.Warn("Failed to initialize YouTube provider (optional feature)", zap.Error(ytErr))
		} else {
			socialSvc.Use(yt, domain.PlatformYouTube)
		}
	}
	if cfg.Social.EnableScraping {
		socialSvc.Use(social.NewProfileScraper(logger), domain.PlatformInstagram, domain.PlatformTwitter)
	}

	var youtubeOAuth *social.YouTubeOAuth
	if cfg.Social.OAuthEnabled() {
		youtubeOAuth, err = social.NewYouTubeOAuth(social.OAuthConfig{
			ClientID:        cfg.Social.YouTubeClientID,
			ClientSecret:    cfg.Social.YouTubeClientSecret,
			RedirectURL:     cfg.Social.YouTubeRedirectURL,
			CredentialsFile: cfg.Social.YouTubeCredentialsFile,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create YouTube OAuth client: %w", err)
		}
	}

	// Sessions
	var sessionCache *cache.CacheService
	if cfg.Store.Backend == config.StoreBackendRedis {
		sessionCache = cacheSvc
	}
	registry := steps.DefaultRegistry()
	sessions := session.NewManager(session.Config{
		TTL:               cfg.Session.TTL,
		SweepInterval:     cfg.Session.SweepInterval,
		VerificationDelay: cfg.Onboarding.VerificationDelay,
		StoreBackend:      cfg.Store.Backend,
		StoreTTL:          cfg.Store.TTL,
	}, registry, storeCache(sessionCache), logger)

	handler := server.NewRouter(server.Deps{
		Sessions:     sessions,
		Registry:     registry,
		Dashboards:   dashboards,
		Social:       socialSvc,
		YouTubeOAuth: youtubeOAuth,
		Health:       health,
		Logger:       logger,
	})

	srv := server.New(server.HTTPConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}, handler, logger)

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Server:   srv,
		Sessions: sessions,
		closers:  closers,
	}, nil
}

// storeCache keeps a nil *CacheService from becoming a non-nil interface.
func storeCache(c *cache.CacheService) store.Cache {
	if c == nil {
		return nil
	}
	return c
}

// Run starts the session sweeper and blocks serving HTTP.
func (c *Container) Run(ctx context.Context) error {
	c.Sessions.StartSweeper(ctx)
	return c.Server.Start()
}

// Shutdown stops the HTTP server, ends every session and releases the backing services.
func (c *Container) Shutdown(ctx context.Context) error {
	err := c.Server.Shutdown(ctx)
	c.Sessions.Close(ctx)
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
	return err
}

func postgresConfig(c config.PostgresConfig) database.PostgresConfig {
	return database.PostgresConfig{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Database: c.Database,
		SSLMode:  c.SSLMode,
	}
}
