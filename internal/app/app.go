// Package app assembles the scraping stack from configuration. It is shared by
// the HTTP service and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maltedev/zoom-price-scraper/internal/api"
	"github.com/maltedev/zoom-price-scraper/internal/browser"
	"github.com/maltedev/zoom-price-scraper/internal/cache"
	"github.com/maltedev/zoom-price-scraper/internal/config"
	"github.com/maltedev/zoom-price-scraper/internal/database"
	"github.com/maltedev/zoom-price-scraper/internal/events"
	"github.com/maltedev/zoom-price-scraper/internal/fetch"
	"github.com/maltedev/zoom-price-scraper/internal/scraper"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Dispatcher *scraper.Dispatcher
	Health     api.HealthDeps
	// Relay is nil unless events are enabled.
	Relay *database.Relay

	closers []func() error
	logger  *slog.Logger
}

// New connects every configured backend. On error, whatever was already
// opened is closed again.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (a *App, err error) {
	a = &App{logger: logger}
	defer func() {
		if err != nil {
			a.Close()
			a = nil
		}
	}()

	fetcher, err := a.newFetcher(cfg)
	if err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	if cfg.Cache.Backend == config.CacheBackendRedis || cfg.Events.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, redisClient.Close)

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("%w: failed to connect to redis at %s: %v", cache.ErrStoreUnavailable, cfg.Redis.Addr, err)
		}
	}

	var resolver cache.ResolverCache
	if cfg.Cache.Backend == config.CacheBackendRedis {
		redisCache := cache.NewRedisCache(redisClient, cfg.Redis.Prefix)
		resolver = redisCache
		a.Health.Cache = redisCache
	} else {
		resolver = cache.NewMemoryCache()
	}

	opts := scraper.Options{
		BaseURL:   cfg.Server.BaseURL,
		MaxPages:  cfg.Search.MaxPages,
		PageDelay: cfg.Search.PageDelay,
	}

	if cfg.Events.Enabled {
		db, err := database.New(ctx, database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Database: cfg.Database.Name,
			SSLMode:  cfg.Database.SSLMode,
			MaxConns: cfg.Database.MaxConns,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers = append(a.closers, func() error {
			db.Close()
			return nil
		})

		if err := db.EnsureSchema(ctx); err != nil {
			return nil, err
		}

		outbox := database.NewOutboxRepository(db)
		opts.Listener = events.NewPublisher(db, outbox, logger)
		a.Health.Outbox = outbox
		a.Relay = database.NewRelay(outbox, redisClient, logger, database.RelayConfig{
			PollInterval: cfg.Events.RelayPollInterval,
			BatchSize:    cfg.Events.RelayBatchSize,
		})
	}

	a.Dispatcher = scraper.NewDispatcher(fetcher, resolver, opts, logger)

	logger.Info("scraper stack ready",
		"fetch_mode", cfg.Fetch.Mode,
		"cache_backend", cfg.Cache.Backend,
		"events_enabled", cfg.Events.Enabled)

	return a, nil
}

func (a *App) newFetcher(cfg *config.Config) (fetch.PageFetcher, error) {
	if cfg.Fetch.Mode != config.FetchModeBrowser {
		return fetch.NewHTTPFetcher(cfg.Fetch.UserAgent, cfg.Fetch.Timeout, a.logger), nil
	}

	opts := browser.DefaultOptions()
	opts.Headless = cfg.Browser.Headless
	opts.Timeout = cfg.Fetch.Timeout
	opts.UserAgent = cfg.Fetch.UserAgent
	opts.Locale = cfg.Browser.Locale
	opts.TimezoneID = cfg.Browser.TimezoneID

	b, err := browser.New(opts, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}
	a.closers = append(a.closers, b.Close)
	return b, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
