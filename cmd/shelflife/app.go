package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/macrolens/shelflife/config"
	"github.com/macrolens/shelflife/internal/domain"
	"github.com/macrolens/shelflife/internal/infrastructure/cache"
	"github.com/macrolens/shelflife/internal/infrastructure/foodkeeper"
	"github.com/macrolens/shelflife/internal/usecase"
)

// datasetSource picks the HTTP client when a URL is configured, the local file otherwise
func datasetSource(cfg *config.Config, log *zap.Logger) domain.DatasetSource {
	if cfg.Dataset.URL != "" {
		return foodkeeper.NewClient(cfg.Dataset.URL, cfg.RateLimit.Dataset, log)
	}
	return foodkeeper.FileSource{Path: cfg.Dataset.Path}
}

func loadDataset(ctx context.Context, cfg *config.Config, log *zap.Logger) ([]domain.FoodRecord, domain.DatasetSource, error) {
	source := datasetSource(cfg, log)
	records, err := foodkeeper.NewLoader(source, cfg.Dataset.ValidateSchema, log).Load(ctx)
	if err != nil {
		return nil, source, err
	}
	return records, source, nil
}

// newCache builds the configured term cache. An unreachable Redis degrades to
// the in-memory cache; the returned func releases the connection.
func newCache(ctx context.Context, cfg *config.Config, log *zap.Logger) (domain.CacheRepository, func()) {
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err == nil {
			log.Info("using redis cache", zap.Duration("ttl", cfg.Cache.TTL))
			return redisCache, func() {
				if err := redisCache.Close(); err != nil {
					log.Warn("failed to close redis cache", zap.Error(err))
				}
			}
		}
		log.Warn("redis unavailable, falling back to memory cache", zap.Error(err))
	}

	log.Debug("using memory cache", zap.Duration("ttl", cfg.Cache.TTL))
	return cache.NewMemoryCache(), func() {}
}

func newShelfLifeService(ctx context.Context, cfg *config.Config, records []domain.FoodRecord, log *zap.Logger) (*usecase.ShelfLifeService, func()) {
	termCache, closeCache := newCache(ctx, cfg, log)
	index := usecase.BuildSearchIndex(records)
	log.Debug("search index built",
		zap.Int("records", index.Len()),
		zap.String("fingerprint", index.Fingerprint()))

	service := usecase.NewShelfLifeService(
		usecase.NewMatcher(index),
		termCache,
		usecase.ShelfLifeServiceConfig{CacheTTL: cfg.Cache.TTL},
		log,
	)
	return service, closeCache
}
