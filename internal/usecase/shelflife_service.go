package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/macrolens/shelflife/internal/domain"
)

// ShelfLifeServiceConfig holds configuration for the shelf-life service
type ShelfLifeServiceConfig struct {
	CacheTTL time.Duration
}

// ShelfLifeService resolves items against the FoodKeeper index,
// caching the outcome of every term it has tried (misses included).
type ShelfLifeService struct {
	matcher  *Matcher
	cache    domain.CacheRepository
	cacheTTL time.Duration
	logger   *zap.Logger
}

// cachedTerm is the serialized cache entry for one normalized term
type cachedTerm struct {
	Found    bool             `json:"found"`
	Position int              `json:"position"`
	Type     domain.MatchType `json:"type"`
}

// NewShelfLifeService creates a service; cache may be nil to disable caching
func NewShelfLifeService(
	matcher *Matcher,
	cache domain.CacheRepository,
	config ShelfLifeServiceConfig,
	logger *zap.Logger,
) *ShelfLifeService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ShelfLifeService{
		matcher:  matcher,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// RecordCount returns the number of indexed records
func (s *ShelfLifeService) RecordCount() int {
	return s.matcher.Index().Len()
}

// Lookup resolves primary and then each variant in order.
// An unmatched query is reported as domain.NoMatch, not as an error;
// the only error is context cancellation.
func (s *ShelfLifeService) Lookup(ctx context.Context, primary string, variants ...string) (domain.Match, error) {
	match, err := s.matcher.matchTerms(primary, variants, func(term string) (domain.Match, error) {
		if err := ctx.Err(); err != nil {
			return domain.NoMatch, err
		}
		return s.lookupTerm(ctx, term), nil
	})
	if err != nil {
		return domain.NoMatch, err
	}

	if match.Found() {
		s.logger.Debug("term matched",
			zap.String("query", primary),
			zap.String("term", match.Term),
			zap.String("match_type", string(match.Type)),
			zap.String("record", match.Record.Name))
		return match, nil
	}

	s.logger.Debug("no match", zap.String("query", primary), zap.Strings("variants", variants))
	return domain.NoMatch, nil
}

// lookupTerm checks the cache before running the matcher for one term
func (s *ShelfLifeService) lookupTerm(ctx context.Context, term string) domain.Match {
	normalized := normalizeTerm(term)
	if normalized == "" {
		return domain.NoMatch
	}
	key := s.cacheKey(normalized)

	if entry, ok := s.getFromCache(ctx, key); ok {
		if !entry.Found {
			return domain.NoMatch
		}
		if match := s.matcher.matchAt(entry.Position, entry.Type, normalized); match.Found() {
			return match
		}
		s.dropFromCache(ctx, key)
	}

	pos, matchType, found := s.matcher.resolve(normalized)
	s.setInCache(ctx, key, cachedTerm{Found: found, Position: pos, Type: matchType})

	if !found {
		return domain.NoMatch
	}
	return s.matcher.matchAt(pos, matchType, normalized)
}

// cacheKey scopes entries to the indexed content so a shared cache never
// serves positions from another dataset.
// Format: "shelflife:{fingerprint}:term:{normalized_term}"
func (s *ShelfLifeService) cacheKey(normalized string) string {
	return fmt.Sprintf("shelflife:%s:term:%s", s.matcher.Index().Fingerprint(), normalized)
}

func (s *ShelfLifeService) getFromCache(ctx context.Context, key string) (cachedTerm, bool) {
	var entry cachedTerm
	if s.cache == nil {
		return entry, false
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return entry, false
	}

	if err := json.Unmarshal(data, &entry); err != nil {
		s.logger.Warn("discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		s.dropFromCache(ctx, key)
		return entry, false
	}
	return entry, true
}

// dropFromCache removes an entry that no longer fits the index
func (s *ShelfLifeService) dropFromCache(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *ShelfLifeService) setInCache(ctx context.Context, key string, entry cachedTerm) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(entry)
	if err != nil {
		s.logger.Warn("cache entry encoding failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
