package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"url-shortener/internal/cache"
	"url-shortener/internal/entities"
	"url-shortener/internal/repository"
	"url-shortener/pkg/logger"
)

// cachedLink is the cache representation of a link. It has no hit count, only
// the repository holds the current value.
type cachedLink struct {
	ID        int64      `json:"id"`
	Code      string     `json:"code"`
	TargetURL string     `json:"target_url"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func linkCacheKey(code string) string {
	return fmt.Sprintf("link:%s", code)
}

// lookup finds a link by code, trying the cache before the repository.
// Cache failures are logged and never fail the lookup.
func (s *linkService) lookup(ctx context.Context, code string) (*entities.Link, error) {
	if s.cache != nil {
		var cached cachedLink
		err := s.cache.GetJSON(ctx, linkCacheKey(code), &cached)
		if err == nil {
			return &entities.Link{
				ID:        cached.ID,
				Code:      cached.Code,
				TargetURL: cached.TargetURL,
				CreatedAt: cached.CreatedAt,
				ExpiresAt: cached.ExpiresAt,
			}, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Warn().Err(err).Str("code", code).Msg("link cache read failed")
		}
	}

	link, err := s.repo.FindByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find link: %w", err)
	}

	if s.cache != nil {
		// Links never change apart from the hit count, so entries need no invalidation
		entry := cachedLink{
			ID:        link.ID,
			Code:      link.Code,
			TargetURL: link.TargetURL,
			CreatedAt: link.CreatedAt,
			ExpiresAt: link.ExpiresAt,
		}
		if err := s.cache.SetJSON(ctx, linkCacheKey(code), entry, s.cacheTTL); err != nil {
			logger.Warn().Err(err).Str("code", code).Msg("link cache write failed")
		}
	}

	return link, nil
}
