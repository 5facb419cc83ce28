// Package api provides the HTTP surface for vehicle capacity lookups.
package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stonebridge-motors/towguide/internal/cache"
	"github.com/stonebridge-motors/towguide/internal/observability"
	"github.com/stonebridge-motors/towguide/internal/resolve"
	"github.com/stonebridge-motors/towguide/internal/storage"
)

// VehicleSource fetches inventory rows by lookup key.
type VehicleSource interface {
	GetByVINOrStock(ctx context.Context, key string) (*storage.VehicleRecord, error)
}

// LookupService resolves a VIN or stock number to towing figures, caching
// results. Resolution is deterministic for a given guide document, so a
// cached entry stays valid until the document or inventory row changes.
type LookupService struct {
	repo     VehicleSource
	resolver *resolve.Resolver
	cache    cache.Client
	ttl      time.Duration
	logger   *observability.Logger
}

// NewLookupService wires a lookup service. The cache may be nil to disable
// caching.
func NewLookupService(repo VehicleSource, resolver *resolve.Resolver, c cache.Client, ttl time.Duration, logger *observability.Logger) *LookupService {
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	return &LookupService{repo: repo, resolver: resolver, cache: c, ttl: ttl, logger: logger}
}

// Lookup resolves one vehicle by VIN or stock number. Returns
// storage.ErrNotFound when no inventory row matches.
func (s *LookupService) Lookup(ctx context.Context, key string) (*resolve.TowResult, error) {
	cacheKey := cache.LookupCacheKey(key)

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached resolve.TowResult
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
			s.logger.Warn().Str("key", key).Msg("corrupt cache entry, resolving fresh")
		}
	}

	vehicle, err := s.repo.GetByVINOrStock(ctx, key)
	if err != nil {
		return nil, err
	}

	result := s.resolver.Resolve(vehicle)

	if s.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, cacheKey, data, s.ttl); err != nil {
				s.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
			}
		}
	}

	return result, nil
}
