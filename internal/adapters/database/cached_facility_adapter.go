package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/providers"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/observability"
)

// CachedFacilityAdapter wraps FacilityAdapter with caching
type CachedFacilityAdapter struct {
	adapter repositories.FacilityRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedFacilityAdapter creates a new cached facility adapter. metrics may be nil.
func NewCachedFacilityAdapter(adapter repositories.FacilityRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.FacilityRepository {
	return &CachedFacilityAdapter{
		adapter: adapter,
		cache:   cache,
		metrics: metrics,
	}
}

// Cache TTLs (in seconds)
const (
	facilityByIDTTL   = 300
	facilitiesListTTL = 180
)

const facilitiesListPattern = "facilities:list:*"

// FacilityCacheKey is the cache key of a single facility
func FacilityCacheKey(id int64) string {
	return fmt.Sprintf("facility:%d", id)
}

func facilitiesListCacheKey(filter repositories.FacilityFilter) string {
	return fmt.Sprintf("facilities:list:%s:%d:%d", filter.Type, filter.Limit, filter.Offset)
}

// GetByID retrieves a facility by ID with caching
func (a *CachedFacilityAdapter) GetByID(ctx context.Context, id int64) (*entities.Facility, error) {
	cacheKey := FacilityCacheKey(id)

	var facility entities.Facility
	if a.readCache(ctx, cacheKey, &facility) {
		return &facility, nil
	}

	fetched, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.writeCache(ctx, cacheKey, fetched, facilityByIDTTL)
	return fetched, nil
}

// GetByIDs goes straight to the database; callers batch through a dataloader
func (a *CachedFacilityAdapter) GetByIDs(ctx context.Context, ids []int64) ([]*entities.Facility, error) {
	return a.adapter.GetByIDs(ctx, ids)
}

// List retrieves a list of facilities with caching
func (a *CachedFacilityAdapter) List(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	cacheKey := facilitiesListCacheKey(filter)

	var facilities []*entities.Facility
	if a.readCache(ctx, cacheKey, &facilities) {
		return facilities, nil
	}

	facilities, err := a.adapter.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	a.writeCache(ctx, cacheKey, facilities, facilitiesListTTL)
	return facilities, nil
}

// Count is not cached
func (a *CachedFacilityAdapter) Count(ctx context.Context) (int64, error) {
	return a.adapter.Count(ctx)
}

// Create creates a facility and invalidates list caches
func (a *CachedFacilityAdapter) Create(ctx context.Context, facility *entities.Facility) error {
	if err := a.adapter.Create(ctx, facility); err != nil {
		return err
	}

	a.invalidate(ctx, 0)
	return nil
}

// Update updates a facility and invalidates its cache
func (a *CachedFacilityAdapter) Update(ctx context.Context, facility *entities.Facility) error {
	if err := a.adapter.Update(ctx, facility); err != nil {
		return err
	}

	a.invalidate(ctx, facility.ID)
	return nil
}

// Delete deletes a facility and invalidates its cache
func (a *CachedFacilityAdapter) Delete(ctx context.Context, id int64) error {
	if err := a.adapter.Delete(ctx, id); err != nil {
		return err
	}

	a.invalidate(ctx, id)
	return nil
}

func (a *CachedFacilityAdapter) readCache(ctx context.Context, key string, dest interface{}) bool {
	cached, err := a.cache.Get(ctx, key)
	if err != nil {
		observability.RecordCacheMiss(ctx, a.metrics, key)
		return false
	}

	if err := json.Unmarshal(cached, dest); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("Failed to unmarshal cached facility data")
		return false
	}

	observability.RecordCacheHit(ctx, a.metrics, key)
	return true
}

func (a *CachedFacilityAdapter) writeCache(ctx context.Context, key string, value interface{}, ttl int) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := a.cache.Set(ctx, key, data, ttl); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("Failed to cache facility data")
	}
}

// invalidate drops the facility entry (when id is set) and every cached list
func (a *CachedFacilityAdapter) invalidate(ctx context.Context, id int64) {
	logger := observability.LoggerFromContext(ctx)

	if id != 0 {
		if err := a.cache.Delete(ctx, FacilityCacheKey(id)); err != nil {
			logger.Warn().Err(err).Int64("facility_id", id).Msg("Failed to invalidate facility cache")
		}
	}
	if err := a.cache.DeletePattern(ctx, facilitiesListPattern); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate facilities list cache")
	}
}
