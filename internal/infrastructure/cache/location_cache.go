package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/warehub/backend/internal/domain/location"
	"github.com/warehub/backend/internal/domain/shared"
)

// DefaultLocationCacheTTL bounds staleness for cached location reads.
// Location records change rarely compared to how often pick/put flows
// resolve them by ID or barcode.
const DefaultLocationCacheTTL = 5 * time.Minute

// CachedLocationRepository decorates a LocationRepository with a Redis
// read-through cache for single-record lookups (by ID and by barcode).
// List and aggregate queries always go to the database; writes invalidate
// the cached entries for the affected location before delegating.
//
// Cache failures are never surfaced to callers: a Redis error degrades to
// a direct repository read.
type CachedLocationRepository struct {
	inner  location.LocationRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedLocationRepository wraps repo with a Redis cache using the
// given TTL. A zero or negative TTL falls back to DefaultLocationCacheTTL.
func NewCachedLocationRepository(repo location.LocationRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedLocationRepository {
	if ttl <= 0 {
		ttl = DefaultLocationCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedLocationRepository{
		inner:  repo,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func locationIDKey(tenantID, id uuid.UUID) string {
	return "location:id:" + tenantID.String() + ":" + id.String()
}

func locationBarcodeKey(tenantID uuid.UUID, barcode string) string {
	return "location:barcode:" + tenantID.String() + ":" + barcode
}

// FindByID is a platform-level lookup without a tenant scope, so it has no
// stable cache key and always hits the database.
func (r *CachedLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*location.Location, error) {
	return r.inner.FindByID(ctx, id)
}

func (r *CachedLocationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*location.Location, error) {
	key := locationIDKey(tenantID, id)
	if loc := r.get(ctx, key); loc != nil {
		return loc, nil
	}
	loc, err := r.inner.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	r.put(ctx, key, loc)
	return loc, nil
}

func (r *CachedLocationRepository) FindByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*location.Location, error) {
	key := locationBarcodeKey(tenantID, barcode)
	if loc := r.get(ctx, key); loc != nil {
		return loc, nil
	}
	loc, err := r.inner.FindByBarcode(ctx, tenantID, barcode)
	if err != nil {
		return nil, err
	}
	r.put(ctx, key, loc)
	return loc, nil
}

func (r *CachedLocationRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*location.Location, error) {
	return r.inner.FindByCode(ctx, tenantID, code)
}

func (r *CachedLocationRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]location.Location, error) {
	return r.inner.FindByIDs(ctx, tenantID, ids)
}

func (r *CachedLocationRepository) FindChildren(ctx context.Context, tenantID, parentID uuid.UUID) ([]location.Location, error) {
	return r.inner.FindChildren(ctx, tenantID, parentID)
}

func (r *CachedLocationRepository) FindByType(ctx context.Context, tenantID uuid.UUID, locationType location.LocationType, filter shared.Filter) ([]location.Location, error) {
	return r.inner.FindByType(ctx, tenantID, locationType, filter)
}

func (r *CachedLocationRepository) FindAvailableBins(ctx context.Context, tenantID uuid.UUID) ([]location.Location, error) {
	return r.inner.FindAvailableBins(ctx, tenantID)
}

func (r *CachedLocationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]location.Location, error) {
	return r.inner.FindAllForTenant(ctx, tenantID, filter)
}

// Save invalidates before writing so a concurrent read cannot re-populate
// the cache with the record we are about to replace and then miss the
// invalidation.
func (r *CachedLocationRepository) Save(ctx context.Context, loc *location.Location) error {
	r.invalidate(ctx, loc)
	return r.inner.Save(ctx, loc)
}

func (r *CachedLocationRepository) SaveWithLock(ctx context.Context, loc *location.Location) error {
	r.invalidate(ctx, loc)
	return r.inner.SaveWithLock(ctx, loc)
}

func (r *CachedLocationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	return r.inner.CountForTenant(ctx, tenantID, filter)
}

func (r *CachedLocationRepository) ExistsByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (bool, error) {
	return r.inner.ExistsByBarcode(ctx, tenantID, barcode)
}

func (r *CachedLocationRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	return r.inner.ExistsByCode(ctx, tenantID, code)
}

func (r *CachedLocationRepository) get(ctx context.Context, key string) *location.Location {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Debug("location cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	var loc location.Location
	if err := json.Unmarshal(data, &loc); err != nil {
		r.logger.Warn("location cache entry corrupt, evicting", zap.String("key", key), zap.Error(err))
		r.client.Del(ctx, key)
		return nil
	}
	return &loc
}

func (r *CachedLocationRepository) put(ctx context.Context, key string, loc *location.Location) {
	data, err := json.Marshal(loc)
	if err != nil {
		r.logger.Warn("location cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Debug("location cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *CachedLocationRepository) invalidate(ctx context.Context, loc *location.Location) {
	keys := []string{locationIDKey(loc.TenantID, loc.ID)}
	if loc.Barcode != "" {
		keys = append(keys, locationBarcodeKey(loc.TenantID, loc.Barcode))
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Debug("location cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

var _ location.LocationRepository = (*CachedLocationRepository)(nil)
