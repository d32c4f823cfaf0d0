package location

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warehub/backend/internal/domain/shared"
)

// mockLocationRepo is a map-backed LocationRepository for path tests
type mockLocationRepo struct {
	locations map[uuid.UUID]*Location
}

func newMockLocationRepo() *mockLocationRepo {
	return &mockLocationRepo{locations: make(map[uuid.UUID]*Location)}
}

func (m *mockLocationRepo) add(loc *Location) {
	m.locations[loc.ID] = loc
}

func (m *mockLocationRepo) FindByID(ctx context.Context, id uuid.UUID) (*Location, error) {
	if loc, ok := m.locations[id]; ok {
		return loc, nil
	}
	return nil, shared.ErrNotFound
}

func (m *mockLocationRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Location, error) {
	loc, ok := m.locations[id]
	if !ok || loc.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return loc, nil
}

func (m *mockLocationRepo) FindByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*Location, error) {
	for _, loc := range m.locations {
		if loc.TenantID == tenantID && loc.Barcode == barcode {
			return loc, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockLocationRepo) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Location, error) {
	for _, loc := range m.locations {
		if loc.TenantID == tenantID && loc.Code == code {
			return loc, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockLocationRepo) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Location, error) {
	result := make([]Location, 0, len(ids))
	for _, id := range ids {
		if loc, ok := m.locations[id]; ok && loc.TenantID == tenantID {
			result = append(result, *loc)
		}
	}
	return result, nil
}

func (m *mockLocationRepo) FindChildren(ctx context.Context, tenantID, parentID uuid.UUID) ([]Location, error) {
	var result []Location
	for _, loc := range m.locations {
		if loc.TenantID == tenantID && loc.ParentLocationID != nil && *loc.ParentLocationID == parentID {
			result = append(result, *loc)
		}
	}
	return result, nil
}

func (m *mockLocationRepo) FindByType(ctx context.Context, tenantID uuid.UUID, locationType LocationType, filter shared.Filter) ([]Location, error) {
	var result []Location
	for _, loc := range m.locations {
		if loc.TenantID == tenantID && loc.Type == locationType {
			result = append(result, *loc)
		}
	}
	return result, nil
}

func (m *mockLocationRepo) FindAvailableBins(ctx context.Context, tenantID uuid.UUID) ([]Location, error) {
	var result []Location
	for _, loc := range m.locations {
		if loc.TenantID == tenantID && loc.IsBin() &&
			(loc.Status == LocationStatusAvailable || loc.Status == LocationStatusReserved) &&
			loc.RemainingCapacity().GreaterThan(decimal.Zero) {
			result = append(result, *loc)
		}
	}
	return result, nil
}

func (m *mockLocationRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Location, error) {
	var result []Location
	for _, loc := range m.locations {
		if loc.TenantID == tenantID {
			result = append(result, *loc)
		}
	}
	return result, nil
}

func (m *mockLocationRepo) Save(ctx context.Context, loc *Location) error {
	m.locations[loc.ID] = loc
	return nil
}

func (m *mockLocationRepo) SaveWithLock(ctx context.Context, loc *Location) error {
	m.locations[loc.ID] = loc
	return nil
}

func (m *mockLocationRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var n int64
	for _, loc := range m.locations {
		if loc.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (m *mockLocationRepo) ExistsByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (bool, error) {
	_, err := m.FindByBarcode(ctx, tenantID, barcode)
	return err == nil, nil
}

func (m *mockLocationRepo) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	_, err := m.FindByCode(ctx, tenantID, code)
	return err == nil, nil
}

var _ LocationRepository = (*mockLocationRepo)(nil)

func buildHierarchy(t *testing.T, repo *mockLocationRepo, tenantID uuid.UUID) (*Location, *Location, *Location) {
	t.Helper()

	wh, err := NewLocation(tenantID, LocationTypeWarehouse, nil, "WH1", "Main", "", Coordinates{}, decimal.Zero)
	require.NoError(t, err)
	repo.add(wh)

	zone, err := NewLocation(tenantID, LocationTypeZone, &wh.ID, "Z1", "Zone 1", "", Coordinates{Zone: "Z1"}, decimal.Zero)
	require.NoError(t, err)
	repo.add(zone)

	bin, err := NewLocation(tenantID, LocationTypeBin, &zone.ID, "B1", "Bin 1", "", Coordinates{Zone: "Z1"}, decimal.NewFromInt(10))
	require.NoError(t, err)
	repo.add(bin)

	return wh, zone, bin
}

func TestPathResolver_ResolvePath(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("resolves full path for a bin", func(t *testing.T) {
		repo := newMockLocationRepo()
		_, _, bin := buildHierarchy(t, repo, tenantID)
		resolver := NewPathResolver(repo)

		path, err := resolver.ResolvePath(ctx, bin)

		require.NoError(t, err)
		assert.Equal(t, "/WH1/Z1/B1", path)
	})

	t.Run("path is prefix closed", func(t *testing.T) {
		repo := newMockLocationRepo()
		_, zone, bin := buildHierarchy(t, repo, tenantID)
		resolver := NewPathResolver(repo)

		parentPath, err := resolver.ResolvePath(ctx, zone)
		require.NoError(t, err)
		childPath, err := resolver.ResolvePath(ctx, bin)
		require.NoError(t, err)

		assert.Equal(t, parentPath+"/"+bin.Label(), childPath)
	})

	t.Run("root path is slash plus code", func(t *testing.T) {
		repo := newMockLocationRepo()
		wh, _, _ := buildHierarchy(t, repo, tenantID)
		resolver := NewPathResolver(repo)

		path, err := resolver.ResolvePath(ctx, wh)

		require.NoError(t, err)
		assert.Equal(t, "/WH1", path)
	})

	t.Run("falls back to barcode when code is empty", func(t *testing.T) {
		repo := newMockLocationRepo()
		wh, err := NewLocation(tenantID, LocationTypeWarehouse, nil, "WH2", "", "", Coordinates{}, decimal.Zero)
		require.NoError(t, err)
		repo.add(wh)

		bin, err := NewLocation(tenantID, LocationTypeBin, &wh.ID, "", "", "BINBARCODE01", Coordinates{}, decimal.NewFromInt(5))
		require.NoError(t, err)
		repo.add(bin)

		resolver := NewPathResolver(repo)
		path, err := resolver.ResolvePath(ctx, bin)

		require.NoError(t, err)
		assert.Equal(t, "/WH2/BINBARCODE01", path)
	})

	t.Run("detects cycle and returns empty path", func(t *testing.T) {
		repo := newMockLocationRepo()

		a, err := NewLocation(tenantID, LocationTypeZone, nil, "ZA", "", "", Coordinates{}, decimal.Zero)
		require.NoError(t, err)
		b, err := NewLocation(tenantID, LocationTypeRack, &a.ID, "RB", "", "", Coordinates{}, decimal.Zero)
		require.NoError(t, err)
		// close the loop
		a.ParentLocationID = &b.ID
		repo.add(a)
		repo.add(b)

		resolver := NewPathResolver(repo)
		path, err := resolver.ResolvePath(ctx, b)

		require.ErrorIs(t, err, ErrHierarchyCycle)
		assert.Empty(t, path)
	})

	t.Run("self referencing location is a cycle", func(t *testing.T) {
		repo := newMockLocationRepo()
		a, err := NewLocation(tenantID, LocationTypeZone, nil, "ZS", "", "", Coordinates{}, decimal.Zero)
		require.NoError(t, err)
		a.ParentLocationID = &a.ID
		repo.add(a)

		resolver := NewPathResolver(repo)
		path, err := resolver.ResolvePath(ctx, a)

		require.ErrorIs(t, err, ErrHierarchyCycle)
		assert.Empty(t, path)
	})

	t.Run("missing parent propagates not found", func(t *testing.T) {
		repo := newMockLocationRepo()
		orphanParent := uuid.New()
		bin, err := NewLocation(tenantID, LocationTypeBin, &orphanParent, "B7", "", "", Coordinates{}, decimal.NewFromInt(5))
		require.NoError(t, err)
		repo.add(bin)

		resolver := NewPathResolver(repo)
		_, err = resolver.ResolvePath(ctx, bin)

		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestPathResolver_ValidateParent(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("accepts bin under zone", func(t *testing.T) {
		repo := newMockLocationRepo()
		_, zone, _ := buildHierarchy(t, repo, tenantID)
		resolver := NewPathResolver(repo)

		err := resolver.ValidateParent(ctx, tenantID, LocationTypeBin, zone.ID)

		assert.NoError(t, err)
	})

	t.Run("rejects zone under bin", func(t *testing.T) {
		repo := newMockLocationRepo()
		_, _, bin := buildHierarchy(t, repo, tenantID)
		resolver := NewPathResolver(repo)

		err := resolver.ValidateParent(ctx, tenantID, LocationTypeZone, bin.ID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PARENT", domainErr.Code)
	})

	t.Run("rejects chain not rooted at a warehouse", func(t *testing.T) {
		repo := newMockLocationRepo()
		zone, err := NewLocation(tenantID, LocationTypeZone, nil, "ZX", "", "", Coordinates{}, decimal.Zero)
		require.NoError(t, err)
		repo.add(zone)

		resolver := NewPathResolver(repo)
		err = resolver.ValidateParent(ctx, tenantID, LocationTypeBin, zone.ID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_HIERARCHY", domainErr.Code)
	})

	t.Run("rejects parent from another tenant", func(t *testing.T) {
		repo := newMockLocationRepo()
		_, zone, _ := buildHierarchy(t, repo, tenantID)
		resolver := NewPathResolver(repo)

		err := resolver.ValidateParent(ctx, uuid.New(), LocationTypeBin, zone.ID)

		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}
