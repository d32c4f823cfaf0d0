package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaintenant "github.com/warehub/backend/internal/domain/tenant"
	"github.com/warehub/backend/internal/infrastructure/persistence"
)

func TestTenantRegistry(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	repo := persistence.NewGormTenantRepository(tdb.DB)
	ctx := context.Background()

	t.Run("save and find by slug", func(t *testing.T) {
		tn, err := domaintenant.NewTenant("acme", "Acme Logistics")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, tn))

		found, err := repo.FindBySlug(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, tn.ID, found.ID)
		assert.Equal(t, "tenant_acme_schema", found.SchemaName)
		assert.True(t, found.IsActive())
		assert.False(t, found.Provisioned)
	})

	t.Run("slug uniqueness is visible before save", func(t *testing.T) {
		exists, err := repo.ExistsBySlug(ctx, "acme")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsBySlug(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("suspended tenants drop out of the active set", func(t *testing.T) {
		tn, err := domaintenant.NewTenant("northwind", "Northwind Cold Storage")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, tn))

		active, err := repo.FindActive(ctx)
		require.NoError(t, err)
		assert.Len(t, active, 2)

		require.NoError(t, tn.Suspend())
		require.NoError(t, repo.Save(ctx, tn))

		active, err = repo.FindActive(ctx)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "acme", active[0].Slug)
	})

	t.Run("find by schema name", func(t *testing.T) {
		found, err := repo.FindBySchemaName(ctx, "tenant_acme_schema")
		require.NoError(t, err)
		assert.Equal(t, "acme", found.Slug)
	})
}
