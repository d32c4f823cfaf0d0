package tenant

import (
	"context"

	"github.com/google/uuid"
	"github.com/warehub/backend/internal/domain/shared"
)

// TenantRepository defines the interface for tenant registry persistence.
// The registry lives in the shared public schema, never in a tenant schema.
type TenantRepository interface {
	// FindByID finds a tenant by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// FindBySlug finds a tenant by its slug
	FindBySlug(ctx context.Context, slug string) (*Tenant, error)

	// FindBySchemaName finds the tenant owning a schema
	FindBySchemaName(ctx context.Context, schemaName string) (*Tenant, error)

	// FindActive finds all active tenants; the scheduler sweeps these
	FindActive(ctx context.Context) ([]Tenant, error)

	// FindAll finds all tenants
	FindAll(ctx context.Context, filter shared.Filter) ([]Tenant, error)

	// Save creates or updates a tenant
	Save(ctx context.Context, t *Tenant) error

	// Count counts tenants matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsBySlug checks whether a slug is already taken
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}
