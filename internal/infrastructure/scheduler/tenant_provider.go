package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/warehub/backend/internal/domain/tenant"
)

// RegistryTenantProvider lists active tenants from the tenant registry so the
// cron trigger can fan maintenance jobs out per schema.
type RegistryTenantProvider struct {
	repo tenant.TenantRepository
}

// NewRegistryTenantProvider creates a RegistryTenantProvider
func NewRegistryTenantProvider(repo tenant.TenantRepository) *RegistryTenantProvider {
	return &RegistryTenantProvider{repo: repo}
}

// GetAllActiveTenantIDs returns the IDs of every active tenant
func (p *RegistryTenantProvider) GetAllActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	tenants, err := p.repo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tenants: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(tenants))
	for _, t := range tenants {
		ids = append(ids, t.ID)
	}
	return ids, nil
}

var _ TenantProvider = (*RegistryTenantProvider)(nil)
