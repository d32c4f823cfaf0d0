package tenant

import (
	"context"

	"github.com/google/uuid"
	"github.com/warehub/backend/internal/domain/shared"
	"github.com/warehub/backend/internal/domain/tenant"
	"github.com/warehub/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// TenantService manages the tenant registry in the shared public schema.
// Creating a tenant provisions its database schema; all other WMS services
// operate inside the schema this service set up.
type TenantService struct {
	tenantRepo  tenant.TenantRepository
	provisioner tenant.SchemaProvisioner
	publisher   shared.EventPublisher
}

// NewTenantService creates a new TenantService
func NewTenantService(tenantRepo tenant.TenantRepository, provisioner tenant.SchemaProvisioner, publisher shared.EventPublisher) *TenantService {
	return &TenantService{
		tenantRepo:  tenantRepo,
		provisioner: provisioner,
		publisher:   publisher,
	}
}

// Create onboards a new tenant and provisions its schema. A provisioning
// failure leaves the registry row with Provisioned false; the schema is
// ensured again before first use and by an explicit Provision call.
func (s *TenantService) Create(ctx context.Context, req CreateTenantRequest) (*TenantResponse, error) {
	taken, err := s.tenantRepo.ExistsBySlug(ctx, req.Slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("DUPLICATE_SLUG", "Tenant slug is already in use")
	}

	t, err := tenant.NewTenant(req.Slug, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	if err := s.provisioner.Provision(ctx, t.SchemaName); err != nil {
		logger.L(ctx).Warn("tenant schema provisioning failed, will retry before first use",
			zap.String("tenant_id", t.ID.String()),
			zap.String("schema", t.SchemaName),
			zap.Error(err),
		)
	} else {
		t.MarkProvisioned()
		if err := s.tenantRepo.Save(ctx, t); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, t)
	resp := ToTenantResponse(t)
	return &resp, nil
}

// Provision ensures the tenant's schema exists and is migrated
func (s *TenantService) Provision(ctx context.Context, tenantID uuid.UUID) (*TenantResponse, error) {
	t, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := s.provisioner.Provision(ctx, t.SchemaName); err != nil {
		return nil, shared.ErrExternalService
	}
	t.MarkProvisioned()
	if err := s.tenantRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	s.publish(ctx, t)

	resp := ToTenantResponse(t)
	return &resp, nil
}

// Rename updates a tenant's display name
func (s *TenantService) Rename(ctx context.Context, req RenameTenantRequest) (*TenantResponse, error) {
	return s.mutate(ctx, req.TenantID, func(t *tenant.Tenant) error {
		return t.Rename(req.Name)
	})
}

// UpdateStatus changes a tenant's lifecycle state
func (s *TenantService) UpdateStatus(ctx context.Context, req UpdateTenantStatusRequest) (*TenantResponse, error) {
	return s.mutate(ctx, req.TenantID, func(t *tenant.Tenant) error {
		switch tenant.TenantStatus(req.Status) {
		case tenant.TenantStatusActive:
			return t.Activate()
		case tenant.TenantStatusSuspended:
			return t.Suspend()
		case tenant.TenantStatusInactive:
			return t.Deactivate()
		default:
			return shared.NewDomainError("INVALID_STATUS", "Unknown tenant status: "+req.Status)
		}
	})
}

// Get retrieves a tenant by ID
func (s *TenantService) Get(ctx context.Context, tenantID uuid.UUID) (*TenantResponse, error) {
	t, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := ToTenantResponse(t)
	return &resp, nil
}

// GetBySlug retrieves a tenant by its slug
func (s *TenantService) GetBySlug(ctx context.Context, slug string) (*TenantResponse, error) {
	t, err := s.tenantRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := ToTenantResponse(t)
	return &resp, nil
}

// List retrieves tenants with pagination
func (s *TenantService) List(ctx context.Context, filter TenantListFilter) (*shared.Paginated[TenantResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	tenants, err := s.tenantRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.tenantRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToTenantResponses(tenants), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// ListActive retrieves all active tenants; the scheduler sweeps these
func (s *TenantService) ListActive(ctx context.Context) ([]TenantResponse, error) {
	tenants, err := s.tenantRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	return ToTenantResponses(tenants), nil
}

func (s *TenantService) mutate(ctx context.Context, tenantID uuid.UUID, op func(*tenant.Tenant) error) (*TenantResponse, error) {
	t, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := op(t); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	s.publish(ctx, t)

	resp := ToTenantResponse(t)
	return &resp, nil
}

// publish flushes the aggregate's buffered events. The registry writes in the
// public schema do not run through the tenant transaction scope, so events
// are published directly.
func (s *TenantService) publish(ctx context.Context, t *tenant.Tenant) {
	events := t.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	t.ClearDomainEvents()
	if err := s.publisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Warn("tenant event publication failed", zap.Error(err))
	}
}
