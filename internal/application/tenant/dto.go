package tenant

import (
	"time"

	"github.com/google/uuid"
	"github.com/warehub/backend/internal/domain/tenant"
)

// CreateTenantRequest onboards a new tenant
type CreateTenantRequest struct {
	Slug string `json:"slug" binding:"required,min=1,max=50"`
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// RenameTenantRequest updates a tenant's display name
type RenameTenantRequest struct {
	TenantID uuid.UUID `json:"tenant_id"`
	Name     string    `json:"name" binding:"required,min=1,max=200"`
}

// UpdateTenantStatusRequest changes a tenant's lifecycle state
type UpdateTenantStatusRequest struct {
	TenantID uuid.UUID `json:"tenant_id"`
	Status   string    `json:"status" binding:"required,oneof=active inactive suspended"`
}

// TenantListFilter represents filter options for tenant lists
type TenantListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// TenantResponse represents a tenant in API responses
type TenantResponse struct {
	ID          uuid.UUID           `json:"id"`
	Slug        string              `json:"slug"`
	Name        string              `json:"name"`
	SchemaName  string              `json:"schema_name"`
	Status      tenant.TenantStatus `json:"status"`
	Provisioned bool                `json:"provisioned"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ToTenantResponse maps a tenant aggregate to its response record
func ToTenantResponse(t *tenant.Tenant) TenantResponse {
	return TenantResponse{
		ID:          t.ID,
		Slug:        t.Slug,
		Name:        t.Name,
		SchemaName:  t.SchemaName,
		Status:      t.Status,
		Provisioned: t.Provisioned,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ToTenantResponses maps a slice of tenants
func ToTenantResponses(tenants []tenant.Tenant) []TenantResponse {
	responses := make([]TenantResponse, len(tenants))
	for i := range tenants {
		responses[i] = ToTenantResponse(&tenants[i])
	}
	return responses
}
