package tenant

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/warehub/backend/internal/domain/shared"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusInactive  TenantStatus = "inactive"
	TenantStatusSuspended TenantStatus = "suspended"
)

// SchemaNamePattern is the only shape a tenant schema name may take. Every
// schema name is validated against it (or must be the literal "public")
// before it is ever interpolated into SQL.
var SchemaNamePattern = regexp.MustCompile(`^tenant_[A-Za-z0-9_]+_schema$`)

// PublicSchema is the shared platform schema holding the tenant registry
const PublicSchema = "public"

var slugPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// Tenant represents one warehouse customer sharing the deployment. Each
// tenant owns an isolated database schema named after its slug; all WMS
// aggregates live inside that schema.
type Tenant struct {
	shared.BaseAggregateRoot
	Slug        string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string       `gorm:"type:varchar(200);not null"`
	SchemaName  string       `gorm:"type:varchar(100);not null;uniqueIndex"`
	Status      TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Provisioned bool         `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new active tenant. The schema name is derived from the
// slug and validated before the tenant can be persisted.
func NewTenant(slug, name string) (*Tenant, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if err := validateSlug(slug); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	schemaName := SchemaNameForSlug(slug)
	if !SchemaNamePattern.MatchString(schemaName) {
		return nil, shared.NewDomainError("INVALID_SCHEMA_NAME", "Derived schema name is not valid: "+schemaName)
	}

	t := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Slug:              slug,
		Name:              name,
		SchemaName:        schemaName,
		Status:            TenantStatusActive,
	}
	t.AddDomainEvent(NewTenantCreatedEvent(t))

	return t, nil
}

// SchemaNameForSlug derives the schema name for a tenant slug
func SchemaNameForSlug(slug string) string {
	return "tenant_" + slug + "_schema"
}

// SchemaNameForTenantID derives a schema name directly from a tenant ID,
// used when no registry row is at hand. UUID dashes are folded to
// underscores so the result satisfies SchemaNamePattern.
func SchemaNameForTenantID(tenantID uuid.UUID) string {
	return SchemaNameForSlug(strings.ReplaceAll(tenantID.String(), "-", "_"))
}

// ValidateSchemaName checks that a schema name is safe to interpolate into
// SQL: either the public schema or a name matching SchemaNamePattern.
func ValidateSchemaName(name string) error {
	if name == PublicSchema {
		return nil
	}
	if !SchemaNamePattern.MatchString(name) {
		return shared.NewDomainError("INVALID_SCHEMA_NAME", "Schema name does not match the tenant schema pattern")
	}
	return nil
}

// IsActive returns true if the tenant is active
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// MarkProvisioned records that the tenant's schema exists and is migrated
func (t *Tenant) MarkProvisioned() {
	if t.Provisioned {
		return
	}
	t.Provisioned = true
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	t.AddDomainEvent(NewTenantProvisionedEvent(t))
}

// Rename updates the tenant's display name. The slug and schema are fixed
// for the tenant's lifetime.
func (t *Tenant) Rename(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	t.Name = name
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// Suspend stops the tenant from processing commands
func (t *Tenant) Suspend() error {
	if t.Status == TenantStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Tenant is already suspended")
	}
	oldStatus := t.Status
	t.Status = TenantStatusSuspended
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	t.AddDomainEvent(NewTenantStatusChangedEvent(t, oldStatus, TenantStatusSuspended))
	return nil
}

// Activate reinstates a suspended or inactive tenant
func (t *Tenant) Activate() error {
	if t.Status == TenantStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Tenant is already active")
	}
	oldStatus := t.Status
	t.Status = TenantStatusActive
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	t.AddDomainEvent(NewTenantStatusChangedEvent(t, oldStatus, TenantStatusActive))
	return nil
}

// Deactivate retires the tenant without dropping its data
func (t *Tenant) Deactivate() error {
	if t.Status == TenantStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Tenant is already inactive")
	}
	oldStatus := t.Status
	t.Status = TenantStatusInactive
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	t.AddDomainEvent(NewTenantStatusChangedEvent(t, oldStatus, TenantStatusInactive))
	return nil
}

func validateSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("SLUG_REQUIRED", "Tenant slug cannot be empty")
	}
	if len(slug) > 50 {
		return shared.NewDomainError("INVALID_SLUG", "Tenant slug cannot exceed 50 characters")
	}
	if !slugPattern.MatchString(slug) {
		return shared.NewDomainError("INVALID_SLUG", "Tenant slug can only contain lowercase letters, digits, and underscores")
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("NAME_REQUIRED", "Tenant name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot exceed 200 characters")
	}
	return nil
}
