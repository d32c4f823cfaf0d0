// Package tenant routes database access to per-tenant PostgreSQL schemas.
//
// Every tenant owns a schema named tenant_<slug>_schema; the shared registry
// and the outbox live in public. A routed unit of work runs inside a
// transaction whose search_path is pinned to the tenant's schema, so
// unqualified table references resolve inside the tenant's namespace and the
// routing dies with the transaction instead of leaking into the pool.
//
// Usage:
//
//	router := tenant.NewRouter(gormDB, tenant.WithRegistry(registry))
//	err := router.Run(ctx, func(tx *gorm.DB) error {
//		return tx.Find(&locations).Error // resolves to tenant_acme_schema.locations
//	})
package tenant

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/warehub/backend/internal/application/security"
	domaintenant "github.com/warehub/backend/internal/domain/tenant"
	"gorm.io/gorm"
)

// ErrTenantIDRequired is returned when no tenant could be resolved from the context
var ErrTenantIDRequired = errors.New("tenant_id is required but not found in context")

// ErrTenantNotActive is returned when the resolved tenant is suspended or deactivated
var ErrTenantNotActive = errors.New("tenant is not active")

// DB yields schema-routed gorm handles. The handle passed to fn is bound to
// a single transaction and must not be retained after fn returns.
type DB interface {
	Run(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// SchemaResolver maps a tenant ID to its schema name.
type SchemaResolver func(ctx context.Context, tenantID uuid.UUID) (string, error)

// DeriveSchema derives the schema name from the tenant ID alone, without a
// registry lookup. Used by tests and by tooling that runs before the registry
// exists.
func DeriveSchema(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return domaintenant.SchemaNameForTenantID(tenantID), nil
}

// RegistrySchema resolves the schema through the tenant registry and rejects
// tenants that are suspended or deactivated.
func RegistrySchema(registry domaintenant.TenantRepository) SchemaResolver {
	return func(ctx context.Context, tenantID uuid.UUID) (string, error) {
		t, err := registry.FindByID(ctx, tenantID)
		if err != nil {
			return "", err
		}
		if !t.IsActive() {
			return "", ErrTenantNotActive
		}
		return t.SchemaName, nil
	}
}

// Router implements DB on top of a pooled gorm connection. Each Run opens a
// transaction and executes SET LOCAL search_path before the unit of work.
type Router struct {
	db          *gorm.DB
	resolve     SchemaResolver
	provisioner domaintenant.SchemaProvisioner
	ensured     sync.Map // schema name -> struct{}
}

// Option configures a Router
type Option func(*Router)

// WithResolver overrides the schema resolver
func WithResolver(resolve SchemaResolver) Option {
	return func(r *Router) { r.resolve = resolve }
}

// WithRegistry resolves schemas through the tenant registry
func WithRegistry(registry domaintenant.TenantRepository) Option {
	return func(r *Router) { r.resolve = RegistrySchema(registry) }
}

// WithProvisioner ensures a tenant's schema exists before its first unit of
// work. Schemas whose provisioning succeeded are not checked again for the
// lifetime of the router.
func WithProvisioner(p domaintenant.SchemaProvisioner) Option {
	return func(r *Router) { r.provisioner = p }
}

// NewRouter creates a Router. Without options the schema is derived from the
// tenant ID and assumed to exist.
func NewRouter(db *gorm.DB, opts ...Option) *Router {
	r := &Router{db: db, resolve: DeriveSchema}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SchemaFor resolves and validates the schema for the tenant carried by the
// request context. The name is checked against the tenant schema pattern
// before it is ever interpolated into SQL.
func (r *Router) SchemaFor(ctx context.Context) (string, error) {
	sc, ok := security.FromContext(ctx)
	if !ok || sc.TenantID == uuid.Nil {
		return "", ErrTenantIDRequired
	}
	schema, err := r.resolve(ctx, sc.TenantID)
	if err != nil {
		return "", err
	}
	if err := domaintenant.ValidateSchemaName(schema); err != nil {
		return "", err
	}
	return schema, nil
}

// Run executes fn inside a transaction routed to the tenant's schema.
func (r *Router) Run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	schema, err := r.SchemaFor(ctx)
	if err != nil {
		return err
	}
	if err := r.ensureSchema(ctx, schema); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := pinSearchPath(tx, schema); err != nil {
			return err
		}
		return fn(tx)
	})
}

// ensureSchema lazily provisions the schema on its first use. A tenant whose
// onboarding-time provisioning failed is repaired here before any data access.
func (r *Router) ensureSchema(ctx context.Context, schema string) error {
	if r.provisioner == nil {
		return nil
	}
	if _, ok := r.ensured.Load(schema); ok {
		return nil
	}
	if err := r.provisioner.Provision(ctx, schema); err != nil {
		return err
	}
	r.ensured.Store(schema, struct{}{})
	return nil
}

// pinSearchPath scopes the transaction to the tenant schema. public stays on
// the path so the outbox and other shared tables remain reachable; the tenant
// schema comes first, so tenant tables shadow any same-named public table.
func pinSearchPath(tx *gorm.DB, schema string) error {
	return tx.Exec(`SET LOCAL search_path TO ` + QuoteIdentifier(schema) + `, public`).Error
}

// QuoteIdentifier quotes a PostgreSQL identifier. Schema names are validated
// against the tenant schema pattern before quoting; this is a second fence,
// not the primary defense.
func QuoteIdentifier(name string) string {
	quoted := make([]byte, 0, len(name)+2)
	quoted = append(quoted, '"')
	for i := 0; i < len(name); i++ {
		if name[i] == '"' {
			quoted = append(quoted, '"')
		}
		quoted = append(quoted, name[i])
	}
	quoted = append(quoted, '"')
	return string(quoted)
}

// bound adapts an already-routed transaction to the DB interface. The
// transaction scope uses it to hand repositories the transaction they share.
type bound struct {
	tx *gorm.DB
}

// Bound wraps a transaction that is already pinned to a tenant schema.
func Bound(tx *gorm.DB) DB {
	return bound{tx: tx}
}

func (b bound) Run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(b.tx.WithContext(ctx))
}
