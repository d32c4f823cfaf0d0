package tenant

import "context"

// SchemaProvisioner creates and migrates a tenant's database schema.
// Provisioning is idempotent: an already provisioned schema is a no-op.
type SchemaProvisioner interface {
	Provision(ctx context.Context, schemaName string) error
}
