package migration

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	"github.com/warehub/backend/internal/domain/tenant"
	tenantdb "github.com/warehub/backend/internal/infrastructure/persistence/tenant"
	"go.uber.org/zap"
)

// SchemaProvisioner creates a tenant's schema and runs the tenant migration
// set inside it. Provisioning is idempotent: CREATE SCHEMA IF NOT EXISTS plus
// a migrate-up that no-ops when the schema is already at the latest version,
// so the lazy ensure-before-first-use path can call it repeatedly.
type SchemaProvisioner struct {
	db             *sql.DB
	databaseURL    string
	migrationsPath string
	logger         *zap.Logger
}

// NewSchemaProvisioner creates a SchemaProvisioner. databaseURL is the
// postgres URL the migrations connect through; migrationsPath points at the
// tenant migration set (not the public registry migrations).
func NewSchemaProvisioner(db *sql.DB, databaseURL, migrationsPath string, logger *zap.Logger) *SchemaProvisioner {
	return &SchemaProvisioner{
		db:             db,
		databaseURL:    databaseURL,
		migrationsPath: migrationsPath,
		logger:         logger,
	}
}

// Provision creates the schema if needed and migrates it to the latest
// version. The schema name is validated against the tenant schema pattern
// before any SQL is built from it.
func (p *SchemaProvisioner) Provision(ctx context.Context, schemaName string) error {
	if err := tenant.ValidateSchemaName(schemaName); err != nil {
		return err
	}

	if _, err := p.db.ExecContext(ctx, `CREATE SCHEMA IF NOT EXISTS `+tenantdb.QuoteIdentifier(schemaName)); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", schemaName, err)
	}

	m, err := p.migratorFor(schemaName)
	if err != nil {
		return err
	}
	defer func() {
		sourceErr, dbErr := m.Close()
		if sourceErr != nil || dbErr != nil {
			p.logger.Warn("closing tenant migrator failed",
				zap.String("schema", schemaName),
				zap.NamedError("source_error", sourceErr),
				zap.NamedError("db_error", dbErr),
			)
		}
	}()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("tenant migration failed for %s: %w", schemaName, err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to read migration version for %s: %w", schemaName, err)
	}
	p.logger.Info("tenant schema provisioned",
		zap.String("schema", schemaName),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// migratorFor builds a migrate instance whose connection is pinned to the
// tenant schema. search_path is passed as a connection runtime parameter, so
// the unqualified tables in the migration SQL land inside the schema and the
// schema_migrations bookkeeping stays per tenant.
func (p *SchemaProvisioner) migratorFor(schemaName string) (*migrate.Migrate, error) {
	u, err := url.Parse(p.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}
	q := u.Query()
	q.Set("search_path", schemaName)
	u.RawQuery = q.Encode()

	m, err := migrate.New(fmt.Sprintf("file://%s", p.migrationsPath), u.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance for %s: %w", schemaName, err)
	}
	return m, nil
}

// Ensure SchemaProvisioner implements tenant.SchemaProvisioner
var _ tenant.SchemaProvisioner = (*SchemaProvisioner)(nil)
