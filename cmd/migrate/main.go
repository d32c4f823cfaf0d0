package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/warehub/backend/internal/domain/tenant"
	"github.com/warehub/backend/internal/infrastructure/config"
	"github.com/warehub/backend/internal/infrastructure/logger"
	"github.com/warehub/backend/internal/infrastructure/migration"
)

func main() {
	// Parse flags
	var (
		migrationSet   string
		migrationsPath string
		logLevel       string
	)

	flag.StringVar(&migrationSet, "set", "public", "Migration set to operate on: public or tenant")
	flag.StringVar(&migrationsPath, "path", "", "Override path to migrations directory (default from config)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	// Get command and arguments
	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Determine migrations path. The public set holds the tenant registry and
	// outbox tables; the tenant set is replayed inside every tenant schema.
	if migrationsPath == "" {
		switch migrationSet {
		case "public":
			migrationsPath = cfg.Migrations.PublicPath
		case "tenant":
			migrationsPath = cfg.Migrations.TenantPath
		default:
			log.Fatal("Unknown migration set", zap.String("set", migrationSet))
		}
	}
	migrationsPath = resolvePath(migrationsPath)

	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		log.Fatal("Failed to get absolute path", zap.Error(err))
	}
	migrationsPath = absPath

	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("set", migrationSet),
		zap.String("migrations_path", migrationsPath),
	)

	// Handle create command separately (doesn't need DB)
	if command == "create" {
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate -set <set> create <name> [description]")
		}
		name := args[1]
		description := ""
		if len(args) > 2 {
			description = args[2]
		}

		mf, err := migration.CreateMigration(migrationsPath, name, description)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}

		log.Info("Migration created successfully",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return
	}

	// Handle list command (doesn't need DB connection)
	if command == "list" {
		migrations, err := migration.ListMigrations(migrationsPath)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}

		if len(migrations) == 0 {
			log.Info("No migrations found")
			return
		}

		log.Info("Available migrations", zap.Int("count", len(migrations)))
		for _, m := range migrations {
			fmt.Println("  -", m)
		}
		return
	}

	// Commands that need database connection
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Verify connection
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	// Provision runs the tenant set inside one tenant's schema, regardless of
	// which -set was chosen.
	if command == "provision" {
		if len(args) < 2 {
			log.Fatal("Tenant slug required. Usage: migrate provision <slug>")
		}
		provisionTenant(db, cfg, log, resolvePath(cfg.Migrations.TenantPath), args[1])
		return
	}

	// Create migrator
	m, err := migration.New(db, migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	// Execute command
	switch command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}

	case "down":
		if err := m.Down(); err != nil {
			log.Fatal("Migration down failed", zap.Error(err))
		}

	case "step":
		if len(args) < 2 {
			log.Fatal("Step count required. Usage: migrate step <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid step count", zap.String("value", args[1]))
		}
		if err := m.Steps(n); err != nil {
			log.Fatal("Migration step failed", zap.Error(err))
		}

	case "goto":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate goto <version>")
		}
		version, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		if err := m.GoTo(uint(version)); err != nil {
			log.Fatal("Migration goto failed", zap.Error(err))
		}

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("Failed to get version", zap.Error(err))
		}
		if version == 0 {
			log.Info("No migrations applied")
		} else {
			log.Info("Current migration version",
				zap.Uint("version", version),
				zap.Bool("dirty", dirty),
			)
		}

	case "force":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		log.Warn("Forcing migration version - use with caution!")
		if err := m.Force(version); err != nil {
			log.Fatal("Force version failed", zap.Error(err))
		}

	case "drop":
		log.Warn("This will DROP all database objects. Are you sure? (use -confirm flag)")
		// For safety, require explicit confirmation
		confirm := false
		for _, arg := range args[1:] {
			if arg == "-confirm" || arg == "--confirm" {
				confirm = true
				break
			}
		}
		if !confirm {
			log.Fatal("Drop cancelled. Use 'migrate drop -confirm' to confirm.")
		}
		if err := m.Drop(); err != nil {
			log.Fatal("Drop failed", zap.Error(err))
		}

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

// provisionTenant creates and migrates the schema for one tenant slug, then
// marks the registry row provisioned when one exists. The public set must
// already be applied so the tenants table is present.
func provisionTenant(db *sql.DB, cfg *config.Config, log *zap.Logger, tenantMigrationsPath, slug string) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	schemaName := tenant.SchemaNameForSlug(slug)
	if err := tenant.ValidateSchemaName(schemaName); err != nil {
		log.Fatal("Invalid tenant slug", zap.String("slug", slug), zap.Error(err))
	}

	absPath, err := filepath.Abs(tenantMigrationsPath)
	if err != nil {
		log.Fatal("Failed to get absolute path", zap.Error(err))
	}

	provisioner := migration.NewSchemaProvisioner(db, cfg.Database.DSN(), absPath, log)
	ctx := context.Background()
	if err := provisioner.Provision(ctx, schemaName); err != nil {
		log.Fatal("Provisioning failed", zap.String("schema", schemaName), zap.Error(err))
	}

	result, err := db.ExecContext(ctx,
		`UPDATE tenants SET provisioned = TRUE, updated_at = NOW() WHERE slug = $1`, slug)
	if err != nil {
		log.Warn("Failed to update tenant registry", zap.String("slug", slug), zap.Error(err))
		return
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		log.Warn("No registry row for slug; schema provisioned but tenant not registered",
			zap.String("slug", slug))
	}
}

// resolvePath tries the path as given, then relative to the executable, so
// the CLI works both from the repo root and from an installed binary.
func resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	execPath, err := os.Executable()
	if err == nil {
		candidate := filepath.Join(filepath.Dir(execPath), "..", "..", path)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return path
}

func printUsage() {
	fmt.Println(`Warehouse Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations in the selected set
  down                  Roll back all migrations in the selected set
  step <n>              Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Force set migration version (use with caution)
  drop -confirm         Drop all database objects (DANGEROUS)
  create <name> [desc]  Create a new migration file pair in the selected set
  list                  List available migrations in the selected set
  provision <slug>      Create a tenant schema and apply the tenant set to it

Flags:
  -set string           Migration set: public (registry, outbox) or tenant
                        (per-schema warehouse tables) (default: public)
  -path string          Override path to migrations directory
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  WMS_DATABASE_HOST, WMS_DATABASE_PORT, WMS_DATABASE_USER,
  WMS_DATABASE_PASSWORD, WMS_DATABASE_NAME, WMS_DATABASE_SSL_MODE

Examples:
  # Apply the public registry migrations
  migrate up

  # Apply the tenant table set to every newly created schema by hand
  migrate provision acme

  # Roll back the last tenant migration
  migrate -set tenant step -1

  # Check current public version
  migrate version`)
}
