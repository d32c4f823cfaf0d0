package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warehub/backend/internal/application/report"
	"github.com/warehub/backend/internal/application/security"
)

// SystemRole marks contexts created by background jobs rather than users
const SystemRole = "system"

// MaintenanceExecutor runs expiration sweeps and report generation for one
// tenant per job. It fabricates a system-scoped security context so the
// application services apply the same tenant isolation checks they apply to
// interactive requests.
type MaintenanceExecutor struct {
	sweeps  *report.SweepService
	reports *report.ExpiringStockReportService
	logger  *zap.Logger
}

// NewMaintenanceExecutor creates a new maintenance executor
func NewMaintenanceExecutor(sweeps *report.SweepService, reports *report.ExpiringStockReportService, logger *zap.Logger) *MaintenanceExecutor {
	return &MaintenanceExecutor{
		sweeps:  sweeps,
		reports: reports,
		logger:  logger,
	}
}

// Execute dispatches the job to the matching application service
func (e *MaintenanceExecutor) Execute(ctx context.Context, job *Job) error {
	ctx = security.WithContext(ctx, security.Context{
		TenantID: job.TenantID,
		UserID:   uuid.Nil,
		Roles:    []string{SystemRole},
	})

	switch job.Type {
	case JobTypeExpirationSweep:
		result, err := e.sweeps.SweepTenant(ctx, job.TenantID)
		if err != nil {
			return fmt.Errorf("expiration sweep for tenant %s: %w", job.TenantID, err)
		}
		e.logger.Info("Expiration sweep completed",
			zap.String("tenant_id", job.TenantID.String()),
			zap.Int("scanned", result.Scanned),
			zap.Int("reclassified", result.Reclassified),
		)
		return nil

	case JobTypeExpiringStockReport:
		summary, err := e.reports.Generate(ctx, job.TenantID)
		if err != nil {
			return fmt.Errorf("expiring stock report for tenant %s: %w", job.TenantID, err)
		}
		e.logger.Info("Expiring stock report archived",
			zap.String("tenant_id", job.TenantID.String()),
			zap.Int("expired", summary.ExpiredCount),
			zap.Int("expiring", summary.ExpiringCount),
			zap.String("key", summary.Key),
		)
		return nil

	default:
		return fmt.Errorf("%w: %s", ErrInvalidJobType, job.Type)
	}
}

var _ JobExecutor = (*MaintenanceExecutor)(nil)
