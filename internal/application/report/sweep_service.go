package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/warehub/backend/internal/application/scope"
	"github.com/warehub/backend/internal/application/security"
	"github.com/warehub/backend/internal/domain/shared"
	"github.com/warehub/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// sweepPageSize bounds how many stock items one sweep transaction touches
const sweepPageSize = 200

// SweepResult summarizes one tenant's reclassification sweep
type SweepResult struct {
	Scanned      int
	Reclassified int
}

// SweepService walks every stock item carrying an expiration date and
// reclassifies the ones whose window drifted as "today" advanced. The
// transitions flow through the normal event pipeline, so expiry alerts and
// restock generation fire exactly as they do for interactive changes.
type SweepService struct {
	txScope  scope.TransactionScope
	pageSize int
	now      func() time.Time
}

// NewSweepService creates a new SweepService
func NewSweepService(txScope scope.TransactionScope) *SweepService {
	return &SweepService{
		txScope:  txScope,
		pageSize: sweepPageSize,
		now:      time.Now,
	}
}

// SetClock overrides the time source, used by tests
func (s *SweepService) SetClock(now func() time.Time) {
	s.now = now
}

// SweepTenant reclassifies the tenant's dated stock page by page. Each page
// runs in its own transaction so one conflicting item does not roll back the
// whole sweep.
func (s *SweepService) SweepTenant(ctx context.Context, tenantID uuid.UUID) (SweepResult, error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return SweepResult{}, err
	}

	today := s.now()
	var result SweepResult
	filter := shared.Filter{Page: 1, PageSize: s.pageSize, OrderBy: "created_at", OrderDir: "asc"}

	for {
		var pageLen int
		err := s.txScope.Execute(ctx, func(repos scope.Repositories) error {
			items, err := repos.StockItems().FindWithExpiration(ctx, sc.TenantID, filter)
			if err != nil {
				return err
			}
			pageLen = len(items)
			for i := range items {
				item := &items[i]
				result.Scanned++
				if !item.Reclassify(today) {
					continue
				}
				if err := repos.StockItems().SaveWithLock(ctx, item); err != nil {
					return err
				}
				repos.Collect(item)
				result.Reclassified++
			}
			return nil
		})
		if err != nil {
			return result, err
		}
		if pageLen < s.pageSize {
			break
		}
		filter.Page++
	}

	logger.L(ctx).Info("expiration sweep finished",
		zap.String("tenant_id", sc.TenantID.String()),
		zap.Int("scanned", result.Scanned),
		zap.Int("reclassified", result.Reclassified),
	)
	return result, nil
}
