package handler

import (
	"time"

	"github.com/warehub/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// downloadURLTTL is how long a presigned report download link stays valid
const downloadURLTTL = 15 * time.Minute

// ReportHandler handles expiring-stock report endpoints. The scheduler
// produces these reports nightly; the endpoints cover on-demand generation
// and archive retrieval.
type ReportHandler struct {
	BaseHandler
	reportService *report.ExpiringStockReportService
	sweepService  *report.SweepService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *report.ExpiringStockReportService, sweepService *report.SweepService) *ReportHandler {
	return &ReportHandler{reportService: reportService, sweepService: sweepService}
}

// GenerateExpiringStock godoc
// @ID           generateExpiringStockReport
//
//	@Summary		Generate today's expiring stock report
//	@Description	Builds the report on demand and uploads it to the archive, replacing any report already stored for today.
//	@Tags			reports
//	@Produce		json
//	@Success		201	{object}	APIResponse[report.ReportSummary]
//	@Failure		502	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/reports/expiring-stock [post]
func (h *ReportHandler) GenerateExpiringStock(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	summary, err := h.reportService.Generate(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, summary)
}

// DownloadExpiringStock godoc
// @ID           downloadExpiringStockReport
//
//	@Summary		Get a download link for an archived report
//	@Description	Returns a time-limited presigned URL. Defaults to today's report when no date is given.
//	@Tags			reports
//	@Produce		json
//	@Param			date	query		string	false	"Report date (YYYY-MM-DD)"
//	@Success		200		{object}	APIResponse[map[string]string]
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/reports/expiring-stock/download [get]
func (h *ReportHandler) DownloadExpiringStock(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	reportDate := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "date must be formatted YYYY-MM-DD")
			return
		}
		reportDate = parsed
	}

	url, expiresAt, err := h.reportService.DownloadURL(c.Request.Context(), tenantID, reportDate, downloadURLTTL)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"download_url": url,
		"expires_at":   expiresAt.Format(time.RFC3339),
	})
}

// RunSweep godoc
// @ID           runExpirationSweep
//
//	@Summary		Run the expiration reclassification sweep now
//	@Description	Walks every dated stock item and reclassifies the ones whose window drifted. The scheduler runs the same sweep nightly.
//	@Tags			reports
//	@Produce		json
//	@Success		200	{object}	APIResponse[map[string]int]
//	@Security		BearerAuth
//	@Router			/reports/expiration-sweep [post]
func (h *ReportHandler) RunSweep(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.sweepService.SweepTenant(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"scanned":      result.Scanned,
		"reclassified": result.Reclassified,
	})
}
