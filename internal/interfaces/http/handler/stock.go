package handler

import (
	"strconv"

	stockapp "github.com/warehub/backend/internal/application/stock"
	"github.com/warehub/backend/internal/domain/stock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockHandler handles stock, consignment, allocation and threshold endpoints
type StockHandler struct {
	BaseHandler
	stockService *stockapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *stockapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// CreateConsignment godoc
// @ID           createConsignment
//
//	@Summary		Book an incoming consignment
//	@Description	Registers the consignment and creates one stock item per position. Items land unassigned; run FEFO assignment to place them.
//	@Tags			stock
//	@Accept			json
//	@Produce		json
//	@Param			request	body		stockapp.CreateConsignmentRequest	true	"Consignment intake request"
//	@Success		201		{object}	APIResponse[stockapp.ConsignmentIntakeResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/consignments [post]
func (h *StockHandler) CreateConsignment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req stockapp.CreateConsignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.TenantID = tenantID

	resp, err := h.stockService.CreateConsignment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// CloseConsignment godoc
// @ID           closeConsignment
//
//	@Summary		Close a consignment
//	@Description	Closing is idempotent in effect but a second close is rejected as an invalid transition.
//	@Tags			stock
//	@Produce		json
//	@Param			id	path		string	true	"Consignment ID"
//	@Success		200	{object}	APIResponse[stockapp.ConsignmentResponse]
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/consignments/{id}/close [post]
func (h *StockHandler) CloseConsignment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	consignmentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid consignment ID")
		return
	}

	resp, err := h.stockService.CloseConsignment(c.Request.Context(), tenantID, consignmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListConsignments godoc
// @ID           listConsignments
//
//	@Summary		List consignments
//	@Tags			stock
//	@Produce		json
//	@Param			status		query		string	false	"Consignment status"	Enums(OPEN, CLOSED)
//	@Param			supplier	query		string	false	"Supplier name"
//	@Param			page		query		int		false	"Page number"
//	@Param			page_size	query		int		false	"Page size"
//	@Success		200			{object}	APIResponse[[]stockapp.ConsignmentResponse]
//	@Security		BearerAuth
//	@Router			/consignments [get]
func (h *StockHandler) ListConsignments(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var filter stockapp.ConsignmentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.stockService.ListConsignments(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetStockItem godoc
// @ID           getStockItem
//
//	@Summary		Get a stock item
//	@Tags			stock
//	@Produce		json
//	@Param			id	path		string	true	"Stock item ID"
//	@Success		200	{object}	APIResponse[stockapp.StockItemResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/stock-items/{id} [get]
func (h *StockHandler) GetStockItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	itemID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID")
		return
	}

	resp, err := h.stockService.GetStockItem(c.Request.Context(), tenantID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListStockItems godoc
// @ID           listStockItems
//
//	@Summary		List stock items with filters and pagination
//	@Tags			stock
//	@Produce		json
//	@Param			product_id		query		string	false	"Product ID"
//	@Param			location_id		query		string	false	"Location ID"
//	@Param			consignment_id	query		string	false	"Consignment ID"
//	@Param			classification	query		string	false	"Expiration classification"	Enums(EXPIRED, CRITICAL, NEAR_EXPIRY, NORMAL, EXTENDED_SHELF_LIFE)
//	@Param			unassigned		query		bool	false	"Only items without a location"
//	@Param			page			query		int		false	"Page number"
//	@Param			page_size		query		int		false	"Page size"
//	@Success		200				{object}	APIResponse[[]stockapp.StockItemResponse]
//	@Security		BearerAuth
//	@Router			/stock-items [get]
func (h *StockHandler) ListStockItems(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var filter stockapp.StockItemListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.stockService.ListStockItems(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// UpdateExpiration godoc
// @ID           updateStockItemExpiration
//
//	@Summary		Update a stock item's expiration date
//	@Description	Reclassifies the item immediately. A null date clears expiry tracking.
//	@Tags			stock
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string										true	"Stock item ID"
//	@Param			request	body		stockapp.UpdateExpirationDateRequest	true	"Expiration update request"
//	@Success		200		{object}	APIResponse[stockapp.StockItemResponse]
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/stock-items/{id}/expiration [put]
func (h *StockHandler) UpdateExpiration(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	itemID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID")
		return
	}

	var req stockapp.UpdateExpirationDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.TenantID = tenantID
	req.StockItemID = itemID

	resp, err := h.stockService.UpdateExpirationDate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AdjustQuantity godoc
// @ID           adjustStockQuantity
//
//	@Summary		Adjust a stock item's quantity
//	@Description	Records a manual correction with its reason. The new quantity cannot fall below the allocated quantity.
//	@Tags			stock
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Stock item ID"
//	@Param			request	body		stockapp.AdjustQuantityRequest	true	"Adjustment request"
//	@Success		200		{object}	APIResponse[stockapp.StockItemResponse]
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/stock-items/{id}/adjust [post]
func (h *StockHandler) AdjustQuantity(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	itemID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID")
		return
	}

	var req stockapp.AdjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.TenantID = tenantID
	req.StockItemID = itemID

	resp, err := h.stockService.AdjustQuantity(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListAdjustments godoc
// @ID           listStockAdjustments
//
//	@Summary		List the adjustment history of a stock item
//	@Tags			stock
//	@Produce		json
//	@Param			id	path		string	true	"Stock item ID"
//	@Success		200	{object}	APIResponse[[]stockapp.AdjustmentResponse]
//	@Security		BearerAuth
//	@Router			/stock-items/{id}/adjustments [get]
func (h *StockHandler) ListAdjustments(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	itemID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID")
		return
	}

	resp, err := h.stockService.ListAdjustments(c.Request.Context(), tenantID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Allocate godoc
// @ID           allocateStock
//
//	@Summary		Allocate a quantity of a stock item
//	@Description	Holds the quantity against the item. Expired items cannot be allocated.
//	@Tags			stock
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Stock item ID"
//	@Param			request	body		stockapp.AllocateStockRequest	true	"Allocation request"
//	@Success		201		{object}	APIResponse[stockapp.AllocationResponse]
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/stock-items/{id}/allocate [post]
func (h *StockHandler) Allocate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	itemID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID")
		return
	}

	var req stockapp.AllocateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.TenantID = tenantID
	req.StockItemID = itemID

	resp, err := h.stockService.Allocate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ReleaseAllocation godoc
// @ID           releaseAllocation
//
//	@Summary		Release a stock allocation
//	@Tags			stock
//	@Produce		json
//	@Param			id	path		string	true	"Allocation ID"
//	@Success		200	{object}	APIResponse[stockapp.AllocationResponse]
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/allocations/{id}/release [post]
func (h *StockHandler) ReleaseAllocation(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	allocationID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid allocation ID")
		return
	}

	resp, err := h.stockService.ReleaseAllocation(c.Request.Context(), stockapp.ReleaseAllocationRequest{
		TenantID:     tenantID,
		AllocationID: allocationID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetThreshold godoc
// @ID           setStockThreshold
//
//	@Summary		Set the replenishment band for a product
//	@Description	Creates or replaces the minimum/maximum band. Auto-restock fires when stock drops below minimum.
//	@Tags			stock
//	@Accept			json
//	@Produce		json
//	@Param			request	body		stockapp.SetThresholdRequest	true	"Threshold request"
//	@Success		200		{object}	APIResponse[stockapp.ThresholdResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/thresholds [put]
func (h *StockHandler) SetThreshold(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req stockapp.SetThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.TenantID = tenantID

	resp, err := h.stockService.SetThreshold(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetStockLevels godoc
// @ID           getStockLevels
//
//	@Summary		Get summed stock levels for a product
//	@Description	Sums unexpired quantity across locations, or one location when location_id is given, and compares it against the replenishment band.
//	@Tags			stock
//	@Produce		json
//	@Param			product_id	query		string	true	"Product ID"
//	@Param			location_id	query		string	false	"Location ID"
//	@Success		200			{object}	APIResponse[stockapp.StockLevelResponse]
//	@Security		BearerAuth
//	@Router			/stock/levels [get]
func (h *StockHandler) GetStockLevels(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}
	locationID, ok := optionalUUIDQuery(c, "location_id")
	if !ok {
		h.BadRequest(c, "Invalid location ID")
		return
	}

	resp, err := h.stockService.GetStockLevels(c.Request.Context(), tenantID, productID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetFEFOStock godoc
// @ID           getFEFOStock
//
//	@Summary		List pickable stock for a product in FEFO order
//	@Description	Earliest expiry first, undated items last. Expired items are excluded.
//	@Tags			stock
//	@Produce		json
//	@Param			product_id	query		string	true	"Product ID"
//	@Param			location_id	query		string	false	"Location ID"
//	@Success		200			{object}	APIResponse[[]stockapp.StockItemResponse]
//	@Security		BearerAuth
//	@Router			/stock/fefo [get]
func (h *StockHandler) GetFEFOStock(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}
	locationID, ok := optionalUUIDQuery(c, "location_id")
	if !ok {
		h.BadRequest(c, "Invalid location ID")
		return
	}

	resp, err := h.stockService.GetFEFOStockItems(c.Request.Context(), tenantID, productID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetExpiringStock godoc
// @ID           getExpiringStock
//
//	@Summary		List stock expiring within a window
//	@Tags			stock
//	@Produce		json
//	@Param			within_days		query		int		false	"Window in days (default 30)"
//	@Param			classification	query		string	false	"Restrict to one classification"	Enums(EXPIRED, CRITICAL, NEAR_EXPIRY, NORMAL, EXTENDED_SHELF_LIFE)
//	@Success		200				{object}	APIResponse[[]stockapp.StockItemResponse]
//	@Security		BearerAuth
//	@Router			/stock/expiring [get]
func (h *StockHandler) GetExpiringStock(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	withinDays := 30
	if raw := c.Query("within_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.BadRequest(c, "within_days must be a positive integer")
			return
		}
		withinDays = parsed
	}

	var classification *stock.Classification
	if raw := c.Query("classification"); raw != "" {
		cls := stock.Classification(raw)
		classification = &cls
	}

	resp, err := h.stockService.GetExpiringStock(c.Request.Context(), tenantID, withinDays, classification)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByClassification godoc
// @ID           getStockByClassification
//
//	@Summary		List stock items in one expiration classification
//	@Tags			stock
//	@Produce		json
//	@Param			classification	path		string	true	"Classification"	Enums(EXPIRED, CRITICAL, NEAR_EXPIRY, NORMAL, EXTENDED_SHELF_LIFE)
//	@Success		200				{object}	APIResponse[[]stockapp.StockItemResponse]
//	@Security		BearerAuth
//	@Router			/stock/classification/{classification} [get]
func (h *StockHandler) GetByClassification(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.stockService.GetStockItemsByClassification(
		c.Request.Context(), tenantID, stock.Classification(c.Param("classification")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CheckExpiration godoc
// @ID           checkStockExpiration
//
//	@Summary		Check the expiration posture of a product at a location
//	@Tags			stock
//	@Produce		json
//	@Param			product_id	query		string	true	"Product ID"
//	@Param			location_id	query		string	true	"Location ID"
//	@Success		200			{object}	APIResponse[stockapp.ExpirationCheckResponse]
//	@Security		BearerAuth
//	@Router			/stock/expiration-check [get]
func (h *StockHandler) CheckExpiration(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}
	locationID, err := uuid.Parse(c.Query("location_id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID")
		return
	}

	resp, err := h.stockService.CheckStockExpiration(c.Request.Context(), tenantID, productID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// optionalUUIDQuery parses an optional UUID query parameter. The bool reports
// whether the raw value, when present, parsed cleanly.
func optionalUUIDQuery(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, false
	}
	return &id, true
}
