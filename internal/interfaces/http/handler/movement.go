package handler

import (
	movementapp "github.com/warehub/backend/internal/application/movement"
	"github.com/gin-gonic/gin"
)

// MovementHandler handles two-phase stock movement endpoints
type MovementHandler struct {
	BaseHandler
	movementService *movementapp.MovementService
}

// NewMovementHandler creates a new MovementHandler
func NewMovementHandler(movementService *movementapp.MovementService) *MovementHandler {
	return &MovementHandler{movementService: movementService}
}

// Initiate godoc
// @ID           initiateMovement
//
//	@Summary		Initiate a stock movement
//	@Description	Opens the movement in INITIATED state; stock stays at the source until completion. The item can be named directly or resolved FEFO from product and source location.
//	@Tags			movements
//	@Accept			json
//	@Produce		json
//	@Param			request	body		movementapp.InitiateMovementRequest	true	"Movement initiation request"
//	@Success		201		{object}	APIResponse[movementapp.MovementResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/movements [post]
func (h *MovementHandler) Initiate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req movementapp.InitiateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.TenantID = tenantID

	resp, err := h.movementService.Initiate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Complete godoc
// @ID           completeMovement
//
//	@Summary		Complete a pending movement
//	@Description	Re-validates both endpoints, relocates the stock and flips source/destination statuses.
//	@Tags			movements
//	@Produce		json
//	@Param			id	path		string	true	"Movement ID"
//	@Success		200	{object}	APIResponse[movementapp.MovementResponse]
//	@Failure		409	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/movements/{id}/complete [post]
func (h *MovementHandler) Complete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	movementID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid movement ID")
		return
	}

	resp, err := h.movementService.Complete(c.Request.Context(), movementapp.CompleteMovementRequest{
		TenantID:   tenantID,
		MovementID: movementID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CancelMovementBody carries the mandatory cancellation reason
//
//	@Description	Request body for cancelling a movement
type CancelMovementBody struct {
	Reason string `json:"reason" binding:"required,min=1,max=500" example:"Destination rack blocked for inspection"`
}

// Cancel godoc
// @ID           cancelMovement
//
//	@Summary		Cancel a pending movement
//	@Description	Leaves stock at the source. Completed movements cannot be cancelled.
//	@Tags			movements
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Movement ID"
//	@Param			request	body		CancelMovementBody	true	"Cancellation request"
//	@Success		200		{object}	APIResponse[movementapp.MovementResponse]
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/movements/{id}/cancel [post]
func (h *MovementHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	movementID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid movement ID")
		return
	}

	var body CancelMovementBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.movementService.Cancel(c.Request.Context(), movementapp.CancelMovementRequest{
		TenantID:   tenantID,
		MovementID: movementID,
		Reason:     body.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get godoc
// @ID           getMovement
//
//	@Summary		Get a stock movement
//	@Tags			movements
//	@Produce		json
//	@Param			id	path		string	true	"Movement ID"
//	@Success		200	{object}	APIResponse[movementapp.MovementResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/movements/{id} [get]
func (h *MovementHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	movementID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid movement ID")
		return
	}

	resp, err := h.movementService.Get(c.Request.Context(), tenantID, movementID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listMovements
//
//	@Summary		List stock movements with filters and pagination
//	@Tags			movements
//	@Produce		json
//	@Param			stock_item_id	query		string	false	"Stock item ID"
//	@Param			location_id		query		string	false	"Source or destination location ID"
//	@Param			status			query		string	false	"Movement status"	Enums(INITIATED, COMPLETED, CANCELLED)
//	@Param			start_date		query		string	false	"Initiated on or after (YYYY-MM-DD)"
//	@Param			end_date		query		string	false	"Initiated on or before (YYYY-MM-DD)"
//	@Param			page			query		int		false	"Page number"
//	@Param			page_size		query		int		false	"Page size"
//	@Success		200				{object}	APIResponse[[]movementapp.MovementResponse]
//	@Security		BearerAuth
//	@Router			/movements [get]
func (h *MovementHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var filter movementapp.MovementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.movementService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListPending godoc
// @ID           listPendingMovements
//
//	@Summary		List movements still awaiting completion
//	@Tags			movements
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]movementapp.MovementResponse]
//	@Security		BearerAuth
//	@Router			/movements/pending [get]
func (h *MovementHandler) ListPending(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.movementService.ListPending(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
