package handler

import (
	restockapp "github.com/warehub/backend/internal/application/restock"
	"github.com/gin-gonic/gin"
)

// RestockHandler handles restock request endpoints
type RestockHandler struct {
	BaseHandler
	restockService *restockapp.RestockService
}

// NewRestockHandler creates a new RestockHandler
func NewRestockHandler(restockService *restockapp.RestockService) *RestockHandler {
	return &RestockHandler{restockService: restockService}
}

// Get godoc
// @ID           getRestockRequest
//
//	@Summary		Get a restock request
//	@Tags			restock
//	@Produce		json
//	@Param			id	path		string	true	"Restock request ID"
//	@Success		200	{object}	APIResponse[restockapp.RestockResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/restock-requests/{id} [get]
func (h *RestockHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	requestID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid restock request ID")
		return
	}

	resp, err := h.restockService.Get(c.Request.Context(), tenantID, requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listRestockRequests
//
//	@Summary		List restock requests with filters and pagination
//	@Tags			restock
//	@Produce		json
//	@Param			product_id	query		string	false	"Product ID"
//	@Param			status		query		string	false	"Request status"	Enums(PENDING, SENT_TO_D365, FULFILLED, CANCELLED)
//	@Param			page		query		int		false	"Page number"
//	@Param			page_size	query		int		false	"Page size"
//	@Success		200			{object}	APIResponse[[]restockapp.RestockResponse]
//	@Security		BearerAuth
//	@Router			/restock-requests [get]
func (h *RestockHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var filter restockapp.RestockListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.restockService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListPending godoc
// @ID           listPendingRestockRequests
//
//	@Summary		List restock requests not yet sent to the ERP
//	@Tags			restock
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]restockapp.RestockResponse]
//	@Security		BearerAuth
//	@Router			/restock-requests/pending [get]
func (h *RestockHandler) ListPending(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.restockService.ListPending(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Send godoc
// @ID           sendRestockRequest
//
//	@Summary		Send a pending restock request to the ERP
//	@Description	Submits the purchase order to Dynamics 365 and records the returned order reference.
//	@Tags			restock
//	@Produce		json
//	@Param			id	path		string	true	"Restock request ID"
//	@Success		200	{object}	APIResponse[restockapp.RestockResponse]
//	@Failure		422	{object}	ErrorResponse
//	@Failure		502	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/restock-requests/{id}/send [post]
func (h *RestockHandler) Send(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	requestID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid restock request ID")
		return
	}

	resp, err := h.restockService.Send(c.Request.Context(), restockapp.SendRestockRequest{
		TenantID:  tenantID,
		RequestID: requestID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Fulfill godoc
// @ID           fulfillRestockRequest
//
//	@Summary		Mark a sent restock request as fulfilled
//	@Description	Accepts either the request ID in the path or an ERP order reference in the body; used by the delivery-received flow.
//	@Tags			restock
//	@Accept			json
//	@Produce		json
//	@Param			request	body		restockapp.FulfillRestockRequest	true	"Fulfillment request"
//	@Success		200		{object}	APIResponse[restockapp.RestockResponse]
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/restock-requests/fulfill [post]
func (h *RestockHandler) Fulfill(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req restockapp.FulfillRestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.RequestID == nil && req.OrderReference == "" {
		h.BadRequest(c, "Either request_id or order_reference is required")
		return
	}
	req.TenantID = tenantID

	resp, err := h.restockService.Fulfill(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel godoc
// @ID           cancelRestockRequest
//
//	@Summary		Cancel a restock request
//	@Description	Fulfilled requests cannot be cancelled.
//	@Tags			restock
//	@Produce		json
//	@Param			id	path		string	true	"Restock request ID"
//	@Success		200	{object}	APIResponse[restockapp.RestockResponse]
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/restock-requests/{id}/cancel [post]
func (h *RestockHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	requestID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid restock request ID")
		return
	}

	resp, err := h.restockService.Cancel(c.Request.Context(), restockapp.CancelRestockRequest{
		TenantID:  tenantID,
		RequestID: requestID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
