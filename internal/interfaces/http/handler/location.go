package handler

import (
	"context"

	locationapp "github.com/warehub/backend/internal/application/location"
	"github.com/warehub/backend/internal/domain/location"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LocationHandler handles location-related API endpoints
type LocationHandler struct {
	BaseHandler
	locationService *locationapp.LocationService
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(locationService *locationapp.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// Create godoc
// @ID           createLocation
//
//	@Summary		Create a new storage location
//	@Description	Create a warehouse, zone, aisle, rack or bin. The barcode is auto-generated when omitted.
//	@Tags			locations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		locationapp.CreateLocationRequest	true	"Location creation request"
//	@Success		201		{object}	APIResponse[locationapp.LocationResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/locations [post]
func (h *LocationHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req locationapp.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.TenantID = tenantID

	resp, err := h.locationService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
// @ID           getLocation
//
//	@Summary		Get a location with its hierarchy path
//	@Tags			locations
//	@Produce		json
//	@Param			id	path		string	true	"Location ID"
//	@Success		200	{object}	APIResponse[locationapp.LocationResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/locations/{id} [get]
func (h *LocationHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	locationID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid location ID")
		return
	}

	resp, err := h.locationService.Get(c.Request.Context(), tenantID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByBarcode godoc
// @ID           getLocationByBarcode
//
//	@Summary		Look up a location by barcode
//	@Tags			locations
//	@Produce		json
//	@Param			barcode	path		string	true	"Location barcode"
//	@Success		200		{object}	APIResponse[locationapp.LocationResponse]
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/locations/barcode/{barcode} [get]
func (h *LocationHandler) GetByBarcode(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.locationService.GetByBarcode(c.Request.Context(), tenantID, c.Param("barcode"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listLocations
//
//	@Summary		List locations with filters and pagination
//	@Tags			locations
//	@Produce		json
//	@Param			type		query		string	false	"Location type"	Enums(WAREHOUSE, ZONE, AISLE, RACK, BIN)
//	@Param			status		query		string	false	"Location status"	Enums(AVAILABLE, OCCUPIED, RESERVED, BLOCKED)
//	@Param			parent_id	query		string	false	"Parent location ID"
//	@Param			page		query		int		false	"Page number"
//	@Param			page_size	query		int		false	"Page size"
//	@Success		200			{object}	APIResponse[[]locationapp.LocationResponse]
//	@Security		BearerAuth
//	@Router			/locations [get]
func (h *LocationHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var filter locationapp.LocationListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.locationService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetAvailable godoc
// @ID           getAvailableLocations
//
//	@Summary		List bins that can still take stock
//	@Tags			locations
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]locationapp.LocationResponse]
//	@Security		BearerAuth
//	@Router			/locations/available [get]
func (h *LocationHandler) GetAvailable(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.locationService.GetAvailableBins(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetHierarchy godoc
// @ID           getLocationHierarchy
//
//	@Summary		Reconstruct the location tree
//	@Tags			locations
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]locationapp.LocationHierarchyNode]
//	@Security		BearerAuth
//	@Router			/locations/hierarchy [get]
func (h *LocationHandler) GetHierarchy(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.locationService.GetHierarchy(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetChildren godoc
// @ID           getLocationChildren
//
//	@Summary		List the direct children of a location
//	@Tags			locations
//	@Produce		json
//	@Param			id	path		string	true	"Parent location ID"
//	@Success		200	{object}	APIResponse[[]locationapp.LocationResponse]
//	@Security		BearerAuth
//	@Router			/locations/{id}/children [get]
func (h *LocationHandler) GetChildren(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	parentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid location ID")
		return
	}

	resp, err := h.locationService.GetChildren(c.Request.Context(), tenantID, parentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatusRequest represents an operator-driven status change
//
//	@Description	Request body for updating a location's status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=AVAILABLE OCCUPIED RESERVED BLOCKED" example:"RESERVED"`
	Reason string `json:"reason" binding:"omitempty,max=500" example:"Reserved for inbound consignment"`
}

// UpdateStatus godoc
// @ID           updateLocationStatus
//
//	@Summary		Update a location's status
//	@Description	Drive the location status machine. Blocking requires a reason.
//	@Tags			locations
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Location ID"
//	@Param			request	body		UpdateStatusRequest	true	"Status change request"
//	@Success		200		{object}	APIResponse[locationapp.LocationResponse]
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/locations/{id}/status [put]
func (h *LocationHandler) UpdateStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	locationID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid location ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.locationService.UpdateStatus(c.Request.Context(), locationapp.UpdateLocationStatusRequest{
		TenantID:   tenantID,
		LocationID: locationID,
		Status:     location.LocationStatus(req.Status),
		Reason:     req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// BlockRequest carries the mandatory reason for blocking a location
//
//	@Description	Request body for blocking a location
type BlockRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500" example:"Damaged racking, pending inspection"`
}

// Block godoc
// @ID           blockLocation
//
//	@Summary		Block a location
//	@Tags			locations
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Location ID"
//	@Param			request	body		BlockRequest	true	"Block request"
//	@Success		200		{object}	APIResponse[locationapp.LocationResponse]
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/locations/{id}/block [post]
func (h *LocationHandler) Block(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	locationID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid location ID")
		return
	}

	var req BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.locationService.Block(c.Request.Context(), locationapp.BlockLocationRequest{
		TenantID:   tenantID,
		LocationID: locationID,
		Reason:     req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Unblock godoc
// @ID           unblockLocation
//
//	@Summary		Unblock a location
//	@Tags			locations
//	@Produce		json
//	@Param			id	path		string	true	"Location ID"
//	@Success		200	{object}	APIResponse[locationapp.LocationResponse]
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/locations/{id}/unblock [post]
func (h *LocationHandler) Unblock(c *gin.Context) {
	h.statusAction(c, h.locationService.Unblock)
}

// Reserve godoc
// @ID           reserveLocation
//
//	@Summary		Reserve an available location
//	@Tags			locations
//	@Produce		json
//	@Param			id	path		string	true	"Location ID"
//	@Success		200	{object}	APIResponse[locationapp.LocationResponse]
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/locations/{id}/reserve [post]
func (h *LocationHandler) Reserve(c *gin.Context) {
	h.statusAction(c, h.locationService.Reserve)
}

// Release godoc
// @ID           releaseLocation
//
//	@Summary		Release a reserved location
//	@Tags			locations
//	@Produce		json
//	@Param			id	path		string	true	"Location ID"
//	@Success		200	{object}	APIResponse[locationapp.LocationResponse]
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/locations/{id}/release [post]
func (h *LocationHandler) Release(c *gin.Context) {
	h.statusAction(c, h.locationService.Release)
}

// AssignFEFO godoc
// @ID           assignLocationsFEFO
//
//	@Summary		Assign stock items to bins, earliest expiry first
//	@Description	Matches unassigned stock items to bins with free capacity. Items that fit nowhere come back unassigned; expired items are excluded.
//	@Tags			locations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		locationapp.AssignLocationsFEFORequest	true	"FEFO assignment request"
//	@Success		200		{object}	APIResponse[locationapp.FEFOAssignmentResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/locations/assign-fefo [post]
func (h *LocationHandler) AssignFEFO(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req locationapp.AssignLocationsFEFORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.TenantID = tenantID

	resp, err := h.locationService.AssignLocationsFEFO(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// statusAction runs one of the parameterless status transitions
func (h *LocationHandler) statusAction(
	c *gin.Context,
	action func(ctx context.Context, tenantID, locationID uuid.UUID) (*locationapp.LocationResponse, error),
) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	locationID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid location ID")
		return
	}

	resp, err := action(c.Request.Context(), tenantID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
