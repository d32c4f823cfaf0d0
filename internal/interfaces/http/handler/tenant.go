package handler

import (
	tenantapp "github.com/warehub/backend/internal/application/tenant"
	"github.com/gin-gonic/gin"
)

// TenantHandler handles platform-level tenant administration. These routes
// sit outside the tenant-scoped API group and require the platform_admin role.
type TenantHandler struct {
	BaseHandler
	tenantService *tenantapp.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *tenantapp.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// Create godoc
// @ID           createTenant
//
//	@Summary		Onboard a new tenant
//	@Description	Registers the tenant and provisions its dedicated schema.
//	@Tags			tenants
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tenantapp.CreateTenantRequest	true	"Tenant creation request"
//	@Success		201		{object}	APIResponse[tenantapp.TenantResponse]
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/tenants [post]
func (h *TenantHandler) Create(c *gin.Context) {
	var req tenantapp.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.tenantService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
// @ID           getTenant
//
//	@Summary		Get a tenant
//	@Tags			tenants
//	@Produce		json
//	@Param			id	path		string	true	"Tenant ID"
//	@Success		200	{object}	APIResponse[tenantapp.TenantResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/tenants/{id} [get]
func (h *TenantHandler) Get(c *gin.Context) {
	tenantID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	resp, err := h.tenantService.Get(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetBySlug godoc
// @ID           getTenantBySlug
//
//	@Summary		Look up a tenant by slug
//	@Tags			tenants
//	@Produce		json
//	@Param			slug	path		string	true	"Tenant slug"
//	@Success		200		{object}	APIResponse[tenantapp.TenantResponse]
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/tenants/slug/{slug} [get]
func (h *TenantHandler) GetBySlug(c *gin.Context) {
	resp, err := h.tenantService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listTenants
//
//	@Summary		List tenants
//	@Tags			tenants
//	@Produce		json
//	@Param			page		query		int	false	"Page number"
//	@Param			page_size	query		int	false	"Page size"
//	@Success		200			{object}	APIResponse[[]tenantapp.TenantResponse]
//	@Security		BearerAuth
//	@Router			/tenants [get]
func (h *TenantHandler) List(c *gin.Context) {
	var filter tenantapp.TenantListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.tenantService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Rename godoc
// @ID           renameTenant
//
//	@Summary		Rename a tenant
//	@Tags			tenants
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Tenant ID"
//	@Param			request	body		tenantapp.RenameTenantRequest	true	"Rename request"
//	@Success		200		{object}	APIResponse[tenantapp.TenantResponse]
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/tenants/{id}/name [put]
func (h *TenantHandler) Rename(c *gin.Context) {
	tenantID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req tenantapp.RenameTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.TenantID = tenantID

	resp, err := h.tenantService.Rename(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus godoc
// @ID           updateTenantStatus
//
//	@Summary		Update a tenant's lifecycle status
//	@Description	Suspended and inactive tenants are rejected at the API boundary.
//	@Tags			tenants
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Tenant ID"
//	@Param			request	body		tenantapp.UpdateTenantStatusRequest	true	"Status change request"
//	@Success		200		{object}	APIResponse[tenantapp.TenantResponse]
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/tenants/{id}/status [put]
func (h *TenantHandler) UpdateStatus(c *gin.Context) {
	tenantID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req tenantapp.UpdateTenantStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.TenantID = tenantID

	resp, err := h.tenantService.UpdateStatus(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Provision godoc
// @ID           provisionTenant
//
//	@Summary		Provision or re-run schema provisioning for a tenant
//	@Description	Idempotent; safe to call for an already-provisioned tenant.
//	@Tags			tenants
//	@Produce		json
//	@Param			id	path		string	true	"Tenant ID"
//	@Success		200	{object}	APIResponse[tenantapp.TenantResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/tenants/{id}/provision [post]
func (h *TenantHandler) Provision(c *gin.Context) {
	tenantID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	resp, err := h.tenantService.Provision(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
