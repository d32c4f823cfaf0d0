package handler

import (
	"net/http"

	"github.com/warehub/backend/internal/application/label"
	"github.com/gin-gonic/gin"
)

// LabelHandler handles location label rendering endpoints
type LabelHandler struct {
	BaseHandler
	labelService *label.Service
}

// NewLabelHandler creates a new LabelHandler
func NewLabelHandler(labelService *label.Service) *LabelHandler {
	return &LabelHandler{labelService: labelService}
}

// RenderLocationLabels godoc
// @ID           renderLocationLabels
//
//	@Summary		Render a PDF barcode label sheet for locations
//	@Description	One Code 128 label per location, ready for rack and bin signage. Returns the PDF directly.
//	@Tags			locations
//	@Accept			json
//	@Produce		application/pdf
//	@Param			request	body	label.RenderLabelsRequest	true	"Label render request"
//	@Success		200		{file}	binary
//	@Failure		404		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/locations/labels [post]
func (h *LabelHandler) RenderLocationLabels(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req label.RenderLabelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.TenantID = tenantID

	sheet, err := h.labelService.RenderLocationLabels(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+sheet.Filename+`"`)
	c.Data(http.StatusOK, "application/pdf", sheet.PDF)
}
