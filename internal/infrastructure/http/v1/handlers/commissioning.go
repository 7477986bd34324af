package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assettrack/internal/core/entity"
	"assettrack/internal/domain/commissioning"
	"assettrack/internal/infrastructure/http/v1/dto"
	"assettrack/internal/infrastructure/storage/postgres"
)

// CommissioningHandler serves commissioning event endpoints.
type CommissioningHandler struct {
	*BaseHandler
	service  *commissioning.Service
	activity *postgres.ActivityService
}

// NewCommissioningHandler creates a commissioning handler.
func NewCommissioningHandler(base *BaseHandler, service *commissioning.Service, activity *postgres.ActivityService) *CommissioningHandler {
	return &CommissioningHandler{BaseHandler: base, service: service, activity: activity}
}

// List handles GET /commissionings.
func (h *CommissioningHandler) List(c *gin.Context) {
	var params dto.ListParams
	if !h.BindQuery(c, &params) {
		return
	}
	q, err := params.ToQuery()
	if err != nil {
		h.Error(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, page)
}

// Get handles GET /commissionings/:id.
func (h *CommissioningHandler) Get(c *gin.Context) {
	recID, ok := h.PathID(c)
	if !ok {
		return
	}

	rec, err := h.service.GetByID(c.Request.Context(), recID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rec)
}

// Create handles POST /commissionings. Accepts JSON or multipart with
// the document in "data" and files in "attachments".
func (h *CommissioningHandler) Create(c *gin.Context) {
	var rec commissioning.Commissioning
	if !h.bindPayload(c, &rec) {
		return
	}
	rec.Record = entity.NewRecord()

	attachments, ok := h.formUploads(c, "attachments")
	if !ok {
		return
	}

	if err := h.service.Create(c.Request.Context(), &rec, attachments); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, &rec)
}

// Update handles PUT /commissionings/:id.
func (h *CommissioningHandler) Update(c *gin.Context) {
	recID, ok := h.PathID(c)
	if !ok {
		return
	}

	rec, err := h.service.GetByID(c.Request.Context(), recID)
	if err != nil {
		h.Error(c, err)
		return
	}
	stored := rec.Record

	if !h.bindPayload(c, rec) {
		return
	}
	rec.ID = recID
	rec.Active = stored.Active
	if rec.Version == 0 {
		rec.Version = stored.Version
	}

	attachments, ok := h.formUploads(c, "attachments")
	if !ok {
		return
	}

	if err := h.service.Update(c.Request.Context(), rec, attachments); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rec)
}

// Delete handles DELETE /commissionings/:id. The owning product's
// status is re-derived from the remaining records.
func (h *CommissioningHandler) Delete(c *gin.Context) {
	recID, ok := h.PathID(c)
	if !ok {
		return
	}

	deleted, err := h.service.Delete(c.Request.Context(), recID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Deleted(c, deleted)
}

// Decommission handles POST /commissionings/:id/decommission, retiring
// the record and marking the owning product decommissioned.
func (h *CommissioningHandler) Decommission(c *gin.Context) {
	recID, ok := h.PathID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.service.Decommission(ctx, recID); err != nil {
		h.Error(c, err)
		return
	}
	if h.activity != nil {
		_ = h.activity.LogChange(ctx, "commissioning", recID, postgres.ActionDecommission, nil)
	}
	c.Status(http.StatusNoContent)
}
