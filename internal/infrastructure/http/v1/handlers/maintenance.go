package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assettrack/internal/core/entity"
	"assettrack/internal/domain/maintenance"
	"assettrack/internal/infrastructure/http/v1/dto"
)

// MaintenanceHandler serves maintenance event endpoints.
type MaintenanceHandler struct {
	*BaseHandler
	service *maintenance.Service
}

// NewMaintenanceHandler creates a maintenance handler.
func NewMaintenanceHandler(base *BaseHandler, service *maintenance.Service) *MaintenanceHandler {
	return &MaintenanceHandler{BaseHandler: base, service: service}
}

// List handles GET /maintenances.
func (h *MaintenanceHandler) List(c *gin.Context) {
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

// Get handles GET /maintenances/:id.
func (h *MaintenanceHandler) Get(c *gin.Context) {
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

// Create handles POST /maintenances. Accepts JSON or multipart with
// the document in "data" and files in "attachments".
func (h *MaintenanceHandler) Create(c *gin.Context) {
	var rec maintenance.Maintenance
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

// Update handles PUT /maintenances/:id.
func (h *MaintenanceHandler) Update(c *gin.Context) {
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

// Delete handles DELETE /maintenances/:id. The owning product's
// status is re-derived from the remaining records.
func (h *MaintenanceHandler) Delete(c *gin.Context) {
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
