package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assettrack/internal/core/entity"
	"assettrack/internal/domain"
	"assettrack/internal/infrastructure/http/v1/dto"
)

// Resource is an entity served by the generic record handler.
type Resource interface {
	entity.Validatable
	Base() *entity.Record
}

// RecordHandler provides generic CRUD endpoints for an entity type.
// Entities serialize through their json tags, so no per-entity DTO
// mapping is needed for the plain catalogs.
type RecordHandler[T Resource] struct {
	*BaseHandler
	service *domain.RecordService[T]
	newFn   func() T
}

// NewRecordHandler creates a record handler.
func NewRecordHandler[T Resource](base *BaseHandler, service *domain.RecordService[T], newFn func() T) *RecordHandler[T] {
	return &RecordHandler[T]{
		BaseHandler: base,
		service:     service,
		newFn:       newFn,
	}
}

// List handles GET /{entity} with filtering, ordering and pagination.
func (h *RecordHandler[T]) List(c *gin.Context) {
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

// Get handles GET /{entity}/:id.
func (h *RecordHandler[T]) Get(c *gin.Context) {
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

// Create handles POST /{entity}. Base record fields from the payload
// are discarded; the server assigns identity.
func (h *RecordHandler[T]) Create(c *gin.Context) {
	rec := h.newFn()
	if !h.BindJSON(c, rec) {
		return
	}
	*rec.Base() = entity.NewRecord()

	if err := h.service.Create(c.Request.Context(), rec); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// Update handles PUT /{entity}/:id. Fields absent from the payload
// keep their stored values. A payload version participates in
// optimistic locking; omitting it updates against the stored version.
func (h *RecordHandler[T]) Update(c *gin.Context) {
	recID, ok := h.PathID(c)
	if !ok {
		return
	}

	rec, err := h.service.GetByID(c.Request.Context(), recID)
	if err != nil {
		h.Error(c, err)
		return
	}
	stored := *rec.Base()

	if !h.BindJSON(c, rec) {
		return
	}
	base := rec.Base()
	base.ID = recID
	base.Active = stored.Active
	if base.Version == 0 {
		base.Version = stored.Version
	}

	if err := h.service.Update(c.Request.Context(), rec); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rec)
}

// Delete handles DELETE /{entity}/:id (soft delete).
func (h *RecordHandler[T]) Delete(c *gin.Context) {
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
