package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assettrack/internal/core/entity"
	"assettrack/internal/domain/product"
	"assettrack/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves product endpoints. Create and update accept
// either plain JSON or a multipart form carrying the JSON document in
// "data" plus optional "photo" and "attachments" files.
type ProductHandler struct {
	*BaseHandler
	service *product.Service
}

// NewProductHandler creates a product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service}
}

// List handles GET /products.
func (h *ProductHandler) List(c *gin.Context) {
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

// Get handles GET /products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	recID, ok := h.PathID(c)
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), recID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// Create handles POST /products.
func (h *ProductHandler) Create(c *gin.Context) {
	var p product.Product
	if !h.bindPayload(c, &p) {
		return
	}
	p.Record = entity.NewRecord()

	files, ok := h.readFiles(c)
	if !ok {
		return
	}

	if err := h.service.Create(c.Request.Context(), &p, files); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, &p)
}

// Update handles PUT /products/:id. The payload is a full product
// representation; new files are appended to the stored attachments.
func (h *ProductHandler) Update(c *gin.Context) {
	recID, ok := h.PathID(c)
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), recID)
	if err != nil {
		h.Error(c, err)
		return
	}
	stored := p.Record

	if !h.bindPayload(c, p) {
		return
	}
	p.ID = recID
	p.Active = stored.Active
	if p.Version == 0 {
		p.Version = stored.Version
	}

	files, ok := h.readFiles(c)
	if !ok {
		return
	}

	if err := h.service.Update(c.Request.Context(), p, files); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// Delete handles DELETE /products/:id (soft delete).
func (h *ProductHandler) Delete(c *gin.Context) {
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

// Photo handles GET /products/:id/photo, streaming the stored image.
func (h *ProductHandler) Photo(c *gin.Context) {
	recID, ok := h.PathID(c)
	if !ok {
		return
	}

	file, data, err := h.service.Photo(c.Request.Context(), recID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+file.Name+`"`)
	c.Data(http.StatusOK, file.ContentType, data)
}

// RecalculateBounds handles POST /products/:id/recalculate-bounds,
// re-deriving the maintenance window bounds from the scheduled date.
func (h *ProductHandler) RecalculateBounds(c *gin.Context) {
	recID, ok := h.PathID(c)
	if !ok {
		return
	}

	if err := h.service.Status().RecalculateBounds(c.Request.Context(), recID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "maintenance bounds recalculated")
}

func (h *ProductHandler) readFiles(c *gin.Context) (product.Files, bool) {
	photo, ok := h.formUpload(c, "photo")
	if !ok {
		return product.Files{}, false
	}
	attachments, ok := h.formUploads(c, "attachments")
	if !ok {
		return product.Files{}, false
	}
	return product.Files{Photo: photo, Attachments: attachments}, true
}
