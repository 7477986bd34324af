package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assettrack/internal/core/apperror"
	"assettrack/internal/domain/blob"
	"assettrack/internal/infrastructure/http/v1/dto"
)

// FileHandler serves standalone file upload and download.
type FileHandler struct {
	*BaseHandler
	store blob.Store
}

// NewFileHandler creates a file handler.
func NewFileHandler(base *BaseHandler, store blob.Store) *FileHandler {
	return &FileHandler{BaseHandler: base, store: store}
}

// Upload handles POST /files with one or more "files" multipart parts.
// Returns references in input order.
func (h *FileHandler) Upload(c *gin.Context) {
	ups, ok := h.formUploads(c, "files")
	if !ok {
		return
	}
	if len(ups) == 0 {
		h.Error(c, apperror.NewValidation("no files provided"))
		return
	}

	refs, err := h.store.UploadAll(c.Request.Context(), ups)
	if err != nil {
		h.Error(c, err)
		return
	}

	ids := make([]dto.IDResponse, len(refs))
	for i, ref := range refs {
		ids[i] = dto.IDResponse{ID: ref.String()}
	}
	c.JSON(http.StatusCreated, gin.H{"files": ids})
}

// Download handles GET /files/:id, streaming the stored payload.
func (h *FileHandler) Download(c *gin.Context) {
	ref, ok := h.PathID(c)
	if !ok {
		return
	}

	file, data, err := h.store.Download(c.Request.Context(), ref)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	c.Data(http.StatusOK, file.ContentType, data)
}
