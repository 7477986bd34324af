package handlers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"

	"assettrack/internal/core/apperror"
	"assettrack/internal/domain/blob"
)

const maxUploadSize = 32 << 20 // per file

// isMultipart reports whether the request carries a multipart form.
func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// bindPayload decodes the request body into obj. Multipart requests
// carry the JSON document in the "data" form field so files can ride
// alongside it; plain requests are ordinary JSON bodies.
func (h *BaseHandler) bindPayload(c *gin.Context, obj any) bool {
	if !isMultipart(c) {
		return h.BindJSON(c, obj)
	}

	data := c.PostForm("data")
	if data == "" {
		h.Error(c, apperror.NewValidation("missing data form field"))
		return false
	}
	if err := json.Unmarshal([]byte(data), obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid data form field").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// formUploads reads every file under the named multipart field.
func (h *BaseHandler) formUploads(c *gin.Context, field string) ([]blob.Upload, bool) {
	if !isMultipart(c) {
		return nil, true
	}
	form, err := c.MultipartForm()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid multipart form").WithDetail("error", err.Error()))
		return nil, false
	}

	var ups []blob.Upload
	for _, fh := range form.File[field] {
		up, err := readUpload(fh)
		if err != nil {
			h.Error(c, err)
			return nil, false
		}
		ups = append(ups, up)
	}
	return ups, true
}

// formUpload reads a single optional file under the named field.
func (h *BaseHandler) formUpload(c *gin.Context, field string) (*blob.Upload, bool) {
	ups, ok := h.formUploads(c, field)
	if !ok {
		return nil, false
	}
	if len(ups) == 0 {
		return nil, true
	}
	return &ups[0], true
}

func readUpload(fh *multipart.FileHeader) (blob.Upload, error) {
	if fh.Size > maxUploadSize {
		return blob.Upload{}, apperror.NewValidation("file too large").
			WithDetail("file", fh.Filename).
			WithDetail("max_bytes", maxUploadSize)
	}

	f, err := fh.Open()
	if err != nil {
		return blob.Upload{}, apperror.NewInternal(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return blob.Upload{}, apperror.NewInternal(err)
	}

	return blob.Upload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
