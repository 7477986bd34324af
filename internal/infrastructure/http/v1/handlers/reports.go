package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"assettrack/internal/core/apperror"
	"assettrack/internal/domain/product"
)

// StatusReporter runs the aggregate product queries backing reports.
type StatusReporter interface {
	CountByStatus(ctx context.Context) (map[product.Status]int64, error)
	ListDueForMaintenance(ctx context.Context, cutoff time.Time) ([]*product.Product, error)
}

// ReportHandler serves the product status summary.
type ReportHandler struct {
	*BaseHandler
	reporter StatusReporter
}

// NewReportHandler creates a report handler.
func NewReportHandler(base *BaseHandler, reporter StatusReporter) *ReportHandler {
	return &ReportHandler{BaseHandler: base, reporter: reporter}
}

// StatusSummary handles GET /reports/status-summary, returning active
// product counts per lifecycle status.
func (h *ReportHandler) StatusSummary(c *gin.Context) {
	counts, err := h.reporter.CountByStatus(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"counts": counts})
}

// DueForMaintenance handles GET /reports/due-maintenance, listing
// active products whose next due date falls within the horizon. The
// "days" query parameter controls the horizon, defaulting to 30.
func (h *ReportHandler) DueForMaintenance(c *gin.Context) {
	days := h.ParseIntQuery(c, "days", 30)
	if days < 0 {
		h.Error(c, apperror.NewValidation("days must be non-negative"))
		return
	}
	cutoff := time.Now().UTC().AddDate(0, 0, days)

	products, err := h.reporter.ListDueForMaintenance(c.Request.Context(), cutoff)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"cutoff":   cutoff,
		"products": products,
	})
}
