package handlers

import (
	"github.com/gin-gonic/gin"

	"assettrack/internal/infrastructure/storage/postgres"
)

// ActivityHandler serves entity change history.
type ActivityHandler struct {
	*BaseHandler
	activity *postgres.ActivityService
}

// NewActivityHandler creates an activity handler.
func NewActivityHandler(base *BaseHandler, activity *postgres.ActivityService) *ActivityHandler {
	return &ActivityHandler{BaseHandler: base, activity: activity}
}

// History handles GET /activity/:entityType/:id, newest first.
func (h *ActivityHandler) History(c *gin.Context) {
	recID, ok := h.PathID(c)
	if !ok {
		return
	}
	limit := h.ParseIntQuery(c, "limit", 100)

	entries, err := h.activity.EntityHistory(c.Request.Context(), c.Param("entityType"), recID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"entries": entries})
}
