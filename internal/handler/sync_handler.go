package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/examtrack/examtrack-backend/internal/middleware"
	"github.com/examtrack/examtrack-backend/internal/response"
	"github.com/examtrack/examtrack-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// SyncHandler handles the delta-sync pull endpoint.
type SyncHandler struct {
	syncService *service.SyncService
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// GetChanges godoc
// GET /api/v1/sync/changes?last_sync=<RFC3339>
// Returns every reference-data row changed since the watermark (tombstones
// included), or the full bootstrap when last_sync is absent. The returned
// server_time is the client's next watermark.
func (h *SyncHandler) GetChanges(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var since *time.Time
	if raw := c.Query("last_sync"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			// Second chance for clients sending fractional seconds.
			parsed, err = time.Parse(time.RFC3339Nano, raw)
			if err != nil {
				response.FailMessage(c, response.ErrValidation, "last_sync must be an RFC3339 timestamp")
				return
			}
		}
		since = &parsed
	}

	resp, err := h.syncService.Changes(c.Request.Context(), since, claims.DeviceID)
	if err != nil {
		if errors.Is(err, service.ErrSchemaNotMigrated) {
			response.FailMessage(c, response.ErrSyncPrecondition, err.Error())
			return
		}
		// Driver message surfaced to the caller; acceptable for an
		// internal tool.
		response.FailMessage(c, response.ErrStorage, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"server_time": resp.ServerTime.UTC().Format(time.RFC3339Nano),
		"changes":     resp.Changes,
	})
}
