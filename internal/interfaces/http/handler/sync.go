package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appsync "github.com/shopmetrics/backend/internal/application/sync"
)

// SyncHandler exposes on-demand sync triggers and sync status
type SyncHandler struct {
	syncs  *appsync.Service
	logger *zap.Logger
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(syncs *appsync.Service, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{syncs: syncs, logger: logger}
}

// TriggerFull handles POST /sync/:tenantId. The sync runs inline and the
// summary is returned once all entity kinds have finished. A concurrent
// trigger for the same tenant is rejected with 409.
func (h *SyncHandler) TriggerFull(c *gin.Context) {
	h.trigger(c, appsync.ModeFull)
}

// TriggerIncremental handles POST /sync/:tenantId/incremental
func (h *SyncHandler) TriggerIncremental(c *gin.Context) {
	h.trigger(c, appsync.ModeIncremental)
}

func (h *SyncHandler) trigger(c *gin.Context, mode appsync.Mode) {
	tenantID, ok := parseUUIDParam(c, "tenantId")
	if !ok {
		return
	}

	var summary *appsync.Summary
	var err error
	if mode == appsync.ModeFull {
		summary, err = h.syncs.FullSync(c.Request.Context(), tenantID)
	} else {
		summary, err = h.syncs.IncrementalSync(c.Request.Context(), tenantID)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info("sync completed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("mode", string(mode)),
		zap.Int("created", summary.Totals().Created),
		zap.Int("failed", summary.Totals().Failed),
	)

	message := "Full sync completed"
	if mode == appsync.ModeIncremental {
		message = "Incremental sync completed"
	}
	respondOKWithMessage(c, message, summary)
}

// Status handles GET /sync/:tenantId/status
func (h *SyncHandler) Status(c *gin.Context) {
	tenantID, ok := parseUUIDParam(c, "tenantId")
	if !ok {
		return
	}

	status, err := h.syncs.GetStatus(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, status)
}
