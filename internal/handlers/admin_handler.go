package handlers

import (
	"net/http"

	"water-features-api/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes cache-management operations.
type AdminHandler struct {
	svc *service.FeatureService
}

// NewAdminHandler wires the admin endpoints around the retrieval service.
func NewAdminHandler(svc *service.FeatureService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// TriggerPreload handles POST /api/admin/preload
// Re-runs the per-category preload synchronously. Per-category failures are
// logged and skipped inside the service, so this always answers 200.
func (h *AdminHandler) TriggerPreload(c *gin.Context) {
	h.svc.PreloadAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"message": "Preload completed",
	})
}

// ClearCache handles POST /api/admin/cache/clear
func (h *AdminHandler) ClearCache(c *gin.Context) {
	h.svc.ClearAll()
	c.JSON(http.StatusOK, gin.H{
		"message": "Caches cleared",
	})
}
