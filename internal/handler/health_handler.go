package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	storageEnabled bool
	parserMode     string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(storageEnabled bool, parserMode string) *HealthHandler {
	return &HealthHandler{storageEnabled: storageEnabled, parserMode: parserMode}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "ok",
		"parser_mode":      h.parserMode,
		"template_storage": h.storageEnabled,
	})
}
