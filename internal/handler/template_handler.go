package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lexmerge/internal/service"
)

// TemplateHandler handles the stored template library.
type TemplateHandler struct {
	templates service.TemplateService
	limits    UploadLimits
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templates service.TemplateService, limits UploadLimits) *TemplateHandler {
	return &TemplateHandler{templates: templates, limits: limits}
}

// Upload handles POST /api/v1/templates
func (h *TemplateHandler) Upload(c *gin.Context) {
	files, err := readFiles(c, "file", UploadLimits{MaxFileBytes: h.limits.MaxFileBytes, MaxFiles: 1})
	if err != nil {
		handleUploadError(c, err)
		return
	}
	if len(files) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	tpl, err := h.templates.Upload(c.Request.Context(), files[0].Name, files[0].Data)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, tpl)
}

// List handles GET /api/v1/templates
func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.templates.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, templates)
}

// Download handles GET /api/v1/templates/:id/download
func (h *TemplateHandler) Download(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	tpl, err := h.templates.GetDownloadURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, tpl)
}

// Delete handles DELETE /api/v1/templates/:id
func (h *TemplateHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.templates.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "template deleted"})
}
