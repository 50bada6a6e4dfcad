package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lexmerge/internal/docmerge"
	"lexmerge/internal/parser"
	"lexmerge/internal/service"
)

// MergeHandler handles template merge endpoints. Successful merges answer with
// the populated .docx as an attachment.
type MergeHandler struct {
	merge  service.MergeService
	limits UploadLimits
}

// NewMergeHandler creates a new MergeHandler.
func NewMergeHandler(merge service.MergeService, limits UploadLimits) *MergeHandler {
	return &MergeHandler{merge: merge, limits: limits}
}

// MergeSession handles POST /api/v1/sessions/:id/merge
func (h *MergeHandler) MergeSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	templateKey := c.PostForm("template_key")
	if templateKey == "" {
		templateKey = c.Query("template_key")
	}
	out, err := h.merge.MergeSession(c.Request.Context(), id, templateKey)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondFile(c, out.FileName, out.ContentType, out.Data)
}

// Merge handles POST /api/v1/merge
func (h *MergeHandler) Merge(c *gin.Context) {
	files, err := readFiles(c, "template", h.limits)
	if err != nil {
		handleUploadError(c, err)
		return
	}

	raw := c.PostForm("record")
	if raw == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_RECORD", "record field is required")
		return
	}
	record, err := parser.ParseRecordJSON([]byte(raw))
	if err != nil {
		HandleError(c, err)
		return
	}

	input := service.MergeInput{Record: record, TemplateKey: c.PostForm("template_key")}
	if len(files) > 0 {
		input.Template = &docmerge.Template{Name: files[0].Name, Data: files[0].Data}
	}
	out, err := h.merge.Merge(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondFile(c, out.FileName, out.ContentType, out.Data)
}
