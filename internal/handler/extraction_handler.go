package handler

import (
	"github.com/gin-gonic/gin"

	"lexmerge/internal/domain"
	"lexmerge/internal/service"
)

// ExtractionHandler handles extraction endpoints.
type ExtractionHandler struct {
	extraction service.ExtractionService
	limits     UploadLimits
}

// NewExtractionHandler creates a new ExtractionHandler.
func NewExtractionHandler(extraction service.ExtractionService, limits UploadLimits) *ExtractionHandler {
	return &ExtractionHandler{extraction: extraction, limits: limits}
}

// ExtractResponse is the body of a stateless extraction.
type ExtractResponse struct {
	Record         *domain.ExtractionRecord `json:"record"`
	ModelUsed      string                   `json:"model_used"`
	SecondaryModel string                   `json:"secondary_model,omitempty"`
	FilledFields   map[int]string           `json:"filled_fields,omitempty"`
}

// ExtractSession handles POST /api/v1/sessions/:id/extract
func (h *ExtractionHandler) ExtractSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	sess, err := h.extraction.Extract(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess)
}

// Extract handles POST /api/v1/extract
func (h *ExtractionHandler) Extract(c *gin.Context) {
	files, err := readFiles(c, "files", h.limits)
	if err != nil {
		handleUploadError(c, err)
		return
	}
	docs, err := service.SourceDocuments(files, h.limits.MaxFileBytes)
	if err != nil {
		HandleError(c, err)
		return
	}
	out, err := h.extraction.ExtractDocuments(c.Request.Context(), docs)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, ExtractResponse{
		Record:         out.Record,
		ModelUsed:      out.ModelUsed,
		SecondaryModel: out.SecondaryModel,
		FilledFields:   out.FilledFields,
	})
}
