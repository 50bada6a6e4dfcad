package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lexmerge/internal/parser"
	"lexmerge/internal/service"
)

// ExportHandler handles spreadsheet export endpoints.
type ExportHandler struct {
	exports service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exports service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

func exportFormat(c *gin.Context) (service.ExportFormat, bool) {
	switch f := service.ExportFormat(c.Param("format")); f {
	case service.ExportFormatXLSX, service.ExportFormatCSV:
		return f, true
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "format must be xlsx or csv")
		return "", false
	}
}

// ExportSession handles GET /api/v1/sessions/:id/export/:format
func (h *ExportHandler) ExportSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	format, ok := exportFormat(c)
	if !ok {
		return
	}
	file, err := h.exports.ExportSession(c.Request.Context(), id, format)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondFile(c, file.FileName, file.ContentType, file.Data)
}

// Export handles POST /api/v1/export/:format with a JSON record body.
func (h *ExportHandler) Export(c *gin.Context) {
	format, ok := exportFormat(c)
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not read request body")
		return
	}
	record, err := parser.ParseRecordJSON(body)
	if err != nil {
		HandleError(c, err)
		return
	}
	file, err := h.exports.ExportRecord(record, format)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondFile(c, file.FileName, file.ContentType, file.Data)
}
