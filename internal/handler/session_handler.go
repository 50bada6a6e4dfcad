package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lexmerge/internal/parser"
	"lexmerge/internal/service"
)

// SessionHandler handles review session endpoints.
type SessionHandler struct {
	sessions service.SessionService
	limits   UploadLimits
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions service.SessionService, limits UploadLimits) *SessionHandler {
	return &SessionHandler{sessions: sessions, limits: limits}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	sess, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, sess)
}

// Get handles GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	sess, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess)
}

// Reset handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) Reset(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.sessions.Reset(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "session discarded"})
}

// UploadFiles handles POST /api/v1/sessions/:id/files
func (h *SessionHandler) UploadFiles(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	files, err := readFiles(c, "files", h.limits)
	if err != nil {
		handleUploadError(c, err)
		return
	}
	if len(files) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "files field is required")
		return
	}

	sess, err := h.sessions.AddFiles(c.Request.Context(), id, files)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, sess)
}

// RemoveFile handles DELETE /api/v1/sessions/:id/files/:fileId
func (h *SessionHandler) RemoveFile(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	fileID, ok := parseID(c, "fileId")
	if !ok {
		return
	}
	sess, err := h.sessions.RemoveFile(c.Request.Context(), id, fileID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess)
}

// ReplaceRecord handles PUT /api/v1/sessions/:id/record
func (h *SessionHandler) ReplaceRecord(c *gin.Context) {
	id, ok := parseID(c, "id")
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
	sess, err := h.sessions.ReplaceRecord(c.Request.Context(), id, record)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess)
}

type updateFieldRequest struct {
	Value *string `json:"value" binding:"required"`
}

// UpdateField handles PATCH /api/v1/sessions/:id/record/fields/:fieldId
func (h *SessionHandler) UpdateField(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	fieldID, err := strconv.Atoi(c.Param("fieldId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid fieldId")
		return
	}
	var req updateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	sess, err := h.sessions.UpdateField(c.Request.Context(), id, fieldID, *req.Value)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess)
}

// UpdateSections handles PATCH /api/v1/sessions/:id/record/sections
func (h *SessionHandler) UpdateSections(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.SectionsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	sess, err := h.sessions.UpdateSections(c.Request.Context(), id, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess)
}
