package handler

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"lexmerge/internal/docmerge"
	"lexmerge/internal/domain"
	"lexmerge/internal/middleware"
	"lexmerge/internal/parser"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// RespondFile sends data as a download attachment.
func RespondFile(c *gin.Context, fileName, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, strings.ReplaceAll(fileName, `"`, "")))
	c.Data(http.StatusOK, contentType, data)
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
// Rate limits are checked first because they also wrap ErrExtractionFailed.
func MapDomainError(err error) (status int, code, msg string) {
	if _, ok := parser.AsRateLimit(err); ok {
		return http.StatusTooManyRequests, "RATE_LIMITED", "extraction provider is rate limiting requests; retry later"
	}

	var unresolved *docmerge.UnresolvedPlaceholderError
	if errors.As(err, &unresolved) {
		return http.StatusUnprocessableEntity, "UNRESOLVED_PLACEHOLDER", unresolved.Error()
	}
	var render *docmerge.RenderError
	if errors.As(err, &render) {
		return http.StatusUnprocessableEntity, "RENDER_FAILURE", render.Error()
	}

	switch {
	case errors.Is(err, domain.ErrInvalidTemplateFormat):
		return http.StatusBadRequest, "INVALID_TEMPLATE_FORMAT", err.Error()
	case errors.Is(err, domain.ErrExtractionFailed):
		return http.StatusBadGateway, "EXTRACTION_FAILED", err.Error()
	case errors.Is(err, domain.ErrExtractionInProgress):
		return http.StatusConflict, "EXTRACTION_IN_PROGRESS", "an extraction is already running for this session"
	case errors.Is(err, domain.ErrNoSourceDocuments):
		return http.StatusBadRequest, "NO_SOURCE_DOCUMENTS", "upload at least one PDF or image before extracting"
	case errors.Is(err, domain.ErrNoTemplate):
		return http.StatusBadRequest, "NO_TEMPLATE", "no Word template uploaded"
	case errors.Is(err, domain.ErrNoExtractionResult):
		return http.StatusConflict, "NO_EXTRACTION_RESULT", "no extraction result yet"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "SESSION_NOT_FOUND", "session not found"
	case errors.Is(err, domain.ErrFieldNotFound):
		return http.StatusNotFound, "FIELD_NOT_FOUND", "field not found"
	case errors.Is(err, domain.ErrFileNotFound):
		return http.StatusNotFound, "FILE_NOT_FOUND", "file not found"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", err.Error() + "; allowed: pdf, jpg, png, webp, heic, docx"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error()
	case errors.Is(err, domain.ErrTooManyFiles):
		return http.StatusBadRequest, "TOO_MANY_FILES", "too many files in session"
	case errors.Is(err, domain.ErrInvalidRecord):
		return http.StatusBadRequest, "INVALID_RECORD", err.Error()
	case errors.Is(err, domain.ErrStorageDisabled):
		return http.StatusServiceUnavailable, "STORAGE_DISABLED", "template storage is not configured"
	case errors.Is(err, domain.ErrTemplateNotFound):
		return http.StatusNotFound, "TEMPLATE_NOT_FOUND", "template not found"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get(middleware.ContextKeyRequestID)
		log.Printf("[%s] %s: %v", requestID, code, err)
	}
	if rl, ok := parser.AsRateLimit(err); ok {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(rl.RetryAfter.Seconds()))))
	}

	apiErr := &APIError{Code: code, Message: msg}
	var unresolved *docmerge.UnresolvedPlaceholderError
	if errors.As(err, &unresolved) {
		apiErr.Details = unresolved.Placeholders
	}
	var render *docmerge.RenderError
	if errors.As(err, &render) {
		apiErr.Details = render.Problems
	}
	c.JSON(status, APIResponse{Success: false, Error: apiErr})
}
