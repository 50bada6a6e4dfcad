package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lexmerge/internal/domain"
	"lexmerge/internal/service"
)

// UploadLimits bounds multipart bodies read by handlers.
type UploadLimits struct {
	MaxFileBytes int64
	MaxFiles     int
}

// bodyLimit is the largest multipart body accepted: every file at its maximum
// plus room for form fields.
func (l UploadLimits) bodyLimit() int64 {
	files := int64(l.MaxFiles)
	if files < 1 {
		files = 1
	}
	return l.MaxFileBytes*(files+1) + 1<<20
}

// readFiles reads every file sent under field. A missing field yields no files.
func readFiles(c *gin.Context, field string, limits UploadLimits) ([]service.UploadedFile, error) {
	if limits.MaxFileBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limits.bodyLimit())
	}
	form, err := c.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w: request body too large", domain.ErrFileTooLarge)
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return nil, errInvalidRequest
		}
		return nil, err
	}

	headers := form.File[field]
	files := make([]service.UploadedFile, 0, len(headers))
	for _, h := range headers {
		data, err := readFile(h, limits.MaxFileBytes)
		if err != nil {
			return nil, err
		}
		files = append(files, service.UploadedFile{Name: h.Filename, Data: data})
	}
	return files, nil
}

func readFile(h *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	if maxBytes > 0 && h.Size > maxBytes {
		return nil, fmt.Errorf("%w: %s", domain.ErrFileTooLarge, h.Filename)
	}
	f, err := h.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", h.Filename, err)
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

var errInvalidRequest = errors.New("request must be multipart/form-data")

// parseID parses the named path parameter as a UUID. On failure the error
// response has already been written.
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+param)
		return uuid.Nil, false
	}
	return id, true
}

// handleUploadError answers a readFiles failure.
func handleUploadError(c *gin.Context, err error) {
	if errors.Is(err, errInvalidRequest) {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if errors.Is(err, domain.ErrFileTooLarge) {
		HandleError(c, err)
		return
	}
	RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not read multipart body")
}
