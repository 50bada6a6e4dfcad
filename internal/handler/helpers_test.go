package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"lexmerge/internal/domain"
	"lexmerge/internal/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type formFile struct {
	field string
	name  string
	data  []byte
}

// multipartBody builds a multipart form with the given files and fields.
func multipartBody(t *testing.T, files []formFile, fields map[string]string) (io.Reader, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range files {
		part, err := writer.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

// newContext returns a test context for method and path with the given params.
func newContext(method, path string, body io.Reader, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if body == nil {
		body = http.NoBody
	}
	c.Request, _ = http.NewRequest(method, path, body)
	c.Params = params
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func sampleRecord() *domain.ExtractionRecord {
	return &domain.ExtractionRecord{
		Fields: []domain.ExtractionField{
			{ID: 1, FieldName: "COURT", Value: "High Court of X"},
			{ID: 2, FieldName: "BRANCH", Value: ""},
		},
		ImmovablePropertyDescription: "Survey 12, Village Y",
		ApplicantsAndCoBorrowers:     "A. Kumar",
	}
}

func recordJSON(t *testing.T) string {
	t.Helper()
	b, err := json.Marshal(sampleRecord())
	require.NoError(t, err)
	return string(b)
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

var testLimits = handler.UploadLimits{MaxFileBytes: 1 << 20, MaxFiles: 5}
