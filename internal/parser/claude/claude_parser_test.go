package claude_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexmerge/internal/config"
	"lexmerge/internal/parser"
	"lexmerge/internal/parser/claude"
	"lexmerge/internal/port"
)

const recordJSON = `{"fields":[{"id":1,"fieldName":"COURT","value":"High Court of X"}],"immovablePropertyDescription":"Survey 12","applicantsAndCoBorrowers":"A. Kumar"}`

func newTestParser(serverURL string) *claude.Parser {
	return claude.NewParserWithEndpoint(&config.ParserProviderConfig{
		Provider:     "claude",
		APIKey:       "sk-ant-test",
		DefaultModel: "claude-sonnet-4-20250514",
	}, serverURL)
}

func messageResponse(text, stopReason string) map[string]interface{} {
	return map[string]interface{}{
		"content":     []map[string]interface{}{{"type": "text", "text": text}},
		"stop_reason": stopReason,
	}
}

func TestClaudeParser_Parse_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sk-ant-test", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "claude-sonnet-4-20250514", reqBody["model"])
		assert.Contains(t, reqBody["system"], "STRICT RULES")

		messages := reqBody["messages"].([]interface{})
		content := messages[0].(map[string]interface{})["content"].([]interface{})
		require.Len(t, content, 3)
		assert.Equal(t, "document", content[0].(map[string]interface{})["type"])
		assert.Equal(t, "image", content[1].(map[string]interface{})["type"])
		assert.Equal(t, "text", content[2].(map[string]interface{})["type"])

		_ = json.NewEncoder(w).Encode(messageResponse(recordJSON, "end_turn"))
	}))
	defer server.Close()

	out, err := newTestParser(server.URL).Parse(context.Background(), port.ParseInput{Documents: []port.DocumentInput{
		{FileName: "notice.pdf", ContentType: "application/pdf", Data: []byte("%PDF")},
		{FileName: "deed.jpg", ContentType: "image/jpeg", Data: []byte("jpg")},
	}})

	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-20250514", out.ModelUsed)
	assert.Equal(t, "A. Kumar", out.Record.ApplicantsAndCoBorrowers)
}

func TestClaudeParser_Parse_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "20")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestParser(server.URL).Parse(context.Background(), port.ParseInput{Documents: []port.DocumentInput{
		{FileName: "notice.pdf", ContentType: "application/pdf", Data: []byte("%PDF")},
	}})

	rl, ok := parser.AsRateLimit(err)
	require.True(t, ok)
	assert.Equal(t, "claude", rl.Provider)
}

func TestClaudeParser_Parse_MaxTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(messageResponse(`{"fields":`, "max_tokens"))
	}))
	defer server.Close()

	_, err := newTestParser(server.URL).Parse(context.Background(), port.ParseInput{Documents: []port.DocumentInput{
		{FileName: "notice.pdf", ContentType: "application/pdf", Data: []byte("%PDF")},
	}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "output truncated")
}

func TestClaudeParser_Parse_UnsupportedContentType(t *testing.T) {
	_, err := newTestParser("http://127.0.0.1:0").Parse(context.Background(), port.ParseInput{Documents: []port.DocumentInput{
		{FileName: "photo.heic", ContentType: "image/heic", Data: []byte("x")},
	}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported content type")
}
