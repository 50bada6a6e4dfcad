package parser_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexmerge/internal/parser"
)

func TestRateLimitError_ErrorString(t *testing.T) {
	rlErr := parser.NewRateLimitError("claude", fmt.Errorf("rate limited"), 30)

	assert.Contains(t, rlErr.Error(), "claude")
	assert.Contains(t, rlErr.Error(), "rate limited")
	assert.Contains(t, rlErr.Error(), "30s")
}

func TestRateLimitError_Unwrap(t *testing.T) {
	underlying := fmt.Errorf("underlying error")
	rlErr := parser.NewRateLimitError("gemini", underlying, 60)

	assert.Equal(t, underlying, errors.Unwrap(rlErr))
}

func TestAsRateLimit_ThroughWrapping(t *testing.T) {
	rlErr := parser.NewRateLimitError("claude", fmt.Errorf("rate limited"), 30)
	wrapped := fmt.Errorf("extraction failed: %w", rlErr)

	target, ok := parser.AsRateLimit(wrapped)
	require.True(t, ok)
	assert.Equal(t, "claude", target.Provider)
	assert.Equal(t, 30*time.Second, target.RetryAfter)

	_, ok = parser.AsRateLimit(errors.New("plain"))
	assert.False(t, ok)
}

func TestNewRateLimitError_DefaultRetryAfter(t *testing.T) {
	assert.Equal(t, 60*time.Second, parser.NewRateLimitError("openai", fmt.Errorf("err"), 0).RetryAfter)
	assert.Equal(t, 60*time.Second, parser.NewRateLimitError("openai", fmt.Errorf("err"), -5).RetryAfter)
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, parser.ParseRetryAfterHeader(""))
	assert.Equal(t, 30, parser.ParseRetryAfterHeader("30"))
	assert.Equal(t, 0, parser.ParseRetryAfterHeader("invalid"))
}

func TestStatusError(t *testing.T) {
	err := parser.StatusError("gemini", http.StatusTooManyRequests, []byte("quota"), "12")
	rl, ok := parser.AsRateLimit(err)
	require.True(t, ok)
	assert.Equal(t, 12*time.Second, rl.RetryAfter)
	assert.Contains(t, err.Error(), "status 429")

	err = parser.StatusError("gemini", http.StatusInternalServerError, []byte("boom"), "")
	_, ok = parser.AsRateLimit(err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "gemini API error (status 500): boom")
}
