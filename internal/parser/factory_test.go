package parser_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexmerge/internal/config"
	"lexmerge/internal/parser"
	"lexmerge/internal/port"
)

// stubParser is a minimal DocumentParser for testing the factory.
type stubParser struct {
	model string
}

func (s *stubParser) Parse(_ context.Context, _ port.ParseInput) (*port.ParseOutput, error) {
	return &port.ParseOutput{ModelUsed: s.model}, nil
}

func registerStubs() {
	for _, name := range []string{"stub-a", "stub-b", "stub-c"} {
		parser.RegisterProvider(name, func(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
			return &stubParser{model: cfg.Provider}, nil
		})
	}
}

func TestFactory_RegisterAndCreate(t *testing.T) {
	registerStubs()

	p, err := parser.NewParser(&config.ParserProviderConfig{Provider: "stub-a"})

	require.NoError(t, err)
	out, err := p.Parse(context.Background(), port.ParseInput{})
	require.NoError(t, err)
	assert.Equal(t, "stub-a", out.ModelUsed)
}

func TestFactory_UnknownProvider(t *testing.T) {
	p, err := parser.NewParser(&config.ParserProviderConfig{Provider: "nonexistent-provider-xyz"})

	assert.Nil(t, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parser provider")
}

func TestBuild_Modes(t *testing.T) {
	registerStubs()

	single, err := parser.Build(&config.ParserConfig{Mode: "single", Provider: "stub-a"})
	require.NoError(t, err)
	assert.IsType(t, &stubParser{}, single)

	fallback, err := parser.Build(&config.ParserConfig{
		Mode:      "fallback",
		Primary:   config.ParserProviderConfig{Provider: "stub-a"},
		Secondary: config.ParserProviderConfig{Provider: "stub-b"},
		Tertiary:  config.ParserProviderConfig{Provider: "stub-c"},
	})
	require.NoError(t, err)
	assert.IsType(t, &parser.FallbackParser{}, fallback)

	merge, err := parser.Build(&config.ParserConfig{
		Mode:      "merge",
		Primary:   config.ParserProviderConfig{Provider: "stub-a"},
		Secondary: config.ParserProviderConfig{Provider: "stub-b"},
	})
	require.NoError(t, err)
	assert.IsType(t, &parser.MergeParser{}, merge)
}

func TestBuild_FallbackWithoutExtras_IsPrimary(t *testing.T) {
	registerStubs()

	p, err := parser.Build(&config.ParserConfig{Mode: "fallback", Provider: "stub-a"})
	require.NoError(t, err)
	assert.IsType(t, &stubParser{}, p)
}

func TestBuild_Errors(t *testing.T) {
	registerStubs()

	_, err := parser.Build(&config.ParserConfig{Mode: "merge", Provider: "stub-a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a secondary provider")

	_, err = parser.Build(&config.ParserConfig{Mode: "round-robin", Provider: "stub-a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parser mode")

	_, err = parser.Build(&config.ParserConfig{Provider: "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "primary parser")
}
