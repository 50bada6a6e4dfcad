package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"lexmerge/internal/domain"
)

// RecordSchema is the JSON Schema every provider response must satisfy.
var RecordSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"fields": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":        map[string]any{"type": "integer"},
					"fieldName": map[string]any{"type": "string"},
					"value":     map[string]any{"type": "string"},
				},
				"required": []any{"id", "fieldName", "value"},
			},
		},
		"immovablePropertyDescription": map[string]any{"type": "string"},
		"applicantsAndCoBorrowers":     map[string]any{"type": "string"},
	},
	"required": []any{"fields", "immovablePropertyDescription", "applicantsAndCoBorrowers"},
}

// GeminiResponseSchema is RecordSchema in the OpenAPI subset accepted by the
// Gemini generationConfig.responseSchema option.
var GeminiResponseSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"fields": map[string]any{
			"type": "ARRAY",
			"items": map[string]any{
				"type": "OBJECT",
				"properties": map[string]any{
					"id":        map[string]any{"type": "INTEGER"},
					"fieldName": map[string]any{"type": "STRING"},
					"value":     map[string]any{"type": "STRING"},
				},
				"required": []string{"id", "fieldName", "value"},
			},
		},
		"immovablePropertyDescription": map[string]any{"type": "STRING"},
		"applicantsAndCoBorrowers":     map[string]any{"type": "STRING"},
	},
	"required": []string{"fields", "immovablePropertyDescription", "applicantsAndCoBorrowers"},
}

var recordSchema = mustCompile(RecordSchema)

func mustCompile(schemaMap map[string]any) *jsonschema.Schema {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		panic(fmt.Sprintf("marshal record schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("record.json", bytes.NewReader(b)); err != nil {
		panic(fmt.Sprintf("add record schema: %v", err))
	}
	return compiler.MustCompile("record.json")
}

// DecodeRecord validates a provider's JSON text against RecordSchema and decodes
// it. Markdown code fences around the object are tolerated.
func DecodeRecord(text string) (*domain.ExtractionRecord, error) {
	text = stripFences(text)
	if text == "" {
		return nil, fmt.Errorf("empty model output")
	}
	rec, err := decodeRecord([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("LLM output: %w", err)
	}
	return rec, nil
}

// ParseRecordJSON validates a client-supplied record. Every failure wraps
// domain.ErrInvalidRecord.
func ParseRecordJSON(data []byte) (*domain.ExtractionRecord, error) {
	rec, err := decodeRecord(data)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRecord) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRecord, err)
	}
	return rec, nil
}

func decodeRecord(data []byte) (*domain.ExtractionRecord, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w (raw: %s)", err, Truncate(string(data), 500))
	}
	if err := recordSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("does not match record schema: %w", err)
	}

	var rec domain.ExtractionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	if rec.Fields == nil {
		rec.Fields = []domain.ExtractionField{}
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimPrefix(text, "json")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// Truncate shortens s for inclusion in error messages.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
