package parser

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"lexmerge/internal/domain"
	"lexmerge/internal/port"
)

// MergeParser runs two DocumentParsers in parallel and fills the primary's blank
// values from the secondary.
type MergeParser struct {
	primary   port.DocumentParser
	secondary port.DocumentParser
}

// NewMergeParser creates a MergeParser from primary and secondary parsers.
func NewMergeParser(primary, secondary port.DocumentParser) *MergeParser {
	return &MergeParser{primary: primary, secondary: secondary}
}

func (m *MergeParser) Parse(ctx context.Context, input port.ParseInput) (*port.ParseOutput, error) {
	type result struct {
		output *port.ParseOutput
		err    error
	}

	var wg sync.WaitGroup
	var pResult, sResult result

	wg.Add(2)
	go func() {
		defer wg.Done()
		out, err := m.primary.Parse(ctx, input)
		pResult = result{out, err}
	}()
	go func() {
		defer wg.Done()
		out, err := m.secondary.Parse(ctx, input)
		sResult = result{out, err}
	}()
	wg.Wait()

	if pResult.err != nil && sResult.err != nil {
		// Surface a rate limit so callers can answer 429.
		if rl, ok := AsRateLimit(pResult.err); ok {
			return nil, rl
		}
		return nil, fmt.Errorf("both parsers failed: primary: %v; secondary: %w", pResult.err, sResult.err)
	}

	if pResult.err != nil {
		log.Printf("parser.MergeParser: primary parser failed (%v), using secondary only", pResult.err)
		return sResult.output, nil
	}

	if sResult.err != nil {
		log.Printf("parser.MergeParser: secondary parser failed (%v), using primary only", sResult.err)
		return pResult.output, nil
	}

	return mergeOutputs(pResult.output, sResult.output), nil
}

// mergeOutputs keeps the primary record and its field order. Blank primary values
// are taken from the secondary field with the same id, and secondary fields the
// primary lacks entirely are appended.
func mergeOutputs(primary, secondary *port.ParseOutput) *port.ParseOutput {
	merged := primary.Record.Clone()
	if merged == nil {
		merged = &domain.ExtractionRecord{}
	}
	filled := make(map[int]string)

	if secondary.Record != nil {
		for _, sf := range secondary.Record.Fields {
			idx := merged.FieldByID(sf.ID)
			if idx < 0 {
				merged.Fields = append(merged.Fields, sf)
				if !isBlank(sf.Value) {
					filled[sf.ID] = secondary.ModelUsed
				}
				continue
			}
			if isBlank(merged.Fields[idx].Value) && !isBlank(sf.Value) {
				merged.Fields[idx].Value = sf.Value
				filled[sf.ID] = secondary.ModelUsed
			}
		}
		if isBlank(merged.ImmovablePropertyDescription) {
			merged.ImmovablePropertyDescription = secondary.Record.ImmovablePropertyDescription
		}
		if isBlank(merged.ApplicantsAndCoBorrowers) {
			merged.ApplicantsAndCoBorrowers = secondary.Record.ApplicantsAndCoBorrowers
		}
	}

	return &port.ParseOutput{
		Record:         merged,
		ModelUsed:      primary.ModelUsed,
		PromptUsed:     primary.PromptUsed,
		SecondaryModel: secondary.ModelUsed,
		FilledFields:   filled,
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
