package validator

import (
	"context"
	"log"

	"lexmerge/internal/domain"
)

// ResultEntry is one check outcome as reported to clients.
type ResultEntry struct {
	RuleKey       string                    `json:"rule_key"`
	RuleName      string                    `json:"rule_name"`
	RuleType      domain.ValidationRuleType `json:"rule_type"`
	Severity      domain.ValidationSeverity `json:"severity"`
	Passed        bool                      `json:"passed"`
	FieldID       int                       `json:"field_id"`
	FieldName     string                    `json:"field_name"`
	ExpectedValue string                    `json:"expected_value"`
	ActualValue   string                    `json:"actual_value"`
	Message       string                    `json:"message"`
}

// Summary counts check outcomes.
type Summary struct {
	Total    int `json:"total"`
	Passed   int `json:"passed"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// Report is the result of checking one record.
type Report struct {
	Status  domain.ValidationStatus `json:"status"`
	Summary Summary                 `json:"summary"`
	Results []ResultEntry           `json:"results"`
	Fields  map[int]*FieldStatus    `json:"fields"`
}

// Engine runs every registered check against a record.
type Engine struct {
	registry *Registry
}

// NewEngine creates a new review engine.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Check runs all registered validators against rec. Checks never fail the
// request; a cancelled context stops early and returns what ran so far.
func (e *Engine) Check(ctx context.Context, rec *domain.ExtractionRecord) *Report {
	report := &Report{Results: []ResultEntry{}}
	hasError := false
	hasWarning := false

	for _, v := range e.registry.All() {
		if ctx.Err() != nil {
			log.Printf("validator.Engine.Check: stopped before %s: %v", v.RuleKey(), ctx.Err())
			break
		}
		for _, vr := range v.Validate(ctx, rec) {
			report.Results = append(report.Results, ResultEntry{
				RuleKey:       v.RuleKey(),
				RuleName:      v.RuleName(),
				RuleType:      v.RuleType(),
				Severity:      v.Severity(),
				Passed:        vr.Passed,
				FieldID:       vr.FieldID,
				FieldName:     vr.FieldName,
				ExpectedValue: vr.ExpectedValue,
				ActualValue:   vr.ActualValue,
				Message:       vr.Message,
			})
			report.Summary.Total++
			switch {
			case vr.Passed:
				report.Summary.Passed++
			case v.Severity() == domain.ValidationSeverityError:
				report.Summary.Errors++
				hasError = true
			default:
				report.Summary.Warnings++
				hasWarning = true
			}
		}
	}

	switch {
	case hasError:
		report.Status = domain.ValidationStatusInvalid
	case hasWarning:
		report.Status = domain.ValidationStatusWarning
	default:
		report.Status = domain.ValidationStatusValid
	}
	report.Fields = ComputeFieldStatuses(rec, report.Results)
	return report
}
