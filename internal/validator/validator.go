// Package validator runs review checks against extraction records so a user can
// see which values the model probably got wrong before merging.
package validator

import (
	"context"

	"lexmerge/internal/domain"
	"lexmerge/internal/validator/record"
)

// Validator is the interface for a single built-in review check.
type Validator interface {
	Validate(ctx context.Context, data *domain.ExtractionRecord) []record.ValidationResult
	RuleKey() string
	RuleName() string
	RuleType() domain.ValidationRuleType
	Severity() domain.ValidationSeverity
}
