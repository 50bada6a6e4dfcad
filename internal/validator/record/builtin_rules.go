package record

import (
	"context"

	"lexmerge/internal/domain"
)

// BuiltinValidator wraps a check and its metadata for the registry.
type BuiltinValidator struct {
	key      string
	name     string
	ruleType domain.ValidationRuleType
	sev      domain.ValidationSeverity
	fn       func(context.Context, *domain.ExtractionRecord) []ValidationResult
}

func (b *BuiltinValidator) Validate(ctx context.Context, data *domain.ExtractionRecord) []ValidationResult {
	return b.fn(ctx, data)
}
func (b *BuiltinValidator) RuleKey() string                     { return b.key }
func (b *BuiltinValidator) RuleName() string                    { return b.name }
func (b *BuiltinValidator) RuleType() domain.ValidationRuleType { return b.ruleType }
func (b *BuiltinValidator) Severity() domain.ValidationSeverity { return b.sev }

// AllBuiltinValidators returns every built-in review check.
func AllBuiltinValidators() []*BuiltinValidator {
	fmtVals := FormatValidators()
	mathVals := MathValidators()
	all := make([]*BuiltinValidator, 0, len(fmtVals)+len(mathVals))
	for _, v := range fmtVals {
		all = append(all, &BuiltinValidator{
			key: v.RuleKey(), name: v.RuleName(),
			ruleType: v.RuleType(), sev: v.Severity(),
			fn: v.Validate,
		})
	}
	for _, v := range mathVals {
		all = append(all, &BuiltinValidator{
			key: v.RuleKey(), name: v.RuleName(),
			ruleType: v.RuleType(), sev: v.Severity(),
			fn: v.Validate,
		})
	}
	return all
}
