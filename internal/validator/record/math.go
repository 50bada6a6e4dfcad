package record

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"lexmerge/internal/domain"
)

const mathTolerance = 1.00

// mathValidator checks arithmetic relationships between fields.
type mathValidator struct {
	ruleKey  string
	ruleName string
	severity domain.ValidationSeverity
	validate func(*domain.ExtractionRecord) []ValidationResult
}

func (v *mathValidator) RuleKey() string                     { return v.ruleKey }
func (v *mathValidator) RuleName() string                    { return v.ruleName }
func (v *mathValidator) RuleType() domain.ValidationRuleType { return domain.ValidationRuleSumCheck }
func (v *mathValidator) Severity() domain.ValidationSeverity { return v.severity }

func (v *mathValidator) Validate(_ context.Context, data *domain.ExtractionRecord) []ValidationResult {
	return v.validate(data)
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= mathTolerance
}

// parseAmount reads an Indian-grouped amount such as 1,25,000.50.
func parseAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func fmtf(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// MathValidators returns all arithmetic checks.
func MathValidators() []*mathValidator {
	return []*mathValidator{
		{
			ruleKey: "math.micro_finance_total", ruleName: "Math: Micro Finance Total",
			severity: domain.ValidationSeverityError,
			validate: func(r *domain.ExtractionRecord) []ValidationResult {
				ix := indexFields(r)
				total, ok := ix.get("MICRO FINANCE TOTAL")
				if !ok {
					return nil
				}
				totalValue, ok := parseAmount(total.Value)
				if !ok {
					return nil
				}
				var sum float64
				parts := 0
				for _, name := range []string{"MICRO FINANCE 1", "MICRO FINANCE 2", "MICRO FINANCE 3"} {
					f, ok := ix.get(name)
					if !ok || strings.TrimSpace(f.Value) == "" {
						continue
					}
					v, ok := parseAmount(f.Value)
					if !ok {
						// Unparseable parts are reported by format.amount.
						return nil
					}
					sum += v
					parts++
				}
				if parts == 0 {
					return nil
				}
				passed := approxEqual(totalValue, sum)
				msg := fmt.Sprintf("Math: Micro Finance Total: %s matches the sum of its parts", total.FieldName)
				if !passed {
					msg = fmt.Sprintf("Math: Micro Finance Total: %s mismatch (expected %s, got %s)", total.FieldName, fmtf(sum), fmtf(totalValue))
				}
				return []ValidationResult{{
					Passed: passed, FieldID: total.ID, FieldName: total.FieldName,
					ExpectedValue: fmtf(sum), ActualValue: fmtf(totalValue), Message: msg,
				}}
			},
		},
	}
}
