package record

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"lexmerge/internal/domain"
)

var (
	datePattern        = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)
	amountPattern      = regexp.MustCompile(`^(\d{1,3}|\d{1,2}(,\d{2})*,\d{3})(\.\d{1,2})?$`)
	rangePattern       = regexp.MustCompile(`^\d+ to \d+$`)
	acctPattern        = regexp.MustCompile(`^\d{9,18}$`)
	officerPattern     = regexp.MustCompile(`(?i)^.+,\s*S/o\.?\s*.+\baged\s+\d{2}\s+years\.?$`)
	currencySymbolHint = regexp.MustCompile(`(?i)rs\.?|₹|inr`)
)

const dateLayout = "02.01.2006"

// amountFieldNames lists the fields holding rupee amounts in Indian digit grouping.
var amountFieldNames = []string{
	"AMOUNT SANCTIONED",
	"OUTSTANDING AMOUNT",
	"MICRO FINANCE 1",
	"MICRO FINANCE 2",
	"MICRO FINANCE 3",
	"MICRO FINANCE TOTAL",
	"OUTSTANDING AMOUNT IN BOX",
}

// formatValidator checks field values against an expected textual form.
type formatValidator struct {
	ruleKey  string
	ruleName string
	ruleType domain.ValidationRuleType
	severity domain.ValidationSeverity
	validate func(*domain.ExtractionRecord) []ValidationResult
}

func (v *formatValidator) RuleKey() string                     { return v.ruleKey }
func (v *formatValidator) RuleName() string                    { return v.ruleName }
func (v *formatValidator) RuleType() domain.ValidationRuleType { return v.ruleType }
func (v *formatValidator) Severity() domain.ValidationSeverity { return v.severity }

func (v *formatValidator) Validate(_ context.Context, data *domain.ExtractionRecord) []ValidationResult {
	return v.validate(data)
}

// isDateField reports whether a catalogue name denotes a date.
func isDateField(name string) bool {
	for _, w := range strings.Fields(name) {
		if w == "DATE" || w == "DATED" {
			return true
		}
	}
	return false
}

func regexCheck(f domain.ExtractionField, expected, ruleName string, ok func(string) bool) ValidationResult {
	value := strings.TrimSpace(f.Value)
	if value == "" {
		return ValidationResult{
			Passed: true, FieldID: f.ID, FieldName: f.FieldName,
			ExpectedValue: expected, ActualValue: value,
			Message: fmt.Sprintf("%s: %s is empty, skipping format check", ruleName, f.FieldName),
		}
	}
	passed := ok(value)
	msg := fmt.Sprintf("%s: %s matches expected format", ruleName, f.FieldName)
	if !passed {
		msg = fmt.Sprintf("%s: %s should look like %s", ruleName, f.FieldName, expected)
	}
	return ValidationResult{
		Passed: passed, FieldID: f.ID, FieldName: f.FieldName,
		ExpectedValue: expected, ActualValue: value, Message: msg,
	}
}

func checkEach(fields []domain.ExtractionField, expected, ruleName string, ok func(string) bool) []ValidationResult {
	results := make([]ValidationResult, 0, len(fields))
	for _, f := range fields {
		results = append(results, regexCheck(f, expected, ruleName, ok))
	}
	return results
}

func namedFields(r *domain.ExtractionRecord, names ...string) []domain.ExtractionField {
	ix := indexFields(r)
	var out []domain.ExtractionField
	for _, n := range names {
		if f, ok := ix.get(n); ok {
			out = append(out, f)
		}
	}
	return out
}

// FormatValidators returns the per-field format checks.
func FormatValidators() []*formatValidator {
	return []*formatValidator{
		{
			ruleKey: "format.date", ruleName: "Format: Date",
			ruleType: domain.ValidationRuleFormat, severity: domain.ValidationSeverityWarning,
			validate: func(r *domain.ExtractionRecord) []ValidationResult {
				return checkEach(fieldsWhere(r, isDateField), "dd.mm.yyyy", "Format: Date", datePattern.MatchString)
			},
		},
		{
			ruleKey: "logical.date_exists", ruleName: "Logical: Calendar Date",
			ruleType: domain.ValidationRuleLogical, severity: domain.ValidationSeverityError,
			validate: func(r *domain.ExtractionRecord) []ValidationResult {
				var results []ValidationResult
				for _, f := range fieldsWhere(r, isDateField) {
					value := strings.TrimSpace(f.Value)
					// Malformed values are reported by format.date.
					if !datePattern.MatchString(value) {
						continue
					}
					results = append(results, regexCheck(f, "a real calendar date", "Logical: Calendar Date", func(s string) bool {
						_, err := time.Parse(dateLayout, s)
						return err == nil
					}))
				}
				return results
			},
		},
		{
			ruleKey: "format.amount", ruleName: "Format: Amount",
			ruleType: domain.ValidationRuleFormat, severity: domain.ValidationSeverityWarning,
			validate: func(r *domain.ExtractionRecord) []ValidationResult {
				return checkEach(namedFields(r, amountFieldNames...), "1,00,000 without currency symbols", "Format: Amount", func(s string) bool {
					return amountPattern.MatchString(s) && !currencySymbolHint.MatchString(s)
				})
			},
		},
		{
			ruleKey: "format.co_borrowers_no", ruleName: "Format: Co-Borrowers Range",
			ruleType: domain.ValidationRuleFormat, severity: domain.ValidationSeverityWarning,
			validate: func(r *domain.ExtractionRecord) []ValidationResult {
				return checkEach(namedFields(r, "CO-BORROWERS NO"), "2 to 4", "Format: Co-Borrowers Range", rangePattern.MatchString)
			},
		},
		{
			ruleKey: "format.account_no", ruleName: "Format: Account Number",
			ruleType: domain.ValidationRuleFormat, severity: domain.ValidationSeverityWarning,
			validate: func(r *domain.ExtractionRecord) []ValidationResult {
				return checkEach(namedFields(r, "ACCOUNT NO"), "9 to 18 digits", "Format: Account Number", func(s string) bool {
					return acctPattern.MatchString(strings.ReplaceAll(s, " ", ""))
				})
			},
		},
		{
			ruleKey: "format.officer_name", ruleName: "Format: Officer Name",
			ruleType: domain.ValidationRuleFormat, severity: domain.ValidationSeverityWarning,
			validate: func(r *domain.ExtractionRecord) []ValidationResult {
				return checkEach(namedFields(r, "OFFICER NAME WITH S/O AND AGED"), "Name, S/o. ParentName aged XX years", "Format: Officer Name", officerPattern.MatchString)
			},
		},
	}
}
