package docmerge

import (
	"strconv"
	"strings"

	"lexmerge/internal/domain"
)

// KeyValue is one placeholder key and the value it substitutes.
type KeyValue struct {
	Key   string
	Value string
}

// Aliases for the two free-text sections of a record. They are applied after the
// per-field keys, so they win any collision with a field name.
var (
	PropertyDescriptionAliases = []string{
		"immovablePropertyDescription",
		"PROPERTY_DESCRIPTION",
		"DESCRIPTION_OF_THE_IMMOBABLE_PROPERTY",
		"DESCRIPTION_OF_THE_IMMOVABLE_PROPERTY",
	}
	ApplicantsAliases = []string{
		"applicantsAndCoBorrowers",
		"BORROWER_DETAILS",
		"APPLICANTS_AND_CO_BORROWERS",
	}
)

var braceStripper = strings.NewReplacer("{", "", "}", "")

// SanitizeFieldName trims whitespace and removes literal braces from a field name.
func SanitizeFieldName(name string) string {
	return strings.TrimSpace(braceStripper.Replace(strings.TrimSpace(name)))
}

// Slug collapses every whitespace run in name into a single underscore.
func Slug(name string) string {
	return strings.Join(strings.Fields(name), "_")
}

// FieldKeys returns every placeholder key generated for a single field: the
// verbatim name, the numeric id, the slug, and upper/lower variants of both the
// name and the slug.
func FieldKeys(f domain.ExtractionField) []KeyValue {
	name := SanitizeFieldName(f.FieldName)
	slug := Slug(name)
	return []KeyValue{
		{Key: name, Value: f.Value},
		{Key: strconv.Itoa(f.ID), Value: f.Value},
		{Key: slug, Value: f.Value},
		{Key: strings.ToUpper(name), Value: f.Value},
		{Key: strings.ToLower(name), Value: f.Value},
		{Key: strings.ToUpper(slug), Value: f.Value},
		{Key: strings.ToLower(slug), Value: f.Value},
	}
}

// Candidates lists every generated key in application order, before collisions
// are collapsed.
func Candidates(record *domain.ExtractionRecord) []KeyValue {
	out := make([]KeyValue, 0, len(record.Fields)*7+len(PropertyDescriptionAliases)+len(ApplicantsAliases))
	for _, f := range record.Fields {
		out = append(out, FieldKeys(f)...)
	}
	for _, k := range PropertyDescriptionAliases {
		out = append(out, KeyValue{Key: k, Value: record.ImmovablePropertyDescription})
	}
	for _, k := range ApplicantsAliases {
		out = append(out, KeyValue{Key: k, Value: record.ApplicantsAndCoBorrowers})
	}
	return out
}

// KeyMap maps placeholder keys to substitution values.
type KeyMap map[string]string

// BuildKeyMap folds Candidates into a map. Later keys overwrite earlier ones.
func BuildKeyMap(record *domain.ExtractionRecord) KeyMap {
	cands := Candidates(record)
	m := make(KeyMap, len(cands))
	for _, kv := range cands {
		m[kv.Key] = kv.Value
	}
	return m
}

// Resolve looks up a placeholder name. It tries the name as written, then its
// upper and lower case forms, then the same three forms of its slug.
func (m KeyMap) Resolve(name string) (string, bool) {
	name = strings.TrimSpace(name)
	slug := Slug(name)
	for _, k := range [...]string{
		name, strings.ToUpper(name), strings.ToLower(name),
		slug, strings.ToUpper(slug), strings.ToLower(slug),
	} {
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	return "", false
}
