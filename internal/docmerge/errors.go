package docmerge

import (
	"fmt"
	"strings"

	"lexmerge/internal/domain"
)

// UnresolvedPlaceholderError lists every template token that had no matching key.
type UnresolvedPlaceholderError struct {
	Placeholders []string
}

func (e *UnresolvedPlaceholderError) Error() string {
	quoted := make([]string, len(e.Placeholders))
	for i, p := range e.Placeholders {
		quoted[i] = "{" + p + "}"
	}
	return fmt.Sprintf("%s: no value for %s", domain.ErrUnresolvedPlaceholder, strings.Join(quoted, ", "))
}

func (e *UnresolvedPlaceholderError) Unwrap() error {
	return domain.ErrUnresolvedPlaceholder
}

// RenderError collects structural problems found while substituting tokens.
type RenderError struct {
	Problems []string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("%s: %s", domain.ErrRenderFailure, strings.Join(e.Problems, "; "))
}

func (e *RenderError) Unwrap() error {
	return domain.ErrRenderFailure
}

func invalidTemplate(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidTemplateFormat, fmt.Sprintf(format, args...))
}
