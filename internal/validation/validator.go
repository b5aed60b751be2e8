// Copyright (c) 2026 Manabi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validation

import (
	"fmt"
	"strings"

	"github.com/taibuivan/manabi/internal/course"
)

// # Validator Contract

// Validator is the shared contract of the entity validators.
//
// # Contract
//
//   - Validate never fails and never panics on malformed documents: every
//     nested field access degrades to "no finding" or a single explicit
//     "missing" finding.
//   - Validate sets provisional levels only; the [Service] is the sole
//     authority on final severity.
//   - ValidateField is best-effort live feedback; a validator may return
//     an empty result for paths it supports but does not deep-check.
type Validator interface {
	// Name identifies the validator in logs.
	Name() string

	// Validate runs the whole-document pass.
	Validate(c *course.Course) Result

	// ValidateField checks a single field for inline feedback.
	ValidateField(c *course.Course, fieldPath string, value any) Result

	// SupportsField reports whether this validator owns the field path.
	SupportsField(fieldPath string) bool
}

// DefaultValidators returns the production validator list. Order matters:
// it is the field-dispatch priority and the stable pre-categorization
// error order (course, template, navigation).
func DefaultValidators() []Validator {
	return []Validator{
		NewCourseValidator(),
		NewTemplateValidator(),
		NewNavigationValidator(),
	}
}

// # Shared Helpers

// pagePath builds the canonical field path for the page at index i,
// optionally extended with sub-path segments.
func pagePath(i int, segments ...string) string {
	path := fmt.Sprintf("pages[%d]", i)
	if len(segments) > 0 {
		path += "." + strings.Join(segments, ".")
	}
	return path
}

// stringValue coerces a live-validation value into its string form.
// Non-string values are formatted, matching what the editor sends for
// numeric inputs.
func stringValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}
