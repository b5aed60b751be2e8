// Copyright (c) 2026 Manabi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package validation implements the multi-layered rule engine that checks a
course document for structural correctness, per-template business rules,
and navigation/flow consistency.

Architecture:

  - Error model: [Error], [Result], and [FieldIssue] are immutable value
    types — never mutated after creation, only filtered and reordered.
  - Entity validators: three independent validators (course, template,
    navigation) behind the shared [Validator] interface.
  - Service: runs the validators concurrently, assigns unique error IDs,
    and applies the final severity escalation rule.
  - Merge: combines the local result with the external schema validator's
    result and ranks the union for display and export gating.

Validators run against the raw, pre-transform document so that staleness
(order gaps, legacy MCQ encodings) is reported rather than silently
repaired; the transform package handles repair for submission and export.
*/
package validation

import (
	"sort"
	"strings"
	"time"
)

// # Error Taxonomy

// Category classifies a validation error by the layer that produced it.
type Category string

const (
	// CategorySchema marks structural or type violations. Always blocking.
	CategorySchema Category = "schema"

	// CategoryBusiness marks domain-rule violations. Blocking only when
	// tied to a required field, otherwise advisory.
	CategoryBusiness Category = "business"

	// CategoryTemplate marks per-template content-rule violations.
	CategoryTemplate Category = "template"

	// CategoryNavigation marks navigation and page-flow violations.
	CategoryNavigation Category = "navigation"
)

// Level is the severity of a validation error.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// weight maps levels onto sortable ranks: error < warning < info.
func (l Level) weight() int {
	switch l {
	case LevelError:
		return 0
	case LevelWarning:
		return 1
	default:
		return 2
	}
}

// # Value Types

// Context carries optional structured hints attached to an error.
type Context struct {
	// Suggestion is a short remediation hint shown next to the message.
	Suggestion string `json:"suggestion,omitempty"`

	// Min/Max are the numeric bounds that were violated, when relevant.
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// Error is one validation finding located by a dot/bracket field path
// (e.g. "pages[2].content.question").
//
// # Immutability
//
// Errors are value objects. The service is the only writer of ID and the
// final Level; entity validators set a provisional level only.
type Error struct {
	ID       string   `json:"id,omitempty"`
	Field    string   `json:"field"`
	Category Category `json:"category"`
	Level    Level    `json:"level"`
	Message  string   `json:"message"`
	Context  *Context `json:"context,omitempty"`

	// Type is the remote validator's tag ("value_error", "type_error",
	// "business_rule_error"). Empty on locally-produced errors.
	Type string `json:"type,omitempty"`
}

// Result is the outcome of one whole-document validation pass.
type Result struct {
	Valid     bool    `json:"valid"`
	Errors    []Error `json:"errors"`
	Timestamp string  `json:"timestamp"` // ISO 8601
}

// NewResult stamps a result over the given error list.
func NewResult(errs []Error) Result {
	if errs == nil {
		errs = []Error{}
	}
	return Result{
		Valid:     len(errs) == 0,
		Errors:    errs,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// FieldIssue is the lighter-weight finding returned by live single-field
// checks, for inline feedback in the editor.
type FieldIssue struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // "error" | "warning"
}

// FieldIssues projects a result's errors into [FieldIssue] values.
// Info-level findings are folded into warnings for the inline UI.
func (r Result) FieldIssues() []FieldIssue {
	issues := make([]FieldIssue, 0, len(r.Errors))
	for _, e := range r.Errors {
		severity := "warning"
		if e.Level == LevelError {
			severity = "error"
		}
		issues = append(issues, FieldIssue{Field: e.Field, Message: e.Message, Severity: severity})
	}
	return issues
}

// # Severity Escalation

// Escalate computes the final severity of an error, overriding whatever
// provisional level the producing validator set.
//
// # Rules
//
//   - schema always escalates to error.
//   - business escalates to error only when the field path contains the
//     substring "required", otherwise warning.
//   - all other categories keep the producer's level, defaulting to info
//     when none was set.
func Escalate(e Error) Level {
	switch e.Category {
	case CategorySchema:
		return LevelError
	case CategoryBusiness:
		if strings.Contains(e.Field, "required") {
			return LevelError
		}
		return LevelWarning
	}

	if e.Level != "" {
		return e.Level
	}
	return LevelInfo
}

// IsBlocking reports whether an error must prevent export/save actions:
// schema errors always, business errors only when tied to a required
// field. Warnings and info findings never block.
func (e Error) IsBlocking() bool {
	if e.Level != LevelError {
		return false
	}
	switch e.Category {
	case CategorySchema:
		return true
	case CategoryBusiness:
		return strings.Contains(e.Field, "required")
	}
	// Template/navigation errors block only at error level, which the
	// producer sets deliberately (e.g. MCQ with a single option).
	return true
}

// # Report Ordering

// SortForReport orders errors for a user-facing validation report:
// severity first (error, warning, info), then message lexicographically.
// The input slice is not modified.
func SortForReport(errs []Error) []Error {
	sorted := make([]Error, len(errs))
	copy(sorted, errs)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Level.weight() != sorted[j].Level.weight() {
			return sorted[i].Level.weight() < sorted[j].Level.weight()
		}
		return sorted[i].Message < sorted[j].Message
	})

	return sorted
}

// # Context Helpers

// Suggest builds a context carrying only a remediation hint.
func Suggest(text string) *Context {
	return &Context{Suggestion: text}
}

// Bounds builds a context carrying a violated numeric range.
func Bounds(suggestion string, min, max int) *Context {
	return &Context{Suggestion: suggestion, Min: &min, Max: &max}
}
