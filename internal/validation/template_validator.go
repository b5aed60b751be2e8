// Copyright (c) 2026 Manabi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validation

import (
	"fmt"
	"strings"

	"github.com/taibuivan/manabi/internal/course"
)

// minMCQOptions is the minimum number of answer options a quiz needs.
const minMCQOptions = 2

// # Template Validator

// TemplateValidator checks each page's content payload against the rules
// of its resolved template type.
//
// # Type Resolution
//
// The runtime templateType property wins over the static type property;
// a page with neither is a hard schema error. Unrecognised-but-present
// types degrade to a business warning naming the unknown type — never a
// blocking error, since the renderer falls back to content-text.
type TemplateValidator struct{}

// NewTemplateValidator constructs a [TemplateValidator].
func NewTemplateValidator() *TemplateValidator {
	return &TemplateValidator{}
}

// Name implements [Validator].
func (v *TemplateValidator) Name() string { return "template" }

// Validate implements [Validator].
func (v *TemplateValidator) Validate(c *course.Course) Result {
	var errs []Error

	for i, page := range c.AllPages() {
		if page == nil {
			continue
		}
		errs = append(errs, v.validatePage(i, page)...)
	}

	return NewResult(errs)
}

// validatePage resolves the page type and dispatches to its rule set.
func (v *TemplateValidator) validatePage(i int, page *course.Page) []Error {
	rawType, present := page.ResolvedType()
	if !present {
		return []Error{{
			Field:    pagePath(i, "type"),
			Category: CategorySchema,
			Message:  "Page has no type",
			Context:  Suggest("Assign a template to this page"),
		}}
	}

	resolved, known := course.ResolveType(rawType)

	var errs []Error
	if !known {
		errs = append(errs, Error{
			Field:    pagePath(i, "type"),
			Category: CategoryBusiness,
			Level:    LevelWarning,
			Message:  fmt.Sprintf("Unknown page type %q, rendering as content-text", rawType),
			Context:  Suggest("Pick one of the supported templates"),
		})
	}

	payload := page.Payload()

	switch resolved {
	case course.TypeMCQ:
		errs = append(errs, v.validateMCQ(i, payload)...)
	case course.TypeWelcome:
		errs = append(errs, v.validateWelcome(i, payload)...)
	case course.TypeContentText:
		errs = append(errs, v.validateContentText(i, payload)...)
	case course.TypeContentVideo:
		errs = append(errs, v.validateContentVideo(i, payload)...)
	case course.TypeSummary:
		// Summary pages have no required content; drafts are fine.
	}

	return errs
}

// validateMCQ enforces the quiz invariants: a non-empty question, at
// least two options, and exactly one option flagged correct.
func (v *TemplateValidator) validateMCQ(i int, payload *course.PageContent) []Error {
	var errs []Error

	if strings.TrimSpace(payload.QuestionText()) == "" {
		errs = append(errs, Error{
			Field:    pagePath(i, "content", "question"),
			Category: CategoryTemplate,
			Level:    LevelError,
			Message:  "Quiz question is empty",
			Context:  Suggest("Write the question text"),
		})
	}

	if count := payload.OptionCount(); count < minMCQOptions {
		errs = append(errs, Error{
			Field:    pagePath(i, "content", "options"),
			Category: CategoryTemplate,
			Level:    LevelError,
			Message:  fmt.Sprintf("Quiz needs at least %d answer options, found %d", minMCQOptions, count),
			Context:  Bounds("Add more answer options", minMCQOptions, 0),
		})
	}

	switch correct := payload.CorrectCount(); {
	case correct == 0:
		errs = append(errs, Error{
			Field:    pagePath(i, "content", "options"),
			Category: CategoryTemplate,
			Level:    LevelError,
			Message:  "Quiz has no correct answer",
			Context:  Suggest("Mark exactly one option as correct"),
		})
	case correct > 1:
		errs = append(errs, Error{
			Field:    pagePath(i, "content", "options"),
			Category: CategoryTemplate,
			Level:    LevelError,
			Message:  fmt.Sprintf("Quiz has %d correct answers, expected exactly one", correct),
			Context:  Suggest("Mark exactly one option as correct"),
		})
	}

	return errs
}

// validateWelcome requires a title inside the content payload.
func (v *TemplateValidator) validateWelcome(i int, payload *course.PageContent) []Error {
	if payload != nil && strings.TrimSpace(payload.Title) != "" {
		return nil
	}

	return []Error{{
		Field:    pagePath(i, "content", "title"),
		Category: CategoryTemplate,
		Level:    LevelError,
		Message:  "Welcome page has no title",
		Context:  Suggest("Add a headline to the welcome screen"),
	}}
}

// validateContentText warns on an empty body. Content absence is a draft
// state, not a rejection.
func (v *TemplateValidator) validateContentText(i int, payload *course.PageContent) []Error {
	if strings.TrimSpace(payload.TextPayload()) != "" {
		return nil
	}

	return []Error{{
		Field:    pagePath(i, "content", "body"),
		Category: CategoryTemplate,
		Level:    LevelWarning,
		Message:  "Text page has no content yet",
		Context:  Suggest("Write the page body or delete the page"),
	}}
}

// validateContentVideo warns on a missing video URL, mirroring the draft
// tolerance of text pages.
func (v *TemplateValidator) validateContentVideo(i int, payload *course.PageContent) []Error {
	if payload != nil && strings.TrimSpace(payload.VideoURL) != "" {
		return nil
	}

	return []Error{{
		Field:    pagePath(i, "content", "videoUrl"),
		Category: CategoryTemplate,
		Level:    LevelWarning,
		Message:  "Video page has no video yet",
		Context:  Suggest("Attach a video or delete the page"),
	}}
}

// ValidateField implements [Validator]. Only the quiz question is
// deep-checked live; other page paths return no findings.
func (v *TemplateValidator) ValidateField(c *course.Course, fieldPath string, value any) Result {
	if strings.Contains(fieldPath, ".content.question") {
		if strings.TrimSpace(stringValue(value)) == "" {
			return NewResult([]Error{{
				Field:    fieldPath,
				Category: CategoryTemplate,
				Level:    LevelError,
				Message:  "Quiz question is empty",
				Context:  Suggest("Write the question text"),
			}})
		}
	}

	return NewResult(nil)
}

// SupportsField implements [Validator].
func (v *TemplateValidator) SupportsField(fieldPath string) bool {
	return strings.HasPrefix(fieldPath, "pages[") ||
		strings.HasPrefix(fieldPath, "templates[") ||
		strings.HasPrefix(fieldPath, "content.")
}
