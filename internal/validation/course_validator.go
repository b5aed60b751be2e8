// Copyright (c) 2026 Manabi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/manabi/internal/course"
)

// versionRegex matches a semantic major.minor.patch version string.
var versionRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// # Course Metadata Validator

// CourseValidator checks the course-level metadata: title, author and
// description bounds, page-collection presence, and version format.
//
// All checks run independently; no failing check short-circuits another.
type CourseValidator struct{}

// NewCourseValidator constructs a [CourseValidator].
func NewCourseValidator() *CourseValidator {
	return &CourseValidator{}
}

// Name implements [Validator].
func (v *CourseValidator) Name() string { return "course" }

// Validate implements [Validator].
func (v *CourseValidator) Validate(c *course.Course) Result {
	var errs []Error

	errs = append(errs, v.checkTitle(c.Title)...)
	errs = append(errs, v.checkAuthor(c.Author)...)
	errs = append(errs, v.checkDescription(c.Description)...)
	errs = append(errs, v.checkPages(c)...)
	errs = append(errs, v.checkVersion(c.Version)...)

	return NewResult(errs)
}

// checkTitle validates presence (schema) and length (business).
func (v *CourseValidator) checkTitle(title string) []Error {
	var errs []Error

	if strings.TrimSpace(title) == "" {
		errs = append(errs, Error{
			Field:    course.FieldTitle,
			Category: CategorySchema,
			Message:  "Course title is required",
			Context:  Suggest("Give the course a short, descriptive title"),
		})
	}

	if utf8.RuneCountInString(title) > course.MaxTitleLen {
		errs = append(errs, Error{
			Field:    course.FieldTitle,
			Category: CategoryBusiness,
			Message:  fmt.Sprintf("Course title exceeds %d characters", course.MaxTitleLen),
			Context:  Bounds("Shorten the title", 1, course.MaxTitleLen),
		})
	}

	return errs
}

// checkAuthor validates presence (schema) and length (business).
func (v *CourseValidator) checkAuthor(author string) []Error {
	var errs []Error

	if strings.TrimSpace(author) == "" {
		errs = append(errs, Error{
			Field:    course.FieldAuthor,
			Category: CategorySchema,
			Message:  "Course author is required",
			Context:  Suggest("Set the author name before publishing"),
		})
	}

	if utf8.RuneCountInString(author) > course.MaxAuthorLen {
		errs = append(errs, Error{
			Field:    course.FieldAuthor,
			Category: CategoryBusiness,
			Message:  fmt.Sprintf("Author name exceeds %d characters", course.MaxAuthorLen),
			Context:  Bounds("Shorten the author name", 1, course.MaxAuthorLen),
		})
	}

	return errs
}

// checkDescription validates length only; the description is optional.
func (v *CourseValidator) checkDescription(description string) []Error {
	if utf8.RuneCountInString(description) <= course.MaxDescriptionLen {
		return nil
	}

	return []Error{{
		Field:    course.FieldDescription,
		Category: CategoryBusiness,
		Message:  fmt.Sprintf("Description exceeds %d characters", course.MaxDescriptionLen),
		Context:  Bounds("Shorten the description", 0, course.MaxDescriptionLen),
	}}
}

// checkPages validates that the page collection is present and within
// the size limit.
func (v *CourseValidator) checkPages(c *course.Course) []Error {
	pages := c.AllPages()

	if len(pages) == 0 {
		return []Error{{
			Field:    course.FieldPages,
			Category: CategorySchema,
			Message:  "Course has no pages",
			Context:  Suggest("Add at least one page from the template picker"),
		}}
	}

	if len(pages) > course.MaxPages {
		return []Error{{
			Field:    course.FieldPages,
			Category: CategoryBusiness,
			Message:  fmt.Sprintf("Course exceeds the maximum of %d pages", course.MaxPages),
			Context:  Bounds("Split the course into smaller courses", 1, course.MaxPages),
		}}
	}

	return nil
}

// checkVersion validates the semantic version format. Normalization will
// repair an invalid version, so this is advisory only.
func (v *CourseValidator) checkVersion(version string) []Error {
	if version == "" || versionRegex.MatchString(version) {
		return nil
	}

	return []Error{{
		Field:    course.FieldVersion,
		Category: CategoryBusiness,
		Message:  fmt.Sprintf("Version %q is not a valid major.minor.patch string", version),
		Context:  Suggest(`Use a semantic version such as "1.0.0"`),
	}}
}

// ValidateField implements [Validator]. It deep-checks the metadata
// fields the editor edits inline.
func (v *CourseValidator) ValidateField(c *course.Course, fieldPath string, value any) Result {
	text := stringValue(value)

	switch fieldPath {
	case course.FieldTitle:
		return NewResult(v.checkTitle(text))
	case course.FieldAuthor:
		return NewResult(v.checkAuthor(text))
	case course.FieldDescription:
		return NewResult(v.checkDescription(text))
	case course.FieldVersion:
		return NewResult(v.checkVersion(text))
	}

	return NewResult(nil)
}

// SupportsField implements [Validator].
func (v *CourseValidator) SupportsField(fieldPath string) bool {
	switch {
	case fieldPath == course.FieldTitle,
		fieldPath == course.FieldAuthor,
		fieldPath == course.FieldDescription,
		fieldPath == course.FieldVersion,
		fieldPath == course.FieldLanguage,
		strings.HasPrefix(fieldPath, "course."):
		return true
	}
	return false
}
