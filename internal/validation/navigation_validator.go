// Copyright (c) 2026 Manabi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validation

import (
	"fmt"
	"strings"

	"github.com/taibuivan/manabi/internal/course"
)

// # Navigation Validator

// NavigationValidator checks the navigation settings shape and the page
// flow: duplicate page IDs, stale order values, and branching targets.
type NavigationValidator struct{}

// NewNavigationValidator constructs a [NavigationValidator].
func NewNavigationValidator() *NavigationValidator {
	return &NavigationValidator{}
}

// Name implements [Validator].
func (v *NavigationValidator) Name() string { return "navigation" }

// Validate implements [Validator].
func (v *NavigationValidator) Validate(c *course.Course) Result {
	var errs []Error

	errs = append(errs, v.validateSettings(c.Navigation)...)
	errs = append(errs, v.validateFlow(c)...)

	return NewResult(errs)
}

// validateSettings checks the navigation-settings shape: the mode enum
// and the boolean typing recorded during tolerant decoding.
func (v *NavigationValidator) validateSettings(nav *course.NavigationSettings) []Error {
	if nav == nil {
		// Absent settings degrade to defaults downstream; not an error.
		return nil
	}

	var errs []Error

	if !nav.Mode.IsValid() {
		errs = append(errs, Error{
			Field:    course.FieldNavMode,
			Category: CategorySchema,
			Message:  fmt.Sprintf("Navigation mode %q is not one of linear, free, branching", nav.Mode),
			Context:  Suggest("Pick a navigation mode in the course settings"),
		})
	}

	for _, field := range nav.TypeErrors {
		errs = append(errs, Error{
			Field:    "navigation." + field,
			Category: CategorySchema,
			Message:  fmt.Sprintf("Navigation setting %q must be a boolean", field),
		})
	}

	return errs
}

// validateFlow checks page IDs, order staleness, and branching targets.
func (v *NavigationValidator) validateFlow(c *course.Course) []Error {
	pages := c.AllPages()

	var errs []Error

	// Duplicate page IDs: one finding per extra occurrence of an ID, so
	// a pair of duplicates yields exactly one error.
	seen := make(map[string]bool, len(pages))
	for i, page := range pages {
		if page == nil || page.ID == "" {
			continue
		}
		if seen[page.ID] {
			errs = append(errs, Error{
				Field:    pagePath(i, "id"),
				Category: CategoryNavigation,
				Level:    LevelError,
				Message:  fmt.Sprintf("Duplicate page id %q", page.ID),
				Context:  Suggest("Recreate the page to assign a fresh id"),
			})
			continue
		}
		seen[page.ID] = true
	}

	// Stale order values: a warning only, normalization repairs them.
	for i, page := range pages {
		if page == nil {
			continue
		}
		if page.Order != i {
			errs = append(errs, Error{
				Field:    pagePath(i, "order"),
				Category: CategoryBusiness,
				Level:    LevelWarning,
				Message:  fmt.Sprintf("Page order %d does not match position %d", page.Order, i),
				Context:  Suggest("Saving the course will resequence page order"),
			})
		}
	}

	// Branching targets: every condition on every page is scanned, one
	// finding per malformed condition.
	for i, page := range pages {
		if page == nil {
			continue
		}
		for j, condition := range page.Conditions {
			field := pagePath(i) + fmt.Sprintf(".conditions[%d].targetPageId", j)

			if strings.TrimSpace(condition.TargetPageID) == "" {
				errs = append(errs, Error{
					Field:    field,
					Category: CategoryNavigation,
					Level:    LevelError,
					Message:  "Branching condition has no target page",
					Context:  Suggest("Select the page this condition should jump to"),
				})
				continue
			}

			if !seen[condition.TargetPageID] {
				errs = append(errs, Error{
					Field:    field,
					Category: CategoryNavigation,
					Level:    LevelError,
					Message:  fmt.Sprintf("Branching condition targets unknown page %q", condition.TargetPageID),
					Context:  Suggest("Select an existing page as the target"),
				})
			}
		}
	}

	return errs
}

// ValidateField implements [Validator]. The navigation mode is the only
// setting the editor edits as a plain field.
func (v *NavigationValidator) ValidateField(c *course.Course, fieldPath string, value any) Result {
	if fieldPath == course.FieldNavMode {
		mode := course.NavigationMode(stringValue(value))
		if !mode.IsValid() {
			return NewResult([]Error{{
				Field:    fieldPath,
				Category: CategorySchema,
				Message:  fmt.Sprintf("Navigation mode %q is not one of linear, free, branching", mode),
			}})
		}
	}

	return NewResult(nil)
}

// SupportsField implements [Validator].
func (v *NavigationValidator) SupportsField(fieldPath string) bool {
	return strings.HasPrefix(fieldPath, "navigation.") ||
		strings.Contains(fieldPath, ".conditions[")
}
