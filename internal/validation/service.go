// Copyright (c) 2026 Manabi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/taibuivan/manabi/internal/course"
	"github.com/taibuivan/manabi/pkg/uuidv7"
)

// # Validation Service

// Service orchestrates the entity validators over a course document.
//
// # Concurrency
//
// The validators are read-only and share no state, so the whole-document
// pass fans them out concurrently and waits for all of them. A caller
// never observes a partially-validated result. Nothing serializes two
// concurrent ValidateCourse calls against the same snapshot — callers
// discard stale results themselves (e.g. by request-sequence token).
type Service struct {
	validators []Validator
	logger     *slog.Logger
}

// NewService constructs a validation [Service].
//
// The validator list is injectable for tests; production passes
// [DefaultValidators], whose fixed order is part of the contract (field
// dispatch priority and pre-categorization error order).
func NewService(validators []Validator, logger *slog.Logger) *Service {
	return &Service{
		validators: validators,
		logger:     logger,
	}
}

/*
ValidateCourse runs the whole-document validation pass.

Description: Fans the registered validators out concurrently, collects
their findings in registration order, then categorizes: every error gets
a fresh unique id and its final severity via the escalation rule. The
levels set by individual validators are provisional; this method is the
sole authority on final severity.

Parameters:
  - ctx: context.Context (used for logging only; validators are local)
  - c: *course.Course (raw, pre-transform document)

Returns:
  - Result: valid flag, categorized errors, timestamp
*/
func (service *Service) ValidateCourse(ctx context.Context, c *course.Course) Result {
	if c == nil {
		// Malformed input never throws: a single schema finding instead.
		return NewResult(service.categorize([]Error{{
			Field:    "course",
			Category: CategorySchema,
			Message:  "No course document supplied",
		}}))
	}

	// Fan out: one goroutine per validator, results slotted by index so
	// concatenation preserves registration order.
	results := make([]Result, len(service.validators))

	var wg sync.WaitGroup
	for i, validator := range service.validators {
		wg.Add(1)
		go func(slot int, v Validator) {
			defer wg.Done()
			results[slot] = v.Validate(c)
		}(i, validator)
	}
	wg.Wait()

	// Flatten in registration order — the stable tiebreak when later
	// stages do not otherwise distinguish two errors.
	var errs []Error
	for _, result := range results {
		errs = append(errs, result.Errors...)
	}

	categorized := service.categorize(errs)
	result := NewResult(categorized)

	service.logger.Log(ctx, slog.LevelInfo, "validation_completed",
		slog.String("course_id", c.ID),
		slog.Int("error_count", len(categorized)),
		slog.Bool("valid", result.Valid),
	)

	return result
}

// categorize assigns each error a fresh unique id and its final level.
//
// # IDs
//
// IDs are composed from the category and a UUIDv7, whose millisecond
// timestamp plus random tail guarantees no collision even across
// concurrent invocations.
func (service *Service) categorize(errs []Error) []Error {
	categorized := make([]Error, 0, len(errs))
	for _, e := range errs {
		e.ID = string(e.Category) + "-" + uuidv7.New()
		e.Level = Escalate(e)
		categorized = append(categorized, e)
	}
	return categorized
}

/*
ValidateField runs a single-field check for inline feedback.

Description: Dispatches to the first validator (in registration order)
that declares support for the field path and returns its result
verbatim — no re-categorization, live feedback does not need the global
id/level guarantee. Unsupported fields yield an empty valid result, not
an error.

Parameters:
  - ctx: context.Context
  - c: *course.Course
  - fieldPath: string (dot/bracket path, e.g. "pages[2].content.question")
  - value: any (the new value being typed)

Returns:
  - Result: the delegate validator's findings, or an empty valid result
*/
func (service *Service) ValidateField(ctx context.Context, c *course.Course, fieldPath string, value any) Result {
	for _, validator := range service.validators {
		if validator.SupportsField(fieldPath) {
			return validator.ValidateField(c, fieldPath, value)
		}
	}
	return NewResult(nil)
}

// SupportsField reports whether any registered validator can live-check
// the given field path. The editor uses this to decide whether to even
// attempt inline validation.
func (service *Service) SupportsField(fieldPath string) bool {
	for _, validator := range service.validators {
		if validator.SupportsField(fieldPath) {
			return true
		}
	}
	return false
}
