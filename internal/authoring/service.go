// Copyright (c) 2026 Manabi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package authoring implements the course authoring use cases for Manabi.

Services in this package orchestrate domain entities and interact with
repositories through interfaces. They are technology-agnostic and do not
know about HTTP or SQL.

Use Cases:

  - Course lifecycle: create, read, update, soft-delete authored courses.
  - Validation: combine the local rule engine, the external schema
    validator, and the report cache into one merged report.
  - Export: gate package generation on a blocking-error-free report.
*/
package authoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/manabi/internal/course"
	"github.com/taibuivan/manabi/internal/platform/apperr"
	"github.com/taibuivan/manabi/internal/transform"
	"github.com/taibuivan/manabi/internal/validation"
	"github.com/taibuivan/manabi/pkg/slug"
	"github.com/taibuivan/manabi/pkg/uuidv7"
)

// RemoteValidator defines the contract for the external schema validator.
//
// # Why an interface?
//
// The concrete client lives in validation/remote; depending on an interface
// here lets tests inject a stub and lets deployments without a configured
// validator pass nil to disable remote checks entirely.
type RemoteValidator interface {
	// ValidateCourse submits a serialized canonical document and returns
	// the remote findings. A returned error means transport failure, never
	// a validation outcome.
	ValidateCourse(ctx context.Context, courseJSON []byte) (validation.Result, error)
}

// Service implements the course authoring use cases.
type Service struct {
	repository course.Repository
	rules      *validation.Service
	remote     RemoteValidator // nil disables remote validation
	cache      ValidationCache // nil disables report caching
	logger     *slog.Logger
}

// NewService constructs an authoring [Service] with its dependencies.
func NewService(
	repository course.Repository,
	rules *validation.Service,
	remote RemoteValidator,
	cache ValidationCache,
	logger *slog.Logger,
) *Service {
	return &Service{
		repository: repository,
		rules:      rules,
		remote:     remote,
		cache:      cache,
		logger:     logger,
	}
}

// ── Course Lifecycle ─────────────────────────────────────────────────────────

/*
List returns a filtered, paginated page of courses.

Parameters:
  - ctx: context.Context
  - filter: course.Filter (author / title query)
  - limit, offset: pagination window

Returns:
  - []*course.Course: the matching documents
  - int: total count for pagination metadata
*/
func (service *Service) List(ctx context.Context, filter course.Filter, limit, offset int) ([]*course.Course, int, error) {
	courses, total, err := service.repository.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("authoring_service_list_failed: %w", err)
	}
	return courses, total, nil
}

// Get returns the course with the given ID, or [apperr.NotFound].
func (service *Service) Get(ctx context.Context, id string) (*course.Course, error) {
	return service.repository.FindByID(ctx, id)
}

// GetBySlug returns the course with the given slug, or [apperr.NotFound].
func (service *Service) GetBySlug(ctx context.Context, courseSlug string) (*course.Course, error) {
	return service.repository.FindBySlug(ctx, courseSlug)
}

/*
Create persists a brand new course document.

Description: Assigns a time-sortable ID and a URL slug derived from the
title, then stores the document as submitted. No validation is enforced
here: authors save incomplete drafts constantly, and validation is an
explicit separate action.

Parameters:
  - ctx: context.Context
  - c: *course.Course (the submitted document; ID and Slug are overwritten)

Returns:
  - *course.Course: the stored document with ID and Slug assigned
*/
func (service *Service) Create(ctx context.Context, c *course.Course) (*course.Course, error) {
	if strings.TrimSpace(c.Title) == "" {
		return nil, apperr.ValidationError("Course title is required",
			apperr.FieldError{Field: course.FieldTitle, Message: "is required"})
	}

	c.ID = uuidv7.New() // Time-sortable ID to prevent PG index fragmentation.
	c.Slug = service.uniqueSlug(ctx, c.Title)

	if err := service.repository.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("authoring_service_create_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "course_created",
		slog.String("course_id", c.ID),
		slog.String("slug", c.Slug),
	)

	return c, nil
}

// Update replaces an existing course document, preserving its identity.
func (service *Service) Update(ctx context.Context, id string, c *course.Course) (*course.Course, error) {
	existing, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Identity and provenance are server-owned.
	c.ID = existing.ID
	c.Slug = existing.Slug
	c.CreatedAt = existing.CreatedAt

	if err := service.repository.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("authoring_service_update_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "course_updated", slog.String("course_id", c.ID))

	return c, nil
}

// Delete soft-deletes a course by ID.
func (service *Service) Delete(ctx context.Context, id string) error {
	if err := service.repository.SoftDelete(ctx, id); err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "course_deleted", slog.String("course_id", id))
	return nil
}

// ── Validation ───────────────────────────────────────────────────────────────

/*
Validate produces the full merged validation report for a document.

Description: Runs the local rule engine against the raw document (so
shape problems the normalizer would paper over are still reported), then
submits the normalized canonical form to the external schema validator
and merges both reports. Results are cached by content digest; a cache
hit skips both engines.

Parameters:
  - ctx: context.Context
  - c: *course.Course (raw editor state; persisted or not)

Returns:
  - validation.Result: the merged report
  - error: [apperr.UpstreamUnavailable] if the remote validator could not
    be reached; infrastructure errors otherwise
*/
func (service *Service) Validate(ctx context.Context, c *course.Course) (validation.Result, error) {
	// The digest covers the raw submission: two editor states that differ
	// only in fields the normalizer rewrites can still validate differently.
	digest, err := transform.Digest(c)
	if err != nil {
		return validation.Result{}, fmt.Errorf("authoring_service_digest_failed: %w", err)
	}

	if cached := service.cachedResult(ctx, digest); cached != nil {
		return *cached, nil
	}

	local := service.rules.ValidateCourse(ctx, c)

	merged := local
	if service.remote != nil {
		remote, err := service.remoteResult(ctx, c)
		if err != nil {
			return validation.Result{}, err
		}
		merged = validation.Merge(local, remote)
	}

	service.storeResult(ctx, digest, merged)

	return merged, nil
}

// ValidateField runs a single-field check for inline editor feedback.
func (service *Service) ValidateField(ctx context.Context, c *course.Course, fieldPath string, value any) validation.Result {
	return service.rules.ValidateField(ctx, c, fieldPath, value)
}

// remoteResult normalizes the document and consults the schema validator.
func (service *Service) remoteResult(ctx context.Context, c *course.Course) (validation.Result, error) {
	canonical := transform.ForBackend(c)

	raw, err := json.Marshal(canonical)
	if err != nil {
		return validation.Result{}, fmt.Errorf("authoring_service_encode_failed: %w", err)
	}

	remote, err := service.remote.ValidateCourse(ctx, raw)
	if err != nil {
		// Transport failure is not a validation outcome. Surface it as a
		// distinct upstream error so the editor can tell the author the
		// check is unavailable rather than showing a falsely clean report.
		return validation.Result{}, apperr.UpstreamUnavailable(err)
	}

	return remote, nil
}

// cachedResult looks up a report by digest; cache failures degrade to a miss.
func (service *Service) cachedResult(ctx context.Context, digest string) *validation.Result {
	if service.cache == nil {
		return nil
	}

	cached, err := service.cache.Get(ctx, digest)
	if err != nil {
		service.logger.WarnContext(ctx, "validation_cache_get_failed", slog.Any("error", err))
		return nil
	}

	return cached
}

// storeResult writes a report to the cache; failures are logged, not returned.
func (service *Service) storeResult(ctx context.Context, digest string, result validation.Result) {
	if service.cache == nil {
		return
	}

	if err := service.cache.Set(ctx, digest, result); err != nil {
		service.logger.WarnContext(ctx, "validation_cache_set_failed", slog.Any("error", err))
	}
}

// ── Export ───────────────────────────────────────────────────────────────────

/*
Export validates a stored course and, if clean, produces its package.

Description: Loads the course, runs the full merged validation, and
refuses to export while any blocking error remains. On success the
canonical export shape is generated and stamped with an integrity
manifest.

Parameters:
  - ctx: context.Context
  - id: string (course ID)

Returns:
  - *transform.Package: the export bundle
  - error: [apperr.ExportBlocked] when blocking errors remain;
    [apperr.NotFound] for unknown IDs
*/
func (service *Service) Export(ctx context.Context, id string) (*transform.Package, error) {
	c, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	report, err := service.Validate(ctx, c)
	if err != nil {
		return nil, err
	}

	if validation.HasBlocking(report) {
		blocking := countBlocking(report)
		service.logger.InfoContext(ctx, "export_blocked",
			slog.String("course_id", id),
			slog.Int("blocking_errors", blocking),
		)
		return nil, apperr.ExportBlocked(blocking)
	}

	pkg, err := transform.NewPackage(c)
	if err != nil {
		return nil, fmt.Errorf("authoring_service_export_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "course_exported",
		slog.String("course_id", id),
		slog.String("checksum", pkg.Manifest.Checksum),
	)

	return pkg, nil
}

// countBlocking counts the errors that gate the export.
func countBlocking(r validation.Result) int {
	count := 0
	for _, e := range r.Errors {
		if e.IsBlocking() || validation.Classify(e) == validation.BucketStructural {
			count++
		}
	}
	return count
}

// uniqueSlug derives a URL slug from the title, suffixing a short ID
// fragment when the natural slug is taken. Only a NotFound probe result
// means free: on any other lookup failure the slug is treated as taken,
// with the partial unique index as the backstop.
func (service *Service) uniqueSlug(ctx context.Context, title string) string {
	base := slug.From(title)
	if base == "" {
		base = "course"
	}

	if _, err := service.repository.FindBySlug(ctx, base); err != nil {
		if appErr := apperr.As(err); appErr != nil && appErr.Code == "NOT_FOUND" {
			return base
		}
		service.logger.WarnContext(ctx, "slug_probe_failed",
			slog.String("slug", base),
			slog.Any("error", err),
		)
	}

	id := uuidv7.New()
	return base + "-" + id[len(id)-8:]
}
