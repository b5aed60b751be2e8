// Copyright (c) 2026 Manabi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authoring_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/manabi/internal/authoring"
	"github.com/taibuivan/manabi/internal/course"
	"github.com/taibuivan/manabi/internal/platform/apperr"
	"github.com/taibuivan/manabi/internal/validation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// stubRepository is an in-memory course.Repository.
type stubRepository struct {
	byID   map[string]*course.Course
	bySlug map[string]*course.Course

	createErr     error
	updateErr     error
	findBySlugErr error
}

func newStubRepository(courses ...*course.Course) *stubRepository {
	repo := &stubRepository{
		byID:   make(map[string]*course.Course),
		bySlug: make(map[string]*course.Course),
	}
	for _, c := range courses {
		repo.byID[c.ID] = c
		repo.bySlug[c.Slug] = c
	}
	return repo
}

func (r *stubRepository) List(_ context.Context, _ course.Filter, _, _ int) ([]*course.Course, int, error) {
	courses := make([]*course.Course, 0, len(r.byID))
	for _, c := range r.byID {
		courses = append(courses, c)
	}
	return courses, len(courses), nil
}

func (r *stubRepository) FindByID(_ context.Context, id string) (*course.Course, error) {
	if c, ok := r.byID[id]; ok {
		return c, nil
	}
	return nil, apperr.NotFound("Course")
}

func (r *stubRepository) FindBySlug(_ context.Context, slug string) (*course.Course, error) {
	if r.findBySlugErr != nil {
		return nil, r.findBySlugErr
	}
	if c, ok := r.bySlug[slug]; ok {
		return c, nil
	}
	return nil, apperr.NotFound("Course")
}

func (r *stubRepository) Create(_ context.Context, c *course.Course) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.byID[c.ID] = c
	r.bySlug[c.Slug] = c
	return nil
}

func (r *stubRepository) Update(_ context.Context, c *course.Course) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.byID[c.ID] = c
	return nil
}

func (r *stubRepository) SoftDelete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("Course")
	}
	delete(r.byID, id)
	return nil
}

// stubRemote is a scripted RemoteValidator.
type stubRemote struct {
	result validation.Result
	err    error
	calls  int
}

func (s *stubRemote) ValidateCourse(_ context.Context, _ []byte) (validation.Result, error) {
	s.calls++
	if s.err != nil {
		return validation.Result{}, s.err
	}
	return s.result, nil
}

// stubCache is an in-memory ValidationCache with optional failures.
type stubCache struct {
	entries map[string]validation.Result
	getErr  error
	setErr  error
	hits    int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]validation.Result)}
}

func (s *stubCache) Get(_ context.Context, digest string) (*validation.Result, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if result, ok := s.entries[digest]; ok {
		s.hits++
		return &result, nil
	}
	return nil, nil
}

func (s *stubCache) Set(_ context.Context, digest string, result validation.Result) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.entries[digest] = result
	return nil
}

func rulesService() *validation.Service {
	return validation.NewService(validation.DefaultValidators(), testLogger())
}

// cleanCourse builds a course that passes every local validator.
func cleanCourse() *course.Course {
	return &course.Course{
		ID:     "c-1",
		Slug:   "clean",
		Title:  "Clean Course",
		Author: "Hana",
		Pages: []*course.Page{
			{ID: "p-0", Type: course.TypeWelcome, Order: 0, Content: &course.PageContent{Title: "Hi"}},
			{ID: "p-1", Type: course.TypeContentText, Order: 1, Content: &course.PageContent{Body: "Text"}},
		},
	}
}

/*
TestService_Create tests ID/slug assignment and the title precondition.
*/
func TestService_Create(t *testing.T) {
	repo := newStubRepository()
	service := authoring.NewService(repo, rulesService(), nil, nil, testLogger())

	created, err := service.Create(context.Background(), &course.Course{Title: "Fire Safety 101"})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "fire-safety-101", created.Slug)
	assert.Contains(t, repo.byID, created.ID)

	t.Run("empty_title_rejected", func(t *testing.T) {
		_, err := service.Create(context.Background(), &course.Course{Title: "   "})
		require.Error(t, err)

		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		require.Len(t, appErr.Details, 1)
		assert.Equal(t, course.FieldTitle, appErr.Details[0].Field)
	})

	t.Run("taken_slug_gets_suffix", func(t *testing.T) {
		second, err := service.Create(context.Background(), &course.Course{Title: "Fire Safety 101"})
		require.NoError(t, err)

		assert.NotEqual(t, created.Slug, second.Slug)
		assert.Contains(t, second.Slug, "fire-safety-101-")
	})

	t.Run("slug_probe_failure_is_not_read_as_free", func(t *testing.T) {
		failing := newStubRepository()
		failing.findBySlugErr = errors.New("connection reset")
		failingService := authoring.NewService(failing, rulesService(), nil, nil, testLogger())

		created, err := failingService.Create(context.Background(), &course.Course{Title: "Fire Safety 101"})
		require.NoError(t, err)

		// A lookup the service could not complete must not claim the
		// natural slug; the suffixed form cannot collide with it.
		assert.NotEqual(t, "fire-safety-101", created.Slug)
		assert.Contains(t, created.Slug, "fire-safety-101-")
	})
}

/*
TestService_Update tests that identity and provenance are server-owned.
*/
func TestService_Update(t *testing.T) {
	existing := cleanCourse()
	repo := newStubRepository(existing)
	service := authoring.NewService(repo, rulesService(), nil, nil, testLogger())

	submitted := &course.Course{
		ID:    "attacker-chosen",
		Slug:  "attacker-chosen",
		Title: "Renamed Course",
	}

	updated, err := service.Update(context.Background(), existing.ID, submitted)
	require.NoError(t, err)

	assert.Equal(t, existing.ID, updated.ID)
	assert.Equal(t, existing.Slug, updated.Slug)
	assert.Equal(t, existing.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Renamed Course", updated.Title)

	t.Run("unknown_id", func(t *testing.T) {
		_, err := service.Update(context.Background(), "missing", submitted)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

/*
TestService_Validate_LocalOnly tests the nil-remote deployment: the local
report comes back unmerged.
*/
func TestService_Validate_LocalOnly(t *testing.T) {
	service := authoring.NewService(newStubRepository(), rulesService(), nil, nil, testLogger())

	report, err := service.Validate(context.Background(), &course.Course{Title: "No author, no pages"})
	require.NoError(t, err)

	assert.False(t, report.Valid)
	require.NotEmpty(t, report.Errors)
	for _, e := range report.Errors {
		assert.Empty(t, e.Type, "local findings carry no remote tag")
	}
}

/*
TestService_Validate_MergesRemote tests that remote findings join the
local report in bucket order.
*/
func TestService_Validate_MergesRemote(t *testing.T) {
	remote := &stubRemote{result: validation.NewResult([]validation.Error{
		{ID: "remote-1", Field: "templates", Message: "shape mismatch", Type: validation.RemoteTypeType},
	})}
	service := authoring.NewService(newStubRepository(), rulesService(), remote, nil, testLogger())

	report, err := service.Validate(context.Background(), cleanCourse())
	require.NoError(t, err)

	assert.Equal(t, 1, remote.calls)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "shape mismatch", report.Errors[0].Message)
	assert.False(t, report.Valid)
}

/*
TestService_Validate_RemoteTransportFailure tests the isolation contract:
an unreachable validator is an upstream error, never a clean report.
*/
func TestService_Validate_RemoteTransportFailure(t *testing.T) {
	remote := &stubRemote{err: errors.New("connection refused")}
	service := authoring.NewService(newStubRepository(), rulesService(), remote, nil, testLogger())

	_, err := service.Validate(context.Background(), cleanCourse())
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", appErr.Code)
	assert.Equal(t, http.StatusBadGateway, appErr.HTTPStatus)
}

/*
TestService_Validate_CacheHit tests that a cached report skips both
engines on the second identical submission.
*/
func TestService_Validate_CacheHit(t *testing.T) {
	remote := &stubRemote{result: validation.NewResult(nil)}
	cache := newStubCache()
	service := authoring.NewService(newStubRepository(), rulesService(), remote, cache, testLogger())

	first, err := service.Validate(context.Background(), cleanCourse())
	require.NoError(t, err)
	assert.Equal(t, 1, remote.calls)

	second, err := service.Validate(context.Background(), cleanCourse())
	require.NoError(t, err)

	assert.Equal(t, 1, remote.calls, "cache hit must not consult the remote validator")
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first, second)
}

/*
TestService_Validate_CacheFailureDegrades tests that a broken cache never
fails validation.
*/
func TestService_Validate_CacheFailureDegrades(t *testing.T) {
	cache := newStubCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	service := authoring.NewService(newStubRepository(), rulesService(), nil, cache, testLogger())

	report, err := service.Validate(context.Background(), cleanCourse())
	require.NoError(t, err)
	assert.True(t, report.Valid)
}

/*
TestService_Validate_DigestDiscriminates tests that different documents
never share a cache entry.
*/
func TestService_Validate_DigestDiscriminates(t *testing.T) {
	cache := newStubCache()
	service := authoring.NewService(newStubRepository(), rulesService(), nil, cache, testLogger())

	clean, err := service.Validate(context.Background(), cleanCourse())
	require.NoError(t, err)
	assert.True(t, clean.Valid)

	broken := cleanCourse()
	broken.Title = ""
	dirty, err := service.Validate(context.Background(), broken)
	require.NoError(t, err)
	assert.False(t, dirty.Valid)

	assert.Len(t, cache.entries, 2)
}

/*
TestService_Export tests the gate: clean courses produce a package,
blocked courses produce EXPORT_BLOCKED with the blocking count.
*/
func TestService_Export(t *testing.T) {
	t.Run("clean_course_exports", func(t *testing.T) {
		stored := cleanCourse()
		service := authoring.NewService(newStubRepository(stored), rulesService(), nil, nil, testLogger())

		pkg, err := service.Export(context.Background(), stored.ID)
		require.NoError(t, err)

		assert.Equal(t, stored.ID, pkg.Manifest.CourseID)
		assert.Equal(t, 2, pkg.Manifest.PageCount)
		assert.NotEmpty(t, pkg.Manifest.Checksum)
	})

	t.Run("blocking_errors_refuse_export", func(t *testing.T) {
		stored := cleanCourse()
		stored.Title = "" // schema error: blocking
		service := authoring.NewService(newStubRepository(stored), rulesService(), nil, nil, testLogger())

		_, err := service.Export(context.Background(), stored.ID)
		require.Error(t, err)

		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "EXPORT_BLOCKED", appErr.Code)
		assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)
		assert.Contains(t, appErr.Message, "1 blocking")
	})

	t.Run("warnings_do_not_block", func(t *testing.T) {
		stored := cleanCourse()
		// Empty body on a text page is a draft warning only.
		stored.Pages[1].Content = &course.PageContent{}
		service := authoring.NewService(newStubRepository(stored), rulesService(), nil, nil, testLogger())

		_, err := service.Export(context.Background(), stored.ID)
		require.NoError(t, err)
	})

	t.Run("remote_structural_finding_blocks", func(t *testing.T) {
		stored := cleanCourse()
		remote := &stubRemote{result: validation.NewResult([]validation.Error{
			{ID: "remote-1", Field: "templates", Message: "bad shape", Type: validation.RemoteTypeValue},
		})}
		service := authoring.NewService(newStubRepository(stored), rulesService(), remote, nil, testLogger())

		_, err := service.Export(context.Background(), stored.ID)
		require.Error(t, err)
		assert.Equal(t, "EXPORT_BLOCKED", apperr.As(err).Code)
	})

	t.Run("unknown_course", func(t *testing.T) {
		service := authoring.NewService(newStubRepository(), rulesService(), nil, nil, testLogger())

		_, err := service.Export(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

/*
TestService_Delete tests soft-delete pass-through semantics.
*/
func TestService_Delete(t *testing.T) {
	stored := cleanCourse()
	repo := newStubRepository(stored)
	service := authoring.NewService(repo, rulesService(), nil, nil, testLogger())

	require.NoError(t, service.Delete(context.Background(), stored.ID))
	assert.NotContains(t, repo.byID, stored.ID)

	err := service.Delete(context.Background(), stored.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
