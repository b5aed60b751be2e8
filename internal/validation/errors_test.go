// Copyright (c) 2026 Manabi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/manabi/internal/validation"
)

/*
TestEscalate tests the severity escalation rules: schema always error,
business error only on required fields, other categories keep their level.
*/
func TestEscalate(t *testing.T) {
	tests := []struct {
		name string
		err  validation.Error
		want validation.Level
	}{
		{
			"schema_always_error",
			validation.Error{Category: validation.CategorySchema, Level: validation.LevelInfo},
			validation.LevelError,
		},
		{
			"business_required_field_is_error",
			validation.Error{Category: validation.CategoryBusiness, Field: "settings.requiredFields"},
			validation.LevelError,
		},
		{
			"business_plain_field_is_warning",
			validation.Error{Category: validation.CategoryBusiness, Field: "title"},
			validation.LevelWarning,
		},
		{
			"template_keeps_producer_level",
			validation.Error{Category: validation.CategoryTemplate, Level: validation.LevelError},
			validation.LevelError,
		},
		{
			"navigation_keeps_producer_level",
			validation.Error{Category: validation.CategoryNavigation, Level: validation.LevelWarning},
			validation.LevelWarning,
		},
		{
			"unset_level_defaults_to_info",
			validation.Error{Category: validation.CategoryTemplate},
			validation.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validation.Escalate(tt.err))
		})
	}
}

/*
TestError_IsBlocking tests the export-gating rule per category and level.
*/
func TestError_IsBlocking(t *testing.T) {
	tests := []struct {
		name string
		err  validation.Error
		want bool
	}{
		{
			"schema_error_blocks",
			validation.Error{Category: validation.CategorySchema, Level: validation.LevelError},
			true,
		},
		{
			"business_required_error_blocks",
			validation.Error{Category: validation.CategoryBusiness, Level: validation.LevelError, Field: "content.requiredText"},
			true,
		},
		{
			"business_plain_error_does_not_block",
			validation.Error{Category: validation.CategoryBusiness, Level: validation.LevelError, Field: "title"},
			false,
		},
		{
			"template_error_blocks",
			validation.Error{Category: validation.CategoryTemplate, Level: validation.LevelError},
			true,
		},
		{
			"warning_never_blocks",
			validation.Error{Category: validation.CategorySchema, Level: validation.LevelWarning},
			false,
		},
		{
			"info_never_blocks",
			validation.Error{Category: validation.CategoryNavigation, Level: validation.LevelInfo},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.IsBlocking())
		})
	}
}

/*
TestSortForReport tests the severity-then-message report ordering.
*/
func TestSortForReport(t *testing.T) {
	input := []validation.Error{
		{Message: "Zeta", Level: validation.LevelWarning},
		{Message: "Beta", Level: validation.LevelError},
		{Message: "Alpha", Level: validation.LevelWarning},
		{Message: "Gamma", Level: validation.LevelInfo},
		{Message: "Alpha", Level: validation.LevelError},
	}

	sorted := validation.SortForReport(input)

	messages := make([]string, 0, len(sorted))
	for _, e := range sorted {
		messages = append(messages, e.Message)
	}

	// Errors first (Alpha before Beta), then warnings (Alpha before Zeta), then info.
	assert.Equal(t, []string{"Alpha", "Beta", "Alpha", "Zeta", "Gamma"}, messages)

	// The input slice must not be reordered.
	assert.Equal(t, "Zeta", input[0].Message)
}

/*
TestNewResult tests the valid flag and timestamp stamping.
*/
func TestNewResult(t *testing.T) {
	clean := validation.NewResult(nil)
	assert.True(t, clean.Valid)
	assert.NotNil(t, clean.Errors)
	assert.Empty(t, clean.Errors)
	assert.NotEmpty(t, clean.Timestamp)

	dirty := validation.NewResult([]validation.Error{{Message: "bad"}})
	assert.False(t, dirty.Valid)
	require.Len(t, dirty.Errors, 1)
}

/*
TestResult_FieldIssues tests the inline-feedback projection: info folds
into warning, errors stay errors.
*/
func TestResult_FieldIssues(t *testing.T) {
	result := validation.NewResult([]validation.Error{
		{Field: "title", Message: "missing", Level: validation.LevelError},
		{Field: "description", Message: "long", Level: validation.LevelWarning},
		{Field: "version", Message: "note", Level: validation.LevelInfo},
	})

	issues := result.FieldIssues()
	require.Len(t, issues, 3)

	assert.Equal(t, "error", issues[0].Severity)
	assert.Equal(t, "warning", issues[1].Severity)
	assert.Equal(t, "warning", issues[2].Severity)
	assert.Equal(t, "title", issues[0].Field)
}

/*
TestBounds tests the numeric-range context helper.
*/
func TestBounds(t *testing.T) {
	ctx := validation.Bounds("shorten", 1, 200)
	require.NotNil(t, ctx.Min)
	require.NotNil(t, ctx.Max)
	assert.Equal(t, 1, *ctx.Min)
	assert.Equal(t, 200, *ctx.Max)
	assert.Equal(t, "shorten", ctx.Suggestion)
}
