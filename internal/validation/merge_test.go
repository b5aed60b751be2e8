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
TestClassify tests the remote type tag to bucket mapping.
*/
func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  validation.Error
		want validation.Bucket
	}{
		{"value_error_is_structural", validation.Error{Type: validation.RemoteTypeValue}, validation.BucketStructural},
		{"type_error_is_structural", validation.Error{Type: validation.RemoteTypeType}, validation.BucketStructural},
		{"business_rule_error", validation.Error{Type: validation.RemoteTypeBusiness}, validation.BucketBusiness},
		{"untagged_local_error", validation.Error{Category: validation.CategorySchema}, validation.BucketOther},
		{"unknown_tag", validation.Error{Type: "assertion_error"}, validation.BucketOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validation.Classify(tt.err))
		})
	}
}

/*
TestMerge tests bucket ordering: structural, business, other — with the
local-first concatenation order preserved inside each bucket.
*/
func TestMerge(t *testing.T) {
	local := validation.NewResult([]validation.Error{
		{Message: "local schema", Category: validation.CategorySchema},
		{Message: "local template", Category: validation.CategoryTemplate},
	})
	remote := validation.NewResult([]validation.Error{
		{Message: "remote business", Type: validation.RemoteTypeBusiness},
		{Message: "remote shape", Type: validation.RemoteTypeType},
		{Message: "remote untagged"},
	})

	merged := validation.Merge(local, remote)

	require.Len(t, merged.Errors, 5)
	assert.False(t, merged.Valid)

	messages := make([]string, 0, len(merged.Errors))
	for _, e := range merged.Errors {
		messages = append(messages, e.Message)
	}

	assert.Equal(t, []string{
		"remote shape",    // structural bucket
		"remote business", // business bucket
		"local schema",    // other bucket, local first
		"local template",
		"remote untagged",
	}, messages)
}

/*
TestMerge_BothClean tests that two clean results merge into a valid one.
*/
func TestMerge_BothClean(t *testing.T) {
	merged := validation.Merge(validation.NewResult(nil), validation.NewResult(nil))
	assert.True(t, merged.Valid)
	assert.Empty(t, merged.Errors)
}

/*
TestMerge_RemoteOnly tests that a clean local result does not mask
remote findings.
*/
func TestMerge_RemoteOnly(t *testing.T) {
	remote := validation.NewResult([]validation.Error{
		{Message: "remote shape", Type: validation.RemoteTypeValue},
	})

	merged := validation.Merge(validation.NewResult(nil), remote)
	require.Len(t, merged.Errors, 1)
	assert.False(t, merged.Valid)
}

/*
TestHasBlocking tests the export gate: remote structural errors always
block, local errors follow their own blocking rule.
*/
func TestHasBlocking(t *testing.T) {
	tests := []struct {
		name string
		errs []validation.Error
		want bool
	}{
		{
			"clean_result",
			nil,
			false,
		},
		{
			"remote_structural_blocks_regardless_of_level",
			[]validation.Error{{Type: validation.RemoteTypeValue, Level: validation.LevelInfo}},
			true,
		},
		{
			"remote_business_warning_does_not_block",
			[]validation.Error{{Type: validation.RemoteTypeBusiness, Level: validation.LevelWarning}},
			false,
		},
		{
			"local_schema_error_blocks",
			[]validation.Error{{Category: validation.CategorySchema, Level: validation.LevelError}},
			true,
		},
		{
			"local_warnings_do_not_block",
			[]validation.Error{
				{Category: validation.CategoryBusiness, Level: validation.LevelWarning},
				{Category: validation.CategoryTemplate, Level: validation.LevelWarning},
			},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validation.HasBlocking(validation.NewResult(tt.errs)))
		})
	}
}
