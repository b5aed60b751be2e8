// Copyright (c) 2026 Manabi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package course_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/manabi/internal/course"
)

/*
TestPage_ResolvedType tests the templateType-over-type precedence.
*/
func TestPage_ResolvedType(t *testing.T) {
	tests := []struct {
		name        string
		page        course.Page
		wantType    course.PageType
		wantPresent bool
	}{
		{"template_type_wins", course.Page{Type: course.TypeWelcome, TemplateType: course.TypeMCQ}, course.TypeMCQ, true},
		{"type_only", course.Page{Type: course.TypeSummary}, course.TypeSummary, true},
		{"template_type_only", course.Page{TemplateType: course.TypeContentVideo}, course.TypeContentVideo, true},
		{"no_type_at_all", course.Page{}, course.PageType(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, present := tt.page.ResolvedType()
			assert.Equal(t, tt.wantType, got)
			assert.Equal(t, tt.wantPresent, present)
		})
	}
}

/*
TestResolveType checks legacy alias mapping and the unknown-type fallback.
*/
func TestResolveType(t *testing.T) {
	tests := []struct {
		name      string
		input     course.PageType
		wantType  course.PageType
		wantKnown bool
	}{
		{"current_type_passes_through", course.TypeMCQ, course.TypeMCQ, true},
		{"legacy_content_image", course.TypeContentImage, course.TypeContentText, true},
		{"legacy_interactive", course.TypeInteractive, course.TypeMCQ, true},
		{"unknown_falls_back", course.PageType("hologram"), course.TypeContentText, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, known := course.ResolveType(tt.input)
			assert.Equal(t, tt.wantType, got)
			assert.Equal(t, tt.wantKnown, known)
		})
	}
}

/*
TestCourse_AllPages tests the pages-over-templates shape precedence.
*/
func TestCourse_AllPages(t *testing.T) {
	editorPage := &course.Page{ID: "editor"}
	apiPage := &course.Page{ID: "api"}

	tests := []struct {
		name   string
		course course.Course
		wantID string
	}{
		{"pages_win_when_both_present", course.Course{Pages: []*course.Page{editorPage}, Templates: []*course.Page{apiPage}}, "editor"},
		{"templates_when_pages_empty", course.Course{Templates: []*course.Page{apiPage}}, "api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := tt.course.AllPages()
			require.Len(t, pages, 1)
			assert.Equal(t, tt.wantID, pages[0].ID)
		})
	}

	t.Run("both_empty", func(t *testing.T) {
		assert.Empty(t, (&course.Course{}).AllPages())
	})
}

/*
TestPage_Payload tests the data-over-content payload precedence.
*/
func TestPage_Payload(t *testing.T) {
	editorPayload := &course.PageContent{Body: "editor"}
	apiPayload := &course.PageContent{Body: "api"}

	page := course.Page{Content: editorPayload, Data: apiPayload}
	assert.Equal(t, "api", page.Payload().Body)

	page = course.Page{Content: editorPayload}
	assert.Equal(t, "editor", page.Payload().Body)

	assert.Nil(t, (&course.Page{}).Payload())
}

/*
TestOption_UnmarshalJSON verifies both answer-option encodings decode.
*/
func TestOption_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want course.Option
	}{
		{"legacy_bare_string", `"Paris"`, course.Option{Text: "Paris"}},
		{"normalized_object", `{"id":"o1","text":"Paris","isCorrect":true}`, course.Option{ID: "o1", Text: "Paris", IsCorrect: true}},
		{"object_without_flag", `{"text":"London"}`, course.Option{Text: "London"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got course.Option
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("mixed_encodings_in_one_array", func(t *testing.T) {
		var options []course.Option
		raw := `["Paris", {"text":"London","isCorrect":false}]`
		require.NoError(t, json.Unmarshal([]byte(raw), &options))
		require.Len(t, options, 2)
		assert.Equal(t, "Paris", options[0].Text)
		assert.Equal(t, "London", options[1].Text)
	})
}

/*
TestPageContent_CorrectCount tests both MCQ encodings, including the
legacy text match against correctAnswer.
*/
func TestPageContent_CorrectCount(t *testing.T) {
	tests := []struct {
		name    string
		payload course.PageContent
		want    int
	}{
		{
			"normalized_flags",
			course.PageContent{Questions: []course.Question{{
				Options: []course.Option{{Text: "A", IsCorrect: true}, {Text: "B"}},
			}}},
			1,
		},
		{
			"legacy_text_match",
			course.PageContent{
				Question:      "Capital of France?",
				Options:       []course.Option{{Text: "Paris"}, {Text: "London"}},
				CorrectAnswer: "Paris",
			},
			1,
		},
		{
			"legacy_trimmed_match",
			course.PageContent{
				Options:       []course.Option{{Text: " B "}, {Text: "A"}},
				CorrectAnswer: "B",
			},
			1,
		},
		{
			"legacy_unmatched_answer",
			course.PageContent{
				Options:       []course.Option{{Text: "A"}, {Text: "B"}},
				CorrectAnswer: "C",
			},
			0,
		},
		{
			"legacy_no_answer",
			course.PageContent{Options: []course.Option{{Text: "A"}}},
			0,
		},
		{
			"legacy_flagged_options_without_answer",
			course.PageContent{Options: []course.Option{
				{Text: "A", IsCorrect: true},
				{Text: "B", IsCorrect: true},
			}},
			2,
		},
		{
			"legacy_flag_and_answer_count_once_per_option",
			course.PageContent{
				Options:       []course.Option{{Text: "A", IsCorrect: true}, {Text: "B"}},
				CorrectAnswer: "A",
			},
			1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.payload.CorrectCount())
		})
	}
}

/*
TestPageContent_TextPayload tests the content > description > body precedence.
*/
func TestPageContent_TextPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload course.PageContent
		want    string
	}{
		{"content_wins", course.PageContent{Content: "c", Description: "d", Body: "b"}, "c"},
		{"description_over_body", course.PageContent{Description: "d", Body: "b"}, "d"},
		{"body_last", course.PageContent{Body: "b"}, "b"},
		{"all_empty", course.PageContent{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.payload.TextPayload())
		})
	}
}

/*
TestNavigationSettings_UnmarshalJSON tests the tolerant boolean decoding:
wrongly-typed fields are recorded, never rejected.
*/
func TestNavigationSettings_UnmarshalJSON(t *testing.T) {
	t.Run("valid_booleans", func(t *testing.T) {
		var nav course.NavigationSettings
		raw := `{"mode":"linear","allowBack":true,"requireCompletion":false}`
		require.NoError(t, json.Unmarshal([]byte(raw), &nav))

		assert.Equal(t, course.NavLinear, nav.Mode)
		require.NotNil(t, nav.AllowBack)
		assert.True(t, *nav.AllowBack)
		require.NotNil(t, nav.RequireCompletion)
		assert.False(t, *nav.RequireCompletion)
		assert.Empty(t, nav.TypeErrors)
	})

	t.Run("string_boolean_recorded_not_rejected", func(t *testing.T) {
		var nav course.NavigationSettings
		raw := `{"mode":"free","allowBack":"true","lockProgression":1}`
		require.NoError(t, json.Unmarshal([]byte(raw), &nav))

		assert.Equal(t, course.NavFree, nav.Mode)
		assert.Nil(t, nav.AllowBack)
		assert.Nil(t, nav.LockProgression)
		assert.ElementsMatch(t, []string{"allowBack", "lockProgression"}, nav.TypeErrors)
	})

	t.Run("null_is_absent", func(t *testing.T) {
		var nav course.NavigationSettings
		require.NoError(t, json.Unmarshal([]byte(`{"allowBack":null}`), &nav))
		assert.Nil(t, nav.AllowBack)
		assert.Empty(t, nav.TypeErrors)
	})
}

/*
TestPageType_IsValid tests that legacy aliases are not current types.
*/
func TestPageType_IsValid(t *testing.T) {
	assert.True(t, course.TypeWelcome.IsValid())
	assert.True(t, course.TypeMCQ.IsValid())
	assert.False(t, course.TypeInteractive.IsValid())
	assert.False(t, course.TypeContentImage.IsValid())
	assert.False(t, course.PageType("").IsValid())
}
