// Copyright (c) 2026 Manabi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package transform reconciles the two historical course document shapes
into one canonical shape for validation submission, persistence, and
export.

The editor persists `pages[]` with `content` payloads; the API persists
`templates[]` with `data` payloads, and quizzes exist in both a legacy
flat encoding and a normalized `questions[]` encoding. Every consumer
downstream of this package operates only on the canonical output.

Architecture:

  - Purity: [ForBackend] and [ForExport] never mutate their input. The
    same in-memory document may be read concurrently for validation,
    preview, and export within one user action, so both functions deep-
    clone first.
  - Repair vs. report: normalization unconditionally resequences page
    order and bridges legacy quiz encodings. Reporting that the input
    was stale is the validation package's job, which is why validators
    run on the pre-transform document.
  - Idempotence: applying [ForBackend] to its own output is a no-op.
*/
package transform

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/taibuivan/manabi/internal/course"
	"github.com/taibuivan/manabi/pkg/uuidv7"
)

// versionRegex matches a semantic major.minor.patch version string.
var versionRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// clone deep-copies a course document via a JSON round-trip. The document
// is a pure JSON aggregate, so the round-trip is lossless; fields tagged
// `json:"-"` (decode-time diagnostics) are deliberately not carried into
// the normalized copy.
func clone(c *course.Course) *course.Course {
	raw, err := json.Marshal(c)
	if err != nil {
		// The domain types contain nothing unmarshalable; reaching this
		// means memory corruption, not bad input.
		panic("transform: clone marshal failed: " + err.Error())
	}

	var copied course.Course
	if err := json.Unmarshal(raw, &copied); err != nil {
		panic("transform: clone unmarshal failed: " + err.Error())
	}
	return &copied
}

/*
ForBackend produces the canonical API shape for validation submission and
persistence.

Description: Defaults language, settings, author, and version; reads the
page collection from whichever shape is present; stable-sorts by order
and resequences 0..n-1; derives the canonical content field; bridges
legacy quiz encodings into the normalized questions array; and maps the
legacy lockProgression flag onto linearProgression. It never synthesizes
placeholder content — validation must be able to report incompleteness.

Parameters:
  - c: *course.Course (either historical shape; not mutated)

Returns:
  - *course.Course: a new canonical document
*/
func ForBackend(c *course.Course) *course.Course {
	out := clone(c)

	applyDefaults(out)
	out.Templates = normalizePages(out, false)
	out.Pages = nil
	out.Navigation = normalizeNavigation(out.Navigation)

	return out
}

// applyDefaults fills the document-level fallback values.
func applyDefaults(out *course.Course) {
	if out.Language == "" {
		out.Language = course.DefaultLanguage
	}

	if out.Settings == nil {
		out.Settings = &course.CourseSettings{Theme: "default", Autoplay: false}
	}

	if !versionRegex.MatchString(out.Version) {
		out.Version = course.DefaultVersion
	}

	if strings.TrimSpace(out.Author) == "" {
		out.Author = course.DefaultAuthor
	}
}

// normalizePages produces the canonical template collection: stable-sorted
// by order, resequenced, payload under `data`, quiz encodings bridged.
// Export mode additionally guarantees a structurally complete quiz.
func normalizePages(out *course.Course, export bool) []*course.Page {
	pages := out.AllPages()

	normalized := make([]*course.Page, 0, len(pages))
	for _, page := range pages {
		if page == nil {
			continue
		}
		normalized = append(normalized, page)
	}

	// Stable sort: equal order values keep their original relative
	// position, so resequencing is deterministic.
	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].Order < normalized[j].Order
	})

	for i, page := range normalized {
		page.Order = i
		normalizePage(page, export)
	}

	return normalized
}

// normalizePage rewrites one page into the canonical shape in place
// (the page already belongs to the cloned document).
func normalizePage(page *course.Page, export bool) {
	// Resolve the type once; the canonical shape stores the modern type
	// under `type` only.
	if rawType, present := page.ResolvedType(); present {
		resolved, _ := course.ResolveType(rawType)
		page.Type = resolved
	} else {
		page.Type = course.TypeContentText
	}
	page.TemplateType = ""

	// Canonical payload lives under `data`.
	payload := page.Payload()
	if payload == nil {
		payload = &course.PageContent{}
	}
	page.Data = payload
	page.Content = nil

	// Canonical content field: content > description > body, "" last.
	payload.Content = payload.TextPayload()

	if page.Type == course.TypeMCQ || payload.IsLegacyMCQ() {
		normalizeQuiz(page, payload, export)
	}
}

// normalizeQuiz bridges the legacy flat quiz encoding into the normalized
// questions array. In export mode it also guarantees exactly one
// structurally complete question, synthesizing a placeholder when no
// question data exists at all — validation submission never does this.
func normalizeQuiz(page *course.Page, payload *course.PageContent, export bool) {
	switch {
	case payload.HasNormalizedQuestions():
		// Already normalized. Export reconciles a stray correctAnswer
		// produced by the editor alongside the array; the flat field
		// always wins when present.
		if export && strings.TrimSpace(payload.CorrectAnswer) != "" {
			applyCorrectAnswer(payload.Questions[0].Options, payload.CorrectAnswer)
		}

	case payload.IsLegacyMCQ():
		payload.Questions = []course.Question{bridgeLegacyQuestion(payload)}

	case export:
		// No question data at all: export must still produce a
		// structurally complete package.
		payload.Questions = []course.Question{placeholderQuestion()}
	}

	if payload.Questions != nil {
		// Drop the legacy fields from the canonical shape.
		payload.Question = ""
		payload.Options = nil
		payload.CorrectAnswer = ""
	}
}

// bridgeLegacyQuestion converts the flat question/options/correctAnswer
// encoding into one normalized question, matching the correct-answer text
// against option text (exact match after trimming both sides).
//
// An unmatched correct answer yields zero correct options — losslessly
// preserved so the validators can report "no correct answer" — and is
// surfaced here via a warning log rather than silently dropped.
func bridgeLegacyQuestion(payload *course.PageContent) course.Question {
	options := make([]course.Option, 0, len(payload.Options))

	answer := strings.TrimSpace(payload.CorrectAnswer)
	matched := false

	for _, option := range payload.Options {
		isCorrect := option.IsCorrect
		if !isCorrect && answer != "" && strings.TrimSpace(option.Text) == answer {
			isCorrect = true
		}
		if isCorrect {
			matched = true
		}

		id := option.ID
		if id == "" {
			id = uuidv7.New()
		}

		options = append(options, course.Option{ID: id, Text: option.Text, IsCorrect: isCorrect})
	}

	if answer != "" && !matched {
		slog.Warn("legacy_correct_answer_unmatched",
			slog.String("correct_answer", payload.CorrectAnswer),
		)
	}

	return course.Question{
		ID:       uuidv7.New(),
		Question: payload.Question,
		Options:  options,
	}
}

// applyCorrectAnswer overwrites the isCorrect flags across all options,
// marking exactly those whose trimmed text matches the answer.
func applyCorrectAnswer(options []course.Option, answer string) {
	trimmed := strings.TrimSpace(answer)
	for i := range options {
		options[i].IsCorrect = strings.TrimSpace(options[i].Text) == trimmed
	}
}

// placeholderQuestion synthesizes the minimal structurally valid quiz for
// export: two options, the first marked correct.
func placeholderQuestion() course.Question {
	return course.Question{
		ID:       uuidv7.New(),
		Question: "Untitled question",
		Options: []course.Option{
			{ID: uuidv7.New(), Text: "Option 1", IsCorrect: true},
			{ID: uuidv7.New(), Text: "Option 2", IsCorrect: false},
		},
	}
}

// normalizeNavigation maps the legacy lockProgression flag onto the
// canonical linearProgression field. An explicit linearProgression
// boolean wins over the legacy source when both are present; absent both,
// the canonical value is false.
func normalizeNavigation(nav *course.NavigationSettings) *course.NavigationSettings {
	if nav == nil {
		nav = &course.NavigationSettings{}
	}

	if nav.LinearProgression == nil {
		value := false
		if nav.LockProgression != nil {
			value = *nav.LockProgression
		}
		nav.LinearProgression = &value
	}
	nav.LockProgression = nil

	if nav.Mode == "" {
		nav.Mode = course.NavLinear
	}

	return nav
}
