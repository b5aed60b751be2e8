// Copyright (c) 2026 Manabi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package course

import (
	"encoding/json"
	"strings"
)

// # Page Payloads

// PageContent is the free-form content payload of a page. Its required
// shape depends on the resolved page type; every field here is optional
// at the document level and enforced only by the validators.
type PageContent struct {
	// Title is used by welcome and summary templates.
	Title string `json:"title,omitempty"`

	// Body/Description/Content are the three historical spellings of the
	// text payload. Normalization derives a single `content` value with
	// the precedence content > description > body.
	Body        string `json:"body,omitempty"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`

	// VideoURL is used by content-video templates.
	VideoURL string `json:"videoUrl,omitempty"`

	// Question/Options/CorrectAnswer form the legacy flat MCQ encoding:
	// plain option strings with the correct answer repeated as text.
	Question      string   `json:"question,omitempty"`
	Options       []Option `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`

	// Questions is the normalized MCQ encoding with explicit per-option
	// correctness flags. When present it supersedes the legacy fields.
	Questions []Question `json:"questions,omitempty"`
}

// Question is one normalized multiple-choice question.
type Question struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []Option `json:"options"`
}

// Option is one answer option of a multiple-choice question.
type Option struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// UnmarshalJSON accepts both option encodings: the legacy bare string
// ("Paris") and the normalized object ({"id", "text", "isCorrect"}).
// A bare string decodes to an Option carrying only its text.
func (o *Option) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))

	// Legacy encoding: plain JSON string.
	if strings.HasPrefix(trimmed, `"`) {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*o = Option{Text: text}
		return nil
	}

	// Normalized encoding: object. Alias type avoids unmarshal recursion.
	type optionAlias Option
	var alias optionAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*o = Option(alias)
	return nil
}

// HasNormalizedQuestions reports whether the payload already carries the
// normalized questions array.
func (c *PageContent) HasNormalizedQuestions() bool {
	return c != nil && len(c.Questions) > 0
}

// IsLegacyMCQ reports whether the payload uses the legacy flat MCQ shape
// (question plus plain options, no normalized questions array).
func (c *PageContent) IsLegacyMCQ() bool {
	if c == nil || c.HasNormalizedQuestions() {
		return false
	}
	return c.Question != "" || len(c.Options) > 0
}

// OptionCount returns the number of answer options across either MCQ
// encoding, preferring the normalized array.
func (c *PageContent) OptionCount() int {
	if c == nil {
		return 0
	}
	if c.HasNormalizedQuestions() {
		return len(c.Questions[0].Options)
	}
	return len(c.Options)
}

// QuestionText returns the question string across either MCQ encoding.
func (c *PageContent) QuestionText() string {
	if c == nil {
		return ""
	}
	if c.HasNormalizedQuestions() {
		return c.Questions[0].Question
	}
	return c.Question
}

// CorrectCount returns how many options are flagged correct. In the
// legacy encoding an option also counts when its text matches
// [PageContent.CorrectAnswer], trimmed on both sides, since legacy
// string options carry no flag of their own.
func (c *PageContent) CorrectCount() int {
	if c == nil {
		return 0
	}

	if c.HasNormalizedQuestions() {
		count := 0
		for _, option := range c.Questions[0].Options {
			if option.IsCorrect {
				count++
			}
		}
		return count
	}

	answer := strings.TrimSpace(c.CorrectAnswer)

	count := 0
	for _, option := range c.Options {
		if option.IsCorrect || (answer != "" && strings.TrimSpace(option.Text) == answer) {
			count++
		}
	}
	return count
}

// TextPayload returns the first non-empty text field using the canonical
// precedence content > description > body.
func (c *PageContent) TextPayload() string {
	if c == nil {
		return ""
	}
	if c.Content != "" {
		return c.Content
	}
	if c.Description != "" {
		return c.Description
	}
	return c.Body
}

// # Navigation Settings

// NavigationSettings controls how a learner may traverse the course.
//
// # Tolerant Decoding
//
// Authoring clients have historically written non-boolean values into the
// boolean fields ("true" as a string, 1 as a number). Decoding must never
// reject the document — the navigation validator reports the mismatch as
// a schema error instead. UnmarshalJSON therefore decodes leniently and
// records the offending field names in [NavigationSettings.TypeErrors].
type NavigationSettings struct {
	Mode NavigationMode `json:"mode,omitempty"`

	AllowBack         *bool `json:"allowBack,omitempty"`
	RequireCompletion *bool `json:"requireCompletion,omitempty"`

	// LockProgression is the legacy spelling of LinearProgression.
	// Normalization maps it onto LinearProgression with identity
	// semantics; an explicit LinearProgression boolean wins.
	LockProgression   *bool `json:"lockProgression,omitempty"`
	LinearProgression *bool `json:"linearProgression,omitempty"`

	// TypeErrors lists JSON fields that carried a non-boolean value.
	// Populated during decoding, consumed by the navigation validator,
	// never serialized.
	TypeErrors []string `json:"-"`
}

// UnmarshalJSON decodes navigation settings without rejecting documents
// that carry wrongly-typed booleans. See the type documentation.
func (n *NavigationSettings) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*n = NavigationSettings{}

	if modeRaw, ok := raw["mode"]; ok {
		var mode string
		// A non-string mode is reported the same way as an unknown one.
		if err := json.Unmarshal(modeRaw, &mode); err == nil {
			n.Mode = NavigationMode(mode)
		} else {
			n.Mode = NavigationMode(string(modeRaw))
		}
	}

	n.AllowBack = n.decodeBool(raw, "allowBack")
	n.RequireCompletion = n.decodeBool(raw, "requireCompletion")
	n.LockProgression = n.decodeBool(raw, "lockProgression")
	n.LinearProgression = n.decodeBool(raw, "linearProgression")

	return nil
}

// decodeBool decodes one optional boolean field, recording a type error
// instead of failing when the value is present but not a JSON boolean.
func (n *NavigationSettings) decodeBool(raw map[string]json.RawMessage, field string) *bool {
	value, ok := raw[field]
	if !ok || string(value) == "null" {
		return nil
	}

	var b bool
	if err := json.Unmarshal(value, &b); err != nil {
		n.TypeErrors = append(n.TypeErrors, field)
		return nil
	}
	return &b
}
