// Copyright (c) 2026 Manabi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package course defines the core domain entities for the Manabi authoring tool.

It manages the lifecycle of authored courses: ordered, typed pages (welcome
screens, text/video content, multiple-choice quizzes, summaries), their
navigation settings, and the document metadata required for publishing.

Core Responsibility:

  - Document model: Defines the Course aggregate and its Page collection.
  - Shape reconciliation: Historically the editor persisted `pages`/`content`
    while the API persisted `templates`/`data`. The precedence helpers in
    this package ([Course.AllPages], [Page.ResolvedType], [Page.Payload])
    are the single place where those two shapes are reconciled on read.
  - Typing: Resolves the fixed page-type enumeration, including legacy
    aliases, with a documented fallback for unrecognised values.

This package acts as the source of truth for all course-related data models.
*/
package course

import "time"

// # Domain Enums

// PageType classifies an authored page by its template.
type PageType string

const (
	// TypeWelcome is the opening page of a course.
	TypeWelcome PageType = "welcome"

	// TypeContentText is a free-form rich text page.
	TypeContentText PageType = "content-text"

	// TypeContentVideo is a page whose primary payload is a video.
	TypeContentVideo PageType = "content-video"

	// TypeMCQ is a multiple-choice quiz page.
	TypeMCQ PageType = "mcq"

	// TypeSummary is the closing recap page of a course.
	TypeSummary PageType = "summary"
)

// Legacy aliases still found in stored documents. They resolve to current
// types via [ResolveType] and are never written back on export.
const (
	// TypeContentImage predates content-text with an embedded asset.
	TypeContentImage PageType = "content-image"

	// TypeInteractive was the original name of the mcq template.
	TypeInteractive PageType = "interactive"
)

// IsValid reports whether t is a recognised, current [PageType] value.
func (t PageType) IsValid() bool {
	switch t {
	case
		TypeWelcome,
		TypeContentText,
		TypeContentVideo,
		TypeMCQ,
		TypeSummary:
		return true
	}
	return false
}

// NavigationMode describes how a learner moves between pages.
type NavigationMode string

const (
	// NavLinear forces pages to be consumed strictly in order.
	NavLinear NavigationMode = "linear"

	// NavFree allows jumping to any page at any time.
	NavFree NavigationMode = "free"

	// NavBranching routes the learner according to per-page conditions.
	NavBranching NavigationMode = "branching"
)

// IsValid reports whether m is a recognised [NavigationMode] value.
func (m NavigationMode) IsValid() bool {
	switch m {
	case NavLinear, NavFree, NavBranching:
		return true
	}
	return false
}

// # Core Entities

// Course is the central aggregate of the Manabi domain.
// It represents one authored course document, in either historical shape.
type Course struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug,omitempty"` // URL-safe identifier
	Author      string `json:"author"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`  // Semantic version ("1.0.0")
	Language    string `json:"language,omitempty"` // BCP-47 language tag, defaults to "en"

	// Pages is the editor-internal page collection. Exactly one of Pages
	// and Templates is normally populated; [Course.AllPages] reconciles.
	Pages []*Page `json:"pages,omitempty"`

	// Templates is the API-shape page collection.
	Templates []*Page `json:"templates,omitempty"`

	Assets     []Asset             `json:"assets,omitempty"`
	Navigation *NavigationSettings `json:"navigation,omitempty"`
	Settings   *CourseSettings     `json:"settings,omitempty"`

	CreatedAt time.Time  `json:"created_at,omitzero"`
	UpdatedAt time.Time  `json:"updated_at,omitzero"`
	DeletedAt *time.Time `json:"-"` // nil = active; non-nil = soft-deleted
}

// AllPages returns the authoritative page collection regardless of which
// historical shape the document arrived in. The editor shape (`pages`)
// wins when both are present, mirroring what the editor itself renders.
func (c *Course) AllPages() []*Page {
	if len(c.Pages) > 0 {
		return c.Pages
	}
	return c.Templates
}

// Page is one authored unit of a course. In the API shape the same entity
// is called a "template"; the two terms are interchangeable.
type Page struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`

	// Type is the statically stored page type.
	Type PageType `json:"type,omitempty"`

	// TemplateType is the runtime type assigned by the editor. When both
	// properties are present they can legitimately disagree; TemplateType
	// wins. Resolve only via [Page.ResolvedType], never inline.
	TemplateType PageType `json:"templateType,omitempty"`

	// Order is the zero-based position within the course. Stored values
	// may be stale (gaps, duplicates); normalization resequences them.
	Order int `json:"order"`

	// Content is the editor-shape payload; Data is the API-shape payload.
	// Read only through [Page.Payload].
	Content *PageContent `json:"content,omitempty"`
	Data    *PageContent `json:"data,omitempty"`

	// Conditions holds the branching rules evaluated when the course
	// navigation mode is "branching".
	Conditions []BranchCondition `json:"conditions,omitempty"`

	// Derived flags maintained by the editor.
	IsDraft bool `json:"isDraft,omitempty"`
	IsValid bool `json:"isValid,omitempty"`

	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// ResolvedType returns the effective page type: the runtime templateType
// property wins over the static type property when both exist.
//
// The second return value reports whether any type was present at all;
// a page with no type is a structural error, not a fallback candidate.
func (p *Page) ResolvedType() (PageType, bool) {
	if p.TemplateType != "" {
		return p.TemplateType, true
	}
	if p.Type != "" {
		return p.Type, true
	}
	return "", false
}

// ResolveType maps a raw page type onto the current enumeration.
//
// # Fallback
//
// Legacy aliases map to their modern equivalent. Unrecognised values fall
// back to content-text so that a stale document still renders; callers
// that care about the mismatch (the template validator) check the second
// return value.
func ResolveType(t PageType) (PageType, bool) {
	switch t {
	case TypeContentImage:
		return TypeContentText, true
	case TypeInteractive:
		return TypeMCQ, true
	}
	if t.IsValid() {
		return t, true
	}
	return TypeContentText, false
}

// Payload returns the page's content payload regardless of document shape.
// The API-shape `data` property wins when both are present, matching the
// precedence the backend has always applied on ingest.
func (p *Page) Payload() *PageContent {
	if p.Data != nil {
		return p.Data
	}
	return p.Content
}

// BranchCondition routes the learner to a target page when its expression
// holds. Only the fields relevant to flow validation are modelled here.
type BranchCondition struct {
	ID           string `json:"id,omitempty"`
	Expression   string `json:"expression,omitempty"`
	TargetPageID string `json:"targetPageId"`
}

// Asset is an uploaded file (image, video, attachment) referenced by pages.
type Asset struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Kind string `json:"kind,omitempty"` // image, video, attachment
	Size int64  `json:"size,omitempty"`
}

// CourseSettings holds presentation preferences for the rendered course.
type CourseSettings struct {
	Theme    string `json:"theme,omitempty"`
	Autoplay bool   `json:"autoplay"`
}

// # Document Limits

const (
	// MaxTitleLen is the maximum course title length in characters.
	MaxTitleLen = 200

	// MaxAuthorLen is the maximum author name length in characters.
	MaxAuthorLen = 100

	// MaxDescriptionLen is the maximum description length in characters.
	MaxDescriptionLen = 500

	// MaxPages is the maximum number of pages in one course.
	MaxPages = 100
)

// DefaultLanguage is applied when a document carries no language tag.
const DefaultLanguage = "en"

// DefaultVersion is applied when a document carries no valid semver string.
const DefaultVersion = "1.0.0"

// DefaultAuthor is applied when a document carries no author.
const DefaultAuthor = "Unknown"

// # Field Identifiers

// Global field names for validation and field-level dispatch.
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldAuthor      = "author"
	FieldDescription = "description"
	FieldVersion     = "version"
	FieldLanguage    = "language"
	FieldPages       = "pages"
	FieldNavigation  = "navigation"
	FieldSettings    = "settings"
)

// Field identifiers for the [NavigationSettings] domain.
const (
	FieldNavMode              = "navigation.mode"
	FieldNavAllowBack         = "navigation.allowBack"
	FieldNavRequireCompletion = "navigation.requireCompletion"
)
