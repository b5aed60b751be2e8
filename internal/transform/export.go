// Copyright (c) 2026 Manabi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package transform

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/taibuivan/manabi/internal/course"
)

// # Export Pipeline

/*
ForExport produces the canonical shape for the published course package.

Description: Applies the same normalization as [ForBackend], with one
deliberate difference: every quiz page ends up with exactly one
structurally complete question, even when no question data exists at all
(a placeholder with two options, one correct, is synthesized). Export
must always yield a complete package, whereas validation submission must
be able to report incompleteness. When a normalized questions array
coexists with a stray flat correctAnswer field, the flat field wins and
its text match overwrites the isCorrect flags of the first question.

Parameters:
  - c: *course.Course (either historical shape; not mutated)

Returns:
  - *course.Course: a new export-ready canonical document
*/
func ForExport(c *course.Course) *course.Course {
	out := clone(c)

	applyDefaults(out)
	out.Templates = normalizePages(out, true)
	out.Pages = nil
	out.Navigation = normalizeNavigation(out.Navigation)

	return out
}

// Package is the exported course bundle handed to the publishing
// pipeline: the canonical document plus its integrity manifest.
type Package struct {
	Course   *course.Course `json:"course"`
	Manifest Manifest       `json:"manifest"`
}

// Manifest describes an exported package for integrity verification.
type Manifest struct {
	CourseID    string `json:"course_id"`
	Version     string `json:"version"`
	PageCount   int    `json:"page_count"`
	Checksum    string `json:"checksum"` // BLAKE2b-256 over the course JSON
	GeneratedAt string `json:"generated_at"`
}

// NewPackage exports a course and stamps its manifest.
func NewPackage(c *course.Course) (*Package, error) {
	exported := ForExport(c)

	digest, err := Digest(exported)
	if err != nil {
		return nil, err
	}

	return &Package{
		Course: exported,
		Manifest: Manifest{
			CourseID:    exported.ID,
			Version:     exported.Version,
			PageCount:   len(exported.Templates),
			Checksum:    digest,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

// Digest computes the BLAKE2b-256 hex digest of a course document's JSON
// serialization. Used for export manifests and validation cache keys.
func Digest(c *course.Course) (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", err
	}

	sum := blake2b.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
