// Copyright (c) 2026 Manabi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package course

import "context"

// Repository defines the data access contract for the course domain.
//
// # Architecture
//
// The interface lives in the domain package because the service layer
// (the consumer) defines what it needs. The PostgreSQL implementation is
// in store_postgres.go.
type Repository interface {
	// List returns a filtered, paginated slice of courses and the total count.
	//
	// Returns:
	//   - []*Course: The list of courses matching the filter.
	//   - int: Total count for pagination.
	//   - error: Database or connection errors.
	List(ctx context.Context, f Filter, limit, offset int) ([]*Course, int, error)

	// FindByID returns the course with the given ID.
	//
	// It returns ErrNotFound if the course is absent or soft-deleted.
	FindByID(ctx context.Context, id string) (*Course, error)

	// FindBySlug returns the course with the given slug.
	//
	// It returns ErrNotFound if no match is found.
	FindBySlug(ctx context.Context, slug string) (*Course, error)

	// Create persists a new course document.
	//
	// The caller is responsible for generating and setting the ID and Slug
	// before calling this method.
	Create(ctx context.Context, c *Course) error

	// Update persists the full replacement document for an existing course.
	Update(ctx context.Context, c *Course) error

	// SoftDelete marks a course as deleted without removing the row.
	SoftDelete(ctx context.Context, id string) error
}

// Filter holds the parameters for a filtered course list query.
type Filter struct {
	Author string // Filter by exact author name.
	Query  string // Case-insensitive title search term.
}
