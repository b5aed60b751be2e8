// Copyright (c) 2026 Manabi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// PostgreSQL implementation of the course repository.
//
// # Storage Model
//
// A course is an author-edited document tree, not a relational fact table:
// the page collection, navigation settings, and quiz payloads change shape
// with every editor release. The document is therefore stored as a single
// JSONB column, with the fields needed for listing and lookup (title,
// author, slug) denormalized into real columns.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.

package course

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/manabi/internal/platform/apperr"
	"github.com/taibuivan/manabi/internal/platform/dberr"
)

// PostgresRepository implements the [Repository] interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the [Repository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// List returns a filtered, paginated page of courses with the total count.
func (repository *PostgresRepository) List(ctx context.Context, f Filter, limit, offset int) ([]*Course, int, error) {
	const query = `
		SELECT document, COUNT(*) OVER() AS total
		FROM authoring.course
		WHERE deletedat IS NULL
		  AND ($1 = '' OR author = $1)
		  AND ($2 = '' OR title ILIKE '%' || $2 || '%')
		ORDER BY updatedat DESC
		LIMIT $3 OFFSET $4`

	rows, err := repository.pool.Query(ctx, query, f.Author, f.Query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_course_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var courses []*Course
	var total int
	for rows.Next() {
		var document []byte
		if err := rows.Scan(&document, &total); err != nil {
			return nil, 0, fmt.Errorf("postgres_course_repo_list_scan_failed: %w", err)
		}

		c, err := decodeDocument(document)
		if err != nil {
			return nil, 0, err
		}
		courses = append(courses, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_course_repo_list_rows_failed: %w", err)
	}

	return courses, total, nil
}

// FindByID retrieves a course document by its unique ID.
//
// # Returns
//
// Returns [*Course] if found, or [apperr.NotFound] if no active row exists.
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Course, error) {
	const query = `
		SELECT document
		FROM authoring.course
		WHERE id = $1 AND deletedat IS NULL`

	var document []byte
	err := repository.pool.QueryRow(ctx, query, id).Scan(&document)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Course")
		}
		return nil, fmt.Errorf("postgres_course_repo_find_by_id_failed: %w", err)
	}

	return decodeDocument(document)
}

// FindBySlug retrieves a course document by its URL slug.
//
// # Returns
//
// Returns [*Course] if found, or [apperr.NotFound] if no active row exists.
func (repository *PostgresRepository) FindBySlug(ctx context.Context, slug string) (*Course, error) {
	const query = `
		SELECT document
		FROM authoring.course
		WHERE slug = $1 AND deletedat IS NULL`

	var document []byte
	err := repository.pool.QueryRow(ctx, query, slug).Scan(&document)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Course")
		}
		return nil, fmt.Errorf("postgres_course_repo_find_by_slug_failed: %w", err)
	}

	return decodeDocument(document)
}

// Create persists a new course record into the authoring.course table.
//
// # Parameters
//   - ctx: Context for the database operation.
//   - c: The course entity to persist. ID and Slug must already be set.
func (repository *PostgresRepository) Create(ctx context.Context, c *Course) error {
	const query = `
		INSERT INTO authoring.course (
			id, slug, title, author, document, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	document, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("postgres_course_repo_encode_failed: %w", err)
	}

	_, err = repository.pool.Exec(ctx, query,
		c.ID,
		c.Slug,
		c.Title,
		c.Author,
		document,
		c.CreatedAt,
		c.UpdatedAt,
	)

	if err != nil {
		// Maps a unique violation on the active-slug index to a 409.
		return dberr.Wrap(err, "postgres_course_repo_create_failed")
	}

	return nil
}

// Update replaces the stored document and refreshes the denormalized columns.
func (repository *PostgresRepository) Update(ctx context.Context, c *Course) error {
	const query = `
		UPDATE authoring.course
		SET slug = $2, title = $3, author = $4, document = $5, updatedat = $6
		WHERE id = $1 AND deletedat IS NULL`

	c.UpdatedAt = time.Now()

	document, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("postgres_course_repo_encode_failed: %w", err)
	}

	tag, err := repository.pool.Exec(ctx, query,
		c.ID,
		c.Slug,
		c.Title,
		c.Author,
		document,
		c.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "postgres_course_repo_update_failed")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Course")
	}

	return nil
}

// SoftDelete marks a course as deleted using its ID.
func (repository *PostgresRepository) SoftDelete(ctx context.Context, id string) error {
	const query = "UPDATE authoring.course SET deletedat = $2 WHERE id = $1 AND deletedat IS NULL"

	tag, err := repository.pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_course_repo_soft_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Course")
	}

	return nil
}

// decodeDocument unmarshals a stored JSONB document into the domain entity.
func decodeDocument(document []byte) (*Course, error) {
	c := &Course{}
	if err := json.Unmarshal(document, c); err != nil {
		return nil, fmt.Errorf("postgres_course_repo_decode_failed: %w", err)
	}
	return c, nil
}
