// Copyright (c) 2026 Manabi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/manabi/internal/platform/apperr"
	"github.com/taibuivan/manabi/internal/platform/dberr"
)

/*
TestWrap verifies the database-to-application error mapping: missing rows
become 404, unique violations become 409, everything else becomes 500.
*/
func TestWrap(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{
			"no_rows_is_not_found",
			fmt.Errorf("query failed: %w", pgx.ErrNoRows),
			"NOT_FOUND",
			http.StatusNotFound,
		},
		{
			"unique_violation_is_conflict",
			fmt.Errorf("exec failed: %w", &pgconn.PgError{Code: "23505", ConstraintName: "course_slug_active_idx"}),
			"CONFLICT",
			http.StatusConflict,
		},
		{
			"other_pg_error_is_internal",
			&pgconn.PgError{Code: "40001"},
			"INTERNAL_ERROR",
			http.StatusInternalServerError,
		},
		{
			"plain_error_is_internal",
			errors.New("connection reset"),
			"INTERNAL_ERROR",
			http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.Wrap(tt.err, "store_create")

			appErr := apperr.As(wrapped)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantStatus, appErr.HTTPStatus)
		})
	}

	t.Run("nil_passes_through", func(t *testing.T) {
		assert.NoError(t, dberr.Wrap(nil, "store_create"))
	})

	t.Run("internal_cause_keeps_action_label", func(t *testing.T) {
		cause := errors.New("connection reset")
		appErr := apperr.As(dberr.Wrap(cause, "store_update"))

		require.NotNil(t, appErr)
		require.NotNil(t, appErr.Cause)
		assert.Contains(t, appErr.Cause.Error(), "store_update")
		assert.ErrorIs(t, appErr.Cause, cause)
	})
}
