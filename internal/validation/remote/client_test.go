// Copyright (c) 2026 Manabi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package remote_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/manabi/internal/validation"
	"github.com/taibuivan/manabi/internal/validation/remote"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// newValidatorStub serves a canned response for POST /validate and
// captures the submitted body.
func newValidatorStub(t *testing.T, status int, body string, captured *string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/validate", r.URL.Path)

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if captured != nil {
			*captured = string(raw)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

/*
TestClient_ValidateCourse_Success tests the 2xx {valid, errors} shape and
the request envelope: the document travels as a JSON string.
*/
func TestClient_ValidateCourse_Success(t *testing.T) {
	var captured string
	server := newValidatorStub(t, http.StatusOK, `{
		"valid": false,
		"errors": [
			{"field": "templates", "message": "too few templates", "type": "business_rule_error"},
			{"message": "document rejected", "type": "value_error"}
		]
	}`, &captured)
	defer server.Close()

	client := remote.NewClient(server.URL, time.Second, testLogger())

	result, err := client.ValidateCourse(context.Background(), []byte(`{"title":"X"}`))
	require.NoError(t, err)

	require.Len(t, result.Errors, 2)
	assert.False(t, result.Valid)

	first := result.Errors[0]
	assert.Equal(t, "templates", first.Field)
	assert.Equal(t, validation.CategoryBusiness, first.Category)
	assert.Equal(t, validation.RemoteTypeBusiness, first.Type)
	assert.True(t, strings.HasPrefix(first.ID, "remote-"))

	second := result.Errors[1]
	assert.Equal(t, "course", second.Field, "missing field falls back to course")
	assert.Equal(t, validation.CategorySchema, second.Category)
	assert.Equal(t, validation.LevelError, second.Level)

	// The envelope nests the document as a string, not an object.
	var envelope struct {
		Course string `json:"course"`
	}
	require.NoError(t, json.Unmarshal([]byte(captured), &envelope))
	assert.Equal(t, `{"title":"X"}`, envelope.Course)
}

/*
TestClient_ValidateCourse_CleanDocument tests a valid response with no
findings.
*/
func TestClient_ValidateCourse_CleanDocument(t *testing.T) {
	server := newValidatorStub(t, http.StatusOK, `{"valid": true, "errors": []}`, nil)
	defer server.Close()

	client := remote.NewClient(server.URL, time.Second, testLogger())

	result, err := client.ValidateCourse(context.Background(), []byte(`{}`))
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

/*
TestClient_ValidateCourse_DetailArray tests the 422 detail-array shape:
the last loc segment names the field, including numeric indices.
*/
func TestClient_ValidateCourse_DetailArray(t *testing.T) {
	server := newValidatorStub(t, http.StatusUnprocessableEntity, `{
		"detail": [
			{"loc": ["body", "course", "title"], "msg": "field required", "type": "value_error"},
			{"loc": ["body", "templates", 3], "msg": "invalid template", "type": "type_error"},
			{"loc": [], "msg": "unlocated", "type": "value_error"}
		]
	}`, nil)
	defer server.Close()

	client := remote.NewClient(server.URL, time.Second, testLogger())

	result, err := client.ValidateCourse(context.Background(), []byte(`{}`))
	require.NoError(t, err)
	require.Len(t, result.Errors, 3)

	assert.Equal(t, "title", result.Errors[0].Field)
	assert.Equal(t, "[3]", result.Errors[1].Field)
	assert.Equal(t, "course", result.Errors[2].Field)

	for _, e := range result.Errors {
		assert.Equal(t, validation.CategorySchema, e.Category)
		assert.Equal(t, validation.BucketStructural, validation.Classify(e))
	}
}

/*
TestClient_ValidateCourse_DetailString tests the 422 plain-string detail.
*/
func TestClient_ValidateCourse_DetailString(t *testing.T) {
	server := newValidatorStub(t, http.StatusUnprocessableEntity,
		`{"detail": "request body is not valid JSON"}`, nil)
	defer server.Close()

	client := remote.NewClient(server.URL, time.Second, testLogger())

	result, err := client.ValidateCourse(context.Background(), []byte(`{}`))
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)

	assert.Equal(t, "course", result.Errors[0].Field)
	assert.Equal(t, "request body is not valid JSON", result.Errors[0].Message)
	assert.Equal(t, validation.RemoteTypeValue, result.Errors[0].Type)
}

/*
TestClient_ValidateCourse_UnexpectedStatus tests that non-2xx, non-422
statuses surface as transport errors, never as findings.
*/
func TestClient_ValidateCourse_UnexpectedStatus(t *testing.T) {
	server := newValidatorStub(t, http.StatusBadGateway, `upstream down`, nil)
	defer server.Close()

	client := remote.NewClient(server.URL, time.Second, testLogger())

	_, err := client.ValidateCourse(context.Background(), []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

/*
TestClient_ValidateCourse_TransportError tests an unreachable validator.
*/
func TestClient_ValidateCourse_TransportError(t *testing.T) {
	server := newValidatorStub(t, http.StatusOK, `{}`, nil)
	server.Close() // connection refused from here on

	client := remote.NewClient(server.URL, time.Second, testLogger())

	_, err := client.ValidateCourse(context.Background(), []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")
}

/*
TestClient_ValidateCourse_MalformedBody tests that an unparseable success
body is a transport error.
*/
func TestClient_ValidateCourse_MalformedBody(t *testing.T) {
	server := newValidatorStub(t, http.StatusOK, `not json at all`, nil)
	defer server.Close()

	client := remote.NewClient(server.URL, time.Second, testLogger())

	_, err := client.ValidateCourse(context.Background(), []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}

/*
TestClient_ValidateCourse_ContextCancelled tests cancellation before the
request fires.
*/
func TestClient_ValidateCourse_ContextCancelled(t *testing.T) {
	server := newValidatorStub(t, http.StatusOK, `{"valid": true, "errors": []}`, nil)
	defer server.Close()

	client := remote.NewClient(server.URL, time.Second, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ValidateCourse(ctx, []byte(`{}`))
	require.Error(t, err)
}
