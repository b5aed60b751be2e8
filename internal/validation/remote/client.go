// Copyright (c) 2026 Manabi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package remote implements the HTTP client for the external schema
validator service.

The schema validator is a separate backend that re-checks a normalized
course document against its own schema. Its findings are merged with the
local rule engine's result by [validation.Merge].

Architecture:

  - Transport only: this package maps wire shapes onto [validation.Error]
    values; it applies no business rules of its own.
  - Failure isolation: a transport failure (timeout, non-2xx other than
    422, malformed body) is returned as an error and never folded into
    the validation taxonomy — "could not reach the validator" must stay
    distinct from "the validator found problems".
*/
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/taibuivan/manabi/internal/validation"
	"github.com/taibuivan/manabi/pkg/uuidv7"
)

// Outbound throttle for the shared schema-validator deployment.
const (
	defaultRPS   = 10.0
	defaultBurst = 20
)

// # Wire Shapes

// submitRequest is the request envelope: the normalized course document
// serialized to a JSON string, as the validator API expects.
type submitRequest struct {
	Course string `json:"course"`
}

// wireError is one error entry in the validator's success-shaped response.
type wireError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

// successResponse is the 2xx response shape.
type successResponse struct {
	Valid  bool        `json:"valid"`
	Errors []wireError `json:"errors"`
}

// detailEntry is one entry of the 422-style response's detail array.
type detailEntry struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// # Client

// Client calls the external schema validator over HTTP.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient constructs a schema-validator [Client].
//
// # Parameters
//   - baseURL: root URL of the validator service.
//   - timeout: per-request deadline.
//   - logger: structured logger for transport events.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(defaultRPS), defaultBurst),
		logger:  logger,
	}
}

/*
ValidateCourse submits a normalized course document for schema validation.

Description: POSTs the document to /validate and maps either response
shape onto a [validation.Result]. A 2xx response carries {valid, errors};
a 422 carries {detail: [...] | string}, whose last `loc` segment becomes
the field name, falling back to "course".

Parameters:
  - ctx: context.Context (cancellation and deadline)
  - courseJSON: []byte (the canonical document, already serialized)

Returns:
  - validation.Result: the remote findings, possibly empty
  - error: transport failure only — never a validation outcome
*/
func (client *Client) ValidateCourse(ctx context.Context, courseJSON []byte) (validation.Result, error) {
	// Outbound throttle: the validator is a shared deployment.
	if err := client.limiter.Wait(ctx); err != nil {
		return validation.Result{}, fmt.Errorf("remote: rate limiter wait: %w", err)
	}

	response, err := client.http.R().
		SetContext(ctx).
		SetBody(submitRequest{Course: string(courseJSON)}).
		Post("/validate")
	if err != nil {
		return validation.Result{}, fmt.Errorf("remote: schema validator unreachable: %w", err)
	}

	switch {
	case response.StatusCode() == http.StatusUnprocessableEntity:
		return client.parseDetailResponse(response.Body())

	case response.IsSuccess():
		return client.parseSuccessResponse(response.Body())
	}

	client.logger.Warn("schema_validator_unexpected_status",
		slog.Int("status", response.StatusCode()),
	)
	return validation.Result{}, fmt.Errorf("remote: schema validator returned status %d", response.StatusCode())
}

// parseSuccessResponse maps the {valid, errors} shape.
func (client *Client) parseSuccessResponse(body []byte) (validation.Result, error) {
	var payload successResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return validation.Result{}, fmt.Errorf("remote: malformed validator response: %w", err)
	}

	errs := make([]validation.Error, 0, len(payload.Errors))
	for _, wireErr := range payload.Errors {
		field := wireErr.Field
		if field == "" {
			field = "course"
		}
		errs = append(errs, mapRemoteError(field, wireErr.Message, wireErr.Type))
	}

	return validation.NewResult(errs), nil
}

// parseDetailResponse maps the 422 {detail: [...]|string} shape.
func (client *Client) parseDetailResponse(body []byte) (validation.Result, error) {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return validation.Result{}, fmt.Errorf("remote: malformed 422 response: %w", err)
	}

	// detail may be a plain string.
	var message string
	if err := json.Unmarshal(envelope.Detail, &message); err == nil {
		return validation.NewResult([]validation.Error{
			mapRemoteError("course", message, validation.RemoteTypeValue),
		}), nil
	}

	var entries []detailEntry
	if err := json.Unmarshal(envelope.Detail, &entries); err != nil {
		return validation.Result{}, fmt.Errorf("remote: malformed 422 detail: %w", err)
	}

	errs := make([]validation.Error, 0, len(entries))
	for _, entry := range entries {
		errs = append(errs, mapRemoteError(fieldFromLoc(entry.Loc), entry.Msg, entry.Type))
	}

	return validation.NewResult(errs), nil
}

// fieldFromLoc resolves the field name from a 422 `loc` path: the last
// segment when present, "course" otherwise.
func fieldFromLoc(loc []any) string {
	if len(loc) == 0 {
		return "course"
	}

	last := loc[len(loc)-1]
	switch v := last.(type) {
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; array indices are integral.
		return fmt.Sprintf("[%d]", int(v))
	}
	return "course"
}

// mapRemoteError builds a categorized [validation.Error] from a remote
// finding. The type tag drives the category; the final level follows the
// same escalation rule the local service applies.
func mapRemoteError(field, message, typeTag string) validation.Error {
	category := validation.CategorySchema
	if typeTag == validation.RemoteTypeBusiness {
		category = validation.CategoryBusiness
	}

	e := validation.Error{
		ID:       "remote-" + uuidv7.New(),
		Field:    field,
		Category: category,
		Message:  message,
		Type:     typeTag,
	}
	e.Level = validation.Escalate(e)
	return e
}
