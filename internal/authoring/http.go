// Copyright (c) 2026 Manabi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// HTTP delivery layer for the authoring use cases.
//
// # Architecture
//
// Handlers act as the "gatekeepers" to the system. They are responsible for:
//   - JSON Request parsing and strict input validation.
//   - Mapping HTTP contexts to service layer method calls.
//   - Standardizing JSON response formats via the [respond] package.
//
// They contain NO business logic or database queries.

package authoring

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/manabi/internal/course"
	requestutil "github.com/taibuivan/manabi/internal/platform/request"
	"github.com/taibuivan/manabi/internal/platform/respond"
	"github.com/taibuivan/manabi/pkg/pagination"
)

// Handler implements the course authoring HTTP endpoints.
type Handler struct {
	authoringService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authoringService: service}
}

// Routes returns a [chi.Router] configured with the authoring routes.
//
// # Endpoints
//   - GET    /                        : Lists courses (paginated).
//   - POST   /                        : Creates a course document.
//   - GET    /{courseID}              : Fetches one course.
//   - PUT    /{courseID}              : Replaces a course document.
//   - DELETE /{courseID}              : Soft-deletes a course.
//   - POST   /validate                : Validates a submitted document.
//   - POST   /validate/field          : Live-checks a single field.
//   - GET    /{courseID}/export       : Exports a validated course package.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Post("/validate", handler.validate)
	router.Post("/validate/field", handler.validateField)

	router.Route("/{courseID}", func(r chi.Router) {
		r.Get("/", handler.get)
		r.Put("/", handler.update)
		r.Delete("/", handler.remove)
		r.Get("/export", handler.export)
	})

	return router
}

// list handles GET /api/v1/courses requests.
//
// # Parameters
//   - writer: The HTTP response constructor.
//   - request: The incoming HTTP request payload.
//
// # Returns
//   - Writes HTTP 200 OK with a paginated course list.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := course.Filter{
		Author: request.URL.Query().Get("author"),
		Query:  request.URL.Query().Get("q"),
	}

	courses, total, err := handler.authoringService.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, courses, pagination.NewMeta(params.Page, params.Limit, total))
}

// create handles POST /api/v1/courses requests.
//
// # Returns
//   - Writes HTTP 201 Created on success with the stored document.
//   - Writes HTTP 400 Bad Request for malformed JSON or a missing title.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input course.Course
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Application Execution ──────────────────────────────────────────

	// Drafts are allowed to be incomplete; the service only enforces the
	// minimum identity requirements (a title).
	created, err := handler.authoringService.Create(request.Context(), &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, created)
}

// get handles GET /api/v1/courses/{courseID} requests.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "courseID")

	found, err := handler.authoringService.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

// update handles PUT /api/v1/courses/{courseID} requests.
//
// # Returns
//   - Writes HTTP 200 OK with the updated document.
//   - Writes HTTP 404 Not Found for unknown IDs.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "courseID")

	var input course.Course
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.authoringService.Update(request.Context(), id, &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

// remove handles DELETE /api/v1/courses/{courseID} requests.
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "courseID")

	if err := handler.authoringService.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// validate handles POST /api/v1/courses/validate requests.
//
// # Parameters
//   - The request body is the course document itself — persisted or not,
//     in either historical shape. The editor validates unsaved state.
//
// # Returns
//   - Writes HTTP 200 OK with the merged validation report. An invalid
//     course is still a 200: the report IS the resource.
//   - Writes HTTP 502 Bad Gateway if the schema validator is unreachable.
func (handler *Handler) validate(writer http.ResponseWriter, request *http.Request) {
	var input course.Course
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	report, err := handler.authoringService.Validate(request.Context(), &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, report)
}

// validateFieldRequest is the payload for a live single-field check.
type validateFieldRequest struct {
	Course *course.Course `json:"course"`
	Field  string         `json:"field"`
	Value  any            `json:"value"`
}

// validateField handles POST /api/v1/courses/validate/field requests.
//
// # Returns
//   - Writes HTTP 200 OK with the delegate validator's findings. Fields
//     no validator supports yield an empty valid report.
func (handler *Handler) validateField(writer http.ResponseWriter, request *http.Request) {
	var input validateFieldRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.Field == "" {
		respond.Error(writer, request, requestutil.ErrInvalidJSON)
		return
	}

	report := handler.authoringService.ValidateField(request.Context(), input.Course, input.Field, input.Value)

	respond.OK(writer, report)
}

// export handles GET /api/v1/courses/{courseID}/export requests.
//
// # Returns
//   - Writes HTTP 200 OK with the export package and manifest.
//   - Writes HTTP 409 Conflict while blocking validation errors remain.
//   - Writes HTTP 404 Not Found for unknown IDs.
func (handler *Handler) export(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "courseID")

	pkg, err := handler.authoringService.Export(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pkg)
}
