package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vouchwall/testimonial-service/pkg/httputil"
	"github.com/vouchwall/testimonial-service/pkg/middleware"
	"github.com/vouchwall/testimonial-service/pkg/pagination"
	"github.com/vouchwall/testimonial-service/pkg/validator"

	"github.com/vouchwall/testimonial-service/internal/domain"
	"github.com/vouchwall/testimonial-service/internal/service"
)

// TestimonialHandler handles HTTP requests for testimonial endpoints.
type TestimonialHandler struct {
	service *service.TestimonialService
	logger  *slog.Logger
}

// NewTestimonialHandler creates a new testimonial HTTP handler.
func NewTestimonialHandler(svc *service.TestimonialService, logger *slog.Logger) *TestimonialHandler {
	return &TestimonialHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateTestimonialRequest is the JSON request body for creating a testimonial.
type CreateTestimonialRequest struct {
	Type     string          `json:"type" validate:"omitempty,oneof=text video"`
	Status   string          `json:"status" validate:"omitempty,oneof=pending public hidden"`
	Document domain.Document `json:"document"`
}

// UpdateTestimonialRequest is the JSON request body for a partial update.
type UpdateTestimonialRequest struct {
	Type     *string         `json:"type" validate:"omitempty,oneof=text video"`
	Document domain.Document `json:"document"`
}

// SetStatusRequest is the JSON request body for a status change.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending public hidden"`
}

// LookupRequest is the JSON request body for a get-by-ids lookup.
type LookupRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=100,dive,required"`
}

// --- Handlers ---

// List handles GET /api/v1/projects/{projectId}/testimonials.
func (h *TestimonialHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	q := r.URL.Query()

	input := service.ListInput{
		Page:      params.Page,
		PerPage:   params.PerPage,
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
		Type:      q.Get("type"),
		Source:    q.Get("source"),
		Search:    q.Get("search"),
	}

	models, total, err := h.service.List(r.Context(), userID(r), projectID(r), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK,
		httputil.NewPaginatedResponse(models, total, params.Page, params.PerPage))
}

// Lookup handles POST /api/v1/projects/{projectId}/testimonials/lookup.
// Missing ids are silently dropped; the response preserves input order.
func (h *TestimonialHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req LookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid JSON body: " + err.Error()},
		})
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	models, err := h.service.GetByIDs(r.Context(), userID(r), projectID(r), req.IDs)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: models})
}

// Recent handles GET /api/v1/projects/{projectId}/testimonials/recent.
func (h *TestimonialHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	models, err := h.service.GetRecent(r.Context(), userID(r), projectID(r), limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: models})
}

// Create handles POST /api/v1/projects/{projectId}/testimonials.
func (h *TestimonialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTestimonialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid JSON body: " + err.Error()},
		})
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	rec, err := h.service.Create(r.Context(), userID(r), projectID(r), service.CreateTestimonialInput{
		Type:     req.Type,
		Status:   req.Status,
		Document: req.Document,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: domain.ViewModelFrom(rec)})
}

// Update handles PUT /api/v1/projects/{projectId}/testimonials/{id}.
func (h *TestimonialHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateTestimonialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid JSON body: " + err.Error()},
		})
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	rec, err := h.service.Update(r.Context(), userID(r), projectID(r), id.String(), service.UpdateTestimonialInput{
		Type:     req.Type,
		Document: req.Document,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: domain.ViewModelFrom(rec)})
}

// SetStatus handles PATCH /api/v1/projects/{projectId}/testimonials/{id}/status.
func (h *TestimonialHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid JSON body: " + err.Error()},
		})
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	rec, err := h.service.SetStatus(r.Context(), userID(r), projectID(r), id.String(), req.Status)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: domain.ViewModelFrom(rec)})
}

// Duplicate handles POST /api/v1/projects/{projectId}/testimonials/{id}/duplicate.
func (h *TestimonialHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	rec, err := h.service.Duplicate(r.Context(), userID(r), projectID(r), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: domain.ViewModelFrom(rec)})
}

// Delete handles DELETE /api/v1/projects/{projectId}/testimonials/{id}.
// Cleanup warnings ride alongside the success payload; they never fail the
// request.
func (h *TestimonialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	warnings, err := h.service.Delete(r.Context(), userID(r), projectID(r), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	resp := httputil.Response{Data: map[string]string{"id": id.String()}}
	for _, warning := range warnings {
		resp.Warnings = append(resp.Warnings, warning.String())
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// --- helpers ---

func userID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

func projectID(r *http.Request) string {
	return chi.URLParam(r, "projectId")
}
