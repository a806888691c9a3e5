package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vouchwall/testimonial-service/pkg/httputil"
	"github.com/vouchwall/testimonial-service/pkg/validator"

	"github.com/vouchwall/testimonial-service/internal/service"
)

// SelectionHandler handles HTTP requests for display-surface selections.
type SelectionHandler struct {
	service *service.TestimonialService
	logger  *slog.Logger
}

// NewSelectionHandler creates a new selection HTTP handler.
func NewSelectionHandler(svc *service.TestimonialService, logger *slog.Logger) *SelectionHandler {
	return &SelectionHandler{
		service: svc,
		logger:  logger,
	}
}

// PutSelectionRequest is the JSON request body for storing a selection.
// An empty list clears the surface.
type PutSelectionRequest struct {
	IDs []string `json:"ids" validate:"omitempty,max=200,dive,required"`
}

// selectionResponse pairs resolved records with the surviving id list.
type selectionResponse struct {
	Records any      `json:"records"`
	IDs     []string `json:"ids"`
}

// Resolve handles GET /api/v1/projects/{projectId}/selections/{surfaceId}.
// Stale ids are dropped and the cleaned list is re-persisted before the
// response is written.
func (h *SelectionHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	surfaceID := chi.URLParam(r, "surfaceId")

	models, ids, err := h.service.ResolveSelection(r.Context(), userID(r), projectID(r), surfaceID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: selectionResponse{Records: models, IDs: ids},
	})
}

// Put handles PUT /api/v1/projects/{projectId}/selections/{surfaceId}.
func (h *SelectionHandler) Put(w http.ResponseWriter, r *http.Request) {
	surfaceID := chi.URLParam(r, "surfaceId")

	var req PutSelectionRequest
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

	if err := h.service.PutSelection(r.Context(), userID(r), projectID(r), surfaceID, req.IDs); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"surface_id": surfaceID, "ids": req.IDs},
	})
}
