// Package handlers implements the HTTP endpoints of the DAG store API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dagstore-backend/internal/interfaces/http/dto"
	"dagstore-backend/internal/interfaces/http/validation"
	"dagstore-backend/internal/middleware"
	graphservice "dagstore-backend/internal/service/graph"
	"dagstore-backend/pkg/api"
	domainerrors "dagstore-backend/pkg/errors"
)

// GraphHandler serves the graph CRUD endpoints.
type GraphHandler struct {
	service graphservice.Service
	logger  *zap.Logger
}

// NewGraphHandler creates a graph handler.
func NewGraphHandler(service graphservice.Service, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{
		service: service,
		logger:  logger,
	}
}

// CreateGraph handles POST /api/graph/.
func (h *GraphHandler) CreateGraph(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateGraphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.ValidationError(w, []api.FieldError{{Field: "body", Message: "Malformed JSON request body"}})
		return
	}

	if err := validation.ValidateRequest(&req); err != nil {
		var verrs dto.ValidationErrors
		if errors.As(err, &verrs) {
			writeValidationErrors(w, verrs)
			return
		}
		api.ValidationError(w, []api.FieldError{{Field: "body", Message: err.Error()}})
		return
	}

	id, err := h.service.CreateGraph(r.Context(), req.NodeNames(), req.EdgeSpecs())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	api.Success(w, http.StatusCreated, dto.GraphCreateResponse{ID: id})
}

// GetGraph handles GET /api/graph/{graphID}/.
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	graphID, ok := h.graphIDParam(w, r)
	if !ok {
		return
	}

	g, err := h.service.GetGraph(r.Context(), graphID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, dto.GraphReadFromDomain(g))
}

// GetAdjacencyList handles GET /api/graph/{graphID}/adjacency_list.
func (h *GraphHandler) GetAdjacencyList(w http.ResponseWriter, r *http.Request) {
	graphID, ok := h.graphIDParam(w, r)
	if !ok {
		return
	}

	adjacency, err := h.service.GetAdjacencyList(r.Context(), graphID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, dto.AdjacencyListResponse{AdjacencyList: adjacency})
}

// GetReverseAdjacencyList handles GET /api/graph/{graphID}/reverse_adjacency_list.
func (h *GraphHandler) GetReverseAdjacencyList(w http.ResponseWriter, r *http.Request) {
	graphID, ok := h.graphIDParam(w, r)
	if !ok {
		return
	}

	adjacency, err := h.service.GetReverseAdjacencyList(r.Context(), graphID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, dto.AdjacencyListResponse{AdjacencyList: adjacency})
}

// DeleteNode handles DELETE /api/graph/{graphID}/node/{nodeName}.
func (h *GraphHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	graphID, ok := h.graphIDParam(w, r)
	if !ok {
		return
	}
	nodeName := chi.URLParam(r, "nodeName")

	if err := h.service.DeleteNode(r.Context(), graphID, nodeName); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	api.NoContent(w)
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, dto.HealthResponse{Status: "healthy"})
}

// graphIDParam parses the {graphID} path parameter. A non-integer value
// is a request-shape error, mirroring typed path parameters.
func (h *GraphHandler) graphIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "graphID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		api.ValidationError(w, []api.FieldError{{Field: "graph_id", Message: "Must be a valid integer"}})
		return 0, false
	}
	return id, true
}

// handleServiceError maps domain errors onto HTTP statuses: validation
// failures become 400, missing resources 404, everything else a
// generic 500.
func (h *GraphHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if derr, ok := domainerrors.GetDomainError(err); ok && !domainerrors.IsInternal(err) {
		api.Error(w, derr.StatusCode, derr.Code, derr.Message)
		return
	}

	h.logger.Error("request failed",
		zap.String("request_id", middleware.GetRequestIDFromRequest(r)),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	api.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

func writeValidationErrors(w http.ResponseWriter, verrs dto.ValidationErrors) {
	fields := make([]api.FieldError, len(verrs.Errors))
	for i, e := range verrs.Errors {
		fields[i] = api.FieldError{Field: e.Field, Message: e.Message}
	}
	api.ValidationError(w, fields)
}
