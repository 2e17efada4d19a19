package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brandflow/brandflow/internal/auth"
	"github.com/brandflow/brandflow/internal/handler/dto"
	"github.com/brandflow/brandflow/internal/service"
)

// BusinessHandler handles HTTP requests for business profiles.
type BusinessHandler struct {
	svc    *service.BusinessService
	logger *slog.Logger
}

// NewBusinessHandler creates a new BusinessHandler.
func NewBusinessHandler(svc *service.BusinessService, logger *slog.Logger) *BusinessHandler {
	return &BusinessHandler{svc: svc, logger: logger}
}

// List handles GET /api/v1/businesses.
func (h *BusinessHandler) List(w http.ResponseWriter, r *http.Request) {
	businesses, err := h.svc.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, businesses)
}

// Create handles POST /api/v1/businesses.
func (h *BusinessHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBusinessRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := h.svc.Create(r.Context(), auth.UserIDFromContext(r.Context()), service.CreateBusinessInput{
		Name:         req.Name,
		Field:        req.Field,
		Description:  req.Description,
		ColorPalette: req.ColorPalette,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("business_created", "business_id", b.ID, "user_id", b.UserID)

	writeData(w, http.StatusCreated, b)
}

// Get handles GET /api/v1/businesses/{id}.
func (h *BusinessHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Get(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, b)
}

// Update handles PUT /api/v1/businesses/{id}.
func (h *BusinessHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateBusinessRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input := service.UpdateBusinessInput{
		Name:  req.Name,
		Field: req.Field,
		Description: service.Patch[string]{
			Set:   req.Description.Set,
			Value: req.Description.Ptr(),
		},
		ColorPalette: service.Patch[json.RawMessage]{
			Set:   req.ColorPalette.Set,
			Value: req.ColorPalette.Ptr(),
		},
	}

	b, err := h.svc.Update(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "id"), input)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, b)
}

// Delete handles DELETE /api/v1/businesses/{id}.
func (h *BusinessHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(r.Context(), auth.UserIDFromContext(r.Context()), id); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("business_deleted", "business_id", id)

	writeData(w, http.StatusOK, dto.MessageResponse{Message: "Business deleted successfully"})
}
