package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brandflow/brandflow/internal/auth"
	"github.com/brandflow/brandflow/internal/handler/dto"
	"github.com/brandflow/brandflow/internal/service"
)

// PlanHandler handles HTTP requests for marketing plans.
type PlanHandler struct {
	svc    *service.PlanService
	logger *slog.Logger
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(svc *service.PlanService, logger *slog.Logger) *PlanHandler {
	return &PlanHandler{svc: svc, logger: logger}
}

// List handles GET /api/v1/marketing-plans?businessId=.
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.svc.List(r.Context(), auth.UserIDFromContext(r.Context()), r.URL.Query().Get("businessId"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, plans)
}

// Create handles POST /api/v1/marketing-plans.
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.svc.Create(r.Context(), auth.UserIDFromContext(r.Context()), req.BusinessID, req.Content)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("marketing_plan_created", "plan_id", p.ID, "business_id", p.BusinessID)

	writeData(w, http.StatusCreated, p)
}

// Get handles GET /api/v1/marketing-plans/{id}.
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

// Update handles PUT /api/v1/marketing-plans/{id}.
func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdatePlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.svc.Update(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "id"), req.Content)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, p)
}

// Delete handles DELETE /api/v1/marketing-plans/{id}.
func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, dto.MessageResponse{Message: "Marketing plan deleted successfully"})
}
