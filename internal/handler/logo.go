package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brandflow/brandflow/internal/auth"
	"github.com/brandflow/brandflow/internal/handler/dto"
	"github.com/brandflow/brandflow/internal/service"
)

// LogoHandler handles logo generation and management.
type LogoHandler struct {
	svc    *service.LogoService
	logger *slog.Logger
}

// NewLogoHandler creates a new LogoHandler.
func NewLogoHandler(svc *service.LogoService, logger *slog.Logger) *LogoHandler {
	return &LogoHandler{svc: svc, logger: logger}
}

// Generate handles POST /api/v1/logos/generate.
func (h *LogoHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateLogoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.svc.Generate(r.Context(), auth.UserIDFromContext(r.Context()), service.GenerateLogoInput{
		Prompt:     req.Prompt,
		BusinessID: req.BusinessID,
		Style:      req.Style,
		Size:       req.Size,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeData(w, http.StatusCreated, &dto.GeneratedLogoResponse{
		ID:             res.Logo.ID,
		URL:            res.Logo.URL,
		Type:           res.Logo.Type,
		BusinessID:     res.Logo.BusinessID,
		CreatedAt:      res.Logo.CreatedAt,
		OriginalPrompt: res.OriginalPrompt,
		EnhancedPrompt: res.EnhancedPrompt,
		Style:          res.Style,
		Size:           res.Size,
		Business:       res.Business,
	})
}

// Regenerate handles POST /api/v1/logos/{id}/regenerate.
func (h *LogoHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	var req dto.RegenerateLogoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.svc.Regenerate(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "id"), req.Style)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeData(w, http.StatusCreated, &dto.RegeneratedLogoResponse{
		ID:             res.Logo.ID,
		URL:            res.Logo.URL,
		Type:           res.Logo.Type,
		BusinessID:     res.Logo.BusinessID,
		CreatedAt:      res.Logo.CreatedAt,
		OriginalLogoID: res.OriginalLogoID,
		Style:          res.Style,
		Business:       res.Business,
	})
}

// ListForUser handles GET /api/v1/logos/user.
func (h *LogoHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	logos, err := h.svc.ListForUser(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, logos)
}

// ListForBusiness handles GET /api/v1/logos/business/{id}.
func (h *LogoHandler) ListForBusiness(w http.ResponseWriter, r *http.Request) {
	logos, err := h.svc.ListForBusiness(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, logos)
}

// Delete handles DELETE /api/v1/logos/{id}.
func (h *LogoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, dto.MessageResponse{Message: "Logo deleted successfully"})
}
