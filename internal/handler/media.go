package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brandflow/brandflow/internal/auth"
	"github.com/brandflow/brandflow/internal/handler/dto"
	"github.com/brandflow/brandflow/internal/model"
	"github.com/brandflow/brandflow/internal/service"
)

// MediaHandler handles HTTP requests for media files.
type MediaHandler struct {
	svc    *service.MediaService
	logger *slog.Logger
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(svc *service.MediaService, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{svc: svc, logger: logger}
}

// List handles GET /api/v1/media-files?businessId=&type=.
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	files, err := h.svc.List(r.Context(), auth.UserIDFromContext(r.Context()), service.MediaQuery{
		BusinessID: query.Get("businessId"),
		Type:       query.Get("type"),
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, files)
}

// Create handles POST /api/v1/media-files.
func (h *MediaHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.store(w, r, h.svc.Create)
}

// Upload handles POST /api/v1/media-files/upload.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	h.store(w, r, h.svc.Upload)
}

// Delete handles DELETE /api/v1/media-files/{id}.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(r.Context(), auth.UserIDFromContext(r.Context()), id); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, dto.MessageResponse{Message: "Media file deleted successfully"})
}

type storeFunc func(ctx context.Context, callerID string, input service.CreateMediaInput) (*model.MediaFile, error)

func (h *MediaHandler) store(w http.ResponseWriter, r *http.Request, fn storeFunc) {
	var req dto.CreateMediaRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	m, err := fn(r.Context(), auth.UserIDFromContext(r.Context()), service.CreateMediaInput{
		Source:     req.Source(),
		Type:       req.Type,
		BusinessID: req.BusinessID,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("media_file_created", "media_id", m.ID, "type", m.Type)

	writeData(w, http.StatusCreated, m)
}
