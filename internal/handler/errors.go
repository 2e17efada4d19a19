package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/brandflow/brandflow/internal/handler/dto"
	"github.com/brandflow/brandflow/internal/middleware"
	"github.com/brandflow/brandflow/internal/service"
	"github.com/brandflow/brandflow/internal/storage"
	"github.com/brandflow/brandflow/internal/upstream"
)

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var (
		validation  *service.ValidationError
		upstreamErr *upstream.Error
		tooLarge    *http.MaxBytesError
	)

	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, dto.CodeValidation, validation.Message)
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, dto.CodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, service.ErrUserExists):
		writeError(w, http.StatusBadRequest, dto.CodeUserExists, "User already exists")
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, dto.CodeUnauthorized, "Not authorized, token failed")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, dto.CodeForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, dto.CodeNotFound, err.Error())
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, dto.CodePayloadTooLarge, "Request body too large")
	case errors.Is(err, storage.ErrUploadFailed):
		logger.Warn("upload_failed", "error", err, "request_id", middleware.GetRequestID(r.Context()))
		writeError(w, http.StatusBadGateway, dto.CodeUploadFailed, err.Error())
	case errors.As(err, &upstreamErr):
		logger.Warn("upstream_error",
			"provider", upstreamErr.Provider,
			"status", upstreamErr.Status,
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		status := upstreamErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		writeError(w, status, dto.CodeUpstream, upstreamErr.Message)
	default:
		logger.Error("internal_error", "error", err, "request_id", middleware.GetRequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, dto.CodeInternal, "An internal error occurred")
	}
}
