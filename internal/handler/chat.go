package handler

import (
	"log/slog"
	"net/http"

	"github.com/brandflow/brandflow/internal/auth"
	"github.com/brandflow/brandflow/internal/handler/dto"
	"github.com/brandflow/brandflow/internal/service"
)

// ChatHandler proxies chat completions and stores saved exchanges.
type ChatHandler struct {
	svc    *service.ChatService
	logger *slog.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(svc *service.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, logger: logger}
}

// Complete handles POST /api/v1/chat. No authentication is required.
func (h *ChatHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req dto.ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reply, err := h.svc.Complete(r.Context(), req.Messages, r.Header.Get("Origin"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, reply)
}

// Save handles POST /api/v1/chat/save.
func (h *ChatHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveConversationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.svc.Save(r.Context(), auth.UserIDFromContext(r.Context()), service.SaveConversationInput{
		PromptContent:   req.PromptContent,
		ResponseContent: req.ResponseContent,
		BusinessID:      req.BusinessID,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeData(w, http.StatusCreated, c)
}

// History handles GET /api/v1/chat/history?businessId=.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.svc.History(r.Context(), auth.UserIDFromContext(r.Context()), r.URL.Query().Get("businessId"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, history)
}
