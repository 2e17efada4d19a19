package dto

import (
	"encoding/json"
	"time"

	"github.com/brandflow/brandflow/internal/model"
)

// ChatRequest is the body of POST /chat. Messages stay raw so they are
// forwarded exactly as received.
type ChatRequest struct {
	Messages json.RawMessage `json:"messages"`
}

// SaveConversationRequest is the body of POST /chat/save.
type SaveConversationRequest struct {
	PromptContent   string `json:"promptContent"`
	ResponseContent string `json:"responseContent"`
	BusinessID      string `json:"businessId"`
}

// GenerateLogoRequest is the body of POST /logos/generate.
type GenerateLogoRequest struct {
	Prompt     string `json:"prompt"`
	BusinessID string `json:"businessId"`
	Style      string `json:"style"`
	Size       string `json:"size"`
}

// RegenerateLogoRequest is the body of POST /logos/{id}/regenerate.
type RegenerateLogoRequest struct {
	Style string `json:"style"`
}

// GeneratedLogoResponse describes a newly generated logo.
type GeneratedLogoResponse struct {
	ID             string                 `json:"id"`
	URL            string                 `json:"url"`
	Type           string                 `json:"type"`
	BusinessID     *string                `json:"businessId"`
	CreatedAt      time.Time              `json:"createdAt"`
	OriginalPrompt string                 `json:"originalPrompt"`
	EnhancedPrompt string                 `json:"enhancedPrompt"`
	Style          string                 `json:"style"`
	Size           string                 `json:"size"`
	Business       *model.BusinessSummary `json:"business"`
}

// RegeneratedLogoResponse describes a logo variation.
type RegeneratedLogoResponse struct {
	ID             string                 `json:"id"`
	URL            string                 `json:"url"`
	Type           string                 `json:"type"`
	BusinessID     *string                `json:"businessId"`
	CreatedAt      time.Time              `json:"createdAt"`
	OriginalLogoID string                 `json:"originalLogoId"`
	Style          string                 `json:"style"`
	Business       *model.BusinessSummary `json:"business"`
}
