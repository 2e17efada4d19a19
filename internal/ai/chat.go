package ai

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/brandflow/brandflow/internal/metrics"
	"github.com/brandflow/brandflow/internal/upstream"
)

// Chat completion defaults.
const (
	DefaultChatURL     = "https://openrouter.ai/api/v1"
	DefaultChatModel   = "deepseek/deepseek-chat"
	DefaultChatTitle   = "BrandFlow AI Assistant"
	DefaultChatReferer = "http://localhost:3001"

	chatTemperature = 0.7
	chatMaxTokens   = 1000

	chatFallbackMessage = "Failed to get AI response"
)

// ChatConfig configures a ChatClient.
type ChatConfig struct {
	BaseURL        string
	APIKey         string
	Model          string
	AppTitle       string
	DefaultReferer string
}

// ChatClient forwards conversations to an OpenAI-compatible
// /chat/completions endpoint.
type ChatClient struct {
	cfg     ChatConfig
	client  *http.Client
	metrics metrics.Recorder
}

// NewChatClient creates a ChatClient, filling unset fields with defaults.
func NewChatClient(cfg ChatConfig, client *http.Client, recorder metrics.Recorder) *ChatClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultChatURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultChatModel
	}
	if cfg.AppTitle == "" {
		cfg.AppTitle = DefaultChatTitle
	}
	if cfg.DefaultReferer == "" {
		cfg.DefaultReferer = DefaultChatReferer
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ChatClient{cfg: cfg, client: client, metrics: recorder}
}

type chatRequest struct {
	Model       string          `json:"model"`
	Messages    json.RawMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

// Complete sends messages verbatim and returns the upstream JSON unchanged.
// referer is the caller's Origin; empty selects the configured default.
func (c *ChatClient) Complete(ctx context.Context, messages json.RawMessage, referer string) (json.RawMessage, error) {
	if referer == "" {
		referer = c.cfg.DefaultReferer
	}

	headers := bearer(c.cfg.APIKey)
	headers.Set("HTTP-Referer", referer)
	headers.Set("X-Title", c.cfg.AppTitle)

	body, err := postJSON(ctx, c.client, c.metrics, ProviderChat,
		endpoint(c.cfg.BaseURL, "/chat/completions"),
		headers,
		chatRequest{
			Model:       c.cfg.Model,
			Messages:    messages,
			Temperature: chatTemperature,
			MaxTokens:   chatMaxTokens,
		},
		chatFallbackMessage,
	)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, &upstream.Error{Provider: ProviderChat, Status: http.StatusBadGateway, Message: chatFallbackMessage}
	}

	return json.RawMessage(body), nil
}
