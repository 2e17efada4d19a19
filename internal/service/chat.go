package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/brandflow/brandflow/internal/metrics"
	"github.com/brandflow/brandflow/internal/model"
)

// ChatCompleter forwards a message list to the chat-completion API.
type ChatCompleter interface {
	Complete(ctx context.Context, messages json.RawMessage, referer string) (json.RawMessage, error)
}

// ChatService proxies chat completions and keeps saved exchanges.
type ChatService struct {
	completer     ChatCompleter
	conversations ConversationStore
	businesses    BusinessStore
	metrics       metrics.Recorder
}

// NewChatService creates a new ChatService.
func NewChatService(completer ChatCompleter, conversations ConversationStore, businesses BusinessStore, recorder metrics.Recorder) *ChatService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ChatService{
		completer:     completer,
		conversations: conversations,
		businesses:    businesses,
		metrics:       recorder,
	}
}

// SaveConversationInput defines input for saving an exchange.
type SaveConversationInput struct {
	PromptContent   string
	ResponseContent string
	BusinessID      string
}

// Complete validates messages and returns the upstream reply unchanged.
// Anything but a non-empty JSON array is rejected before any upstream call.
func (s *ChatService) Complete(ctx context.Context, messages json.RawMessage, referer string) (json.RawMessage, error) {
	if !gjson.ValidBytes(messages) {
		return nil, invalid("messages must be a non-empty array")
	}
	parsed := gjson.ParseBytes(messages)
	if !parsed.IsArray() || len(parsed.Array()) == 0 {
		return nil, invalid("messages must be a non-empty array")
	}

	return s.completer.Complete(ctx, messages, referer)
}

// Save stores a prompt/response pair for a business the caller owns.
func (s *ChatService) Save(ctx context.Context, callerID string, input SaveConversationInput) (*model.Conversation, error) {
	if strings.TrimSpace(input.PromptContent) == "" ||
		strings.TrimSpace(input.ResponseContent) == "" ||
		strings.TrimSpace(input.BusinessID) == "" {
		return nil, invalid("promptContent, responseContent and businessId are required")
	}

	if _, err := ownedBusiness(ctx, s.businesses, callerID, input.BusinessID); err != nil {
		return nil, err
	}

	c := &model.Conversation{
		ID:              newID(),
		UserID:          callerID,
		BusinessID:      input.BusinessID,
		PromptContent:   input.PromptContent,
		ResponseContent: input.ResponseContent,
		CreatedAt:       now(),
	}

	if err := s.conversations.CreateConversation(ctx, c); err != nil {
		return nil, err
	}

	s.metrics.IncResourceCreated(kindConversation)
	return c, nil
}

// History lists saved exchanges for a business the caller owns, newest first.
func (s *ChatService) History(ctx context.Context, callerID, businessID string) ([]*model.Conversation, error) {
	if strings.TrimSpace(businessID) == "" {
		return nil, invalid("businessId is required")
	}

	if _, err := ownedBusiness(ctx, s.businesses, callerID, businessID); err != nil {
		return nil, err
	}

	return s.conversations.ListConversations(ctx, callerID, businessID)
}
