package model

import "time"

// MarketingPlan is free-form plan text attached to a business.
type MarketingPlan struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	BusinessID string    `json:"businessId"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// OwnerID returns the id of the owning user.
func (p *MarketingPlan) OwnerID() string {
	return p.UserID
}

// Conversation is a saved prompt/response pair for a business.
type Conversation struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	BusinessID      string    `json:"businessId"`
	PromptContent   string    `json:"promptContent"`
	ResponseContent string    `json:"responseContent"`
	CreatedAt       time.Time `json:"createdAt"`
}
