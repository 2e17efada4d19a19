package model

import (
	"encoding/json"
	"time"
)

// Business is a brand profile owned by a single user.
type Business struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	Name         string          `json:"name"`
	Field        string          `json:"field"`
	Description  *string         `json:"description"`
	ColorPalette json.RawMessage `json:"colorPalette"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// OwnerID returns the id of the owning user.
func (b *Business) OwnerID() string {
	return b.UserID
}

// Summary returns the short form embedded in logo responses.
func (b *Business) Summary() *BusinessSummary {
	return &BusinessSummary{
		ID:    b.ID,
		Name:  b.Name,
		Field: b.Field,
	}
}

// BusinessSummary is the subset of a business shown next to generated media.
type BusinessSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Field string `json:"field"`
}
