package model

import "time"

// Media type tags. Type is free text; these are the ones the API assigns itself.
const (
	MediaTypeLogo  = "logo"
	MediaTypeImage = "image"
)

// MediaFile is a hosted asset (upload or AI generated) owned by a user.
type MediaFile struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	BusinessID *string   `json:"businessId"`
	URL        string    `json:"url"`
	Type       string    `json:"type"`
	CreatedAt  time.Time `json:"createdAt"`
}

// OwnerID returns the id of the owning user.
func (m *MediaFile) OwnerID() string {
	return m.UserID
}

// IsLogo reports whether the file was produced by logo generation.
func (m *MediaFile) IsLogo() bool {
	return m.Type == MediaTypeLogo
}

// LogoWithBusiness is a logo row joined with its business summary.
type LogoWithBusiness struct {
	MediaFile
	Business *BusinessSummary `json:"business"`
}
