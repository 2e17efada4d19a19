package dto

import (
	"encoding/json"
)

// CreateBusinessRequest is the body of POST /businesses.
type CreateBusinessRequest struct {
	Name         string          `json:"name"`
	Field        string          `json:"field"`
	Description  *string         `json:"description"`
	ColorPalette json.RawMessage `json:"colorPalette"`
}

// UpdateBusinessRequest is the body of PUT /businesses/{id}. Absent fields
// keep their stored value; description and colorPalette accept null to clear.
type UpdateBusinessRequest struct {
	Name         *string                   `json:"name"`
	Field        *string                   `json:"field"`
	Description  Optional[string]          `json:"description"`
	ColorPalette Optional[json.RawMessage] `json:"colorPalette"`
}

// CreateMediaRequest is the body of POST /media-files and POST /media-files/upload.
type CreateMediaRequest struct {
	DataURL    string `json:"dataUrl"`
	URL        string `json:"url"`
	Type       string `json:"type"`
	BusinessID string `json:"businessId"`
}

// Source returns the data URL when present, otherwise the remote URL.
func (r CreateMediaRequest) Source() string {
	if r.DataURL != "" {
		return r.DataURL
	}
	return r.URL
}

// CreatePlanRequest is the body of POST /marketing-plans.
type CreatePlanRequest struct {
	Content    string `json:"content"`
	BusinessID string `json:"businessId"`
}

// UpdatePlanRequest is the body of PUT /marketing-plans/{id}.
type UpdatePlanRequest struct {
	Content *string `json:"content"`
}
