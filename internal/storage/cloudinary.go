package storage

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// DefaultFolder is the asset folder when none is configured.
const DefaultFolder = "ai-branding"

// Cloudinary uploads through the Cloudinary upload API. Data URLs and remote
// URLs are passed through; Cloudinary ingests both.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinary creates a Cloudinary uploader.
func NewCloudinary(cfg Config) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("configure cloudinary: %w", err)
	}

	folder := cfg.Folder
	if folder == "" {
		folder = DefaultFolder
	}

	return &Cloudinary{cld: cld, folder: folder}, nil
}

// Upload implements Uploader.
func (c *Cloudinary) Upload(ctx context.Context, source string) (string, error) {
	if !IsDataURL(source) && !IsRemoteURL(source) {
		return "", &UploadError{Provider: ProviderCloudinary, Message: "source must be a data URL or http(s) URL"}
	}

	resp, err := c.cld.Upload.Upload(ctx, source, uploader.UploadParams{
		Folder:       c.folder,
		ResourceType: "auto",
	})
	if err != nil {
		return "", &UploadError{Provider: ProviderCloudinary, Message: err.Error(), Err: err}
	}
	if resp.Error.Message != "" {
		return "", &UploadError{Provider: ProviderCloudinary, Message: resp.Error.Message}
	}
	if resp.SecureURL == "" {
		return "", &UploadError{Provider: ProviderCloudinary, Message: "response carried no secure URL"}
	}

	return resp.SecureURL, nil
}
