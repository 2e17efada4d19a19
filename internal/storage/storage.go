// Package storage uploads media to an external asset host and returns a
// stable public URL for it.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/brandflow/brandflow/internal/upstream"
)

// ErrUploadFailed is matched by every error an Uploader returns.
var ErrUploadFailed = errors.New("upload failed")

// Provider names accepted by New.
const (
	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"
)

// Uploader stores a data URL or a remote http(s) URL and returns its hosted URL.
// Every call creates a new asset.
type Uploader interface {
	Upload(ctx context.Context, source string) (string, error)
}

// UploadError describes a failed upload and matches ErrUploadFailed.
type UploadError struct {
	Provider string
	Message  string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload media to %s: %s", e.Provider, e.Message)
}

// Is reports ErrUploadFailed as a match.
func (e *UploadError) Is(target error) bool {
	return target == ErrUploadFailed
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Config selects and configures the asset host.
type Config struct {
	Provider string
	Folder   string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string

	// MaxSourceBytes bounds remote sources fetched by providers that cannot
	// ingest a URL themselves.
	MaxSourceBytes int64
}

// New builds the uploader for cfg.Provider. Missing credentials produce an
// uploader that fails every call with ErrUploadFailed rather than a startup error.
func New(ctx context.Context, cfg Config, client *http.Client, logger *slog.Logger) (Uploader, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderCloudinary
	}

	switch provider {
	case ProviderCloudinary:
		if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
			logger.Warn("asset host credentials missing, uploads will fail", "provider", provider)
			return Unconfigured(provider), nil
		}
		return NewCloudinary(cfg)
	case ProviderS3:
		if cfg.S3Bucket == "" || cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
			logger.Warn("asset host credentials missing, uploads will fail", "provider", provider)
			return Unconfigured(provider), nil
		}
		return NewS3(ctx, cfg, upstream.RestrictToPublic(client))
	default:
		return nil, fmt.Errorf("unknown asset provider %q", cfg.Provider)
	}
}

type unconfigured struct {
	provider string
}

// Unconfigured returns an Uploader that always fails.
func Unconfigured(provider string) Uploader {
	return unconfigured{provider: provider}
}

func (u unconfigured) Upload(context.Context, string) (string, error) {
	return "", &UploadError{Provider: u.provider, Message: "asset host is not configured"}
}
