package ai

import (
	"context"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/brandflow/brandflow/internal/metrics"
	"github.com/brandflow/brandflow/internal/upstream"
)

// Image generation defaults.
const (
	DefaultImageURL     = "https://api.openai.com/v1"
	DefaultImageModel   = "dall-e-3"
	DefaultImageQuality = "standard"

	// DefaultMaxImageBytes bounds the download of a generated image.
	DefaultMaxImageBytes = 20 << 20

	imageFallbackMessage = "Failed to generate image"
)

// ImageConfig configures an ImageClient.
type ImageConfig struct {
	BaseURL  string
	APIKey   string
	Model    string
	Quality  string
	MaxBytes int64
}

// ImageClient generates images through an OpenAI-compatible
// /images/generations endpoint and fetches the result.
type ImageClient struct {
	cfg     ImageConfig
	client  *http.Client
	metrics metrics.Recorder
}

// NewImageClient creates an ImageClient, filling unset fields with defaults.
func NewImageClient(cfg ImageConfig, client *http.Client, recorder metrics.Recorder) *ImageClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultImageURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultImageModel
	}
	if cfg.Quality == "" {
		cfg.Quality = DefaultImageQuality
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxImageBytes
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ImageClient{cfg: cfg, client: client, metrics: recorder}
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	ResponseFormat string `json:"response_format"`
}

// Generate requests one image and returns its transient URL.
func (c *ImageClient) Generate(ctx context.Context, prompt, size string) (string, error) {
	body, err := postJSON(ctx, c.client, c.metrics, ProviderImage,
		endpoint(c.cfg.BaseURL, "/images/generations"),
		bearer(c.cfg.APIKey),
		imageRequest{
			Model:          c.cfg.Model,
			Prompt:         prompt,
			N:              1,
			Size:           size,
			Quality:        c.cfg.Quality,
			ResponseFormat: "url",
		},
		imageFallbackMessage,
	)
	if err != nil {
		return "", err
	}

	url := gjson.GetBytes(body, "data.0.url").String()
	if url == "" {
		return "", &upstream.Error{Provider: ProviderImage, Status: http.StatusBadGateway, Message: "image response carried no URL"}
	}

	return url, nil
}

// Download fetches a generated image, bounded by the configured size limit.
func (c *ImageClient) Download(ctx context.Context, url string) ([]byte, string, error) {
	return upstream.Download(ctx, c.client, ProviderImage, url, c.cfg.MaxBytes)
}
