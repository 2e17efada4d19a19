package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/brandflow/brandflow/internal/metrics"
	"github.com/brandflow/brandflow/internal/model"
	"github.com/brandflow/brandflow/internal/repository"
	"github.com/brandflow/brandflow/internal/storage"
)

// Logo generation defaults.
const (
	DefaultLogoStyle = "modern"
	DefaultLogoSize  = "1024x1024"
)

// allowedLogoSizes are the sizes the image API accepts.
var allowedLogoSizes = map[string]bool{
	"1024x1024": true,
	"1792x1024": true,
	"1024x1792": true,
}

// ImageGenerator produces an image for a prompt and fetches it.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt, size string) (string, error)
	Download(ctx context.Context, url string) ([]byte, string, error)
}

// LogoService generates, re-hosts and tracks logos.
type LogoService struct {
	images     ImageGenerator
	uploader   AssetUploader
	media      MediaStore
	businesses BusinessStore
	metrics    metrics.Recorder
	logger     *slog.Logger
}

// NewLogoService creates a new LogoService.
func NewLogoService(images ImageGenerator, uploader AssetUploader, media MediaStore, businesses BusinessStore, recorder metrics.Recorder, logger *slog.Logger) *LogoService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LogoService{
		images:     images,
		uploader:   uploader,
		media:      media,
		businesses: businesses,
		metrics:    recorder,
		logger:     logger,
	}
}

// GenerateLogoInput defines input for generating a logo.
type GenerateLogoInput struct {
	Prompt     string
	BusinessID string
	Style      string
	Size       string
}

// GeneratedLogo describes a newly generated logo.
type GeneratedLogo struct {
	Logo           *model.MediaFile
	OriginalPrompt string
	EnhancedPrompt string
	Style          string
	Size           string
	Business       *model.BusinessSummary
}

// RegeneratedLogo describes a variation of an existing logo.
type RegeneratedLogo struct {
	Logo           *model.MediaFile
	OriginalLogoID string
	Style          string
	Business       *model.BusinessSummary
}

// Generate creates a logo for a business the caller owns.
func (s *LogoService) Generate(ctx context.Context, callerID string, input GenerateLogoInput) (*GeneratedLogo, error) {
	prompt := strings.TrimSpace(input.Prompt)
	if prompt == "" || strings.TrimSpace(input.BusinessID) == "" {
		return nil, invalid("Prompt and businessId are required")
	}

	style := strings.TrimSpace(input.Style)
	if style == "" {
		style = DefaultLogoStyle
	}
	size := strings.TrimSpace(input.Size)
	if size == "" {
		size = DefaultLogoSize
	}
	if !allowedLogoSizes[size] {
		return nil, invalid("size must be one of 1024x1024, 1792x1024, 1024x1792")
	}

	business, err := ownedBusiness(ctx, s.businesses, callerID, input.BusinessID)
	if err != nil {
		return nil, err
	}

	enhanced := EnhancedLogoPrompt(style, business, prompt)

	logo, err := s.produce(ctx, callerID, business, enhanced, size)
	if err != nil {
		return nil, err
	}

	return &GeneratedLogo{
		Logo:           logo,
		OriginalPrompt: input.Prompt,
		EnhancedPrompt: enhanced,
		Style:          style,
		Size:           size,
		Business:       business.Summary(),
	}, nil
}

// Regenerate produces a variation of an existing logo the caller owns.
func (s *LogoService) Regenerate(ctx context.Context, callerID, logoID, style string) (*RegeneratedLogo, error) {
	original, err := s.ownedLogo(ctx, callerID, logoID)
	if err != nil {
		return nil, err
	}
	if original.BusinessID == nil {
		return nil, invalid("Logo is not attached to a business")
	}

	business, err := ownedBusiness(ctx, s.businesses, callerID, *original.BusinessID)
	if err != nil {
		return nil, err
	}

	style = strings.TrimSpace(style)
	if style == "" {
		style = DefaultLogoStyle
	}

	logo, err := s.produce(ctx, callerID, business, VariationLogoPrompt(style, business), DefaultLogoSize)
	if err != nil {
		return nil, err
	}

	return &RegeneratedLogo{
		Logo:           logo,
		OriginalLogoID: original.ID,
		Style:          style,
		Business:       business.Summary(),
	}, nil
}

// ListForUser returns every logo the caller owns with its business summary.
func (s *LogoService) ListForUser(ctx context.Context, callerID string) ([]*model.LogoWithBusiness, error) {
	return s.media.ListLogosWithBusiness(ctx, callerID)
}

// ListForBusiness returns the logos of a business the caller owns.
func (s *LogoService) ListForBusiness(ctx context.Context, callerID, businessID string) ([]*model.MediaFile, error) {
	if _, err := ownedBusiness(ctx, s.businesses, callerID, businessID); err != nil {
		return nil, err
	}

	return s.media.ListMediaFiles(ctx, repository.MediaFilter{
		OwnerID:    callerID,
		BusinessID: businessID,
		Type:       model.MediaTypeLogo,
	})
}

// Delete removes a logo the caller owns. Other media types are not found here.
func (s *LogoService) Delete(ctx context.Context, callerID, logoID string) error {
	if _, err := s.ownedLogo(ctx, callerID, logoID); err != nil {
		return err
	}

	if err := s.media.DeleteMediaFile(ctx, logoID); err != nil {
		return mapMissing(err, repository.ErrMediaFileNotFound, resourceLogo)
	}

	s.metrics.IncResourceDeleted(kindMediaFile)
	return nil
}

// produce runs generate, fetch, encode, upload and persist for one logo.
func (s *LogoService) produce(ctx context.Context, callerID string, business *model.Business, prompt, size string) (*model.MediaFile, error) {
	transientURL, err := s.images.Generate(ctx, prompt, size)
	if err != nil {
		return nil, err
	}

	data, contentType, err := s.images.Download(ctx, transientURL)
	if err != nil {
		return nil, err
	}

	hostedURL, err := uploadAsset(ctx, s.uploader, s.metrics, storage.EncodeDataURL(contentType, data))
	if err != nil {
		return nil, err
	}

	businessID := business.ID
	logo := &model.MediaFile{
		ID:         newID(),
		UserID:     callerID,
		BusinessID: &businessID,
		URL:        hostedURL,
		Type:       model.MediaTypeLogo,
		CreatedAt:  now(),
	}

	if err := s.media.CreateMediaFile(ctx, logo); err != nil {
		return nil, err
	}

	s.metrics.IncResourceCreated(kindMediaFile)
	s.metrics.IncLogoGenerated()
	s.logger.Info("logo generated", "logo_id", logo.ID, "business_id", business.ID, "size", size)

	return logo, nil
}

// ownedLogo loads a logo the caller owns. Media of any other type counts
// as missing.
func (s *LogoService) ownedLogo(ctx context.Context, callerID, id string) (*model.MediaFile, error) {
	getLogo := func(ctx context.Context, id string) (*model.MediaFile, error) {
		m, err := s.media.GetMediaFileByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !m.IsLogo() {
			return nil, repository.ErrMediaFileNotFound
		}
		return m, nil
	}
	return loadOwned(ctx, resourceLogo, callerID, id, getLogo, repository.ErrMediaFileNotFound)
}

// EnhancedLogoPrompt builds the image prompt for a new logo.
func EnhancedLogoPrompt(style string, business *model.Business, prompt string) string {
	return fmt.Sprintf(
		"Create a professional %s logo for %s, a %s business. %s. The logo should be clean, scalable, and suitable for business use. No text or words in the image.",
		style, business.Name, business.Field, prompt,
	)
}

// VariationLogoPrompt builds the image prompt for a logo variation.
func VariationLogoPrompt(style string, business *model.Business) string {
	return fmt.Sprintf(
		"Create a %s logo variation for %s, a %s business. Make it different but maintain the same professional quality. No text or words in the image.",
		style, business.Name, business.Field,
	)
}
