package service

import (
	"context"
	"strings"

	"github.com/brandflow/brandflow/internal/metrics"
	"github.com/brandflow/brandflow/internal/model"
	"github.com/brandflow/brandflow/internal/repository"
	"github.com/brandflow/brandflow/internal/storage"
)

// AssetUploader re-hosts a data URL or remote URL and returns the hosted URL.
type AssetUploader interface {
	Upload(ctx context.Context, source string) (string, error)
}

// MediaService handles uploaded media files.
type MediaService struct {
	media      MediaStore
	businesses BusinessStore
	uploader   AssetUploader
	metrics    metrics.Recorder
}

// NewMediaService creates a new MediaService.
func NewMediaService(media MediaStore, businesses BusinessStore, uploader AssetUploader, recorder metrics.Recorder) *MediaService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &MediaService{
		media:      media,
		businesses: businesses,
		uploader:   uploader,
		metrics:    recorder,
	}
}

// MediaQuery filters a media listing.
type MediaQuery struct {
	BusinessID string
	Type       string
}

// CreateMediaInput defines input for storing a media file. Source is a
// data URL or an http(s) URL.
type CreateMediaInput struct {
	Source     string
	Type       string
	BusinessID string
}

// List returns the caller's media, newest first. A business filter must
// name a business the caller owns.
func (s *MediaService) List(ctx context.Context, callerID string, query MediaQuery) ([]*model.MediaFile, error) {
	if query.BusinessID != "" {
		if _, err := ownedBusiness(ctx, s.businesses, callerID, query.BusinessID); err != nil {
			return nil, err
		}
	}

	return s.media.ListMediaFiles(ctx, repository.MediaFilter{
		OwnerID:    callerID,
		BusinessID: query.BusinessID,
		Type:       strings.TrimSpace(query.Type),
	})
}

// Create uploads the source and records it. Type defaults to "image" and
// the business is optional.
func (s *MediaService) Create(ctx context.Context, callerID string, input CreateMediaInput) (*model.MediaFile, error) {
	if strings.TrimSpace(input.Source) == "" {
		return nil, invalid("dataUrl or url is required")
	}
	if strings.TrimSpace(input.Type) == "" {
		input.Type = model.MediaTypeImage
	}
	return s.store(ctx, callerID, input)
}

// Upload is the strict form of Create: source, type and business are all required.
func (s *MediaService) Upload(ctx context.Context, callerID string, input CreateMediaInput) (*model.MediaFile, error) {
	if strings.TrimSpace(input.Source) == "" || strings.TrimSpace(input.Type) == "" || strings.TrimSpace(input.BusinessID) == "" {
		return nil, invalid("dataUrl, type and businessId are required")
	}
	return s.store(ctx, callerID, input)
}

// Delete removes a media file the caller owns. The hosted asset is kept.
func (s *MediaService) Delete(ctx context.Context, callerID, id string) error {
	if _, err := loadOwned(ctx, resourceMediaFile, callerID, id, s.media.GetMediaFileByID, repository.ErrMediaFileNotFound); err != nil {
		return err
	}

	if err := s.media.DeleteMediaFile(ctx, id); err != nil {
		return mapMissing(err, repository.ErrMediaFileNotFound, resourceMediaFile)
	}

	s.metrics.IncResourceDeleted(kindMediaFile)
	return nil
}

func (s *MediaService) store(ctx context.Context, callerID string, input CreateMediaInput) (*model.MediaFile, error) {
	source := strings.TrimSpace(input.Source)
	if !storage.IsDataURL(source) && !storage.IsRemoteURL(source) {
		return nil, invalid("source must be a data URL or an http(s) URL")
	}

	var businessID *string
	if id := strings.TrimSpace(input.BusinessID); id != "" {
		if _, err := ownedBusiness(ctx, s.businesses, callerID, id); err != nil {
			return nil, err
		}
		businessID = &id
	}

	url, err := uploadAsset(ctx, s.uploader, s.metrics, source)
	if err != nil {
		return nil, err
	}

	m := &model.MediaFile{
		ID:         newID(),
		UserID:     callerID,
		BusinessID: businessID,
		URL:        url,
		Type:       strings.TrimSpace(input.Type),
		CreatedAt:  now(),
	}

	if err := s.media.CreateMediaFile(ctx, m); err != nil {
		return nil, err
	}

	s.metrics.IncResourceCreated(kindMediaFile)
	return m, nil
}

func uploadAsset(ctx context.Context, uploader AssetUploader, recorder metrics.Recorder, source string) (string, error) {
	url, err := uploader.Upload(ctx, source)
	if err != nil {
		recorder.IncAssetUploaded("failed")
		return "", err
	}
	recorder.IncAssetUploaded("success")
	return url, nil
}
