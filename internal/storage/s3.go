package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/brandflow/brandflow/internal/upstream"
)

const defaultMaxSourceBytes = 20 << 20

// S3 uploads to an S3-compatible bucket. Remote sources are fetched first.
type S3 struct {
	client        *s3.Client
	httpClient    *http.Client
	bucket        string
	folder        string
	publicBaseURL string
	maxBytes      int64
}

// NewS3 creates an S3 uploader with static credentials. A custom endpoint
// switches to path-style addressing for MinIO-style hosts.
func NewS3(ctx context.Context, cfg Config, httpClient *http.Client) (*S3, error) {
	region := cfg.S3Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	folder := cfg.Folder
	if folder == "" {
		folder = DefaultFolder
	}

	publicBase := strings.TrimSuffix(cfg.S3PublicBaseURL, "/")
	if publicBase == "" {
		if cfg.S3Endpoint != "" {
			publicBase = strings.TrimSuffix(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket
		} else {
			publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, region)
		}
	}

	maxBytes := cfg.MaxSourceBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxSourceBytes
	}

	return &S3{
		client:        client,
		httpClient:    httpClient,
		bucket:        cfg.S3Bucket,
		folder:        folder,
		publicBaseURL: publicBase,
		maxBytes:      maxBytes,
	}, nil
}

// Upload implements Uploader.
func (s *S3) Upload(ctx context.Context, source string) (string, error) {
	contentType, data, err := s.load(ctx, source)
	if err != nil {
		return "", err
	}

	key := path.Join(s.folder, uuid.NewString()+extensionFor(contentType))

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", &UploadError{Provider: ProviderS3, Message: err.Error(), Err: err}
	}

	return s.publicBaseURL + "/" + key, nil
}

func (s *S3) load(ctx context.Context, source string) (string, []byte, error) {
	switch {
	case IsDataURL(source):
		contentType, data, err := ParseDataURL(source)
		if err != nil {
			return "", nil, &UploadError{Provider: ProviderS3, Message: err.Error(), Err: err}
		}
		return contentType, data, nil
	case IsRemoteURL(source):
		data, contentType, err := upstream.Download(ctx, s.httpClient, ProviderS3, source, s.maxBytes)
		if err != nil {
			return "", nil, &UploadError{Provider: ProviderS3, Message: "fetch source: " + err.Error(), Err: err}
		}
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}
		return contentType, data, nil
	default:
		return "", nil, &UploadError{Provider: ProviderS3, Message: "source must be a data URL or http(s) URL"}
	}
}

func extensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/svg+xml":
		return ".svg"
	}
	exts, err := mime.ExtensionsByType(mediaType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}
