package storage

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidDataURL is returned for malformed data URLs.
var ErrInvalidDataURL = errors.New("invalid data URL")

// DefaultImageType is used when a generated image carries no content type.
const DefaultImageType = "image/png"

// IsDataURL reports whether s uses the data: scheme.
func IsDataURL(s string) bool {
	return len(s) >= 5 && strings.EqualFold(s[:5], "data:")
}

// IsRemoteURL reports whether s is an absolute http(s) URL.
func IsRemoteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ParseDataURL decodes a data URL into its media type and payload.
// Both base64 and percent-encoded payloads are accepted.
func ParseDataURL(s string) (string, []byte, error) {
	if !IsDataURL(s) {
		return "", nil, ErrInvalidDataURL
	}

	meta, payload, ok := strings.Cut(s[5:], ",")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}

	isBase64 := false
	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		isBase64 = true
		meta = meta[:len(meta)-len(";base64")]
	}

	mediaType := meta
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = mediaType[:i]
	}
	if mediaType == "" {
		mediaType = "text/plain"
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
			if err != nil {
				return "", nil, ErrInvalidDataURL
			}
		}
		return strings.ToLower(mediaType), data, nil
	}

	decoded, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, ErrInvalidDataURL
	}
	return strings.ToLower(mediaType), []byte(decoded), nil
}

// EncodeDataURL returns a base64 data URL. An empty or non-image content
// type falls back to DefaultImageType.
func EncodeDataURL(contentType string, data []byte) string {
	mediaType := strings.TrimSpace(contentType)
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	if !strings.HasPrefix(strings.ToLower(mediaType), "image/") {
		mediaType = DefaultImageType
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
