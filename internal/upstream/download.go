package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Download fetches url and returns at most limit bytes of body along with
// the reported content type. Bodies larger than limit fail with ErrTooLarge.
func Download(ctx context.Context, client *http.Client, provider, url string, limit int64) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", &Error{Provider: provider, Status: http.StatusBadGateway, Message: "invalid download URL", Err: err}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", TransportError(provider, "download failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, "", &Error{
			Provider: provider,
			Status:   http.StatusBadGateway,
			Message:  fmt.Sprintf("download returned status %d", resp.StatusCode),
		}
	}

	if limit > 0 && resp.ContentLength > limit {
		return nil, "", &Error{Provider: provider, Status: http.StatusBadGateway, Message: "download too large", Err: ErrTooLarge}
	}

	reader := resp.Body
	if limit > 0 {
		reader = io.NopCloser(io.LimitReader(resp.Body, limit+1))
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", TransportError(provider, "download interrupted", err)
	}
	if limit > 0 && int64(len(body)) > limit {
		return nil, "", &Error{Provider: provider, Status: http.StatusBadGateway, Message: "download too large", Err: ErrTooLarge}
	}

	return body, resp.Header.Get("Content-Type"), nil
}
