// Package ai calls the third-party chat-completion and image-generation APIs.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/brandflow/brandflow/internal/metrics"
	"github.com/brandflow/brandflow/internal/upstream"
)

// Provider names used in errors and metrics.
const (
	ProviderChat  = "chat"
	ProviderImage = "image"
)

// maxResponseBytes bounds JSON replies from either API.
const maxResponseBytes = 4 << 20

// postJSON sends payload to url and returns the body of a 2xx reply. Non-2xx
// replies become *upstream.Error carrying the upstream status and its
// error.message, or fallback when the body has none.
func postJSON(ctx context.Context, client *http.Client, recorder metrics.Recorder, provider, url string, headers http.Header, payload any, fallback string) ([]byte, error) {
	start := time.Now()
	outcome := "error"
	defer func() {
		recorder.ObserveUpstreamCall(provider, outcome, time.Since(start))
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", provider, err)
	}
	for name, values := range headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if upstream.IsTimeout(err) {
			outcome = "timeout"
		}
		return nil, upstream.TransportError(provider, fallback, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, upstream.TransportError(provider, fallback, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = "upstream_error"
		return nil, &upstream.Error{
			Provider: provider,
			Status:   resp.StatusCode,
			Message:  errorMessage(respBody, fallback),
		}
	}

	outcome = "ok"
	return respBody, nil
}

// errorMessage extracts error.message from an upstream error body.
func errorMessage(body []byte, fallback string) string {
	if !gjson.ValidBytes(body) {
		return fallback
	}
	msg := strings.TrimSpace(gjson.GetBytes(body, "error.message").String())
	if msg == "" {
		return fallback
	}
	return msg
}

func bearer(key string) http.Header {
	h := http.Header{}
	if key != "" {
		h.Set("Authorization", "Bearer "+key)
	}
	return h
}

func endpoint(base, path string) string {
	return strings.TrimSuffix(base, "/") + path
}
