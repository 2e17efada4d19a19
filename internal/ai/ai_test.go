package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/brandflow/brandflow/internal/metrics"
	"github.com/brandflow/brandflow/internal/upstream"
)

func TestChatComplete_ForwardsRequest(t *testing.T) {
	t.Parallel()

	var gotBody []byte
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/chat/completions", r.URL.Path)
		gotHeaders = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"gen-1","choices":[{"message":{"role":"assistant","content":"Hi"}}]}`)
	}))
	defer srv.Close()

	rec := metrics.NewInMemory()
	chat := NewChatClient(ChatConfig{BaseURL: srv.URL + "/api/v1", APIKey: "sk-test"}, srv.Client(), rec)

	out, err := chat.Complete(context.Background(), json.RawMessage(`[{"role":"user","content":"Hello"}]`), "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"gen-1","choices":[{"message":{"role":"assistant","content":"Hi"}}]}`, string(out))

	assert.Equal(t, "Bearer sk-test", gotHeaders.Get("Authorization"))
	assert.Equal(t, DefaultChatReferer, gotHeaders.Get("HTTP-Referer"))
	assert.Equal(t, DefaultChatTitle, gotHeaders.Get("X-Title"))

	assert.Equal(t, DefaultChatModel, gjson.GetBytes(gotBody, "model").String())
	assert.Equal(t, 0.7, gjson.GetBytes(gotBody, "temperature").Float())
	assert.Equal(t, int64(1000), gjson.GetBytes(gotBody, "max_tokens").Int())
	assert.Equal(t, "Hello", gjson.GetBytes(gotBody, "messages.0.content").String())

	assert.Equal(t, 1, rec.Snapshot().UpstreamCalls["chat:ok"])
}

func TestChatComplete_UsesOriginAsReferer(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://app.example.com", r.Header.Get("HTTP-Referer"))
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	chat := NewChatClient(ChatConfig{BaseURL: srv.URL}, srv.Client(), nil)
	_, err := chat.Complete(context.Background(), json.RawMessage(`[]`), "https://app.example.com")
	require.NoError(t, err)
}

func TestChatComplete_UpstreamErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"message passed through", http.StatusTooManyRequests, `{"error":{"message":"Rate limit exceeded"}}`, 429, "Rate limit exceeded"},
		{"fallback message", http.StatusInternalServerError, `{"oops":true}`, 500, "Failed to get AI response"},
		{"non json body", http.StatusBadGateway, `<html>bad gateway</html>`, 502, "Failed to get AI response"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			chat := NewChatClient(ChatConfig{BaseURL: srv.URL}, srv.Client(), nil)
			_, err := chat.Complete(context.Background(), json.RawMessage(`[]`), "")

			var upErr *upstream.Error
			require.True(t, errors.As(err, &upErr), "got %v", err)
			assert.Equal(t, tt.wantStatus, upErr.Status)
			assert.Equal(t, tt.wantMsg, upErr.Message)
		})
	}
}

func TestChatComplete_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	rec := metrics.NewInMemory()
	chat := NewChatClient(ChatConfig{BaseURL: srv.URL}, upstream.NewHTTPClient(20*time.Millisecond), rec)
	_, err := chat.Complete(context.Background(), json.RawMessage(`[]`), "")

	var upErr *upstream.Error
	require.True(t, errors.As(err, &upErr), "got %v", err)
	assert.Equal(t, http.StatusGatewayTimeout, upErr.Status)
	assert.Equal(t, 1, rec.Snapshot().UpstreamCalls["chat:timeout"])
}

func TestImageGenerate(t *testing.T) {
	t.Parallel()

	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images/generations", r.URL.Path)
		assert.Equal(t, "Bearer sk-img", r.Header.Get("Authorization"))
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, `{"created":1,"data":[{"url":"https://img.example.com/a.png"}]}`)
	}))
	defer srv.Close()

	images := NewImageClient(ImageConfig{BaseURL: srv.URL + "/v1", APIKey: "sk-img"}, srv.Client(), nil)
	url, err := images.Generate(context.Background(), "a fox", "1792x1024")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/a.png", url)

	assert.Equal(t, "dall-e-3", gjson.GetBytes(gotBody, "model").String())
	assert.Equal(t, "a fox", gjson.GetBytes(gotBody, "prompt").String())
	assert.Equal(t, int64(1), gjson.GetBytes(gotBody, "n").Int())
	assert.Equal(t, "1792x1024", gjson.GetBytes(gotBody, "size").String())
	assert.Equal(t, "standard", gjson.GetBytes(gotBody, "quality").String())
	assert.Equal(t, "url", gjson.GetBytes(gotBody, "response_format").String())
}

func TestImageGenerate_Errors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"message":"Your request was rejected by the safety system."}}`)
	}))
	defer srv.Close()

	images := NewImageClient(ImageConfig{BaseURL: srv.URL}, srv.Client(), nil)
	_, err := images.Generate(context.Background(), "x", "1024x1024")
	var upErr *upstream.Error
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusBadRequest, upErr.Status)
	assert.Equal(t, "Your request was rejected by the safety system.", upErr.Message)
}

func TestImageGenerate_MissingURL(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[]}`)
	}))
	defer srv.Close()

	images := NewImageClient(ImageConfig{BaseURL: srv.URL}, srv.Client(), nil)
	_, err := images.Generate(context.Background(), "x", "1024x1024")
	var upErr *upstream.Error
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusBadGateway, upErr.Status)
}

func TestImageDownload_Bounded(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(make([]byte, 64))
	}))
	defer srv.Close()

	images := NewImageClient(ImageConfig{MaxBytes: 32}, srv.Client(), nil)
	_, _, err := images.Download(context.Background(), srv.URL)
	assert.True(t, errors.Is(err, upstream.ErrTooLarge), "got %v", err)

	images = NewImageClient(ImageConfig{MaxBytes: 128}, srv.Client(), nil)
	data, ct, err := images.Download(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, data, 64)
	assert.Equal(t, "image/png", ct)
}
