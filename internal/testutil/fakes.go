package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/brandflow/brandflow/internal/storage"
)

// FakeUploader records uploads and returns predictable hosted URLs.
type FakeUploader struct {
	mu      sync.Mutex
	Sources []string
	Err     error
	BaseURL string
}

// Upload implements the asset uploader.
func (f *FakeUploader) Upload(_ context.Context, source string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	f.Sources = append(f.Sources, source)
	base := f.BaseURL
	if base == "" {
		base = "https://assets.example.com/ai-branding"
	}
	return fmt.Sprintf("%s/asset-%d.png", base, len(f.Sources)), nil
}

// Calls returns the number of successful uploads.
func (f *FakeUploader) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Sources)
}

// FailingUploader returns an uploader that rejects every call.
func FailingUploader(message string) *FakeUploader {
	return &FakeUploader{Err: &storage.UploadError{Provider: "fake", Message: message}}
}

// FakeImages is a scripted image generator.
type FakeImages struct {
	mu          sync.Mutex
	Prompts     []string
	Sizes       []string
	URL         string
	Data        []byte
	ContentType string
	GenerateErr error
	DownloadErr error
}

// Generate implements the image generator.
func (f *FakeImages) Generate(_ context.Context, prompt, size string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Prompts = append(f.Prompts, prompt)
	f.Sizes = append(f.Sizes, size)
	if f.GenerateErr != nil {
		return "", f.GenerateErr
	}
	if f.URL == "" {
		return "https://images.example.com/generated.png", nil
	}
	return f.URL, nil
}

// Download implements the image generator.
func (f *FakeImages) Download(_ context.Context, _ string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DownloadErr != nil {
		return nil, "", f.DownloadErr
	}
	data := f.Data
	if data == nil {
		data = []byte("png-bytes")
	}
	return data, f.ContentType, nil
}

// FakeChat is a scripted chat completer.
type FakeChat struct {
	mu       sync.Mutex
	Calls    int
	Messages []json.RawMessage
	Referers []string
	Reply    json.RawMessage
	Err      error
}

// Complete implements the chat completer.
func (f *FakeChat) Complete(_ context.Context, messages json.RawMessage, referer string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.Messages = append(f.Messages, messages)
	f.Referers = append(f.Referers, referer)
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Reply == nil {
		return json.RawMessage(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`), nil
	}
	return f.Reply, nil
}

// CallCount returns the number of Complete calls.
func (f *FakeChat) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls
}
