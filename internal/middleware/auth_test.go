package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brandflow/brandflow/internal/auth"
	"github.com/brandflow/brandflow/internal/model"
	"github.com/brandflow/brandflow/internal/service"
)

type stubAuthenticator struct {
	identities map[string]*model.Identity
	err        error
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*model.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	id, ok := s.identities[token]
	if !ok {
		return nil, service.ErrUnauthenticated
	}
	return id, nil
}

func TestAuth(t *testing.T) {
	authenticator := &stubAuthenticator{identities: map[string]*model.Identity{
		"good": {ID: "u1", Email: "u1@example.com"},
	}}

	tests := []struct {
		name        string
		header      string
		wantStatus  int
		wantMessage string
	}{
		{"missing header", "", http.StatusUnauthorized, "Not authorized, no token"},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, "Not authorized, no token"},
		{"bare bearer", "Bearer", http.StatusUnauthorized, "Not authorized, no token"},
		{"unknown token", "Bearer bad", http.StatusUnauthorized, "Not authorized, token failed"},
		{"valid token", "Bearer good", http.StatusOK, ""},
		{"lowercase scheme", "bearer good", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID string
			handler := Auth(AuthConfig{
				Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
				Authenticator: authenticator,
			})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotID = auth.UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if gotID != "u1" {
					t.Errorf("identity not injected, got %q", gotID)
				}
				return
			}
			body := rec.Body.String()
			if !strings.Contains(body, `"code":"UNAUTHORIZED"`) || !strings.Contains(body, tt.wantMessage) {
				t.Errorf("unexpected body %s", body)
			}
		})
	}
}

func TestAuth_LookupFailureIsInternal(t *testing.T) {
	handler := Auth(AuthConfig{
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		Authenticator: &stubAuthenticator{err: errors.New("connection reset")},
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
