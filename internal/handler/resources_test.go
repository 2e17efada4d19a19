package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/brandflow/brandflow/internal/auth"
	"github.com/brandflow/brandflow/internal/handler/dto"
	"github.com/brandflow/brandflow/internal/model"
	"github.com/brandflow/brandflow/internal/service"
	"github.com/brandflow/brandflow/internal/testutil"
)

// testAPI mounts the resource handlers on a router that trusts an
// X-Test-User header in place of bearer authentication.
type testAPI struct {
	store    *testutil.MemStore
	images   *testutil.FakeImages
	uploader *testutil.FakeUploader
	chat     *testutil.FakeChat
	router   chi.Router
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	api := &testAPI{
		store:    testutil.NewMemStore(),
		images:   &testutil.FakeImages{ContentType: "image/png"},
		uploader: &testutil.FakeUploader{},
		chat:     &testutil.FakeChat{},
	}
	logger := discardLogger()

	accounts := NewAccountHandler(service.NewAccountService(api.store, auth.NewTokenIssuer("secret", time.Hour), nil, nil, logger), logger)
	businesses := NewBusinessHandler(service.NewBusinessService(api.store, nil), logger)
	media := NewMediaHandler(service.NewMediaService(api.store, api.store, api.uploader, nil), logger)
	plans := NewPlanHandler(service.NewPlanService(api.store, api.store, nil), logger)
	chat := NewChatHandler(service.NewChatService(api.chat, api.store, api.store, nil), logger)
	logos := NewLogoHandler(service.NewLogoService(api.images, api.uploader, api.store, api.store, nil, logger), logger)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := r.Header.Get("X-Test-User"); id != "" {
				r = r.WithContext(auth.ContextWithIdentity(r.Context(), &model.Identity{ID: id}))
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/auth/register", accounts.Register)
	r.Post("/auth/login", accounts.Login)
	r.Get("/users/me", accounts.Me)
	r.Get("/businesses", businesses.List)
	r.Post("/businesses", businesses.Create)
	r.Get("/businesses/{id}", businesses.Get)
	r.Put("/businesses/{id}", businesses.Update)
	r.Delete("/businesses/{id}", businesses.Delete)
	r.Get("/media-files", media.List)
	r.Post("/media-files", media.Create)
	r.Post("/media-files/upload", media.Upload)
	r.Delete("/media-files/{id}", media.Delete)
	r.Get("/marketing-plans", plans.List)
	r.Post("/marketing-plans", plans.Create)
	r.Get("/marketing-plans/{id}", plans.Get)
	r.Put("/marketing-plans/{id}", plans.Update)
	r.Delete("/marketing-plans/{id}", plans.Delete)
	r.Post("/chat", chat.Complete)
	r.Post("/chat/save", chat.Save)
	r.Get("/chat/history", chat.History)
	r.Post("/logos/generate", logos.Generate)
	r.Post("/logos/{id}/regenerate", logos.Regenerate)
	r.Get("/logos/user", logos.ListForUser)
	r.Get("/logos/business/{id}", logos.ListForBusiness)
	r.Delete("/logos/{id}", logos.Delete)

	api.router = r
	return api
}

func (a *testAPI) do(t *testing.T, method, path, user, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec, decodeEnvelope(t, rec)
}

func (a *testAPI) createBusiness(t *testing.T, user, name string) model.Business {
	t.Helper()
	rec, env := a.do(t, http.MethodPost, "/businesses", user, `{"name":"`+name+`","field":"retail","description":"shop","colorPalette":["#000"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create business: status %d: %+v", rec.Code, env.Error)
	}
	var b model.Business
	if err := json.Unmarshal(env.Data, &b); err != nil {
		t.Fatalf("decode business: %v", err)
	}
	return b
}

func TestAccountHandler_RegisterAndLogin(t *testing.T) {
	api := newTestAPI(t)

	rec, env := api.do(t, http.MethodPost, "/auth/register", "", `{"name":"Ann","email":"ann@example.com","password":"pw"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var res dto.AuthResponse
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Token == "" || res.User.Email != "ann@example.com" {
		t.Errorf("unexpected auth response %+v", res)
	}
	if strings.Contains(string(env.Data), "password") {
		t.Error("response must not carry the password hash")
	}

	rec, env = api.do(t, http.MethodPost, "/auth/register", "", `{"email":"ann@example.com","password":"pw"}`)
	if rec.Code != http.StatusBadRequest || env.Error.Code != dto.CodeUserExists || env.Error.Message != "User already exists" {
		t.Errorf("duplicate register: %d %+v", rec.Code, env.Error)
	}

	wrongRec, wrong := api.do(t, http.MethodPost, "/auth/login", "", `{"email":"ann@example.com","password":"nope"}`)
	unknownRec, unknown := api.do(t, http.MethodPost, "/auth/login", "", `{"email":"who@example.com","password":"pw"}`)
	if wrongRec.Code != http.StatusBadRequest || unknownRec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400s, got %d and %d", wrongRec.Code, unknownRec.Code)
	}
	if *wrong.Error != *unknown.Error {
		t.Errorf("login errors differ: %+v vs %+v", wrong.Error, unknown.Error)
	}

	rec, _ = api.do(t, http.MethodPost, "/auth/login", "", `{"email":"ann@example.com","password":"pw"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	rec, env = api.do(t, http.MethodPost, "/auth/login", "", `{"email":`)
	if rec.Code != http.StatusBadRequest || env.Error.Code != dto.CodeInvalidJSON {
		t.Errorf("malformed body: %d %+v", rec.Code, env.Error)
	}
}

func TestBusinessHandler_OwnershipAndPartialUpdate(t *testing.T) {
	api := newTestAPI(t)
	b := api.createBusiness(t, "alice", "Acme")

	rec, env := api.do(t, http.MethodGet, "/businesses/"+b.ID, "mallory", "")
	if rec.Code != http.StatusForbidden || env.Error.Code != dto.CodeForbidden {
		t.Errorf("cross-owner read: %d %+v", rec.Code, env.Error)
	}

	rec, _ = api.do(t, http.MethodDelete, "/businesses/"+b.ID, "mallory", "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("cross-owner delete: %d", rec.Code)
	}

	rec, env = api.do(t, http.MethodGet, "/businesses/unknown", "alice", "")
	if rec.Code != http.StatusNotFound || env.Error.Message != "Business not found" {
		t.Errorf("unknown id: %d %+v", rec.Code, env.Error)
	}

	rec, env = api.do(t, http.MethodPut, "/businesses/"+b.ID, "alice", `{"name":"Acme 2","colorPalette":null}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d %+v", rec.Code, env.Error)
	}
	var updated model.Business
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Name != "Acme 2" || updated.Field != "retail" {
		t.Errorf("unexpected names %q %q", updated.Name, updated.Field)
	}
	if updated.Description == nil || *updated.Description != "shop" {
		t.Errorf("description should be kept, got %v", updated.Description)
	}
	if len(updated.ColorPalette) != 0 && string(updated.ColorPalette) != "null" {
		t.Errorf("palette should be cleared, got %s", updated.ColorPalette)
	}
	stored, err := api.store.GetBusinessByID(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("load business: %v", err)
	}
	if stored.ColorPalette != nil {
		t.Errorf("stored palette should be nil, got %s", stored.ColorPalette)
	}

	rec, env = api.do(t, http.MethodDelete, "/businesses/"+b.ID, "alice", "")
	if rec.Code != http.StatusOK || !strings.Contains(string(env.Data), "deleted") {
		t.Errorf("delete: %d %s", rec.Code, env.Data)
	}
}

func TestPlanHandler_ListByBusiness(t *testing.T) {
	api := newTestAPI(t)
	b := api.createBusiness(t, "a", "Acme")

	rec, env := api.do(t, http.MethodPost, "/marketing-plans", "a", `{"content":"Go big","businessId":"`+b.ID+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create plan: %d %+v", rec.Code, env.Error)
	}
	var p model.MarketingPlan
	if err := json.Unmarshal(env.Data, &p); err != nil {
		t.Fatalf("decode: %v", err)
	}

	_, env = api.do(t, http.MethodGet, "/marketing-plans?businessId="+b.ID, "a", "")
	var plans []model.MarketingPlan
	if err := json.Unmarshal(env.Data, &plans); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(plans) != 1 || plans[0].ID != p.ID {
		t.Errorf("expected [%s], got %+v", p.ID, plans)
	}

	rec, _ = api.do(t, http.MethodGet, "/marketing-plans/"+p.ID, "c", "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}

	rec, _ = api.do(t, http.MethodPost, "/marketing-plans", "c", `{"content":"steal","businessId":"`+b.ID+`"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	if n := api.store.CountMarketingPlans(); n != 1 {
		t.Errorf("expected 1 plan, got %d", n)
	}
}

func TestMediaHandler_CreateAndUpload(t *testing.T) {
	api := newTestAPI(t)
	b := api.createBusiness(t, "u", "Acme")

	rec, env := api.do(t, http.MethodPost, "/media-files", "u", `{"url":"https://example.com/a.png"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %+v", rec.Code, env.Error)
	}
	var m model.MediaFile
	if err := json.Unmarshal(env.Data, &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Type != model.MediaTypeImage || !strings.HasPrefix(m.URL, "https://assets.example.com/") {
		t.Errorf("unexpected media %+v", m)
	}

	rec, env = api.do(t, http.MethodPost, "/media-files/upload", "u", `{"dataUrl":"data:image/png;base64,AAAA","type":"banner"}`)
	if rec.Code != http.StatusBadRequest || env.Error.Code != dto.CodeValidation {
		t.Errorf("strict upload: %d %+v", rec.Code, env.Error)
	}

	rec, _ = api.do(t, http.MethodPost, "/media-files/upload", "u", `{"dataUrl":"data:image/png;base64,AAAA","type":"banner","businessId":"`+b.ID+`"}`)
	if rec.Code != http.StatusCreated {
		t.Errorf("upload: %d", rec.Code)
	}

	_, env = api.do(t, http.MethodGet, "/media-files?type=banner", "u", "")
	var files []model.MediaFile
	if err := json.Unmarshal(env.Data, &files); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(files) != 1 || files[0].Type != "banner" {
		t.Errorf("unexpected filter result %+v", files)
	}
}

func TestMediaHandler_UploadFailure(t *testing.T) {
	api := newTestAPI(t)
	api.uploader.Err = testutil.FailingUploader("Must supply api_key").Err

	rec, env := api.do(t, http.MethodPost, "/media-files", "u", `{"dataUrl":"data:image/png;base64,AAAA"}`)
	if rec.Code != http.StatusBadGateway || env.Error.Code != dto.CodeUploadFailed {
		t.Errorf("expected 502 UPLOAD_FAILED, got %d %+v", rec.Code, env.Error)
	}
	if api.store.CountMediaFiles() != 0 {
		t.Error("no row should be written")
	}
}

func TestChatHandler_Complete(t *testing.T) {
	api := newTestAPI(t)
	api.chat.Reply = json.RawMessage(`{"choices":[{"message":{"content":"Hello!"}}]}`)

	rec, env := api.do(t, http.MethodPost, "/chat", "", `{"messages":"hello"}`)
	if rec.Code != http.StatusBadRequest || env.Error.Code != dto.CodeValidation {
		t.Errorf("non-array messages: %d %+v", rec.Code, env.Error)
	}
	if api.chat.CallCount() != 0 {
		t.Fatal("upstream must not be called")
	}

	rec, env = api.do(t, http.MethodPost, "/chat", "", `{"messages":[{"role":"user","content":"hi"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("chat: %d %+v", rec.Code, env.Error)
	}
	if string(env.Data) != `{"choices":[{"message":{"content":"Hello!"}}]}` {
		t.Errorf("reply should pass through unchanged, got %s", env.Data)
	}
}

func TestChatHandler_SaveAndHistory(t *testing.T) {
	api := newTestAPI(t)
	b := api.createBusiness(t, "u", "Acme")

	rec, _ := api.do(t, http.MethodPost, "/chat/save", "u", `{"promptContent":"p","responseContent":"r","businessId":"`+b.ID+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("save: %d", rec.Code)
	}

	rec, env := api.do(t, http.MethodGet, "/chat/history", "u", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing businessId: %d %+v", rec.Code, env.Error)
	}

	_, env = api.do(t, http.MethodGet, "/chat/history?businessId="+b.ID, "u", "")
	var history []model.Conversation
	if err := json.Unmarshal(env.Data, &history); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(history) != 1 || history[0].PromptContent != "p" {
		t.Errorf("unexpected history %+v", history)
	}
}

func TestLogoHandler_GenerateAndRegenerate(t *testing.T) {
	api := newTestAPI(t)
	b := api.createBusiness(t, "u", "Acme")

	rec, env := api.do(t, http.MethodPost, "/logos/generate", "u", `{"prompt":"a fox","businessId":"`+b.ID+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("generate: %d %+v", rec.Code, env.Error)
	}
	var gen dto.GeneratedLogoResponse
	if err := json.Unmarshal(env.Data, &gen); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if gen.URL != "https://assets.example.com/ai-branding/asset-1.png" || gen.Type != model.MediaTypeLogo {
		t.Errorf("unexpected logo %+v", gen)
	}
	if gen.Style != "modern" || gen.Size != "1024x1024" || gen.Business == nil || gen.Business.ID != b.ID {
		t.Errorf("unexpected defaults %+v", gen)
	}

	rec, env = api.do(t, http.MethodPost, "/logos/"+gen.ID+"/regenerate", "u", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("regenerate: %d %+v", rec.Code, env.Error)
	}
	var regen dto.RegeneratedLogoResponse
	if err := json.Unmarshal(env.Data, &regen); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if regen.OriginalLogoID != gen.ID || regen.ID == gen.ID {
		t.Errorf("unexpected regeneration %+v", regen)
	}

	_, env = api.do(t, http.MethodGet, "/logos/user", "u", "")
	var logos []model.LogoWithBusiness
	if err := json.Unmarshal(env.Data, &logos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(logos) != 2 || logos[0].Business == nil {
		t.Errorf("unexpected logo list %+v", logos)
	}

	rec, _ = api.do(t, http.MethodDelete, "/logos/"+gen.ID, "intruder", "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}
