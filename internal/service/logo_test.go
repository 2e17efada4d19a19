package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandflow/brandflow/internal/metrics"
	"github.com/brandflow/brandflow/internal/model"
	"github.com/brandflow/brandflow/internal/testutil"
	"github.com/brandflow/brandflow/internal/upstream"
)

func newTestLogos(store *testutil.MemStore, images *testutil.FakeImages, uploader *testutil.FakeUploader, recorder metrics.Recorder) *LogoService {
	return NewLogoService(images, uploader, store, store, recorder, nil)
}

func TestLogo_GeneratePersistsHostedURL(t *testing.T) {
	store := testutil.NewMemStore()
	b := createBusiness(t, store, "u1", "Acme")
	images := &testutil.FakeImages{ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
	uploader := &testutil.FakeUploader{}
	recorder := metrics.NewInMemory()
	svc := newTestLogos(store, images, uploader, recorder)

	res, err := svc.Generate(context.Background(), "u1", GenerateLogoInput{Prompt: "a rocket", BusinessID: b.ID})
	require.NoError(t, err)

	assert.Equal(t, model.MediaTypeLogo, res.Logo.Type)
	assert.Equal(t, "https://assets.example.com/ai-branding/asset-1.png", res.Logo.URL)
	assert.Equal(t, DefaultLogoStyle, res.Style)
	assert.Equal(t, DefaultLogoSize, res.Size)
	assert.Equal(t, "a rocket", res.OriginalPrompt)
	assert.Equal(t, "Acme", res.Business.Name)
	assert.Equal(t,
		"Create a professional modern logo for Acme, a retail business. a rocket. The logo should be clean, scalable, and suitable for business use. No text or words in the image.",
		res.EnhancedPrompt)
	assert.Equal(t, []string{res.EnhancedPrompt}, images.Prompts)

	require.Len(t, uploader.Sources, 1)
	assert.True(t, strings.HasPrefix(uploader.Sources[0], "data:image/png;base64,"))

	stored, err := store.GetMediaFileByID(context.Background(), res.Logo.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Logo.URL, stored.URL)
	assert.Equal(t, model.MediaTypeLogo, stored.Type)
	assert.Equal(t, 1, recorder.Snapshot().LogosGenerated)
}

func TestLogo_GenerateValidation(t *testing.T) {
	store := testutil.NewMemStore()
	b := createBusiness(t, store, "u1", "Acme")
	images := &testutil.FakeImages{}
	svc := newTestLogos(store, images, &testutil.FakeUploader{}, nil)
	ctx := context.Background()

	_, err := svc.Generate(ctx, "u1", GenerateLogoInput{BusinessID: b.ID})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Generate(ctx, "u1", GenerateLogoInput{Prompt: "x", BusinessID: b.ID, Size: "10x10"})
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Generate(ctx, "u2", GenerateLogoInput{Prompt: "x", BusinessID: b.ID})
	assert.ErrorIs(t, err, ErrForbidden)

	assert.Empty(t, images.Prompts)
}

func TestLogo_UpstreamFailureStoresNothing(t *testing.T) {
	store := testutil.NewMemStore()
	b := createBusiness(t, store, "u1", "Acme")
	images := &testutil.FakeImages{GenerateErr: &upstream.Error{Provider: "image", Status: 400, Message: "content policy"}}
	uploader := &testutil.FakeUploader{}
	svc := newTestLogos(store, images, uploader, nil)

	_, err := svc.Generate(context.Background(), "u1", GenerateLogoInput{Prompt: "x", BusinessID: b.ID})
	var uerr *upstream.Error
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "content policy", uerr.Message)
	assert.Zero(t, uploader.Calls())
	assert.Zero(t, store.CountMediaFiles())
}

func TestLogo_RegenerateUsesVariationPrompt(t *testing.T) {
	store := testutil.NewMemStore()
	b := createBusiness(t, store, "u1", "Acme")
	images := &testutil.FakeImages{}
	svc := newTestLogos(store, images, &testutil.FakeUploader{}, nil)
	ctx := context.Background()

	first, err := svc.Generate(ctx, "u1", GenerateLogoInput{Prompt: "x", BusinessID: b.ID, Size: "1792x1024"})
	require.NoError(t, err)

	res, err := svc.Regenerate(ctx, "u1", first.Logo.ID, "vintage")
	require.NoError(t, err)
	assert.Equal(t, first.Logo.ID, res.OriginalLogoID)
	assert.NotEqual(t, first.Logo.ID, res.Logo.ID)
	assert.Equal(t, "vintage", res.Style)
	assert.Equal(t, []string{"1792x1024", "1024x1024"}, images.Sizes)
	assert.Equal(t,
		"Create a vintage logo variation for Acme, a retail business. Make it different but maintain the same professional quality. No text or words in the image.",
		images.Prompts[1])

	_, err = svc.Regenerate(ctx, "u2", first.Logo.ID, "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestLogo_NonLogoMediaIsNotFound(t *testing.T) {
	store := testutil.NewMemStore()
	media := NewMediaService(store, store, &testutil.FakeUploader{}, nil)
	svc := newTestLogos(store, &testutil.FakeImages{}, &testutil.FakeUploader{}, nil)
	ctx := context.Background()

	img, err := media.Create(ctx, "u1", CreateMediaInput{Source: pngDataURL})
	require.NoError(t, err)

	err = svc.Delete(ctx, "u1", img.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "Logo not found")

	_, err = svc.Regenerate(ctx, "u1", img.ID, "")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, store.CountMediaFiles())
}

func TestLogo_ListsAndDelete(t *testing.T) {
	store := testutil.NewMemStore()
	b := createBusiness(t, store, "u1", "Acme")
	svc := newTestLogos(store, &testutil.FakeImages{}, &testutil.FakeUploader{}, nil)
	ctx := context.Background()

	gen, err := svc.Generate(ctx, "u1", GenerateLogoInput{Prompt: "x", BusinessID: b.ID})
	require.NoError(t, err)

	all, err := svc.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].Business)
	assert.Equal(t, "Acme", all[0].Business.Name)

	scoped, err := svc.ListForBusiness(ctx, "u1", b.ID)
	require.NoError(t, err)
	assert.Len(t, scoped, 1)

	_, err = svc.ListForBusiness(ctx, "u2", b.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	assert.ErrorIs(t, svc.Delete(ctx, "u2", gen.Logo.ID), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, "u1", gen.Logo.ID))

	all, err = svc.ListForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, all)
}
