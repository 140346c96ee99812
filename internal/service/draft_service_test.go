package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novelistan/novelistan-api/internal/domain"
)

func newDraftFixture() (*DraftService, *memStore) {
	store := newMemStore()
	svc := NewDraftService(newMemDraftRepo(), store, &recordingDispatcher{})
	return svc, store
}

func TestDraftLifecycle(t *testing.T) {
	svc, store := newDraftFixture()
	ctx := context.Background()

	draft, err := svc.CreateDraft(ctx, "customer-1", DraftInput{
		Title:   "Chapter One",
		Content: "It was a dark and stormy night.",
		Asset: &AssetUpload{
			Content:   strings.NewReader("notes"),
			MimeType:  "text/plain",
			SizeBytes: 5,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, draft.Asset)

	listed, err := svc.ListDrafts(ctx, "customer-1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	updated, err := svc.UpdateDraft(ctx, "customer-1", draft.ID, DraftInput{Title: "Chapter One, Revised"})
	require.NoError(t, err)
	assert.Equal(t, "Chapter One, Revised", updated.Title)
	assert.Equal(t, draft.Content, updated.Content)

	assetKey := draft.Asset.Key
	require.NoError(t, svc.DeleteDraft(ctx, "customer-1", draft.ID))
	_, err = store.Get(ctx, assetKey)
	assert.Error(t, err, "draft asset removed with the draft")
}

func TestDraftEveryReadIsOwnerScoped(t *testing.T) {
	svc, _ := newDraftFixture()
	ctx := context.Background()

	draft, err := svc.CreateDraft(ctx, "customer-1", DraftInput{
		Title: "Private",
		Asset: &AssetUpload{Content: strings.NewReader("secret"), MimeType: "text/plain"},
	})
	require.NoError(t, err)

	_, err = svc.GetDraft(ctx, "customer-2", draft.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	_, _, err = svc.OpenAsset(ctx, "customer-2", draft.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	_, err = svc.UpdateDraft(ctx, "customer-2", draft.ID, DraftInput{Title: "Hijacked"})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	err = svc.DeleteDraft(ctx, "customer-2", draft.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	listed, err := svc.ListDrafts(ctx, "customer-2", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestDraftValidation(t *testing.T) {
	svc, _ := newDraftFixture()

	_, err := svc.CreateDraft(context.Background(), "customer-1", DraftInput{Title: "   "})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

type failingUpdateDraftRepo struct {
	*memDraftRepo
	failNext bool
}

func (r *failingUpdateDraftRepo) Update(ctx context.Context, draft *domain.Draft) error {
	if r.failNext {
		r.failNext = false
		return errors.New("connection reset")
	}
	return r.memDraftRepo.Update(ctx, draft)
}

func TestDraftUpdateFailureKeepsReferencedAsset(t *testing.T) {
	repo := &failingUpdateDraftRepo{memDraftRepo: newMemDraftRepo()}
	store := newMemStore()
	svc := NewDraftService(repo, store, &recordingDispatcher{})
	ctx := context.Background()

	draft, err := svc.CreateDraft(ctx, "customer-1", DraftInput{
		Title: "With Notes",
		Asset: &AssetUpload{Content: strings.NewReader("first"), MimeType: "text/plain", SizeBytes: 5},
	})
	require.NoError(t, err)
	oldKey := draft.Asset.Key

	repo.failNext = true
	_, err = svc.UpdateDraft(ctx, "customer-1", draft.ID, DraftInput{
		Asset: &AssetUpload{Content: strings.NewReader("second"), MimeType: "text/plain", SizeBytes: 6},
	})
	require.Error(t, err)

	// the row still points at the first asset, so it must stream
	rc, ref, err := svc.OpenAsset(ctx, "customer-1", draft.ID)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, oldKey, ref.Key)

	// a later successful replacement still discards it
	updated, err := svc.UpdateDraft(ctx, "customer-1", draft.ID, DraftInput{
		Asset: &AssetUpload{Content: strings.NewReader("third"), MimeType: "text/plain", SizeBytes: 5},
	})
	require.NoError(t, err)
	assert.NotEqual(t, oldKey, updated.Asset.Key)
	_, err = store.Get(ctx, oldKey)
	assert.Error(t, err, "replaced asset removed once the update committed")
}

func TestDraftAssetMissingVsUnreachable(t *testing.T) {
	svc, store := newDraftFixture()
	ctx := context.Background()

	draft, err := svc.CreateDraft(ctx, "customer-1", DraftInput{
		Title: "With Notes",
		Asset: &AssetUpload{Content: strings.NewReader("notes"), MimeType: "text/plain"},
	})
	require.NoError(t, err)

	store.drop(draft.Asset.Key)
	_, _, err = svc.OpenAsset(ctx, "customer-1", draft.ID)
	require.Error(t, err)
	assert.Equal(t, "ASSET_MISSING", domainCode(t, err))

	store.failAll = true
	_, _, err = svc.OpenAsset(ctx, "customer-1", draft.ID)
	require.Error(t, err)
	assert.Equal(t, "BAD_GATEWAY", domainCode(t, err))
}
