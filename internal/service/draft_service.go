package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/novelistan/novelistan-api/internal/domain"
	"github.com/novelistan/novelistan-api/internal/events"
	"github.com/novelistan/novelistan-api/internal/repository"
	"github.com/novelistan/novelistan-api/internal/storage"
	apperrors "github.com/novelistan/novelistan-api/pkg/util"
)

// DraftService handles private customer drafts. Every operation, reads
// included, requires ownership: drafts are never public.
type DraftService struct {
	drafts     repository.DraftRepository
	store      storage.Store
	dispatcher events.Dispatcher
}

// DraftInput describes draft creation and update payloads.
type DraftInput struct {
	Title   string
	Content string
	Asset   *AssetUpload
}

// NewDraftService constructs the service.
func NewDraftService(drafts repository.DraftRepository, store storage.Store, dispatcher events.Dispatcher) *DraftService {
	return &DraftService{drafts: drafts, store: store, dispatcher: dispatcher}
}

// CreateDraft stores a new draft for the authenticated customer.
func (s *DraftService) CreateDraft(ctx context.Context, customerID string, input DraftInput) (*domain.Draft, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required", map[string]any{"title": "required"})
	}

	draft := &domain.Draft{
		CustomerID: customerID,
		Title:      title,
		Content:    input.Content,
	}
	if input.Asset != nil {
		ref, err := s.storeDraftAsset(ctx, input.Asset)
		if err != nil {
			return nil, err
		}
		draft.Asset = ref
	}

	if err := s.drafts.Create(ctx, draft); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventDraftCreated,
			SubjectID: draft.ID,
			Actor:     events.CustomerActor(customerID),
			Timestamp: time.Now(),
			Payload:   events.DraftCreatedPayload{Title: draft.Title},
		})
	}
	return draft, nil
}

// GetDraft returns a draft only to its owner.
func (s *DraftService) GetDraft(ctx context.Context, customerID, draftID string) (*domain.Draft, error) {
	return s.loadOwned(ctx, customerID, draftID)
}

// ListDrafts returns the caller's drafts, scoped by the token subject.
func (s *DraftService) ListDrafts(ctx context.Context, customerID string, limit, offset int) ([]domain.Draft, error) {
	drafts, err := s.drafts.ListByCustomer(ctx, customerID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return drafts, nil
}

// UpdateDraft applies changes after the ownership check.
func (s *DraftService) UpdateDraft(ctx context.Context, customerID, draftID string, input DraftInput) (*domain.Draft, error) {
	draft, err := s.loadOwned(ctx, customerID, draftID)
	if err != nil {
		return nil, err
	}
	if title := strings.TrimSpace(input.Title); title != "" {
		draft.Title = title
	}
	if input.Content != "" {
		draft.Content = input.Content
	}
	var replaced *domain.AssetRef
	if input.Asset != nil {
		ref, err := s.storeDraftAsset(ctx, input.Asset)
		if err != nil {
			return nil, err
		}
		replaced = draft.Asset
		draft.Asset = ref
	}
	if err := s.drafts.Update(ctx, draft); err != nil {
		return nil, apperrors.MapError(err)
	}
	// only after the row points at the new asset; a failed update must keep
	// the referenced blob intact
	if replaced != nil {
		_ = s.store.Delete(ctx, replaced.Key)
	}
	return draft, nil
}

// DeleteDraft removes the draft and its asset best-effort.
func (s *DraftService) DeleteDraft(ctx context.Context, customerID, draftID string) error {
	draft, err := s.loadOwned(ctx, customerID, draftID)
	if err != nil {
		return err
	}
	if err := s.drafts.Delete(ctx, draft.ID); err != nil {
		return apperrors.MapError(err)
	}
	if draft.Asset != nil {
		_ = s.store.Delete(ctx, draft.Asset.Key)
	}
	return nil
}

// OpenAsset streams the draft attachment, owner only. The ownership rule is
// identical to the metadata route: a draft asset is never fetchable by id
// alone.
func (s *DraftService) OpenAsset(ctx context.Context, customerID, draftID string) (io.ReadCloser, *domain.AssetRef, error) {
	draft, err := s.loadOwned(ctx, customerID, draftID)
	if err != nil {
		return nil, nil, err
	}
	if draft.Asset == nil {
		return nil, nil, apperrors.NewNotFound("draft asset", nil)
	}
	rc, err := s.store.Get(ctx, draft.Asset.Key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, apperrors.NewAssetMissing(string(domain.AssetKindDraft))
		}
		return nil, nil, apperrors.NewBadGateway("asset storage unavailable", err)
	}
	return rc, draft.Asset, nil
}

func (s *DraftService) loadOwned(ctx context.Context, customerID, draftID string) (*domain.Draft, error) {
	draft, err := s.drafts.GetByID(ctx, draftID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("draft", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if draft.CustomerID != customerID {
		return nil, apperrors.NewForbidden("not the owner of this draft")
	}
	return draft, nil
}

func (s *DraftService) storeDraftAsset(ctx context.Context, upload *AssetUpload) (*domain.AssetRef, error) {
	key := "drafts/" + uuid.NewString()
	if err := s.store.Put(ctx, key, upload.Content, upload.MimeType); err != nil {
		return nil, apperrors.NewBadGateway("asset storage unavailable", err)
	}
	return &domain.AssetRef{Key: key, MimeType: upload.MimeType, SizeBytes: upload.SizeBytes}, nil
}
