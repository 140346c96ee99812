package dto

import (
	"time"

	"github.com/novelistan/novelistan-api/internal/domain"
)

// DraftRequest payload for creating or updating a draft.
type DraftRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// DraftResponse owner-only draft representation.
type DraftResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	HasAsset  bool      `json:"has_asset"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDraftResponse maps the domain model.
func NewDraftResponse(draft *domain.Draft) DraftResponse {
	return DraftResponse{
		ID:        draft.ID,
		Title:     draft.Title,
		Content:   draft.Content,
		HasAsset:  draft.Asset != nil,
		CreatedAt: draft.CreatedAt,
		UpdatedAt: draft.UpdatedAt,
	}
}

// NewDraftListResponse maps a slice.
func NewDraftListResponse(drafts []domain.Draft) []DraftResponse {
	result := make([]DraftResponse, 0, len(drafts))
	for i := range drafts {
		result = append(result, NewDraftResponse(&drafts[i]))
	}
	return result
}
