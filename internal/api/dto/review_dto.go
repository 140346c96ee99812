package dto

import (
	"time"

	"github.com/novelistan/novelistan-api/internal/domain"
)

// ReviewCreateRequest payload for posting a review.
type ReviewCreateRequest struct {
	BookID  string `json:"book_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ReviewResponse public review representation.
type ReviewResponse struct {
	ID         string    `json:"id"`
	BookID     string    `json:"book_id"`
	CustomerID string    `json:"customer_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewReviewResponse maps the domain model.
func NewReviewResponse(review *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:         review.ID,
		BookID:     review.BookID,
		CustomerID: review.CustomerID,
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt,
	}
}

// NewReviewListResponse maps a slice.
func NewReviewListResponse(reviews []domain.Review) []ReviewResponse {
	result := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		result = append(result, NewReviewResponse(&reviews[i]))
	}
	return result
}
