package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/novelistan/novelistan-api/internal/domain"
	"github.com/novelistan/novelistan-api/internal/events"
	"github.com/novelistan/novelistan-api/internal/repository"
	apperrors "github.com/novelistan/novelistan-api/pkg/util"
)

// ReviewService handles customer reviews on books.
type ReviewService struct {
	reviews    repository.ReviewRepository
	books      repository.BookRepository
	dispatcher events.Dispatcher
}

// ReviewCreateInput describes review creation payload.
type ReviewCreateInput struct {
	BookID  string
	Rating  int
	Comment string
}

// NewReviewService constructs the service.
func NewReviewService(reviews repository.ReviewRepository, books repository.BookRepository, dispatcher events.Dispatcher) *ReviewService {
	return &ReviewService{reviews: reviews, books: books, dispatcher: dispatcher}
}

// CreateReview validates and stores a review for the authenticated customer.
func (s *ReviewService) CreateReview(ctx context.Context, customerID string, input ReviewCreateInput) (*domain.Review, error) {
	details := map[string]any{}
	if strings.TrimSpace(input.Comment) == "" {
		details["comment"] = "required"
	}
	if input.Rating < 1 || input.Rating > 5 {
		details["rating"] = "must be between 1 and 5"
	}
	if input.BookID == "" {
		details["book_id"] = "required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid review payload", details)
	}

	if _, err := s.books.GetByID(ctx, input.BookID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("book", nil)
		}
		return nil, apperrors.MapError(err)
	}

	review := &domain.Review{
		BookID:     input.BookID,
		CustomerID: customerID,
		Rating:     input.Rating,
		Comment:    strings.TrimSpace(input.Comment),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventReviewAdded,
			SubjectID: review.BookID,
			Actor:     events.CustomerActor(customerID),
			Timestamp: time.Now(),
			Payload: events.ReviewAddedPayload{
				ReviewID: review.ID,
				BookID:   review.BookID,
				Rating:   review.Rating,
			},
		})
	}
	return review, nil
}

// ListBookReviews returns reviews for a book; public read.
func (s *ReviewService) ListBookReviews(ctx context.Context, bookID string, limit, offset int) ([]domain.Review, error) {
	reviews, err := s.reviews.ListByBook(ctx, bookID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reviews, nil
}

// DeleteReview removes a review owned by the caller.
func (s *ReviewService) DeleteReview(ctx context.Context, customerID, reviewID string) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("review", nil)
		}
		return apperrors.MapError(err)
	}
	if review.CustomerID != customerID {
		return apperrors.NewForbidden("not the owner of this review")
	}
	if err := s.reviews.Delete(ctx, review.ID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
