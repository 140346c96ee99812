package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novelistan/novelistan-api/internal/domain"
	"github.com/novelistan/novelistan-api/internal/events"
)

func newReviewFixture(t *testing.T) (*ReviewService, *memBookRepo, *recordingDispatcher, string) {
	t.Helper()
	books := newMemBookRepo()
	reviews := newMemReviewRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewReviewService(reviews, books, dispatcher)

	book := &domain.Book{AuthorID: "author-1", Title: "Reviewed"}
	require.NoError(t, books.Create(context.Background(), book))
	return svc, books, dispatcher, book.ID
}

func TestCreateReviewHappyPath(t *testing.T) {
	svc, _, dispatcher, bookID := newReviewFixture(t)
	ctx := context.Background()

	review, err := svc.CreateReview(ctx, "customer-1", ReviewCreateInput{
		BookID:  bookID,
		Rating:  4,
		Comment: "  solid read  ",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)
	assert.Equal(t, "customer-1", review.CustomerID)
	assert.Equal(t, "solid read", review.Comment)
	assert.Equal(t, []events.EventType{events.EventReviewAdded}, dispatcher.types())
}

func TestCreateReviewValidation(t *testing.T) {
	svc, _, _, bookID := newReviewFixture(t)
	ctx := context.Background()

	cases := []ReviewCreateInput{
		{BookID: bookID, Rating: 3, Comment: "   "},
		{BookID: bookID, Rating: 0, Comment: "fine"},
		{BookID: bookID, Rating: 6, Comment: "fine"},
		{BookID: "", Rating: 3, Comment: "fine"},
	}
	for _, input := range cases {
		_, err := svc.CreateReview(ctx, "customer-1", input)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
	}
}

func TestCreateReviewUnknownBook(t *testing.T) {
	svc, _, _, _ := newReviewFixture(t)

	_, err := svc.CreateReview(context.Background(), "customer-1", ReviewCreateInput{
		BookID:  "no-such-book",
		Rating:  3,
		Comment: "fine",
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestDeleteReviewOwnershipEnforced(t *testing.T) {
	svc, _, _, bookID := newReviewFixture(t)
	ctx := context.Background()

	review, err := svc.CreateReview(ctx, "customer-1", ReviewCreateInput{
		BookID:  bookID,
		Rating:  5,
		Comment: "loved it",
	})
	require.NoError(t, err)

	err = svc.DeleteReview(ctx, "customer-2", review.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	require.NoError(t, svc.DeleteReview(ctx, "customer-1", review.ID))

	err = svc.DeleteReview(ctx, "customer-1", review.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}
