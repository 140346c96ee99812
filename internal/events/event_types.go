package events

import (
	"time"

	"github.com/novelistan/novelistan-api/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventBookCreated  EventType = "book_created"
	EventBookUpdated  EventType = "book_updated"
	EventBookDeleted  EventType = "book_deleted"
	EventReviewAdded  EventType = "review_added"
	EventDraftCreated EventType = "draft_created"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role       domain.Role `json:"role"`
	AuthorID   *string     `json:"author_id,omitempty"`
	CustomerID *string     `json:"customer_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// BookCreatedPayload payload.
type BookCreatedPayload struct {
	Title string `json:"title"`
	Genre string `json:"genre,omitempty"`
}

// BookUpdatedPayload payload.
type BookUpdatedPayload struct {
	Title string `json:"title"`
}

// BookDeletedPayload payload.
type BookDeletedPayload struct {
	Title string `json:"title"`
}

// ReviewAddedPayload payload.
type ReviewAddedPayload struct {
	ReviewID string `json:"review_id"`
	BookID   string `json:"book_id"`
	Rating   int    `json:"rating"`
}

// DraftCreatedPayload payload.
type DraftCreatedPayload struct {
	Title string `json:"title"`
}

// AuthorActor builds an actor for an author subject.
func AuthorActor(authorID string) Actor {
	return Actor{Role: domain.RoleAuthor, AuthorID: &authorID}
}

// CustomerActor builds an actor for a customer subject.
func CustomerActor(customerID string) Actor {
	return Actor{Role: domain.RoleCustomer, CustomerID: &customerID}
}
