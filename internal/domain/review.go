package domain

import "time"

// Review is a customer's rating and comment on a book.
type Review struct {
	ID         string
	BookID     string
	CustomerID string
	Rating     int
	Comment    string
	CreatedAt  time.Time
}
