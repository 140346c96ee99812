package domain

import "time"

// Book is the aggregate for published titles. Cover and PDF are optional
// until the author uploads them.
type Book struct {
	ID          string
	AuthorID    string
	Title       string
	Genre       string
	Description string
	Cover       *AssetRef
	PDF         *AssetRef
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
