package domain

import "time"

// Role differentiates author vs customer tokens.
type Role string

const (
	RoleAuthor   Role = "AUTHOR"
	RoleCustomer Role = "CUSTOMER"
)

// Author is an account that publishes books.
type Author struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Bio          string
	Image        *AssetRef
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Customer is an account that reads, reviews, and drafts.
type Customer struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Image        *AssetRef
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
