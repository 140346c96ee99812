package domain

import "time"

// Draft is a customer's private work in progress. Drafts are only visible
// to their owner, including any attached asset.
type Draft struct {
	ID         string
	CustomerID string
	Title      string
	Content    string
	Asset      *AssetRef
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
