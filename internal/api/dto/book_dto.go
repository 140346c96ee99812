package dto

import (
	"time"

	"github.com/novelistan/novelistan-api/internal/domain"
)

// BookResponse public book representation. Asset bytes are never inlined;
// clients follow the cover/pdf routes.
type BookResponse struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	Title       string    `json:"title"`
	Genre       string    `json:"genre,omitempty"`
	Description string    `json:"description,omitempty"`
	HasCover    bool      `json:"has_cover"`
	HasPDF      bool      `json:"has_pdf"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewBookResponse maps the domain model.
func NewBookResponse(book *domain.Book) BookResponse {
	return BookResponse{
		ID:          book.ID,
		AuthorID:    book.AuthorID,
		Title:       book.Title,
		Genre:       book.Genre,
		Description: book.Description,
		HasCover:    book.Cover != nil,
		HasPDF:      book.PDF != nil,
		CreatedAt:   book.CreatedAt,
		UpdatedAt:   book.UpdatedAt,
	}
}

// NewBookListResponse maps a slice.
func NewBookListResponse(books []domain.Book) []BookResponse {
	result := make([]BookResponse, 0, len(books))
	for i := range books {
		result = append(result, NewBookResponse(&books[i]))
	}
	return result
}
