package dto

import (
	"time"

	"github.com/novelistan/novelistan-api/internal/domain"
)

// RegisterRequest payload for new accounts, both variants.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthorResponse public author representation.
type AuthorResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio,omitempty"`
	HasImage  bool      `json:"has_image"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerResponse public customer representation.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	HasImage  bool      `json:"has_image"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAuthorResponse maps the domain model.
func NewAuthorResponse(author *domain.Author) AuthorResponse {
	return AuthorResponse{
		ID:        author.ID,
		Name:      author.Name,
		Email:     author.Email,
		Bio:       author.Bio,
		HasImage:  author.Image != nil,
		CreatedAt: author.CreatedAt,
	}
}

// NewCustomerResponse maps the domain model.
func NewCustomerResponse(customer *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     customer.Email,
		HasImage:  customer.Image != nil,
		CreatedAt: customer.CreatedAt,
	}
}
