package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/novelistan/novelistan-api/internal/api/dto"
	"github.com/novelistan/novelistan-api/internal/auth"
	"github.com/novelistan/novelistan-api/internal/service"
	apperrors "github.com/novelistan/novelistan-api/pkg/util"
)

// ReviewsHandler exposes review endpoints.
type ReviewsHandler struct {
	reviews *service.ReviewService
}

// NewReviewsHandler constructs handler.
func NewReviewsHandler(reviewService *service.ReviewService) *ReviewsHandler {
	return &ReviewsHandler{reviews: reviewService}
}

// Create handles POST /api/reviews. Customer only; the reviewer identity
// comes from the token.
func (h *ReviewsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Customer == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ReviewCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	review, err := h.reviews.CreateReview(c.Context(), principal.SubjectID, service.ReviewCreateInput{
		BookID:  req.BookID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewReviewResponse(review)})
}

// ListByBook handles GET /api/reviews/book/:bookId. Public read.
func (h *ReviewsHandler) ListByBook(c *fiber.Ctx) error {
	reviews, err := h.reviews.ListBookReviews(c.Context(), c.Params("bookId"),
		c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReviewListResponse(reviews)})
}

// Delete handles DELETE /api/reviews/:id. Owner only.
func (h *ReviewsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Customer == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.reviews.DeleteReview(c.Context(), principal.SubjectID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}
