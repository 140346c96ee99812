package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/novelistan/novelistan-api/internal/api/dto"
	"github.com/novelistan/novelistan-api/internal/auth"
	"github.com/novelistan/novelistan-api/internal/domain"
	"github.com/novelistan/novelistan-api/internal/service"
	apperrors "github.com/novelistan/novelistan-api/pkg/util"
)

// BooksHandler exposes catalog and book management endpoints.
type BooksHandler struct {
	books *service.BookService
}

// NewBooksHandler constructs handler.
func NewBooksHandler(bookService *service.BookService) *BooksHandler {
	return &BooksHandler{books: bookService}
}

// Create handles POST /api/book (multipart: title, genre, description,
// cover, pdf). Ownership comes from the verified token.
func (h *BooksHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Author == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	cover, closeCover, err := formAsset(c, "cover")
	if err != nil {
		return err
	}
	defer closeCover()
	pdf, closePDF, err := formAsset(c, "pdf")
	if err != nil {
		return err
	}
	defer closePDF()

	book, err := h.books.CreateBook(c.Context(), principal.SubjectID, service.BookCreateInput{
		Title:       c.FormValue("title"),
		Genre:       c.FormValue("genre"),
		Description: c.FormValue("description"),
		Cover:       cover,
		PDF:         pdf,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewBookResponse(book)})
}

// Update handles PUT /api/book/:id (multipart, partial).
func (h *BooksHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Author == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	cover, closeCover, err := formAsset(c, "cover")
	if err != nil {
		return err
	}
	defer closeCover()
	pdf, closePDF, err := formAsset(c, "pdf")
	if err != nil {
		return err
	}
	defer closePDF()

	input := service.BookUpdateInput{Cover: cover, PDF: pdf}
	if v := c.FormValue("title"); v != "" {
		input.Title = &v
	}
	if v := c.FormValue("genre"); v != "" {
		input.Genre = &v
	}
	if v := c.FormValue("description"); v != "" {
		input.Description = &v
	}

	book, err := h.books.UpdateBook(c.Context(), principal.SubjectID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookResponse(book)})
}

// Delete handles DELETE /api/book/:id.
func (h *BooksHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Author == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.books.DeleteBook(c.Context(), principal.SubjectID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// Get handles GET /api/book/:id. Public metadata read.
func (h *BooksHandler) Get(c *fiber.Ctx) error {
	book, err := h.books.GetBook(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookResponse(book)})
}

// ListAll handles GET /api/book/list/allBooks. Public, cache-backed.
func (h *BooksHandler) ListAll(c *fiber.Ctx) error {
	books, err := h.books.ListAllBooks(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookListResponse(books)})
}

// Search handles GET /api/book/search?q=term. Public.
func (h *BooksHandler) Search(c *fiber.Ctx) error {
	term := c.Query("q")
	if term == "" {
		return apperrors.NewValidationError("query parameter q required", map[string]any{"q": "required"})
	}
	books, err := h.books.SearchBooks(c.Context(), term, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookListResponse(books)})
}

// ListByAuthor handles GET /api/book/authorBook/:authorId. The listing is
// always scoped by the token subject; the path parameter is informational
// and rejected when it disagrees with the token.
func (h *BooksHandler) ListByAuthor(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Author == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if pathID := c.Params("authorId"); pathID != "" && pathID != principal.SubjectID {
		return apperrors.NewForbidden("author id does not match the authenticated subject")
	}
	books, err := h.books.ListAuthorBooks(c.Context(), principal.SubjectID, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookListResponse(books)})
}

// Cover handles GET /api/book/cover/:id. Books are public-read, so covers
// stream without a token.
func (h *BooksHandler) Cover(c *fiber.Ctx) error {
	rc, ref, err := h.books.OpenAsset(c.Context(), c.Params("id"), domain.AssetKindCover)
	if err != nil {
		return err
	}
	return streamAsset(c, rc, ref)
}

// PDF handles GET /api/book/pdf/:id.
func (h *BooksHandler) PDF(c *fiber.Ctx) error {
	rc, ref, err := h.books.OpenAsset(c.Context(), c.Params("id"), domain.AssetKindPDF)
	if err != nil {
		return err
	}
	return streamAsset(c, rc, ref)
}
