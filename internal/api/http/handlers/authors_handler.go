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

// AuthorsHandler exposes auth and profile endpoints for authors.
type AuthorsHandler struct {
	auth *service.AuthService
}

// NewAuthorsHandler constructs handler.
func NewAuthorsHandler(authService *service.AuthService) *AuthorsHandler {
	return &AuthorsHandler{auth: authService}
}

// Register handles POST /api/author/register.
func (h *AuthorsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	author, token, exp, err := h.auth.RegisterAuthor(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	setSessionCookies(c, domain.RoleAuthor, author.ID, author.Name, token, exp)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"author": dto.NewAuthorResponse(author),
			"auth":   dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /api/author/login.
func (h *AuthorsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	author, token, exp, err := h.auth.LoginAuthor(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	setSessionCookies(c, domain.RoleAuthor, author.ID, author.Name, token, exp)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"author": dto.NewAuthorResponse(author),
			"auth":   dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /api/author/logout. Stateless tokens mean logout only
// clears the client-side session stores.
func (h *AuthorsHandler) Logout(c *fiber.Ctx) error {
	clearSessionCookies(c)
	return c.JSON(fiber.Map{"data": fiber.Map{"logged_out": true}})
}

// Me handles GET /api/author/me.
func (h *AuthorsHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Author == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": dto.NewAuthorResponse(principal.Author)})
}

// UpdateProfile handles PUT /api/author/profile (multipart). The subject id
// comes from the verified token, never from the request.
func (h *AuthorsHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Author == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	picture, closeFn, err := formAsset(c, "image")
	if err != nil {
		return err
	}
	defer closeFn()

	author, err := h.auth.UpdateAuthorProfile(c.Context(), principal.SubjectID,
		c.FormValue("name"), c.FormValue("bio"), picture)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAuthorResponse(author)})
}

// Image handles GET /api/author/image/:id. Profile pictures are public.
func (h *AuthorsHandler) Image(c *fiber.Ctx) error {
	rc, ref, err := h.auth.OpenProfileImage(c.Context(), domain.RoleAuthor, c.Params("id"))
	if err != nil {
		return err
	}
	return streamAsset(c, rc, ref)
}
