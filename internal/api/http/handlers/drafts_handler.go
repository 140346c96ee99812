package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/novelistan/novelistan-api/internal/api/dto"
	"github.com/novelistan/novelistan-api/internal/auth"
	"github.com/novelistan/novelistan-api/internal/service"
	apperrors "github.com/novelistan/novelistan-api/pkg/util"
)

// DraftsHandler exposes draft endpoints. All routes are owner-scoped.
type DraftsHandler struct {
	drafts *service.DraftService
}

// NewDraftsHandler constructs handler.
func NewDraftsHandler(draftService *service.DraftService) *DraftsHandler {
	return &DraftsHandler{drafts: draftService}
}

// Create handles POST /api/draft (multipart: title, content, asset).
func (h *DraftsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Customer == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	asset, closeFn, err := formAsset(c, "asset")
	if err != nil {
		return err
	}
	defer closeFn()

	draft, err := h.drafts.CreateDraft(c.Context(), principal.SubjectID, service.DraftInput{
		Title:   c.FormValue("title"),
		Content: c.FormValue("content"),
		Asset:   asset,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewDraftResponse(draft)})
}

// List handles GET /api/draft. Returns only the caller's drafts.
func (h *DraftsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Customer == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	drafts, err := h.drafts.ListDrafts(c.Context(), principal.SubjectID,
		c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDraftListResponse(drafts)})
}

// Get handles GET /api/draft/:id.
func (h *DraftsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Customer == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	draft, err := h.drafts.GetDraft(c.Context(), principal.SubjectID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDraftResponse(draft)})
}

// Update handles PUT /api/draft/:id (multipart, partial).
func (h *DraftsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Customer == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	asset, closeFn, err := formAsset(c, "asset")
	if err != nil {
		return err
	}
	defer closeFn()

	draft, err := h.drafts.UpdateDraft(c.Context(), principal.SubjectID, c.Params("id"), service.DraftInput{
		Title:   c.FormValue("title"),
		Content: c.FormValue("content"),
		Asset:   asset,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDraftResponse(draft)})
}

// Delete handles DELETE /api/draft/:id.
func (h *DraftsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Customer == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.drafts.DeleteDraft(c.Context(), principal.SubjectID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// Asset handles GET /api/draft/asset/:id. Unlike book assets, draft
// attachments stream only to their owner.
func (h *DraftsHandler) Asset(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Customer == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	rc, ref, err := h.drafts.OpenAsset(c.Context(), principal.SubjectID, c.Params("id"))
	if err != nil {
		return err
	}
	return streamAsset(c, rc, ref)
}
