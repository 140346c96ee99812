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

// CustomersHandler exposes auth and profile endpoints for customers.
type CustomersHandler struct {
	auth *service.AuthService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(authService *service.AuthService) *CustomersHandler {
	return &CustomersHandler{auth: authService}
}

// Register handles POST /api/customer/register.
func (h *CustomersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	customer, token, exp, err := h.auth.RegisterCustomer(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	setSessionCookies(c, domain.RoleCustomer, customer.ID, customer.Name, token, exp)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"customer": dto.NewCustomerResponse(customer),
			"auth":     dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /api/customer/login.
func (h *CustomersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	customer, token, exp, err := h.auth.LoginCustomer(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	setSessionCookies(c, domain.RoleCustomer, customer.ID, customer.Name, token, exp)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"customer": dto.NewCustomerResponse(customer),
			"auth":     dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /api/customer/logout.
func (h *CustomersHandler) Logout(c *fiber.Ctx) error {
	clearSessionCookies(c)
	return c.JSON(fiber.Map{"data": fiber.Map{"logged_out": true}})
}

// Me handles GET /api/customer/me.
func (h *CustomersHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Customer == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerResponse(principal.Customer)})
}

// UpdateProfile handles PUT /api/customer/profile (multipart).
func (h *CustomersHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Customer == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	picture, closeFn, err := formAsset(c, "image")
	if err != nil {
		return err
	}
	defer closeFn()

	customer, err := h.auth.UpdateCustomerProfile(c.Context(), principal.SubjectID,
		c.FormValue("name"), picture)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerResponse(customer)})
}

// Image handles GET /api/customer/image/:id. Profile pictures are public.
func (h *CustomersHandler) Image(c *fiber.Ctx) error {
	rc, ref, err := h.auth.OpenProfileImage(c.Context(), domain.RoleCustomer, c.Params("id"))
	if err != nil {
		return err
	}
	return streamAsset(c, rc, ref)
}
