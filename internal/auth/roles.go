package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/novelistan/novelistan-api/internal/domain"
	apperrors "github.com/novelistan/novelistan-api/pkg/util"
)

// RequireAuthor ensures an author is authenticated.
func RequireAuthor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized(uniformAuthMessage)
		}
		if principal.Role != domain.RoleAuthor || principal.Author == nil {
			return apperrors.NewForbidden("author account required")
		}
		return c.Next()
	}
}

// RequireCustomer ensures a customer is authenticated.
func RequireCustomer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized(uniformAuthMessage)
		}
		if principal.Role != domain.RoleCustomer || principal.Customer == nil {
			return apperrors.NewForbidden("customer account required")
		}
		return c.Next()
	}
}
