package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/novelistan/novelistan-api/internal/domain"
	"github.com/novelistan/novelistan-api/internal/repository"
	apperrors "github.com/novelistan/novelistan-api/pkg/util"
)

const principalKey = "auth_principal"

// One message for every gate failure so callers cannot probe the token
// format or learn whether an account exists.
const uniformAuthMessage = "authentication required"

// Principal represents the authenticated caller: the author/customer union
// projected to a shared subject id and role.
type Principal struct {
	SubjectID string
	Role      domain.Role
	Author    *domain.Author
	Customer  *domain.Customer
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens    *TokenManager
	authors   repository.AuthorRepository
	customers repository.CustomerRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, authors repository.AuthorRepository, customers repository.CustomerRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, authors: authors, customers: customers}
}

// Handle enforces authentication for protected routes. The bearer header is
// preferred; the token cookie is a fallback so a reloaded browser session
// works without re-attaching headers.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	tokenStr := bearerToken(c)
	if tokenStr == "" {
		tokenStr = c.Cookies("token")
	}
	if tokenStr == "" {
		return apperrors.NewUnauthorized(uniformAuthMessage)
	}

	claims, err := m.tokens.Parse(tokenStr)
	if err != nil {
		return apperrors.NewUnauthorized(uniformAuthMessage)
	}

	principal := &Principal{SubjectID: claims.Subject, Role: claims.Role}

	switch claims.Role {
	case domain.RoleAuthor:
		author, err := m.authors.GetByID(c.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewUnauthorized(uniformAuthMessage)
			}
			return apperrors.MapError(err)
		}
		principal.Author = author
	case domain.RoleCustomer:
		customer, err := m.customers.GetByID(c.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewUnauthorized(uniformAuthMessage)
			}
			return apperrors.MapError(err)
		}
		principal.Customer = customer
	default:
		return apperrors.NewUnauthorized(uniformAuthMessage)
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
