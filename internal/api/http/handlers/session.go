package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/novelistan/novelistan-api/internal/domain"
)

// Session cookies mirror the bearer token so a reloaded browser session can
// reconstruct its state from either store. All cookies share the token
// expiry; login/logout always write the full set so the stores cannot
// drift apart.

func setSessionCookies(c *fiber.Ctx, role domain.Role, subjectID, displayName, token string, expires time.Time) {
	idName, displayField := cookieFieldNames(role)
	for name, value := range map[string]string{
		"token":      token,
		"role":       string(role),
		idName:       subjectID,
		displayField: displayName,
	} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    value,
			Expires:  expires,
			Path:     "/",
			HTTPOnly: name == "token",
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
}

// clearSessionCookies expires every cookie either login variant sets. The
// same browser may have held both an author and a customer session, so
// logout cannot scope the sweep to the current role.
func clearSessionCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	for _, name := range []string{"token", "role", "authorId", "authorName", "customerId", "customerName"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  expired,
			Path:     "/",
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
}

func cookieFieldNames(role domain.Role) (idName, displayName string) {
	if role == domain.RoleAuthor {
		return "authorId", "authorName"
	}
	return "customerId", "customerName"
}
