package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apihttp "github.com/novelistan/novelistan-api/internal/api/http"
	"github.com/novelistan/novelistan-api/internal/auth"
	"github.com/novelistan/novelistan-api/internal/domain"
	"github.com/novelistan/novelistan-api/internal/observability"
)

type fakeAuthorRepo struct {
	byID map[string]*domain.Author
}

func (r *fakeAuthorRepo) Create(context.Context, *domain.Author) error { return nil }
func (r *fakeAuthorRepo) Update(context.Context, *domain.Author) error { return nil }
func (r *fakeAuthorRepo) GetByID(_ context.Context, id string) (*domain.Author, error) {
	if a, ok := r.byID[id]; ok {
		return a, nil
	}
	return nil, pgx.ErrNoRows
}
func (r *fakeAuthorRepo) GetByEmail(context.Context, string) (*domain.Author, error) {
	return nil, pgx.ErrNoRows
}

type fakeCustomerRepo struct {
	byID map[string]*domain.Customer
}

func (r *fakeCustomerRepo) Create(context.Context, *domain.Customer) error { return nil }
func (r *fakeCustomerRepo) Update(context.Context, *domain.Customer) error { return nil }
func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	if c, ok := r.byID[id]; ok {
		return c, nil
	}
	return nil, pgx.ErrNoRows
}
func (r *fakeCustomerRepo) GetByEmail(context.Context, string) (*domain.Customer, error) {
	return nil, pgx.ErrNoRows
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newGateApp(t *testing.T) (*fiber.App, *auth.TokenManager) {
	t.Helper()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	authors := &fakeAuthorRepo{byID: map[string]*domain.Author{
		"author-1": {ID: "author-1", Name: "Asha", Email: "asha@example.com"},
	}}
	customers := &fakeCustomerRepo{byID: map[string]*domain.Customer{
		"customer-1": {ID: "customer-1", Name: "Nadia", Email: "nadia@example.com"},
	}}
	mw := auth.NewAuthMiddleware(tokens, authors, customers)

	app := fiber.New()
	apihttp.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	app.Get("/author-only", mw.Handle, auth.RequireAuthor(), func(c *fiber.Ctx) error {
		p, _ := auth.PrincipalFromContext(c)
		return c.JSON(fiber.Map{"subject": p.SubjectID})
	})
	app.Get("/customer-only", mw.Handle, auth.RequireCustomer(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app, tokens
}

func decodeError(t *testing.T, resp *http.Response) errorEnvelope {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope
}

func TestGateRejectsUniformly(t *testing.T) {
	app, tokens := newGateApp(t)

	expired := auth.NewTokenManager("test-secret", -time.Hour)
	expiredToken, _, err := expired.Generate("author-1", domain.RoleAuthor)
	require.NoError(t, err)

	deletedToken, _, err := tokens.Generate("author-gone", domain.RoleAuthor)
	require.NoError(t, err)

	cases := map[string]string{
		"no token":        "",
		"garbage token":   "Bearer not-a-jwt",
		"expired token":   "Bearer " + expiredToken,
		"deleted account": "Bearer " + deletedToken,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/author-only", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			envelope := decodeError(t, resp)
			assert.Equal(t, "UNAUTHORIZED", envelope.Error.Code)
			assert.Equal(t, "authentication required", envelope.Error.Message)
		})
	}
}

func TestGateAcceptsBearerHeader(t *testing.T) {
	app, tokens := newGateApp(t)
	token, _, err := tokens.Generate("author-1", domain.RoleAuthor)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/author-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGateFallsBackToCookie(t *testing.T) {
	app, tokens := newGateApp(t)
	token, _, err := tokens.Generate("author-1", domain.RoleAuthor)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/author-only", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGateHeaderWinsOverCookie(t *testing.T) {
	app, tokens := newGateApp(t)
	good, _, err := tokens.Generate("author-1", domain.RoleAuthor)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/author-only", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	req.AddCookie(&http.Cookie{Name: "token", Value: good})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGateRoleMismatchIsForbidden(t *testing.T) {
	app, tokens := newGateApp(t)
	token, _, err := tokens.Generate("author-1", domain.RoleAuthor)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/customer-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	envelope := decodeError(t, resp)
	assert.Equal(t, "FORBIDDEN", envelope.Error.Code)
}
