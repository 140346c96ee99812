package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/novelistan/novelistan-api/internal/auth"
	"github.com/novelistan/novelistan-api/internal/config"
	"github.com/novelistan/novelistan-api/internal/domain"
	"github.com/novelistan/novelistan-api/internal/repository"
	"github.com/novelistan/novelistan-api/internal/storage"
	apperrors "github.com/novelistan/novelistan-api/pkg/util"
)

const minPasswordLength = 8

// Login failures use one message for unknown email and wrong password so
// the endpoint cannot be used to enumerate accounts.
const invalidCredentialsMessage = "invalid email or password"

// dummyHash absorbs a bcrypt comparison when the email is unknown, keeping
// login latency independent of account existence.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// AssetUpload carries an incoming binary payload.
type AssetUpload struct {
	Content   io.Reader
	FileName  string
	MimeType  string
	SizeBytes int64
}

// AuthService coordinates registration, login, and profile flows for both
// identity variants.
type AuthService struct {
	authors    repository.AuthorRepository
	customers  repository.CustomerRepository
	store      storage.Store
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	AuthorRepo   repository.AuthorRepository
	CustomerRepo repository.CustomerRepository
	Store        storage.Store
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		authors:    deps.AuthorRepo,
		customers:  deps.CustomerRepo,
		store:      deps.Store,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// RegisterAuthor creates a new author account and issues a token.
func (s *AuthService) RegisterAuthor(ctx context.Context, name, email, password string) (*domain.Author, string, time.Time, error) {
	name, email = strings.TrimSpace(name), normalizeEmail(email)
	if err := validateRegistration(name, email, password); err != nil {
		return nil, "", time.Time{}, err
	}
	if _, err := s.authors.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	author := &domain.Author{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.authors.Create(ctx, author); err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, exp, err := s.tokenMgr.Generate(author.ID, domain.RoleAuthor)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return author, token, exp, nil
}

// RegisterCustomer creates a new customer account and issues a token.
func (s *AuthService) RegisterCustomer(ctx context.Context, name, email, password string) (*domain.Customer, string, time.Time, error) {
	name, email = strings.TrimSpace(name), normalizeEmail(email)
	if err := validateRegistration(name, email, password); err != nil {
		return nil, "", time.Time{}, err
	}
	if _, err := s.customers.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	customer := &domain.Customer{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, exp, err := s.tokenMgr.Generate(customer.ID, domain.RoleCustomer)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return customer, token, exp, nil
}

// LoginAuthor authenticates an author.
func (s *AuthService) LoginAuthor(ctx context.Context, email, password string) (*domain.Author, string, time.Time, error) {
	author, err := s.authors.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = auth.ComparePassword(dummyHash, password)
			return nil, "", time.Time{}, apperrors.NewUnauthorized(invalidCredentialsMessage)
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(author.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized(invalidCredentialsMessage)
	}
	token, exp, err := s.tokenMgr.Generate(author.ID, domain.RoleAuthor)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return author, token, exp, nil
}

// LoginCustomer authenticates a customer.
func (s *AuthService) LoginCustomer(ctx context.Context, email, password string) (*domain.Customer, string, time.Time, error) {
	customer, err := s.customers.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = auth.ComparePassword(dummyHash, password)
			return nil, "", time.Time{}, apperrors.NewUnauthorized(invalidCredentialsMessage)
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(customer.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized(invalidCredentialsMessage)
	}
	token, exp, err := s.tokenMgr.Generate(customer.ID, domain.RoleCustomer)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return customer, token, exp, nil
}

// UpdateAuthorProfile changes name/bio and optionally replaces the profile
// picture. The caller is always the owner; the handler passes the token
// subject, never a client-supplied id.
func (s *AuthService) UpdateAuthorProfile(ctx context.Context, authorID, name, bio string, picture *AssetUpload) (*domain.Author, error) {
	author, err := s.authors.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("author", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if name = strings.TrimSpace(name); name != "" {
		author.Name = name
	}
	if bio != "" {
		author.Bio = bio
	}
	var replaced *domain.AssetRef
	if picture != nil {
		ref, err := s.storeProfileImage(ctx, picture)
		if err != nil {
			return nil, err
		}
		replaced = author.Image
		author.Image = ref
	}
	if err := s.authors.Update(ctx, author); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.discardReplaced(ctx, replaced)
	return author, nil
}

// UpdateCustomerProfile changes the display name and optionally the picture.
func (s *AuthService) UpdateCustomerProfile(ctx context.Context, customerID, name string, picture *AssetUpload) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if name = strings.TrimSpace(name); name != "" {
		customer.Name = name
	}
	var replaced *domain.AssetRef
	if picture != nil {
		ref, err := s.storeProfileImage(ctx, picture)
		if err != nil {
			return nil, err
		}
		replaced = customer.Image
		customer.Image = ref
	}
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.discardReplaced(ctx, replaced)
	return customer, nil
}

// OpenProfileImage streams a profile picture. Profile pictures are public.
func (s *AuthService) OpenProfileImage(ctx context.Context, role domain.Role, id string) (io.ReadCloser, *domain.AssetRef, error) {
	var image *domain.AssetRef
	switch role {
	case domain.RoleAuthor:
		author, err := s.authors.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, nil, apperrors.NewNotFound("author", nil)
			}
			return nil, nil, apperrors.MapError(err)
		}
		image = author.Image
	case domain.RoleCustomer:
		customer, err := s.customers.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, nil, apperrors.NewNotFound("customer", nil)
			}
			return nil, nil, apperrors.MapError(err)
		}
		image = customer.Image
	default:
		return nil, nil, apperrors.NewNotFound("profile", nil)
	}
	if image == nil {
		return nil, nil, apperrors.NewNotFound("profile image", nil)
	}
	rc, err := s.store.Get(ctx, image.Key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, apperrors.NewAssetMissing(string(domain.AssetKindProfile))
		}
		return nil, nil, apperrors.NewBadGateway("asset storage unavailable", err)
	}
	return rc, image, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) storeProfileImage(ctx context.Context, picture *AssetUpload) (*domain.AssetRef, error) {
	if !strings.HasPrefix(picture.MimeType, "image/") {
		return nil, apperrors.NewValidationError("profile picture must be an image", map[string]any{"mime_type": picture.MimeType})
	}
	key := "profiles/" + uuid.NewString()
	if err := s.store.Put(ctx, key, picture.Content, picture.MimeType); err != nil {
		return nil, apperrors.NewBadGateway("asset storage unavailable", err)
	}
	return &domain.AssetRef{Key: key, MimeType: picture.MimeType, SizeBytes: picture.SizeBytes}, nil
}

// discardReplaced deletes a replaced asset best-effort; the row no longer
// references it, so a leaked object is the acceptable failure mode.
func (s *AuthService) discardReplaced(ctx context.Context, ref *domain.AssetRef) {
	if ref == nil || ref.Key == "" {
		return
	}
	_ = s.store.Delete(ctx, ref.Key)
}

func validateRegistration(name, email, password string) error {
	details := map[string]any{}
	if name == "" {
		details["name"] = "required"
	}
	if email == "" || !strings.Contains(email, "@") {
		details["email"] = "valid email required"
	}
	if len(password) < minPasswordLength {
		details["password"] = "minimum 8 characters"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid registration payload", details)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
