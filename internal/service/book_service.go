package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/novelistan/novelistan-api/internal/domain"
	"github.com/novelistan/novelistan-api/internal/events"
	"github.com/novelistan/novelistan-api/internal/repository"
	"github.com/novelistan/novelistan-api/internal/storage"
	apperrors "github.com/novelistan/novelistan-api/pkg/util"
)

// CatalogCache is the read-through cache for the public listing.
type CatalogCache interface {
	GetAll(ctx context.Context) ([]domain.Book, bool)
	SetAll(ctx context.Context, books []domain.Book)
	Invalidate(ctx context.Context)
}

// CatalogObserver records cache hit/miss outcomes.
type CatalogObserver interface {
	RecordCatalogLookup(hit bool)
}

// BookService coordinates the catalog, ownership checks, and asset
// lifecycle for books.
type BookService struct {
	books      repository.BookRepository
	store      storage.Store
	catalog    CatalogCache
	observer   CatalogObserver
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// BookDependencies bundles requirements for the book service.
type BookDependencies struct {
	BookRepo   repository.BookRepository
	Store      storage.Store
	Catalog    CatalogCache
	Observer   CatalogObserver
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// BookCreateInput describes book creation payload.
type BookCreateInput struct {
	Title       string
	Genre       string
	Description string
	Cover       *AssetUpload
	PDF         *AssetUpload
}

// BookUpdateInput describes mutable book fields. Nil asset uploads leave
// the stored asset untouched.
type BookUpdateInput struct {
	Title       *string
	Genre       *string
	Description *string
	Cover       *AssetUpload
	PDF         *AssetUpload
}

// NewBookService constructs the service.
func NewBookService(deps BookDependencies) *BookService {
	return &BookService{
		books:      deps.BookRepo,
		store:      deps.Store,
		catalog:    deps.Catalog,
		observer:   deps.Observer,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// CreateBook creates a book owned by the authenticated author.
func (s *BookService) CreateBook(ctx context.Context, authorID string, input BookCreateInput) (*domain.Book, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required", map[string]any{"title": "required"})
	}

	book := &domain.Book{
		AuthorID:    authorID,
		Title:       title,
		Genre:       strings.TrimSpace(input.Genre),
		Description: strings.TrimSpace(input.Description),
	}

	if input.Cover != nil {
		ref, err := s.storeAsset(ctx, domain.AssetKindCover, input.Cover)
		if err != nil {
			return nil, err
		}
		book.Cover = ref
	}
	if input.PDF != nil {
		ref, err := s.storeAsset(ctx, domain.AssetKindPDF, input.PDF)
		if err != nil {
			s.discard(ctx, book.Cover)
			return nil, err
		}
		book.PDF = ref
	}

	if err := s.books.Create(ctx, book); err != nil {
		s.discard(ctx, book.Cover)
		s.discard(ctx, book.PDF)
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventBookCreated,
		SubjectID: book.ID,
		Actor:     events.AuthorActor(authorID),
		Payload:   events.BookCreatedPayload{Title: book.Title, Genre: book.Genre},
	})
	return book, nil
}

// UpdateBook applies changes after verifying the caller owns the book.
func (s *BookService) UpdateBook(ctx context.Context, authorID, bookID string, input BookUpdateInput) (*domain.Book, error) {
	book, err := s.loadOwned(ctx, authorID, bookID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title cannot be empty", map[string]any{"title": "required"})
		}
		book.Title = title
	}
	if input.Genre != nil {
		book.Genre = strings.TrimSpace(*input.Genre)
	}
	if input.Description != nil {
		book.Description = strings.TrimSpace(*input.Description)
	}

	var replaced []*domain.AssetRef
	if input.Cover != nil {
		ref, err := s.storeAsset(ctx, domain.AssetKindCover, input.Cover)
		if err != nil {
			return nil, err
		}
		replaced = append(replaced, book.Cover)
		book.Cover = ref
	}
	if input.PDF != nil {
		ref, err := s.storeAsset(ctx, domain.AssetKindPDF, input.PDF)
		if err != nil {
			return nil, err
		}
		replaced = append(replaced, book.PDF)
		book.PDF = ref
	}

	if err := s.books.Update(ctx, book); err != nil {
		return nil, apperrors.MapError(err)
	}
	for _, ref := range replaced {
		s.discard(ctx, ref)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventBookUpdated,
		SubjectID: book.ID,
		Actor:     events.AuthorActor(authorID),
		Payload:   events.BookUpdatedPayload{Title: book.Title},
	})
	return book, nil
}

// DeleteBook removes the book and its assets after the ownership check.
// Asset removal is best-effort; a leaked object is logged, never fatal.
func (s *BookService) DeleteBook(ctx context.Context, authorID, bookID string) error {
	book, err := s.loadOwned(ctx, authorID, bookID)
	if err != nil {
		return err
	}
	if err := s.books.Delete(ctx, book.ID); err != nil {
		return apperrors.MapError(err)
	}
	s.discard(ctx, book.Cover)
	s.discard(ctx, book.PDF)

	s.publish(ctx, events.Event{
		Type:      events.EventBookDeleted,
		SubjectID: book.ID,
		Actor:     events.AuthorActor(authorID),
		Payload:   events.BookDeletedPayload{Title: book.Title},
	})
	return nil
}

// GetBook returns public metadata for one book.
func (s *BookService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("book", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return book, nil
}

// ListAllBooks serves the public catalog, read-through the cache.
func (s *BookService) ListAllBooks(ctx context.Context) ([]domain.Book, error) {
	if s.catalog != nil {
		if books, ok := s.catalog.GetAll(ctx); ok {
			s.observeLookup(true)
			return books, nil
		}
		s.observeLookup(false)
	}
	books, err := s.books.ListAll(ctx, 0, 0)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if s.catalog != nil {
		s.catalog.SetAll(ctx, books)
	}
	return books, nil
}

// SearchBooks is a public title/genre search; it bypasses the cache.
func (s *BookService) SearchBooks(ctx context.Context, term string, limit, offset int) ([]domain.Book, error) {
	books, err := s.books.ListWithFilter(ctx, repository.BookFilter{
		SearchTerm: &term,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return books, nil
}

// ListAuthorBooks lists the caller's own books. The scope always comes from
// the verified token subject; a client-supplied author id is only accepted
// as confirmation and must match.
func (s *BookService) ListAuthorBooks(ctx context.Context, authorID string, limit, offset int) ([]domain.Book, error) {
	books, err := s.books.ListByAuthor(ctx, authorID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return books, nil
}

// OpenAsset streams a book asset of the given kind. Books are public-read,
// so their assets need no token; the distinction between a missing record
// and a missing blob is preserved for the client.
func (s *BookService) OpenAsset(ctx context.Context, bookID string, kind domain.AssetKind) (io.ReadCloser, *domain.AssetRef, error) {
	book, err := s.GetBook(ctx, bookID)
	if err != nil {
		return nil, nil, err
	}

	var ref *domain.AssetRef
	switch kind {
	case domain.AssetKindCover:
		ref = book.Cover
	case domain.AssetKindPDF:
		ref = book.PDF
	default:
		return nil, nil, apperrors.NewNotFound("asset", nil)
	}
	if ref == nil {
		return nil, nil, apperrors.NewNotFound(string(kind), nil)
	}

	rc, err := s.store.Get(ctx, ref.Key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, apperrors.NewAssetMissing(string(kind))
		}
		return nil, nil, apperrors.NewBadGateway("asset storage unavailable", err)
	}
	return rc, ref, nil
}

func (s *BookService) loadOwned(ctx context.Context, authorID, bookID string) (*domain.Book, error) {
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("book", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if book.AuthorID != authorID {
		return nil, apperrors.NewForbidden("not the owner of this book")
	}
	return book, nil
}

func (s *BookService) storeAsset(ctx context.Context, kind domain.AssetKind, upload *AssetUpload) (*domain.AssetRef, error) {
	switch kind {
	case domain.AssetKindCover:
		if !strings.HasPrefix(upload.MimeType, "image/") {
			return nil, apperrors.NewValidationError("cover must be an image", map[string]any{"mime_type": upload.MimeType})
		}
	case domain.AssetKindPDF:
		if upload.MimeType != "application/pdf" {
			return nil, apperrors.NewValidationError("book file must be a PDF", map[string]any{"mime_type": upload.MimeType})
		}
	}
	key := string(kind) + "s/" + uuid.NewString()
	if err := s.store.Put(ctx, key, upload.Content, upload.MimeType); err != nil {
		return nil, apperrors.NewBadGateway("asset storage unavailable", err)
	}
	return &domain.AssetRef{Key: key, MimeType: upload.MimeType, SizeBytes: upload.SizeBytes}, nil
}

func (s *BookService) discard(ctx context.Context, ref *domain.AssetRef) {
	if ref == nil || ref.Key == "" {
		return
	}
	if err := s.store.Delete(ctx, ref.Key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		if s.logger != nil {
			s.logger.Warn("orphaned asset not deleted", zap.String("key", ref.Key), zap.Error(err))
		}
	}
}

func (s *BookService) observeLookup(hit bool) {
	if s.observer != nil {
		s.observer.RecordCatalogLookup(hit)
	}
}

func (s *BookService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
