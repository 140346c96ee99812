package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/novelistan/novelistan-api/internal/domain"
	"github.com/novelistan/novelistan-api/internal/events"
	"github.com/novelistan/novelistan-api/internal/repository"
	"github.com/novelistan/novelistan-api/internal/storage"
)

// In-memory test doubles for the repository, storage, cache, and event
// interfaces. They reproduce the pgx.ErrNoRows contract of the real
// repositories so service error mapping is exercised for real.

type memAuthorRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Author
	byEmail map[string]*domain.Author
}

func newMemAuthorRepo() *memAuthorRepo {
	return &memAuthorRepo{byID: map[string]*domain.Author{}, byEmail: map[string]*domain.Author{}}
}

func (r *memAuthorRepo) Create(_ context.Context, author *domain.Author) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if author.ID == "" {
		author.ID = uuid.NewString()
	}
	copied := *author
	r.byID[author.ID] = &copied
	r.byEmail[author.Email] = &copied
	return nil
}

func (r *memAuthorRepo) Update(_ context.Context, author *domain.Author) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[author.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *author
	r.byID[author.ID] = &copied
	r.byEmail[author.Email] = &copied
	return nil
}

func (r *memAuthorRepo) GetByID(_ context.Context, id string) (*domain.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	author, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *author
	return &copied, nil
}

func (r *memAuthorRepo) GetByEmail(_ context.Context, email string) (*domain.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	author, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *author
	return &copied, nil
}

type memCustomerRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Customer
	byEmail map[string]*domain.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{byID: map[string]*domain.Customer{}, byEmail: map[string]*domain.Customer{}}
}

func (r *memCustomerRepo) Create(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	copied := *customer
	r.byID[customer.ID] = &copied
	r.byEmail[customer.Email] = &copied
	return nil
}

func (r *memCustomerRepo) Update(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[customer.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *customer
	r.byID[customer.ID] = &copied
	r.byEmail[customer.Email] = &copied
	return nil
}

func (r *memCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *customer
	return &copied, nil
}

func (r *memCustomerRepo) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *customer
	return &copied, nil
}

type memBookRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Book
}

func newMemBookRepo() *memBookRepo {
	return &memBookRepo{byID: map[string]*domain.Book{}}
}

func (r *memBookRepo) Create(_ context.Context, book *domain.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	copied := *book
	r.byID[book.ID] = &copied
	return nil
}

func (r *memBookRepo) Update(_ context.Context, book *domain.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[book.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *book
	r.byID[book.ID] = &copied
	return nil
}

func (r *memBookRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func (r *memBookRepo) GetByID(_ context.Context, id string) (*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *book
	return &copied, nil
}

func (r *memBookRepo) ListAll(_ context.Context, _, _ int) ([]domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	books := make([]domain.Book, 0, len(r.byID))
	for _, book := range r.byID {
		books = append(books, *book)
	}
	return books, nil
}

func (r *memBookRepo) ListByAuthor(_ context.Context, authorID string, _, _ int) ([]domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var books []domain.Book
	for _, book := range r.byID {
		if book.AuthorID == authorID {
			books = append(books, *book)
		}
	}
	return books, nil
}

func (r *memBookRepo) ListWithFilter(_ context.Context, filter repository.BookFilter) ([]domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var books []domain.Book
	for _, book := range r.byID {
		if filter.AuthorID != nil && book.AuthorID != *filter.AuthorID {
			continue
		}
		if filter.SearchTerm != nil {
			term := strings.ToLower(*filter.SearchTerm)
			if !strings.Contains(strings.ToLower(book.Title), term) &&
				!strings.Contains(strings.ToLower(book.Genre), term) {
				continue
			}
		}
		books = append(books, *book)
	}
	return books, nil
}

type memReviewRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Review
}

func newMemReviewRepo() *memReviewRepo {
	return &memReviewRepo{byID: map[string]*domain.Review{}}
}

func (r *memReviewRepo) Create(_ context.Context, review *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	copied := *review
	r.byID[review.ID] = &copied
	return nil
}

func (r *memReviewRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func (r *memReviewRepo) GetByID(_ context.Context, id string) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *review
	return &copied, nil
}

func (r *memReviewRepo) ListByBook(_ context.Context, bookID string, _, _ int) ([]domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var reviews []domain.Review
	for _, review := range r.byID {
		if review.BookID == bookID {
			reviews = append(reviews, *review)
		}
	}
	return reviews, nil
}

type memDraftRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Draft
}

func newMemDraftRepo() *memDraftRepo {
	return &memDraftRepo{byID: map[string]*domain.Draft{}}
}

func (r *memDraftRepo) Create(_ context.Context, draft *domain.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	copied := *draft
	r.byID[draft.ID] = &copied
	return nil
}

func (r *memDraftRepo) Update(_ context.Context, draft *domain.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[draft.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *draft
	r.byID[draft.ID] = &copied
	return nil
}

func (r *memDraftRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func (r *memDraftRepo) GetByID(_ context.Context, id string) (*domain.Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	draft, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *draft
	return &copied, nil
}

func (r *memDraftRepo) ListByCustomer(_ context.Context, customerID string, _, _ int) ([]domain.Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var drafts []domain.Draft
	for _, draft := range r.byID {
		if draft.CustomerID == customerID {
			drafts = append(drafts, *draft)
		}
	}
	return drafts, nil
}

// memStore holds objects in memory. failAll simulates an unreachable
// backend; missing keys return storage.ErrNotFound like real backends.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	failAll bool
}

var errStoreDown = errors.New("backend unreachable")

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (s *memStore) Put(_ context.Context, key string, content io.Reader, _ string) error {
	if s.failAll {
		return errStoreDown
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *memStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	if s.failAll {
		return nil, errStoreDown
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	if s.failAll {
		return errStoreDown
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return storage.ErrNotFound
	}
	delete(s.objects, key)
	return nil
}

func (s *memStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok, nil
}

func (s *memStore) Ping(context.Context) error {
	if s.failAll {
		return errStoreDown
	}
	return nil
}

func (s *memStore) drop(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
}

type memCatalog struct {
	mu          sync.Mutex
	books       []domain.Book
	cached      bool
	invalidated int
}

func (c *memCatalog) GetAll(context.Context) ([]domain.Book, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.cached {
		return nil, false
	}
	return c.books, true
}

func (c *memCatalog) SetAll(_ context.Context, books []domain.Book) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.books = books
	c.cached = true
}

func (c *memCatalog) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.books = nil
	c.cached = false
	c.invalidated++
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}
