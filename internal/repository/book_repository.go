package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/novelistan/novelistan-api/internal/domain"
)

const bookColumns = `id, author_id, title, genre, description,
               cover_key, cover_mime, cover_size, pdf_key, pdf_mime, pdf_size,
               created_at, updated_at`

// BookFilter captures catalog search parameters.
type BookFilter struct {
	AuthorID   *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// BookRepository encapsulates book persistence.
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Book, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Book, error)
	ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]domain.Book, error)
	ListWithFilter(ctx context.Context, filter BookFilter) ([]domain.Book, error)
}

type bookRepository struct {
	pool *pgxpool.Pool
}

// NewBookRepository instantiates repository.
func NewBookRepository(pool *pgxpool.Pool) BookRepository {
	return &bookRepository{pool: pool}
}

func (r *bookRepository) Create(ctx context.Context, book *domain.Book) error {
	const query = `
        INSERT INTO books (author_id, title, genre, description, cover_key, cover_mime, cover_size, pdf_key, pdf_mime, pdf_size)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	coverKey, coverMime, coverSize := assetToColumns(book.Cover)
	pdfKey, pdfMime, pdfSize := assetToColumns(book.PDF)
	return r.pool.QueryRow(ctx, query,
		book.AuthorID,
		book.Title,
		book.Genre,
		book.Description,
		coverKey,
		coverMime,
		coverSize,
		pdfKey,
		pdfMime,
		pdfSize,
	).Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)
}

func (r *bookRepository) Update(ctx context.Context, book *domain.Book) error {
	const query = `
        UPDATE books SET title=$1, genre=$2, description=$3,
            cover_key=$4, cover_mime=$5, cover_size=$6,
            pdf_key=$7, pdf_mime=$8, pdf_size=$9, updated_at=NOW()
        WHERE id=$10`
	coverKey, coverMime, coverSize := assetToColumns(book.Cover)
	pdfKey, pdfMime, pdfSize := assetToColumns(book.PDF)
	cmd, err := r.pool.Exec(ctx, query,
		book.Title,
		book.Genre,
		book.Description,
		coverKey,
		coverMime,
		coverSize,
		pdfKey,
		pdfMime,
		pdfSize,
		book.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bookRepository) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE id=$1`, bookColumns)
	var book domain.Book
	if err := scanBook(r.pool.QueryRow(ctx, query, id), &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Book, error) {
	return r.ListWithFilter(ctx, BookFilter{Limit: limit, Offset: offset})
}

func (r *bookRepository) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]domain.Book, error) {
	return r.ListWithFilter(ctx, BookFilter{AuthorID: &authorID, Limit: limit, Offset: offset})
}

func (r *bookRepository) ListWithFilter(ctx context.Context, filter BookFilter) ([]domain.Book, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		clauses = append(clauses, fmt.Sprintf("author_id=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(genre) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM books WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		bookColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBooks(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner, book *domain.Book) error {
	var (
		coverKey, coverMime *string
		coverSize           *int64
		pdfKey, pdfMime     *string
		pdfSize             *int64
	)
	if err := row.Scan(
		&book.ID,
		&book.AuthorID,
		&book.Title,
		&book.Genre,
		&book.Description,
		&coverKey,
		&coverMime,
		&coverSize,
		&pdfKey,
		&pdfMime,
		&pdfSize,
		&book.CreatedAt,
		&book.UpdatedAt,
	); err != nil {
		return err
	}
	book.Cover = assetFromColumns(coverKey, coverMime, coverSize)
	book.PDF = assetFromColumns(pdfKey, pdfMime, pdfSize)
	return nil
}

func scanBooks(rows pgx.Rows) ([]domain.Book, error) {
	var result []domain.Book
	for rows.Next() {
		var book domain.Book
		if err := scanBook(rows, &book); err != nil {
			return nil, err
		}
		result = append(result, book)
	}
	return result, rows.Err()
}
