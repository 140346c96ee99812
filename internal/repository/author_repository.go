package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/novelistan/novelistan-api/internal/domain"
)

// AuthorRepository defines persistence access for authors.
type AuthorRepository interface {
	Create(ctx context.Context, author *domain.Author) error
	Update(ctx context.Context, author *domain.Author) error
	GetByID(ctx context.Context, id string) (*domain.Author, error)
	GetByEmail(ctx context.Context, email string) (*domain.Author, error)
}

type authorRepository struct {
	pool *pgxpool.Pool
}

// NewAuthorRepository returns a Postgres-backed implementation.
func NewAuthorRepository(pool *pgxpool.Pool) AuthorRepository {
	return &authorRepository{pool: pool}
}

func (r *authorRepository) Create(ctx context.Context, author *domain.Author) error {
	const query = `
        INSERT INTO authors (name, email, password_hash, bio, image_key, image_mime, image_size)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	imgKey, imgMime, imgSize := assetToColumns(author.Image)
	return r.pool.QueryRow(ctx, query,
		author.Name,
		author.Email,
		author.PasswordHash,
		author.Bio,
		imgKey,
		imgMime,
		imgSize,
	).Scan(&author.ID, &author.CreatedAt, &author.UpdatedAt)
}

func (r *authorRepository) Update(ctx context.Context, author *domain.Author) error {
	const query = `
        UPDATE authors SET name=$1, email=$2, password_hash=$3, bio=$4,
            image_key=$5, image_mime=$6, image_size=$7, updated_at=NOW()
        WHERE id=$8`

	imgKey, imgMime, imgSize := assetToColumns(author.Image)
	cmd, err := r.pool.Exec(ctx, query,
		author.Name,
		author.Email,
		author.PasswordHash,
		author.Bio,
		imgKey,
		imgMime,
		imgSize,
		author.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *authorRepository) GetByID(ctx context.Context, id string) (*domain.Author, error) {
	const query = `
        SELECT id, name, email, password_hash, bio, image_key, image_mime, image_size, created_at, updated_at
        FROM authors WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *authorRepository) GetByEmail(ctx context.Context, email string) (*domain.Author, error) {
	const query = `
        SELECT id, name, email, password_hash, bio, image_key, image_mime, image_size, created_at, updated_at
        FROM authors WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *authorRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Author, error) {
	var (
		author  domain.Author
		imgKey  *string
		imgMime *string
		imgSize *int64
	)
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&author.ID,
		&author.Name,
		&author.Email,
		&author.PasswordHash,
		&author.Bio,
		&imgKey,
		&imgMime,
		&imgSize,
		&author.CreatedAt,
		&author.UpdatedAt,
	); err != nil {
		return nil, err
	}
	author.Image = assetFromColumns(imgKey, imgMime, imgSize)
	return &author, nil
}
