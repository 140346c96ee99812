package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/novelistan/novelistan-api/internal/domain"
)

// DraftRepository persists private customer drafts.
type DraftRepository interface {
	Create(ctx context.Context, draft *domain.Draft) error
	Update(ctx context.Context, draft *domain.Draft) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Draft, error)
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Draft, error)
}

type draftRepository struct {
	pool *pgxpool.Pool
}

// NewDraftRepository constructs repository.
func NewDraftRepository(pool *pgxpool.Pool) DraftRepository {
	return &draftRepository{pool: pool}
}

func (r *draftRepository) Create(ctx context.Context, draft *domain.Draft) error {
	const query = `
        INSERT INTO drafts (customer_id, title, content, asset_key, asset_mime, asset_size)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	assetKey, assetMime, assetSize := assetToColumns(draft.Asset)
	return r.pool.QueryRow(ctx, query,
		draft.CustomerID,
		draft.Title,
		draft.Content,
		assetKey,
		assetMime,
		assetSize,
	).Scan(&draft.ID, &draft.CreatedAt, &draft.UpdatedAt)
}

func (r *draftRepository) Update(ctx context.Context, draft *domain.Draft) error {
	const query = `
        UPDATE drafts SET title=$1, content=$2, asset_key=$3, asset_mime=$4, asset_size=$5, updated_at=NOW()
        WHERE id=$6`
	assetKey, assetMime, assetSize := assetToColumns(draft.Asset)
	cmd, err := r.pool.Exec(ctx, query,
		draft.Title,
		draft.Content,
		assetKey,
		assetMime,
		assetSize,
		draft.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *draftRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM drafts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *draftRepository) GetByID(ctx context.Context, id string) (*domain.Draft, error) {
	const query = `
        SELECT id, customer_id, title, content, asset_key, asset_mime, asset_size, created_at, updated_at
        FROM drafts WHERE id=$1`
	var (
		draft     domain.Draft
		assetKey  *string
		assetMime *string
		assetSize *int64
	)
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&draft.ID,
		&draft.CustomerID,
		&draft.Title,
		&draft.Content,
		&assetKey,
		&assetMime,
		&assetSize,
		&draft.CreatedAt,
		&draft.UpdatedAt,
	); err != nil {
		return nil, err
	}
	draft.Asset = assetFromColumns(assetKey, assetMime, assetSize)
	return &draft, nil
}

func (r *draftRepository) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Draft, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, customer_id, title, content, asset_key, asset_mime, asset_size, created_at, updated_at
        FROM drafts WHERE customer_id=$1 ORDER BY updated_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Draft
	for rows.Next() {
		var (
			draft     domain.Draft
			assetKey  *string
			assetMime *string
			assetSize *int64
		)
		if err := rows.Scan(
			&draft.ID,
			&draft.CustomerID,
			&draft.Title,
			&draft.Content,
			&assetKey,
			&assetMime,
			&assetSize,
			&draft.CreatedAt,
			&draft.UpdatedAt,
		); err != nil {
			return nil, err
		}
		draft.Asset = assetFromColumns(assetKey, assetMime, assetSize)
		result = append(result, draft)
	}
	return result, rows.Err()
}
