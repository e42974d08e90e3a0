package item

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// itemColumns selects an item with its count of open loans.
const itemColumns = `
		SELECT i.id, i.openlibrary_edition, i.encrypted, i.copies,
		       (SELECT COUNT(*) FROM loans l WHERE l.item_id = i.id AND l.returned_at IS NULL),
		       i.created_at
		FROM items i`

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) List(ctx context.Context, limit, offset int) ([]Item, int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM items").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(timeoutCtx, itemColumns+`
		ORDER BY i.id ASC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := scanItems(rows)
	return items, total, err
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Item, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var it Item
	err := r.db.QueryRow(timeoutCtx, itemColumns+` WHERE i.id = $1`, id).Scan(
		&it.ID, &it.EditionID, &it.Encrypted, &it.Copies, &it.ActiveLoans, &it.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	return it, nil
}

func (r *PostgresRepo) ListByIDs(ctx context.Context, ids []int64) ([]Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, itemColumns+` WHERE i.id = ANY($1) ORDER BY i.id ASC`, ids)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

func (r *PostgresRepo) ListByEditions(ctx context.Context, editions []int64) ([]Item, error) {
	if len(editions) == 0 {
		return nil, nil
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, itemColumns+` WHERE i.openlibrary_edition = ANY($1) ORDER BY i.id ASC`, editions)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

func scanItems(rows pgx.Rows) ([]Item, error) {
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.EditionID, &it.Encrypted, &it.Copies, &it.ActiveLoans, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
