package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lenny/internal/item"
)

const loanColumns = `id, item_id, patron_email, created_at, returned_at`

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

// Create runs in one transaction holding the patron's advisory lock and then
// the item row lock, so the limit and copy counts below see every loan
// committed before them. Borrows always take the locks in that order.
func (r *PostgresRepo) Create(ctx context.Context, itemID int64, email string, limit int) (Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return Loan{}, fmt.Errorf("begin loan: %w", err)
	}
	defer tx.Rollback(timeoutCtx)

	if _, err := tx.Exec(timeoutCtx, `SELECT pg_advisory_xact_lock(hashtext($1))`, email); err != nil {
		return Loan{}, fmt.Errorf("lock patron: %w", err)
	}

	var copies int
	err = tx.QueryRow(timeoutCtx, `SELECT copies FROM items WHERE id = $1 FOR UPDATE`, itemID).Scan(&copies)
	if errors.Is(err, pgx.ErrNoRows) {
		return Loan{}, item.ErrNotFound
	}
	if err != nil {
		return Loan{}, fmt.Errorf("lock item: %w", err)
	}

	existing, err := scanLoan(tx.QueryRow(timeoutCtx,
		`SELECT `+loanColumns+` FROM loans
		 WHERE item_id = $1 AND patron_email = $2 AND returned_at IS NULL`, itemID, email))
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Loan{}, fmt.Errorf("get loan: %w", err)
	}

	if limit > 0 {
		var held int
		if err := tx.QueryRow(timeoutCtx,
			`SELECT COUNT(*) FROM loans WHERE patron_email = $1 AND returned_at IS NULL`, email).Scan(&held); err != nil {
			return Loan{}, fmt.Errorf("count patron loans: %w", err)
		}
		if held >= limit {
			return Loan{}, ErrLimitReached
		}
	}

	var out int
	if err := tx.QueryRow(timeoutCtx,
		`SELECT COUNT(*) FROM loans WHERE item_id = $1 AND returned_at IS NULL`, itemID).Scan(&out); err != nil {
		return Loan{}, fmt.Errorf("count item loans: %w", err)
	}
	if out >= copies {
		return Loan{}, ErrUnavailable
	}

	l, err := scanLoan(tx.QueryRow(timeoutCtx,
		`INSERT INTO loans (item_id, patron_email) VALUES ($1, $2) RETURNING `+loanColumns,
		itemID, email))
	if err != nil {
		return Loan{}, fmt.Errorf("create loan: %w", err)
	}
	if err := tx.Commit(timeoutCtx); err != nil {
		return Loan{}, fmt.Errorf("commit loan: %w", err)
	}
	return l, nil
}

func (r *PostgresRepo) Return(ctx context.Context, itemID int64, email string) (Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	l, err := scanLoan(r.db.QueryRow(timeoutCtx,
		`UPDATE loans SET returned_at = now()
		 WHERE item_id = $1 AND patron_email = $2 AND returned_at IS NULL
		 RETURNING `+loanColumns,
		itemID, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return Loan{}, ErrNotFound
	}
	if err != nil {
		return Loan{}, fmt.Errorf("return loan: %w", err)
	}
	return l, nil
}

func (r *PostgresRepo) ListActive(ctx context.Context, email string) ([]Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx,
		`SELECT `+loanColumns+` FROM loans
		 WHERE patron_email = $1 AND returned_at IS NULL
		 ORDER BY created_at DESC, id DESC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) CountActive(ctx context.Context, email string) (int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var n int
	err := r.db.QueryRow(timeoutCtx,
		`SELECT COUNT(*) FROM loans WHERE patron_email = $1 AND returned_at IS NULL`, email).Scan(&n)
	return n, err
}

func scanLoan(row pgx.Row) (Loan, error) {
	var l Loan
	err := row.Scan(&l.ID, &l.ItemID, &l.PatronEmail, &l.CreatedAt, &l.ReturnedAt)
	return l, err
}
