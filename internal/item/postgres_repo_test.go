package item

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"lenny/internal/testutil"
)

func seedItem(t *testing.T, db *pgxpool.Pool, edition int64, encrypted bool, copies int) int64 {
	t.Helper()
	ctx := context.Background()
	var id int64
	err := db.QueryRow(ctx,
		`INSERT INTO items (openlibrary_edition, encrypted, copies) VALUES ($1, $2, $3)
		 ON CONFLICT (openlibrary_edition) DO UPDATE SET encrypted = EXCLUDED.encrypted, copies = EXCLUDED.copies
		 RETURNING id`,
		edition, encrypted, copies).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestPostgresRepo_GetByID(t *testing.T) {
	db := testutil.TestDB(t)
	repo := NewPostgresRepo(db, 2*time.Second)
	ctx := context.Background()

	id := seedItem(t, db, 37044497, true, 2)

	it, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, int64(37044497), it.EditionID)
	require.True(t, it.Encrypted)
	require.Equal(t, 2, it.Copies)

	_, err = repo.GetByID(ctx, -1)
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestPostgresRepo_ListByEditions(t *testing.T) {
	db := testutil.TestDB(t)
	repo := NewPostgresRepo(db, 2*time.Second)
	ctx := context.Background()

	a := seedItem(t, db, 37044487, false, 1)
	b := seedItem(t, db, 51733522, true, 1)

	items, err := repo.ListByEditions(ctx, []int64{37044487, 51733522, 1})
	require.NoError(t, err)

	got := map[int64]int64{}
	for _, it := range items {
		got[it.EditionID] = it.ID
	}
	require.Equal(t, a, got[37044487])
	require.Equal(t, b, got[51733522])

	none, err := repo.ListByEditions(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestPostgresRepo_List(t *testing.T) {
	db := testutil.TestDB(t)
	repo := NewPostgresRepo(db, 2*time.Second)
	ctx := context.Background()

	seedItem(t, db, 37044778, false, 1)

	items, total, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.GreaterOrEqual(t, total, 1)
	require.NotEmpty(t, items)
}
