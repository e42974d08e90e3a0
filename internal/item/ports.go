package item

import (
	"context"
)

//go:generate mockgen -destination=mocks/repository.go -package=mocks lenny/internal/item Repository

// Repository defines the contract for local item storage.
type Repository interface {
	List(ctx context.Context, limit, offset int) ([]Item, int, error)
	GetByID(ctx context.Context, id int64) (Item, error)
	ListByIDs(ctx context.Context, ids []int64) ([]Item, error)
	ListByEditions(ctx context.Context, editions []int64) ([]Item, error)
}
