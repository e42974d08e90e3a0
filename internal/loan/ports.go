package loan

import (
	"context"
)

//go:generate mockgen -destination=mocks/repository.go -package=mocks lenny/internal/loan Repository

// Repository defines the contract for loan storage.
type Repository interface {
	// Create lends a copy of the item. An existing active loan for the same
	// patron is returned as is. It fails with ErrLimitReached when the patron
	// already holds limit loans (limit <= 0 disables the check) and with
	// ErrUnavailable when every copy is out.
	Create(ctx context.Context, itemID int64, email string, limit int) (Loan, error)
	Return(ctx context.Context, itemID int64, email string) (Loan, error)
	ListActive(ctx context.Context, email string) ([]Loan, error)
	CountActive(ctx context.Context, email string) (int, error)
}
