package profile

import (
	"context"

	"lenny/internal/opds"
)

//go:generate mockgen -destination=mocks/loan_counter.go -package=mocks lenny/internal/profile LoanCounter

// LoanCounter reports a patron's loan allowance.
type LoanCounter interface {
	Counts(ctx context.Context, email string) (opds.LoanCounts, error)
}
