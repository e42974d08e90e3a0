package loan

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"lenny/internal/catalog"
	"lenny/internal/item"
	"lenny/internal/opds"
)

// DefaultLimit is how many items a patron may hold at once.
const DefaultLimit = 5

type Service struct {
	loans   Repository
	items   item.Repository
	catalog *catalog.Service
	limit   int
	logger  *zap.Logger
}

func NewService(loans Repository, items item.Repository, cat *catalog.Service, limit int, logger *zap.Logger) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{loans: loans, items: items, catalog: cat, limit: limit, logger: logger}
}

// Borrow lends an encrypted item to the patron and returns its record with
// post-borrow links. Borrowing an item the patron already holds succeeds
// without taking another copy.
func (s *Service) Borrow(ctx context.Context, email string, itemID int64, direct bool) (catalog.Record, error) {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return catalog.Record{}, err
	}
	if !it.Encrypted {
		return catalog.Record{}, ErrNotLendable
	}

	l, err := s.loans.Create(ctx, itemID, email, s.limit)
	if err != nil {
		return catalog.Record{}, err
	}
	s.logger.Info("item borrowed",
		zap.Int64("item_id", itemID),
		zap.Int64("loan_id", l.ID),
	)

	return s.catalog.Record(ctx, itemID, direct)
}

// Return ends the patron's loan on the item and returns the item's catalog
// record as it now stands.
func (s *Service) Return(ctx context.Context, email string, itemID int64, direct bool) (catalog.Record, error) {
	l, err := s.loans.Return(ctx, itemID, email)
	if err != nil {
		return catalog.Record{}, err
	}
	s.logger.Info("item returned",
		zap.Int64("item_id", itemID),
		zap.Int64("loan_id", l.ID),
	)
	return s.catalog.Record(ctx, itemID, direct)
}

// Shelf lists the patron's active loans as borrowed publications.
func (s *Service) Shelf(ctx context.Context, email string) (opds.Shelf, error) {
	loans, err := s.loans.ListActive(ctx, email)
	if err != nil {
		return opds.Shelf{}, fmt.Errorf("list loans: %w", err)
	}

	ids := make([]int64, len(loans))
	for i, l := range loans {
		ids[i] = l.ItemID
	}
	records, err := s.catalog.Records(ctx, ids, false)
	if err != nil {
		return opds.Shelf{}, err
	}

	pubs := make([]opds.Publication, len(records))
	for i, r := range records {
		pubs[i] = r.BorrowedPublication()
	}
	return opds.NewShelf(pubs, s.catalog.Provider().URLs().Base), nil
}

// Counts reports the patron's loan allowance.
func (s *Service) Counts(ctx context.Context, email string) (opds.LoanCounts, error) {
	active, err := s.loans.CountActive(ctx, email)
	if err != nil {
		return opds.LoanCounts{}, fmt.Errorf("count loans: %w", err)
	}
	return opds.LoanCounts{Total: s.limit, Available: max(s.limit-active, 0)}, nil
}
