package loan

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("loan not found")
	ErrUnavailable  = errors.New("no copies available to lend")
	ErrLimitReached = errors.New("loan limit reached")
	ErrNotLendable  = errors.New("item is open access and cannot be borrowed")
)

// Loan is one patron's hold on one copy of an item. A loan is active until
// ReturnedAt is set.
type Loan struct {
	ID          int64      `json:"id"`
	ItemID      int64      `json:"item_id"`
	PatronEmail string     `json:"patron_email"`
	CreatedAt   time.Time  `json:"created_at"`
	ReturnedAt  *time.Time `json:"returned_at,omitempty"`
}

func (l Loan) Active() bool {
	return l.ReturnedAt == nil
}
