package item

import (
	"errors"
	"time"
)

// ErrNotFound is returned when an item is not in the local catalog.
var ErrNotFound = errors.New("item not found")

// Item is a locally held copy of an Open Library edition.
type Item struct {
	ID          int64     `json:"id"`
	EditionID   int64     `json:"openlibrary_edition"`
	Encrypted   bool      `json:"encrypted"`
	Copies      int       `json:"copies"`
	ActiveLoans int       `json:"active_loans"`
	CreatedAt   time.Time `json:"created_at"`
}

// Borrowable reports whether a copy is free to lend.
func (i Item) Borrowable() bool {
	return i.ActiveLoans < i.Copies
}
