package item

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItem_Borrowable(t *testing.T) {
	assert.True(t, Item{Copies: 2, ActiveLoans: 1}.Borrowable())
	assert.False(t, Item{Copies: 1, ActiveLoans: 1}.Borrowable())
	assert.False(t, Item{Copies: 0}.Borrowable())
}
