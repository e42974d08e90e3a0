package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type pageQuery struct {
	Query  string `validate:"max=5"`
	Limit  int    `validate:"gte=1,lte=100"`
	Offset int    `validate:"gte=0"`
}

func TestValidateStruct(t *testing.T) {
	assert.Empty(t, ValidateStruct(pageQuery{Limit: 10}))

	details := ValidateStruct(pageQuery{Query: "too long", Limit: 0, Offset: -1})
	assert.Len(t, details, 3)

	byField := map[string]string{}
	for _, d := range details {
		byField[d.Field] = d.Message
	}
	assert.Equal(t, "Query must be at most 5", byField["query"])
	assert.Equal(t, "Limit must be at least 1", byField["limit"])
	assert.Equal(t, "Offset must be at least 0", byField["offset"])
}
