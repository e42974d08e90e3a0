package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEditions(t *testing.T) {
	got, err := parseEditions([]string{"OL37044497M", "/books/OL37044487M", "51733522"})
	require.NoError(t, err)
	assert.Equal(t, []int64{37044497, 37044487, 51733522}, got)

	_, err = parseEditions([]string{"OLxM"})
	assert.Error(t, err)

	_, err = parseEditions([]string{"abc"})
	assert.Error(t, err)
}

func TestParseEditions_Demo(t *testing.T) {
	got, err := parseEditions(demoEditions)
	require.NoError(t, err)
	assert.Len(t, got, len(demoEditions))
}
