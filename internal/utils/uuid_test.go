package utils

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDGenerator_Generate(t *testing.T) {
	g := NewUUIDGenerator()

	first := g.Generate()
	second := g.Generate()

	_, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// v7 сортируется по времени создания — порядок генерации сохраняется
	assert.Less(t, first, second)
}

func TestUUIDGenerator_GenerateTempID(t *testing.T) {
	g := NewUUIDGenerator()

	id := g.GenerateTempID()
	assert.True(t, strings.HasPrefix(id, TempIDPrefix))

	_, err := uuid.Parse(strings.TrimPrefix(id, TempIDPrefix))
	assert.NoError(t, err)
}
