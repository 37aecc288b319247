package testutil

import (
	"testing"

	"github.com/hupe1980/indexarray/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocuments(t *testing.T) {
	rng := NewRNG(4711)

	docs := rng.Documents(50, DocumentSpec{
		Fields:      []string{"id", "name"},
		Cardinality: 5,
	})

	require.Len(t, docs, 50)
	for _, doc := range docs {
		require.Len(t, doc, 2)
		assert.Equal(t, metadata.KindInt, doc["id"].Kind)
		assert.Equal(t, metadata.KindString, doc["name"].Kind)

		id, _ := doc["id"].AsInt64()
		assert.GreaterOrEqual(t, id, int64(0))
		assert.Less(t, id, int64(5))
	}
}

func TestDocuments_MissingRate(t *testing.T) {
	rng := NewRNG(4711)

	none := rng.Documents(20, DocumentSpec{Fields: []string{"id"}, MissingRate: 1})
	for _, doc := range none {
		assert.Empty(t, doc)
	}

	all := rng.Documents(20, DocumentSpec{Fields: []string{"id"}, MissingRate: 0})
	for _, doc := range all {
		assert.Len(t, doc, 1)
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(42)
	spec := DocumentSpec{Fields: []string{"id", "name"}, Cardinality: 100, Skew: 1.2}

	first := rng.Documents(10, spec)
	rng.Reset()
	second := rng.Documents(10, spec)

	assert.Equal(t, int64(42), rng.Seed())
	for i := range first {
		assert.True(t, first[i].Equal(second[i]))
	}
}

func TestZipf(t *testing.T) {
	rng := NewRNG(7)

	counts := make([]int, 10)
	for range 2000 {
		k := rng.Zipf(10, 1.5)
		require.GreaterOrEqual(t, k, 0)
		require.Less(t, k, 10)
		counts[k]++
	}
	assert.Greater(t, counts[0], counts[9])
	assert.Equal(t, 0, rng.Zipf(1, 1.5))
}

func TestExpectedEntries(t *testing.T) {
	docs := []metadata.Document{
		{"id": metadata.Int(1)},
		{"name": metadata.String("x")},
		{"id": metadata.Int(1)},
		{"id": metadata.Int(2)},
	}

	assert.Equal(t, map[string]int{"i:1": 2, "i:2": 3}, ExpectedEntries(docs, "id"))
	assert.Empty(t, ExpectedEntries(docs, "missing"))
}
