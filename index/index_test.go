package index

import (
	"testing"

	"github.com/hupe1980/indexarray/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	idx := New("id")
	assert.Equal(t, "id", idx.Field())

	// 1. Add
	idx.Add(metadata.Int(1), 0)
	idx.Add(metadata.Int(3), 1)

	// 2. Lookup
	pos, ok := idx.Lookup(metadata.Int(1))
	assert.True(t, ok)
	assert.Equal(t, 0, pos)

	_, ok = idx.Lookup(metadata.Int(5))
	assert.False(t, ok)

	// 3. Remove
	assert.True(t, idx.Remove(metadata.Int(1), 0))
	_, ok = idx.Lookup(metadata.Int(1))
	assert.False(t, ok)
	assert.Equal(t, 1, idx.Len())

	// 4. Remove of an unrecorded pair
	assert.False(t, idx.Remove(metadata.Int(1), 0))
	assert.False(t, idx.Remove(metadata.Int(3), 7))
}

func TestIndex_LatestWins(t *testing.T) {
	idx := New("name")
	idx.Add(metadata.String("dup"), 0)
	idx.Add(metadata.String("dup"), 4)
	idx.Add(metadata.String("dup"), 2)

	pos, ok := idx.Lookup(metadata.String("dup"))
	require.True(t, ok)
	assert.Equal(t, 4, pos)
	assert.Equal(t, []int{0, 2, 4}, idx.Positions(metadata.String("dup")))

	// Moving the winner away keeps earlier holders resolvable.
	require.True(t, idx.Remove(metadata.String("dup"), 4))
	pos, ok = idx.Lookup(metadata.String("dup"))
	require.True(t, ok)
	assert.Equal(t, 2, pos)
}

func TestBuild(t *testing.T) {
	docs := []metadata.Document{
		{"id": metadata.Int(1), "name": metadata.String("one")},
		{"name": metadata.String("nameless")},
		{"id": metadata.Int(3)},
		{"id": metadata.Int(1)},
	}

	idx := Build("id", len(docs), func(pos int) (metadata.Value, bool) {
		v, ok := docs[pos]["id"]
		return v, ok
	})

	assert.Equal(t, map[string]int{"i:1": 3, "i:3": 2}, idx.Entries())
	assert.Equal(t, []string{"i:1", "i:3"}, idx.Keys())
	assert.True(t, idx.Contains(metadata.Int(1), 0))
	assert.False(t, idx.Contains(metadata.Int(1), 1))
	assert.Nil(t, idx.Positions(metadata.Int(9)))
}

func TestIndex_Clone(t *testing.T) {
	idx := New("id")
	idx.Add(metadata.Int(1), 0)

	clone := idx.Clone()
	clone.Add(metadata.Int(1), 5)
	clone.Add(metadata.Int(2), 6)

	pos, _ := idx.Lookup(metadata.Int(1))
	assert.Equal(t, 0, pos)
	assert.Equal(t, 1, idx.Len())

	pos, _ = clone.Lookup(metadata.Int(1))
	assert.Equal(t, 5, pos)
	assert.Equal(t, 2, clone.Len())
}

func TestIndex_GetStats(t *testing.T) {
	idx := New("tag")
	idx.Add(metadata.String("a"), 0)
	idx.Add(metadata.String("a"), 1)
	idx.Add(metadata.String("b"), 2)

	stats := idx.GetStats()
	assert.Equal(t, "tag", stats.Field)
	assert.Equal(t, 2, stats.KeyCount)
	assert.Equal(t, uint64(3), stats.TotalCardinality)
	assert.Equal(t, 1, stats.DuplicateKeys)
	assert.Greater(t, stats.MemoryBytes, uint64(0))
}
