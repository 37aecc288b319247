package indexarray

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/hupe1980/indexarray/metadata"
	"github.com/hupe1980/indexarray/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle_MutationUpdatesIndex(t *testing.T) {
	c := Of(doc(1, "one"), doc(3, "three"))
	c.Fetch(byID(1))

	h, ok := c.Fetch(byID(1))
	require.True(t, ok)
	h.Set("id", metadata.Int(5))

	_, ok = c.Fetch(byID(1))
	assert.False(t, ok)

	got, ok := c.Fetch(byID(5))
	require.True(t, ok)
	assert.True(t, got.Same(h))
	v, _ := got.Get("name")
	assert.Equal(t, "one", v.StringValue())
}

func TestHandle_MutationOfUnindexedField(t *testing.T) {
	c := Of(doc(1, "one"))
	c.Fetch(byID(1))

	h, _ := c.At(0)
	h.Set("name", metadata.String("uno"))

	assert.Equal(t, []string{"id"}, c.IndexedFields())
	pos, ok := c.FetchIndex(Where("name", "uno"))
	require.True(t, ok)
	assert.Equal(t, 0, pos)
}

func TestHandle_SetPreviouslyAbsentField(t *testing.T) {
	c := Of(doc(1, ""), doc(2, ""))
	c.Fetch(Where("name", "x"))

	h, _ := c.At(1)
	h.Set("name", metadata.String("x"))

	assert.Contains(t, c.IndexedFields(), "name")
	pos, ok := c.FetchIndex(Where("name", "x"))
	require.True(t, ok)
	assert.Equal(t, 1, pos)
}

func TestHandle_Unset(t *testing.T) {
	c := Of(doc(1, "one"))
	c.Fetch(Where("name", "one"))

	h, _ := c.At(0)
	h.Unset("name").Unset("missing")

	_, ok := c.Fetch(Where("name", "one"))
	assert.False(t, ok)
	_, ok = h.Get("name")
	assert.False(t, ok)
	entries, _ := c.IndexEntries("name")
	assert.Empty(t, entries)
}

func TestHandle_Update(t *testing.T) {
	c := Of(doc(1, "one"))
	c.Reindex("id", "name")

	h, _ := c.At(0)
	h.Update(metadata.Document{"id": metadata.Int(2), "name": metadata.String("two")})

	pos, ok := c.FetchIndex(byID(2))
	require.True(t, ok)
	assert.Equal(t, 0, pos)
	pos, ok = c.FetchIndex(Where("name", "two"))
	require.True(t, ok)
	assert.Equal(t, 0, pos)
}

func TestHandle_SetAny(t *testing.T) {
	c := Of(doc(1, ""))
	c.Fetch(byID(1))
	h, _ := c.At(0)

	require.NoError(t, h.SetAny("id", 7))
	_, ok := c.Fetch(byID(7))
	assert.True(t, ok)

	require.Error(t, h.SetAny("id", make(chan int)))
	v, _ := h.Get("id")
	assert.Equal(t, metadata.Int(7), v)
}

func TestHandle_RecordIsACopy(t *testing.T) {
	c := Of(doc(1, ""))
	c.Fetch(byID(1))
	h, _ := c.At(0)

	rec := h.Record()
	rec["id"] = metadata.Int(2)

	v, _ := h.Get("id")
	assert.Equal(t, metadata.Int(1), v)
}

func TestHandle_Same(t *testing.T) {
	c := Of(doc(1, ""), doc(1, ""))

	a, _ := c.At(0)
	b, _ := c.At(0)
	other, _ := c.At(1)

	assert.True(t, a.Same(b))
	assert.False(t, a.Same(other))
	assert.False(t, a.Same(nil))
}

func TestHandle_MutationWithDuplicates(t *testing.T) {
	c := Of(doc(1, "a"), doc(1, "b"), doc(1, "c"))
	c.Fetch(byID(1))

	h, _ := c.At(2)
	h.Set("id", metadata.Int(2))

	pos, ok := c.FetchIndex(byID(1))
	require.True(t, ok)
	assert.Equal(t, 1, pos)

	h, _ = c.At(0)
	h.Set("id", metadata.Int(2))

	pos, ok = c.FetchIndex(byID(2))
	require.True(t, ok)
	assert.Equal(t, 2, pos)
	pos, ok = c.FetchIndex(byID(1))
	require.True(t, ok)
	assert.Equal(t, 1, pos)
}

func TestHandle_IndexOutOfStepIsDropped(t *testing.T) {
	var buf bytes.Buffer
	metrics := &BasicMetricsCollector{}
	c := FromRecords(
		[]metadata.Document{doc(1, "one"), doc(3, "three")},
		WithLogger(NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))),
		WithMetricsCollector(metrics),
	)
	c.Fetch(byID(1))

	// Desynchronize the index behind the collection's back.
	require.True(t, c.indexes["id"].Remove(metadata.Int(1), 0))

	h, _ := c.At(0)
	h.Set("id", metadata.Int(9))

	assert.Empty(t, c.IndexedFields())
	assert.Equal(t, int64(1), metrics.GetStats().IndexDrops)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "id", line["field"])

	v, _ := h.Get("id")
	assert.Equal(t, metadata.Int(9), v)

	pos, ok := c.FetchIndex(byID(9))
	require.True(t, ok)
	assert.Equal(t, 0, pos)
	assert.Equal(t, []string{"id"}, c.IndexedFields())
}

func TestReplace_IndexOutOfStepIsDropped(t *testing.T) {
	c := Of(doc(1, "one"), doc(3, "three"))
	c.Reindex("id", "name")

	require.True(t, c.indexes["name"].Remove(metadata.String("three"), 1))

	c.Replace(byID(3), doc(4, "four"))

	assert.Equal(t, []string{"id"}, c.IndexedFields())
	pos, ok := c.FetchIndex(Where("name", "four"))
	require.True(t, ok)
	assert.Equal(t, 1, pos)
}

func TestIndexesMatchRecords(t *testing.T) {
	fields := []string{"a", "b", "c"}
	spec := testutil.DocumentSpec{
		Fields:      fields,
		Cardinality: 8,
		MissingRate: 0.2,
		Skew:        1.2,
	}

	for _, seed := range []int64{1, 7, 42} {
		rng := testutil.NewRNG(seed)
		c := FromRecords(rng.Documents(64, spec))

		for step := range 400 {
			switch op := rng.Intn(8); op {
			case 0:
				c.Push(rng.Document(spec))
			case 1:
				c.Replace(ByPosition(rng.Intn(c.Len()+1)), rng.Document(spec))
			case 2:
				c.Remove(ByPosition(rng.Intn(c.Len() + 1)))
			case 3:
				field := fields[rng.Intn(len(fields))]
				v, ok := rng.Document(spec)[field]
				if !ok {
					continue
				}
				n := c.Len()
				_, found := c.FetchIndex(ByField(field, v))
				c.Remove(ByField(field, v))
				if found {
					require.Equal(t, n-1, c.Len())
				}
			case 4:
				field := fields[rng.Intn(len(fields))]
				v, ok := rng.Document(spec)[field]
				if !ok {
					continue
				}
				c.Fetch(ByField(field, v))
			case 5:
				if rng.Intn(10) == 0 {
					c.Splice(rng.Intn(c.Len()+1), rng.Intn(3), rng.Document(spec))
				}
			default:
				h, ok := c.At(rng.Intn(c.Len() + 1))
				if !ok {
					continue
				}
				field := fields[rng.Intn(len(fields))]
				if v, ok := rng.Document(spec)[field]; ok {
					h.Set(field, v)
				} else {
					h.Unset(field)
				}
			}

			docs := c.ToArray()
			for _, field := range c.IndexedFields() {
				got, _ := c.IndexEntries(field)
				require.Equal(t, testutil.ExpectedEntries(docs, field), got, "seed %d step %d field %s", seed, step, field)
			}
			for i, h := range c.All() {
				require.Equal(t, i, h.Position())
			}
		}
	}
}
