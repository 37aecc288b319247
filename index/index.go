package index

import (
	"maps"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/indexarray/metadata"
)

// Index is the equality index of one field.
type Index struct {
	field string

	// Structure: valueKey -> bitmap of positions
	postings map[string]*roaring.Bitmap
}

// New creates an empty index for field.
func New(field string) *Index {
	return &Index{
		field:    field,
		postings: make(map[string]*roaring.Bitmap),
	}
}

// Build creates the index for field by scanning positions 0..n-1 front to back.
// valueAt reports the field value of the record at pos, or false if the record
// does not define the field.
func Build(field string, n int, valueAt func(pos int) (metadata.Value, bool)) *Index {
	idx := New(field)
	for pos := 0; pos < n; pos++ {
		if v, ok := valueAt(pos); ok {
			idx.Add(v, pos)
		}
	}
	return idx
}

// Field returns the indexed field name.
func (idx *Index) Field() string {
	return idx.field
}

// Lookup returns the position the value resolves to: the highest position
// holding it.
func (idx *Index) Lookup(v metadata.Value) (int, bool) {
	bitmap, ok := idx.postings[v.Key()]
	if !ok || bitmap.IsEmpty() {
		return 0, false
	}
	return int(bitmap.Maximum()), true
}

// Add records that the record at pos holds v.
func (idx *Index) Add(v metadata.Value, pos int) {
	key := v.Key()
	bitmap, ok := idx.postings[key]
	if !ok {
		bitmap = roaring.New()
		idx.postings[key] = bitmap
	}
	bitmap.Add(uint32(pos))
}

// Remove deletes the (v, pos) pair. It returns false if the pair was not
// recorded, which means the index no longer matches the records.
func (idx *Index) Remove(v metadata.Value, pos int) bool {
	key := v.Key()
	bitmap, ok := idx.postings[key]
	if !ok {
		return false
	}
	if !bitmap.CheckedRemove(uint32(pos)) {
		return false
	}

	// Clean up empty bitmaps
	if bitmap.IsEmpty() {
		delete(idx.postings, key)
	}
	return true
}

// Contains reports whether the (v, pos) pair is recorded.
func (idx *Index) Contains(v metadata.Value, pos int) bool {
	bitmap, ok := idx.postings[v.Key()]
	if !ok {
		return false
	}
	return bitmap.Contains(uint32(pos))
}

// Positions returns every position holding v in ascending order.
func (idx *Index) Positions(v metadata.Value) []int {
	bitmap, ok := idx.postings[v.Key()]
	if !ok {
		return nil
	}

	out := make([]int, 0, bitmap.GetCardinality())
	it := bitmap.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// Entries returns the resolved position of every distinct value, keyed by
// metadata.Value.Key.
func (idx *Index) Entries() map[string]int {
	out := make(map[string]int, len(idx.postings))
	for key, bitmap := range idx.postings {
		out[key] = int(bitmap.Maximum())
	}
	return out
}

// Keys returns the distinct value keys in sorted order.
func (idx *Index) Keys() []string {
	return slices.Sorted(maps.Keys(idx.postings))
}

// Len returns the number of distinct values.
func (idx *Index) Len() int {
	return len(idx.postings)
}

// Clone returns a deep copy that shares no bitmaps with idx.
func (idx *Index) Clone() *Index {
	clone := &Index{
		field:    idx.field,
		postings: make(map[string]*roaring.Bitmap, len(idx.postings)),
	}
	for key, bitmap := range idx.postings {
		clone.postings[key] = bitmap.Clone()
	}
	return clone
}

// Stats returns statistics about the index.
type Stats struct {
	Field            string // Indexed field name
	KeyCount         int    // Distinct values
	TotalCardinality uint64 // Sum of all bitmap cardinalities
	DuplicateKeys    int    // Values held by more than one record
	MemoryBytes      uint64 // Estimated bitmap memory usage
}

// GetStats returns statistics about the index.
func (idx *Index) GetStats() Stats {
	stats := Stats{
		Field:    idx.field,
		KeyCount: len(idx.postings),
	}

	for _, bitmap := range idx.postings {
		card := bitmap.GetCardinality()
		stats.TotalCardinality += card
		if card > 1 {
			stats.DuplicateKeys++
		}
		stats.MemoryBytes += bitmap.GetSizeInBytes()
	}

	return stats
}
