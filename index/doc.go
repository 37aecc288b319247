// Package index implements the per-field equality index of an
// indexarray.Collection.
//
// An Index maps a field value (by metadata.Value.Key) to the positions of the
// records holding that value. Positions are kept in Roaring bitmaps, one
// posting list per distinct value. Lookup resolves a value to the highest
// position in its posting list, so when several records share a value the
// latest one in sequence order wins.
//
// Keeping every holder, not only the winner, means that moving the winner
// away (replace, mutation) leaves earlier duplicates resolvable without a
// rebuild.
//
// Usage Example:
//
//	idx := index.New("id")
//	idx.Add(metadata.Int(1), 0)
//	idx.Add(metadata.Int(3), 1)
//	idx.Add(metadata.Int(1), 2)
//
//	pos, ok := idx.Lookup(metadata.Int(1)) // 2, true
//
//	idx.Remove(metadata.Int(1), 2)
//	pos, ok = idx.Lookup(metadata.Int(1)) // 0, true
//
// An Index is not safe for concurrent use.
package index
