// Package indexarray provides an in-memory ordered collection of records with
// lazily built, automatically maintained equality indexes.
//
// A Collection behaves like a slice of records (order, positional access,
// iteration) and also answers "which record has field f equal to v" in O(1)
// without a hand-maintained lookup table.
//
// # Quick Start
//
//	c := indexarray.Of(
//	    metadata.Document{"id": metadata.Int(1), "name": metadata.String("one")},
//	    metadata.Document{"id": metadata.Int(3), "name": metadata.String("three")},
//	)
//
//	h, ok := c.Fetch(indexarray.ByField("id", metadata.Int(1))) // builds the "id" index
//	h.Set("id", metadata.Int(2))                                 // index follows
//
//	c.Add(metadata.Document{"id": metadata.Int(5)}).
//	    Remove(indexarray.Where("id", 3))
//
// # Criteria
//
// Fetch, FetchIndex, Replace and Remove take a Criterion:
//
//   - ByPosition(i): the record at position i
//   - ByField(f, v) / Where(f, any): the record whose field f equals v
//   - ByIdentity(h): the record behind a handle
//   - ByRecord(doc): the first record equal to doc
//
// A criterion that selects nothing turns the call into a no-op. Mutating
// calls never fail; they return the collection so calls can be chained.
//
// # Indexes
//
// An index for field f exists only after a lookup by f. It maps every value
// of f to the records holding it; when several records share a value, the
// one at the highest position wins. Push and Replace patch existing indexes,
// Remove rebuilds them, Splice drops them.
//
// # Handles
//
// Records are copied on insertion. The only way to change a stored record is
// through its Handle, so the collection observes every write to an indexed
// field and moves the record within that index. If an index is ever found out
// of step with the records, it is dropped and rebuilt on the next lookup.
//
// # Concurrency
//
// A Collection is not safe for concurrent use. Callers sharing one across
// goroutines must guard every call, handle writes included, with their own
// mutex.
package indexarray
