package testutil

import (
	"math"
	"math/rand"
	"strconv"
	"sync"

	"github.com/hupe1980/indexarray/metadata"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
// s=1.0 gives standard Zipf, s=1.5 gives heavy-tail (80/20 rule).
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	// Normalization constant (harmonic number with exponent s)
	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	// Inverse transform
	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1 // 0-indexed
		}
	}

	return n - 1
}

// DocumentSpec describes the records generated by Documents.
type DocumentSpec struct {
	// Fields are the field names to populate.
	Fields []string
	// Cardinality is the number of distinct values per field. Small values
	// produce many duplicates.
	Cardinality int
	// MissingRate is the probability that a field is left undefined.
	MissingRate float64
	// Skew, if > 0, draws values from a Zipf distribution with this exponent
	// instead of uniformly.
	Skew float64
}

// Document generates one record following spec. Even-indexed fields hold
// Int values, odd-indexed fields hold String values.
func (r *RNG) Document(spec DocumentSpec) metadata.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.documentLocked(spec)
}

// Documents generates n records following spec.
func (r *RNG) Documents(n int, spec DocumentSpec) []metadata.Document {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs := make([]metadata.Document, n)
	for i := range n {
		docs[i] = r.documentLocked(spec)
	}
	return docs
}

func (r *RNG) documentLocked(spec DocumentSpec) metadata.Document {
	cardinality := max(spec.Cardinality, 1)

	doc := make(metadata.Document, len(spec.Fields))
	for i, field := range spec.Fields {
		if r.rand.Float64() < spec.MissingRate {
			continue
		}

		var k int
		if spec.Skew > 0 {
			k = r.zipfLocked(cardinality, spec.Skew)
		} else {
			k = r.rand.Intn(cardinality)
		}

		if i%2 == 0 {
			doc[field] = metadata.Int(int64(k))
		} else {
			doc[field] = metadata.String(field + "-" + strconv.Itoa(k))
		}
	}
	return doc
}

// ExpectedEntries computes by brute force the index of field over docs:
// value key -> position of the last record holding it.
func ExpectedEntries(docs []metadata.Document, field string) map[string]int {
	want := make(map[string]int)
	for pos, doc := range docs {
		if v, ok := doc[field]; ok {
			want[v.Key()] = pos
		}
	}
	return want
}
