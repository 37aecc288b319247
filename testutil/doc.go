// Package testutil provides testing utilities for indexarray.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random records with duplicate-heavy
// and missing field values, and a brute-force reference for index contents.
//
// # Random Records
//
//	rng := testutil.NewRNG(seed)
//	docs := rng.Documents(100, testutil.DocumentSpec{
//	    Fields:      []string{"id", "name"},
//	    Cardinality: 10,
//	    MissingRate: 0.2,
//	})
//
// # Ground Truth
//
//	want := testutil.ExpectedEntries(docs, "id")
package testutil
