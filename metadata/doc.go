// Package metadata defines the record model stored in an indexarray.Collection.
//
// A record is a Document: a map from field name to a typed Value.
//
// # Value Types
//
//   - String: metadata.String("one")
//   - Int: metadata.Int(1)
//   - Float: metadata.Float(3.14)
//   - Bool: metadata.Bool(true)
//   - Null: metadata.Null()
//   - Array: metadata.Array([]metadata.Value{...})
//
// Example:
//
//	rec := metadata.Document{
//	    "id":   metadata.Int(1),
//	    "name": metadata.String("one"),
//	}
//
// # Index Keys
//
// Value.Key returns the stable string used as the index slot for a value.
// Keys are kind-qualified, so Int(1) ("i:1") and String("1") ("s:1") never
// collide.
//
// # Adapters
//
// FromAny and DocumentFromAny convert untyped input, including decoded JSON
// numbers, into typed values. Value.Any and Document.ToMap convert back.
package metadata
