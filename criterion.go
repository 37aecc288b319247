package indexarray

import (
	"fmt"

	"github.com/hupe1980/indexarray/metadata"
)

type criterionKind uint8

const (
	criterionInvalid criterionKind = iota
	criterionPosition
	criterionField
	criterionIdentity
	criterionRecord
)

// Criterion selects a record for Fetch, FetchIndex, Replace and Remove.
//
// Build one with ByPosition, ByField, Where, ByIdentity or ByRecord. The zero
// Criterion resolves to nothing.
type Criterion struct {
	kind   criterionKind
	pos    int
	field  string
	value  metadata.Value
	handle *Handle
	record metadata.Document
}

// ByPosition selects the record at the zero-based position pos.
func ByPosition(pos int) Criterion {
	return Criterion{kind: criterionPosition, pos: pos}
}

// ByField selects the record whose field equals v. When several records hold
// v, the one at the highest position wins.
func ByField(field string, v metadata.Value) Criterion {
	return Criterion{kind: criterionField, field: field, value: v}
}

// Where is ByField for untyped values. A value metadata.FromAny cannot convert
// yields a criterion that resolves to nothing.
func Where(field string, v any) Criterion {
	val, err := metadata.FromAny(v)
	if err != nil {
		return Criterion{}
	}
	return ByField(field, val)
}

// ByIdentity selects the record behind h, wherever it currently sits.
func ByIdentity(h *Handle) Criterion {
	if h == nil || h.e == nil {
		return Criterion{}
	}
	return Criterion{kind: criterionIdentity, handle: h}
}

// ByRecord selects the first record equal to doc (see metadata.Document.Equal).
func ByRecord(doc metadata.Document) Criterion {
	return Criterion{kind: criterionRecord, record: doc}
}

// String returns a short description for logs.
func (c Criterion) String() string {
	switch c.kind {
	case criterionPosition:
		return fmt.Sprintf("position(%d)", c.pos)
	case criterionField:
		return fmt.Sprintf("field(%s=%s)", c.field, c.value.Key())
	case criterionIdentity:
		return "identity"
	case criterionRecord:
		return "record"
	default:
		return "invalid"
	}
}
