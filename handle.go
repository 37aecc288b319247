package indexarray

import (
	"github.com/hupe1980/indexarray/metadata"
)

// entry is a record owned by a collection.
type entry struct {
	doc   metadata.Document
	pos   int
	owner *Collection // nil once replaced or removed
}

func newEntry(doc metadata.Document, pos int, owner *Collection) *entry {
	doc = doc.Clone()
	if doc == nil {
		doc = metadata.Document{}
	}
	return &entry{doc: doc, pos: pos, owner: owner}
}

func (e *entry) detach() {
	e.owner = nil
	e.pos = -1
}

// set writes the field and lets the owner patch its index. The write lands
// whatever the index outcome.
func (e *entry) set(field string, v metadata.Value) {
	v = v.Clone()
	old, hadOld := e.doc[field]
	e.doc[field] = v
	if e.owner != nil {
		e.owner.patchField(e, field, old, hadOld, v, true)
	}
}

func (e *entry) unset(field string) {
	old, hadOld := e.doc[field]
	if !hadOld {
		return
	}
	delete(e.doc, field)
	if e.owner != nil {
		e.owner.patchField(e, field, old, true, metadata.Value{}, false)
	}
}

// Handle is the access path to a record stored in a Collection.
//
// Reads and writes go through the handle so the collection sees every change
// to an indexed field and keeps its index in step. Once the record is
// replaced or removed the handle is detached: it still reads and writes the
// record, which no longer belongs to any collection.
//
// Two handles refer to the same record iff Same reports true.
type Handle struct {
	e *entry
}

// Get returns the value of field.
func (h *Handle) Get(field string) (metadata.Value, bool) {
	v, ok := h.e.doc[field]
	return v, ok
}

// Record returns a copy of the record.
func (h *Handle) Record() metadata.Document {
	return h.e.doc.Clone()
}

// Position returns the current position of the record, or -1 if detached.
func (h *Handle) Position() int {
	return h.e.pos
}

// Attached reports whether the record is still owned by a collection.
func (h *Handle) Attached() bool {
	return h.e.owner != nil
}

// Same reports whether h and other refer to the same record.
func (h *Handle) Same(other *Handle) bool {
	return other != nil && h.e == other.e
}

// Set assigns field. If the field is indexed, the index follows.
func (h *Handle) Set(field string, v metadata.Value) *Handle {
	h.e.set(field, v)
	return h
}

// SetAny is Set for untyped values. It fails only if v cannot be converted,
// in which case nothing is written.
func (h *Handle) SetAny(field string, v any) error {
	val, err := metadata.FromAny(v)
	if err != nil {
		return err
	}
	h.e.set(field, val)
	return nil
}

// Unset removes field from the record.
func (h *Handle) Unset(field string) *Handle {
	h.e.unset(field)
	return h
}

// Update assigns every field of fields.
func (h *Handle) Update(fields metadata.Document) *Handle {
	for field, v := range fields {
		h.e.set(field, v)
	}
	return h
}
