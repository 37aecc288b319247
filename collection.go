package indexarray

import (
	"iter"
	"maps"
	"slices"
	"time"

	"github.com/hupe1980/indexarray/index"
	"github.com/hupe1980/indexarray/metadata"
)

// Collection is an ordered sequence of records with lazily built equality
// indexes over record fields.
//
// The zero value is an empty collection ready to use.
type Collection struct {
	items []*entry

	// field -> index, created on the first lookup by that field
	indexes map[string]*index.Index

	opts options
}

// New creates an empty collection.
func New(optFns ...Option) *Collection {
	return &Collection{
		indexes: make(map[string]*index.Index),
		opts:    applyOptions(optFns),
	}
}

// Of creates a collection seeded with records, in order.
func Of(records ...metadata.Document) *Collection {
	return FromRecords(records)
}

// FromRecords creates a collection seeded with records, in order.
func FromRecords(records []metadata.Document, optFns ...Option) *Collection {
	c := New(optFns...)
	c.items = make([]*entry, 0, len(records))
	for _, rec := range records {
		c.items = append(c.items, newEntry(rec, len(c.items), c))
	}
	return c
}

// FromMaps creates a collection from untyped records. It fails with an
// *ErrInvalidRecord if a field value cannot be converted.
func FromMaps(records []map[string]any, optFns ...Option) (*Collection, error) {
	docs, err := documentsFromMaps(records)
	if err != nil {
		return nil, err
	}
	return FromRecords(docs, optFns...), nil
}

func documentsFromMaps(records []map[string]any) ([]metadata.Document, error) {
	docs := make([]metadata.Document, len(records))
	for i, m := range records {
		doc, err := metadata.DocumentFromAny(m)
		if err != nil {
			return nil, &ErrInvalidRecord{Position: i, cause: err}
		}
		docs[i] = doc
	}
	return docs, nil
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.items)
}

// At returns the record at pos.
func (c *Collection) At(pos int) (*Handle, bool) {
	if pos < 0 || pos >= len(c.items) {
		return nil, false
	}
	return &Handle{e: c.items[pos]}, true
}

// Fetch returns the record selected by cr.
//
// A field criterion builds the index for that field on first use.
func (c *Collection) Fetch(cr Criterion) (*Handle, bool) {
	pos, ok := c.FetchIndex(cr)
	if !ok {
		return nil, false
	}
	return c.At(pos)
}

// FetchIndex returns the position of the record selected by cr.
func (c *Collection) FetchIndex(cr Criterion) (int, bool) {
	start := time.Now()
	pos, ok := c.resolve(cr)
	c.metrics().RecordFetch(time.Since(start), ok)
	return pos, ok
}

func (c *Collection) resolve(cr Criterion) (int, bool) {
	switch cr.kind {
	case criterionPosition:
		if cr.pos < 0 || cr.pos >= len(c.items) {
			return 0, false
		}
		return cr.pos, true
	case criterionField:
		return c.ensureIndex(cr.field).Lookup(cr.value)
	case criterionIdentity:
		for i, e := range c.items {
			if e == cr.handle.e {
				return i, true
			}
		}
		return 0, false
	case criterionRecord:
		for i, e := range c.items {
			if e.doc.Equal(cr.record) {
				return i, true
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// FetchAll returns every record whose field equals v, in sequence order.
func (c *Collection) FetchAll(field string, v metadata.Value) []*Handle {
	positions := c.ensureIndex(field).Positions(v)
	if len(positions) == 0 {
		return nil
	}
	out := make([]*Handle, len(positions))
	for i, pos := range positions {
		out[i] = &Handle{e: c.items[pos]}
	}
	return out
}

// Push appends records and returns the new length. Existing indexes are
// updated in place.
func (c *Collection) Push(records ...metadata.Document) int {
	for _, rec := range records {
		e := newEntry(rec, len(c.items), c)
		c.items = append(c.items, e)
		for field, idx := range c.indexes {
			if v, ok := e.doc[field]; ok {
				idx.Add(v, e.pos)
			}
		}
	}
	c.metrics().RecordInsert(len(records))
	return len(c.items)
}

// Add appends record and returns the collection for chaining.
func (c *Collection) Add(record metadata.Document) *Collection {
	c.Push(record)
	return c
}

// Replace overwrites the record selected by cr with record. If cr selects
// nothing the collection is left unchanged.
//
// The replaced record's handles are detached.
func (c *Collection) Replace(cr Criterion, record metadata.Document) *Collection {
	pos, ok := c.FetchIndex(cr)
	c.metrics().RecordReplace(ok)
	if !ok {
		c.logger().LogReplace(cr, -1)
		return c
	}

	old := c.items[pos]
	e := newEntry(record, pos, c)
	c.items[pos] = e

	for _, field := range c.IndexedFields() {
		idx := c.indexes[field]
		if v, had := old.doc[field]; had && !idx.Remove(v, pos) {
			c.dropIndex(field, "replaced record missing from index")
			continue
		}
		if v, ok := e.doc[field]; ok {
			idx.Add(v, pos)
		}
	}
	old.detach()

	c.logger().LogReplace(cr, pos)
	return c
}

// Remove deletes the record selected by cr, shifting later records down by
// one, and rebuilds every index. If cr selects nothing the collection is left
// unchanged.
//
// The removed record's handles are detached.
func (c *Collection) Remove(cr Criterion) *Collection {
	pos, ok := c.FetchIndex(cr)
	c.metrics().RecordRemove(ok)
	if !ok {
		c.logger().LogRemove(cr, -1)
		return c
	}

	old := c.items[pos]
	c.items = slices.Delete(c.items, pos, pos+1)
	c.renumber(pos)
	old.detach()

	c.Reindex()

	c.logger().LogRemove(cr, pos)
	return c
}

// Splice removes deleteCount records starting at start, inserts records in
// their place and returns copies of the removed records. A negative start
// counts from the end. Out-of-range arguments are clamped.
//
// Splice drops every index; each is rebuilt on its next lookup.
func (c *Collection) Splice(start, deleteCount int, records ...metadata.Document) []metadata.Document {
	n := len(c.items)
	if start < 0 {
		start = max(n+start, 0)
	}
	start = min(start, n)
	deleteCount = min(max(deleteCount, 0), n-start)

	removed := make([]metadata.Document, 0, deleteCount)
	for _, e := range c.items[start : start+deleteCount] {
		removed = append(removed, e.doc.Clone())
		e.detach()
	}

	inserted := make([]*entry, len(records))
	for i, rec := range records {
		inserted[i] = newEntry(rec, start+i, c)
	}
	c.items = slices.Replace(c.items, start, start+deleteCount, inserted...)
	c.renumber(start)

	dropped := len(c.indexes)
	clear(c.indexes)

	c.metrics().RecordSplice(deleteCount, len(records))
	c.logger().LogSplice(start, deleteCount, len(records), dropped)
	return removed
}

// Reindex rebuilds the indexes of fields, or every existing index if no field
// is given. A named field without an index gets one.
func (c *Collection) Reindex(fields ...string) {
	if len(fields) == 0 {
		fields = c.IndexedFields()
	}
	for _, field := range fields {
		c.rebuild(field)
	}
}

// Clone returns an independent copy: same records in the same order and
// equivalent indexes. Records are copied, so handles of the clone and of c
// never refer to the same record.
func (c *Collection) Clone() *Collection {
	clone := &Collection{
		items:   make([]*entry, len(c.items)),
		indexes: make(map[string]*index.Index, len(c.indexes)),
		opts:    c.opts,
	}
	for i, e := range c.items {
		clone.items[i] = newEntry(e.doc, i, clone)
	}
	for field, idx := range c.indexes {
		clone.indexes[field] = idx.Clone()
	}
	return clone
}

// ToArray returns a copy of every record, in order.
func (c *Collection) ToArray() []metadata.Document {
	out := make([]metadata.Document, len(c.items))
	for i, e := range c.items {
		out[i] = e.doc.Clone()
	}
	return out
}

// ToMaps returns every record as a plain map, in order.
func (c *Collection) ToMaps() []map[string]any {
	out := make([]map[string]any, len(c.items))
	for i, e := range c.items {
		out[i] = e.doc.ToMap()
	}
	return out
}

// All iterates over positions and records. The collection must not be
// structurally modified during iteration.
func (c *Collection) All() iter.Seq2[int, *Handle] {
	return func(yield func(int, *Handle) bool) {
		for i, e := range c.items {
			if !yield(i, &Handle{e: e}) {
				return
			}
		}
	}
}

// Map applies fn to every record in order and collects the results.
func Map[T any](c *Collection, fn func(h *Handle) T) []T {
	out := make([]T, 0, c.Len())
	for _, h := range c.All() {
		out = append(out, fn(h))
	}
	return out
}

// FlatMap applies fn to every record in order and concatenates the results.
func FlatMap[T any](c *Collection, fn func(h *Handle) []T) []T {
	var out []T
	for _, h := range c.All() {
		out = append(out, fn(h)...)
	}
	return out
}

// IndexedFields returns the fields that currently have an index, sorted.
func (c *Collection) IndexedFields() []string {
	return slices.Sorted(maps.Keys(c.indexes))
}

// IndexEntries returns the resolved position of every value in the index of
// field, keyed by metadata.Value.Key. It does not build a missing index.
func (c *Collection) IndexEntries(field string) (map[string]int, bool) {
	idx, ok := c.indexes[field]
	if !ok {
		return nil, false
	}
	return idx.Entries(), true
}

// IndexStats returns statistics for every existing index, sorted by field.
func (c *Collection) IndexStats() []index.Stats {
	out := make([]index.Stats, 0, len(c.indexes))
	for _, field := range c.IndexedFields() {
		out = append(out, c.indexes[field].GetStats())
	}
	return out
}

func (c *Collection) ensureIndex(field string) *index.Index {
	if idx, ok := c.indexes[field]; ok {
		return idx
	}
	return c.rebuild(field)
}

func (c *Collection) rebuild(field string) *index.Index {
	start := time.Now()
	idx := index.Build(field, len(c.items), func(pos int) (metadata.Value, bool) {
		v, ok := c.items[pos].doc[field]
		return v, ok
	})
	if c.indexes == nil {
		c.indexes = make(map[string]*index.Index)
	}
	c.indexes[field] = idx

	elapsed := time.Since(start)
	c.metrics().RecordReindex(field, len(c.items), elapsed)
	c.logger().LogReindex(field, len(c.items), idx.Len(), elapsed)
	return idx
}

// patchField keeps the index of field in step with a write on e.
func (c *Collection) patchField(e *entry, field string, old metadata.Value, hadOld bool, v metadata.Value, hasNew bool) {
	c.metrics().RecordMutation(field)

	idx, ok := c.indexes[field]
	if !ok {
		return
	}
	if hadOld && !idx.Remove(old, e.pos) {
		c.dropIndex(field, "previous value not found in index")
		return
	}
	if hasNew {
		idx.Add(v, e.pos)
	}
}

// dropIndex forgets the index of field; the next lookup rebuilds it.
func (c *Collection) dropIndex(field, reason string) {
	delete(c.indexes, field)
	c.metrics().RecordIndexDrop(field)
	c.logger().LogIndexDropped(field, reason)
}

func (c *Collection) renumber(from int) {
	for i := from; i < len(c.items); i++ {
		c.items[i].pos = i
	}
}

func (c *Collection) logger() *Logger {
	if c.opts.logger == nil {
		return noopLogger
	}
	return c.opts.logger
}

func (c *Collection) metrics() MetricsCollector {
	if c.opts.metricsCollector == nil {
		return NoopMetricsCollector{}
	}
	return c.opts.metricsCollector
}
