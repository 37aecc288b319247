package indexarray

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordFetch is called after each lookup. found reports whether the
	// criterion resolved to a record.
	RecordFetch(duration time.Duration, found bool)

	// RecordInsert is called after each push with the number of records appended.
	RecordInsert(count int)

	// RecordReplace is called after each replace. applied is false for a no-op.
	RecordReplace(applied bool)

	// RecordRemove is called after each remove. applied is false for a no-op.
	RecordRemove(applied bool)

	// RecordSplice is called after each splice.
	RecordSplice(removed, inserted int)

	// RecordReindex is called after an index is built from the records.
	RecordReindex(field string, records int, duration time.Duration)

	// RecordIndexDrop is called when an index is discarded because it no
	// longer matches the records.
	RecordIndexDrop(field string)

	// RecordMutation is called for each field write through a handle of an
	// owned record.
	RecordMutation(field string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFetch(time.Duration, bool) {}
func (NoopMetricsCollector) RecordInsert(int) {}
func (NoopMetricsCollector) RecordReplace(bool) {}
func (NoopMetricsCollector) RecordRemove(bool) {}
func (NoopMetricsCollector) RecordSplice(int, int) {}
func (NoopMetricsCollector) RecordReindex(string, int, time.Duration) {}
func (NoopMetricsCollector) RecordIndexDrop(string) {}
func (NoopMetricsCollector) RecordMutation(string) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FetchCount      atomic.Int64
	FetchMisses     atomic.Int64
	FetchTotalNanos atomic.Int64
	InsertCount     atomic.Int64
	InsertItems     atomic.Int64
	ReplaceCount    atomic.Int64
	ReplaceNoops    atomic.Int64
	RemoveCount     atomic.Int64
	RemoveNoops     atomic.Int64
	SpliceCount     atomic.Int64
	ReindexCount    atomic.Int64
	ReindexRecords  atomic.Int64
	ReindexNanos    atomic.Int64
	IndexDrops      atomic.Int64
	MutationCount   atomic.Int64
}

// RecordFetch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFetch(duration time.Duration, found bool) {
	b.FetchCount.Add(1)
	b.FetchTotalNanos.Add(duration.Nanoseconds())
	if !found {
		b.FetchMisses.Add(1)
	}
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(count int) {
	b.InsertCount.Add(1)
	b.InsertItems.Add(int64(count))
}

// RecordReplace implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReplace(applied bool) {
	b.ReplaceCount.Add(1)
	if !applied {
		b.ReplaceNoops.Add(1)
	}
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(applied bool) {
	b.RemoveCount.Add(1)
	if !applied {
		b.RemoveNoops.Add(1)
	}
}

// RecordSplice implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSplice(removed, inserted int) {
	b.SpliceCount.Add(1)
}

// RecordReindex implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReindex(field string, records int, duration time.Duration) {
	b.ReindexCount.Add(1)
	b.ReindexRecords.Add(int64(records))
	b.ReindexNanos.Add(duration.Nanoseconds())
}

// RecordIndexDrop implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIndexDrop(field string) {
	b.IndexDrops.Add(1)
}

// RecordMutation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMutation(field string) {
	b.MutationCount.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		FetchCount:     b.FetchCount.Load(),
		FetchMisses:    b.FetchMisses.Load(),
		FetchAvgNanos:  b.getAvgFetchNanos(),
		InsertCount:    b.InsertCount.Load(),
		InsertItems:    b.InsertItems.Load(),
		ReplaceCount:   b.ReplaceCount.Load(),
		ReplaceNoops:   b.ReplaceNoops.Load(),
		RemoveCount:    b.RemoveCount.Load(),
		RemoveNoops:    b.RemoveNoops.Load(),
		SpliceCount:    b.SpliceCount.Load(),
		ReindexCount:   b.ReindexCount.Load(),
		ReindexRecords: b.ReindexRecords.Load(),
		IndexDrops:     b.IndexDrops.Load(),
		MutationCount:  b.MutationCount.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgFetchNanos() int64 {
	count := b.FetchCount.Load()
	if count == 0 {
		return 0
	}
	return b.FetchTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	FetchCount     int64
	FetchMisses    int64
	FetchAvgNanos  int64
	InsertCount    int64
	InsertItems    int64
	ReplaceCount   int64
	ReplaceNoops   int64
	RemoveCount    int64
	RemoveNoops    int64
	SpliceCount    int64
	ReindexCount   int64
	ReindexRecords int64
	IndexDrops     int64
	MutationCount  int64
}
