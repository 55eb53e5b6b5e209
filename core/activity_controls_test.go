package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestBufferedActivitySink_NonBlockingFallbackWhenQueueIsFull(t *testing.T) {
	primary := &blockingActivityLedger{block: make(chan struct{})}
	fallback := &capturingActivityLedger{}
	sink, err := NewBufferedActivitySink(primary, fallback, ActivityRetentionPolicy{}, 1)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	defer func() {
		close(primary.block)
		sink.Close()
	}()

	if err := sink.Record(context.Background(), ActivityEntry{ID: "a", Operation: "get_partner"}); err != nil {
		t.Fatalf("record first: %v", err)
	}

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := sink.Record(context.Background(), ActivityEntry{ID: "b", Operation: "get_partner"}); err != nil {
			t.Fatalf("record overflow entry: %v", err)
		}
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Fatalf("expected non-blocking fallback write")
	}
	if fallback.count() == 0 {
		t.Fatalf("expected fallback ledger to capture saturated writes")
	}
}

func TestBufferedActivitySink_FallbackOnPrimaryError(t *testing.T) {
	fallback := &capturingActivityLedger{}
	sink, err := NewBufferedActivitySink(failingActivityLedger{}, fallback, ActivityRetentionPolicy{}, 4)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	if err := sink.Record(context.Background(), ActivityEntry{ID: "x", Operation: "create_lead"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	sink.Close()

	if fallback.count() != 1 {
		t.Fatalf("expected fallback write after primary failure, got %d", fallback.count())
	}
}

func TestBufferedActivitySink_CloseDrainsQueue(t *testing.T) {
	primary := NewMemoryActivityLog()
	sink, err := NewBufferedActivitySink(primary, nil, ActivityRetentionPolicy{}, 16)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := sink.Record(context.Background(), ActivityEntry{Operation: "list_products"}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	sink.Close()

	page, err := sink.List(context.Background(), ActivityFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 5 {
		t.Fatalf("expected 5 drained entries, got %d", page.Total)
	}
}

func TestBufferedActivitySink_EnforceRetention(t *testing.T) {
	log := NewMemoryActivityLog()
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	log.now = func() time.Time { return now }
	for _, age := range []time.Duration{time.Hour, 48 * time.Hour, 72 * time.Hour} {
		_ = log.Record(context.Background(), ActivityEntry{Operation: "search", OccurredAt: now.Add(-age)})
	}
	sink, err := NewBufferedActivitySink(log, nil, ActivityRetentionPolicy{TTL: 24 * time.Hour}, 4)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	defer sink.Close()

	deleted, err := sink.EnforceRetention(context.Background())
	if err != nil {
		t.Fatalf("enforce retention: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 pruned entries, got %d", deleted)
	}
}

func TestMemoryActivityLog_FiltersAndPaginatesNewestFirst(t *testing.T) {
	log := NewMemoryActivityLog()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		status := ActivityStatusSuccess
		if i == 3 {
			status = ActivityStatusFailure
		}
		_ = log.Record(context.Background(), ActivityEntry{
			ID:         string(rune('a' + i)),
			Operation:  "get_sale_orders",
			Status:     status,
			OccurredAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	_ = log.Record(context.Background(), ActivityEntry{ID: "z", Operation: "get_partner", OccurredAt: base})

	page, err := log.List(context.Background(), ActivityFilter{
		Operation: "get_sale_orders",
		Status:    ActivityStatusSuccess,
		PerPage:   2,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 2 {
		t.Fatalf("unexpected page shape: %#v", page)
	}
	if page.Items[0].ID != "c" || page.Items[1].ID != "b" {
		t.Fatalf("expected newest first, got %s %s", page.Items[0].ID, page.Items[1].ID)
	}
	if !page.HasMore || page.NextOffset != 2 {
		t.Fatalf("expected next offset 2, got %#v", page)
	}

	since := base.Add(2 * time.Minute)
	page, err = log.List(context.Background(), ActivityFilter{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 entries since cutoff, got %d", page.Total)
	}
}

func TestMemoryActivityLog_PruneRowCapKeepsNewest(t *testing.T) {
	log := NewMemoryActivityLog()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_ = log.Record(context.Background(), ActivityEntry{
			ID:         string(rune('a' + i)),
			OccurredAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	deleted, err := log.Prune(context.Background(), ActivityRetentionPolicy{RowCap: 2})
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("expected 3 deleted, got %d", deleted)
	}
	page, _ := log.List(context.Background(), ActivityFilter{})
	if page.Total != 2 || page.Items[0].ID != "e" || page.Items[1].ID != "d" {
		t.Fatalf("expected newest entries kept, got %#v", page.Items)
	}
}

type blockingActivityLedger struct {
	block chan struct{}
}

func (s *blockingActivityLedger) Record(context.Context, ActivityEntry) error {
	<-s.block
	return nil
}

func (s *blockingActivityLedger) List(context.Context, ActivityFilter) (ActivityPage, error) {
	return ActivityPage{}, nil
}

type failingActivityLedger struct{}

func (failingActivityLedger) Record(context.Context, ActivityEntry) error {
	return errors.New("primary write failed")
}

func (failingActivityLedger) List(context.Context, ActivityFilter) (ActivityPage, error) {
	return ActivityPage{}, nil
}

type capturingActivityLedger struct {
	mu      sync.Mutex
	entries []ActivityEntry
}

func (s *capturingActivityLedger) Record(_ context.Context, entry ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *capturingActivityLedger) List(context.Context, ActivityFilter) (ActivityPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := append([]ActivityEntry(nil), s.entries...)
	return ActivityPage{Items: items, Total: len(items)}, nil
}

func (s *capturingActivityLedger) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

var (
	_ ActivityLedger = (*blockingActivityLedger)(nil)
	_ ActivityLedger = failingActivityLedger{}
	_ ActivityLedger = (*capturingActivityLedger)(nil)
)
