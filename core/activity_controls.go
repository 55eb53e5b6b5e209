package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

const defaultActivityPerPage = 25

type ActivityRetentionPolicy struct {
	TTL    time.Duration
	RowCap int
}

type ActivityRetentionPruner interface {
	Prune(ctx context.Context, policy ActivityRetentionPolicy) (deleted int, err error)
}

// ActivityLedger is a sink whose entries can be listed back.
type ActivityLedger interface {
	ActivitySink
	ActivityReader
}

// BufferedActivitySink writes entries to the primary ledger off the caller's
// path. When the queue is full or the primary fails, entries go to the
// fallback sink if one is set.
type BufferedActivitySink struct {
	primary  ActivityLedger
	fallback ActivitySink
	policy   ActivityRetentionPolicy
	pruner   ActivityRetentionPruner

	queue chan ActivityEntry
	now   func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewBufferedActivitySink(
	primary ActivityLedger,
	fallback ActivitySink,
	policy ActivityRetentionPolicy,
	bufferSize int,
) (*BufferedActivitySink, error) {
	if primary == nil {
		return nil, fmt.Errorf("core: primary activity ledger is required")
	}
	if bufferSize <= 0 {
		bufferSize = 128
	}

	sink := &BufferedActivitySink{
		primary:  primary,
		fallback: fallback,
		policy:   policy,
		queue:    make(chan ActivityEntry, bufferSize),
		now: func() time.Time {
			return time.Now().UTC()
		},
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	if pruner, ok := primary.(ActivityRetentionPruner); ok {
		sink.pruner = pruner
	}

	go sink.run()
	return sink, nil
}

func (s *BufferedActivitySink) Record(ctx context.Context, entry ActivityEntry) error {
	if s == nil || s.primary == nil {
		return fmt.Errorf("core: buffered activity sink is not configured")
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = s.now().UTC()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case s.queue <- entry:
		return nil
	default:
		if s.fallback != nil {
			return s.fallback.Record(ctx, entry)
		}
		return nil
	}
}

func (s *BufferedActivitySink) List(ctx context.Context, filter ActivityFilter) (ActivityPage, error) {
	if s == nil || s.primary == nil {
		return ActivityPage{}, fmt.Errorf("core: buffered activity sink is not configured")
	}
	return s.primary.List(ctx, filter)
}

func (s *BufferedActivitySink) EnforceRetention(ctx context.Context) (int, error) {
	if s == nil {
		return 0, fmt.Errorf("core: buffered activity sink is not configured")
	}
	if s.pruner == nil {
		return 0, nil
	}
	return s.pruner.Prune(ctx, s.policy)
}

// Close stops the writer after draining what is already queued.
func (s *BufferedActivitySink) Close() {
	if s == nil {
		return
	}
	s.stopOnce.Do(func() {
		close(s.stopCh)
		<-s.doneCh
	})
}

func (s *BufferedActivitySink) run() {
	defer close(s.doneCh)
	for {
		select {
		case <-s.stopCh:
			for {
				select {
				case entry := <-s.queue:
					s.write(entry)
				default:
					return
				}
			}
		case entry := <-s.queue:
			s.write(entry)
		}
	}
}

func (s *BufferedActivitySink) write(entry ActivityEntry) {
	if err := s.primary.Record(context.Background(), entry); err != nil && s.fallback != nil {
		_ = s.fallback.Record(context.Background(), entry)
	}
}

// MemoryActivityLog keeps entries in process. It backs the CLI when no
// database is configured and serves as a fallback sink.
type MemoryActivityLog struct {
	mu      sync.Mutex
	entries []ActivityEntry
	now     func() time.Time
}

func NewMemoryActivityLog() *MemoryActivityLog {
	return &MemoryActivityLog{now: func() time.Time { return time.Now().UTC() }}
}

func (l *MemoryActivityLog) Record(_ context.Context, entry ActivityEntry) error {
	if l == nil {
		return fmt.Errorf("core: memory activity log is nil")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.Metadata = cloneFields(entry.Metadata)
	l.entries = append(l.entries, entry)
	return nil
}

func (l *MemoryActivityLog) List(_ context.Context, filter ActivityFilter) (ActivityPage, error) {
	if l == nil {
		return ActivityPage{}, fmt.Errorf("core: memory activity log is nil")
	}
	l.mu.Lock()
	matched := make([]ActivityEntry, 0, len(l.entries))
	for _, entry := range l.entries {
		if activityMatches(entry, filter) {
			matched = append(matched, entry)
		}
	}
	l.mu.Unlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].OccurredAt.After(matched[j].OccurredAt)
	})
	return paginateActivity(matched, filter), nil
}

func (l *MemoryActivityLog) Prune(_ context.Context, policy ActivityRetentionPolicy) (int, error) {
	if l == nil {
		return 0, fmt.Errorf("core: memory activity log is nil")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	before := len(l.entries)
	if policy.TTL > 0 {
		cutoff := l.now().Add(-policy.TTL)
		kept := l.entries[:0]
		for _, entry := range l.entries {
			if !entry.OccurredAt.Before(cutoff) {
				kept = append(kept, entry)
			}
		}
		l.entries = kept
	}
	if policy.RowCap > 0 && len(l.entries) > policy.RowCap {
		sort.SliceStable(l.entries, func(i, j int) bool {
			return l.entries[i].OccurredAt.Before(l.entries[j].OccurredAt)
		})
		l.entries = append([]ActivityEntry(nil), l.entries[len(l.entries)-policy.RowCap:]...)
	}
	return before - len(l.entries), nil
}

func activityMatches(entry ActivityEntry, filter ActivityFilter) bool {
	if op := strings.TrimSpace(filter.Operation); op != "" && entry.Operation != op {
		return false
	}
	if filter.Status != "" && entry.Status != filter.Status {
		return false
	}
	if filter.Since != nil && entry.OccurredAt.Before(*filter.Since) {
		return false
	}
	if filter.Until != nil && entry.OccurredAt.After(*filter.Until) {
		return false
	}
	return true
}

func paginateActivity(matched []ActivityEntry, filter ActivityFilter) ActivityPage {
	page, perPage := NormalizeActivityPaging(filter)
	offset := (page - 1) * perPage
	out := ActivityPage{Items: []ActivityEntry{}, Total: len(matched), Page: page, PerPage: perPage}
	if offset < len(matched) {
		end := offset + perPage
		if end > len(matched) {
			end = len(matched)
		}
		out.Items = append(out.Items, matched[offset:end]...)
	}
	if offset+len(out.Items) < out.Total {
		out.HasMore = true
		out.NextOffset = offset + len(out.Items)
	}
	return out
}

// NormalizeActivityPaging applies page 1 and 25 per page defaults.
func NormalizeActivityPaging(filter ActivityFilter) (page int, perPage int) {
	page = filter.Page
	if page <= 0 {
		page = 1
	}
	perPage = filter.PerPage
	if perPage <= 0 {
		perPage = defaultActivityPerPage
	}
	return page, perPage
}

var (
	_ ActivityLedger          = (*BufferedActivitySink)(nil)
	_ ActivityLedger          = (*MemoryActivityLog)(nil)
	_ ActivityRetentionPruner = (*MemoryActivityLog)(nil)
)
