package core

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type searchCall struct {
	req SearchRequest
}

// stubRecordStore answers searches through a per-model handler and records
// every call.
type stubRecordStore struct {
	mu       sync.Mutex
	handlers map[string]func(SearchRequest) ([]Record, error)
	searches []searchCall
	creates  []CreateRequest
	createFn func(CreateRequest) (Record, error)
	reportFn func(ReportRequest) ([]byte, error)
	reports  []ReportRequest
}

func newStubRecordStore() *stubRecordStore {
	return &stubRecordStore{handlers: map[string]func(SearchRequest) ([]Record, error){}}
}

func (s *stubRecordStore) on(model string, handler func(SearchRequest) ([]Record, error)) *stubRecordStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[model] = handler
	return s
}

func (s *stubRecordStore) Search(_ context.Context, req SearchRequest) ([]Record, error) {
	s.mu.Lock()
	s.searches = append(s.searches, searchCall{req: req})
	handler := s.handlers[req.Model]
	s.mu.Unlock()
	if handler == nil {
		return []Record{}, nil
	}
	return handler(req)
}

func (s *stubRecordStore) Create(_ context.Context, req CreateRequest) (Record, error) {
	s.mu.Lock()
	s.creates = append(s.creates, req)
	createFn := s.createFn
	s.mu.Unlock()
	if createFn == nil {
		return Record{"id": float64(len(s.creates))}, nil
	}
	return createFn(req)
}

func (s *stubRecordStore) Report(_ context.Context, req ReportRequest) ([]byte, error) {
	s.mu.Lock()
	s.reports = append(s.reports, req)
	reportFn := s.reportFn
	s.mu.Unlock()
	if reportFn == nil {
		return nil, fmt.Errorf("stub: no report")
	}
	return reportFn(req)
}

func (s *stubRecordStore) searchCalls(model string) []SearchRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []SearchRequest{}
	for _, call := range s.searches {
		if model == "" || call.req.Model == model {
			out = append(out, call.req)
		}
	}
	return out
}

func (s *stubRecordStore) createCalls() []CreateRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]CreateRequest(nil), s.creates...)
}

type stubLogger struct{}

func (stubLogger) Trace(string, ...any) {}
func (stubLogger) Debug(string, ...any) {}
func (stubLogger) Info(string, ...any)  {}
func (stubLogger) Warn(string, ...any)  {}
func (stubLogger) Error(string, ...any) {}
func (stubLogger) Fatal(string, ...any) {}

func (l stubLogger) WithContext(context.Context) Logger { return l }

type stubLoggerProvider struct {
	logger Logger
}

func (s stubLoggerProvider) GetLogger(string) Logger {
	return s.logger
}

type mapRawLoader struct {
	values map[string]any
}

func (l mapRawLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.values))
	for key, value := range l.values {
		out[key] = value
	}
	return out, nil
}

type memoryActivitySink struct {
	mu      sync.Mutex
	entries []ActivityEntry
	err     error
}

func (m *memoryActivitySink) Record(_ context.Context, entry ActivityEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryActivitySink) List(_ context.Context, filter ActivityFilter) (ActivityPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := []ActivityEntry{}
	for _, entry := range m.entries {
		if filter.Operation != "" && entry.Operation != filter.Operation {
			continue
		}
		items = append(items, entry)
	}
	return ActivityPage{Items: items, Total: len(items)}, nil
}

func (m *memoryActivitySink) snapshot() []ActivityEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ActivityEntry(nil), m.entries...)
}

func newTestService(store RecordStore, opts ...Option) (*Service, error) {
	return newTestServiceWithConfig(Config{BaseURL: "https://erp.example.com"}, store, opts...)
}

func newTestServiceWithConfig(cfg Config, store RecordStore, opts ...Option) (*Service, error) {
	base := []Option{
		WithRecordStore(store),
		WithLogger(stubLogger{}),
		WithLoggerProvider(stubLoggerProvider{logger: stubLogger{}}),
		WithClock(func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }),
		WithAccessTokenGenerator(func() string { return "portal-token" }),
	}
	return NewService(cfg, append(base, opts...)...)
}

func records(items ...Record) func(SearchRequest) ([]Record, error) {
	return func(SearchRequest) ([]Record, error) {
		return items, nil
	}
}

func failing(err error) func(SearchRequest) ([]Record, error) {
	return func(SearchRequest) ([]Record, error) {
		return nil, err
	}
}
