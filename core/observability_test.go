package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type capturedCounter struct {
	name  string
	value int64
	tags  map[string]string
}

type capturedHistogram struct {
	name  string
	value float64
	tags  map[string]string
}

type captureMetricsRecorder struct {
	mu         sync.Mutex
	counters   []capturedCounter
	histograms []capturedHistogram
}

func (m *captureMetricsRecorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = append(m.counters, capturedCounter{name: name, value: value, tags: cloneTags(tags)})
}

func (m *captureMetricsRecorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histograms = append(m.histograms, capturedHistogram{name: name, value: value, tags: cloneTags(tags)})
}

type capturedLog struct {
	level  string
	msg    string
	fields map[string]any
}

type captureLogger struct {
	mu       *sync.Mutex
	records  *[]capturedLog
	defaults map[string]any
}

func newCaptureLogger() *captureLogger {
	records := []capturedLog{}
	return &captureLogger{mu: &sync.Mutex{}, records: &records, defaults: map[string]any{}}
}

func (l *captureLogger) WithFields(fields map[string]any) Logger {
	merged := cloneFields(l.defaults)
	for key, value := range fields {
		merged[key] = value
	}
	return &captureLogger{mu: l.mu, records: l.records, defaults: merged}
}

func (l *captureLogger) Trace(msg string, args ...any) { l.record("trace", msg, args...) }
func (l *captureLogger) Debug(msg string, args ...any) { l.record("debug", msg, args...) }
func (l *captureLogger) Info(msg string, args ...any)  { l.record("info", msg, args...) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args...) }
func (l *captureLogger) Error(msg string, args ...any) { l.record("error", msg, args...) }
func (l *captureLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args...) }

func (l *captureLogger) WithContext(context.Context) Logger {
	return &captureLogger{mu: l.mu, records: l.records, defaults: cloneFields(l.defaults)}
}

func (l *captureLogger) record(level string, msg string, args ...any) {
	fields := cloneFields(l.defaults)
	for index := 0; index+1 < len(args); index += 2 {
		key, ok := args[index].(string)
		if !ok {
			continue
		}
		fields[key] = args[index+1]
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.records = append(*l.records, capturedLog{level: level, msg: msg, fields: fields})
}

func (l *captureLogger) snapshot() []capturedLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := *l.records
	out := make([]capturedLog, len(items))
	copy(out, items)
	return out
}

func TestServiceObservability_SearchSuccess(t *testing.T) {
	metrics := &captureMetricsRecorder{}
	logger := newCaptureLogger()
	sink := &memoryActivitySink{}
	store := newStubRecordStore().on(partnerModel, records(Record{"id": float64(1)}))
	svc, err := newTestService(store,
		WithMetricsRecorder(metrics),
		WithLoggerProvider(stubLoggerProvider{logger: logger}),
		WithLogger(logger),
		WithActivitySink(sink),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := svc.GetPartner(context.Background(), PartnerByID{ID: 1}); err != nil {
		t.Fatalf("get partner: %v", err)
	}

	if !hasCounter(metrics.counters, "odoo.get_partner.total", "success") {
		t.Fatalf("expected odoo.get_partner.total success counter")
	}
	if !hasHistogram(metrics.histograms, "odoo.get_partner.duration_ms", "success") {
		t.Fatalf("expected odoo.get_partner.duration_ms histogram")
	}
	if !hasLog(logger.snapshot(), "info", "get_partner succeeded", "get_partner") {
		t.Fatalf("expected get_partner succeeded structured log")
	}
	entries := sink.snapshot()
	if len(entries) != 1 {
		t.Fatalf("expected one activity entry, got %d", len(entries))
	}
	if entries[0].Operation != "get_partner" || entries[0].Model != partnerModel || entries[0].Status != ActivityStatusSuccess {
		t.Fatalf("unexpected activity entry %#v", entries[0])
	}
	if entries[0].ID == "" {
		t.Fatalf("expected activity id")
	}
}

func TestServiceObservability_EnrichesStructuredErrorFields(t *testing.T) {
	metrics := &captureMetricsRecorder{}
	logger := newCaptureLogger()
	sink := &memoryActivitySink{}
	svc, err := newTestService(newStubRecordStore(),
		WithMetricsRecorder(metrics),
		WithLoggerProvider(stubLoggerProvider{logger: logger}),
		WithLogger(logger),
		WithActivitySink(sink),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	richErr := goerrors.New("remote timeout", goerrors.CategoryExternal).
		WithCode(502).
		WithTextCode(ErrorRemoteFailure).
		WithMetadata(map[string]any{
			"request_id":    "req_123",
			"access_token":  "secret-token",
			"client_secret": "secret",
		})
	svc.observeOperation(
		context.Background(),
		time.Now().UTC().Add(-100*time.Millisecond),
		"search",
		richErr,
		map[string]any{"model": "res.partner"},
	)

	if !hasCounter(metrics.counters, "odoo.search.total", "failure") {
		t.Fatalf("expected failure counter")
	}
	records := logger.snapshot()
	if len(records) == 0 {
		t.Fatalf("expected logs to be emitted")
	}
	last := records[len(records)-1]
	if last.level != "error" {
		t.Fatalf("expected error level, got %q", last.level)
	}
	if last.fields["error_category"] != string(goerrors.CategoryExternal) {
		t.Fatalf("expected external category, got %#v", last.fields["error_category"])
	}
	if last.fields["error_text_code"] != ErrorRemoteFailure {
		t.Fatalf("expected error_text_code %q, got %#v", ErrorRemoteFailure, last.fields["error_text_code"])
	}
	metadata, ok := last.fields["error_metadata"].(map[string]any)
	if !ok {
		t.Fatalf("expected redacted error_metadata map, got %#v", last.fields["error_metadata"])
	}
	if metadata["access_token"] != RedactedValue || metadata["client_secret"] != RedactedValue {
		t.Fatalf("expected secrets redacted, got %#v", metadata)
	}
	if metadata["request_id"] != "req_123" {
		t.Fatalf("expected request_id kept, got %#v", metadata["request_id"])
	}

	entries := sink.snapshot()
	if len(entries) != 1 || entries[0].ErrorCode != ErrorRemoteFailure {
		t.Fatalf("expected failure activity with text code, got %#v", entries)
	}
}

func TestServiceObservability_ActivitySinkFailureIsLogged(t *testing.T) {
	logger := newCaptureLogger()
	sink := &memoryActivitySink{err: errors.New("ledger offline")}
	svc, err := newTestService(newStubRecordStore(),
		WithLoggerProvider(stubLoggerProvider{logger: logger}),
		WithLogger(logger),
		WithActivitySink(sink),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := svc.ListProducts(context.Background()); err != nil {
		t.Fatalf("list products: %v", err)
	}
	found := false
	for _, record := range logger.snapshot() {
		if record.level == "warn" && record.msg == "activity record failed" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected activity failure warning")
	}
}

func TestService_ListActivityReadsSink(t *testing.T) {
	sink := &memoryActivitySink{}
	svc, err := newTestService(newStubRecordStore(), WithActivitySink(sink))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := svc.HelpdeskTickets(context.Background(), 4); err != nil {
		t.Fatalf("helpdesk tickets: %v", err)
	}
	page, err := svc.ListActivity(context.Background(), ActivityFilter{Operation: "helpdesk_tickets"})
	if err != nil {
		t.Fatalf("list activity: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected one entry, got %d", page.Total)
	}

	bare, err := newTestService(newStubRecordStore())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := bare.ListActivity(context.Background(), ActivityFilter{}); !HasTextCode(err, ErrorDependencyNotConfigured) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func hasCounter(items []capturedCounter, name string, status string) bool {
	for _, item := range items {
		if item.name == name && item.tags["status"] == status {
			return true
		}
	}
	return false
}

func hasHistogram(items []capturedHistogram, name string, status string) bool {
	for _, item := range items {
		if item.name == name && item.tags["status"] == status {
			return true
		}
	}
	return false
}

func hasLog(items []capturedLog, level string, message string, eventType string) bool {
	for _, item := range items {
		if item.level != level {
			continue
		}
		if item.msg != message {
			continue
		}
		if item.fields["event_type"] == eventType {
			return true
		}
	}
	return false
}
