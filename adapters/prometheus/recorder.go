// Package prometheus exposes core.MetricsRecorder on client_golang.
package prometheus

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/goliatone/go-odoo/core"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// labelNames is the fixed label set of every vector. Tags outside it are
// dropped and missing ones are recorded as "".
var labelNames = []string{"operation", "status", "model"}

// DefaultDurationBuckets cover 5ms to roughly 10s.
var DefaultDurationBuckets = prom.ExponentialBuckets(5, 2, 12)

type Config struct {
	Registry *prom.Registry
	Buckets  []float64
}

// Recorder registers one counter or histogram vector per metric name on first
// use. Dots in names become underscores.
type Recorder struct {
	registry   *prom.Registry
	buckets    []float64
	mu         sync.Mutex
	counters   map[string]*prom.CounterVec
	histograms map[string]*prom.HistogramVec
}

func NewRecorder(cfg Config) *Recorder {
	registry := cfg.Registry
	if registry == nil {
		registry = prom.NewRegistry()
	}
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = DefaultDurationBuckets
	}
	return &Recorder{
		registry:   registry,
		buckets:    buckets,
		counters:   map[string]*prom.CounterVec{},
		histograms: map[string]*prom.HistogramVec{},
	}
}

func (r *Recorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	if r == nil || value <= 0 {
		return
	}
	vec := r.counter(name)
	if vec == nil {
		return
	}
	vec.WithLabelValues(labelValues(tags)...).Add(float64(value))
}

func (r *Recorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	if r == nil {
		return
	}
	vec := r.histogram(name)
	if vec == nil {
		return
	}
	vec.WithLabelValues(labelValues(tags)...).Observe(value)
}

func (r *Recorder) Registry() *prom.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) counter(name string) *prom.CounterVec {
	metric := MetricName(name)
	if metric == "" {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if vec, ok := r.counters[metric]; ok {
		return vec
	}
	vec := prom.NewCounterVec(prom.CounterOpts{
		Name: metric,
		Help: "Count of " + strings.TrimSpace(name) + ".",
	}, labelNames)
	if err := r.registry.Register(vec); err != nil {
		existing, ok := err.(prom.AlreadyRegisteredError)
		if !ok {
			return nil
		}
		if vec, ok = existing.ExistingCollector.(*prom.CounterVec); !ok {
			return nil
		}
	}
	r.counters[metric] = vec
	return vec
}

func (r *Recorder) histogram(name string) *prom.HistogramVec {
	metric := MetricName(name)
	if metric == "" {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if vec, ok := r.histograms[metric]; ok {
		return vec
	}
	vec := prom.NewHistogramVec(prom.HistogramOpts{
		Name:    metric,
		Help:    "Distribution of " + strings.TrimSpace(name) + ".",
		Buckets: r.buckets,
	}, labelNames)
	if err := r.registry.Register(vec); err != nil {
		existing, ok := err.(prom.AlreadyRegisteredError)
		if !ok {
			return nil
		}
		if vec, ok = existing.ExistingCollector.(*prom.HistogramVec); !ok {
			return nil
		}
	}
	r.histograms[metric] = vec
	return vec
}

// MetricName turns a dotted metric name into a valid Prometheus name.
func MetricName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	var b strings.Builder
	for i, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_', ch == ':':
			b.WriteRune(ch)
		case ch >= '0' && ch <= '9':
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(ch)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func labelValues(tags map[string]string) []string {
	values := make([]string, len(labelNames))
	for i, label := range labelNames {
		values[i] = strings.TrimSpace(tags[label])
	}
	return values
}

var _ core.MetricsRecorder = (*Recorder)(nil)
