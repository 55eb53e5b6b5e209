package core

import (
	"context"
	"strings"
)

const (
	metricSuffixTotal      = "total"
	metricSuffixDurationMS = "duration_ms"
)

// NopMetricsRecorder drops every sample.
type NopMetricsRecorder struct{}

func (NopMetricsRecorder) IncCounter(context.Context, string, int64, map[string]string) {}

func (NopMetricsRecorder) ObserveHistogram(context.Context, string, float64, map[string]string) {}

// OperationMetricName joins prefix, operation and suffix with dots, e.g.
// odoo.get_partner.total. Empty parts are skipped.
func OperationMetricName(prefix string, operation string, suffix string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{prefix, operation, suffix} {
		if part = strings.Trim(strings.TrimSpace(part), "."); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ".")
}

func cloneTags(tags map[string]string) map[string]string {
	if len(tags) == 0 {
		return map[string]string{}
	}
	copied := make(map[string]string, len(tags))
	for key, value := range tags {
		copied[key] = value
	}
	return copied
}

var _ MetricsRecorder = NopMetricsRecorder{}
