package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

func (s *Service) observeOperation(
	ctx context.Context,
	startedAt time.Time,
	operation string,
	err error,
	fields map[string]any,
) {
	if s == nil {
		return
	}
	operation = normalizeOperation(operation)
	if operation == "" {
		operation = "unknown"
	}
	status := ActivityStatusSuccess
	if err != nil {
		status = ActivityStatusFailure
	}
	duration := s.now().Sub(startedAt)

	contextFields := cloneFields(fields)
	contextFields["event_type"] = operation
	contextFields["status"] = string(status)
	contextFields["duration_ms"] = duration.Milliseconds()
	errorCode := ""
	if err != nil {
		contextFields["error"] = err.Error()
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			errorCode = richErr.TextCode
			contextFields["error_category"] = string(richErr.Category)
			contextFields["error_text_code"] = richErr.TextCode
			if len(richErr.Metadata) > 0 {
				contextFields["error_metadata"] = RedactSensitiveMap(richErr.Metadata)
			}
		}
	}

	tags := map[string]string{
		"operation": operation,
		"status":    string(status),
	}
	if model := strings.TrimSpace(fmt.Sprint(contextFields["model"])); model != "" && model != "<nil>" {
		tags["model"] = model
	}

	prefix := s.metricPrefix()
	s.recordCounter(ctx, OperationMetricName(prefix, operation, metricSuffixTotal), 1, tags)
	s.recordHistogram(ctx, OperationMetricName(prefix, operation, metricSuffixDurationMS), float64(duration.Milliseconds()), tags)
	s.recordActivity(ctx, operation, status, duration, errorCode, err, contextFields)

	if err != nil {
		s.logError(ctx, operation+" failed", contextFields)
		return
	}
	s.logInfo(ctx, operation+" succeeded", contextFields)
}

func (s *Service) recordActivity(
	ctx context.Context,
	operation string,
	status ActivityStatus,
	duration time.Duration,
	errorCode string,
	err error,
	fields map[string]any,
) {
	if s.activitySink == nil {
		return
	}
	entry := ActivityEntry{
		ID:         uuid.NewString(),
		Operation:  operation,
		Status:     status,
		DurationMS: duration.Milliseconds(),
		ErrorCode:  errorCode,
		OccurredAt: s.now().UTC(),
	}
	if model, ok := fields["model"].(string); ok {
		entry.Model = model
	}
	if err != nil {
		entry.Error = err.Error()
	}
	metadata := map[string]any{}
	for key, value := range fields {
		switch key {
		case "event_type", "status", "duration_ms", "error", "model", "error_metadata":
			continue
		}
		metadata[key] = value
	}
	entry.Metadata = RedactSensitiveMap(metadata)

	if sinkErr := s.activitySink.Record(ctx, entry); sinkErr != nil {
		s.logWithLevel(ctx, "warn", "activity record failed", map[string]any{
			"operation": operation,
			"error":     sinkErr.Error(),
		})
	}
}

func (s *Service) metricPrefix() string {
	prefix := normalizeOperation(s.config.ServiceName)
	if prefix == "" {
		return defaultServiceName
	}
	return prefix
}

func (s *Service) logInfo(ctx context.Context, message string, fields map[string]any) {
	s.logWithLevel(ctx, "info", message, fields)
}

func (s *Service) logWarn(ctx context.Context, message string, fields map[string]any) {
	s.logWithLevel(ctx, "warn", message, fields)
}

func (s *Service) logError(ctx context.Context, message string, fields map[string]any) {
	s.logWithLevel(ctx, "error", message, fields)
}

func (s *Service) logWithLevel(ctx context.Context, level string, message string, fields map[string]any) {
	if s == nil || s.logger == nil {
		return
	}
	logger := s.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		logger.Error(message, args...)
	case "warn":
		logger.Warn(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func (s *Service) recordCounter(ctx context.Context, name string, value int64, tags map[string]string) {
	if s == nil || s.metricsRecorder == nil {
		return
	}
	s.metricsRecorder.IncCounter(ctx, strings.TrimSpace(name), value, cloneTags(tags))
}

func (s *Service) recordHistogram(ctx context.Context, name string, value float64, tags map[string]string) {
	if s == nil || s.metricsRecorder == nil {
		return
	}
	s.metricsRecorder.ObserveHistogram(ctx, strings.TrimSpace(name), value, cloneTags(tags))
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}

func normalizeOperation(operation string) string {
	operation = strings.TrimSpace(strings.ToLower(operation))
	operation = strings.ReplaceAll(operation, " ", "_")
	operation = strings.ReplaceAll(operation, "-", "_")
	return operation
}
