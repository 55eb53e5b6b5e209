package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-odoo/core"
	"github.com/goliatone/go-odoo/transport"
)

// MaxAttempts bounds how often an operation runs when it keeps failing
// authentication.
const MaxAttempts = 2

var authFailureMarkers = []string{"401", "unauthorized", "invalid_token", "token_expired"}

// TokenSource is the part of TokenManager the executor depends on.
type TokenSource interface {
	EnsureValid(ctx context.Context) (string, error)
	Invalidate(stale string)
}

// Operation is one transport call, receiving the headers to send.
type Operation func(ctx context.Context, headers map[string]string) (json.RawMessage, error)

type ExecutorConfig struct {
	MetricPrefix string
	Logger       glog.Logger
	Metrics      core.MetricsRecorder
}

// Executor injects the bearer token into every call and retries once after
// an authentication failure.
type Executor struct {
	tokens  TokenSource
	prefix  string
	logger  glog.Logger
	metrics core.MetricsRecorder
}

func NewExecutor(tokens TokenSource, cfg ExecutorConfig) *Executor {
	if cfg.Metrics == nil {
		cfg.Metrics = core.NopMetricsRecorder{}
	}
	if strings.TrimSpace(cfg.MetricPrefix) == "" {
		cfg.MetricPrefix = "odoo"
	}
	return &Executor{
		tokens:  tokens,
		prefix:  cfg.MetricPrefix,
		logger:  glog.Ensure(cfg.Logger),
		metrics: cfg.Metrics,
	}
}

// Execute runs op with an Authorization header. Token acquisition failures
// and non-auth failures are returned as is; an auth failure on the last
// attempt becomes a persistent authentication failure.
func (e *Executor) Execute(ctx context.Context, headers map[string]string, op Operation) (json.RawMessage, error) {
	if e == nil || e.tokens == nil {
		return nil, core.DependencyError("executor requires a token source")
	}
	if op == nil {
		return nil, core.BadInputError("executor operation is required", nil)
	}

	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		accessToken, err := e.tokens.EnsureValid(ctx)
		if err != nil {
			return nil, err
		}

		outgoing := make(map[string]string, len(headers)+1)
		for key, value := range headers {
			if strings.EqualFold(key, "Authorization") {
				continue
			}
			outgoing[key] = value
		}
		outgoing["Authorization"] = "Bearer " + accessToken

		result, err := op(ctx, outgoing)
		if err == nil {
			return result, nil
		}
		if !IsAuthFailure(err) {
			return nil, err
		}

		lastErr = err
		e.tokens.Invalidate(accessToken)
		if attempt < MaxAttempts {
			e.count("retry")
			e.logger.Warn("authentication failed, retrying with a new token", "attempt", attempt)
		}
	}

	e.count("persistent_failure")
	e.logger.Error("persistent authentication failure", "attempts", MaxAttempts)
	return nil, persistentAuthError(lastErr)
}

func (e *Executor) count(name string) {
	e.metrics.IncCounter(context.Background(), core.OperationMetricName(e.prefix, "auth."+name, "total"), 1, nil)
}

// IsAuthFailure reports a downstream rejection of the bearer token. A
// *transport.RemoteError is classified on its status and body only. Other
// rich errors are classified on their message, which never carries request
// data. Token acquisition and persistent failures are excluded so they are
// never retried.
func IsAuthFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if IsTokenAcquisitionFailure(err) || IsPersistentAuthFailure(err) {
		return false
	}
	if remote, ok := transport.AsRemoteError(err); ok {
		return remote.StatusCode == http.StatusUnauthorized || hasAuthFailureMarker(remote.Body)
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == core.ErrorUnauthorized || hasAuthFailureMarker(richErr.Message)
	}
	return hasAuthFailureMarker(err.Error())
}

func hasAuthFailureMarker(text string) bool {
	text = strings.ToLower(text)
	for _, marker := range authFailureMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func IsPersistentAuthFailure(err error) bool {
	return core.HasTextCode(err, core.ErrorPersistentAuthFailure)
}

func IsTokenAcquisitionFailure(err error) bool {
	return core.HasTextCode(err, core.ErrorTokenAcquisitionFailed)
}

func persistentAuthError(last error) error {
	var err *goerrors.Error
	if last == nil {
		err = goerrors.New("auth: persistent authentication failure", goerrors.CategoryAuth)
	} else {
		err = goerrors.Wrap(last, goerrors.CategoryAuth, "auth: persistent authentication failure")
	}
	err.Category = goerrors.CategoryAuth
	err = err.WithCode(http.StatusUnauthorized).WithTextCode(core.ErrorPersistentAuthFailure)
	metadata := map[string]any{"attempts": MaxAttempts}
	if remote, ok := transport.AsRemoteError(last); ok {
		metadata["status_code"] = remote.StatusCode
	}
	err.WithMetadata(metadata)
	return err
}
