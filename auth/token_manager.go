package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-odoo/core"
	"github.com/goliatone/go-odoo/transport"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultRenewBuffer is how long before expiry a token is renewed.
	DefaultRenewBuffer = 300 * time.Second
	// DefaultTokenLifetime applies when the endpoint omits expires_in.
	DefaultTokenLifetime = 3600 * time.Second

	refreshKey = "token"
)

// Credentials are the client-credentials grant inputs. They do not change
// for the lifetime of a manager.
type Credentials struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// FormPoster is the transport primitive used against the token endpoint.
type FormPoster interface {
	PostForm(ctx context.Context, rawURL string, headers map[string]string, form url.Values) (json.RawMessage, error)
}

type TokenManagerConfig struct {
	Credentials     Credentials
	RenewBuffer     time.Duration
	DefaultLifetime time.Duration
	MetricPrefix    string
	Now             func() time.Time
	Logger          glog.Logger
	Metrics         core.MetricsRecorder
}

type token struct {
	accessToken string
	issuedAt    time.Time
	expiresAt   time.Time
}

// TokenManager owns the bearer token. Renewal is lazy and serialized so
// concurrent callers that find the token expired share one exchange.
type TokenManager struct {
	config  TokenManagerConfig
	poster  FormPoster
	mu      sync.RWMutex
	current token
	flight  singleflight.Group
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   json.Number `json:"expires_in"`
}

func NewTokenManager(poster FormPoster, cfg TokenManagerConfig) *TokenManager {
	if cfg.RenewBuffer <= 0 {
		cfg.RenewBuffer = DefaultRenewBuffer
	}
	if cfg.DefaultLifetime <= 0 {
		cfg.DefaultLifetime = DefaultTokenLifetime
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	if cfg.Metrics == nil {
		cfg.Metrics = core.NopMetricsRecorder{}
	}
	if strings.TrimSpace(cfg.MetricPrefix) == "" {
		cfg.MetricPrefix = "odoo"
	}
	cfg.Logger = glog.Ensure(cfg.Logger)
	cfg.Credentials = Credentials{
		ClientID:     strings.TrimSpace(cfg.Credentials.ClientID),
		ClientSecret: strings.TrimSpace(cfg.Credentials.ClientSecret),
		TokenURL:     strings.TrimSpace(cfg.Credentials.TokenURL),
	}
	return &TokenManager{config: cfg, poster: poster}
}

// IsExpired is true when no token is held or when it expires within the
// renew buffer.
func (m *TokenManager) IsExpired() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.expiredLocked()
}

func (m *TokenManager) expiredLocked() bool {
	if m.current.accessToken == "" {
		return true
	}
	return !m.config.Now().Add(m.config.RenewBuffer).Before(m.current.expiresAt)
}

// EnsureValid returns a usable access token, exchanging credentials first
// when the held one is missing or about to expire.
func (m *TokenManager) EnsureValid(ctx context.Context) (string, error) {
	if m == nil {
		return "", core.DependencyError("token manager is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	m.mu.RLock()
	if !m.expiredLocked() {
		accessToken := m.current.accessToken
		m.mu.RUnlock()
		return accessToken, nil
	}
	m.mu.RUnlock()

	results := m.flight.DoChan(refreshKey, func() (any, error) {
		return m.refresh(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case result := <-results:
		if result.Err != nil {
			return "", result.Err
		}
		return result.Val.(string), nil
	}
}

// Invalidate drops the held token when it still equals stale, so a caller
// reporting an old token cannot discard one that was renewed meanwhile. An
// empty stale value always clears.
func (m *TokenManager) Invalidate(stale string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if stale != "" && m.current.accessToken != stale {
		return
	}
	m.current = token{}
}

// ExpiresAt reports the expiry of the held token, zero when none is held.
func (m *TokenManager) ExpiresAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.expiresAt
}

func (m *TokenManager) refresh(ctx context.Context) (string, error) {
	m.mu.RLock()
	if !m.expiredLocked() {
		accessToken := m.current.accessToken
		m.mu.RUnlock()
		return accessToken, nil
	}
	m.mu.RUnlock()

	issued, err := m.exchange(ctx)
	if err != nil {
		m.count("token_refresh", "failure")
		m.config.Logger.Error("access token acquisition failed", "token_url", m.config.Credentials.TokenURL, "error", err.Error())
		return "", err
	}

	m.mu.Lock()
	m.current = issued
	m.mu.Unlock()

	m.count("token_refresh", "success")
	m.config.Logger.Info("access token acquired",
		"token_url", m.config.Credentials.TokenURL,
		"expires_at", issued.expiresAt.Format(time.RFC3339),
	)
	return issued.accessToken, nil
}

func (m *TokenManager) exchange(ctx context.Context) (token, error) {
	creds := m.config.Credentials
	if m.poster == nil {
		return token{}, core.DependencyError("token manager requires a transport")
	}
	if creds.ClientID == "" || creds.ClientSecret == "" || creds.TokenURL == "" {
		return token{}, tokenAcquisitionError(nil, "auth: client id, client secret and token url are required", nil)
	}

	issuedAt := m.config.Now()
	body, err := m.poster.PostForm(ctx, creds.TokenURL,
		map[string]string{"Authorization": transport.BasicAuthorization(creds.ClientID, creds.ClientSecret)},
		url.Values{"grant_type": {"client_credentials"}},
	)
	if err != nil {
		metadata := map[string]any{"token_url": creds.TokenURL}
		if remote, ok := transport.AsRemoteError(err); ok {
			metadata["status_code"] = remote.StatusCode
		}
		return token{}, tokenAcquisitionError(err, "auth: token endpoint request failed", metadata)
	}

	var payload tokenResponse
	decoder := json.NewDecoder(strings.NewReader(string(body)))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return token{}, tokenAcquisitionError(err, "auth: token endpoint returned an unreadable body", nil)
	}
	if strings.TrimSpace(payload.AccessToken) == "" {
		return token{}, tokenAcquisitionError(nil, "auth: token endpoint response has no access_token", nil)
	}

	lifetime := m.config.DefaultLifetime
	if seconds, err := payload.ExpiresIn.Float64(); err == nil && seconds > 0 {
		lifetime = time.Duration(seconds * float64(time.Second))
	}
	return token{
		accessToken: payload.AccessToken,
		issuedAt:    issuedAt,
		expiresAt:   issuedAt.Add(lifetime),
	}, nil
}

func (m *TokenManager) count(name string, status string) {
	m.config.Metrics.IncCounter(context.Background(), core.OperationMetricName(m.config.MetricPrefix, "auth."+name, "total"), 1, map[string]string{
		"status": status,
	})
}

func tokenAcquisitionError(source error, message string, metadata map[string]any) error {
	var err *goerrors.Error
	if source == nil {
		err = goerrors.New(message, goerrors.CategoryAuth)
	} else {
		err = goerrors.Wrap(source, goerrors.CategoryAuth, message)
	}
	err.Category = goerrors.CategoryAuth
	err = err.WithCode(http.StatusUnauthorized).WithTextCode(core.ErrorTokenAcquisitionFailed)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}
