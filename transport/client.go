package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

const defaultClientTimeout = 30 * time.Second
const defaultResponseBodyLimit int64 = 32 << 20 // 32 MiB, report PDFs travel as base64

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client performs raw JSON exchanges. Every non-2xx response becomes a
// *RemoteError carrying the status and body verbatim.
type Client struct {
	HTTP                 HTTPDoer
	Timeout              time.Duration
	DefaultHeaders       map[string]string
	MaxResponseBodyBytes int64
	Logger               glog.Logger
}

type Option func(*Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.Timeout = timeout
		}
	}
}

func WithDefaultHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for key, value := range headers {
			c.DefaultHeaders[key] = value
		}
	}
}

func WithMaxResponseBodyBytes(limit int64) Option {
	return func(c *Client) {
		if limit > 0 {
			c.MaxResponseBodyBytes = limit
		}
	}
}

func WithLogger(logger glog.Logger) Option {
	return func(c *Client) {
		c.Logger = glog.Ensure(logger)
	}
}

func NewClient(doer HTTPDoer, opts ...Option) *Client {
	client := &Client{
		HTTP:                 doer,
		Timeout:              defaultClientTimeout,
		DefaultHeaders:       map[string]string{},
		MaxResponseBodyBytes: defaultResponseBodyLimit,
		Logger:               glog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.HTTP == nil {
		client.HTTP = &http.Client{Timeout: client.Timeout}
	}
	return client
}

// Get issues a GET with params merged into the url query.
func (c *Client) Get(ctx context.Context, rawURL string, headers map[string]string, params url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, rawURL, headers, params, nil, "")
}

// PostJSON marshals body and posts it as application/json.
func (c *Client) PostJSON(ctx context.Context, rawURL string, headers map[string]string, body any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, transportWrapError(
			err,
			goerrors.CategoryBadInput,
			"transport: encode json body",
			http.StatusBadRequest,
			map[string]any{"url": rawURL},
		)
	}
	return c.do(ctx, http.MethodPost, rawURL, headers, nil, payload, "application/json")
}

// PostForm posts form as application/x-www-form-urlencoded.
func (c *Client) PostForm(ctx context.Context, rawURL string, headers map[string]string, form url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, rawURL, headers, nil, []byte(form.Encode()), "application/x-www-form-urlencoded")
}

func (c *Client) do(
	ctx context.Context,
	method string,
	rawURL string,
	headers map[string]string,
	params url.Values,
	body []byte,
	contentType string,
) (json.RawMessage, error) {
	if c == nil || c.HTTP == nil {
		return nil, transportError(
			"transport: client requires an http doer",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			nil,
		)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	parsedURL, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, transportWrapError(
			err,
			goerrors.CategoryBadInput,
			"transport: invalid request url",
			http.StatusBadRequest,
			map[string]any{"url": strings.TrimSpace(rawURL)},
		)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, transportError(
			"transport: request url must be absolute",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			map[string]any{"url": strings.TrimSpace(rawURL)},
		)
	}
	if len(params) > 0 {
		query := parsedURL.Query()
		for key, values := range params {
			if strings.TrimSpace(key) == "" {
				continue
			}
			query.Del(key)
			for _, value := range values {
				query.Add(key, value)
			}
		}
		parsedURL.RawQuery = query.Encode()
	}

	requestCtx := ctx
	cancel := func() {}
	if c.Timeout > 0 {
		requestCtx, cancel = context.WithTimeout(ctx, c.Timeout)
	}
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(requestCtx, method, parsedURL.String(), reader)
	if err != nil {
		return nil, transportWrapError(
			err,
			goerrors.CategoryBadInput,
			"transport: create http request",
			http.StatusBadRequest,
			map[string]any{"method": method, "url": parsedURL.String()},
		)
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	setHeaders(httpReq.Header, c.DefaultHeaders)
	setHeaders(httpReq.Header, headers)

	startedAt := time.Now()
	httpRes, err := c.HTTP.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = redactedURL(parsedURL)
		}
		return nil, transportWrapError(
			err,
			goerrors.CategoryExternal,
			"transport: execute http request",
			http.StatusBadGateway,
			map[string]any{"method": method, "url": redactedURL(parsedURL)},
		)
	}
	defer httpRes.Body.Close()

	limit := c.MaxResponseBodyBytes
	if limit <= 0 {
		limit = defaultResponseBodyLimit
	}
	payload, err := io.ReadAll(io.LimitReader(httpRes.Body, limit+1))
	if err != nil {
		return nil, transportWrapError(
			err,
			goerrors.CategoryExternal,
			"transport: read response body",
			http.StatusBadGateway,
			map[string]any{"status_code": httpRes.StatusCode},
		)
	}
	if int64(len(payload)) > limit {
		return nil, transportError(
			fmt.Sprintf("transport: response body exceeds limit of %d bytes", limit),
			goerrors.CategoryExternal,
			http.StatusBadGateway,
			map[string]any{"status_code": httpRes.StatusCode, "response_limit_b": limit},
		)
	}

	glog.Ensure(c.Logger).Debug("http exchange completed",
		"method", method,
		"url", redactedURL(parsedURL),
		"status_code", httpRes.StatusCode,
		"duration_ms", time.Since(startedAt).Milliseconds(),
	)

	if httpRes.StatusCode < 200 || httpRes.StatusCode > 299 {
		return nil, &RemoteError{
			Method:     method,
			URL:        redactedURL(parsedURL),
			StatusCode: httpRes.StatusCode,
			Body:       string(payload),
		}
	}

	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(trimmed) {
		return nil, transportError(
			"transport: decode response: body is not valid json",
			goerrors.CategoryExternal,
			http.StatusBadGateway,
			map[string]any{"status_code": httpRes.StatusCode, "url": redactedURL(parsedURL)},
		)
	}
	return json.RawMessage(trimmed), nil
}

func setHeaders(target http.Header, headers map[string]string) {
	for key, value := range headers {
		if strings.TrimSpace(key) == "" {
			continue
		}
		target.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
}

// redactedURL drops the query, which can carry record filters or ids the
// logs should not keep.
func redactedURL(parsed *url.URL) string {
	if parsed == nil {
		return ""
	}
	clean := *parsed
	clean.RawQuery = ""
	clean.User = nil
	return clean.String()
}

// BasicAuthorization builds an HTTP Basic Authorization header value.
func BasicAuthorization(username string, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}
