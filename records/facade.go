package records

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-odoo/auth"
	"github.com/goliatone/go-odoo/core"
)

// Transport is the subset of transport.Client the facade calls.
type Transport interface {
	Get(ctx context.Context, rawURL string, headers map[string]string, params url.Values) (json.RawMessage, error)
	PostJSON(ctx context.Context, rawURL string, headers map[string]string, body any) (json.RawMessage, error)
}

// Executor runs a transport call with authentication.
type Executor interface {
	Execute(ctx context.Context, headers map[string]string, op auth.Operation) (json.RawMessage, error)
}

type Endpoints struct {
	SearchURL string
	CreateURL string
	ReportURL func(report string) string
}

func EndpointsFromConfig(cfg core.Config) Endpoints {
	return Endpoints{
		SearchURL: cfg.SearchURL(),
		CreateURL: cfg.CreateURL(),
		ReportURL: cfg.ReportURL,
	}
}

// Facade is the generic search/create layer every named lookup goes
// through.
type Facade struct {
	transport Transport
	executor  Executor
	endpoints Endpoints
	logger    glog.Logger
}

func NewFacade(transport Transport, executor Executor, endpoints Endpoints, logger glog.Logger) *Facade {
	return &Facade{
		transport: transport,
		executor:  executor,
		endpoints: endpoints,
		logger:    glog.Ensure(logger),
	}
}

type createBody struct {
	Model  string        `json:"model"`
	Method string        `json:"method"`
	Args   []core.Record `json:"args"`
}

// Search returns the records matching req. No match is an empty slice.
func (f *Facade) Search(ctx context.Context, req core.SearchRequest) ([]core.Record, error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		return nil, core.BadInputError("records: model is required", nil)
	}

	fields := req.Fields
	if fields == nil {
		fields = []string{}
	}
	encodedFields, err := json.Marshal(fields)
	if err != nil {
		return nil, core.BadInputError("records: fields are not encodable", map[string]any{"model": model})
	}
	encodedDomain, err := json.Marshal(req.Domain)
	if err != nil {
		return nil, core.BadInputError("records: domain is not encodable", map[string]any{"model": model})
	}

	params := url.Values{}
	params.Set("model", model)
	params.Set("fields", string(encodedFields))
	params.Set("domain", string(encodedDomain))
	if order := strings.TrimSpace(req.Order); order != "" {
		params.Set("order", order)
	}
	if req.Limit > 0 {
		params.Set("limit", strconv.Itoa(req.Limit))
	}
	if len(req.GroupBy) > 0 {
		params.Set("group_by", strings.Join(req.GroupBy, ","))
	}

	body, err := f.executor.Execute(ctx, cookieHeaders(req.Cookie), func(ctx context.Context, headers map[string]string) (json.RawMessage, error) {
		return f.transport.Get(ctx, f.endpoints.SearchURL, headers, params)
	})
	if err != nil {
		return nil, err
	}
	records, err := decodeRecords(body)
	if err != nil {
		return nil, core.DecodeError(err, "records: decode search response", map[string]any{"model": model})
	}
	f.logger.Debug("records searched", "model", model, "count", len(records))
	return records, nil
}

// Create issues a create call and returns the server's payload as a record.
// A bare id, or a list of ids, comes back as {"id": ...}.
func (f *Facade) Create(ctx context.Context, req core.CreateRequest) (core.Record, error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		return nil, core.BadInputError("records: model is required", nil)
	}
	if len(req.Args) == 0 {
		return nil, core.BadInputError("records: create args are required", map[string]any{"model": model})
	}

	payload := createBody{Model: model, Method: "create", Args: req.Args}
	body, err := f.executor.Execute(ctx, cookieHeaders(req.Cookie), func(ctx context.Context, headers map[string]string) (json.RawMessage, error) {
		return f.transport.PostJSON(ctx, f.endpoints.CreateURL, headers, payload)
	})
	if err != nil {
		return nil, err
	}
	created, err := decodeCreated(body)
	if err != nil {
		return nil, core.DecodeError(err, "records: decode create response", map[string]any{"model": model})
	}
	f.logger.Debug("record created", "model", model)
	return created, nil
}

// Report downloads a rendered report and decodes its base64 content.
func (f *Facade) Report(ctx context.Context, req core.ReportRequest) ([]byte, error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Report) == "" || len(req.IDs) == 0 {
		return nil, core.BadInputError("records: report name and ids are required", nil)
	}
	if f.endpoints.ReportURL == nil {
		return nil, core.DependencyError("records: report endpoint is not configured")
	}

	ids, err := json.Marshal(req.IDs)
	if err != nil {
		return nil, core.BadInputError("records: report ids are not encodable", nil)
	}
	reportType := strings.TrimSpace(req.Type)
	if reportType == "" {
		reportType = "PDF"
	}
	params := url.Values{}
	params.Set("ids", string(ids))
	params.Set("type", reportType)

	target := f.endpoints.ReportURL(req.Report)
	body, err := f.executor.Execute(ctx, cookieHeaders(req.Cookie), func(ctx context.Context, headers map[string]string) (json.RawMessage, error) {
		return f.transport.Get(ctx, target, headers, params)
	})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Content string `json:"content"`
	}
	metadata := map[string]any{"report": req.Report}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, core.DecodeError(err, "records: decode report response", metadata)
	}
	if envelope.Content == "" {
		return nil, core.DecodeError(nil, "records: report response has no content", metadata)
	}
	content, err := base64.StdEncoding.DecodeString(envelope.Content)
	if err != nil {
		return nil, core.DecodeError(err, "records: decode report content", metadata)
	}
	return content, nil
}

func (f *Facade) ready() error {
	if f == nil || f.transport == nil || f.executor == nil {
		return core.DependencyError("records: facade requires a transport and an executor")
	}
	return nil
}

func cookieHeaders(cookie string) map[string]string {
	headers := map[string]string{}
	if cookie = strings.TrimSpace(cookie); cookie != "" {
		headers["Cookie"] = cookie
	}
	return headers
}

func decodeRecords(body json.RawMessage) ([]core.Record, error) {
	if isNull(body) {
		return []core.Record{}, nil
	}
	var records []core.Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, err
	}
	out := make([]core.Record, 0, len(records))
	for _, record := range records {
		if record != nil {
			out = append(out, record)
		}
	}
	return out, nil
}

func decodeCreated(body json.RawMessage) (core.Record, error) {
	if isNull(body) {
		return core.Record{}, nil
	}
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return nil, err
	}
	switch typed := value.(type) {
	case map[string]any:
		return core.Record(typed), nil
	case float64:
		return core.Record{"id": typed}, nil
	case []any:
		if len(typed) == 0 {
			return core.Record{}, nil
		}
		if first, ok := typed[0].(map[string]any); ok {
			return core.Record(first), nil
		}
		return core.Record{"id": typed[0], "ids": typed}, nil
	default:
		return core.Record{"result": typed}, nil
	}
}

func isNull(body json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(body))
	return trimmed == "" || trimmed == "null"
}

var _ core.RecordStore = (*Facade)(nil)
