package core

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type fixedConfigProvider struct {
	cfg Config
}

func (p *fixedConfigProvider) Load(context.Context, Config) (Config, error) {
	return p.cfg, nil
}

type fixedOptionsResolver struct {
	cfg Config
}

func (r *fixedOptionsResolver) Resolve(Config, Config, Config) (Config, error) {
	return r.cfg, nil
}

type stubRecordStoreFactory struct {
	store RecordStore
	err   error
	got   Config
}

func (f *stubRecordStoreFactory) BuildRecordStore(cfg Config, _ Logger, _ MetricsRecorder) (RecordStore, error) {
	f.got = cfg
	return f.store, f.err
}

func TestNewService_DefaultDependencies(t *testing.T) {
	svc, err := NewService(Config{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	deps := svc.Dependencies()
	if deps.Logger == nil {
		t.Fatalf("expected default logger")
	}
	if deps.LoggerProvider == nil {
		t.Fatalf("expected default logger provider")
	}
	if deps.ErrorMapper == nil {
		t.Fatalf("expected default error mapper")
	}
	if deps.ConfigProvider == nil {
		t.Fatalf("expected default config provider")
	}
	if deps.OptionsResolver == nil {
		t.Fatalf("expected default options resolver")
	}
	cfg := svc.Config()
	if cfg.ServiceName != "odoo" {
		t.Fatalf("expected default service_name=odoo, got %q", cfg.ServiceName)
	}
	if cfg.RequestTimeout() != 30*time.Second {
		t.Fatalf("expected 30s default timeout, got %s", cfg.RequestTimeout())
	}
	if cfg.CompanyID != 1 {
		t.Fatalf("expected default company 1, got %d", cfg.CompanyID)
	}
	if cfg.CustomFields.Brand != "x_studio_marca" {
		t.Fatalf("expected default brand field, got %q", cfg.CustomFields.Brand)
	}
}

func TestNewService_WithXOverrides(t *testing.T) {
	customLogger := stubLogger{}
	customProvider := stubLoggerProvider{logger: customLogger}
	sentinel := errors.New("sentinel")
	customMapper := func(error) *goerrors.Error {
		return goerrors.Wrap(sentinel, goerrors.CategoryOperation, "mapped")
	}
	configProvider := &fixedConfigProvider{cfg: Config{ServiceName: "from-provider"}}
	optionsResolver := &fixedOptionsResolver{cfg: Config{ServiceName: "resolved"}}
	store := newStubRecordStore()
	sink := &memoryActivitySink{}

	svc, err := NewService(Config{ServiceName: "runtime"},
		WithLogger(customLogger),
		WithLoggerProvider(customProvider),
		WithErrorMapper(customMapper),
		WithConfigProvider(configProvider),
		WithOptionsResolver(optionsResolver),
		WithRecordStore(store),
		WithActivitySink(sink),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	deps := svc.Dependencies()
	if deps.Logger != customLogger {
		t.Fatalf("expected custom logger override")
	}
	if resolved := deps.LoggerProvider.GetLogger("odoo.override"); resolved != customLogger {
		t.Fatalf("expected logger provider to resolve custom logger")
	}
	if deps.ConfigProvider != configProvider {
		t.Fatalf("expected custom config provider override")
	}
	if deps.OptionsResolver != optionsResolver {
		t.Fatalf("expected custom options resolver override")
	}
	if deps.RecordStore != store {
		t.Fatalf("expected custom record store")
	}
	if deps.ActivitySink != sink {
		t.Fatalf("expected custom activity sink")
	}
	if got := svc.Config().ServiceName; got != "resolved" {
		t.Fatalf("expected options resolver output config, got %q", got)
	}

	_, err = svc.Search(context.Background(), SearchRequest{})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected custom mapper to wrap sentinel, got %v", err)
	}
}

func TestNewService_ConfigLayeringPrecedence(t *testing.T) {
	provider := NewCfgxConfigProvider(mapRawLoader{values: map[string]any{
		"service_name": "from-config",
		"base_url":     "https://config.example.com",
		"company_id":   3,
		"custom_fields": map[string]any{
			"brand": "x_brand",
		},
	}})

	svc, err := NewService(Config{ServiceName: "from-runtime"}, WithConfigProvider(provider))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	cfg := svc.Config()
	if cfg.ServiceName != "from-runtime" {
		t.Fatalf("expected runtime value to override config/default, got %q", cfg.ServiceName)
	}
	if cfg.BaseURL != "https://config.example.com" {
		t.Fatalf("expected config layer base url, got %q", cfg.BaseURL)
	}
	if cfg.CompanyID != 3 {
		t.Fatalf("expected config layer company id, got %d", cfg.CompanyID)
	}
	if cfg.CustomFields.Brand != "x_brand" {
		t.Fatalf("expected config layer brand field, got %q", cfg.CustomFields.Brand)
	}
	if cfg.CustomFields.Marketplace != "biomag_marketplace" {
		t.Fatalf("expected default marketplace field kept, got %q", cfg.CustomFields.Marketplace)
	}
}

func TestNewService_BuildsRecordStoreFromFactory(t *testing.T) {
	store := newStubRecordStore()
	factory := &stubRecordStoreFactory{store: store}
	svc, err := NewService(Config{BaseURL: "https://erp.example.com"}, WithRecordStoreFactory(factory))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if svc.Dependencies().RecordStore != store {
		t.Fatalf("expected factory store to be used")
	}
	if factory.got.BaseURL != "https://erp.example.com" {
		t.Fatalf("expected factory to receive resolved config, got %q", factory.got.BaseURL)
	}

	failing := &stubRecordStoreFactory{err: errors.New("client_id is required")}
	if _, err := NewService(Config{}, WithRecordStoreFactory(failing)); !HasTextCode(err, ErrorBadInput) {
		t.Fatalf("expected mapped factory error, got %v", err)
	}
}

func TestConfig_ValidateRemote(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ValidateRemote(); err == nil {
		t.Fatalf("expected missing base url error")
	}
	cfg.BaseURL = "https://erp.example.com/"
	cfg.ClientID = "id"
	cfg.ClientSecret = "secret"
	cfg.TokenPath = "/oauth/token"
	cfg.SearchPath = "api/search"
	cfg.CreatePath = "/api/create"
	if err := cfg.ValidateRemote(); err != nil {
		t.Fatalf("validate remote: %v", err)
	}
	if got := cfg.SearchURL(); got != "https://erp.example.com/api/search" {
		t.Fatalf("unexpected search url %q", got)
	}
	if got := cfg.ReportURL("sale.report_saleorder"); got != "https://erp.example.com/api/v2/report/sale.report_saleorder" {
		t.Fatalf("unexpected report url %q", got)
	}
}
