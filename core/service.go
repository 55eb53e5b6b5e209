package core

import (
	"context"
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/google/uuid"
)

// Service exposes every named ERP operation. Each one only shapes a search or
// create request and hands it to the configured RecordStore.
type Service struct {
	config             Config
	logger             Logger
	loggerProvider     LoggerProvider
	metricsRecorder    MetricsRecorder
	errorMapper        ErrorMapper
	configProvider     ConfigProvider
	optionsResolver    OptionsResolver
	recordStore        RecordStore
	recordStoreFactory RecordStoreFactory
	activitySink       ActivitySink
	categories         *CategoryTreeResolver
	now                func() time.Time
	newAccessToken     func() string
}

type ServiceDependencies struct {
	Logger             Logger
	LoggerProvider     LoggerProvider
	MetricsRecorder    MetricsRecorder
	ErrorMapper        ErrorMapper
	ConfigProvider     ConfigProvider
	OptionsResolver    OptionsResolver
	RecordStore        RecordStore
	RecordStoreFactory RecordStoreFactory
	ActivitySink       ActivitySink
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("odoo", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("odoo"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.now == nil {
		builder.now = time.Now
	}
	if builder.newAccessToken == nil {
		builder.newAccessToken = uuid.NewString
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	if builder.recordStore == nil && builder.recordStoreFactory != nil {
		store, buildErr := builder.recordStoreFactory.BuildRecordStore(finalConfig, logger, builder.metricsRecorder)
		if buildErr != nil {
			return nil, mapBuildError(builder.errorMapper, buildErr)
		}
		builder.recordStore = store
	}

	return &Service{
		config:             finalConfig,
		logger:             logger,
		loggerProvider:     provider,
		metricsRecorder:    builder.metricsRecorder,
		errorMapper:        builder.errorMapper,
		configProvider:     builder.configProvider,
		optionsResolver:    builder.optionsResolver,
		recordStore:        builder.recordStore,
		recordStoreFactory: builder.recordStoreFactory,
		activitySink:       builder.activitySink,
		categories:         NewCategoryTreeResolver(builder.recordStore, logger),
		now:                builder.now,
		newAccessToken:     builder.newAccessToken,
	}, nil
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return NewService(cfg, opts...)
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:             s.logger,
		LoggerProvider:     s.loggerProvider,
		MetricsRecorder:    s.metricsRecorder,
		ErrorMapper:        s.errorMapper,
		ConfigProvider:     s.configProvider,
		OptionsResolver:    s.optionsResolver,
		RecordStore:        s.recordStore,
		RecordStoreFactory: s.recordStoreFactory,
		ActivitySink:       s.activitySink,
	}
}

// Search is the generic query every named lookup delegates to. An empty
// result is an empty slice, never an error.
func (s *Service) Search(ctx context.Context, req SearchRequest) (records []Record, err error) {
	startedAt := s.now()
	fields := map[string]any{"model": req.Model}
	defer func() {
		fields["count"] = len(records)
		s.observeOperation(ctx, startedAt, "search", err, fields)
	}()
	records, err = s.search(ctx, req)
	return records, s.mapError(err)
}

// Create issues a create call for a single record.
func (s *Service) Create(ctx context.Context, model string, values Record) (created Record, err error) {
	startedAt := s.now()
	fields := map[string]any{"model": model}
	defer func() {
		s.observeOperation(ctx, startedAt, "create", err, fields)
	}()
	created, err = s.create(ctx, model, values)
	return created, s.mapError(err)
}

func (s *Service) search(ctx context.Context, req SearchRequest) ([]Record, error) {
	if s == nil || s.recordStore == nil {
		return nil, DependencyError("record store is required")
	}
	if req.Model == "" {
		return nil, BadInputError("model is required", nil)
	}
	records, err := s.recordStore.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func (s *Service) first(ctx context.Context, req SearchRequest) (Record, error) {
	req.Limit = 1
	records, err := s.search(ctx, req)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return records[0], nil
}

func (s *Service) create(ctx context.Context, model string, values Record) (Record, error) {
	if s == nil || s.recordStore == nil {
		return nil, DependencyError("record store is required")
	}
	if model == "" {
		return nil, BadInputError("model is required", nil)
	}
	if len(values) == 0 {
		return nil, BadInputError("create values are required", map[string]any{"model": model})
	}
	return s.recordStore.Create(ctx, CreateRequest{Model: model, Args: []Record{values}})
}

func (s *Service) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if s == nil || s.errorMapper == nil {
		return err
	}
	mapped := s.errorMapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

// isTerminal reports errors that must abort composite operations instead of
// excluding a single item or falling back to another model.
func isTerminal(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if ctx != nil && ctx.Err() != nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		switch richErr.Category {
		case goerrors.CategoryAuth, goerrors.CategoryBadInput, goerrors.CategoryValidation:
			return true
		}
		if richErr.TextCode == ErrorDependencyNotConfigured {
			return true
		}
	}
	return false
}
