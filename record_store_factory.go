package odoo

import (
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-odoo/auth"
	"github.com/goliatone/go-odoo/core"
	"github.com/goliatone/go-odoo/records"
	"github.com/goliatone/go-odoo/transport"
)

// RemoteRecordStoreFactory assembles transport, token manager, executor and
// record facade from a resolved Config.
type RemoteRecordStoreFactory struct {
	HTTP         transport.HTTPDoer
	Now          func() time.Time
	RenewBuffer  time.Duration
	MaxBodyBytes int64
}

func (f RemoteRecordStoreFactory) BuildRecordStore(
	cfg core.Config,
	logger core.Logger,
	metrics core.MetricsRecorder,
) (core.RecordStore, error) {
	if err := cfg.ValidateRemote(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "odoo: remote config is incomplete").
			WithTextCode(core.ErrorBadInput)
	}
	prefix := cfg.ServiceName

	clientOpts := []transport.Option{
		transport.WithTimeout(cfg.RequestTimeout()),
		transport.WithLogger(logger),
	}
	if f.MaxBodyBytes > 0 {
		clientOpts = append(clientOpts, transport.WithMaxResponseBodyBytes(f.MaxBodyBytes))
	}
	client := transport.NewClient(f.HTTP, clientOpts...)

	tokens := auth.NewTokenManager(client, auth.TokenManagerConfig{
		Credentials: auth.Credentials{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL(),
		},
		RenewBuffer:  f.RenewBuffer,
		MetricPrefix: prefix,
		Now:          f.Now,
		Logger:       logger,
		Metrics:      metrics,
	})
	executor := auth.NewExecutor(tokens, auth.ExecutorConfig{
		MetricPrefix: prefix,
		Logger:       logger,
		Metrics:      metrics,
	})
	return records.NewFacade(client, executor, records.EndpointsFromConfig(cfg), logger), nil
}

var _ core.RecordStoreFactory = RemoteRecordStoreFactory{}
