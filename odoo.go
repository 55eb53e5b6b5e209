// Package odoo wires the authenticated ERP record store, the named
// operations service and the command/query handlers into one entry point.
package odoo

import (
	"github.com/goliatone/go-odoo/core"
)

type Config = core.Config

type Option = core.Option

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies

type Record = core.Record

type Domain = core.Domain

var (
	WithLogger               = core.WithLogger
	WithLoggerProvider       = core.WithLoggerProvider
	WithMetricsRecorder      = core.WithMetricsRecorder
	WithErrorMapper          = core.WithErrorMapper
	WithConfigProvider       = core.WithConfigProvider
	WithOptionsResolver      = core.WithOptionsResolver
	WithRecordStore          = core.WithRecordStore
	WithRecordStoreFactory   = core.WithRecordStoreFactory
	WithActivitySink         = core.WithActivitySink
	WithClock                = core.WithClock
	WithAccessTokenGenerator = core.WithAccessTokenGenerator
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// New builds a Service backed by the remote ERP. The record store is built
// from the resolved config unless WithRecordStore or WithRecordStoreFactory
// overrides it.
func New(cfg Config, opts ...Option) (*Service, error) {
	all := make([]Option, 0, len(opts)+1)
	all = append(all, core.WithRecordStoreFactory(RemoteRecordStoreFactory{}))
	all = append(all, opts...)
	return core.NewService(cfg, all...)
}

// NewService builds a Service without a default record store.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}
