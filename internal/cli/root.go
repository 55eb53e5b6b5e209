package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	gocmd "github.com/goliatone/go-command"
	odoo "github.com/goliatone/go-odoo"
	"github.com/goliatone/go-odoo/adapters/gocommand"
	"github.com/goliatone/go-odoo/adapters/gologger"
	odooprom "github.com/goliatone/go-odoo/adapters/prometheus"
	"github.com/goliatone/go-odoo/core"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	EnvFiles       []string
	LogLevel       string
	LogFormat      string
	Ledger         string
	LedgerDSN      string
	ActivityTTL    time.Duration
	ActivityRowCap int
	OutputDir      string
	MetricsFile    string
	Timeout        time.Duration
}

// Dependencies replaces process level collaborators, mostly for tests.
type Dependencies struct {
	Stdout    io.Writer
	Stderr    io.Writer
	LookupEnv func(key string) (string, bool)
	// ServiceOptions are applied after the CLI defaults, so a record store
	// given here replaces the remote one.
	ServiceOptions []odoo.Option
}

type app struct {
	opts    RootOptions
	deps    Dependencies
	logger  *gologger.ZapLogger
	metrics *odooprom.Recorder
	service *odoo.Service
	ledger  ledgerHandle
	subs    gocommand.Subscriptions
}

// Run executes the command line and returns the process exit code. Every
// outcome is printed as a JSON envelope on stdout.
func Run(ctx context.Context, args []string, deps Dependencies) int {
	a := newApp(deps)
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(a.deps.Stdout)
	root.SetErr(a.deps.Stderr)

	err := root.ExecuteContext(ctx)
	if closeErr := a.close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		_ = printEnvelope(a.deps.Stdout, failureEnvelope(err))
		return 1
	}
	return 0
}

// NewRootCommand builds the command tree. Resources opened by a command are
// released when the returned closer runs.
func NewRootCommand(deps Dependencies) (*cobra.Command, func() error) {
	a := newApp(deps)
	return a.rootCommand(), a.close
}

func newApp(deps Dependencies) *app {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.LookupEnv == nil {
		deps.LookupEnv = os.LookupEnv
	}
	return &app{deps: deps}
}

func (a *app) rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "odoo",
		Short:   "Query and create records on an Odoo ERP",
		Long:    "odoo talks to the Odoo JSON API with client-credentials auth.\nEvery command prints a JSON envelope with a success flag.",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringSliceVar(&a.opts.EnvFiles, "env-file", []string{".env"}, "dotenv files to read connection settings from")
	pf.StringVar(&a.opts.LogLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	pf.StringVar(&a.opts.LogFormat, "log-format", "console", "log format (console, json)")
	pf.StringVar(&a.opts.Ledger, "ledger", LedgerMemory, "activity ledger (memory, sqlite3, postgres)")
	pf.StringVar(&a.opts.LedgerDSN, "ledger-dsn", "", "data source name for the sqlite3 or postgres ledger")
	pf.DurationVar(&a.opts.ActivityTTL, "activity-ttl", 0, "drop ledger entries older than this on exit (0 keeps all)")
	pf.IntVar(&a.opts.ActivityRowCap, "activity-row-cap", 0, "keep at most this many ledger entries (0 keeps all)")
	pf.StringVar(&a.opts.OutputDir, "output-dir", "", "directory that images and reports are written under")
	pf.StringVar(&a.opts.MetricsFile, "metrics-file", "", "write prometheus metrics to this file on exit")
	pf.DurationVar(&a.opts.Timeout, "timeout", 60*time.Second, "timeout for a single command")

	cmd.AddCommand(
		a.partnerCommand(),
		a.leadCommand(),
		a.productCommand(),
		a.attachmentCommand(),
		a.categoryCommand(),
		a.orderCommand(),
		a.reportCommand(),
		a.invoiceCommand(),
		a.reportingCommand(),
		a.helpdeskCommand(),
		a.inventoryCommand(),
		a.activityCommand(),
	)
	return cmd
}

func (a *app) setup(ctx context.Context) error {
	if a.service != nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	a.logger = gologger.New(gologger.Config{
		Level:  a.opts.LogLevel,
		Format: a.opts.LogFormat,
		Output: a.deps.Stderr,
	})
	a.metrics = odooprom.NewRecorder(odooprom.Config{Registry: prom.NewRegistry()})

	ledger, err := openLedger(ctx, a.opts.Ledger, a.opts.LedgerDSN, core.ActivityRetentionPolicy{
		TTL:    a.opts.ActivityTTL,
		RowCap: a.opts.ActivityRowCap,
	}, a.logger)
	if err != nil {
		return err
	}
	a.ledger = ledger

	loader := core.NewEnvConfigLoader(a.opts.EnvFiles...)
	loader.Lookup = a.deps.LookupEnv

	options := []odoo.Option{
		odoo.WithConfigProvider(core.NewCfgxConfigProvider(loader)),
		odoo.WithLoggerProvider(gologger.NewProvider(a.logger)),
		odoo.WithLogger(a.logger),
		odoo.WithMetricsRecorder(a.metrics),
		odoo.WithActivitySink(ledger.ledger),
	}
	options = append(options, a.deps.ServiceOptions...)

	service, err := odoo.New(odoo.Config{}, options...)
	if err != nil {
		return err
	}
	facade, err := odoo.NewFacade(service, odoo.WithActivityReader(ledger.ledger))
	if err != nil {
		return err
	}
	subs, err := gocommand.SubscribeFacade(gocommand.NewRegistryAdapter(nil), facade)
	if err != nil {
		return err
	}
	a.service = service
	a.subs = subs
	return nil
}

func (a *app) close() error {
	var errs []error
	a.subs.Unsubscribe()
	a.subs = nil
	if a.ledger.close != nil {
		errs = append(errs, a.ledger.close())
		a.ledger.close = nil
	}
	if a.metrics != nil && strings.TrimSpace(a.opts.MetricsFile) != "" {
		if err := prom.WriteToTextfile(a.opts.MetricsFile, a.metrics.Registry()); err != nil {
			errs = append(errs, fmt.Errorf("cli: write metrics: %w", err))
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	a.service = nil
	return errors.Join(errs...)
}

func (a *app) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.opts.Timeout > 0 {
		return context.WithTimeout(ctx, a.opts.Timeout)
	}
	return context.WithCancel(ctx)
}

func (a *app) print(env Envelope) error {
	return printEnvelope(a.deps.Stdout, env)
}

func runQuery[T any, R any](a *app, cmd *cobra.Command, msg T) (R, error) {
	ctx, cancel := a.commandContext(cmd)
	defer cancel()
	return gocommand.Query[T, R](ctx, msg)
}

func runCommand[T any, R any](a *app, cmd *cobra.Command, msg T) (R, error) {
	ctx, cancel := a.commandContext(cmd)
	defer cancel()
	collector := gocmd.NewResult[R]()
	ctx = gocmd.ContextWithResult(ctx, collector)
	var zero R
	if err := gocommand.Dispatch(ctx, msg); err != nil {
		return zero, err
	}
	out, ok := collector.Load()
	if !ok {
		return zero, nil
	}
	return out, nil
}
