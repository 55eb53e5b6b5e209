package cli

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-odoo/core"
	odoomigrations "github.com/goliatone/go-odoo/migrations"
	sqlstore "github.com/goliatone/go-odoo/store/sql"
	persistence "github.com/goliatone/go-persistence-bun"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

const (
	LedgerMemory   = "memory"
	LedgerSQLite   = "sqlite3"
	LedgerPostgres = "postgres"
)

type ledgerConfig struct {
	driver string
	dsn    string
	debug  bool
}

func (c ledgerConfig) GetDebug() bool { return c.debug }
func (c ledgerConfig) GetDriver() string { return c.driver }
func (c ledgerConfig) GetServer() string { return c.dsn }
func (c ledgerConfig) GetPingTimeout() time.Duration { return 5 * time.Second }
func (c ledgerConfig) GetOtelIdentifier() string { return "go-odoo-cli" }

// ledgerHandle is the activity ledger plus whatever must be released after
// the command ran.
type ledgerHandle struct {
	ledger core.ActivityLedger
	close  func() error
}

func openLedger(ctx context.Context, driver string, dsn string, retention core.ActivityRetentionPolicy, logger core.Logger) (ledgerHandle, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	memory := core.NewMemoryActivityLog()
	switch driver {
	case "", LedgerMemory:
		return ledgerHandle{ledger: memory, close: func() error { return nil }}, nil
	case LedgerSQLite, "sqlite":
		return openSQLLedger(ctx, LedgerSQLite, odoomigrations.DialectSQLite, dsn, sqlitedialect.New(), memory, retention, logger)
	case LedgerPostgres, "pq", "postgresql":
		return openSQLLedger(ctx, LedgerPostgres, odoomigrations.DialectPostgres, dsn, pgdialect.New(), memory, retention, logger)
	default:
		return ledgerHandle{}, fmt.Errorf("cli: unsupported ledger %q (memory, sqlite3, postgres)", driver)
	}
}

func openSQLLedger(
	ctx context.Context,
	driver string,
	dialect string,
	dsn string,
	bunDialect schema.Dialect,
	fallback core.ActivitySink,
	retention core.ActivityRetentionPolicy,
	logger core.Logger,
) (ledgerHandle, error) {
	if strings.TrimSpace(dsn) == "" {
		return ledgerHandle{}, fmt.Errorf("cli: --ledger-dsn is required for the %s ledger", driver)
	}
	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return ledgerHandle{}, fmt.Errorf("cli: open %s ledger: %w", driver, err)
	}
	if driver == LedgerSQLite {
		sqlDB.SetMaxOpenConns(1)
	}

	client, err := persistence.New(ledgerConfig{driver: driver, dsn: dsn}, sqlDB, bunDialect)
	if err != nil {
		_ = sqlDB.Close()
		return ledgerHandle{}, fmt.Errorf("cli: persistence client: %w", err)
	}

	migrationsFS, err := odoomigrations.ForDialect(dialect)
	if err != nil {
		_ = client.Close()
		return ledgerHandle{}, err
	}
	client.RegisterSQLMigrations(migrationsFS)
	if err := client.Migrate(ctx); err != nil {
		_ = client.Close()
		return ledgerHandle{}, fmt.Errorf("cli: migrate %s ledger: %w", driver, err)
	}

	store, err := sqlstore.NewActivityStoreFromPersistence(client)
	if err != nil {
		_ = client.Close()
		return ledgerHandle{}, err
	}
	buffered, err := core.NewBufferedActivitySink(store, fallback, retention, 0)
	if err != nil {
		_ = client.Close()
		return ledgerHandle{}, err
	}

	logger.Debug("activity ledger ready", "driver", driver, "dialect", dialect)
	return ledgerHandle{
		ledger: buffered,
		close: func() error {
			buffered.Close()
			if retention.TTL > 0 || retention.RowCap > 0 {
				if deleted, pruneErr := buffered.EnforceRetention(context.Background()); pruneErr != nil {
					logger.Warn("activity retention failed", "error", pruneErr)
				} else if deleted > 0 {
					logger.Debug("activity retention pruned entries", "deleted", deleted)
				}
			}
			return client.Close()
		},
	}, nil
}
