// Package migrations resolves the embedded activity ledger schema for each
// supported SQL dialect.
package migrations

import (
	"fmt"
	"io/fs"
	"strings"

	odoo "github.com/goliatone/go-odoo"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

const migrationsDir = "data/sql/migrations"

// Tree is the migration set for one dialect. Postgres files live at the
// root of the migrations directory and sqlite files under sqlite/.
type Tree struct {
	Dialect string
	Path    string
	FS      fs.FS
}

// Trees returns the postgres and sqlite trees found in source, or in the
// embedded module filesystem when source is nil. Each tree must hold at
// least one *.up.sql file.
func Trees(source fs.FS) ([]Tree, error) {
	if source == nil {
		source = odoo.GetMigrationsFS()
	}
	base, err := fs.Sub(source, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve %s: %w", migrationsDir, err)
	}
	sqliteFS, err := fs.Sub(base, DialectSQLite)
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve sqlite tree: %w", err)
	}

	trees := []Tree{
		{Dialect: DialectPostgres, Path: migrationsDir, FS: base},
		{Dialect: DialectSQLite, Path: migrationsDir + "/" + DialectSQLite, FS: sqliteFS},
	}
	for _, tree := range trees {
		matches, err := fs.Glob(tree.FS, "*.up.sql")
		if err != nil {
			return nil, fmt.Errorf("migrations: glob %s: %w", tree.Path, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("migrations: %s tree %q has no *.up.sql files", tree.Dialect, tree.Path)
		}
	}
	return trees, nil
}

// ForDialect returns the embedded migration tree for dialect.
func ForDialect(dialect string) (fs.FS, error) {
	dialect = strings.TrimSpace(strings.ToLower(dialect))
	trees, err := Trees(nil)
	if err != nil {
		return nil, err
	}
	for _, tree := range trees {
		if tree.Dialect == dialect {
			return tree.FS, nil
		}
	}
	return nil, fmt.Errorf("migrations: unsupported dialect %q", dialect)
}
