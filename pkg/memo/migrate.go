package memo

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/datedmemo/datedmemo/internal/errors"
	"github.com/datedmemo/datedmemo/pkg/memo/migrations"
)

// gooseDialect maps a Dialect to goose's name for it.
func gooseDialect(d Dialect) (string, error) {
	switch d {
	case DialectPostgres:
		return "postgres", nil
	case DialectSQLite:
		return "sqlite3", nil
	}
	return "", errors.New("E203").WithDetail(fmt.Sprintf("No migrations exist for dialect %q.", d))
}

// Migrate brings the schema up to date.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	return migrate(ctx, db, dialect, func() error {
		return goose.UpContext(ctx, db, ".")
	})
}

// MigrateDown rolls back the latest migration.
func MigrateDown(ctx context.Context, db *sql.DB, dialect Dialect) error {
	return migrate(ctx, db, dialect, func() error {
		return goose.DownContext(ctx, db, ".")
	})
}

// SchemaVersion returns the applied migration version.
func SchemaVersion(ctx context.Context, db *sql.DB, dialect Dialect) (int64, error) {
	var v int64
	err := migrate(ctx, db, dialect, func() error {
		var err error
		v, err = goose.GetDBVersionContext(ctx, db)
		return err
	})
	return v, err
}

// Migrations lists the embedded migration files.
func Migrations() ([]string, error) {
	return fs.Glob(migrations.FS, "*.sql")
}

func migrate(_ context.Context, db *sql.DB, dialect Dialect, run func() error) error {
	name, err := gooseDialect(dialect)
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{slog.Default()})
	if err := goose.SetDialect(name); err != nil {
		return errors.New("E201").Wrap(err)
	}
	if err := run(); err != nil {
		return errors.New("E201").Wrap(err)
	}
	return nil
}

// gooseLogger routes goose output through slog.
type gooseLogger struct {
	l *slog.Logger
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.l.Error(fmt.Sprintf(format, v...))
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.l.Debug(fmt.Sprintf(format, v...))
}
