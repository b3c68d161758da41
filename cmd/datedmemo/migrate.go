package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datedmemo/datedmemo/internal/errors"
	"github.com/datedmemo/datedmemo/pkg/memo"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [up|down|status]",
		Short: "Manage the SQL schema",
		Long: `Apply or roll back the memos table migrations.

Only the sqlite and postgres store drivers have a schema.

Examples:
  datedmemo migrate
  datedmemo migrate status
  datedmemo migrate down`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}
			return runMigrate(commandContext(cmd), action)
		},
	}
	return cmd
}

func runMigrate(ctx context.Context, action string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	newLogger(cfg, os.Stderr)

	dialect := memo.Dialect(cfg.Store.Driver)
	if dialect.DriverName() == "" {
		return errors.New("E203").
			WithDetail(fmt.Sprintf("The %q store has no schema to migrate.", cfg.Store.Driver)).
			WithSuggestion("Set store.driver to sqlite or postgres")
	}

	db, err := memo.OpenDB(ctx, dialect, cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	switch action {
	case "up":
		if err := memo.Migrate(ctx, db, dialect); err != nil {
			return err
		}
	case "down":
		if err := memo.MigrateDown(ctx, db, dialect); err != nil {
			return err
		}
	case "status":
	default:
		return fmt.Errorf("unknown migrate action %q", action)
	}

	v, err := memo.SchemaVersion(ctx, db, dialect)
	if err != nil {
		return err
	}
	files, _ := memo.Migrations()
	if action == "status" {
		info("Schema version %d of %d", v, len(files))
		return nil
	}
	success("Schema at version %d of %d", v, len(files))
	return nil
}
