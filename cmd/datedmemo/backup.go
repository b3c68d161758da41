package main

import (
	"context"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/datedmemo/datedmemo/internal/config"
	"github.com/datedmemo/datedmemo/internal/errors"
	"github.com/datedmemo/datedmemo/pkg/backup"
	"github.com/datedmemo/datedmemo/pkg/memo"
)

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Export every memo to an S3 snapshot",
		Long: `Export every memo to a JSON snapshot in S3.

The bucket, key prefix and region come from the backup section of the
configuration. Credentials follow the usual AWS SDK chain.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			cfg, b, store, err := openBackup(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			key, err := b.Export(ctx, store)
			if err != nil {
				return err
			}
			success("Snapshot written")
			info("s3://%s/%s", cfg.Backup.Bucket, key)
			return nil
		},
	}
}

func restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore [key]",
		Short: "Load memos from an S3 snapshot",
		Long: `Load memos from a JSON snapshot in S3 into the configured store.

Without a key the latest snapshot under the prefix is used. Memos with
the same id are overwritten; others are left alone.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			_, b, store, err := openBackup(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			var key string
			if len(args) == 1 {
				key = args[0]
			} else if key, err = b.Latest(ctx); err != nil {
				return err
			}

			n, err := b.Restore(ctx, store, key)
			if err != nil {
				return err
			}
			success("Restored %d memos", n)
			info("from %s", key)
			return nil
		},
	}
}

func openBackup(ctx context.Context) (*config.Config, *backup.Backup, memo.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	newLogger(cfg, os.Stderr)

	if cfg.Backup.Bucket == "" {
		return nil, nil, nil, errors.New("E500").
			WithDetail("No backup bucket is configured.").
			WithSuggestion("Set backup.bucket or DATEDMEMO_BACKUP_BUCKET")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Backup.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Backup.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, nil, nil, errors.New("E500").Wrap(err)
	}

	store, err := memo.Open(ctx, storeConfig(cfg))
	if err != nil {
		return nil, nil, nil, err
	}
	b := backup.New(s3.NewFromConfig(awsCfg), cfg.Backup.Bucket, cfg.Backup.Prefix, nil)
	return cfg, b, store, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
