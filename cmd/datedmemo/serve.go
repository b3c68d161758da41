package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/datedmemo/datedmemo/internal/config"
	"github.com/datedmemo/datedmemo/pkg/memo"
	"github.com/datedmemo/datedmemo/pkg/middleware"
	"github.com/datedmemo/datedmemo/pkg/web"
)

func serveCmd() *cobra.Command {
	var (
		port  int
		host  string
		debug bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Start the web server.

In debug mode the server is reachable only from this machine unless
--host is given; otherwise it listens on every interface.

Examples:
  datedmemo serve
  datedmemo serve --debug --port=8080
  DATEDMEMO_STORE_DRIVER=sqlite DATEDMEMO_STORE_DSN=memos.db datedmemo serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("debug") {
				cfg.Server.Debug = debug
				if debug {
					cfg.Log.Level = "debug"
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Debug mode: request logs, bind to localhost")

	return cmd
}

func runServe(cfg *config.Config) error {
	logger := newLogger(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := memo.Open(ctx, storeConfig(cfg))
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("memo store open", "driver", cfg.Store.Driver)

	opts := []web.Option{
		web.WithLogger(logger),
		web.WithDebug(cfg.Server.Debug),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, web.WithMetrics(middleware.NewMetrics(), cfg.Metrics.Path))
	}
	if cfg.Tracing.Enabled {
		opts = append(opts, web.WithTracing(middleware.WithTracerName(cfg.Tracing.TracerName)))
	}

	srv, err := web.New(store, opts...)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, cfg.Address(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
}

func storeConfig(cfg *config.Config) memo.Config {
	return memo.Config{
		Driver:    cfg.Store.Driver,
		DSN:       cfg.Store.DSN,
		RedisAddr: cfg.Store.RedisAddr,
		Migrate:   cfg.Store.Migrate,
	}
}
