package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/dropzone/internal/server"
)

func serveCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo upload server",
		Long: `Run an HTTP server with one upload widget per browser session.

Examples:
  dropzone serve
  dropzone serve --addr=:9000 --upload-immediately
  DROPZONE_UPLOAD_BACKEND=s3 DROPZONE_S3_BUCKET=uploads dropzone serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			logger := cfg.Log.NewLogger()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := server.NewStore(ctx, cfg)
			if err != nil {
				return err
			}
			srv, err := server.New(cfg, server.Options{Store: store, Logger: logger})
			if err != nil {
				return err
			}
			err = srv.Run(ctx)
			if err == nil || err == context.Canceled {
				logger.Info("server stopped")
				return nil
			}
			return err
		},
	}

	f := cmd.Flags()
	f.String("addr", ":8080", "Listen address")
	f.String("log-level", "info", "Log level: debug, info, warn or error")
	f.String("log-format", "text", "Log format: text or json")
	f.String("upload-backend", "disk", "Upload backend: disk or s3")
	f.String("upload-dir", "", "Directory for the disk backend")
	f.String("s3-bucket", "", "Bucket for the s3 backend")
	f.String("s3-endpoint", "", "Endpoint for S3-compatible services")
	widgetFlags(cmd)

	return cmd
}
