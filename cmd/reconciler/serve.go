package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"order-reconciliation/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the reconciliation HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port == 0 {
				port = a.cfg.Server.Port
			}
			if err := os.MkdirAll(a.cfg.Server.UploadDir, 0o755); err != nil {
				return fmt.Errorf("could not create upload directory: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(a.useCase(), server.Options{
				UploadDir:        a.cfg.Server.UploadDir,
				MaxPurchaseFiles: a.cfg.Server.MaxPurchaseFiles,
				MaxUploadBytes:   a.cfg.Server.MaxUploadMB << 20,
			}, a.log)
			return srv.ListenAndServe(ctx, fmt.Sprintf(":%d", port))
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from server.port or PORT)")
	return cmd
}
