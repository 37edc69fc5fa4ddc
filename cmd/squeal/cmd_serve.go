package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/willibrandon/squeal/internal/httpapi"
	"github.com/willibrandon/squeal/internal/logger"
)

func newServeCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the workbench as JSON over HTTP",
		Long: `Serve the saved workbench over HTTP until interrupted.

The API listens on 127.0.0.1 unless --host says otherwise. Routes live under /api:
session, tabs, active, run, export.csv, history and prefs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv("squeal-serve")
			if err != nil {
				return err
			}
			defer e.Close()

			if !cmd.Flags().Changed("port") {
				port = e.cfg.Server.Port
			}

			srv := httpapi.NewServer(httpapi.Config{
				Workbench: e.wb,
				History:   e.history,
				Host:      host,
				Port:      port,
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Printf("Serving on http://%s (Ctrl+C to stop)\n", srv.Addr())
			logger.Info("HTTP API started", "addr", srv.Addr())
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "listen host")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from server.port)")
	return cmd
}
