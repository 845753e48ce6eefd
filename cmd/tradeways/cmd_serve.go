package main

import (
	"github.com/rhartert/tradeways/output"
	"github.com/rhartert/tradeways/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve route generation and simulation over HTTP",
		Long: `Serve route generation and simulation over HTTP.

Endpoints:
  GET  /healthz
  GET  /api/hubs             hubs as GeoJSON
  GET  /api/edges            edges as GeoJSON
  POST /api/routes           {"start": "A", "end": "B"}
  POST /api/simulate         {"start": "A", "end": "B", "route": 0}
  GET  /api/runs             recorded runs (requires --sqlite)
  GET  /api/runs/{id}/days   travel log of a recorded run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			dbPath, _ := cmd.Flags().GetString("sqlite")

			e, err := setup(cmd)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = e.cfg.Server.Addr
			}
			if dbPath == "" {
				dbPath = e.cfg.Output.SQLite
			}

			ctx, stop := withSignals(cmd.Context())
			defer stop()

			p, err := e.planner(ctx)
			if err != nil {
				return err
			}
			opts := server.Options{
				AllowedOrigins: e.cfg.Server.AllowedOrigins,
				Logger:         e.logger,
			}
			if dbPath != "" {
				store, err := output.OpenSQLite(ctx, dbPath)
				if err != nil {
					return err
				}
				defer store.Close()
				opts.Store = store
			}
			return server.New(p, opts).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default: server.addr)")
	cmd.Flags().String("sqlite", "", "Record runs in this SQLite database (default: output.sqlite)")

	return cmd
}
