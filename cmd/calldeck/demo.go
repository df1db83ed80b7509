// ABOUTME: The serve-demo subcommand: seeds the SQLite demo store and serves the metrics API until interrupted.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/2389-research/calldeck/demoapi"
)

func (c *cli) newServeDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve-demo",
		Short: "Serve a local demo metrics API backed by SQLite",
		Args:  cobra.NoArgs,
		RunE:  c.runServeDemo,
	}

	f := cmd.Flags()
	f.String("addr", demoapi.DefaultAddr, "listen address")
	f.String("db", "", "SQLite database path (default $XDG_DATA_HOME/calldeck/demo.db)")
	f.String("seed", "", "YAML seed file (default: built-in sample calls)")
	f.StringSlice("api-keys", nil, "accepted x-api-key values")
	_ = c.v.BindPFlag("demo.addr", f.Lookup("addr"))
	_ = c.v.BindPFlag("demo.db", f.Lookup("db"))
	_ = c.v.BindPFlag("demo.seed", f.Lookup("seed"))
	_ = c.v.BindPFlag("demo.api_keys", f.Lookup("api-keys"))
	return cmd
}

func (c *cli) runServeDemo(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	demo := c.cfg.Demo
	log := c.log.WithComponent("demo")

	if dir := filepath.Dir(demo.DB); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}
	store, err := demoapi.OpenStore(demo.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := demoapi.LoadSeedFile(demo.Seed)
	if err != nil {
		return err
	}
	n, err := demoapi.Seed(ctx, store, records)
	if err != nil {
		return fmt.Errorf("seeding demo store: %w", err)
	}
	log.WithField("db", demo.DB).WithField("seeded", n).Info("demo store ready")

	metrics := demoapi.NewMetrics()
	if total, err := store.Count(ctx); err == nil {
		metrics.SetStoredCalls(total)
	}

	srv := demoapi.NewServer(store, demoapi.ServerConfig{
		Addr:    demo.Addr,
		APIKeys: demo.APIKeys,
		Logger:  c.log,
		Metrics: metrics,
	})
	fmt.Fprintf(cmd.OutOrStdout(), "calldeck demo API on http://%s (%d calls, db %s)\n", demo.Addr, n, demo.DB)
	return srv.ListenAndServe(ctx)
}
