// ABOUTME: The export subcommand: writes the current dashboard snapshot to an xlsx workbook.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2389-research/calldeck/report"
)

func (c *cli) newExportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export overview KPIs, distributions, and recent calls to xlsx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := report.Export(cmd.Context(), c.client(), c.cfg.APIKey, c.cfg.Limit, output)
			if err != nil {
				c.log.WithError(err).Error("export failed")
				return err
			}
			c.log.WithField("output", output).WithField("calls", len(snap.Calls)).Info("export written")
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d calls)\n", output, len(snap.Calls))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "calldeck-report.xlsx", "output file")
	return cmd
}
