package main

import (
	"fmt"

	"github.com/rhartert/tradeways/output"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration against the network",
		Long: `Check the configuration against the network.

This command checks for:
  - Invalid settings, unknown step policies and hooks
  - Network integrity (unknown hubs, invalid costs, disconnected edges)
  - Edge types no step policy applies to`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			e, err := setup(cmd)
			if err != nil {
				return err
			}
			p, err := e.planner(cmd.Context())
			if err != nil {
				return err
			}

			g := p.Graph()
			if jsonOut {
				return output.WriteJSON(cmd.OutOrStdout(), map[string]any{
					"hubs":     g.NumHubs(),
					"edges":    g.NumEdges(),
					"warnings": p.Warnings(),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "network: %d hubs, %d edges\n", g.NumHubs(), g.NumEdges())
			for _, w := range p.Warnings() {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			if len(p.Warnings()) == 0 {
				fmt.Fprintln(out, "configuration OK")
			}
			return nil
		},
	}
}
