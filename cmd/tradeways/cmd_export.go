package main

import (
	"fmt"
	"os"

	"github.com/rhartert/tradeways/network"
	"github.com/rhartert/tradeways/output"
	"github.com/rhartert/tradeways/source"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the network in another format",
		Long: `Write the network in another format.

Examples:
  tradeways export --network rhine.json --format text --output rhine.txt
  tradeways export --config neo4j.yaml --format geojson --output rhine.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			outPath, _ := cmd.Flags().GetString("output")
			if format != "text" && format != "geojson" {
				return fmt.Errorf("invalid format: %s (must be text or geojson)", format)
			}

			e, err := setup(cmd)
			if err != nil {
				return err
			}
			g, err := e.loadGraph(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			if format == "text" {
				return source.WriteText(w, g)
			}
			edges := make([]*network.Edge, g.NumEdges())
			for i := range edges {
				edges[i] = g.Edge(i)
			}
			fc := source.HubsFeatureCollection(g)
			fc.Features = append(fc.Features, source.EdgesFeatureCollection(g, edges).Features...)
			return output.WriteJSON(w, fc)
		},
	}

	cmd.Flags().String("format", "geojson", "Output format: text or geojson")
	cmd.Flags().String("output", "", "Output file (default: stdout)")

	return cmd
}
