package main

import (
	"fmt"
	"strings"

	"github.com/rhartert/tradeways/network"
	"github.com/rhartert/tradeways/output"
	"github.com/rhartert/tradeways/source"
	"github.com/spf13/cobra"
)

func newRoutesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Generate the alternative routes between two hubs",
		Long: `Generate the alternative routes between two hubs.

Routes are listed by ascending cost, the first one being the shortest.

Examples:
  tradeways routes --network rhine.txt --from Basel --to Koeln
  tradeways routes --from Basel --to Koeln --geojson routes.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			geoPath, _ := cmd.Flags().GetString("geojson")

			e, err := setup(cmd)
			if err != nil {
				return err
			}
			from, to, err := e.endpoints(cmd)
			if err != nil {
				return err
			}
			p, err := e.planner(cmd.Context())
			if err != nil {
				return err
			}
			rs, err := p.Routes(from, to)
			if err != nil {
				return err
			}

			if geoPath != "" {
				g := p.Graph()
				edges := []*network.Edge{}
				seen := map[int]bool{}
				for _, r := range rs.Routes {
					for _, l := range r.Legs() {
						if !seen[l.Edge] {
							seen[l.Edge] = true
							edges = append(edges, g.Edge(l.Edge))
						}
					}
				}
				if err := output.WriteJSONFile(geoPath, source.EdgesFeatureCollection(g, edges)); err != nil {
					return err
				}
			}

			summary := output.Summarize(rs)
			if jsonOut {
				return output.WriteJSON(cmd.OutOrStdout(), summary)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d routes from %s to %s\n", len(summary.Routes), summary.Start, summary.End)
			for _, r := range summary.Routes {
				fmt.Fprintf(out, "  #%d  cost %.2f (x%.2f)  %s\n", r.Index, r.Cost, r.Ratio, strings.Join(r.Hubs, " > "))
			}
			return nil
		},
	}

	cmd.Flags().String("from", "", "Start hub (default: simulation.start)")
	cmd.Flags().String("to", "", "End hub (default: simulation.end)")
	cmd.Flags().String("geojson", "", "Write the edges of the routes as GeoJSON to this file")

	return cmd
}
