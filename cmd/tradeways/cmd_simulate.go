package main

import (
	"context"
	"fmt"

	"github.com/rhartert/tradeways/output"
	"github.com/spf13/cobra"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a journey between two hubs",
		Long: `Simulate a journey between two hubs.

The routes between the hubs are generated, one of them is picked (at
random unless --route is given) and its traversal is simulated day by day.

Examples:
  tradeways simulate --config rhine.yaml
  tradeways simulate --from Basel --to Koeln --route 0 --output trip.json
  tradeways simulate --from Basel --to Koeln --sqlite runs.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			pick, _ := cmd.Flags().GetInt("route")
			outPath, _ := cmd.Flags().GetString("output")
			dbPath, _ := cmd.Flags().GetString("sqlite")

			e, err := setup(cmd)
			if err != nil {
				return err
			}
			if outPath == "" {
				outPath = e.cfg.Output.JSON
			}
			if dbPath == "" {
				dbPath = e.cfg.Output.SQLite
			}
			from, to, err := e.endpoints(cmd)
			if err != nil {
				return err
			}

			ctx, stop := withSignals(cmd.Context())
			defer stop()

			p, err := e.planner(ctx)
			if err != nil {
				return err
			}
			report, runErr := p.Simulate(ctx, from, to, pick)
			if report == nil {
				return runErr
			}

			if dbPath != "" {
				if err := saveRun(ctx, dbPath, report, runErr); err != nil {
					return err
				}
			}
			if outPath != "" {
				if err := output.WriteJSONFile(outPath, report); err != nil {
					return err
				}
			}

			if jsonOut {
				if err := output.WriteJSON(cmd.OutOrStdout(), report); err != nil {
					return err
				}
			} else {
				printReport(cmd, report)
			}
			return runErr
		},
	}

	cmd.Flags().String("from", "", "Start hub (default: simulation.start)")
	cmd.Flags().String("to", "", "End hub (default: simulation.end)")
	cmd.Flags().Int("route", -1, "Index of the route to simulate, random if negative")
	cmd.Flags().String("output", "", "Write the report as JSON to this file (default: output.json)")
	cmd.Flags().String("sqlite", "", "Record the run in this SQLite database (default: output.sqlite)")

	return cmd
}

func saveRun(ctx context.Context, path string, report *output.Report, runErr error) error {
	store, err := output.OpenSQLite(ctx, path)
	if err != nil {
		return err
	}
	defer store.Close()
	_, err = store.SaveRun(ctx, report.Result, runErr)
	return err
}

func printReport(cmd *cobra.Command, report *output.Report) {
	out := cmd.OutOrStdout()
	res := report.Result
	r := report.Routes.Routes[report.Chosen]
	fmt.Fprintf(out, "Route #%d of %d from %s to %s (cost %.2f)\n", r.Index, len(report.Routes.Routes), res.Start, res.End, r.Cost)
	for _, d := range res.Log {
		where := d.Hub
		if d.Edge != "" {
			where = fmt.Sprintf("%s, %.2f along %s", d.Hub, d.Offset, d.Edge)
		}
		date := ""
		if !d.Date.IsZero() {
			date = d.Date.Format("2006-01-02") + " "
		}
		night := ""
		if d.Overnight {
			night = " (overnight stop)"
		}
		fmt.Fprintf(out, "  day %3d %s%8.2f %5.2fh  %s%s\n", d.Day, date, d.DayDistance, d.DayTime, where, night)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(out, "  warning: %s\n", w)
	}
	fmt.Fprintf(out, "%s after %d days: distance %.2f, %.2fh of travel\n", res.State, res.Days(), res.Distance, res.Time)
}
