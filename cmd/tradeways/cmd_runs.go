package main

import (
	"fmt"

	"github.com/rhartert/tradeways/output"
	"github.com/spf13/cobra"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List the runs recorded in a SQLite database",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			dbPath, _ := cmd.Flags().GetString("sqlite")
			id, _ := cmd.Flags().GetInt64("id")

			e, err := setup(cmd)
			if err != nil {
				return err
			}
			if dbPath == "" {
				dbPath = e.cfg.Output.SQLite
			}
			if dbPath == "" {
				return fmt.Errorf("no database, use --sqlite")
			}

			store, err := output.OpenSQLite(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if id > 0 {
				days, err := store.Days(cmd.Context(), id)
				if err != nil {
					return err
				}
				if jsonOut {
					return output.WriteJSON(out, days)
				}
				for _, d := range days {
					fmt.Fprintf(out, "day %3d  %-12s %8.2f %8.2f\n", d.Day, d.Hub, d.DayDistance, d.Distance)
				}
				return nil
			}

			runs, err := store.Runs(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return output.WriteJSON(out, runs)
			}
			for _, r := range runs {
				fmt.Fprintf(out, "#%d  %s -> %s  %s  %d days  %.2f\n", r.ID, r.Start, r.End, r.State, r.Days, r.Distance)
				if r.Error != "" {
					fmt.Fprintf(out, "    %s\n", r.Error)
				}
			}
			return nil
		},
	}

	cmd.Flags().String("sqlite", "", "SQLite database (default: output.sqlite)")
	cmd.Flags().Int64("id", 0, "Show the travel log of this run")

	return cmd
}
