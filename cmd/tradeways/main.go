package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tradeways",
		Short: "Historical trade route generator and travel simulator",
		Long: `tradeways generates diverse routes between the hubs of a historical
transport network and simulates their traversal day by day.

The network is read from a text file, a GeoJSON file or a Neo4j database.
Step policies and hooks are configured in a YAML file.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Configuration file (YAML)")
	rootCmd.PersistentFlags().String("env-file", ".env", "File of environment variables, e.g. TRADEWAYS_NEO4J_PASSWORD")
	rootCmd.PersistentFlags().String("network", "", "Network file, overrides the configuration")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: error, warn, info, debug or trace")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newVersionCmd(),
		newValidateCmd(),
		newRoutesCmd(),
		newSimulateCmd(),
		newServeCmd(),
		newExportCmd(),
		newRunsCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"version": version})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "tradeways version %s\n", version)
			}
		},
	}
}
