package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/rhartert/tradeways/config"
	"github.com/rhartert/tradeways/network"
	"github.com/rhartert/tradeways/source"
	"github.com/rhartert/tradeways/trip"
	"github.com/spf13/cobra"
)

// env is what every command needs: a valid configuration and its logger.
type env struct {
	cfg    *config.Config
	reg    *config.Registries
	logger *slog.Logger
}

func setup(cmd *cobra.Command) (*env, error) {
	// Variables already set in the environment take precedence over the
	// env file.
	if envFile, _ := cmd.Flags().GetString("env-file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if n, _ := cmd.Flags().GetString("network"); n != "" {
		cfg.Network.Path = n
		cfg.Network.Source = ""
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		cfg.Logging.Level = l
	}

	reg := config.DefaultRegistries()
	if err := cfg.Validate(reg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &env{cfg: cfg, reg: reg, logger: cfg.NewLogger(cmd.ErrOrStderr())}, nil
}

// loadGraph loads the network the configuration points to.
func (e *env) loadGraph(ctx context.Context) (*network.Graph, error) {
	var loader source.Loader
	switch src := e.cfg.NetworkSource(); src {
	case "neo4j":
		n := e.cfg.Network.Neo4j
		db, err := source.NewNeo4jDatabase(ctx, n.URI, n.User, n.Password, n.Database)
		if err != nil {
			return nil, err
		}
		defer db.Close(ctx)
		loader = source.Neo4j{DB: db}
	case "json":
		loader = source.GeoJSONFile{Path: e.cfg.Network.Path}
	default:
		if e.cfg.Network.Path == "" {
			return nil, fmt.Errorf("no network configured, use --network or the network section of the configuration")
		}
		loader = source.TextFile{Path: e.cfg.Network.Path}
	}

	var opts []network.Option
	if m, ok := e.cfg.NetworkMetric(); ok {
		opts = append(opts, network.WithMetric(m))
	}
	g, err := source.LoadGraph(ctx, loader, opts...)
	if err != nil {
		return nil, err
	}
	e.logger.Info("network loaded", "source", e.cfg.NetworkSource(), "metric", g.Metric(), "hubs", g.NumHubs(), "edges", g.NumEdges())
	return g, nil
}

func (e *env) planner(ctx context.Context) (*trip.Planner, error) {
	g, err := e.loadGraph(ctx)
	if err != nil {
		return nil, err
	}
	return trip.NewPlanner(g, e.cfg, e.reg, e.logger)
}

// endpoints returns the hubs given by the flags, or by the configuration.
func (e *env) endpoints(cmd *cobra.Command) (string, string, error) {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	if from == "" {
		from = e.cfg.Simulation.Start
	}
	if to == "" {
		to = e.cfg.Simulation.End
	}
	if from == "" || to == "" {
		return "", "", fmt.Errorf("start and end hubs are required, use --from and --to")
	}
	return from, to, nil
}
