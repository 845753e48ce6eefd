// Package trip ties route generation, route choice and simulation together.
package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/rhartert/tradeways/config"
	"github.com/rhartert/tradeways/logging"
	"github.com/rhartert/tradeways/network"
	"github.com/rhartert/tradeways/network/route"
	"github.com/rhartert/tradeways/output"
	"github.com/rhartert/tradeways/routing"
	"github.com/rhartert/tradeways/sim"
)

// ErrRouteOutOfRange is returned when simulating a route that is not part of
// the route set.
var ErrRouteOutOfRange = errors.New("route out of range")

// Planner generates and simulates journeys on a graph. It is safe for
// concurrent use.
type Planner struct {
	graph    *network.Graph
	routing  routing.Options
	alpha    float64
	sim      *sim.Simulator
	warnings []sim.ConfigurationWarning
	logger   *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewPlanner returns the planner described by cfg on graph g. cfg must have
// been validated with reg.
func NewPlanner(g *network.Graph, cfg *config.Config, reg *config.Registries, logger *slog.Logger) (*Planner, error) {
	logger = logging.OrDiscard(logger)
	s, d, err := cfg.Simulator(reg, logger)
	if err != nil {
		return nil, fmt.Errorf("building simulator: %w", err)
	}
	return &Planner{
		graph:    g,
		routing:  cfg.RoutingOptions(logger),
		alpha:    cfg.Routing.ChoiceAlpha,
		sim:      s,
		warnings: config.CheckCoverage(d, g, logger),
		logger:   logger,
		rng:      rand.New(rand.NewSource(cfg.Routing.Seed)),
	}, nil
}

// Graph returns the graph of the planner.
func (p *Planner) Graph() *network.Graph {
	return p.graph
}

// Warnings returns the configuration warnings found for the graph.
func (p *Planner) Warnings() []sim.ConfigurationWarning {
	return p.warnings
}

// Routes returns the RouteSet from start to end.
func (p *Planner) Routes(start string, end string) (*routing.RouteSet, error) {
	gen, err := routing.NewGenerator(p.graph, p.routing)
	if err != nil {
		return nil, err
	}
	return gen.Generate(start, end)
}

// Choose returns the index of a route of rs picked at random.
func (p *Planner) Choose(rs *routing.RouteSet) (int, error) {
	c, err := routing.NewChooser(rs, p.alpha)
	if err != nil {
		return 0, err
	}
	p.mu.Lock()
	roll := p.rng.Float64()
	p.mu.Unlock()

	r, err := c.Choose(roll)
	if err != nil {
		return 0, err
	}
	for i, o := range rs.Routes {
		if o == r {
			return i, nil
		}
	}
	return 0, fmt.Errorf("chosen route not in set")
}

// Simulate generates the routes from start to end and simulates the
// traversal of one of them. If pick is negative, the route is chosen at
// random, otherwise pick is the index of the route in the set. The report
// is returned with the travel log even when the simulation fails.
func (p *Planner) Simulate(ctx context.Context, start string, end string, pick int) (*output.Report, error) {
	rs, err := p.Routes(start, end)
	if err != nil {
		return nil, err
	}
	if pick < 0 {
		if pick, err = p.Choose(rs); err != nil {
			return nil, err
		}
	}
	if pick >= rs.Len() {
		return nil, fmt.Errorf("%w: route %d, only %d routes from %q to %q", ErrRouteOutOfRange, pick, rs.Len(), start, end)
	}

	report := &output.Report{
		Routes:   output.Summarize(rs),
		Chosen:   pick,
		Warnings: p.warnings,
	}
	p.logger.Info("simulating route", "start", start, "end", end, "route", pick, "cost", rs.Routes[pick].Cost())

	res, err := p.Run(ctx, rs.Routes[pick])
	report.Result = res
	if err != nil {
		report.Error = err.Error()
		return report, err
	}
	return report, nil
}

// Run simulates the traversal of r.
func (p *Planner) Run(ctx context.Context, r *route.Route) (*sim.Result, error) {
	res, err := p.sim.Run(ctx, r)
	if err != nil {
		p.logger.Error("simulation failed", "start", r.Start(), "end", r.End(), "days", res.Days(), "error", err)
	}
	return res, err
}
