package config

import (
	"io"
	"log/slog"

	"github.com/rhartert/tradeways/logging"
	"github.com/rhartert/tradeways/network"
	"github.com/rhartert/tradeways/routing"
	"github.com/rhartert/tradeways/sim"
	"github.com/rhartert/tradeways/step"
)

// NewLogger returns the logger described by the logging section.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	if c.Logging.Format == "json" {
		return logging.NewJSONLogger(c.Logging.Level, w)
	}
	return logging.NewLogger(c.Logging.Level, w)
}

// RoutingOptions returns the options of the route generator.
func (c *Config) RoutingOptions(logger *slog.Logger) routing.Options {
	return routing.Options{
		MaximumRoutes:                 c.Routing.MaximumRoutes,
		MaximumDifferenceFromShortest: c.Routing.MaximumDifferenceFromShortest,
		PenaltyFactor:                 c.Routing.PenaltyFactor,
		Logger:                        logger,
	}
}

// Simulator builds the simulator described by the simulation section.
func (c *Config) Simulator(reg *Registries, logger *slog.Logger) (*sim.Simulator, *step.Dispatcher, error) {
	d, err := reg.Dispatcher(c.Simulation.Steps)
	if err != nil {
		return nil, nil, err
	}
	prepare, err := reg.PrepareDayHooks(c.Simulation.PrepareDay)
	if err != nil {
		return nil, nil, err
	}
	define, err := reg.DefineStateHooks(c.Simulation.DefineState)
	if err != nil {
		return nil, nil, err
	}
	start, err := c.StartDate()
	if err != nil {
		return nil, nil, err
	}
	s, err := sim.New(d, sim.Options{
		PrepareDay:           prepare,
		DefineState:          define,
		BreakSimulationAfter: c.Simulation.BreakSimulationAfter,
		StartDate:            start,
		DayStart:             c.Simulation.DayStart,
		DayEnd:               c.Simulation.DayEnd,
		Logger:               logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return s, d, nil
}

// CheckCoverage logs a configuration warning for each edge type of g that
// no step policy of d applies to. Such edges stall any simulation crossing
// them.
func CheckCoverage(d *step.Dispatcher, g *network.Graph, logger *slog.Logger) []sim.ConfigurationWarning {
	logger = logging.OrDiscard(logger)
	var warnings []sim.ConfigurationWarning
	for _, t := range d.Uncovered(g.EdgeTypes()) {
		w := sim.ConfigurationWarning{EdgeType: string(t), Reason: "no step policy covers this edge type"}
		logger.Warn("configuration warning", "warning", w.String())
		warnings = append(warnings, w)
	}
	return warnings
}
