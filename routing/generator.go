// Package routing generates sets of alternative routes between two hubs.
//
// The generator repeatedly searches for the shortest path while making the
// edges of already accepted routes more expensive, one search per route.
package routing

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/rhartert/sparsesets"
	"github.com/rhartert/tradeways/logging"
	"github.com/rhartert/tradeways/network"
	"github.com/rhartert/tradeways/network/route"
)

// DefaultPenaltyFactor is the smallest penalty factor used when none is
// configured.
const DefaultPenaltyFactor = 1.1

// Options configures a Generator.
type Options struct {
	// MaximumRoutes bounds the number of routes in a RouteSet. Zero means
	// that only the cost ratio bounds the set.
	MaximumRoutes int

	// MaximumDifferenceFromShortest is the largest allowed ratio between the
	// cost of a route and the cost of the shortest route. Values lower than
	// or equal to 1 disable diversification: only the shortest route is
	// returned.
	MaximumDifferenceFromShortest float64

	// PenaltyFactor multiplies the cost of an edge each time an accepted
	// route uses it. If not greater than 1, the factor defaults to the
	// largest of MaximumDifferenceFromShortest and DefaultPenaltyFactor.
	PenaltyFactor float64

	// Logger receives debug information on accepted and rejected routes.
	// Nothing is logged if nil.
	Logger *slog.Logger
}

func (o Options) penaltyFactor() float64 {
	if o.PenaltyFactor > 1 {
		return o.PenaltyFactor
	}
	return max(o.MaximumDifferenceFromShortest, DefaultPenaltyFactor)
}

// NoRouteError is returned when two hubs are not connected or do not exist.
type NoRouteError struct {
	Start  string
	End    string
	Reason string
}

func (e *NoRouteError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("no route from %q to %q", e.Start, e.End)
	}
	return fmt.Sprintf("no route from %q to %q: %s", e.Start, e.End, e.Reason)
}

// Generator produces RouteSets on a graph. A Generator keeps search buffers
// and penalty counters between calls and must not be used concurrently;
// create one Generator per goroutine, they can all share the same graph.
type Generator struct {
	graph     *network.Graph
	opts      Options
	search    *searcher
	penalties *Penalties
	edges     *sparsesets.Set // edges of the route being penalised
	logger    *slog.Logger
}

// NewGenerator returns a generator of routes on graph g.
func NewGenerator(g *network.Graph, opts Options) (*Generator, error) {
	if opts.MaximumRoutes < 0 {
		return nil, fmt.Errorf("maximum routes must be non-negative, got %d", opts.MaximumRoutes)
	}
	return &Generator{
		graph:     g,
		opts:      opts,
		search:    newSearcher(g),
		penalties: NewPenalties(g.NumEdges(), opts.penaltyFactor()),
		edges:     sparsesets.New(g.NumEdges()),
		logger:    logging.OrDiscard(opts.Logger),
	}, nil
}

// Generate returns the RouteSet from hub start to hub end. A *NoRouteError
// is returned if end cannot be reached from start.
//
// Running Generate twice with the same graph and options yields the same
// RouteSet.
func (gen *Generator) Generate(start string, end string) (*RouteSet, error) {
	src, ok := gen.graph.HubIndex(start)
	if !ok {
		return nil, &NoRouteError{Start: start, End: end, Reason: fmt.Sprintf("unknown hub %q", start)}
	}
	dst, ok := gen.graph.HubIndex(end)
	if !ok {
		return nil, &NoRouteError{Start: start, End: end, Reason: fmt.Sprintf("unknown hub %q", end)}
	}

	gen.penalties.Reset()

	baseCost := func(l network.Leg) float64 {
		return gen.graph.Edge(l.Edge).Cost(l.Dir)
	}
	penalisedCost := func(l network.Leg) float64 {
		return baseCost(l) * gen.penalties.Multiplier(l.Edge)
	}

	legs, found := gen.search.shortest(src, dst, baseCost)
	if !found {
		return nil, &NoRouteError{Start: start, End: end}
	}
	shortest, err := route.New(gen.graph, start, legs)
	if err != nil {
		return nil, fmt.Errorf("building shortest route: %w", err)
	}

	rs := &RouteSet{
		Start:    start,
		End:      end,
		Shortest: shortest.Cost(),
		Routes:   []*route.Route{shortest},
	}
	gen.logger.Debug("shortest route", "start", start, "end", end, "cost", shortest.Cost(), "legs", shortest.Len())

	ratio := gen.opts.MaximumDifferenceFromShortest
	if ratio <= 1 || gen.opts.MaximumRoutes == 1 {
		return rs, nil
	}
	maxCost := ratio * rs.Shortest

	gen.penalise(shortest)
	for gen.opts.MaximumRoutes == 0 || rs.Len() < gen.opts.MaximumRoutes {
		legs, found := gen.search.shortest(src, dst, penalisedCost)
		if !found {
			break
		}
		r, err := route.New(gen.graph, start, legs)
		if err != nil {
			return nil, fmt.Errorf("building alternative route: %w", err)
		}

		if r.Cost() > maxCost {
			gen.logger.Debug("alternative route too expensive", "cost", r.Cost(), "max_cost", maxCost)
			break
		}
		if rs.contains(r) {
			gen.logger.Debug("no further diversification", "routes", rs.Len())
			break
		}

		rs.Routes = append(rs.Routes, r)
		gen.penalise(r)
		gen.logger.Debug("alternative route", "cost", r.Cost(), "legs", r.Len(), "routes", rs.Len())
	}

	// Stable so that routes of equal cost stay in discovery order.
	sort.SliceStable(rs.Routes, func(i, j int) bool {
		return rs.Routes[i].Cost() < rs.Routes[j].Cost()
	})
	return rs, nil
}

// penalise counts one use of each distinct edge of r.
func (gen *Generator) penalise(r *route.Route) {
	gen.edges.Clear()
	for _, l := range r.Legs() {
		if gen.edges.Contains(l.Edge) {
			continue
		}
		gen.edges.Insert(l.Edge)
		gen.penalties.Use(l.Edge)
	}
}
