// Package route provides the Route value type: an ordered walk of directed
// legs through a network.
package route

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rhartert/tradeways/network"
)

// Route is a connected walk between two hubs of a graph.
//
// A Route respects the following invariants:
//
//   - Start hub: the departure hub of the first leg
//   - End hub: the arrival hub of the last leg
//   - Connected: the arrival hub of each leg is the departure hub of the next
//
// A route without legs starts and ends at the same hub. Routes are immutable;
// operations such as Reverse return a new Route.
type Route struct {
	graph *network.Graph
	start int
	legs  []network.Leg
	cost  float64
}

// New instantiates a route starting at hub start and following legs. It
// returns an error if the legs are not connected or do not exist.
func New(g *network.Graph, start string, legs []network.Leg) (*Route, error) {
	s, ok := g.HubIndex(start)
	if !ok {
		return nil, fmt.Errorf("route: unknown start hub %q", start)
	}
	at := s
	cost := 0.0
	for i, l := range legs {
		if l.Edge < 0 || g.NumEdges() <= l.Edge {
			return nil, fmt.Errorf("route: leg %d references unknown edge %d", i, l.Edge)
		}
		e := g.Edge(l.Edge)
		if e.From(l.Dir) != at {
			return nil, fmt.Errorf("route: leg %d (edge %q) does not depart from hub %q", i, e.ID, g.Hub(at).ID)
		}
		at = e.To(l.Dir)
		cost += e.Cost(l.Dir)
	}
	return &Route{
		graph: g,
		start: s,
		legs:  slices.Clone(legs),
		cost:  cost,
	}, nil
}

// Graph returns the graph the route lives in.
func (r *Route) Graph() *network.Graph {
	return r.graph
}

// Len returns the number of legs of the route.
func (r *Route) Len() int {
	return len(r.legs)
}

// Leg returns the leg at position pos.
func (r *Route) Leg(pos int) network.Leg {
	return r.legs[pos]
}

// Legs returns the legs of the route.
//
// Important: the slice is a view on the route's internal structure and
// should only be used in read-only operations.
func (r *Route) Legs() []network.Leg {
	return r.legs
}

// Edge returns the edge traversed at position pos.
func (r *Route) Edge(pos int) *network.Edge {
	return r.graph.Edge(r.legs[pos].Edge)
}

// Start returns the id of the first hub.
func (r *Route) Start() string {
	return r.graph.Hub(r.start).ID
}

// End returns the id of the last hub.
func (r *Route) End() string {
	return r.graph.Hub(r.hubIndex(len(r.legs))).ID
}

// Cost returns the sum of the direction-resolved base costs of the legs.
func (r *Route) Cost() float64 {
	return r.cost
}

// Departure returns the index of the hub leg pos departs from.
func (r *Route) Departure(pos int) int {
	return r.hubIndex(pos)
}

// Arrival returns the index of the hub leg pos arrives at.
func (r *Route) Arrival(pos int) int {
	return r.hubIndex(pos + 1)
}

func (r *Route) hubIndex(pos int) int {
	if pos == 0 {
		return r.start
	}
	l := r.legs[pos-1]
	return r.graph.Edge(l.Edge).To(l.Dir)
}

// Hubs returns the ids of the hubs visited by the route, start and end
// included.
func (r *Route) Hubs() []string {
	ids := make([]string, 0, len(r.legs)+1)
	for i := 0; i <= len(r.legs); i++ {
		ids = append(ids, r.graph.Hub(r.hubIndex(i)).ID)
	}
	return ids
}

// EdgeIDs returns the ids of the edges of the route in travel order.
func (r *Route) EdgeIDs() []string {
	ids := make([]string, len(r.legs))
	for i, l := range r.legs {
		ids[i] = r.graph.Edge(l.Edge).ID
	}
	return ids
}

// Reverse returns the same walk travelled from end to start. The cost of the
// reversed route uses the opposite direction of each edge and can differ.
func (r *Route) Reverse() *Route {
	n := len(r.legs)
	legs := make([]network.Leg, n)
	cost := 0.0
	for i, l := range r.legs {
		rl := network.Leg{Edge: l.Edge, Dir: l.Dir.Reverse()}
		legs[n-1-i] = rl
		cost += r.graph.Edge(l.Edge).Cost(rl.Dir)
	}
	return &Route{
		graph: r.graph,
		start: r.hubIndex(n),
		legs:  legs,
		cost:  cost,
	}
}

// SameEdges returns true if both routes use exactly the same set of edges,
// regardless of order and direction.
func (r *Route) SameEdges(o *Route) bool {
	return slices.Equal(r.edgeSet(), o.edgeSet())
}

func (r *Route) edgeSet() []int {
	set := make([]int, len(r.legs))
	for i, l := range r.legs {
		set[i] = l.Edge
	}
	slices.Sort(set)
	return slices.Compact(set)
}

// String returns a representation of the route as a sequence of hubs and
// edges. For example: "A -[ab]-> B -[bc]-> C".
func (r *Route) String() string {
	sb := strings.Builder{}
	sb.WriteString(r.graph.Hub(r.start).ID)
	for i, l := range r.legs {
		e := r.graph.Edge(l.Edge)
		sb.WriteString(fmt.Sprintf(" -[%s]-> %s", e.ID, r.graph.Hub(r.hubIndex(i+1)).ID))
	}
	return sb.String()
}
