package network

import (
	"fmt"
	"math"
)

// Graph is the read-only adjacency structure over hubs and edges. It must not
// be modified after Build; callers needing a different network rebuild it.
// A Graph can be shared by any number of concurrent readers.
type Graph struct {
	hubs      []Hub
	edges     []Edge
	index     map[string]int
	edgeIndex map[string]int

	// nexts[h] lists the legs that can be taken from hub h, in edge order.
	nexts [][]Leg

	metric Metric

	// costPerDistance is the smallest ratio between the cost of a leg and
	// the straight-line distance between its endpoints. Multiplying a
	// distance by this ratio never overestimates the cost of reaching it.
	costPerDistance float64
}

// Build creates a graph from the given hubs and edges. The slices are copied.
// Distances are planar unless WithMetric says otherwise.
// An *IntegrityError is returned if an edge references an unknown hub, if ids
// are duplicated or if a cost is negative or not a number.
func Build(hubs []Hub, edges []Edge, opts ...Option) (*Graph, error) {
	g := &Graph{
		hubs:      make([]Hub, len(hubs)),
		edges:     make([]Edge, len(edges)),
		index:     make(map[string]int, len(hubs)),
		edgeIndex: make(map[string]int, len(edges)),
		nexts:     make([][]Leg, len(hubs)),
	}
	for _, opt := range opts {
		opt(g)
	}

	for i, h := range hubs {
		if h.ID == "" {
			return nil, &IntegrityError{Reason: fmt.Sprintf("hub at position %d has no id", i)}
		}
		if _, ok := g.index[h.ID]; ok {
			return nil, &IntegrityError{Hub: h.ID, Reason: "duplicate hub id"}
		}
		g.hubs[i] = h
		g.index[h.ID] = i
	}

	for i, e := range edges {
		if e.ID == "" {
			return nil, &IntegrityError{Edge: fmt.Sprintf("#%d", i), Reason: "edge has no id"}
		}
		if _, ok := g.edgeIndex[e.ID]; ok {
			return nil, &IntegrityError{Edge: e.ID, Reason: "duplicate edge id"}
		}
		a, ok := g.index[e.HubA]
		if !ok {
			return nil, &IntegrityError{Edge: e.ID, Hub: e.HubA, Reason: "unknown hub"}
		}
		b, ok := g.index[e.HubB]
		if !ok {
			return nil, &IntegrityError{Edge: e.ID, Hub: e.HubB, Reason: "unknown hub"}
		}
		if a == b {
			return nil, &IntegrityError{Edge: e.ID, Hub: e.HubA, Reason: "edge starts and ends at the same hub"}
		}
		if !validCost(e.CostAB) || !validCost(e.CostBA) {
			return nil, &IntegrityError{Edge: e.ID, Reason: "costs must be finite and non-negative"}
		}
		if len(e.Heights) != 0 && len(e.Heights) != len(e.Geometry) {
			return nil, &IntegrityError{Edge: e.ID, Reason: "heights and geometry differ in length"}
		}

		e.metric = g.metric
		if e.Length <= 0 && len(e.Geometry) < 2 {
			e.Length = g.metric.Distance(g.hubs[a].Position, g.hubs[b].Position)
		}

		e.a, e.b = a, b
		g.edges[i] = e
		g.edgeIndex[e.ID] = i
		g.nexts[a] = append(g.nexts[a], Leg{Edge: i, Dir: Forward})
		g.nexts[b] = append(g.nexts[b], Leg{Edge: i, Dir: Backward})
	}

	g.costPerDistance = g.minCostPerDistance()
	return g, nil
}

func validCost(c float64) bool {
	return c >= 0 && !math.IsInf(c, 0) && !math.IsNaN(c)
}

// minCostPerDistance computes the heuristic scale. It is zero as soon as one
// leg joins two hubs at the same position or costs nothing, in which case
// the heuristic degrades to plain Dijkstra.
func (g *Graph) minCostPerDistance() float64 {
	ratio := math.Inf(1)
	for i := range g.edges {
		e := &g.edges[i]
		d := g.metric.Distance(g.hubs[e.a].Position, g.hubs[e.b].Position)
		if d == 0 {
			return 0
		}
		ratio = min(ratio, e.CostAB/d, e.CostBA/d)
	}
	if math.IsInf(ratio, 1) {
		return 0
	}
	return ratio
}

// Metric returns the metric distances are measured with.
func (g *Graph) Metric() Metric {
	return g.metric
}

// NumHubs returns the number of hubs in the graph.
func (g *Graph) NumHubs() int {
	return len(g.hubs)
}

// NumEdges returns the number of edges in the graph.
func (g *Graph) NumEdges() int {
	return len(g.edges)
}

// Hub returns the hub at index i.
func (g *Graph) Hub(i int) *Hub {
	return &g.hubs[i]
}

// Edge returns the edge at index i.
func (g *Graph) Edge(i int) *Edge {
	return &g.edges[i]
}

// HubIndex returns the index of the hub with the given id.
func (g *Graph) HubIndex(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// EdgeIndex returns the index of the edge with the given id.
func (g *Graph) EdgeIndex(id string) (int, bool) {
	i, ok := g.edgeIndex[id]
	return i, ok
}

// HubByID returns the hub with the given id or nil if there is none.
func (g *Graph) HubByID(id string) *Hub {
	if i, ok := g.index[id]; ok {
		return &g.hubs[i]
	}
	return nil
}

// Hubs returns the hubs of the graph.
//
// Important: the slice is a view on the graph's internal structure and
// should only be used in read-only operations.
func (g *Graph) Hubs() []Hub {
	return g.hubs
}

// Neighbors returns the legs usable from the hub with the given id, or nil if
// the hub does not exist.
//
// Important: the slice is a view on the graph's internal structure and
// should only be used in read-only operations.
func (g *Graph) Neighbors(hubID string) []Leg {
	if i, ok := g.index[hubID]; ok {
		return g.nexts[i]
	}
	return nil
}

// Nexts returns the legs usable from the hub at index h.
func (g *Graph) Nexts(h int) []Leg {
	return g.nexts[h]
}

// EdgeTypes returns the distinct edge types present in the graph, in order of
// first appearance.
func (g *Graph) EdgeTypes() []EdgeType {
	seen := map[EdgeType]bool{}
	types := []EdgeType{}
	for i := range g.edges {
		t := g.edges[i].Type
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	return types
}

// Heuristic returns a lower bound of the cost of going from hub u to hub v.
// The bound is consistent: for every leg (u, w), Heuristic(u, v) is at most
// the cost of the leg plus Heuristic(w, v).
func (g *Graph) Heuristic(u int, v int) float64 {
	if g.costPerDistance == 0 {
		return 0
	}
	return g.costPerDistance * g.metric.Distance(g.hubs[u].Position, g.hubs[v].Position)
}
