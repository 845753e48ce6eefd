package routing

import (
	"math"

	"github.com/rhartert/sparsesets"
	"github.com/rhartert/tradeways/network"
	"github.com/rhartert/yagh"
)

// searcher runs A* searches on a graph. Its buffers are reused from one
// search to the next, so a searcher must not be shared between goroutines.
type searcher struct {
	graph  *network.Graph
	costs  []float64
	prevs  []network.Leg // leg used to reach each hub, Edge == -1 if none
	closed *sparsesets.Set
}

func newSearcher(g *network.Graph) *searcher {
	return &searcher{
		graph:  g,
		costs:  make([]float64, g.NumHubs()),
		prevs:  make([]network.Leg, g.NumHubs()),
		closed: sparsesets.New(g.NumHubs()),
	}
}

// shortest returns the legs of the cheapest path from src to dst where the
// cost of each leg is given by weight. The second value is false if dst
// cannot be reached.
//
// The search is an A* guided by the graph's heuristic which is consistent
// for any non-negative weight at least equal to the base cost of the leg.
// Hubs are therefore final once popped. A path only replaces the best known
// path to a hub if it is strictly cheaper, so that among paths of equal cost
// the first one discovered is kept.
func (s *searcher) shortest(src int, dst int, weight func(network.Leg) float64) ([]network.Leg, bool) {
	g := s.graph
	for i := range s.costs {
		s.costs[i] = math.Inf(1)
		s.prevs[i] = network.Leg{Edge: -1}
	}
	s.closed.Clear()

	h := yagh.New[float64](g.NumHubs())
	h.Put(src, g.Heuristic(src, dst))
	s.costs[src] = 0

	for h.Size() > 0 {
		entry := h.Pop()
		u := entry.Elem
		if u == dst {
			break
		}
		s.closed.Insert(u)

		for _, l := range g.Nexts(u) {
			v := g.Edge(l.Edge).To(l.Dir)
			if s.closed.Contains(v) {
				continue
			}

			// Path src -> u -> v is not better than the best known path.
			newCost := s.costs[u] + weight(l)
			if s.costs[v] <= newCost {
				continue
			}

			s.costs[v] = newCost
			s.prevs[v] = l
			h.Put(v, newCost+g.Heuristic(v, dst))
		}
	}

	if math.IsInf(s.costs[dst], 1) {
		return nil, false
	}

	legs := []network.Leg{}
	for v := dst; v != src; {
		l := s.prevs[v]
		legs = append(legs, l)
		v = g.Edge(l.Edge).From(l.Dir)
	}
	for i, j := 0, len(legs)-1; i < j; i, j = i+1, j-1 {
		legs[i], legs[j] = legs[j], legs[i]
	}
	return legs, true
}
