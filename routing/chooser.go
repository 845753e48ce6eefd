package routing

import (
	"fmt"
	"math"

	"github.com/rhartert/tradeways/network/route"
)

// Chooser selects one route of a RouteSet by roulette wheel selection. The
// likelihood P(r) of selecting route r is (C0 / cost(r))^alpha where C0 is
// the cost of the shortest route. High values of alpha make the cheapest
// routes more likely; alpha equal to zero results in uniform selection.
type Chooser struct {
	rs *RouteSet
	n  int
	// sumWeights represents a complete tree with n leaves. The root of the
	// tree is at index 1. The left child of a node at index i is at i*2, and
	// the right child at i*2+1. The weight of a parent is the sum of its
	// children's weights.
	sumWeights []float64
}

// NewChooser returns a chooser over the routes of rs.
func NewChooser(rs *RouteSet, alpha float64) (*Chooser, error) {
	if alpha < 0 {
		return nil, fmt.Errorf("parameter alpha must be non-negative, got: %f", alpha)
	}
	if rs.Len() == 0 {
		return nil, fmt.Errorf("cannot choose from an empty route set")
	}

	c := &Chooser{
		rs:         rs,
		n:          rs.Len(),
		sumWeights: make([]float64, rs.Len()*2),
	}
	for i, r := range rs.Routes {
		c.setWeight(i, routeWeight(rs.Shortest, r.Cost(), alpha))
	}
	return c, nil
}

func routeWeight(shortest float64, cost float64, alpha float64) float64 {
	if cost == 0 || shortest == 0 {
		return 1
	}
	return math.Pow(shortest/cost, alpha)
}

func (c *Chooser) setWeight(elem int, weight float64) {
	i := c.n + elem
	c.sumWeights[i] = weight
	for p := i / 2; p > 0; p = p / 2 {
		l := p * 2
		r := l + 1
		c.sumWeights[p] = c.sumWeights[l] + c.sumWeights[r]
	}
}

// Choose selects a route accordingly to random number roll in [0, 1). The
// same roll always selects the same route.
func (c *Chooser) Choose(roll float64) (*route.Route, error) {
	if roll < 0 || 1 <= roll {
		return nil, fmt.Errorf("roll must be a random number in [0, 1), got: %f", roll)
	}
	if c.n == 1 {
		return c.rs.Routes[0], nil
	}

	w := roll * c.sumWeights[1]
	i := 1
	for i < c.n {
		l := i * 2
		r := l + 1
		if w < c.sumWeights[l] {
			i = l
		} else {
			i = r
			w -= c.sumWeights[l]
		}
	}
	return c.rs.Routes[i-c.n], nil
}
