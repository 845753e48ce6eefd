package routing

import "math"

// Penalties counts, for each edge, how many accepted routes use it and turns
// that count into a cost multiplier. It lives next to the graph rather than in
// it so that the graph stays read-only.
type Penalties struct {
	factor float64
	uses   []int

	// An edge has been used in the current generation if savedAt[e] ==
	// timestamp. Incrementing the timestamp resets all the counters in O(1)
	// so the same store can serve many generations.
	savedAt   []uint
	timestamp uint
}

// NewPenalties returns a store for nEdges edges where an edge used n times
// costs factor^n times its base cost. The factor must be greater than 1.
func NewPenalties(nEdges int, factor float64) *Penalties {
	return &Penalties{
		factor:    factor,
		uses:      make([]int, nEdges),
		savedAt:   make([]uint, nEdges),
		timestamp: 1, // must be greater than the zero values in savedAt
	}
}

// Factor returns the per-use multiplier.
func (p *Penalties) Factor() float64 {
	return p.factor
}

// Uses returns the number of times the edge has been used since the last
// reset.
func (p *Penalties) Uses(edge int) int {
	if p.savedAt[edge] != p.timestamp {
		return 0
	}
	return p.uses[edge]
}

// Use records one more use of the edge.
func (p *Penalties) Use(edge int) {
	if p.savedAt[edge] != p.timestamp {
		p.uses[edge] = 0
		p.savedAt[edge] = p.timestamp
	}
	p.uses[edge] += 1
}

// Multiplier returns the factor applied to the base cost of the edge. It is
// 1 for unused edges and strictly increases with each use.
func (p *Penalties) Multiplier(edge int) float64 {
	n := p.Uses(edge)
	if n == 0 {
		return 1
	}
	return math.Pow(p.factor, float64(n))
}

// Reset forgets all recorded uses.
func (p *Penalties) Reset() {
	if p.timestamp != math.MaxUint {
		p.timestamp += 1
		return
	}
	p.timestamp = 1
	for i := range p.savedAt {
		p.savedAt[i] = 0
	}
}
