package network

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
)

// Metric tells how distances between positions are measured.
type Metric int8

const (
	// Planar positions are cartesian coordinates in the unit of edge
	// lengths and heights.
	Planar Metric = iota

	// Geographic positions are (longitude, latitude) in degrees. Distances
	// are in meters on the earth's surface.
	Geographic
)

func (m Metric) String() string {
	if m == Geographic {
		return "geographic"
	}
	return "planar"
}

// Distance returns the distance between a and b.
func (m Metric) Distance(a orb.Point, b orb.Point) float64 {
	if m == Geographic {
		return geo.Distance(a, b)
	}
	return planar.Distance(a, b)
}

// Length returns the length of ls.
func (m Metric) Length(ls orb.LineString) float64 {
	if m == Geographic {
		return geo.Length(ls)
	}
	return planar.Length(ls)
}

// Option configures Build.
type Option func(g *Graph)

// WithMetric measures hub and geometry distances with m. Graphs are planar
// by default.
func WithMetric(m Metric) Option {
	return func(g *Graph) {
		g.metric = m
	}
}
