// Package network holds the transport network the simulation runs on: hubs
// connected by road, river and lake edges whose cost depends on the direction
// of travel.
package network

import (
	"fmt"

	"github.com/paulmach/orb"
)

// EdgeType tags the kind of way an edge represents.
type EdgeType string

const (
	Road  EdgeType = "road"
	River EdgeType = "river"
	Lake  EdgeType = "lake"
)

// Direction is the way an edge is traversed. Forward goes from HubA to HubB
// and uses CostAB, Backward goes from HubB to HubA and uses CostBA.
type Direction int8

const (
	Forward Direction = iota
	Backward
)

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == Forward {
		return Backward
	}
	return Forward
}

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Hub is a node of the network (settlement, river junction, harbor).
type Hub struct {
	ID        string
	Position  orb.Point
	Elevation float64

	Overnight bool // agents can rest here
	Harbor    bool // interchange between land and water
	Market    bool
}

// Edge connects two hubs. Edges are stored undirected but each direction has
// its own cost, e.g. going down a river is cheaper than towing up.
type Edge struct {
	ID     string
	HubA   string
	HubB   string
	Type   EdgeType
	CostAB float64
	CostBA float64

	// Geometry is the 2D shape of the edge from HubA to HubB. Heights holds
	// the elevation of each geometry point and is either empty (flat edge) or
	// of the same length as Geometry.
	Geometry orb.LineString
	Heights  []float64

	// Length overrides the ground length computed from the geometry when it
	// is greater than zero.
	Length float64

	// Data holds auxiliary attributes such as roughness, width or flow.
	Data map[string]any

	a      int // index of HubA in the graph
	b      int // index of HubB in the graph
	metric Metric
}

// Cost returns the base cost of traversing the edge in direction d.
func (e *Edge) Cost(d Direction) float64 {
	if d == Backward {
		return e.CostBA
	}
	return e.CostAB
}

// From returns the index of the hub the edge departs from in direction d.
func (e *Edge) From(d Direction) int {
	if d == Backward {
		return e.b
	}
	return e.a
}

// To returns the index of the hub the edge arrives at in direction d.
func (e *Edge) To(d Direction) int {
	if d == Backward {
		return e.a
	}
	return e.b
}

// Leg is an edge together with the direction it is traversed in.
type Leg struct {
	Edge int
	Dir  Direction
}

// IntegrityError reports a network that cannot be built, typically an edge
// referencing a hub that does not exist.
type IntegrityError struct {
	Edge   string
	Hub    string
	Reason string
}

func (e *IntegrityError) Error() string {
	switch {
	case e.Edge != "" && e.Hub != "":
		return fmt.Sprintf("network integrity: edge %q references hub %q: %s", e.Edge, e.Hub, e.Reason)
	case e.Edge != "":
		return fmt.Sprintf("network integrity: edge %q: %s", e.Edge, e.Reason)
	default:
		return fmt.Sprintf("network integrity: hub %q: %s", e.Hub, e.Reason)
	}
}
