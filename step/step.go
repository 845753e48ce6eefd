// Package step computes how far an agent gets on an edge and how long it
// takes. Step policies are selected per leg by a Dispatcher.
package step

import (
	"github.com/rhartert/tradeways/network"
)

// Input describes the leg an agent is on.
type Input struct {
	Edge *network.Edge
	Dir  network.Direction
	From *network.Hub // departure hub of the leg

	// Offset is the distance already covered on the edge, measured in the
	// direction of travel.
	Offset float64

	// Budget is the time left in the current day.
	Budget float64
}

// Progress is the result of one step: the distance covered on the edge and
// the time it took. Time never exceeds the input budget.
type Progress struct {
	Distance float64
	Time     float64
}

// Policy computes the progress of an agent on a leg.
type Policy interface {
	Step(in Input) Progress
}

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc func(in Input) Progress

// Step implements Policy.
func (f PolicyFunc) Step(in Input) Progress {
	return f(in)
}

// segmentTime returns the time needed to travel the given length of a
// segment. It must be linear in length.
type segmentTime func(s network.Segment, length float64) float64

// walk travels the segments of the leg from in.Offset until the edge ends or
// the budget is spent. Within a segment, progress is linear in time. When
// the last segment is crossed, the distance is exactly what remained on the
// edge so that rounding in the segment lengths cannot leave a leg unfinished.
func walk(in Input, timeOf segmentTime) Progress {
	p := Progress{}
	start := 0.0
	for _, s := range in.Edge.Segments(in.Dir) {
		end := start + s.Length
		if end <= in.Offset {
			start = end
			continue
		}

		rem := end - max(start, in.Offset)
		t := timeOf(s, rem)
		left := in.Budget - p.Time
		if t <= left {
			p.Distance += rem
			p.Time += t
			start = end
			continue
		}

		// The day ends inside this segment.
		if t > 0 {
			p.Distance += rem * (left / t)
		}
		p.Time = in.Budget
		return p
	}
	p.Distance = Remaining(in)
	return p
}

// Remaining returns the distance left on the leg.
func Remaining(in Input) float64 {
	return max(in.Edge.GroundLength()-in.Offset, 0)
}
