package sim

import (
	"log/slog"
	"time"

	"github.com/rhartert/tradeways/network"
	"github.com/rhartert/tradeways/network/route"
	"github.com/rhartert/tradeways/step"
)

// Context is the mutable state of one run. It is created by Run, handed to
// every hook, and must not be shared between runs.
type Context struct {
	Route *route.Route

	Leg    int     // index of the current leg
	Offset float64 // distance covered on the current leg

	Day  int       // day counter, starting at 0
	Date time.Time // date of the current day

	// The agent travels between DayStart and DayEnd (hours). Clock is the
	// current hour of the day.
	DayStart float64
	DayEnd   float64
	Clock    float64

	DayDistance float64
	DayTime     float64
	Distance    float64
	Time        float64

	// ForceOvernight marks the end of the day as an overnight stay even if
	// the hub is not an overnight hub. StopHere ends the day at the next
	// opportunity. Both are reset at the beginning of each day.
	ForceOvernight bool
	StopHere       bool

	// Values holds free-form state shared by hooks, e.g. the weather of the
	// day.
	Values map[string]any

	Logger *slog.Logger

	entered  int // last leg define_state hooks were run for
	newLeg   bool
	startDay time.Time
}

func newContext(r *route.Route, opts Options, logger *slog.Logger) *Context {
	return &Context{
		Route:    r,
		Date:     opts.StartDate,
		DayStart: opts.DayStart,
		DayEnd:   opts.DayEnd,
		Clock:    opts.DayStart,
		Values:   map[string]any{},
		Logger:   logger,
		entered:  -1,
		startDay: opts.StartDate,
	}
}

// Done reports whether the agent reached the end of the route.
func (c *Context) Done() bool {
	return c.Leg >= c.Route.Len()
}

// Budget returns the time left in the day.
func (c *Context) Budget() float64 {
	return max(c.DayEnd-c.Clock, 0)
}

// Spend consumes time without moving, e.g. to load goods.
func (c *Context) Spend(hours float64) {
	if hours <= 0 {
		return
	}
	c.Clock += hours
	c.DayTime += hours
	c.Time += hours
}

// NewLeg reports whether the agent is entering the current leg for the
// first time. It is only meaningful in define_state hooks.
func (c *Context) NewLeg() bool {
	return c.newLeg
}

// AtHub reports whether the agent stands at a hub rather than on an edge.
func (c *Context) AtHub() bool {
	return c.Done() || c.Offset == 0
}

// Hub returns the last hub reached.
func (c *Context) Hub() *network.Hub {
	// Departure of the leg past the last one is the end of the route.
	return c.Route.Graph().Hub(c.Route.Departure(c.Leg))
}

// Edge returns the edge of the current leg, or nil once the route is done.
func (c *Context) Edge() *network.Edge {
	if c.Done() {
		return nil
	}
	return c.Route.Edge(c.Leg)
}

// PreviousEdge returns the edge of the previous leg, or nil on the first
// leg.
func (c *Context) PreviousEdge() *network.Edge {
	if c.Leg == 0 || c.Leg > c.Route.Len() {
		return nil
	}
	return c.Route.Edge(c.Leg - 1)
}

func (c *Context) input() step.Input {
	leg := c.Route.Leg(c.Leg)
	return step.Input{
		Edge:   c.Route.Edge(c.Leg),
		Dir:    leg.Dir,
		From:   c.Hub(),
		Offset: c.Offset,
		Budget: c.Budget(),
	}
}

func (c *Context) record() DayRecord {
	rec := DayRecord{
		Day:         c.Day,
		Date:        c.Date,
		Hub:         c.Hub().ID,
		DayDistance: c.DayDistance,
		DayTime:     c.DayTime,
		Distance:    c.Distance,
		Time:        c.Time,
	}
	if !c.AtHub() {
		rec.Edge = c.Edge().ID
		rec.Offset = c.Offset
	}
	rec.Overnight = c.ForceOvernight || (c.AtHub() && c.Hub().Overnight)
	return rec
}

func (c *Context) beginDay() {
	c.Date = c.startDay.AddDate(0, 0, c.Day)
	c.Clock = c.DayStart
	c.DayDistance = 0
	c.DayTime = 0
	c.ForceOvernight = false
	c.StopHere = false
}
