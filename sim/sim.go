// Package sim walks an agent along a route, day by day, using step policies
// to compute how far it gets and how long it takes.
//
// Each day follows the same cycle:
//
//	Idle -> Traveling -> DayComplete -> Traveling -> ... -> RouteComplete
//
// prepare_day hooks run when a day begins, define_state hooks each time the
// agent starts moving on a leg. A run that stops making progress ends in
// the Aborted state with a *StalledSimulationError.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rhartert/tradeways/logging"
	"github.com/rhartert/tradeways/network/route"
	"github.com/rhartert/tradeways/step"
)

// Defaults for Options.
const (
	DefaultBreakSimulationAfter = 100
	DefaultDayStart             = 8.0
	DefaultDayEnd               = 16.0
)

// eps is the time below which a day is considered over, and the distance,
// relative to the edge length, below which an edge is considered fully
// traversed.
const eps = 1e-9

// Options configures a Simulator.
type Options struct {
	PrepareDay  []PrepareDayHook
	DefineState []DefineStateHook

	// BreakSimulationAfter is the number of steps on the same edge and day,
	// and the number of consecutive days without progress, after which a
	// run is aborted. Defaults to DefaultBreakSimulationAfter.
	BreakSimulationAfter int

	// StartDate is the date of the first day.
	StartDate time.Time

	// DayStart and DayEnd bound the travel window of each day in hours.
	// They default to 8 and 16.
	DayStart float64
	DayEnd   float64

	Logger *slog.Logger
}

// Simulator runs agents along routes. A Simulator holds no per-run state
// and can run any number of routes concurrently provided its hooks and
// policies are stateless.
type Simulator struct {
	dispatcher *step.Dispatcher
	opts       Options
	logger     *slog.Logger
}

// New returns a simulator applying the policies of d.
func New(d *step.Dispatcher, opts Options) (*Simulator, error) {
	if opts.BreakSimulationAfter < 0 {
		return nil, fmt.Errorf("break_simulation_after must be non-negative, got %d", opts.BreakSimulationAfter)
	}
	if opts.BreakSimulationAfter == 0 {
		opts.BreakSimulationAfter = DefaultBreakSimulationAfter
	}
	if opts.DayStart == 0 && opts.DayEnd == 0 {
		opts.DayStart, opts.DayEnd = DefaultDayStart, DefaultDayEnd
	}
	if opts.DayStart < 0 || opts.DayEnd > 24 || opts.DayEnd <= opts.DayStart {
		return nil, fmt.Errorf("invalid day window [%g, %g]", opts.DayStart, opts.DayEnd)
	}
	return &Simulator{dispatcher: d, opts: opts, logger: logging.OrDiscard(opts.Logger)}, nil
}

// Run simulates the traversal of r. The returned result holds the travel
// log even when an error is returned. Cancellation of ctx is checked at the
// beginning of each day.
func (s *Simulator) Run(ctx context.Context, r *route.Route) (*Result, error) {
	c := newContext(r, s.opts, s.logger)
	res := &Result{
		Start: r.Start(),
		End:   r.End(),
		Edges: r.EdgeIDs(),
		State: Idle,
		Log:   []DayRecord{},
	}
	run := &run{sim: s, ctx: c, res: res, warned: map[string]bool{}}

	if c.Done() {
		res.State = RouteComplete
		return res, nil
	}

	idleDays := 0
	for {
		if err := ctx.Err(); err != nil {
			res.State = Aborted
			return res, fmt.Errorf("simulation cancelled on day %d: %w", c.Day, err)
		}

		c.beginDay()
		for _, h := range s.opts.PrepareDay {
			h.PrepareDay(c)
		}
		res.State = Traveling

		err := run.travel()
		run.endDay()
		if err != nil {
			res.State = Aborted
			return res, err
		}
		if c.Done() {
			res.State = RouteComplete
			s.logger.Info("route complete", "days", res.Days(), "distance", res.Distance, "time", res.Time)
			return res, nil
		}
		res.State = DayComplete

		if c.DayDistance > eps {
			idleDays = 0
		} else {
			idleDays++
		}
		if idleDays > s.opts.BreakSimulationAfter {
			res.State = Aborted
			return res, run.stalled(idleDays, "no distance covered for too many days")
		}
		c.Day++
	}
}

// run holds the bookkeeping of one call to Run.
type run struct {
	sim    *Simulator
	ctx    *Context
	res    *Result
	warned map[string]bool // edges already reported as uncovered
}

// travel moves the agent until the day ends or the route is complete.
func (r *run) travel() error {
	c := r.ctx
	limit := r.sim.opts.BreakSimulationAfter
	iterations := 0

	for !c.Done() {
		// A leg entered at the very end of the day is only started the
		// next morning.
		if c.StopHere || c.Budget() <= eps {
			return nil
		}
		c.newLeg = c.Leg > c.entered
		c.entered = c.Leg
		for _, h := range r.sim.opts.DefineState {
			h.DefineState(c)
		}
		if c.StopHere || c.Budget() <= eps {
			return nil
		}

		for {
			in := c.input()
			p, name, ok := r.sim.dispatcher.Dispatch(in)
			iterations++
			if !ok {
				r.warn(in)
			}

			dist := min(max(p.Distance, 0), step.Remaining(in))
			c.Offset += dist
			c.DayDistance += dist
			c.Distance += dist
			c.Spend(p.Time)
			logging.Trace(r.sim.logger, "step",
				"day", c.Day, "edge", in.Edge.ID, "policy", name, "distance", dist, "time", p.Time, "clock", c.Clock)

			if legDone(c.input()) {
				r.sim.logger.Debug("leg complete", "day", c.Day, "edge", in.Edge.ID, "clock", c.Clock)
				c.Leg++
				c.Offset = 0
				iterations = 0
				break
			}
			if c.StopHere || c.Budget() <= eps {
				return nil
			}
			if iterations >= limit {
				return r.stalled(iterations, "no step completed the edge or the day")
			}
		}
	}
	return nil
}

// legDone reports whether the remaining distance on the leg is negligible
// compared to the edge length.
func legDone(in step.Input) bool {
	return step.Remaining(in) <= eps*max(1, in.Edge.GroundLength())
}

func (r *run) warn(in step.Input) {
	if r.warned[in.Edge.ID] {
		return
	}
	r.warned[in.Edge.ID] = true
	w := ConfigurationWarning{
		Edge:     in.Edge.ID,
		EdgeType: string(in.Edge.Type),
		Reason:   "no step policy matches",
	}
	r.res.Warnings = append(r.res.Warnings, w)
	r.sim.logger.Warn("configuration warning", "warning", w.String())
}

func (r *run) endDay() {
	c := r.ctx
	rec := c.record()
	r.res.Log = append(r.res.Log, rec)
	r.res.Distance = c.Distance
	r.res.Time = c.Time
	r.sim.logger.Info("day complete",
		"day", rec.Day, "hub", rec.Hub, "edge", rec.Edge, "distance", rec.DayDistance, "time", rec.DayTime, "overnight", rec.Overnight)
}

func (r *run) stalled(iterations int, reason string) error {
	c := r.ctx
	err := &StalledSimulationError{
		Day:        c.Day,
		Hub:        c.Hub().ID,
		Iterations: iterations,
		Reason:     reason,
	}
	if e := c.Edge(); e != nil {
		err.Edge = e.ID
	}
	r.sim.logger.Error("simulation stalled", "error", err)
	return err
}
