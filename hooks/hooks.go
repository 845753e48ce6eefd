// Package hooks provides the prepare_day and define_state hooks shipped
// with tradeways.
package hooks

import (
	"math"

	"github.com/rhartert/tradeways/sim"
)

// DayWindow sets a fixed travel window for every day.
type DayWindow struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

// PrepareDay implements sim.PrepareDayHook.
func (w DayWindow) PrepareDay(c *sim.Context) {
	c.DayStart = w.Start
	c.DayEnd = w.End
	c.Clock = w.Start
}

// Daylight sets the travel window of each day to the daylight hours at the
// hub the agent starts from, shortened by paddings after sunrise and before
// sunset. Hub positions are read as (longitude, latitude) and times are
// local solar times.
type Daylight struct {
	StartPadding float64 `yaml:"start_padding"`
	EndPadding   float64 `yaml:"end_padding"`
}

// DefaultDaylight starts half an hour after sunrise and stops one hour
// before sunset.
func DefaultDaylight() Daylight {
	return Daylight{StartPadding: 0.5, EndPadding: 1}
}

// PrepareDay implements sim.PrepareDayHook.
func (d Daylight) PrepareDay(c *sim.Context) {
	sunrise, sunset := SunTimes(c.Hub().Position[1], c.Date.YearDay())
	start := sunrise + d.StartPadding
	end := sunset - d.EndPadding
	if end <= start {
		// Polar night, nobody travels.
		start, end = 12, 12
	}
	c.DayStart = start
	c.DayEnd = end
	c.Clock = start
}

// SunTimes returns the sunrise and sunset in local solar hours at the given
// latitude (degrees) on the given day of the year.
func SunTimes(latitude float64, yearDay int) (float64, float64) {
	const rad = math.Pi / 180
	decl := 23.44 * rad * math.Sin(2*math.Pi*float64(284+yearDay)/365)
	cosH := -math.Tan(latitude*rad) * math.Tan(decl)
	cosH = max(-1, min(1, cosH))
	half := math.Acos(cosH) / rad / 15 // half day length in hours
	return 12 - half, 12 + half
}

// LoadingDelay spends time when the agent switches between edge types, e.g.
// to move goods from a cart to a boat.
type LoadingDelay struct {
	Hours float64 `yaml:"hours"`
}

// DefaultLoadingDelay spends half an hour per change.
func DefaultLoadingDelay() LoadingDelay {
	return LoadingDelay{Hours: 0.5}
}

// DefineState implements sim.DefineStateHook.
func (l LoadingDelay) DefineState(c *sim.Context) {
	if !c.NewLeg() {
		return
	}
	prev := c.PreviousEdge()
	if prev == nil || prev.Type == c.Edge().Type {
		return
	}
	c.Spend(l.Hours)
	c.Logger.Debug("loading delay", "hub", c.Hub().ID, "from", prev.Type, "to", c.Edge().Type, "hours", l.Hours)
}

// ForceOvernight ends the day at the first overnight hub reached after a
// given hour, instead of risking to spend the night between two hubs.
type ForceOvernight struct {
	After float64 `yaml:"after"`
}

// DefineState implements sim.DefineStateHook.
func (f ForceOvernight) DefineState(c *sim.Context) {
	if !c.NewLeg() || c.Leg == 0 || c.Clock < f.After {
		return
	}
	if !c.Hub().Overnight {
		return
	}
	c.StopHere = true
	c.ForceOvernight = true
	c.Logger.Debug("forced overnight stay", "hub", c.Hub().ID, "clock", c.Clock)
}
