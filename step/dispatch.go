package step

import (
	"github.com/rhartert/tradeways/condition"
	"github.com/rhartert/tradeways/network"
)

// Entry is a policy guarded by a condition.
type Entry struct {
	Name      string
	Condition condition.Condition
	Policy    Policy
}

// Dispatcher applies the first entry whose condition matches the leg. Later
// entries are never consulted, even if their condition also matches.
type Dispatcher struct {
	entries []Entry
}

// NewDispatcher returns a dispatcher trying the entries in the given order.
func NewDispatcher(entries ...Entry) *Dispatcher {
	return &Dispatcher{entries: entries}
}

// Entries returns the entries of the dispatcher in order.
func (d *Dispatcher) Entries() []Entry {
	return d.entries
}

// Match returns the index of the first entry matching the leg, or -1.
func (d *Dispatcher) Match(in Input) int {
	attrs := condition.Leg{Edge: in.Edge, Dir: in.Dir, From: in.From}
	for i, e := range d.entries {
		if e.Condition.Matches(attrs) {
			return i
		}
	}
	return -1
}

// Dispatch applies the first matching policy to the leg and returns its
// progress and name. The last value is false if no policy matches, in which
// case no progress is made.
func (d *Dispatcher) Dispatch(in Input) (Progress, string, bool) {
	i := d.Match(in)
	if i < 0 {
		return Progress{}, "", false
	}
	e := d.entries[i]
	return e.Policy.Step(in), e.Name, true
}

// Uncovered returns the edge types, among types, that no entry accepts
// based on its type clauses alone.
func (d *Dispatcher) Uncovered(types []network.EdgeType) []network.EdgeType {
	var out []network.EdgeType
	for _, t := range types {
		attrs := condition.Map{"types": string(t), "type": string(t)}
		covered := false
		for _, e := range d.entries {
			if e.Condition.Only("types", "type").Matches(attrs) {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, t)
		}
	}
	return out
}
