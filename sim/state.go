package sim

import "time"

// State is the state of a simulation run.
type State int

const (
	Idle State = iota
	Traveling
	DayComplete
	RouteComplete
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Traveling:
		return "traveling"
	case DayComplete:
		return "day_complete"
	case RouteComplete:
		return "route_complete"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// DayRecord is one entry of the travel log.
type DayRecord struct {
	Day  int       `json:"day"`
	Date time.Time `json:"date"`

	// Hub is the last hub reached. If the day ended on an edge, Edge and
	// Offset tell where the agent stopped.
	Hub    string  `json:"hub"`
	Edge   string  `json:"edge,omitempty"`
	Offset float64 `json:"offset,omitempty"`

	DayDistance float64 `json:"day_distance"`
	DayTime     float64 `json:"day_time"`
	Distance    float64 `json:"distance"` // cumulative
	Time        float64 `json:"time"`     // cumulative

	Overnight bool `json:"overnight"`
}

// Result is the outcome of a run. Failed runs still carry the days
// simulated until the failure.
type Result struct {
	Start    string                 `json:"start"`
	End      string                 `json:"end"`
	Edges    []string               `json:"edges"`
	State    State                  `json:"state"`
	Log      []DayRecord            `json:"log"`
	Distance float64                `json:"distance"`
	Time     float64                `json:"time"`
	Warnings []ConfigurationWarning `json:"warnings,omitempty"`
}

// Days returns the number of days in the log.
func (r *Result) Days() int {
	return len(r.Log)
}

// Last returns the last record of the log and false if the log is empty.
func (r *Result) Last() (DayRecord, bool) {
	if len(r.Log) == 0 {
		return DayRecord{}, false
	}
	return r.Log[len(r.Log)-1], true
}
