package sim

import "fmt"

// StalledSimulationError is returned when a run stops making progress: too
// many steps on the same edge and day, or too many days in a row without
// moving.
type StalledSimulationError struct {
	Edge       string
	Day        int
	Hub        string
	Iterations int
	Reason     string
}

func (e *StalledSimulationError) Error() string {
	return fmt.Sprintf("simulation stalled on edge %q near hub %q on day %d after %d iterations: %s",
		e.Edge, e.Hub, e.Day, e.Iterations, e.Reason)
}

// ConfigurationWarning reports a configuration that can prevent progress,
// typically an edge type no step policy applies to. Warnings are logged and
// collected, never returned as errors.
type ConfigurationWarning struct {
	Edge     string `json:"edge,omitempty"`
	EdgeType string `json:"edge_type"`
	Reason   string `json:"reason"`
}

func (w ConfigurationWarning) String() string {
	if w.Edge == "" {
		return fmt.Sprintf("edge type %q: %s", w.EdgeType, w.Reason)
	}
	return fmt.Sprintf("edge %q (%s): %s", w.Edge, w.EdgeType, w.Reason)
}
