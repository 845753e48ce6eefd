// Package output writes route sets and travel logs.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rhartert/tradeways/routing"
	"github.com/rhartert/tradeways/sim"
)

// RouteSummary describes one route of a RouteSet.
type RouteSummary struct {
	Index int      `json:"index"`
	Cost  float64  `json:"cost"`
	Ratio float64  `json:"ratio"` // cost over the cost of the shortest route
	Hubs  []string `json:"hubs"`
	Edges []string `json:"edges"`
}

// RouteSetSummary describes a RouteSet.
type RouteSetSummary struct {
	Start    string         `json:"start"`
	End      string         `json:"end"`
	Shortest float64        `json:"shortest"`
	Routes   []RouteSummary `json:"routes"`
}

// Summarize returns the summary of rs.
func Summarize(rs *routing.RouteSet) RouteSetSummary {
	s := RouteSetSummary{
		Start:    rs.Start,
		End:      rs.End,
		Shortest: rs.Shortest,
		Routes:   make([]RouteSummary, rs.Len()),
	}
	for i, r := range rs.Routes {
		ratio := 1.0
		if rs.Shortest > 0 {
			ratio = r.Cost() / rs.Shortest
		}
		s.Routes[i] = RouteSummary{
			Index: i,
			Cost:  r.Cost(),
			Ratio: ratio,
			Hubs:  r.Hubs(),
			Edges: r.EdgeIDs(),
		}
	}
	return s
}

// Report is the outcome of a simulation: the candidate routes, the route
// taken and the travel log.
type Report struct {
	Routes RouteSetSummary `json:"routes"`
	Chosen int             `json:"chosen"`
	Result *sim.Result     `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`

	// Warnings found when loading the configuration. Warnings raised while
	// traveling are part of Result.
	Warnings []sim.ConfigurationWarning `json:"warnings,omitempty"`
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// WriteJSONFile writes v as indented JSON to the file at path.
func WriteJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteJSON(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
