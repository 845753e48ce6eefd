package condition

import (
	"fmt"
	"strconv"

	"github.com/rhartert/tradeways/network"
)

// Leg exposes the attributes of an edge traversed in a given direction:
//
//   - types: the edge type
//   - travel: "forward" or "backward", the direction of traversal
//   - overnight, harbor, market: flags of the departure hub
//   - any other name: the matching entry of the edge data, e.g. the
//     direction a river flows in
type Leg struct {
	Edge *network.Edge
	Dir  network.Direction
	From *network.Hub // departure hub, may be nil
}

// Lookup implements Attributes.
func (l Leg) Lookup(name string) (string, bool) {
	switch name {
	case "types", "type":
		return string(l.Edge.Type), true
	case "travel":
		return l.Dir.String(), true
	case "overnight", "harbor", "market":
		if l.From == nil {
			return "", false
		}
		return strconv.FormatBool(hubFlag(l.From, name)), true
	}
	v, ok := l.Edge.Data[name]
	if !ok || v == nil {
		return "", false
	}
	return fmt.Sprint(v), true
}

func hubFlag(h *network.Hub, name string) bool {
	switch name {
	case "overnight":
		return h.Overnight
	case "harbor":
		return h.Harbor
	default:
		return h.Market
	}
}

// Map is a plain attribute set, mostly useful in tests.
type Map map[string]string

// Lookup implements Attributes.
func (m Map) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}
