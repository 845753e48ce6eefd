package step

import (
	"github.com/rhartert/tradeways/network"
)

// River moves boats on rivers. Going downstream, the boat drifts with the
// flow of the river (edge data "flow", in distance units per hour) unless
// the flow is slower than MinSpeedDown. Going upstream, or when the river is
// too slow, the boat is towed at TowSpeed.
//
// The edge data "direction" tells which way the river flows: "downwards"
// (the default) when it flows from HubA to HubB, "upwards" otherwise.
type River struct {
	MinSpeedDown float64 `yaml:"min_speed_down"`
	TowSpeed     float64 `yaml:"tow_speed"`
}

// DefaultRiver returns a policy drifting at 5 units per hour or more and
// towing at 1.5 units per hour.
func DefaultRiver() River {
	return River{MinSpeedDown: 5, TowSpeed: 1.5}
}

// Step implements Policy.
func (r River) Step(in Input) Progress {
	speed := r.TowSpeed
	if r.downstream(in) {
		if flow, ok := in.Edge.Float("flow"); ok && flow >= r.MinSpeedDown {
			speed = flow
		}
	}
	return walk(in, func(_ network.Segment, length float64) float64 {
		return length / speed
	})
}

func (r River) downstream(in Input) bool {
	flowsForward := true
	if d, ok := in.Edge.Data["direction"].(string); ok && d == "upwards" {
		flowsForward = false
	}
	return flowsForward == (in.Dir == network.Forward)
}
