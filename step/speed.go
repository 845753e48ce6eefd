package step

import (
	"math"

	"github.com/rhartert/tradeways/network"
)

// Speed travels at a constant speed slowed down by slopes. The time needed
// for a segment of length l is l / Speed * (1 + f) where f is the slope in
// percent multiplied by AscendFactor when going up, and the absolute slope
// multiplied by DescendFactor when going down.
type Speed struct {
	Speed         float64 `yaml:"speed"`
	AscendFactor  float64 `yaml:"ascend_factor"`
	DescendFactor float64 `yaml:"descend_factor"`
}

// DefaultSpeed returns the walking pace used for roads: 5 distance units per
// hour, 5% slower per percent of ascent and 2.5% per percent of descent.
func DefaultSpeed() Speed {
	return Speed{Speed: 5, AscendFactor: 0.05, DescendFactor: 0.025}
}

// Step implements Policy.
func (sp Speed) Step(in Input) Progress {
	return walk(in, func(s network.Segment, length float64) float64 {
		return length / sp.Speed * (1 + sp.slopeFactor(s.Slope()))
	})
}

func (sp Speed) slopeFactor(slope float64) float64 {
	if slope < 0 {
		return -slope * sp.DescendFactor
	}
	return slope * sp.AscendFactor
}

// Fixed travels at a constant speed and ignores the terrain. It is meant as
// a fallback for lakes and other flat water.
type Fixed struct {
	Speed float64 `yaml:"speed"`
}

// Step implements Policy.
func (f Fixed) Step(in Input) Progress {
	return walk(in, func(_ network.Segment, length float64) float64 {
		return length / f.Speed
	})
}

// Hiking follows the rule of thumb of alpine clubs: a base speed on flat
// ground plus one hour per AscendPerHour units of ascent and one hour per
// DescendPerHour units of descent.
type Hiking struct {
	Speed          float64 `yaml:"speed"`
	AscendPerHour  float64 `yaml:"ascend_per_hour"`
	DescendPerHour float64 `yaml:"descend_per_hour"`
}

// DefaultHiking returns 4 units per hour, 300 up and 400 down per hour.
func DefaultHiking() Hiking {
	return Hiking{Speed: 4, AscendPerHour: 300, DescendPerHour: 400}
}

// Step implements Policy.
func (h Hiking) Step(in Input) Progress {
	return walk(in, func(s network.Segment, length float64) float64 {
		t := length / h.Speed
		if s.Length == 0 {
			return t
		}
		rise := s.Rise * length / s.Length
		switch {
		case rise > 0 && h.AscendPerHour > 0:
			t += rise / h.AscendPerHour
		case rise < 0 && h.DescendPerHour > 0:
			t += math.Abs(rise) / h.DescendPerHour
		}
		return t
	})
}
