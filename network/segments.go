package network

// Segment is a straight piece of an edge as seen by a traveller: its ground
// length and the elevation gained over it (negative when descending).
type Segment struct {
	Length float64
	Rise   float64
}

// Slope returns the slope of the segment in percent. Flat or zero-length
// segments have a slope of 0.
func (s Segment) Slope() float64 {
	if s.Length == 0 {
		return 0
	}
	return s.Rise / s.Length * 100
}

// GroundLength returns the length of the edge: the explicit Length if set,
// otherwise the length of the geometry measured with the graph's metric.
func (e *Edge) GroundLength() float64 {
	if e.Length > 0 {
		return e.Length
	}
	return e.metric.Length(e.Geometry)
}

// Segments returns the segments of the edge in travel order for direction d.
// Segment lengths are scaled so that they sum to GroundLength; heights are
// ground units already and rises are never scaled. An edge without usable
// geometry is a single flat segment.
func (e *Edge) Segments(d Direction) []Segment {
	total := e.GroundLength()
	if len(e.Geometry) < 2 {
		return []Segment{{Length: total}}
	}

	segs := make([]Segment, 0, len(e.Geometry)-1)
	geomLength := 0.0
	for i := 1; i < len(e.Geometry); i++ {
		s := Segment{Length: e.metric.Distance(e.Geometry[i-1], e.Geometry[i])}
		if len(e.Heights) == len(e.Geometry) {
			s.Rise = e.Heights[i] - e.Heights[i-1]
		}
		geomLength += s.Length
		segs = append(segs, s)
	}
	if geomLength == 0 {
		return []Segment{{Length: total}}
	}

	if scale := total / geomLength; scale != 1 {
		for i := range segs {
			segs[i].Length *= scale
		}
	}

	if d == Backward {
		for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
			segs[i], segs[j] = segs[j], segs[i]
		}
		for i := range segs {
			segs[i].Rise = -segs[i].Rise
		}
	}
	return segs
}
