package network

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/paulmach/orb"
)

func hubs(ids ...string) []Hub {
	hs := make([]Hub, len(ids))
	for i, id := range ids {
		hs[i] = Hub{ID: id, Position: orb.Point{float64(i), 0}}
	}
	return hs
}

func TestBuild_neighbors(t *testing.T) {
	testCases := []struct {
		desc  string
		hubs  []Hub
		edges []Edge
		hub   string
		want  []Leg
	}{
		{
			desc: "isolated hub",
			hubs: hubs("A"),
			hub:  "A",
			want: nil,
		},
		{
			// A---B
			desc:  "one edge from A",
			hubs:  hubs("A", "B"),
			edges: []Edge{{ID: "e0", HubA: "A", HubB: "B", Type: Road, CostAB: 1, CostBA: 1}},
			hub:   "A",
			want:  []Leg{{Edge: 0, Dir: Forward}},
		},
		{
			// A---B
			desc:  "one edge from B",
			hubs:  hubs("A", "B"),
			edges: []Edge{{ID: "e0", HubA: "A", HubB: "B", Type: Road, CostAB: 1, CostBA: 1}},
			hub:   "B",
			want:  []Leg{{Edge: 0, Dir: Backward}},
		},
		{
			// A===B---C  (road and river between A and B)
			desc: "parallel edges",
			hubs: hubs("A", "B", "C"),
			edges: []Edge{
				{ID: "road", HubA: "A", HubB: "B", Type: Road, CostAB: 1, CostBA: 1},
				{ID: "river", HubA: "B", HubB: "A", Type: River, CostAB: 1, CostBA: 3},
				{ID: "bc", HubA: "B", HubB: "C", Type: Road, CostAB: 1, CostBA: 1},
			},
			hub: "B",
			want: []Leg{
				{Edge: 0, Dir: Backward},
				{Edge: 1, Dir: Forward},
				{Edge: 2, Dir: Forward},
			},
		},
		{
			desc: "unknown hub",
			hubs: hubs("A"),
			hub:  "Z",
			want: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			g, err := Build(tc.hubs, tc.edges)
			if err != nil {
				t.Fatalf("Build(): unexpected error: %v", err)
			}

			got := g.Neighbors(tc.hub)

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Neighbors(%q): mismatch (-want +got):\n%s", tc.hub, diff)
			}
		})
	}
}

func TestBuild_integrity(t *testing.T) {
	testCases := []struct {
		desc  string
		hubs  []Hub
		edges []Edge
		want  *IntegrityError
	}{
		{
			desc:  "unknown hub b",
			hubs:  hubs("A"),
			edges: []Edge{{ID: "e0", HubA: "A", HubB: "B"}},
			want:  &IntegrityError{Edge: "e0", Hub: "B", Reason: "unknown hub"},
		},
		{
			desc:  "unknown hub a",
			hubs:  hubs("B"),
			edges: []Edge{{ID: "e0", HubA: "A", HubB: "B"}},
			want:  &IntegrityError{Edge: "e0", Hub: "A", Reason: "unknown hub"},
		},
		{
			desc: "duplicate hub",
			hubs: hubs("A", "A"),
			want: &IntegrityError{Hub: "A", Reason: "duplicate hub id"},
		},
		{
			desc: "duplicate edge",
			hubs: hubs("A", "B"),
			edges: []Edge{
				{ID: "e0", HubA: "A", HubB: "B"},
				{ID: "e0", HubA: "B", HubB: "A"},
			},
			want: &IntegrityError{Edge: "e0", Reason: "duplicate edge id"},
		},
		{
			desc:  "negative cost",
			hubs:  hubs("A", "B"),
			edges: []Edge{{ID: "e0", HubA: "A", HubB: "B", CostAB: -1}},
			want:  &IntegrityError{Edge: "e0", Reason: "costs must be finite and non-negative"},
		},
		{
			desc:  "loop",
			hubs:  hubs("A"),
			edges: []Edge{{ID: "e0", HubA: "A", HubB: "A"}},
			want:  &IntegrityError{Edge: "e0", Hub: "A", Reason: "edge starts and ends at the same hub"},
		},
		{
			desc: "heights mismatch",
			hubs: hubs("A", "B"),
			edges: []Edge{{
				ID: "e0", HubA: "A", HubB: "B",
				Geometry: orb.LineString{{0, 0}, {1, 0}},
				Heights:  []float64{1},
			}},
			want: &IntegrityError{Edge: "e0", Reason: "heights and geometry differ in length"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			g, err := Build(tc.hubs, tc.edges)

			if g != nil {
				t.Errorf("Build(): want nil graph, got %v", g)
			}
			var got *IntegrityError
			if !errors.As(err, &got) {
				t.Fatalf("Build(): want *IntegrityError, got %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Build(): mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGraph_Heuristic(t *testing.T) {
	// A(0,0) --cost 10--> B(5,0) --cost 30--> C(10,0)
	g, err := Build(hubs("A"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := g.Heuristic(0, 0); got != 0 {
		t.Errorf("Heuristic(): want 0 on a graph without edges, got %f", got)
	}

	g, err = Build(
		[]Hub{
			{ID: "A", Position: orb.Point{0, 0}},
			{ID: "B", Position: orb.Point{5, 0}},
			{ID: "C", Position: orb.Point{10, 0}},
		},
		[]Edge{
			{ID: "ab", HubA: "A", HubB: "B", CostAB: 10, CostBA: 20},
			{ID: "bc", HubA: "B", HubB: "C", CostAB: 30, CostBA: 30},
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	// Smallest ratio is 10 / 5 = 2.
	if got, want := g.Heuristic(0, 2), 20.0; got != want {
		t.Errorf("Heuristic(A, C): want %f, got %f", want, got)
	}
	for _, u := range []int{0, 1} {
		for _, leg := range g.Nexts(u) {
			e := g.Edge(leg.Edge)
			if g.Heuristic(u, 2) > e.Cost(leg.Dir)+g.Heuristic(e.To(leg.Dir), 2) {
				t.Errorf("Heuristic(): inconsistent on leg %v", leg)
			}
		}
	}
}

func TestEdge_Segments(t *testing.T) {
	e := Edge{
		Geometry: orb.LineString{{0, 0}, {100, 0}, {200, 0}},
		Heights:  []float64{0, 10, 5},
	}
	approx := cmpopts.EquateApprox(0, 1e-9)

	forward := []Segment{{Length: 100, Rise: 10}, {Length: 100, Rise: -5}}
	if diff := cmp.Diff(forward, e.Segments(Forward), approx); diff != "" {
		t.Errorf("Segments(Forward): mismatch (-want +got):\n%s", diff)
	}

	backward := []Segment{{Length: 100, Rise: 5}, {Length: 100, Rise: -10}}
	if diff := cmp.Diff(backward, e.Segments(Backward), approx); diff != "" {
		t.Errorf("Segments(Backward): mismatch (-want +got):\n%s", diff)
	}

	e.Length = 400 // lengths scaled, rises kept
	scaled := []Segment{{Length: 200, Rise: 10}, {Length: 200, Rise: -5}}
	if diff := cmp.Diff(scaled, e.Segments(Forward), approx); diff != "" {
		t.Errorf("Segments(Forward) with Length: mismatch (-want +got):\n%s", diff)
	}
}

func TestEdge_Segments_geographic(t *testing.T) {
	hubs := []Hub{
		{ID: "A", Position: orb.Point{11, 46}},
		{ID: "B", Position: orb.Point{11.01424, 46}},
	}
	edges := []Edge{
		{
			ID: "measured", HubA: "A", HubB: "B", CostAB: 1, CostBA: 1,
			Length:   1100,
			Geometry: orb.LineString{{11, 46}, {11.01424, 46}},
			Heights:  []float64{500, 511},
		},
		{
			ID: "geometry", HubA: "A", HubB: "B", CostAB: 1, CostBA: 1,
			Geometry: orb.LineString{{11, 46}, {11.00712, 46}, {11.01424, 46}},
		},
	}
	g, err := Build(hubs, edges, WithMetric(Geographic))
	if err != nil {
		t.Fatal(err)
	}
	if got := g.Metric(); got != Geographic {
		t.Fatalf("Metric(): want %s, got %s", Geographic, got)
	}

	approx := cmpopts.EquateApprox(0, 1e-9)
	want := []Segment{{Length: 1100, Rise: 11}}
	segs := g.Edge(0).Segments(Forward)
	if diff := cmp.Diff(want, segs, approx); diff != "" {
		t.Errorf("Segments(Forward): mismatch (-want +got):\n%s", diff)
	}
	if got := segs[0].Slope(); math.Abs(got-1) > 1e-9 {
		t.Errorf("Slope(): want 1, got %f", got)
	}

	// 0.01424 degrees of longitude at 46N is about 1.1km.
	if got := g.Edge(1).GroundLength(); got < 1090 || got > 1110 {
		t.Errorf("GroundLength(): want about 1100m, got %f", got)
	}
	if got := g.Edge(1).Segments(Forward); len(got) != 2 || math.Abs(got[0].Length-got[1].Length) > 1e-6 {
		t.Errorf("Segments(Forward): want two equal segments, got %+v", got)
	}
}

func TestBuild_defaultLength_geographic(t *testing.T) {
	hubs := []Hub{
		{ID: "A", Position: orb.Point{11, 46}},
		{ID: "B", Position: orb.Point{11.01424, 46}},
	}
	g, err := Build(hubs, []Edge{{ID: "ab", HubA: "A", HubB: "B", CostAB: 1, CostBA: 1}}, WithMetric(Geographic))
	if err != nil {
		t.Fatal(err)
	}

	if got := g.Edge(0).GroundLength(); got < 1090 || got > 1110 {
		t.Errorf("GroundLength(): want about 1100m, got %f", got)
	}
}

func TestEdge_Segments_noGeometry(t *testing.T) {
	e := Edge{Length: 50}

	want := []Segment{{Length: 50}}
	if diff := cmp.Diff(want, e.Segments(Backward)); diff != "" {
		t.Errorf("Segments(): mismatch (-want +got):\n%s", diff)
	}
}

func TestSegment_Slope(t *testing.T) {
	testCases := []struct {
		seg  Segment
		want float64
	}{
		{Segment{Length: 100, Rise: 5}, 5},
		{Segment{Length: 200, Rise: -10}, -5},
		{Segment{Length: 0, Rise: 3}, 0},
	}
	for _, tc := range testCases {
		if got := tc.seg.Slope(); got != tc.want {
			t.Errorf("%+v.Slope(): want %f, got %f", tc.seg, tc.want, got)
		}
	}
}

func TestBuild_defaultLength(t *testing.T) {
	hubs := []Hub{
		{ID: "A", Position: orb.Point{0, 0}},
		{ID: "B", Position: orb.Point{30, 40}},
	}
	g, err := Build(hubs, []Edge{{ID: "ab", HubA: "A", HubB: "B", CostAB: 1, CostBA: 1}})
	if err != nil {
		t.Fatal(err)
	}

	if got := g.Edge(0).GroundLength(); got != 50 {
		t.Errorf("GroundLength(): want 50, got %f", got)
	}
}

func TestEdge_Float(t *testing.T) {
	e := Edge{Data: map[string]any{"f": 1.5, "i": int64(3), "s": "2.5", "bad": "fast", "b": true}}

	testCases := []struct {
		key    string
		want   float64
		wantOK bool
	}{
		{"f", 1.5, true},
		{"i", 3, true},
		{"s", 2.5, true},
		{"bad", 0, false},
		{"b", 0, false},
		{"missing", 0, false},
	}

	for _, tc := range testCases {
		got, ok := e.Float(tc.key)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("Float(%q): want (%v, %t), got (%v, %t)", tc.key, tc.want, tc.wantOK, got, ok)
		}
	}
}
