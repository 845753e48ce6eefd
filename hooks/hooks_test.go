package hooks

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/paulmach/orb"
	"github.com/rhartert/tradeways/network"
	"github.com/rhartert/tradeways/network/route"
	"github.com/rhartert/tradeways/sim"
	"github.com/rhartert/tradeways/step"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// run walks A -ab-> B -bc-> C at speed 5. ab is a road, bc a river and B is
// an overnight hub.
func run(t *testing.T, ab float64, bc float64, opts sim.Options) *sim.Result {
	t.Helper()
	hubs := []network.Hub{
		{ID: "A", Position: orb.Point{0, 0}},
		{ID: "B", Position: orb.Point{0.1, 0}, Overnight: true},
		{ID: "C", Position: orb.Point{0.2, 0}},
	}
	edges := []network.Edge{
		{ID: "ab", HubA: "A", HubB: "B", Type: network.Road, CostAB: 1, CostBA: 1, Length: ab},
		{ID: "bc", HubA: "B", HubB: "C", Type: network.River, CostAB: 1, CostBA: 1, Length: bc},
	}
	g, err := network.Build(hubs, edges)
	if err != nil {
		t.Fatal(err)
	}
	r, err := route.New(g, "A", []network.Leg{{Edge: 0, Dir: network.Forward}, {Edge: 1, Dir: network.Forward}})
	if err != nil {
		t.Fatal(err)
	}
	s, err := sim.New(step.NewDispatcher(step.Entry{Name: "walk", Policy: step.Fixed{Speed: 5}}), opts)
	if err != nil {
		t.Fatal(err)
	}
	res, err := s.Run(context.Background(), r)
	if err != nil {
		t.Fatalf("Run(): %v", err)
	}
	return res
}

func dayTimes(res *sim.Result) []float64 {
	ts := []float64{}
	for _, rec := range res.Log {
		ts = append(ts, rec.DayTime)
	}
	return ts
}

func TestDayWindow(t *testing.T) {
	res := run(t, 60, 40, sim.Options{
		PrepareDay: []sim.PrepareDayHook{DayWindow{Start: 6, End: 20}},
	})

	if diff := cmp.Diff([]float64{14, 6}, dayTimes(res), approx); diff != "" {
		t.Errorf("day times mismatch (-want +got):\n%s", diff)
	}
}

func TestDaylight_equator(t *testing.T) {
	res := run(t, 60, 40, sim.Options{
		PrepareDay: []sim.PrepareDayHook{DefaultDaylight()},
	})

	// Twelve hours of daylight minus the paddings.
	if diff := cmp.Diff([]float64{10.5, 9.5}, dayTimes(res), approx); diff != "" {
		t.Errorf("day times mismatch (-want +got):\n%s", diff)
	}
}

func TestSunTimes(t *testing.T) {
	testCases := []struct {
		desc     string
		lat      float64
		yearDay  int
		minHours float64
		maxHours float64
	}{
		{"equator", 0, 100, 12, 12},
		{"Vienna in summer", 48.2, 172, 15.5, 16.5},
		{"Vienna in winter", 48.2, 355, 8, 9},
		{"polar night", 80, 355, 0, 0},
		{"midnight sun", 80, 172, 24, 24},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			rise, set := SunTimes(tc.lat, tc.yearDay)
			hours := set - rise

			if hours < tc.minHours-1e-9 || hours > tc.maxHours+1e-9 {
				t.Errorf("SunTimes(): want between %v and %v hours of daylight, got %v", tc.minHours, tc.maxHours, hours)
			}
			if diff := cmp.Diff(12.0, (rise+set)/2, approx); diff != "" {
				t.Errorf("SunTimes(): solar noon mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadingDelay(t *testing.T) {
	res := run(t, 10, 10, sim.Options{
		DefineState: []sim.DefineStateHook{LoadingDelay{Hours: 1}},
	})

	// 2 hours on the road, 1 hour to load the boat, 2 hours on the river.
	if diff := cmp.Diff(5.0, res.Time, approx); diff != "" {
		t.Errorf("time mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadingDelay_onceAcrossDays(t *testing.T) {
	// The road takes the whole first day, loading happens the next morning.
	res := run(t, 40, 10, sim.Options{
		DefineState: []sim.DefineStateHook{DefaultLoadingDelay()},
	})

	if diff := cmp.Diff([]float64{8, 2.5}, dayTimes(res), approx); diff != "" {
		t.Errorf("day times mismatch (-want +got):\n%s", diff)
	}
}

func TestForceOvernight(t *testing.T) {
	res := run(t, 10, 10, sim.Options{
		DefineState: []sim.DefineStateHook{ForceOvernight{After: 9}},
	})

	want := []string{"B", "C"}
	got := []string{}
	for _, rec := range res.Log {
		got = append(got, rec.Hub)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("hubs mismatch (-want +got):\n%s", diff)
	}
	if !res.Log[0].Overnight {
		t.Errorf("first day: want overnight stay")
	}
}

func TestForceOvernight_tooEarly(t *testing.T) {
	res := run(t, 10, 10, sim.Options{
		DefineState: []sim.DefineStateHook{ForceOvernight{After: 12}},
	})

	if res.Days() != 1 {
		t.Errorf("want a single day, got %d", res.Days())
	}
}
