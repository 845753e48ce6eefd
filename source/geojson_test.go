package source

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/rhartert/tradeways/network"
)

const sampleGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [16.37, 48.21]},
     "properties": {"id": "Wien", "elevation": 170, "overnight": true}},
    {"type": "Feature", "id": "Linz", "geometry": {"type": "Point", "coordinates": [14.29, 48.31]},
     "properties": {"harbor": true}},
    {"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[16.37, 48.21], [15.3, 48.4], [14.29, 48.31]]},
     "properties": {"id": "danube", "hub_a": "Wien", "hub_b": "Linz", "type": "river",
                    "cost_ab": 45, "cost_ba": 20, "heights": [170, 200, 265], "flow": 4.5}}
  ]
}`

func TestParseGeoJSON(t *testing.T) {
	want := &Network{
		Hubs: []network.Hub{
			{ID: "Wien", Position: orb.Point{16.37, 48.21}, Elevation: 170, Overnight: true},
			{ID: "Linz", Position: orb.Point{14.29, 48.31}, Harbor: true},
		},
		Edges: []network.Edge{{
			ID: "danube", HubA: "Wien", HubB: "Linz", Type: network.River, CostAB: 45, CostBA: 20,
			Geometry: orb.LineString{{16.37, 48.21}, {15.3, 48.4}, {14.29, 48.31}},
			Heights:  []float64{170, 200, 265},
			Data:     map[string]any{"flow": 4.5},
		}},
		Metric: network.Geographic,
	}

	got, err := ParseGeoJSON([]byte(sampleGeoJSON))

	if err != nil {
		t.Fatalf("ParseGeoJSON(): %v", err)
	}
	if diff := cmp.Diff(want, got, ignoreUnexported); diff != "" {
		t.Errorf("ParseGeoJSON(): mismatch (-want +got):\n%s", diff)
	}
}

func TestParseGeoJSON_errors(t *testing.T) {
	testCases := []struct {
		desc    string
		input   string
		wantErr string
	}{
		{"not json", "{", "decoding feature collection"},
		{"polygon", `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]},"properties":{"id":"x"}}]}`, "unsupported geometry"},
		{"hub without id", `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[0,0]},"properties":{}}]}`, "hub without id"},
		{"edge without cost", `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]},"properties":{"id":"e"}}]}`, "missing cost_ab"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := ParseGeoJSON([]byte(tc.input))
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("ParseGeoJSON(): want error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestGeoJSONFile_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network.geojson")
	if err := os.WriteFile(path, []byte(sampleGeoJSON), 0600); err != nil {
		t.Fatal(err)
	}

	g, err := LoadGraph(context.Background(), GeoJSONFile{Path: path})

	if err != nil {
		t.Fatalf("LoadGraph(): %v", err)
	}
	if got := g.Neighbors("Linz"); len(got) != 1 || got[0].Dir != network.Backward {
		t.Errorf("Neighbors(Linz): want one backward leg, got %v", got)
	}
	// About 80km from Wien to the bend and 75km from there to Linz.
	if got := g.Edge(0).GroundLength(); got < 140e3 || got > 170e3 {
		t.Errorf("GroundLength(): want about 155km, got %.0fm", got)
	}
	// The rise is in meters and never scaled by the geometry.
	if got := g.Edge(0).Segments(network.Forward); len(got) != 2 || got[0].Rise != 30 || got[1].Rise != 65 {
		t.Errorf("Segments(Forward): want rises 30 and 65, got %+v", got)
	}
}

func TestLoadGraph_metricOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network.geojson")
	if err := os.WriteFile(path, []byte(sampleGeoJSON), 0600); err != nil {
		t.Fatal(err)
	}

	g, err := LoadGraph(context.Background(), GeoJSONFile{Path: path}, network.WithMetric(network.Planar))

	if err != nil {
		t.Fatalf("LoadGraph(): %v", err)
	}
	if got := g.Metric(); got != network.Planar {
		t.Errorf("Metric(): want %s, got %s", network.Planar, got)
	}
	if got := g.Edge(0).GroundLength(); got > 10 {
		t.Errorf("GroundLength(): want planar degrees, got %f", got)
	}
}

func TestFeatureCollections(t *testing.T) {
	n, err := ParseGeoJSON([]byte(sampleGeoJSON))
	if err != nil {
		t.Fatal(err)
	}
	g, err := n.Build()
	if err != nil {
		t.Fatal(err)
	}

	fc := HubsFeatureCollection(g)
	fc.Features = append(fc.Features, EdgesFeatureCollection(g, []*network.Edge{g.Edge(0)}).Features...)
	data, err := json.Marshal(fc)
	if err != nil {
		t.Fatal(err)
	}

	again, err := ParseGeoJSON(data)
	if err != nil {
		t.Fatalf("ParseGeoJSON(): %v", err)
	}
	if diff := cmp.Diff(n.Hubs, again.Hubs); diff != "" {
		t.Errorf("hubs mismatch (-want +got):\n%s", diff)
	}
	if len(again.Edges) != 1 || again.Edges[0].ID != "danube" {
		t.Errorf("unexpected edges %v", again.Edges)
	}
}
