package source

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rhartert/tradeways/network"
)

// Properties with a meaning of their own. Other edge properties end up in
// the edge data.
var edgeKeys = map[string]bool{
	"id": true, "hub_a": true, "hub_b": true, "type": true,
	"cost_ab": true, "cost_ba": true, "length": true, "heights": true,
}

// GeoJSONFile loads a network from a GeoJSON feature collection. Point
// features are hubs with properties id, elevation, overnight, harbor and
// market. LineString features are edges with properties id, hub_a, hub_b,
// type, cost_ab, cost_ba and optionally length and heights (one elevation
// per point of the line).
type GeoJSONFile struct {
	Path string
}

// Load implements Loader.
func (f GeoJSONFile) Load(_ context.Context) (*Network, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	n, err := ParseGeoJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return n, nil
}

// ParseGeoJSON parses a network from a GeoJSON feature collection. GeoJSON
// positions are longitude and latitude, so the network is geographic.
func ParseGeoJSON(data []byte) (*Network, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decoding feature collection: %w", err)
	}

	n := &Network{Metric: network.Geographic}
	for i, f := range fc.Features {
		switch geom := f.Geometry.(type) {
		case orb.Point:
			h, err := hubFromFeature(f, geom)
			if err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
			n.Hubs = append(n.Hubs, h)
		case orb.LineString:
			e, err := edgeFromFeature(f, geom)
			if err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
			n.Edges = append(n.Edges, e)
		case nil:
			return nil, fmt.Errorf("feature %d: missing geometry", i)
		default:
			return nil, fmt.Errorf("feature %d: unsupported geometry %s", i, geom.GeoJSONType())
		}
	}
	return n, nil
}

func hubFromFeature(f *geojson.Feature, p orb.Point) (network.Hub, error) {
	id := featureID(f)
	if id == "" {
		return network.Hub{}, fmt.Errorf("hub without id")
	}
	return network.Hub{
		ID:        id,
		Position:  p,
		Elevation: f.Properties.MustFloat64("elevation", 0),
		Overnight: f.Properties.MustBool("overnight", false),
		Harbor:    f.Properties.MustBool("harbor", false),
		Market:    f.Properties.MustBool("market", false),
	}, nil
}

func edgeFromFeature(f *geojson.Feature, ls orb.LineString) (network.Edge, error) {
	props := f.Properties
	e := network.Edge{
		ID:       featureID(f),
		HubA:     props.MustString("hub_a", ""),
		HubB:     props.MustString("hub_b", ""),
		Type:     network.EdgeType(props.MustString("type", string(network.Road))),
		Geometry: ls,
		Length:   props.MustFloat64("length", 0),
	}
	if e.ID == "" {
		return network.Edge{}, fmt.Errorf("edge without id")
	}

	var ok bool
	if e.CostAB, ok = network.ToFloat(props["cost_ab"]); !ok {
		return network.Edge{}, fmt.Errorf("edge %q: missing cost_ab", e.ID)
	}
	if e.CostBA, ok = network.ToFloat(props["cost_ba"]); !ok {
		e.CostBA = e.CostAB
	}

	if raw, ok := props["heights"].([]any); ok {
		e.Heights = make([]float64, len(raw))
		for i, v := range raw {
			if e.Heights[i], ok = network.ToFloat(v); !ok {
				return network.Edge{}, fmt.Errorf("edge %q: invalid height %v", e.ID, v)
			}
		}
	}

	for k, v := range props {
		if edgeKeys[k] {
			continue
		}
		if e.Data == nil {
			e.Data = map[string]any{}
		}
		e.Data[k] = v
	}
	return e, nil
}

// featureID returns the id property of f, or its feature id.
func featureID(f *geojson.Feature) string {
	if id := f.Properties.MustString("id", ""); id != "" {
		return id
	}
	if f.ID != nil {
		return fmt.Sprint(f.ID)
	}
	return ""
}

// HubsFeatureCollection returns the hubs of g as point features.
func HubsFeatureCollection(g *network.Graph) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, h := range g.Hubs() {
		f := geojson.NewFeature(h.Position)
		f.Properties["id"] = h.ID
		f.Properties["elevation"] = h.Elevation
		f.Properties["overnight"] = h.Overnight
		f.Properties["harbor"] = h.Harbor
		f.Properties["market"] = h.Market
		fc.Append(f)
	}
	return fc
}

// EdgesFeatureCollection returns the given edges of g as line features.
// Edges without geometry are drawn as straight lines between their hubs.
func EdgesFeatureCollection(g *network.Graph, edges []*network.Edge) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, e := range edges {
		ls := e.Geometry
		if len(ls) < 2 {
			ls = orb.LineString{g.HubByID(e.HubA).Position, g.HubByID(e.HubB).Position}
		}
		f := geojson.NewFeature(ls)
		for _, k := range sortedKeys(e.Data) {
			f.Properties[k] = e.Data[k]
		}
		f.Properties["id"] = e.ID
		f.Properties["hub_a"] = e.HubA
		f.Properties["hub_b"] = e.HubB
		f.Properties["type"] = string(e.Type)
		f.Properties["cost_ab"] = e.CostAB
		f.Properties["cost_ba"] = e.CostBA
		f.Properties["length"] = e.GroundLength()
		if len(e.Heights) > 0 {
			f.Properties["heights"] = e.Heights
		}
		fc.Append(f)
	}
	return fc
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
