package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/rhartert/tradeways/network"
)

// TextFile loads a network from a text file made of two sections:
//
//	HUBS 2
//	# id x y elevation flags
//	A 0 0 120 overnight,harbor
//	B 40 0 100 -
//
//	EDGES 1
//	# id hub_a hub_b type cost_ab cost_ba [length] [key=value ...]
//	ab A B road 10 12 50 roughness=2
//
// Lines starting with # are comments. Hub flags are a comma separated
// subset of overnight, harbor and market, or - for none. A length of - or
// 0 is computed from the hub positions.
type TextFile struct {
	Path string
}

// Load implements Loader.
func (t TextFile) Load(_ context.Context) (*Network, error) {
	file, err := os.Open(t.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	n, err := ParseText(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Path, err)
	}
	return n, nil
}

// ParseText parses a network in the text format described by TextFile.
func ParseText(r io.Reader) (*Network, error) {
	scanner := bufio.NewScanner(r)
	n := &Network{}

	section := ""
	expected := map[string]int{}
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		parts := strings.Fields(text)

		if parts[0] == "HUBS" || parts[0] == "EDGES" {
			if len(parts) != 2 {
				return nil, fmt.Errorf("line %d: invalid section header", line)
			}
			count, err := strconv.Atoi(parts[1])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("line %d: invalid %s count %q", line, parts[0], parts[1])
			}
			section = parts[0]
			expected[section] = count
			continue
		}

		switch section {
		case "HUBS":
			h, err := parseHub(parts)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid hub: %w", line, err)
			}
			n.Hubs = append(n.Hubs, h)
		case "EDGES":
			e, err := parseEdge(parts)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid edge: %w", line, err)
			}
			n.Edges = append(n.Edges, e)
		default:
			return nil, fmt.Errorf("line %d: data outside of a HUBS or EDGES section", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if c, ok := expected["HUBS"]; ok && c != len(n.Hubs) {
		return nil, fmt.Errorf("expected %d hubs, got %d", c, len(n.Hubs))
	}
	if c, ok := expected["EDGES"]; ok && c != len(n.Edges) {
		return nil, fmt.Errorf("expected %d edges, got %d", c, len(n.Edges))
	}
	return n, nil
}

func parseHub(parts []string) (network.Hub, error) {
	if len(parts) != 5 {
		return network.Hub{}, fmt.Errorf("expected 5 fields, got %d", len(parts))
	}
	nums, err := parseFloats(parts[1:4])
	if err != nil {
		return network.Hub{}, err
	}
	h := network.Hub{
		ID:        parts[0],
		Position:  orb.Point{nums[0], nums[1]},
		Elevation: nums[2],
	}
	if parts[4] == "-" {
		return h, nil
	}
	for _, flag := range strings.Split(parts[4], ",") {
		switch flag {
		case "overnight":
			h.Overnight = true
		case "harbor":
			h.Harbor = true
		case "market":
			h.Market = true
		default:
			return network.Hub{}, fmt.Errorf("unknown flag %q", flag)
		}
	}
	return h, nil
}

func parseEdge(parts []string) (network.Edge, error) {
	if len(parts) < 6 {
		return network.Edge{}, fmt.Errorf("expected at least 6 fields, got %d", len(parts))
	}
	typ := network.EdgeType(parts[3])
	switch typ {
	case network.Road, network.River, network.Lake:
	default:
		return network.Edge{}, fmt.Errorf("unknown type %q", parts[3])
	}
	costs, err := parseFloats(parts[4:6])
	if err != nil {
		return network.Edge{}, err
	}
	e := network.Edge{
		ID:     parts[0],
		HubA:   parts[1],
		HubB:   parts[2],
		Type:   typ,
		CostAB: costs[0],
		CostBA: costs[1],
	}

	rest := parts[6:]
	if len(rest) > 0 && !strings.Contains(rest[0], "=") {
		if rest[0] != "-" {
			l, err := strconv.ParseFloat(rest[0], 64)
			if err != nil {
				return network.Edge{}, fmt.Errorf("invalid length: %w", err)
			}
			e.Length = l
		}
		rest = rest[1:]
	}
	for _, kv := range rest {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return network.Edge{}, fmt.Errorf("invalid attribute %q", kv)
		}
		if e.Data == nil {
			e.Data = map[string]any{}
		}
		e.Data[k] = v
	}
	return e, nil
}

func parseFloats(parts []string) ([]float64, error) {
	fs := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		fs[i] = f
	}
	return fs, nil
}

// WriteText writes the network of g in the text format.
func WriteText(w io.Writer, g *network.Graph) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "HUBS %d\n", g.NumHubs())
	for _, h := range g.Hubs() {
		flags := []string{}
		if h.Overnight {
			flags = append(flags, "overnight")
		}
		if h.Harbor {
			flags = append(flags, "harbor")
		}
		if h.Market {
			flags = append(flags, "market")
		}
		f := "-"
		if len(flags) > 0 {
			f = strings.Join(flags, ",")
		}
		fmt.Fprintf(bw, "%s %g %g %g %s\n", h.ID, h.Position[0], h.Position[1], h.Elevation, f)
	}
	fmt.Fprintf(bw, "\nEDGES %d\n", g.NumEdges())
	for i := 0; i < g.NumEdges(); i++ {
		e := g.Edge(i)
		fmt.Fprintf(bw, "%s %s %s %s %g %g %g", e.ID, e.HubA, e.HubB, e.Type, e.CostAB, e.CostBA, e.Length)
		for _, k := range sortedKeys(e.Data) {
			fmt.Fprintf(bw, " %s=%v", k, e.Data[k])
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}
