// Package source loads transport networks from files and databases.
package source

import (
	"context"
	"fmt"

	"github.com/rhartert/tradeways/network"
)

// Network is the raw content of a source, before integrity checks.
type Network struct {
	Hubs  []network.Hub
	Edges []network.Edge

	// Metric is the metric positions are expressed in.
	Metric network.Metric
}

// Build checks the integrity of the network and returns its graph. Options
// are applied after the network's own metric.
func (n *Network) Build(opts ...network.Option) (*network.Graph, error) {
	opts = append([]network.Option{network.WithMetric(n.Metric)}, opts...)
	return network.Build(n.Hubs, n.Edges, opts...)
}

// Loader loads a network.
type Loader interface {
	Load(ctx context.Context) (*Network, error)
}

// LoadGraph loads a network with l and builds its graph.
func LoadGraph(ctx context.Context, l Loader, opts ...network.Option) (*network.Graph, error) {
	n, err := l.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading network: %w", err)
	}
	g, err := n.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("building network: %w", err)
	}
	return g, nil
}
