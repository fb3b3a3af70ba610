package graph

import (
	"fmt"

	"github.com/docugraph/backend/pkg/common"
)

// Portable is the index-free serialization of a graph: flat node and
// edge lists plus aggregates. It is consumable by downstream
// persistence and summarization without any matcher or resolution
// machinery.
type Portable struct {
	Nodes      []common.Node `json:"nodes"`
	Edges      []common.Edge `json:"edges"`
	Statistics Statistics    `json:"statistics"`
}

// ToPortable serializes the graph into its portable representation.
func (g *Graph) ToPortable() Portable {
	return Portable{
		Nodes:      g.Nodes(),
		Edges:      g.Edges(),
		Statistics: g.Statistics(),
	}
}

// FromPortable reconstructs a graph from its portable representation.
// Every index is rebuilt synchronously before the graph is returned;
// a returned graph is always fully queryable. Nodes are loaded before
// edges so endpoint checks see the complete node set.
func FromPortable(p Portable) (*Graph, error) {
	g := New()

	for _, n := range p.Nodes {
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("failed to restore node: %w", err)
		}
	}
	for _, e := range p.Edges {
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("failed to restore edge: %w", err)
		}
	}

	return g, nil
}
