package graph

import "github.com/docugraph/backend/pkg/common"

// Statistics summarizes a graph's size and connectivity. Density is
// edges / (n * (n-1)), defined as 0 when the graph has at most one
// node.
type Statistics struct {
	NodeCount   int                     `json:"node_count"`
	EdgeCount   int                     `json:"edge_count"`
	NodesByKind map[common.NodeKind]int `json:"nodes_by_kind"`
	EdgesByKind map[common.EdgeKind]int `json:"edges_by_kind"`
	AvgDegree   float64                 `json:"avg_degree"`
	MaxDegree   int                     `json:"max_degree"`
	Density     float64                 `json:"density"`
}

// Statistics computes aggregate counts and connectivity measures from
// the current indices.
func (g *Graph) Statistics() Statistics {
	stats := Statistics{
		NodeCount:   len(g.nodeOrder),
		EdgeCount:   len(g.edgeOrder),
		NodesByKind: make(map[common.NodeKind]int),
		EdgesByKind: make(map[common.EdgeKind]int),
	}

	for kind, ids := range g.byKind {
		stats.NodesByKind[kind] = len(ids)
	}
	for _, id := range g.edgeOrder {
		stats.EdgesByKind[g.edgesByID[id].Kind]++
	}

	totalDegree := 0
	for _, id := range g.nodeOrder {
		degree := len(g.adjacency[id])
		totalDegree += degree
		if degree > stats.MaxDegree {
			stats.MaxDegree = degree
		}
	}
	if stats.NodeCount > 0 {
		stats.AvgDegree = float64(totalDegree) / float64(stats.NodeCount)
	}
	if stats.NodeCount > 1 {
		n := float64(stats.NodeCount)
		stats.Density = float64(stats.EdgeCount) / (n * (n - 1))
	}

	return stats
}
