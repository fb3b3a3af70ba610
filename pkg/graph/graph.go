// Package graph owns the knowledge graph built from a parsed document:
// node and edge storage, derived indices, traversal, statistics, and a
// portable serialization for downstream consumers.
package graph

import (
	"fmt"
	"sort"

	"github.com/docugraph/backend/pkg/common"
)

// Graph is the sole owner of its nodes and edges. Four derived indices
// plus an adjacency list are updated on every mutation and are never
// observable stale.
//
// A Graph is append-only during one build pass and must not be mutated
// by more than one logical build concurrently.
type Graph struct {
	nodeOrder []string
	edgeOrder []string

	nodesByID map[string]common.Node
	edgesByID map[string]common.Edge
	byKind    map[common.NodeKind][]string
	byPage    map[int][]string
	adjacency map[string][]string
}

// New returns an empty graph with all indices initialized.
func New() *Graph {
	return &Graph{
		nodesByID: make(map[string]common.Node),
		edgesByID: make(map[string]common.Edge),
		byKind:    make(map[common.NodeKind][]string),
		byPage:    make(map[int][]string),
		adjacency: make(map[string][]string),
	}
}

// AddNode inserts a node and updates every index. Duplicate ids are
// rejected.
func (g *Graph) AddNode(n common.Node) error {
	if _, exists := g.nodesByID[n.ID]; exists {
		return fmt.Errorf("node %q already in graph", n.ID)
	}

	g.nodesByID[n.ID] = n
	g.nodeOrder = append(g.nodeOrder, n.ID)
	g.byKind[n.Kind] = append(g.byKind[n.Kind], n.ID)
	g.byPage[n.Position.Page] = append(g.byPage[n.Position.Page], n.ID)
	if _, ok := g.adjacency[n.ID]; !ok {
		g.adjacency[n.ID] = nil
	}
	return nil
}

// AddEdge inserts an edge and updates the adjacency of both endpoints.
// It fails with ErrDanglingReference if either endpoint is absent.
func (g *Graph) AddEdge(e common.Edge) error {
	if _, exists := g.edgesByID[e.ID]; exists {
		return fmt.Errorf("edge %q already in graph", e.ID)
	}
	if _, ok := g.nodesByID[e.Source]; !ok {
		return fmt.Errorf("%w: source %q", common.ErrDanglingReference, e.Source)
	}
	if _, ok := g.nodesByID[e.Target]; !ok {
		return fmt.Errorf("%w: target %q", common.ErrDanglingReference, e.Target)
	}

	g.edgesByID[e.ID] = e
	g.edgeOrder = append(g.edgeOrder, e.ID)
	g.adjacency[e.Source] = append(g.adjacency[e.Source], e.ID)
	g.adjacency[e.Target] = append(g.adjacency[e.Target], e.ID)
	return nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (common.Node, bool) {
	n, ok := g.nodesByID[id]
	return n, ok
}

// Edge returns the edge with the given id.
func (g *Graph) Edge(id string) (common.Edge, bool) {
	e, ok := g.edgesByID[id]
	return e, ok
}

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() []common.Node {
	nodes := make([]common.Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		nodes = append(nodes, g.nodesByID[id])
	}
	return nodes
}

// Edges returns every edge in insertion order.
func (g *Graph) Edges() []common.Edge {
	edges := make([]common.Edge, 0, len(g.edgeOrder))
	for _, id := range g.edgeOrder {
		edges = append(edges, g.edgesByID[id])
	}
	return edges
}

// NodesByKind returns all nodes of the given kind via the kind index.
func (g *Graph) NodesByKind(kind common.NodeKind) []common.Node {
	ids := g.byKind[kind]
	nodes := make([]common.Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, g.nodesByID[id])
	}
	return nodes
}

// NodesByPage returns all nodes on the given page via the page index.
func (g *Graph) NodesByPage(page int) []common.Node {
	ids := g.byPage[page]
	nodes := make([]common.Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, g.nodesByID[id])
	}
	return nodes
}

// EdgesByKind returns all edges of the given kind in insertion order.
func (g *Graph) EdgesByKind(kind common.EdgeKind) []common.Edge {
	var edges []common.Edge
	for _, id := range g.edgeOrder {
		if e := g.edgesByID[id]; e.Kind == kind {
			edges = append(edges, e)
		}
	}
	return edges
}

// Degree returns the adjacency length of the node, counting both
// incoming and outgoing edges.
func (g *Graph) Degree(id string) int {
	return len(g.adjacency[id])
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodeOrder)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edgeOrder)
}

// Neighbors performs a cycle-safe breadth-first traversal up to depth
// hops from the start node, treating edges as undirected. Each node is
// visited once and the start node is excluded from the result.
func (g *Graph) Neighbors(id string, depth int) []common.Node {
	if _, ok := g.nodesByID[id]; !ok || depth < 1 {
		return nil
	}

	visited := map[string]struct{}{id: {}}
	frontier := []string{id}
	var result []common.Node

	for hop := 0; hop < depth && len(frontier) > 0; hop++ {
		var next []string
		for _, cur := range frontier {
			for _, eid := range g.adjacency[cur] {
				e := g.edgesByID[eid]
				other := e.Target
				if other == cur {
					other = e.Source
				}
				if _, seen := visited[other]; seen {
					continue
				}
				visited[other] = struct{}{}
				result = append(result, g.nodesByID[other])
				next = append(next, other)
			}
		}
		frontier = next
	}
	return result
}

// ConnectedComponent returns every node reachable from id, treating
// edges as undirected. The start node is included.
func (g *Graph) ConnectedComponent(id string) []common.Node {
	if _, ok := g.nodesByID[id]; !ok {
		return nil
	}

	visited := map[string]struct{}{id: {}}
	stack := []string{id}
	var result []common.Node

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		result = append(result, g.nodesByID[cur])

		for _, eid := range g.adjacency[cur] {
			e := g.edgesByID[eid]
			other := e.Target
			if other == cur {
				other = e.Source
			}
			if _, seen := visited[other]; seen {
				continue
			}
			visited[other] = struct{}{}
			stack = append(stack, other)
		}
	}
	return result
}

// NodesInReadingOrder returns every node sorted by (page, start offset,
// insertion order). Positional reference resolution depends on this
// ordering.
func (g *Graph) NodesInReadingOrder() []common.Node {
	nodes := g.Nodes()
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Position.Page != nodes[j].Position.Page {
			return nodes[i].Position.Page < nodes[j].Position.Page
		}
		return nodes[i].Position.Start < nodes[j].Position.Start
	})
	return nodes
}
