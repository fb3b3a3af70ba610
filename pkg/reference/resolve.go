package reference

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/docugraph/backend/pkg/common"
	"github.com/docugraph/backend/pkg/graph"
)

// Resolution confidence tiers. Exact identifier matches sit at the top;
// everything else stays strictly below it.
const (
	exactMatchConfidence = 0.95
	pageMatchConfidence  = 0.7
	fuzzyThreshold       = 0.5
	fuzzyScale           = 0.8
	spatialBase          = 0.6
	spatialPageDecay     = 0.05
	spatialFloor         = 0.3
)

// Resolver maps detected references to concrete target nodes via a
// fixed strategy ladder. It is stateless; the graph and source node are
// explicit arguments so resolution stays deterministic and trivially
// testable.
type Resolver struct{}

// NewResolver returns a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve maps one detected reference against the owning graph and the
// node the reference was found in. It never fails: an unresolvable
// reference yields a zero-confidence Resolution whose reason names what
// was searched for.
func (r *Resolver) Resolve(g *graph.Graph, source common.Node, ref common.DetectedReference) common.Resolution {
	switch ref.Kind {
	case common.ReferenceKindSection:
		return resolveNumbered(g, ref, common.NodeKindSection, common.PropSectionNumber, "section")
	case common.ReferenceKindFigure:
		return resolveNumbered(g, ref, common.NodeKindImage, common.PropFigureNumber, "figure")
	case common.ReferenceKindTable:
		return resolveNumbered(g, ref, common.NodeKindTable, common.PropTableNumber, "table")
	case common.ReferenceKindPage:
		return resolvePage(g, ref)
	case common.ReferenceKindCrossReference:
		return resolveSpatial(g, source, ref)
	case common.ReferenceKindCitation:
		return unresolved(ref, "Citations resolve against external bibliographic data, none is attached to this graph")
	default:
		return unresolved(ref, fmt.Sprintf("No resolution strategy for reference kind %q", ref.Kind))
	}
}

// ResolveAll resolves an ordered sequence of references against one
// context, preserving order.
func (r *Resolver) ResolveAll(g *graph.Graph, source common.Node, refs []common.DetectedReference) []common.Resolution {
	resolutions := make([]common.Resolution, 0, len(refs))
	for _, ref := range refs {
		resolutions = append(resolutions, r.Resolve(g, source, ref))
	}
	return resolutions
}

// resolveNumbered implements the exact-then-fuzzy ladder shared by
// section, figure, and table references. Candidate nodes carry their
// identifier under the given property key.
func resolveNumbered(g *graph.Graph, ref common.DetectedReference, kind common.NodeKind, propKey, noun string) common.Resolution {
	candidates := g.NodesByKind(kind)

	for _, node := range candidates {
		if nodeNumber(node, propKey) == ref.Target {
			return common.Resolution{
				Reference:  ref,
				Target:     &node,
				Confidence: exactMatchConfidence,
				Reason:     fmt.Sprintf("Exact %s number match on %q", noun, ref.Target),
			}
		}
	}

	var best *common.Node
	bestScore := 0.0
	for _, node := range candidates {
		number := nodeNumber(node, propKey)
		if number == "" {
			continue
		}
		score := numericSimilarity(ref.Target, number)
		if score > bestScore {
			best = &node
			bestScore = score
		}
	}
	if best != nil && bestScore >= fuzzyThreshold {
		return common.Resolution{
			Reference:  ref,
			Target:     best,
			Confidence: bestScore * fuzzyScale,
			Reason:     fmt.Sprintf("Fuzzy %s number match: %q vs %q", noun, ref.Target, nodeNumber(*best, propKey)),
		}
	}

	return unresolved(ref, fmt.Sprintf("No %s found matching %q among %d candidates", noun, ref.Target, len(candidates)))
}

// resolvePage parses the target as a page number. An unparsable target
// fails immediately with no fuzzy fallback.
func resolvePage(g *graph.Graph, ref common.DetectedReference) common.Resolution {
	page, err := strconv.Atoi(strings.TrimSpace(ref.Target))
	if err != nil {
		return unresolved(ref, fmt.Sprintf("Invalid page number %q", ref.Target))
	}

	nodes := g.NodesByPage(page)
	if len(nodes) == 0 {
		return unresolved(ref, fmt.Sprintf("No content found on page %d", page))
	}

	return common.Resolution{
		Reference:  ref,
		Target:     &nodes[0],
		Confidence: pageMatchConfidence,
		Reason:     fmt.Sprintf("Content found on page %d", page),
	}
}

// resolveSpatial handles directional targets: the nearest node strictly
// before or after the source in (page, start offset) order. Confidence
// drops with page distance and never reaches the exact-match tier.
func resolveSpatial(g *graph.Graph, source common.Node, ref common.DetectedReference) common.Resolution {
	direction := strings.ToLower(strings.TrimSpace(ref.Target))
	if direction != "above" && direction != "below" {
		return unresolved(ref, fmt.Sprintf("Unknown direction %q, expected above or below", ref.Target))
	}

	ordered := g.NodesInReadingOrder()
	sourceIdx := -1
	for i, node := range ordered {
		if node.ID == source.ID {
			sourceIdx = i
			break
		}
	}
	if sourceIdx < 0 {
		return unresolved(ref, fmt.Sprintf("Source node %q not in graph", source.ID))
	}

	targetIdx := sourceIdx - 1
	if direction == "below" {
		targetIdx = sourceIdx + 1
	}
	if targetIdx < 0 || targetIdx >= len(ordered) {
		return unresolved(ref, fmt.Sprintf("No content %s the source position", direction))
	}

	target := ordered[targetIdx]
	pageDelta := target.Position.Page - source.Position.Page
	if pageDelta < 0 {
		pageDelta = -pageDelta
	}
	confidence := spatialBase - spatialPageDecay*float64(pageDelta)
	if confidence < spatialFloor {
		confidence = spatialFloor
	}

	return common.Resolution{
		Reference:  ref,
		Target:     &target,
		Confidence: confidence,
		Reason:     fmt.Sprintf("Nearest content %s the source on page %d", direction, target.Position.Page),
	}
}

func unresolved(ref common.DetectedReference, reason string) common.Resolution {
	return common.Resolution{
		Reference:  ref,
		Confidence: 0,
		Reason:     reason,
	}
}

func nodeNumber(node common.Node, propKey string) string {
	if node.Properties == nil {
		return ""
	}
	value, _ := node.Properties[propKey].(string)
	return value
}

// numericSimilarity scores two dotted section-style numbers. Identical
// strings score 1.0; shared leading segments ("3" vs "3.2") earn
// partial credit proportional to the longer number; everything else
// scores 0.
func numericSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	shared := 0
	for shared < len(as) && shared < len(bs) && as[shared] == bs[shared] {
		shared++
	}
	if shared == 0 {
		return 0
	}

	longest := len(as)
	if len(bs) > longest {
		longest = len(bs)
	}
	return float64(shared) / float64(longest)
}
