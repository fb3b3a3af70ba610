package reference

import (
	"fmt"
	"time"

	"github.com/docugraph/backend/pkg/common"
)

// textualKinds are the node kinds carrying narrative text. Detection is
// restricted to these; other kinds fail with ErrNotTextNode.
var textualKinds = map[common.NodeKind]struct{}{
	common.NodeKindParagraph: {},
	common.NodeKindSection:   {},
	common.NodeKindList:      {},
	common.NodeKindCode:      {},
}

// IsTextual reports whether detection may run on the given node kind.
func IsTextual(kind common.NodeKind) bool {
	_, ok := textualKinds[kind]
	return ok
}

// ConfidenceStats holds the minimum, average, and maximum confidence of
// one reference kind within a single analysis.
type ConfidenceStats struct {
	Min float64 `json:"min"`
	Avg float64 `json:"avg"`
	Max float64 `json:"max"`
}

// AnalysisStats summarizes the references found in one node.
type AnalysisStats struct {
	Count      int                                      `json:"count"`
	Confidence map[common.ReferenceKind]ConfidenceStats `json:"confidence"`
}

// AnalysisMeta records how much text was analyzed and how long the
// analysis took.
type AnalysisMeta struct {
	Length  int           `json:"length"`
	Elapsed time.Duration `json:"elapsed"`
}

// Analysis is the detection result for one node. ByKind always carries
// all six reference kinds as keys, empty slices included.
type Analysis struct {
	NodeID     string                                              `json:"node_id"`
	References []common.DetectedReference                          `json:"references"`
	ByKind     map[common.ReferenceKind][]common.DetectedReference `json:"by_kind"`
	Stats      AnalysisStats                                       `json:"stats"`
	Meta       AnalysisMeta                                        `json:"meta"`
}

// Detector orchestrates the matcher over graph nodes. It is stateless
// and safe for concurrent use.
type Detector struct {
	matcher *Matcher
}

// NewDetectorParams configures a Detector. A nil Matcher uses one with
// default settings.
type NewDetectorParams struct {
	Matcher *Matcher
}

// NewDetector returns a Detector with the given configuration.
func NewDetector(params NewDetectorParams) *Detector {
	matcher := params.Matcher
	if matcher == nil {
		matcher = NewMatcher(NewMatcherParams{})
	}
	return &Detector{matcher: matcher}
}

// AnalyzeNode detects references in a single node's content. Calling it
// on a non-textual kind fails with ErrNotTextNode.
func (d *Detector) AnalyzeNode(node common.Node) (Analysis, error) {
	if !IsTextual(node.Kind) {
		return Analysis{}, fmt.Errorf("%w: node %q has kind %s", common.ErrNotTextNode, node.ID, node.Kind)
	}

	started := time.Now()
	result := d.matcher.Match(node.Content)

	byKind := make(map[common.ReferenceKind][]common.DetectedReference, len(common.ReferenceKinds))
	for _, kind := range common.ReferenceKinds {
		byKind[kind] = []common.DetectedReference{}
	}
	for _, ref := range result.References {
		byKind[ref.Kind] = append(byKind[ref.Kind], ref)
	}

	return Analysis{
		NodeID:     node.ID,
		References: result.References,
		ByKind:     byKind,
		Stats: AnalysisStats{
			Count:      len(result.References),
			Confidence: confidenceByKind(byKind),
		},
		Meta: AnalysisMeta{
			Length:  len(node.Content),
			Elapsed: time.Since(started),
		},
	}, nil
}

// AnalyzeNodes detects references across many nodes. Non-textual nodes
// are silently skipped rather than failing the batch.
func (d *Detector) AnalyzeNodes(nodes []common.Node) []Analysis {
	analyses := make([]Analysis, 0, len(nodes))
	for _, node := range nodes {
		if !IsTextual(node.Kind) {
			continue
		}
		analysis, err := d.AnalyzeNode(node)
		if err != nil {
			continue
		}
		analyses = append(analyses, analysis)
	}
	return analyses
}

func confidenceByKind(byKind map[common.ReferenceKind][]common.DetectedReference) map[common.ReferenceKind]ConfidenceStats {
	stats := make(map[common.ReferenceKind]ConfidenceStats)
	for kind, refs := range byKind {
		if len(refs) == 0 {
			continue
		}
		cs := ConfidenceStats{Min: refs[0].Confidence, Max: refs[0].Confidence}
		sum := 0.0
		for _, ref := range refs {
			if ref.Confidence < cs.Min {
				cs.Min = ref.Confidence
			}
			if ref.Confidence > cs.Max {
				cs.Max = ref.Confidence
			}
			sum += ref.Confidence
		}
		cs.Avg = sum / float64(len(refs))
		stats[kind] = cs
	}
	return stats
}

// AggregateStats summarizes many analyses, for the validation harness
// and operational metrics.
type AggregateStats struct {
	Nodes           int     `json:"nodes"`
	TotalReferences int     `json:"total_references"`
	AvgPerNode      float64 `json:"avg_per_node"`
	AvgConfidence   float64 `json:"avg_confidence"`
}

// Aggregate is a pure function summing totals and averaging
// references-per-node and per-reference confidence across analyses.
func Aggregate(analyses []Analysis) AggregateStats {
	agg := AggregateStats{Nodes: len(analyses)}

	confidenceSum := 0.0
	for _, analysis := range analyses {
		agg.TotalReferences += len(analysis.References)
		for _, ref := range analysis.References {
			confidenceSum += ref.Confidence
		}
	}
	if agg.Nodes > 0 {
		agg.AvgPerNode = float64(agg.TotalReferences) / float64(agg.Nodes)
	}
	if agg.TotalReferences > 0 {
		agg.AvgConfidence = confidenceSum / float64(agg.TotalReferences)
	}
	return agg
}
