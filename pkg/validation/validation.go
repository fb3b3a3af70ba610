// Package validation scores detection quality against hand-labeled
// expectations and sanity-checks built graphs for structural defects.
package validation

import (
	"fmt"

	"github.com/docugraph/backend/pkg/common"
	"github.com/docugraph/backend/pkg/graph"
	"github.com/docugraph/backend/pkg/reference"
)

// ExpectedReference is one hand-labeled expectation: a reference of the
// given kind pointing at the given target should have been detected.
type ExpectedReference struct {
	Kind   common.ReferenceKind `json:"kind"`
	Target string               `json:"target"`
}

// Report holds precision/recall/F1 for one scored detection run.
type Report struct {
	TruePositives  int     `json:"true_positives"`
	FalsePositives int     `json:"false_positives"`
	FalseNegatives int     `json:"false_negatives"`
	Precision      float64 `json:"precision"`
	Recall         float64 `json:"recall"`
	F1             float64 `json:"f1"`
}

// Score compares detections against expectations. A detection is a true
// positive if its kind and target match an unclaimed expectation; each
// expectation is claimed at most once. Unmatched detections are false
// positives, unmatched expectations false negatives.
func Score(detected []common.DetectedReference, expected []ExpectedReference) Report {
	report := Report{}
	claimed := make([]bool, len(expected))

	for _, det := range detected {
		matched := false
		for i, exp := range expected {
			if claimed[i] || exp.Kind != det.Kind || exp.Target != det.Target {
				continue
			}
			claimed[i] = true
			matched = true
			break
		}
		if matched {
			report.TruePositives++
		} else {
			report.FalsePositives++
		}
	}
	for _, c := range claimed {
		if !c {
			report.FalseNegatives++
		}
	}

	if report.TruePositives+report.FalsePositives > 0 {
		report.Precision = float64(report.TruePositives) / float64(report.TruePositives+report.FalsePositives)
	}
	if report.TruePositives+report.FalseNegatives > 0 {
		report.Recall = float64(report.TruePositives) / float64(report.TruePositives+report.FalseNegatives)
	}
	if report.Precision+report.Recall > 0 {
		report.F1 = 2 * report.Precision * report.Recall / (report.Precision + report.Recall)
	}

	return report
}

// Issue is one finding of a sanity check.
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	// densityCeiling is the match count above which a run with no
	// diversity in firing patterns is treated as noise.
	densityCeiling = 100
	// minDistinctPatterns is the pattern diversity expected of a run
	// that large.
	minDistinctPatterns = 3
)

// CheckGraph inspects a built graph for structural defects: empty
// input, violated node invariants, and dangling edge endpoints.
func CheckGraph(g *graph.Graph) []Issue {
	var issues []Issue

	if g.NodeCount() == 0 {
		issues = append(issues, Issue{
			Code:    "empty_graph",
			Message: "graph has no nodes; the input document produced no content",
		})
		return issues
	}

	for _, node := range g.Nodes() {
		if node.Position.Page < 1 {
			issues = append(issues, Issue{
				Code:    "invalid_position",
				Message: fmt.Sprintf("node %q has page %d < 1", node.ID, node.Position.Page),
			})
		}
		if node.Position.Start >= node.Position.End {
			issues = append(issues, Issue{
				Code:    "invalid_position",
				Message: fmt.Sprintf("node %q has start %d >= end %d", node.ID, node.Position.Start, node.Position.End),
			})
		}
		if node.Confidence < 0 || node.Confidence > 1 {
			issues = append(issues, Issue{
				Code:    "invalid_confidence",
				Message: fmt.Sprintf("node %q has confidence %f outside [0,1]", node.ID, node.Confidence),
			})
		}
	}

	for _, edge := range g.Edges() {
		if _, ok := g.Node(edge.Source); !ok {
			issues = append(issues, Issue{
				Code:    "dangling_edge",
				Message: fmt.Sprintf("edge %q source %q not in graph", edge.ID, edge.Source),
			})
		}
		if _, ok := g.Node(edge.Target); !ok {
			issues = append(issues, Issue{
				Code:    "dangling_edge",
				Message: fmt.Sprintf("edge %q target %q not in graph", edge.ID, edge.Target),
			})
		}
	}

	return issues
}

// CheckAnalyses inspects detection results for pathological density and
// overlapping surviving references. Overlap should be structurally
// impossible; finding one signals a matcher defect.
func CheckAnalyses(analyses []reference.Analysis) []Issue {
	var issues []Issue

	total := 0
	patterns := make(map[string]struct{})
	for _, analysis := range analyses {
		total += len(analysis.References)
		for _, ref := range analysis.References {
			patterns[ref.PatternID] = struct{}{}
		}

		for i := 1; i < len(analysis.References); i++ {
			prev := analysis.References[i-1]
			cur := analysis.References[i]
			if cur.Start < prev.End {
				issues = append(issues, Issue{
					Code: "overlapping_references",
					Message: fmt.Sprintf("node %q has overlapping references at [%d,%d) and [%d,%d)",
						analysis.NodeID, prev.Start, prev.End, cur.Start, cur.End),
				})
			}
		}
	}

	if total >= densityCeiling && len(patterns) < minDistinctPatterns {
		issues = append(issues, Issue{
			Code: "match_density",
			Message: fmt.Sprintf("%d matches from only %d distinct patterns suggests noise",
				total, len(patterns)),
		})
	}

	return issues
}
