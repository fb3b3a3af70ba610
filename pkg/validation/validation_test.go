package validation

import (
	"testing"

	"github.com/docugraph/backend/pkg/common"
	"github.com/docugraph/backend/pkg/graph"
	"github.com/docugraph/backend/pkg/reference"
)

func det(kind common.ReferenceKind, target string) common.DetectedReference {
	return common.DetectedReference{Kind: kind, Target: target}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		detected []common.DetectedReference
		expected []ExpectedReference
		want     Report
	}{
		{
			name: "perfect detection",
			detected: []common.DetectedReference{
				det(common.ReferenceKindSection, "3.2"),
				det(common.ReferenceKindFigure, "1"),
			},
			expected: []ExpectedReference{
				{Kind: common.ReferenceKindSection, Target: "3.2"},
				{Kind: common.ReferenceKindFigure, Target: "1"},
			},
			want: Report{TruePositives: 2, Precision: 1, Recall: 1, F1: 1},
		},
		{
			name: "one hit one miss one spurious",
			detected: []common.DetectedReference{
				det(common.ReferenceKindSection, "3.2"),
				det(common.ReferenceKindFigure, "9"),
			},
			expected: []ExpectedReference{
				{Kind: common.ReferenceKindSection, Target: "3.2"},
				{Kind: common.ReferenceKindTable, Target: "4"},
			},
			want: Report{
				TruePositives:  1,
				FalsePositives: 1,
				FalseNegatives: 1,
				Precision:      0.5,
				Recall:         0.5,
				F1:             0.5,
			},
		},
		{
			name: "kind must match, not just target",
			detected: []common.DetectedReference{
				det(common.ReferenceKindFigure, "4"),
			},
			expected: []ExpectedReference{
				{Kind: common.ReferenceKindTable, Target: "4"},
			},
			want: Report{FalsePositives: 1, FalseNegatives: 1},
		},
		{
			name: "expectation claimed at most once",
			detected: []common.DetectedReference{
				det(common.ReferenceKindSection, "3.2"),
				det(common.ReferenceKindSection, "3.2"),
			},
			expected: []ExpectedReference{
				{Kind: common.ReferenceKindSection, Target: "3.2"},
			},
			want: Report{
				TruePositives:  1,
				FalsePositives: 1,
				Precision:      0.5,
				Recall:         1,
				F1:             2 * 0.5 * 1 / 1.5,
			},
		},
		{
			name:     "nothing detected nothing expected",
			detected: nil,
			expected: nil,
			want:     Report{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.detected, tt.expected); got != tt.want {
				t.Errorf("Score() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func issueCodes(issues []Issue) map[string]int {
	codes := make(map[string]int)
	for _, issue := range issues {
		codes[issue.Code]++
	}
	return codes
}

func TestCheckGraph(t *testing.T) {
	t.Run("empty graph", func(t *testing.T) {
		issues := CheckGraph(graph.New())
		if len(issues) != 1 || issues[0].Code != "empty_graph" {
			t.Errorf("CheckGraph() = %+v, want single empty_graph issue", issues)
		}
	})

	t.Run("healthy graph", func(t *testing.T) {
		g := graph.New()
		nodes := []common.Node{
			{ID: "a", Kind: common.NodeKindDocument, Position: common.Position{Page: 1, Start: 0, End: 1}},
			{ID: "b", Kind: common.NodeKindParagraph, Position: common.Position{Page: 1, Start: 0, End: 10}, Confidence: 0.9},
		}
		for _, n := range nodes {
			if err := g.AddNode(n); err != nil {
				t.Fatalf("AddNode() unexpected error: %v", err)
			}
		}
		if err := g.AddEdge(common.Edge{ID: "e1", Source: "a", Target: "b", Kind: common.EdgeKindContains, Weight: 1}); err != nil {
			t.Fatalf("AddEdge() unexpected error: %v", err)
		}

		if issues := CheckGraph(g); len(issues) != 0 {
			t.Errorf("CheckGraph() = %+v, want no issues", issues)
		}
	})

	t.Run("invariant violations flagged", func(t *testing.T) {
		g := graph.New()
		nodes := []common.Node{
			{ID: "a", Kind: common.NodeKindParagraph, Position: common.Position{Page: 0, Start: 0, End: 1}},
			{ID: "b", Kind: common.NodeKindParagraph, Position: common.Position{Page: 1, Start: 5, End: 5}},
			{ID: "c", Kind: common.NodeKindParagraph, Position: common.Position{Page: 1, Start: 0, End: 1}, Confidence: 1.5},
		}
		for _, n := range nodes {
			if err := g.AddNode(n); err != nil {
				t.Fatalf("AddNode() unexpected error: %v", err)
			}
		}

		codes := issueCodes(CheckGraph(g))
		if codes["invalid_position"] != 2 {
			t.Errorf("got %d invalid_position issues, want 2", codes["invalid_position"])
		}
		if codes["invalid_confidence"] != 1 {
			t.Errorf("got %d invalid_confidence issues, want 1", codes["invalid_confidence"])
		}
	})
}

func TestCheckAnalyses(t *testing.T) {
	ref := func(start, end int, patternID string) common.DetectedReference {
		return common.DetectedReference{Start: start, End: end, PatternID: patternID}
	}

	t.Run("clean analyses", func(t *testing.T) {
		analyses := []reference.Analysis{
			{NodeID: "a", References: []common.DetectedReference{ref(0, 5, "figure"), ref(10, 15, "table")}},
		}
		if issues := CheckAnalyses(analyses); len(issues) != 0 {
			t.Errorf("CheckAnalyses() = %+v, want no issues", issues)
		}
	})

	t.Run("overlap flagged", func(t *testing.T) {
		analyses := []reference.Analysis{
			{NodeID: "a", References: []common.DetectedReference{ref(0, 10, "figure"), ref(5, 15, "table")}},
		}
		issues := CheckAnalyses(analyses)
		if len(issues) != 1 || issues[0].Code != "overlapping_references" {
			t.Errorf("CheckAnalyses() = %+v, want single overlapping_references issue", issues)
		}
	})

	t.Run("dense low diversity run flagged", func(t *testing.T) {
		refs := make([]common.DetectedReference, 0, densityCeiling)
		for i := 0; i < densityCeiling; i++ {
			refs = append(refs, ref(i*10, i*10+5, "citation-numeric"))
		}
		analyses := []reference.Analysis{{NodeID: "a", References: refs}}

		issues := CheckAnalyses(analyses)
		if len(issues) != 1 || issues[0].Code != "match_density" {
			t.Errorf("CheckAnalyses() = %d issues %+v, want single match_density issue", len(issues), issues)
		}
	})

	t.Run("dense diverse run passes", func(t *testing.T) {
		ids := []string{"figure", "table", "section-explicit", "citation-numeric"}
		refs := make([]common.DetectedReference, 0, densityCeiling)
		for i := 0; i < densityCeiling; i++ {
			refs = append(refs, ref(i*10, i*10+5, ids[i%len(ids)]))
		}
		analyses := []reference.Analysis{{NodeID: "a", References: refs}}

		if issues := CheckAnalyses(analyses); len(issues) != 0 {
			t.Errorf("CheckAnalyses() = %+v, want no issues", issues)
		}
	})
}
