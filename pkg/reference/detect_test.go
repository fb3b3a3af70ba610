package reference

import (
	"errors"
	"testing"

	"github.com/docugraph/backend/pkg/common"
)

func textNode(id string, kind common.NodeKind, content string) common.Node {
	return common.Node{
		ID:       id,
		Kind:     kind,
		Label:    id,
		Content:  content,
		Position: common.Position{Page: 1, Start: 0, End: len(content) + 1},
	}
}

func TestAnalyzeNodeRejectsNonTextual(t *testing.T) {
	d := NewDetector(NewDetectorParams{})

	for _, kind := range []common.NodeKind{
		common.NodeKindDocument,
		common.NodeKindMetadata,
		common.NodeKindImage,
		common.NodeKindTable,
	} {
		_, err := d.AnalyzeNode(textNode("n1", kind, "See section 3.2"))
		if !errors.Is(err, common.ErrNotTextNode) {
			t.Errorf("AnalyzeNode(kind=%s) error = %v, want ErrNotTextNode", kind, err)
		}
	}
}

func TestAnalyzeNodeGroupsByKind(t *testing.T) {
	d := NewDetector(NewDetectorParams{})
	node := textNode("n1", common.NodeKindParagraph, "See section 3.2 and Figure 1, also [3].")

	analysis, err := d.AnalyzeNode(node)
	if err != nil {
		t.Fatalf("AnalyzeNode() unexpected error: %v", err)
	}

	if analysis.NodeID != "n1" {
		t.Errorf("NodeID = %q, want n1", analysis.NodeID)
	}
	if analysis.Stats.Count != 3 {
		t.Errorf("Stats.Count = %d, want 3", analysis.Stats.Count)
	}

	// Every reference kind is present as a key, empty or not.
	if len(analysis.ByKind) != len(common.ReferenceKinds) {
		t.Errorf("ByKind has %d keys, want %d", len(analysis.ByKind), len(common.ReferenceKinds))
	}
	for _, kind := range common.ReferenceKinds {
		if _, ok := analysis.ByKind[kind]; !ok {
			t.Errorf("ByKind missing key %s", kind)
		}
	}

	if got := len(analysis.ByKind[common.ReferenceKindSection]); got != 1 {
		t.Errorf("ByKind[section] = %d references, want 1", got)
	}
	if got := len(analysis.ByKind[common.ReferenceKindCitation]); got != 1 {
		t.Errorf("ByKind[citation] = %d references, want 1", got)
	}
	if got := len(analysis.ByKind[common.ReferenceKindPage]); got != 0 {
		t.Errorf("ByKind[page] = %d references, want 0", got)
	}

	sectionStats, ok := analysis.Stats.Confidence[common.ReferenceKindSection]
	if !ok {
		t.Fatal("Stats.Confidence missing section entry")
	}
	if sectionStats.Min != 0.9 || sectionStats.Avg != 0.9 || sectionStats.Max != 0.9 {
		t.Errorf("section confidence stats = %+v, want all 0.9", sectionStats)
	}
	if _, ok := analysis.Stats.Confidence[common.ReferenceKindPage]; ok {
		t.Error("Stats.Confidence has entry for kind with no references")
	}

	if analysis.Meta.Length != len(node.Content) {
		t.Errorf("Meta.Length = %d, want %d", analysis.Meta.Length, len(node.Content))
	}
}

func TestAnalyzeNodeEmptyContent(t *testing.T) {
	d := NewDetector(NewDetectorParams{})

	analysis, err := d.AnalyzeNode(textNode("n1", common.NodeKindParagraph, ""))
	if err != nil {
		t.Fatalf("AnalyzeNode() unexpected error: %v", err)
	}
	if analysis.Stats.Count != 0 {
		t.Errorf("Stats.Count = %d, want 0", analysis.Stats.Count)
	}
	if len(analysis.ByKind) != len(common.ReferenceKinds) {
		t.Errorf("ByKind has %d keys, want %d", len(analysis.ByKind), len(common.ReferenceKinds))
	}
}

func TestAnalyzeNodesSkipsNonTextual(t *testing.T) {
	d := NewDetector(NewDetectorParams{})
	nodes := []common.Node{
		textNode("p1", common.NodeKindParagraph, "See section 1"),
		textNode("doc", common.NodeKindDocument, "See section 2"),
		textNode("p2", common.NodeKindList, "See Table 4"),
		textNode("img", common.NodeKindImage, ""),
	}

	analyses := d.AnalyzeNodes(nodes)
	if len(analyses) != 2 {
		t.Fatalf("AnalyzeNodes() = %d analyses, want 2", len(analyses))
	}
	if analyses[0].NodeID != "p1" || analyses[1].NodeID != "p2" {
		t.Errorf("AnalyzeNodes() ids = (%s, %s), want (p1, p2)", analyses[0].NodeID, analyses[1].NodeID)
	}
}

func TestAggregate(t *testing.T) {
	ref := func(conf float64) common.DetectedReference {
		return common.DetectedReference{Confidence: conf}
	}

	tests := []struct {
		name     string
		analyses []Analysis
		want     AggregateStats
	}{
		{
			name:     "empty input",
			analyses: nil,
			want:     AggregateStats{},
		},
		{
			name: "nodes without references",
			analyses: []Analysis{
				{NodeID: "a"},
				{NodeID: "b"},
			},
			want: AggregateStats{Nodes: 2},
		},
		{
			name: "mixed references",
			analyses: []Analysis{
				{NodeID: "a", References: []common.DetectedReference{ref(0.5), ref(1.0)}},
				{NodeID: "b", References: []common.DetectedReference{ref(0.75)}},
				{NodeID: "c"},
			},
			want: AggregateStats{
				Nodes:           3,
				TotalReferences: 3,
				AvgPerNode:      1.0,
				AvgConfidence:   0.75,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.analyses)
			if got != tt.want {
				t.Errorf("Aggregate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
