package graph

import (
	"reflect"
	"testing"

	"github.com/docugraph/backend/pkg/common"
)

func TestPortableRoundTrip(t *testing.T) {
	original := buildTestGraph(t)

	restored, err := FromPortable(original.ToPortable())
	if err != nil {
		t.Fatalf("FromPortable() unexpected error: %v", err)
	}

	if !reflect.DeepEqual(restored.Nodes(), original.Nodes()) {
		t.Error("round trip changed node list")
	}
	if !reflect.DeepEqual(restored.Edges(), original.Edges()) {
		t.Error("round trip changed edge list")
	}
	if !reflect.DeepEqual(restored.Statistics(), original.Statistics()) {
		t.Error("round trip changed statistics")
	}

	// Indices must answer identically, not just the flat lists.
	for _, kind := range common.NodeKinds {
		if !reflect.DeepEqual(restored.NodesByKind(kind), original.NodesByKind(kind)) {
			t.Errorf("round trip changed NodesByKind(%s)", kind)
		}
	}
	for _, page := range []int{1, 2, 3} {
		if !reflect.DeepEqual(restored.NodesByPage(page), original.NodesByPage(page)) {
			t.Errorf("round trip changed NodesByPage(%d)", page)
		}
	}
	for _, n := range original.Nodes() {
		if restored.Degree(n.ID) != original.Degree(n.ID) {
			t.Errorf("round trip changed Degree(%s)", n.ID)
		}
	}
}

func TestFromPortableRejectsDanglingEdge(t *testing.T) {
	p := Portable{
		Nodes: []common.Node{testNode("a", common.NodeKindParagraph, 1, 0)},
		Edges: []common.Edge{testEdge("e1", "a", "ghost", common.EdgeKindContains)},
	}
	if _, err := FromPortable(p); err == nil {
		t.Fatal("FromPortable() accepted dangling edge")
	}
}
