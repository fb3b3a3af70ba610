package common

import "time"

// NodeKind identifies the type of content a node carries. The set is
// closed: consumers dispatch over it exhaustively.
type NodeKind string

const (
	NodeKindDocument  NodeKind = "document"
	NodeKindSection   NodeKind = "section"
	NodeKindParagraph NodeKind = "paragraph"
	NodeKindTable     NodeKind = "table"
	NodeKindImage     NodeKind = "image"
	NodeKindList      NodeKind = "list"
	NodeKindCode      NodeKind = "code"
	NodeKindMetadata  NodeKind = "metadata"
)

// NodeKinds lists every valid node kind.
var NodeKinds = []NodeKind{
	NodeKindDocument,
	NodeKindSection,
	NodeKindParagraph,
	NodeKindTable,
	NodeKindImage,
	NodeKindList,
	NodeKindCode,
	NodeKindMetadata,
}

// EdgeKind identifies the relationship an edge expresses. The set is
// closed, like NodeKind.
type EdgeKind string

const (
	EdgeKindContains   EdgeKind = "contains"
	EdgeKindFollows    EdgeKind = "follows"
	EdgeKindReferences EdgeKind = "references"
	EdgeKindSimilar    EdgeKind = "similar"
	EdgeKindParent     EdgeKind = "parent"
	EdgeKindChild      EdgeKind = "child"
	EdgeKindNext       EdgeKind = "next"
	EdgeKindPrevious   EdgeKind = "previous"
)

// EdgeKinds lists every valid edge kind.
var EdgeKinds = []EdgeKind{
	EdgeKindContains,
	EdgeKindFollows,
	EdgeKindReferences,
	EdgeKindSimilar,
	EdgeKindParent,
	EdgeKindChild,
	EdgeKindNext,
	EdgeKindPrevious,
}

// Property keys the builder stores identifier tokens under. Reference
// resolution matches detected targets against these.
const (
	PropSectionNumber = "section_number"
	PropFigureNumber  = "figure_number"
	PropTableNumber   = "table_number"
)

// Position locates a node's text span within a page. Offsets are local
// to the page's text, with Start < End and Page >= 1.
type Position struct {
	Page  int `json:"page"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// Node is a typed unit of document content. Each node carries an
// authoritative text payload, a short label, and a position within the
// source document.
//
// Nodes are created once by the builder or by reference-edge
// materialization and never mutated afterward.
type Node struct {
	ID         string         `json:"id"`
	Kind       NodeKind       `json:"kind"`
	Label      string         `json:"label"`
	Content    string         `json:"content"`
	Position   Position       `json:"position"`
	Confidence float64        `json:"confidence,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// EdgeMetadata carries optional context for an edge, such as the text
// surrounding a detected reference or a similarity score.
type EdgeMetadata struct {
	Context    string  `json:"context,omitempty"`
	Similarity float64 `json:"similarity,omitempty"`
}

// Edge is a typed, weighted relationship between two nodes. Edges hold
// node ids rather than node handles; the owning graph resolves them.
//
// Weight defaults to 1.0 and is read as a confidence in [0,1] for
// references and similar edges.
type Edge struct {
	ID       string        `json:"id"`
	Source   string        `json:"source"`
	Target   string        `json:"target"`
	Kind     EdgeKind      `json:"kind"`
	Weight   float64       `json:"weight"`
	Metadata *EdgeMetadata `json:"metadata,omitempty"`
}

// ReferenceKind classifies what a detected reference points at.
type ReferenceKind string

const (
	ReferenceKindSection        ReferenceKind = "section"
	ReferenceKindFigure         ReferenceKind = "figure"
	ReferenceKindTable          ReferenceKind = "table"
	ReferenceKindCitation       ReferenceKind = "citation"
	ReferenceKindCrossReference ReferenceKind = "cross_reference"
	ReferenceKindPage           ReferenceKind = "page"
)

// ReferenceKinds lists every valid reference kind.
var ReferenceKinds = []ReferenceKind{
	ReferenceKindSection,
	ReferenceKindFigure,
	ReferenceKindTable,
	ReferenceKindCitation,
	ReferenceKindCrossReference,
	ReferenceKindPage,
}

// DetectedReference is a text span believed to point elsewhere in the
// document. Start and End are local to the analyzed text.
type DetectedReference struct {
	Start      int           `json:"start"`
	End        int           `json:"end"`
	Text       string        `json:"text"`
	Kind       ReferenceKind `json:"kind"`
	Target     string        `json:"target"`
	PatternID  string        `json:"pattern_id"`
	Confidence float64       `json:"confidence"`
	Context    string        `json:"context,omitempty"`
}

// Resolution is the outcome of mapping a detected reference to a
// concrete target node. Target is nil when the reference could not be
// resolved, in which case Confidence is 0. Reason is always populated,
// success or failure.
type Resolution struct {
	Reference  DetectedReference `json:"reference"`
	Target     *Node             `json:"target,omitempty"`
	Confidence float64           `json:"confidence"`
	Reason     string            `json:"reason"`
}

// Resolved reports whether the resolution produced a target.
func (r Resolution) Resolved() bool {
	return r.Target != nil && r.Confidence > 0
}
