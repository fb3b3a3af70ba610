package common

import (
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Construction-time validation errors. These are deterministic,
// fail-fast, and never silently coerced.
var (
	ErrInvalidKind       = errors.New("invalid node kind")
	ErrEmptyLabel        = errors.New("empty node label")
	ErrNullContent       = errors.New("null node content")
	ErrInvalidPosition   = errors.New("invalid node position")
	ErrSelfReference     = errors.New("edge source equals target")
	ErrInvalidEdgeKind   = errors.New("invalid edge kind")
	ErrDanglingReference = errors.New("edge endpoint not in graph")
	ErrNotTextNode       = errors.New("node does not carry narrative text")
	ErrInvalidConfidence = errors.New("confidence outside [0,1]")
)

var validNodeKinds = func() map[NodeKind]struct{} {
	m := make(map[NodeKind]struct{}, len(NodeKinds))
	for _, k := range NodeKinds {
		m[k] = struct{}{}
	}
	return m
}()

var validEdgeKinds = func() map[EdgeKind]struct{} {
	m := make(map[EdgeKind]struct{}, len(EdgeKinds))
	for _, k := range EdgeKinds {
		m[k] = struct{}{}
	}
	return m
}()

// IsNodeKind reports whether k is a member of the closed node kind set.
func IsNodeKind(k NodeKind) bool {
	_, ok := validNodeKinds[k]
	return ok
}

// IsEdgeKind reports whether k is a member of the closed edge kind set.
func IsEdgeKind(k EdgeKind) bool {
	_, ok := validEdgeKinds[k]
	return ok
}

// NewNodeParams defines the input for creating a Node. Content is a
// pointer so an absent payload can be told apart from an empty string:
// nil is rejected, "" is valid.
type NewNodeParams struct {
	Kind       NodeKind
	Label      string
	Content    *string
	Position   Position
	Confidence float64
	Properties map[string]any
}

// NewNode validates params and returns a Node with a freshly generated
// id. It has no side effects beyond id generation.
func NewNode(params NewNodeParams) (Node, error) {
	if !IsNodeKind(params.Kind) {
		return Node{}, fmt.Errorf("%w: %q", ErrInvalidKind, params.Kind)
	}
	if params.Label == "" {
		return Node{}, fmt.Errorf("%w: kind %s", ErrEmptyLabel, params.Kind)
	}
	if params.Content == nil {
		return Node{}, fmt.Errorf("%w: label %q", ErrNullContent, params.Label)
	}
	if params.Position.Page < 1 {
		return Node{}, fmt.Errorf("%w: page %d < 1", ErrInvalidPosition, params.Position.Page)
	}
	if params.Position.Start >= params.Position.End {
		return Node{}, fmt.Errorf("%w: start %d >= end %d", ErrInvalidPosition, params.Position.Start, params.Position.End)
	}
	if params.Confidence < 0 || params.Confidence > 1 {
		return Node{}, fmt.Errorf("%w: %f", ErrInvalidConfidence, params.Confidence)
	}

	id, err := gonanoid.New()
	if err != nil {
		return Node{}, fmt.Errorf("failed to generate node id: %w", err)
	}

	now := time.Now().UTC()
	return Node{
		ID:         id,
		Kind:       params.Kind,
		Label:      params.Label,
		Content:    *params.Content,
		Position:   params.Position,
		Confidence: params.Confidence,
		Properties: params.Properties,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// NewEdgeParams defines the input for creating an Edge. Weight <= 0
// falls back to the default of 1.0.
type NewEdgeParams struct {
	Source   string
	Target   string
	Kind     EdgeKind
	Weight   float64
	Metadata *EdgeMetadata
}

// NewEdge validates params and returns an Edge with a freshly generated
// id. Endpoint existence is the owning graph's concern, not the
// factory's.
func NewEdge(params NewEdgeParams) (Edge, error) {
	if !IsEdgeKind(params.Kind) {
		return Edge{}, fmt.Errorf("%w: %q", ErrInvalidEdgeKind, params.Kind)
	}
	if params.Source == params.Target {
		return Edge{}, fmt.Errorf("%w: %q", ErrSelfReference, params.Source)
	}

	weight := params.Weight
	if weight <= 0 {
		weight = 1.0
	}

	id, err := gonanoid.New()
	if err != nil {
		return Edge{}, fmt.Errorf("failed to generate edge id: %w", err)
	}

	return Edge{
		ID:       id,
		Source:   params.Source,
		Target:   params.Target,
		Kind:     params.Kind,
		Weight:   weight,
		Metadata: params.Metadata,
	}, nil
}
