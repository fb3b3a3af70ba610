package common

import (
	"errors"
	"testing"
)

func strPtr(s string) *string {
	return &s
}

func TestNewNodeValidation(t *testing.T) {
	validPos := Position{Page: 1, Start: 0, End: 10}

	tests := []struct {
		name    string
		params  NewNodeParams
		wantErr error
	}{
		{
			name: "valid paragraph",
			params: NewNodeParams{
				Kind:     NodeKindParagraph,
				Label:    "Intro",
				Content:  strPtr("Some text."),
				Position: validPos,
			},
			wantErr: nil,
		},
		{
			name: "empty content is valid",
			params: NewNodeParams{
				Kind:     NodeKindMetadata,
				Label:    "Page 1",
				Content:  strPtr(""),
				Position: validPos,
			},
			wantErr: nil,
		},
		{
			name: "unknown kind",
			params: NewNodeParams{
				Kind:     NodeKind("chapter"),
				Label:    "Intro",
				Content:  strPtr("text"),
				Position: validPos,
			},
			wantErr: ErrInvalidKind,
		},
		{
			name: "empty label",
			params: NewNodeParams{
				Kind:     NodeKindParagraph,
				Content:  strPtr("text"),
				Position: validPos,
			},
			wantErr: ErrEmptyLabel,
		},
		{
			name: "nil content",
			params: NewNodeParams{
				Kind:     NodeKindParagraph,
				Label:    "Intro",
				Position: validPos,
			},
			wantErr: ErrNullContent,
		},
		{
			name: "page below one",
			params: NewNodeParams{
				Kind:     NodeKindParagraph,
				Label:    "Intro",
				Content:  strPtr("text"),
				Position: Position{Page: 0, Start: 0, End: 10},
			},
			wantErr: ErrInvalidPosition,
		},
		{
			name: "start not before end",
			params: NewNodeParams{
				Kind:     NodeKindParagraph,
				Label:    "Intro",
				Content:  strPtr("text"),
				Position: Position{Page: 1, Start: 10, End: 10},
			},
			wantErr: ErrInvalidPosition,
		},
		{
			name: "confidence above one",
			params: NewNodeParams{
				Kind:       NodeKindParagraph,
				Label:      "Intro",
				Content:    strPtr("text"),
				Position:   validPos,
				Confidence: 1.5,
			},
			wantErr: ErrInvalidConfidence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := NewNode(tt.params)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewNode() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewNode() unexpected error: %v", err)
			}
			if node.ID == "" {
				t.Error("NewNode() returned empty id")
			}
			if node.Content != *tt.params.Content {
				t.Errorf("NewNode() content = %q, want %q", node.Content, *tt.params.Content)
			}
			if node.CreatedAt.IsZero() || node.UpdatedAt.IsZero() {
				t.Error("NewNode() timestamps not set")
			}
		})
	}
}

func TestNewNodeUniqueIDs(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		node, err := NewNode(NewNodeParams{
			Kind:     NodeKindParagraph,
			Label:    "Paragraph",
			Content:  strPtr("text"),
			Position: Position{Page: 1, Start: 0, End: 4},
		})
		if err != nil {
			t.Fatalf("NewNode() unexpected error: %v", err)
		}
		if _, dup := seen[node.ID]; dup {
			t.Fatalf("duplicate node id %q", node.ID)
		}
		seen[node.ID] = struct{}{}
	}
}

func TestNewEdgeValidation(t *testing.T) {
	tests := []struct {
		name    string
		params  NewEdgeParams
		wantErr error
	}{
		{
			name:    "valid contains edge",
			params:  NewEdgeParams{Source: "a", Target: "b", Kind: EdgeKindContains},
			wantErr: nil,
		},
		{
			name:    "self reference",
			params:  NewEdgeParams{Source: "a", Target: "a", Kind: EdgeKindContains},
			wantErr: ErrSelfReference,
		},
		{
			name:    "unknown kind",
			params:  NewEdgeParams{Source: "a", Target: "b", Kind: EdgeKind("links")},
			wantErr: ErrInvalidEdgeKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edge, err := NewEdge(tt.params)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewEdge() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewEdge() unexpected error: %v", err)
			}
			if edge.Weight != 1.0 {
				t.Errorf("NewEdge() default weight = %f, want 1.0", edge.Weight)
			}
		})
	}
}

func TestNewEdgeKeepsWeight(t *testing.T) {
	edge, err := NewEdge(NewEdgeParams{
		Source: "a",
		Target: "b",
		Kind:   EdgeKindReferences,
		Weight: 0.95,
	})
	if err != nil {
		t.Fatalf("NewEdge() unexpected error: %v", err)
	}
	if edge.Weight != 0.95 {
		t.Errorf("NewEdge() weight = %f, want 0.95", edge.Weight)
	}
}
