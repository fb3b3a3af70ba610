package reference

import (
	"testing"

	"github.com/docugraph/backend/pkg/common"
)

func TestNewCatalogSelfConsistent(t *testing.T) {
	c, err := NewCatalog()
	if err != nil {
		t.Fatalf("NewCatalog() unexpected error: %v", err)
	}

	patterns := c.Patterns()
	if len(patterns) == 0 {
		t.Fatal("catalog is empty")
	}

	seen := make(map[string]struct{})
	for _, p := range patterns {
		if _, dup := seen[p.ID]; dup {
			t.Errorf("duplicate pattern id %q", p.ID)
		}
		seen[p.ID] = struct{}{}

		if p.Expr == nil {
			t.Errorf("pattern %q has no compiled expression", p.ID)
			continue
		}
		if len(p.Examples) == 0 {
			t.Errorf("pattern %q has no examples", p.ID)
		}
		for _, example := range p.Examples {
			if !p.Expr.MatchString(example) {
				t.Errorf("pattern %q does not match its example %q", p.ID, example)
			}
		}
		if p.Confidence <= 0 || p.Confidence > 1 {
			t.Errorf("pattern %q confidence %f out of range", p.ID, p.Confidence)
		}
	}
}

func TestCatalogLookups(t *testing.T) {
	c := MustCatalog()

	p, ok := c.Pattern("section-explicit")
	if !ok {
		t.Fatal("Pattern(section-explicit) not found")
	}
	if p.Kind != common.ReferenceKindSection {
		t.Errorf("Pattern(section-explicit) kind = %s, want section", p.Kind)
	}

	if _, ok := c.Pattern("no-such-pattern"); ok {
		t.Error("Pattern() found an unknown id")
	}

	sections := c.PatternsByKind(common.ReferenceKindSection)
	if len(sections) != 2 {
		t.Errorf("PatternsByKind(section) = %d patterns, want 2", len(sections))
	}
	for _, p := range sections {
		if p.Kind != common.ReferenceKindSection {
			t.Errorf("PatternsByKind(section) returned kind %s", p.Kind)
		}
	}
}
