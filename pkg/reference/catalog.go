// Package reference implements textual cross-reference handling: a
// fixed catalog of regex recognizers, a matcher with overlap
// resolution, a detection service over graph nodes, and a resolution
// service that maps detected references to concrete target nodes.
package reference

import (
	"fmt"
	"regexp"

	"github.com/docugraph/backend/pkg/common"
)

// Pattern is one entry of the reference catalog. Target capture group 1
// holds the extracted target token. Priority decides overlap conflicts;
// higher wins. Examples document and validate the expression: every
// example must match its own pattern at load time.
type Pattern struct {
	ID          string
	Name        string
	Expr        *regexp.Regexp
	Kind        common.ReferenceKind
	Priority    int
	Confidence  float64
	Description string
	Examples    []string
}

// catalogSpec keeps the raw pattern table in one place so each
// expression sits next to the examples that validate it.
type catalogSpec struct {
	id          string
	name        string
	expr        string
	kind        common.ReferenceKind
	priority    int
	confidence  float64
	description string
	examples    []string
}

var catalogSpecs = []catalogSpec{
	{
		id:          "section-explicit",
		name:        "Explicit section reference",
		expr:        `(?i)\b(?:see\s+|refer\s+to\s+)?section\s+(\d+(?:\.\d+)*)`,
		kind:        common.ReferenceKindSection,
		priority:    10,
		confidence:  0.9,
		description: "Section references spelled out with the word 'section'",
		examples:    []string{"see Section 3.2", "Section 4", "refer to section 1.2.3"},
	},
	{
		id:          "section-symbol",
		name:        "Section symbol reference",
		expr:        `§\s*(\d+(?:\.\d+)*)`,
		kind:        common.ReferenceKindSection,
		priority:    9,
		confidence:  0.85,
		description: "Section references using the section sign",
		examples:    []string{"§ 3.2", "§4.1"},
	},
	{
		id:          "figure",
		name:        "Figure reference",
		expr:        `(?i)\b(?:see\s+)?(?:figure|fig\.)\s+(\d+[a-z]?)`,
		kind:        common.ReferenceKindFigure,
		priority:    8,
		confidence:  0.9,
		description: "Figure references, full word or abbreviated",
		examples:    []string{"Figure 1", "see figure 12", "Fig. 3a"},
	},
	{
		id:          "table",
		name:        "Table reference",
		expr:        `(?i)\b(?:see\s+)?table\s+(\d+[a-z]?)`,
		kind:        common.ReferenceKindTable,
		priority:    8,
		confidence:  0.9,
		description: "Table references",
		examples:    []string{"Table 4", "see table 2b"},
	},
	{
		id:          "citation-author-year",
		name:        "Author-year citation",
		expr:        `\[([A-Z][a-z]+(?:\s+(?:et\s+al\.|and\s+[A-Z][a-z]+))?,\s*\d{4})\]`,
		kind:        common.ReferenceKindCitation,
		priority:    7,
		confidence:  0.85,
		description: "Bracketed author-year citations",
		examples:    []string{"[Smith et al., 2020]", "[Smith and Jones, 2019]", "[Brown, 2021]"},
	},
	{
		id:          "citation-numeric",
		name:        "Numeric citation",
		expr:        `\[(\d{1,3})\]`,
		kind:        common.ReferenceKindCitation,
		priority:    6,
		confidence:  0.8,
		description: "Bracketed numeric citations",
		examples:    []string{"[1]", "[42]"},
	},
	{
		id:          "cross-directional",
		name:        "Directional cross-reference",
		expr:        `(?i)\b(?:see|as\s+(?:shown|described|noted|discussed))\s+(above|below)\b`,
		kind:        common.ReferenceKindCrossReference,
		priority:    5,
		confidence:  0.6,
		description: "References pointing at nearby content by direction",
		examples:    []string{"see above", "as shown below", "as described above"},
	},
	{
		id:          "page-explicit",
		name:        "Explicit page reference",
		expr:        `(?i)\bpage\s+(\d+)\b`,
		kind:        common.ReferenceKindPage,
		priority:    4,
		confidence:  0.7,
		description: "Page references spelled out with the word 'page'",
		examples:    []string{"page 4", "see Page 12"},
	},
	{
		id:          "page-abbrev",
		name:        "Abbreviated page reference",
		expr:        `\bpp?\.\s*(\d+)\b`,
		kind:        common.ReferenceKindPage,
		priority:    3,
		confidence:  0.55,
		description: "Abbreviated page references; low salience, reduced confidence",
		examples:    []string{"p. 12", "pp. 4"},
	},
}

// Catalog is the fixed, self-checked set of reference patterns.
type Catalog struct {
	patterns []Pattern
	byID     map[string]*Pattern
}

// NewCatalog compiles the pattern table and enforces self-consistency:
// every expression must compile, ids must be unique, each entry must
// carry at least one example, and every example must match its own
// expression. Any violation is a programming error and fails
// immediately.
func NewCatalog() (*Catalog, error) {
	c := &Catalog{
		patterns: make([]Pattern, 0, len(catalogSpecs)),
		byID:     make(map[string]*Pattern, len(catalogSpecs)),
	}

	for _, spec := range catalogSpecs {
		if _, dup := c.byID[spec.id]; dup {
			return nil, fmt.Errorf("duplicate pattern id %q", spec.id)
		}
		if len(spec.examples) == 0 {
			return nil, fmt.Errorf("pattern %q has no examples", spec.id)
		}

		expr, err := regexp.Compile(spec.expr)
		if err != nil {
			return nil, fmt.Errorf("pattern %q does not compile: %w", spec.id, err)
		}
		for _, example := range spec.examples {
			if !expr.MatchString(example) {
				return nil, fmt.Errorf("pattern %q does not match its example %q", spec.id, example)
			}
		}

		c.patterns = append(c.patterns, Pattern{
			ID:          spec.id,
			Name:        spec.name,
			Expr:        expr,
			Kind:        spec.kind,
			Priority:    spec.priority,
			Confidence:  spec.confidence,
			Description: spec.description,
			Examples:    spec.examples,
		})
		c.byID[spec.id] = &c.patterns[len(c.patterns)-1]
	}

	return c, nil
}

// MustCatalog builds the catalog and panics on inconsistency. A broken
// catalog is a defect in this package, not bad input, so processes load
// it at startup and fail fast.
func MustCatalog() *Catalog {
	c, err := NewCatalog()
	if err != nil {
		panic(fmt.Sprintf("reference catalog is inconsistent: %v", err))
	}
	return c
}

// Patterns returns every pattern in priority-table order.
func (c *Catalog) Patterns() []Pattern {
	return c.patterns
}

// Pattern returns the pattern with the given id.
func (c *Catalog) Pattern(id string) (Pattern, bool) {
	p, ok := c.byID[id]
	if !ok {
		return Pattern{}, false
	}
	return *p, true
}

// PatternsByKind returns every pattern producing the given reference
// kind.
func (c *Catalog) PatternsByKind(kind common.ReferenceKind) []Pattern {
	var out []Pattern
	for _, p := range c.patterns {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}
