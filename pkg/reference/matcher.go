package reference

import (
	"sort"
	"strings"

	"github.com/docugraph/backend/pkg/common"
)

const defaultContextWindow = 40

// MatchStats aggregates one matcher run: total surviving references,
// count per reference kind, and the distinct pattern ids that fired.
type MatchStats struct {
	Total      int                          `json:"total"`
	ByKind     map[common.ReferenceKind]int `json:"by_kind"`
	PatternIDs []string                     `json:"pattern_ids"`
}

// MatchResult is the outcome of scanning one text. References are
// sorted by start offset and never overlap; every span satisfies
// 0 <= start < end <= len(text). CleanedText is the input with every
// surviving span removed and whitespace collapsed.
type MatchResult struct {
	References  []common.DetectedReference `json:"references"`
	CleanedText string                     `json:"cleaned_text"`
	Stats       MatchStats                 `json:"stats"`
}

// Matcher scans text against the full pattern catalog and resolves
// overlapping matches. A Matcher is stateless and safe for concurrent
// use.
type Matcher struct {
	catalog       *Catalog
	contextWindow int
}

// NewMatcherParams configures a Matcher. A nil Catalog loads the
// built-in one; ContextWindow <= 0 uses the default of 40 characters.
type NewMatcherParams struct {
	Catalog       *Catalog
	ContextWindow int
}

// NewMatcher returns a Matcher with the given configuration.
func NewMatcher(params NewMatcherParams) *Matcher {
	catalog := params.Catalog
	if catalog == nil {
		catalog = MustCatalog()
	}
	window := params.ContextWindow
	if window <= 0 {
		window = defaultContextWindow
	}
	return &Matcher{
		catalog:       catalog,
		contextWindow: window,
	}
}

type candidate struct {
	ref      common.DetectedReference
	priority int
}

// Match runs every catalog pattern over text. Intersecting spans keep
// only the highest-priority pattern's match; ties break by longer span,
// then earlier start. Losing matches are discarded, never merged.
func (m *Matcher) Match(text string) MatchResult {
	var candidates []candidate

	for _, pattern := range m.catalog.Patterns() {
		for _, loc := range pattern.Expr.FindAllStringSubmatchIndex(text, -1) {
			start, end := loc[0], loc[1]
			target := text[start:end]
			if len(loc) >= 4 && loc[2] >= 0 {
				target = text[loc[2]:loc[3]]
			}
			candidates = append(candidates, candidate{
				ref: common.DetectedReference{
					Start:      start,
					End:        end,
					Text:       text[start:end],
					Kind:       pattern.Kind,
					Target:     target,
					PatternID:  pattern.ID,
					Confidence: pattern.Confidence,
				},
				priority: pattern.Priority,
			})
		}
	}

	survivors := resolveOverlaps(candidates)
	for i := range survivors {
		survivors[i].Context = contextWindow(text, survivors[i].Start, survivors[i].End, m.contextWindow)
	}

	return MatchResult{
		References:  survivors,
		CleanedText: removeSpans(text, survivors),
		Stats:       buildStats(survivors),
	}
}

// resolveOverlaps keeps the winning match of every intersecting group.
// Candidates are ranked by priority, then span length, then start
// offset; a candidate survives only if it intersects no earlier winner.
func resolveOverlaps(candidates []candidate) []common.DetectedReference {
	ranked := make([]candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].priority != ranked[j].priority {
			return ranked[i].priority > ranked[j].priority
		}
		li := ranked[i].ref.End - ranked[i].ref.Start
		lj := ranked[j].ref.End - ranked[j].ref.Start
		if li != lj {
			return li > lj
		}
		return ranked[i].ref.Start < ranked[j].ref.Start
	})

	var survivors []common.DetectedReference
	for _, cand := range ranked {
		overlaps := false
		for _, kept := range survivors {
			if cand.ref.Start < kept.End && kept.Start < cand.ref.End {
				overlaps = true
				break
			}
		}
		if !overlaps {
			survivors = append(survivors, cand.ref)
		}
	}

	sort.Slice(survivors, func(i, j int) bool {
		return survivors[i].Start < survivors[j].Start
	})
	return survivors
}

// contextWindow returns the text surrounding [start,end), clamped to
// the text bounds.
func contextWindow(text string, start, end, window int) string {
	ctxStart := start - window
	if ctxStart < 0 {
		ctxStart = 0
	}
	ctxEnd := end + window
	if ctxEnd > len(text) {
		ctxEnd = len(text)
	}
	return text[ctxStart:ctxEnd]
}

// removeSpans returns text with every surviving reference span removed
// and whitespace collapsed. Spans must be sorted and non-overlapping.
func removeSpans(text string, refs []common.DetectedReference) string {
	if len(refs) == 0 {
		return strings.Join(strings.Fields(text), " ")
	}

	var b strings.Builder
	prev := 0
	for _, ref := range refs {
		b.WriteString(text[prev:ref.Start])
		prev = ref.End
	}
	b.WriteString(text[prev:])

	return strings.Join(strings.Fields(b.String()), " ")
}

func buildStats(refs []common.DetectedReference) MatchStats {
	stats := MatchStats{
		Total:  len(refs),
		ByKind: make(map[common.ReferenceKind]int),
	}

	seen := make(map[string]struct{})
	for _, ref := range refs {
		stats.ByKind[ref.Kind]++
		if _, ok := seen[ref.PatternID]; !ok {
			seen[ref.PatternID] = struct{}{}
			stats.PatternIDs = append(stats.PatternIDs, ref.PatternID)
		}
	}
	sort.Strings(stats.PatternIDs)

	return stats
}
