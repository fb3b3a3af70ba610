package builder

import (
	"sort"
	"strings"

	"github.com/docugraph/backend/pkg/document"
)

// heading is a folded heading candidate located within a page's text.
type heading struct {
	text   string
	height float64
	offset int
}

// similarHeightTolerance is the relative height difference under which
// consecutive candidates fold into one heading.
const similarHeightTolerance = 0.15

// detectHeadings flags heading candidates among a page's layout runs.
// A run qualifies when its height reaches ratio times the page's median
// run height, or when it is isolated on its line and short. Consecutive
// candidates with similar heights fold into a single heading.
func detectHeadings(page document.Page, ratio float64, shortMax int) []heading {
	runs := page.Runs
	if len(runs) == 0 {
		return nil
	}

	median := medianHeight(runs)

	candidates := make([]bool, len(runs))
	for i, run := range runs {
		if strings.TrimSpace(run.Text) == "" {
			continue
		}
		if median > 0 && run.Height >= ratio*median {
			candidates[i] = true
			continue
		}
		if len(run.Text) <= shortMax && isolatedRun(runs, i) {
			candidates[i] = true
		}
	}

	var headings []heading
	searchFrom := 0
	for i := 0; i < len(runs); i++ {
		if !candidates[i] {
			continue
		}

		text := strings.TrimSpace(runs[i].Text)
		height := runs[i].Height
		j := i + 1
		for j < len(runs) && candidates[j] && similarHeight(runs[i].Height, runs[j].Height) {
			text += " " + strings.TrimSpace(runs[j].Text)
			if runs[j].Height > height {
				height = runs[j].Height
			}
			j++
		}

		offset := searchFrom
		if idx := strings.Index(page.Text[searchFrom:], strings.TrimSpace(runs[i].Text)); idx >= 0 {
			offset = searchFrom + idx
		}
		searchFrom = offset + len(text)
		if searchFrom > len(page.Text) {
			searchFrom = len(page.Text)
		}

		headings = append(headings, heading{
			text:   text,
			height: height,
			offset: offset,
		})
		i = j - 1
	}

	return headings
}

func medianHeight(runs []document.TextRun) float64 {
	heights := make([]float64, 0, len(runs))
	for _, run := range runs {
		if run.Height > 0 {
			heights = append(heights, run.Height)
		}
	}
	if len(heights) == 0 {
		return 0
	}

	sort.Float64s(heights)
	mid := len(heights) / 2
	if len(heights)%2 == 1 {
		return heights[mid]
	}
	return (heights[mid-1] + heights[mid]) / 2
}

// isolatedRun reports whether no other run shares the run's line,
// judged by vertical proximity.
func isolatedRun(runs []document.TextRun, idx int) bool {
	run := runs[idx]
	tolerance := run.Height / 2
	if tolerance <= 0 {
		tolerance = 1
	}

	for i, other := range runs {
		if i == idx {
			continue
		}
		delta := other.Y - run.Y
		if delta < 0 {
			delta = -delta
		}
		if delta < tolerance {
			return false
		}
	}
	return true
}

func similarHeight(a, b float64) bool {
	if a == 0 && b == 0 {
		return true
	}
	max := a
	if b > max {
		max = b
	}
	delta := a - b
	if delta < 0 {
		delta = -delta
	}
	return delta/max <= similarHeightTolerance
}
