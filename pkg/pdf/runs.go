package pdf

import (
	"sort"
	"strings"

	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/content"
	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/geometry"
)

// The text-only readers report one item per glyph or small fragment, while
// layout reconstruction wants one element per visually contiguous run, the
// way the content stream decoder emits them. Fragments on the same baseline
// merge when the horizontal gap between them stays within runXTolerance.
const (
	runYTolerance = 1.0
	runXTolerance = 3.0
)

// textGlyph is one positioned fragment from a text-only reader, in PDF
// coordinates with the origin at the bottom left.
type textGlyph struct {
	x, y, w, size float64
	text          string
}

// buildRuns groups fragments into runs and flips them into reading
// coordinates, top of page first with y ascending downward. Runs that are
// only whitespace are dropped.
func buildRuns(glyphs []textGlyph) []content.Element {
	if len(glyphs) == 0 {
		return nil
	}
	sorted := make([]textGlyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if d := sorted[i].y - sorted[j].y; d > runYTolerance || d < -runYTolerance {
			return sorted[i].y > sorted[j].y
		}
		return sorted[i].x < sorted[j].x
	})

	var elements []content.Element
	var run []textGlyph
	flush := func() {
		if len(run) == 0 {
			return
		}
		e := mergeRun(run)
		if strings.TrimSpace(e.Text) != "" {
			elements = append(elements, e)
		}
		run = run[:0]
	}
	for i, g := range sorted {
		if i > 0 {
			prev := sorted[i-1]
			d := g.y - prev.y
			sameLine := d <= runYTolerance && d >= -runYTolerance
			if !sameLine || g.x-(prev.x+prev.w) > runXTolerance {
				flush()
			}
		}
		run = append(run, g)
	}
	flush()
	return elements
}

// mergeRun folds one fragment group into a single element.
func mergeRun(run []textGlyph) content.Element {
	var text strings.Builder
	left := run[0].x
	right := run[0].x + run[0].w
	baseline := run[0].y
	height := run[0].size
	for _, g := range run {
		text.WriteString(g.text)
		if g.x < left {
			left = g.x
		}
		if g.x+g.w > right {
			right = g.x + g.w
		}
		if g.size > height {
			height = g.size
		}
	}
	return content.Element{
		Rect: geometry.Rect{X: left, Y: -(baseline + height), Width: right - left, Height: height},
		Text: text.String(),
	}
}
