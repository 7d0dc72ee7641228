package register

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/address"
	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/content"
	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/geometry"
)

// Grid layout constants. Cells within cellRowTolerance of a row's first
// cell join that row; an element belongs to a cell only when more than
// half its area sits inside; field cells must align with their heading
// cell almost exactly, since this layout rules its columns.
const (
	cellRowTolerance   = 2.0
	minCellContainment = 50.0
	minHeadingOverlap  = 90.0
)

// Application numbers in ruled registers read 538/2011/29.
var appNoPattern = regexp.MustCompile(`^\d+/\d+/\d+$`)

// Internal field keys for heading cells.
const (
	fieldAppNo       = "applicationNumber"
	fieldReceived    = "received"
	fieldStreet      = "street"
	fieldSuburb      = "suburb"
	fieldLegal       = "legal"
	fieldDescription = "description"
)

// gridVocabulary maps normalized heading text to its field. The register
// changed wording across years; all observed spellings are listed.
var gridVocabulary = map[string]string{
	"applicationnumber": fieldAppNo,
	"applicationno":     fieldAppNo,
	"applicationno.":    fieldAppNo,
	"appno":             fieldAppNo,
	"danumber":          fieldAppNo,

	"datereceived": fieldReceived,
	"received":     fieldReceived,
	"receiveddate": fieldReceived,

	"streetname": fieldStreet,
	"street":     fieldStreet,

	"suburb":      fieldSuburb,
	"town":        fieldSuburb,
	"suburb/town": fieldSuburb,

	"legaldescription": fieldLegal,
	"propertydetails":  fieldLegal,

	"description":            fieldDescription,
	"developmentdescription": fieldDescription,
	"natureofdevelopment":    fieldDescription,
}

// gridSynthesizer reconstructs rows from registers ruled into a full grid
// of cells.
type gridSynthesizer struct {
	logger    *zap.Logger
	formatter *address.Formatter
}

// cell is one grid rectangle and the elements it owns.
type cell struct {
	geometry.Rect
	elements []content.Element
}

func (g *gridSynthesizer) Name() string {
	return "grid"
}

// Rows rebuilds the page's grid, locates the heading row and extracts one
// update per ruled row below it.
func (g *gridSynthesizer) Rows(page *content.Page) ([]Update, error) {
	if len(page.HLines) < 2 || len(page.VLines) < 2 {
		return nil, ErrNoRows
	}

	cells := buildCells(page.HLines, page.VLines)
	assignElements(cells, page.Elements)
	rows := groupCellRows(cells)
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	headings, headingRow := findHeadings(rows)
	for _, field := range []string{fieldAppNo, fieldStreet, fieldSuburb} {
		if _, ok := headings[field]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingHeadings, field)
		}
	}

	var updates []Update
	for _, row := range rows[headingRow+1:] {
		u, ok := g.rowUpdate(row, headings)
		if !ok {
			continue
		}
		updates = append(updates, u)
	}
	return updates, nil
}

// buildCells forms the full Cartesian grid from every pair of adjacent
// horizontal and vertical lines. Nothing is pruned: empty cells cost
// little and a sparse grid would shift cell indices between rows.
func buildCells(hlines, vlines []geometry.Rect) []*cell {
	hs := make([]geometry.Rect, len(hlines))
	copy(hs, hlines)
	sort.SliceStable(hs, func(i, j int) bool { return hs[i].Y < hs[j].Y })
	vs := make([]geometry.Rect, len(vlines))
	copy(vs, vlines)
	sort.SliceStable(vs, func(i, j int) bool { return vs[i].X < vs[j].X })

	var cells []*cell
	for i := 0; i+1 < len(hs); i++ {
		for j := 0; j+1 < len(vs); j++ {
			cells = append(cells, &cell{Rect: geometry.Rect{
				X:      vs[j].X,
				Y:      hs[i].Y,
				Width:  vs[j+1].X - vs[j].X,
				Height: hs[i+1].Y - hs[i].Y,
			}})
		}
	}
	return cells
}

// assignElements gives each element to the first cell, in the grid's
// y-then-x construction order, holding more than half of it. An element
// split exactly in half qualifies for neither cell and stays unassigned.
func assignElements(cells []*cell, elements []content.Element) {
	for _, e := range elements {
		for _, c := range cells {
			if e.ContainmentPercent(c.Rect) > minCellContainment {
				c.elements = append(c.elements, e)
				break
			}
		}
	}
}

// groupCellRows clusters cells into rows on their top edge, then re-sorts
// rows by y and cells by x in case line ordering was irregular.
func groupCellRows(cells []*cell) [][]*cell {
	var rows [][]*cell
	for _, c := range cells {
		placed := false
		for i, row := range rows {
			if math.Abs(c.Y-row[0].Y) < cellRowTolerance {
				rows[i] = append(row, c)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, []*cell{c})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i][0].Y < rows[j][0].Y })
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
	}
	return rows
}

// findHeadings scans cells in row order for vocabulary matches, first
// match per field winning. The heading row is the one holding the
// application number heading.
func findHeadings(rows [][]*cell) (map[string]*cell, int) {
	headings := make(map[string]*cell)
	headingRow := -1
	for i, row := range rows {
		for _, c := range row {
			field, ok := gridVocabulary[normalizeHeading(cellText(c))]
			if !ok {
				continue
			}
			if _, taken := headings[field]; taken {
				continue
			}
			headings[field] = c
			if field == fieldAppNo && headingRow == -1 {
				headingRow = i
			}
		}
	}
	return headings, headingRow
}

// rowUpdate extracts one application from a ruled row. Rows without a
// well-formed application number or without both address parts are
// dropped here with a log entry.
func (g *gridSynthesizer) rowUpdate(row []*cell, headings map[string]*cell) (Update, bool) {
	value := func(field string) string {
		h, ok := headings[field]
		if !ok {
			return ""
		}
		for _, c := range row {
			if c.HorizontalOverlapPercent(h.Rect) > minHeadingOverlap {
				return cellText(c)
			}
		}
		return ""
	}

	appNo := strings.Join(strings.Fields(value(fieldAppNo)), "")
	if !appNoPattern.MatchString(appNo) {
		if appNo != "" {
			g.logger.Debug("skipping row with malformed application number",
				zap.String("text", appNo))
		}
		return Update{}, false
	}

	street := value(fieldStreet)
	suburb := value(fieldSuburb)
	if street == "" || suburb == "" {
		g.logger.Info("skipping application without address parts",
			zap.String("applicationNumber", appNo),
			zap.String("street", street),
			zap.String("suburb", suburb))
		return Update{}, false
	}

	return Update{
		ApplicationNumber: appNo,
		Address:           g.formatter.FormatAddress(street + ", " + suburb),
		Description:       value(fieldDescription),
		DateReceived:      normalizeDate(value(fieldReceived), gridDateLayout),
		LegalDescription:  value(fieldLegal),
	}, true
}

// cellText joins a cell's elements in reading order.
func cellText(c *cell) string {
	els := sortElements(c.elements)
	parts := make([]string, 0, len(els))
	for _, e := range els {
		if t := strings.TrimSpace(e.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// normalizeHeading lowercases and strips all whitespace so heading text
// compares across line wrapping and spacing differences.
func normalizeHeading(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}
