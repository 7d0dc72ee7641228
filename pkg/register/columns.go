package register

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/address"
	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/content"
)

// Elements within this x-band of the page's leftmost element act as row
// anchors, one row each.
const anchorBandWidth = 20.0

// markerAppNo flags an anchor whose row redefines the heading positions.
const markerAppNo = "APPNO"

// Normalized tokens of the seven captured headings.
const (
	captureReceived    = "RECEIVED"
	captureLot         = "LOT"
	captureHouseNo     = "HOUSENO"
	captureStreet      = "STREET"
	capturePlan        = "PLAN"
	captureSuburb      = "SUBURB"
	captureDescription = "DESCRIPTION"
)

var columnCaptures = []string{
	captureReceived, captureLot, captureHouseNo, captureStreet,
	capturePlan, captureSuburb, captureDescription,
}

var nonLetters = regexp.MustCompile(`[^A-Z]`)

// normalizeToken uppercases and strips everything but letters, so
// "App No." and "HOUSE NO" compare as APPNO and HOUSENO.
func normalizeToken(s string) string {
	return nonLetters.ReplaceAllString(strings.ToUpper(s), "")
}

// columnSynthesizer reconstructs rows from registers without ruled lines,
// anchored on the leftmost text column. Captured heading positions persist
// across pages because a continuation section later in the document
// redefines them for its own rows.
type columnSynthesizer struct {
	logger    *zap.Logger
	formatter *address.Formatter
	headings  map[string]content.Element
}

func (c *columnSynthesizer) Name() string {
	return "column"
}

// Rows selects the anchor elements, slices the page into one band per
// anchor and extracts an update per non-heading band. A band holds the
// elements at or above its anchor, down to the previous anchor exclusive,
// so an element exactly level with an anchor joins that anchor's band and
// never the next one's.
func (c *columnSynthesizer) Rows(page *content.Page) ([]Update, error) {
	if len(page.Elements) == 0 {
		return nil, ErrNoRows
	}
	elements := sortElements(page.Elements)

	leftmost := elements[0].X
	for _, e := range elements {
		if e.X < leftmost {
			leftmost = e.X
		}
	}
	var anchors []content.Element
	for _, e := range elements {
		if e.X-leftmost < anchorBandWidth {
			anchors = append(anchors, e)
		}
	}

	var updates []Update
	for i, anchor := range anchors {
		var band []content.Element
		for _, e := range elements {
			if e.Y <= anchor.Y && (i == 0 || e.Y > anchors[i-1].Y) {
				band = append(band, e)
			}
		}
		if normalizeToken(anchor.Text) == markerAppNo {
			c.capture(band)
			continue
		}
		u, ok := c.rowUpdate(anchor, band)
		if !ok {
			continue
		}
		updates = append(updates, u)
	}
	return updates, nil
}

// capture records the position of each named heading found in a heading
// row. All slots reset first: a continuation section that omits a column
// must not inherit a stale position for it.
func (c *columnSynthesizer) capture(band []content.Element) {
	c.headings = make(map[string]content.Element)
	for _, token := range columnCaptures {
		for _, e := range band {
			if normalizeToken(e.Text) == token {
				c.headings[token] = e
				break
			}
		}
	}
	c.logger.Debug("captured column headings", zap.Int("count", len(c.headings)))
}

// rowUpdate extracts one application from an anchor band. Fields come from
// the band elements overlapping each captured heading's x-extent at all;
// this layout does not align its columns tightly.
func (c *columnSynthesizer) rowUpdate(anchor content.Element, band []content.Element) (Update, bool) {
	appNo := strings.Join(strings.Fields(anchor.Text), "")
	if appNo == "" {
		return Update{}, false
	}

	value := func(token string) string {
		h, ok := c.headings[token]
		if !ok {
			return ""
		}
		var parts []string
		for _, e := range band {
			if e.HorizontalOverlapPercent(h.Rect) > 0 {
				if t := strings.TrimSpace(e.Text); t != "" {
					parts = append(parts, t)
				}
			}
		}
		return strings.Join(parts, " ")
	}

	suburb, hundred := splitSuburbHundred(value(captureSuburb))
	streetPart := strings.TrimSpace(value(captureHouseNo) + " " + value(captureStreet))
	var addr string
	if streetPart != "" && suburb != "" {
		addr = c.formatter.FormatAddress(streetPart + ", " + suburb)
	}

	return Update{
		ApplicationNumber: appNo,
		Address:           addr,
		Description:       value(captureDescription),
		DateReceived:      normalizeDate(value(captureReceived), columnDateLayout),
		LegalDescription:  legalDescription(value(captureLot), value(capturePlan), hundred),
	}, true
}

// splitSuburbHundred separates a combined "suburb/hundred" value.
// Whichever side carries the "HD " prefix is the hundred name, wherever it
// appears; with no slash, an "HD " prefix means the whole value names a
// hundred and the suburb stays empty.
func splitSuburbHundred(s string) (suburb, hundred string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	first, second, found := strings.Cut(s, "/")
	first = strings.TrimSpace(first)
	second = strings.TrimSpace(second)
	if !found {
		if rest, ok := cutHD(first); ok {
			return "", rest
		}
		return first, ""
	}
	if rest, ok := cutHD(first); ok {
		return second, rest
	}
	if rest, ok := cutHD(second); ok {
		return first, rest
	}
	return first, ""
}

// cutHD strips a case-insensitive "HD " prefix.
func cutHD(s string) (string, bool) {
	if len(s) >= 3 && strings.EqualFold(s[:3], "HD ") {
		return strings.TrimSpace(s[3:]), true
	}
	return "", false
}

// legalDescription joins the labeled lot, plan and hundred parts that are
// present.
func legalDescription(lot, plan, hundred string) string {
	var parts []string
	if lot != "" {
		parts = append(parts, "Lot: "+lot)
	}
	if plan != "" {
		parts = append(parts, "Plan: "+plan)
	}
	if hundred != "" {
		parts = append(parts, "Hundred: "+hundred)
	}
	return strings.Join(parts, ", ")
}
