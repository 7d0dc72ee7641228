// Package register reconstructs development application records from the
// decoded pages of a council planning register. Two layout strategies
// cover the observed register generations: a ruled grid of cells, and a
// grid-less layout anchored on the leftmost text column. The strategy is
// probed once per document from the presence of classified grid lines.
package register

import (
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/address"
	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/content"
)

// ErrNoTextContent marks a document that decoded to no text at all.
// ErrNoRows and ErrMissingHeadings mark single pages the parser skips.
var (
	ErrNoTextContent   = errors.New("document contains no text")
	ErrNoRows          = errors.New("no rows reconstructed")
	ErrMissingHeadings = errors.New("missing mandatory headings")
)

// Elements whose baselines differ by less than this sort as one line.
const elementRowTolerance = 1.0

// synthesizer is one page-to-rows strategy. Implementations may carry
// layout state across the pages of a single document, so a fresh one is
// built per parse.
type synthesizer interface {
	Name() string
	Rows(page *content.Page) ([]Update, error)
}

// Parser turns decoded pages into application records.
type Parser struct {
	// Logger receives skip diagnostics. Nil means silent.
	Logger *zap.Logger
	// Formatter normalizes street and suburb text. Nil disables
	// dictionary correction but keeps addresses assembled as-is.
	Formatter *address.Formatter
	// InfoURL and CommentURL are stamped onto every record.
	InfoURL    string
	CommentURL string
	// Now supplies the scrape date; defaults to time.Now.
	Now func() time.Time
}

// Parse reconstructs every application in the document. Page-level
// failures are logged together with the page's text dump and skipped;
// only a document without any text at all is an error.
func (p *Parser) Parse(pages []*content.Page) ([]Record, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	formatter := p.Formatter
	if formatter == nil {
		formatter = address.NewFormatter(&address.Dictionaries{})
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}

	total := 0
	for _, page := range pages {
		total += len(page.Elements)
	}
	if total == 0 {
		return nil, ErrNoTextContent
	}

	syn := chooseSynthesizer(pages, logger, formatter)
	logger.Debug("layout probed",
		zap.String("layout", syn.Name()),
		zap.Int("pages", len(pages)))

	base := Record{
		InfoURL:     p.InfoURL,
		CommentURL:  p.CommentURL,
		DateScraped: now().Format(isoDateLayout),
	}
	set := newRecordSet()
	for _, page := range pages {
		updates, err := syn.Rows(page)
		if err != nil {
			logger.Warn("skipping page",
				zap.Int("page", page.Number),
				zap.String("layout", syn.Name()),
				zap.Error(err),
				zap.String("content", elementDump(page)))
			continue
		}
		logger.Debug("page parsed",
			zap.Int("page", page.Number),
			zap.Int("rows", len(updates)))
		for _, u := range updates {
			set.apply(u, base)
		}
	}
	return set.finalize(logger), nil
}

// chooseSynthesizer probes the document once: any page carrying both
// horizontal and vertical ruled lines selects the grid strategy.
func chooseSynthesizer(pages []*content.Page, logger *zap.Logger, formatter *address.Formatter) synthesizer {
	for _, page := range pages {
		if len(page.HLines) > 0 && len(page.VLines) > 0 {
			return &gridSynthesizer{logger: logger, formatter: formatter}
		}
	}
	return &columnSynthesizer{logger: logger, formatter: formatter}
}

// sortElements orders elements top to bottom then left to right, treating
// baselines within elementRowTolerance as one line.
func sortElements(elements []content.Element) []content.Element {
	sorted := make([]content.Element, len(elements))
	copy(sorted, elements)
	sort.SliceStable(sorted, func(i, j int) bool {
		if d := sorted[i].Y - sorted[j].Y; d < -elementRowTolerance || d > elementRowTolerance {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})
	return sorted
}

// elementDump renders a page's text in reading order for skip diagnostics.
func elementDump(page *content.Page) string {
	elements := sortElements(page.Elements)
	parts := make([]string, 0, len(elements))
	for _, e := range elements {
		if t := strings.TrimSpace(e.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " | ")
}
