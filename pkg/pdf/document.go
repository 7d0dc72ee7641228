// Package pdf opens register documents and reduces each page to the drawing
// primitives and positioned text runs that layout reconstruction works from.
//
// Three reading engines are tried in order. pdfcpu comes first because it
// exposes raw content streams, the only way to recover the ruled lines that
// gridded registers are detected by. The ledongthuc and dslipak readers
// surface positioned text only, so pages opened through them carry empty
// line sets and downstream parsing takes the column path.
package pdf

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/content"
)

// Backend names accepted by WithBackend.
const (
	BackendPDFCPU     = "pdfcpu"
	BackendLedongthuc = "ledongthuc"
	BackendDslipak    = "dslipak"
)

// backend is a single PDF reading engine.
type backend interface {
	Name() string
	PageCount() int
	Page(number int) (*content.Page, error)
	Close() error
}

// Document is an open register document.
type Document struct {
	backend backend
	logger  *zap.Logger
}

type config struct {
	logger  *zap.Logger
	backend string
}

// Option configures Open.
type Option func(*config)

// WithLogger routes open and decode diagnostics to the given logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithBackend forces a single named backend instead of trying each in order.
func WithBackend(name string) Option {
	return func(c *config) { c.backend = name }
}

// Open parses a document from raw bytes, trying each backend in order until
// one accepts the file.
func Open(data []byte, opts ...Option) (*Document, error) {
	cfg := &config{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}

	order := []string{BackendPDFCPU, BackendLedongthuc, BackendDslipak}
	if cfg.backend != "" {
		order = []string{cfg.backend}
	}

	var errs []error
	for _, name := range order {
		var (
			b   backend
			err error
		)
		switch name {
		case BackendPDFCPU:
			b, err = openPDFCPU(data, cfg.logger)
		case BackendLedongthuc:
			b, err = openLedongthuc(data)
		case BackendDslipak:
			b, err = openDslipak(data)
		default:
			return nil, fmt.Errorf("unknown backend %q", name)
		}
		if err != nil {
			cfg.logger.Debug("backend rejected document",
				zap.String("backend", name),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		cfg.logger.Debug("document opened",
			zap.String("backend", name),
			zap.Int("pages", b.PageCount()))
		return &Document{backend: b, logger: cfg.logger}, nil
	}
	return nil, fmt.Errorf("no backend could open document: %w", errors.Join(errs...))
}

// Backend reports which engine opened the document.
func (d *Document) Backend() string {
	return d.backend.Name()
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.backend.PageCount()
}

// Page returns the drawing primitives and text runs of one page. Page
// numbers are 1-based.
func (d *Document) Page(number int) (*content.Page, error) {
	if number < 1 || number > d.backend.PageCount() {
		return nil, fmt.Errorf("page %d out of range [1, %d]", number, d.backend.PageCount())
	}
	return d.backend.Page(number)
}

// Pages parses every page in order. A page that fails to parse is logged
// and skipped so one corrupt page does not sink the rest of the register.
func (d *Document) Pages() []*content.Page {
	pages := make([]*content.Page, 0, d.backend.PageCount())
	for n := 1; n <= d.backend.PageCount(); n++ {
		page, err := d.Page(n)
		if err != nil {
			d.logger.Warn("skipping unreadable page",
				zap.Int("page", n),
				zap.Error(err))
			continue
		}
		pages = append(pages, page)
	}
	return pages
}

// Close releases resources held by the backend.
func (d *Document) Close() error {
	return d.backend.Close()
}
