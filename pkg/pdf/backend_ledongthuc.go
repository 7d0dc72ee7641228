package pdf

import (
	"bytes"
	"fmt"

	lpdf "github.com/ledongthuc/pdf"

	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/content"
)

// ledongthucBackend reads positioned text through ledongthuc/pdf. It sees
// no drawing primitives, so its pages always parse as column layouts.
type ledongthucBackend struct {
	reader *lpdf.Reader
}

// The rsc-derived readers panic on malformed objects instead of returning
// errors, so both open and page access run behind a recover.
func openLedongthuc(data []byte) (b backend, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("ledongthuc reader: %v", r)
		}
	}()
	reader, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &ledongthucBackend{reader: reader}, nil
}

func (b *ledongthucBackend) Name() string {
	return BackendLedongthuc
}

func (b *ledongthucBackend) PageCount() int {
	return b.reader.NumPage()
}

func (b *ledongthucBackend) Close() error {
	return nil
}

func (b *ledongthucBackend) Page(number int) (page *content.Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			page, err = nil, fmt.Errorf("page %d: %v", number, r)
		}
	}()

	p := b.reader.Page(number)
	if p.V.IsNull() {
		return nil, fmt.Errorf("page %d missing", number)
	}

	var glyphs []textGlyph
	for _, t := range p.Content().Text {
		glyphs = append(glyphs, textGlyph{x: t.X, y: t.Y, w: t.W, size: t.FontSize, text: t.S})
	}
	return &content.Page{Number: number, Elements: buildRuns(glyphs)}, nil
}
