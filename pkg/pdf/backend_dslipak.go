package pdf

import (
	"bytes"
	"fmt"

	gopdf "github.com/dslipak/pdf"

	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/content"
)

// dslipakBackend is the last-resort text-only reader. Same rsc lineage as
// ledongthuc but with different tolerance for damaged cross-reference
// tables, so occasionally one succeeds where the other does not.
type dslipakBackend struct {
	reader *gopdf.Reader
}

func openDslipak(data []byte) (b backend, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("dslipak reader: %v", r)
		}
	}()
	reader, err := gopdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &dslipakBackend{reader: reader}, nil
}

func (b *dslipakBackend) Name() string {
	return BackendDslipak
}

func (b *dslipakBackend) PageCount() int {
	return b.reader.NumPage()
}

func (b *dslipakBackend) Close() error {
	return nil
}

func (b *dslipakBackend) Page(number int) (page *content.Page, err error) {
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
