package pdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/zap"

	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/content"
)

// pdfcpuBackend reads pages through pdfcpu and replays their content
// streams, which preserves the ruled lines the text-only readers drop.
type pdfcpuBackend struct {
	ctx    *model.Context
	logger *zap.Logger
}

func openPDFCPU(data []byte, logger *zap.Logger) (backend, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("read context: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("validate context: %w", err)
	}
	return &pdfcpuBackend{ctx: ctx, logger: logger}, nil
}

func (b *pdfcpuBackend) Name() string {
	return BackendPDFCPU
}

func (b *pdfcpuBackend) PageCount() int {
	return b.ctx.PageCount
}

func (b *pdfcpuBackend) Close() error {
	return nil
}

// Page replays the page's content streams through the layout decoder.
func (b *pdfcpuBackend) Page(number int) (*content.Page, error) {
	pageDict, _, attrs, err := b.ctx.PageDict(number, false)
	if err != nil {
		return nil, fmt.Errorf("page dict %d: %w", number, err)
	}
	if pageDict == nil {
		return nil, fmt.Errorf("page dict %d: not found", number)
	}

	resources := b.dict(pageDict["Resources"])
	if resources == nil && attrs != nil {
		resources = attrs.Resources
	}

	decoder := content.NewDecoder(b.loadFonts(resources), b.logger)
	page := decoder.Decode(b.contentStreams(pageDict))
	page.Number = number
	return page, nil
}

// contentStreams concatenates the page's content streams. Contents may be a
// single stream reference or an array of them, possibly behind an indirect
// reference itself. Streams that fail to decode are skipped.
func (b *pdfcpuBackend) contentStreams(pageDict types.Dict) []byte {
	contents, found := pageDict.Find("Contents")
	if !found {
		return nil
	}
	if ref, ok := contents.(types.IndirectRef); ok {
		if obj, err := b.ctx.Dereference(ref); err == nil {
			if arr, ok := obj.(types.Array); ok {
				contents = arr
			}
		}
	}

	var streams [][]byte
	if arr, ok := contents.(types.Array); ok {
		for _, item := range arr {
			if data := b.streamData(item); len(data) > 0 {
				streams = append(streams, data)
			}
		}
	} else if data := b.streamData(contents); len(data) > 0 {
		streams = append(streams, data)
	}
	return bytes.Join(streams, []byte{'\n'})
}

// loadFonts builds the text decoding table for every font named in the
// page's resources. Fonts without a ToUnicode stream decode as Latin-1.
func (b *pdfcpuBackend) loadFonts(resources types.Dict) map[string]content.Font {
	fonts := make(map[string]content.Font)
	if resources == nil {
		return fonts
	}
	fontDict := b.dict(resources["Font"])
	if fontDict == nil {
		return fonts
	}

	for name, ref := range fontDict {
		entry := b.dict(ref)
		if entry == nil {
			continue
		}
		f := &font{}
		if bf, ok := entry["BaseFont"].(types.Name); ok {
			f.baseFont = string(bf)
		}
		if enc, ok := entry["Encoding"].(types.Name); ok {
			f.encoding = string(enc)
		}
		if data := b.streamData(entry["ToUnicode"]); len(data) > 0 {
			f.cmap = parseToUnicode(data)
		}
		fonts[name] = f
		b.logger.Debug("loaded font",
			zap.String("name", name),
			zap.String("base", f.baseFont),
			zap.Bool("toUnicode", f.cmap != nil))
	}
	return fonts
}

// dict resolves obj to a dictionary, accepting direct dictionaries and
// indirect references in both pointer and value form.
func (b *pdfcpuBackend) dict(obj types.Object) types.Dict {
	switch v := obj.(type) {
	case types.Dict:
		return v
	case types.IndirectRef:
		d, err := b.ctx.DereferenceDict(v)
		if err != nil {
			return nil
		}
		return d
	case *types.IndirectRef:
		d, err := b.ctx.DereferenceDict(*v)
		if err != nil {
			return nil
		}
		return d
	}
	return nil
}

// streamData resolves obj to a stream and returns its decoded bytes.
func (b *pdfcpuBackend) streamData(obj types.Object) []byte {
	var ref types.IndirectRef
	switch v := obj.(type) {
	case types.IndirectRef:
		ref = v
	case *types.IndirectRef:
		ref = *v
	default:
		return nil
	}
	sd, _, err := b.ctx.DereferenceStreamDict(ref)
	if err != nil || sd == nil {
		return nil
	}
	if len(sd.Content) > 0 {
		return sd.Content
	}
	if err := sd.Decode(); err != nil {
		b.logger.Debug("stream decode failed", zap.Error(err))
		return nil
	}
	return sd.Content
}
