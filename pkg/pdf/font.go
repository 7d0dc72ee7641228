package pdf

import (
	"strings"

	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/content"
)

// font decodes raw show-string bytes for one page font.
type font struct {
	baseFont string
	encoding string
	cmap     *toUnicodeCMap
}

// twoByte reports whether show strings carry two byte character codes.
func (f *font) twoByte() bool {
	return f.encoding == "Identity-H" || f.encoding == "Identity-V"
}

// DecodeText maps raw show-string bytes to Unicode through the font's
// ToUnicode CMap. Codes with no mapping pass through as Latin-1, which is
// how the registers' plain Courier and Helvetica text reads anyway.
func (f *font) DecodeText(raw []byte) string {
	if f.cmap == nil {
		return content.Latin1String(raw)
	}

	var sb strings.Builder
	if f.twoByte() {
		for i := 0; i < len(raw); i += 2 {
			if i+1 >= len(raw) {
				f.writeCode(&sb, uint16(raw[i]), raw[i:i+1])
				break
			}
			code := uint16(raw[i])<<8 | uint16(raw[i+1])
			if s, ok := f.cmap.Lookup(code); ok {
				sb.WriteString(s)
				continue
			}
			// Some producers tag single-byte fonts Identity-H anyway.
			f.writeCode(&sb, uint16(raw[i]), raw[i:i+1])
			f.writeCode(&sb, uint16(raw[i+1]), raw[i+1:i+2])
		}
		return sb.String()
	}

	for i := 0; i < len(raw); i++ {
		f.writeCode(&sb, uint16(raw[i]), raw[i:i+1])
	}
	return sb.String()
}

func (f *font) writeCode(sb *strings.Builder, code uint16, fallback []byte) {
	if s, ok := f.cmap.Lookup(code); ok {
		sb.WriteString(s)
		return
	}
	sb.WriteString(content.Latin1String(fallback))
}
