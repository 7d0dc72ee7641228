// Package content replays PDF content streams. The decoder walks the
// instruction stream with a graphics state stack and reduces a page to the
// two things layout reconstruction needs: ruled table lines and positioned
// text runs.
package content

import (
	"io"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/geometry"
)

// Classification thresholds for committed rectangles. Anything thicker than a
// ruled line, or too short to span a table, is decoration and gets dropped.
const (
	maxLineThickness = 2
	minHLineLength   = 200
	minVLineLength   = 10
)

// Element is a positioned text run in page space.
type Element struct {
	geometry.Rect
	Text string
}

// Page is the decoded drawing content of a single page. Coordinates are
// y-down: y was negated exactly once after replay, so sorting by ascending y
// reads the page top to bottom.
type Page struct {
	Number   int
	HLines   []geometry.Rect
	VLines   []geometry.Rect
	Elements []Element
}

// Font decodes the raw bytes of a show-text operand into readable text.
type Font interface {
	DecodeText(raw []byte) string
}

// Decoder replays a content stream and collects classified lines and text
// runs. A single Decoder can decode any number of pages in sequence.
type Decoder struct {
	fonts  map[string]Font
	logger *zap.Logger

	stack    *StateStack
	pending  *geometry.Rect
	hlines   []geometry.Rect
	vlines   []geometry.Rect
	elements []Element
}

// NewDecoder creates a decoder. fonts maps resource font names to their
// decoders and may be nil, in which case bytes map straight to runes.
func NewDecoder(fonts map[string]Font, logger *zap.Logger) *Decoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decoder{fonts: fonts, logger: logger}
}

// Decode replays one page's combined content stream.
func (d *Decoder) Decode(data []byte) *Page {
	d.stack = NewStateStack()
	d.pending = nil
	d.hlines = nil
	d.vlines = nil
	d.elements = nil

	lexer := NewLexer(data)
	operands := []interface{}{}
	for {
		token, err := lexer.NextToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			// no reliable resync after a lexing error, keep what replayed
			d.logger.Debug("content stream aborted", zap.Error(err))
			break
		}

		if token.Type == TokenOperator {
			d.apply(token.Value.(string), operands)
			operands = []interface{}{}
		} else {
			operands = append(operands, token.Value)
		}
	}

	page := &Page{HLines: d.hlines, VLines: d.vlines, Elements: d.elements}
	invertY(page)
	return page
}

// apply executes one operator. The pending rectangle survives only into an
// immediately following fill, any other operator discards it.
func (d *Decoder) apply(op string, operands []interface{}) {
	st := d.stack.Current()
	pending := d.pending
	d.pending = nil

	switch op {
	case "q":
		d.stack.Save()

	case "Q":
		d.stack.Restore()

	case "cm":
		if len(operands) == 6 {
			st.CTM = matrixFromOperands(operands).Multiply(st.CTM)
		}

	case "re":
		if len(operands) == 4 {
			r := deviceRect(st,
				toFloat(operands[0]), toFloat(operands[1]),
				toFloat(operands[2]), toFloat(operands[3]))
			d.pending = &r
		}

	case "f", "F", "f*", "B", "B*", "b", "b*":
		if pending != nil {
			d.commit(*pending)
		}

	case "BT":
		st.TextMatrix = IdentityMatrix()
		st.TextLineMatrix = IdentityMatrix()

	case "ET":

	case "Tf":
		if len(operands) == 2 {
			st.FontName = toName(operands[0])
			st.FontSize = toFloat(operands[1])
		}

	case "Td":
		if len(operands) == 2 {
			d.moveText(st, toFloat(operands[0]), toFloat(operands[1]))
		}

	case "TD":
		if len(operands) == 2 {
			st.Leading = -toFloat(operands[1])
			d.moveText(st, toFloat(operands[0]), toFloat(operands[1]))
		}

	case "Tm":
		if len(operands) == 6 {
			st.TextMatrix = matrixFromOperands(operands)
			st.TextLineMatrix = st.TextMatrix
		}

	case "T*":
		d.moveText(st, 0, -st.Leading)

	case "TL":
		if len(operands) == 1 {
			st.Leading = toFloat(operands[0])
		}

	case "Tc":
		if len(operands) == 1 {
			st.CharSpace = toFloat(operands[0])
		}

	case "Tw":
		if len(operands) == 1 {
			st.WordSpace = toFloat(operands[0])
		}

	case "Tz":
		if len(operands) == 1 {
			st.HScale = toFloat(operands[0])
		}

	case "Ts":
		if len(operands) == 1 {
			st.TextRise = toFloat(operands[0])
		}

	case "Tj":
		if len(operands) == 1 {
			d.showRun(st, toBytes(operands[0]))
		}

	case "'":
		if len(operands) == 1 {
			d.moveText(st, 0, -st.Leading)
			d.showRun(st, toBytes(operands[0]))
		}

	case "\"":
		if len(operands) == 3 {
			st.WordSpace = toFloat(operands[0])
			st.CharSpace = toFloat(operands[1])
			d.moveText(st, 0, -st.Leading)
			d.showRun(st, toBytes(operands[2]))
		}

	case "TJ":
		if len(operands) == 1 {
			if array, ok := operands[0].([]interface{}); ok {
				d.showRunArray(st, array)
			}
		}
	}
}

func (d *Decoder) moveText(st *GraphicsState, tx, ty float64) {
	st.TextLineMatrix = Translate(tx, ty).Multiply(st.TextLineMatrix)
	st.TextMatrix = st.TextLineMatrix
}

// commit classifies a filled rectangle as a ruled line or drops it.
func (d *Decoder) commit(r geometry.Rect) {
	switch {
	case r.Height <= maxLineThickness && r.Width >= minHLineLength:
		d.hlines = append(d.hlines, r)
	case r.Width <= maxLineThickness && r.Height >= minVLineLength:
		d.vlines = append(d.vlines, r)
	}
}

// showRun emits a single show-text operand as one element.
func (d *Decoder) showRun(st *GraphicsState, raw []byte) {
	text := d.decodeText(st, raw)
	advance := d.runAdvance(st, text)
	d.emit(st, textRenderingMatrix(st), text, advance)
	d.advanceText(st, advance)
}

// showRunArray emits a TJ array as one combined element. Inline adjustment
// numbers shrink or widen the advance the way kerning does.
func (d *Decoder) showRunArray(st *GraphicsState, items []interface{}) {
	trm := textRenderingMatrix(st)

	var text strings.Builder
	var advance float64
	for _, item := range items {
		switch v := item.(type) {
		case []byte:
			s := d.decodeText(st, v)
			text.WriteString(s)
			advance += d.runAdvance(st, s)
		case float64:
			advance -= v / 1000 * st.FontSize * st.HScale / 100
		}
	}

	d.emit(st, trm, text.String(), advance)
	d.advanceText(st, advance)
}

// emit records an element at the translation of the text rendering matrix.
// Runs that are entirely whitespace carry no layout information and are
// dropped so they cannot disturb anchor detection.
func (d *Decoder) emit(st *GraphicsState, trm Matrix, text string, advance float64) {
	if strings.TrimSpace(text) == "" {
		return
	}

	width := advance * st.TextMatrix.Multiply(st.CTM).ScaleMagnitude()
	height := math.Hypot(trm.C, trm.D)

	d.elements = append(d.elements, Element{
		Rect: geometry.Rect{X: trm.E, Y: trm.F, Width: width, Height: height},
		Text: text,
	})
}

// runAdvance measures a decoded run in text space using the approximate
// per-glyph width table.
func (d *Decoder) runAdvance(st *GraphicsState, text string) float64 {
	var advance float64
	for _, r := range text {
		w := glyphWidth(r) * st.FontSize
		if r == ' ' {
			w += st.WordSpace
		}
		w += st.CharSpace
		advance += w
	}
	return advance * st.HScale / 100
}

func (d *Decoder) advanceText(st *GraphicsState, advance float64) {
	st.TextMatrix.E += advance * st.TextMatrix.A
	st.TextMatrix.F += advance * st.TextMatrix.B
}

func (d *Decoder) decodeText(st *GraphicsState, raw []byte) string {
	if f, ok := d.fonts[st.FontName]; ok && f != nil {
		return f.DecodeText(raw)
	}
	return Latin1String(raw)
}

// textRenderingMatrix combines font size, text matrix and CTM. Its
// translation is the run origin, its C and D components carry the effective
// glyph height.
func textRenderingMatrix(st *GraphicsState) Matrix {
	scale := Matrix{A: st.FontSize * st.HScale / 100, D: st.FontSize, F: st.TextRise}
	return scale.Multiply(st.TextMatrix).Multiply(st.CTM)
}

// deviceRect maps a rectangle operand through the CTM and normalizes corner
// order.
func deviceRect(st *GraphicsState, x, y, w, h float64) geometry.Rect {
	x0, y0 := st.CTM.Transform(x, y)
	x1, y1 := st.CTM.Transform(x+w, y+h)

	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}

	return geometry.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// invertY flips a decoded page into y-down coordinates. Applied exactly once,
// after the whole stream has replayed.
func invertY(p *Page) {
	for i := range p.HLines {
		p.HLines[i].Y = -(p.HLines[i].Y + p.HLines[i].Height)
	}
	for i := range p.VLines {
		p.VLines[i].Y = -(p.VLines[i].Y + p.VLines[i].Height)
	}
	for i := range p.Elements {
		p.Elements[i].Y = -(p.Elements[i].Y + p.Elements[i].Height)
	}
}

// glyphWidth is a rough per-rune width factor. Good enough for column
// matching, which only needs run extents, not typography.
func glyphWidth(r rune) float64 {
	switch r {
	case ' ':
		return 0.25
	case 'i', 'l', 'I', '!', '.', ',', ';', ':', '\'', '"', '|':
		return 0.3
	case 'm', 'M', 'W', 'w':
		return 0.8
	default:
		return 0.5
	}
}

// Latin1String maps bytes one-to-one onto runes. Registers in this family
// use WinAnsi-encoded simple fonts, which agree with Latin-1 over the range
// the registers use.
func Latin1String(raw []byte) string {
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes)
}

func matrixFromOperands(operands []interface{}) Matrix {
	return Matrix{
		A: toFloat(operands[0]),
		B: toFloat(operands[1]),
		C: toFloat(operands[2]),
		D: toFloat(operands[3]),
		E: toFloat(operands[4]),
		F: toFloat(operands[5]),
	}
}

func toFloat(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	}
	return 0
}

func toBytes(v interface{}) []byte {
	switch val := v.(type) {
	case []byte:
		return val
	case string:
		return []byte(val)
	}
	return nil
}

func toName(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
