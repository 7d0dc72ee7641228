package content

import "math"

// Matrix is a PDF transformation matrix [a b c d e f].
type Matrix struct {
	A, B, C, D, E, F float64
}

// IdentityMatrix returns an identity matrix.
func IdentityMatrix() Matrix {
	return Matrix{A: 1, B: 0, C: 0, D: 1, E: 0, F: 0}
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix {
	return Matrix{A: 1, B: 0, C: 0, D: 1, E: tx, F: ty}
}

// Multiply composes two matrices: the result applies m first, then other.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.C,
		B: m.A*other.B + m.B*other.D,
		C: m.C*other.A + m.D*other.C,
		D: m.C*other.B + m.D*other.D,
		E: m.E*other.A + m.F*other.C + other.E,
		F: m.E*other.B + m.F*other.D + other.F,
	}
}

// Transform applies the matrix to a point.
func (m Matrix) Transform(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// ScaleMagnitude returns the length of the transformed unit x vector, the
// horizontal scale factor the matrix applies.
func (m Matrix) ScaleMagnitude() float64 {
	return math.Hypot(m.A, m.B)
}

// GraphicsState carries the parts of the PDF graphics and text state the
// decoder depends on.
type GraphicsState struct {
	CTM            Matrix
	TextMatrix     Matrix
	TextLineMatrix Matrix

	CharSpace float64
	WordSpace float64
	HScale    float64
	Leading   float64
	FontName  string
	FontSize  float64
	TextRise  float64
}

// NewGraphicsState returns a graphics state with PDF defaults.
func NewGraphicsState() *GraphicsState {
	return &GraphicsState{
		CTM:            IdentityMatrix(),
		TextMatrix:     IdentityMatrix(),
		TextLineMatrix: IdentityMatrix(),
		HScale:         100,
	}
}

// Clone copies the state.
func (gs *GraphicsState) Clone() *GraphicsState {
	clone := *gs
	return &clone
}

// StateStack manages the graphics state for save/restore operators.
type StateStack struct {
	states []*GraphicsState
}

// NewStateStack returns a stack holding a single default state.
func NewStateStack() *StateStack {
	return &StateStack{
		states: []*GraphicsState{NewGraphicsState()},
	}
}

// Current returns the active graphics state.
func (s *StateStack) Current() *GraphicsState {
	if len(s.states) == 0 {
		return NewGraphicsState()
	}
	return s.states[len(s.states)-1]
}

// Save pushes a copy of the current state.
func (s *StateStack) Save() {
	s.states = append(s.states, s.Current().Clone())
}

// Restore pops back to the previously saved state. The bottom entry never
// pops, unbalanced restores are ignored.
func (s *StateStack) Restore() {
	if len(s.states) > 1 {
		s.states = s.states[:len(s.states)-1]
	}
}
