package content

import (
	"fmt"
	"io"
	"strconv"
)

// TokenType distinguishes operators from their operands.
type TokenType int

const (
	TokenOperator TokenType = iota
	TokenOperand
)

// Token is a single content stream token. Operand values are float64, []byte
// (strings), string (names) or []interface{} (arrays).
type Token struct {
	Type  TokenType
	Value interface{}
}

// Lexer tokenizes a PDF content stream.
type Lexer struct {
	data []byte
	pos  int
}

// NewLexer creates a lexer over raw, already decompressed stream bytes.
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data}
}

// NextToken returns the next token, or an error at end of input.
func (l *Lexer) NextToken() (*Token, error) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.data) {
			return nil, io.EOF
		}
		if l.data[l.pos] == '%' {
			l.skipComment()
			continue
		}
		break
	}

	ch := l.data[l.pos]

	switch {
	case ch == '(':
		return l.readString()
	case ch == '<':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
			l.pos += 2
			return &Token{Type: TokenOperand, Value: "<<"}, nil
		}
		return l.readHexString()
	case ch == '>':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '>' {
			l.pos += 2
			return &Token{Type: TokenOperand, Value: ">>"}, nil
		}
		l.pos++
		return &Token{Type: TokenOperand, Value: ">"}, nil
	case ch == '[':
		return l.readArray()
	case ch == ']':
		l.pos++
		return &Token{Type: TokenOperand, Value: "]"}, nil
	case ch == '/':
		return l.readName()
	case ch == '+' || ch == '-' || ch == '.' || (ch >= '0' && ch <= '9'):
		return l.readNumber()
	default:
		return l.readOperator()
	}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.data) {
		switch l.data[l.pos] {
		case ' ', '\t', '\r', '\n', '\f', 0:
			l.pos++
		default:
			return
		}
	}
}

func (l *Lexer) skipComment() {
	for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
		l.pos++
	}
}

// readString reads a literal string, balancing nested parentheses.
func (l *Lexer) readString() (*Token, error) {
	l.pos++
	start := l.pos
	depth := 1
	escaped := false

	for l.pos < len(l.data) && depth > 0 {
		ch := l.data[l.pos]
		if escaped {
			escaped = false
		} else {
			switch ch {
			case '\\':
				escaped = true
			case '(':
				depth++
			case ')':
				depth--
			}
		}
		l.pos++
	}

	if depth > 0 {
		return nil, fmt.Errorf("unterminated string")
	}

	return &Token{Type: TokenOperand, Value: unescapeString(l.data[start : l.pos-1])}, nil
}

func (l *Lexer) readHexString() (*Token, error) {
	l.pos++
	start := l.pos

	for l.pos < len(l.data) && l.data[l.pos] != '>' {
		l.pos++
	}
	if l.pos >= len(l.data) {
		return nil, fmt.Errorf("unterminated hex string")
	}

	raw := l.data[start:l.pos]
	l.pos++

	digits := make([]byte, 0, len(raw))
	for _, b := range raw {
		if isHexDigit(b) {
			digits = append(digits, b)
		}
	}
	// odd digit counts get a trailing implicit zero
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}

	out := make([]byte, 0, len(digits)/2)
	for i := 0; i+1 < len(digits); i += 2 {
		v, _ := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		out = append(out, byte(v))
	}

	return &Token{Type: TokenOperand, Value: out}, nil
}

// readArray reads a whole array operand, typically a TJ argument.
func (l *Lexer) readArray() (*Token, error) {
	l.pos++
	array := []interface{}{}

	for l.pos < len(l.data) {
		l.skipWhitespace()
		if l.pos >= len(l.data) {
			break
		}

		ch := l.data[l.pos]
		if ch == ']' {
			l.pos++
			break
		}

		var tok *Token
		var err error
		switch {
		case ch == '(':
			tok, err = l.readString()
		case ch == '<':
			if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
				return nil, fmt.Errorf("unexpected dictionary in array")
			}
			tok, err = l.readHexString()
		case ch == '/':
			tok, err = l.readName()
		case ch == '+' || ch == '-' || ch == '.' || (ch >= '0' && ch <= '9'):
			tok, err = l.readNumber()
		default:
			return nil, fmt.Errorf("unexpected character in array: %c", ch)
		}
		if err != nil {
			return nil, err
		}
		array = append(array, tok.Value)
	}

	return &Token{Type: TokenOperand, Value: array}, nil
}

func (l *Lexer) readName() (*Token, error) {
	l.pos++
	start := l.pos

	for l.pos < len(l.data) && !isDelimiter(l.data[l.pos]) && !isWhitespace(l.data[l.pos]) {
		l.pos++
	}

	return &Token{Type: TokenOperand, Value: string(l.data[start:l.pos])}, nil
}

func (l *Lexer) readNumber() (*Token, error) {
	start := l.pos
	hasDecimal := false

	for l.pos < len(l.data) {
		ch := l.data[l.pos]
		switch {
		case ch == '.':
			if hasDecimal {
				goto done
			}
			hasDecimal = true
		case ch == '+' || ch == '-':
			if l.pos != start {
				goto done
			}
		case ch < '0' || ch > '9':
			goto done
		}
		l.pos++
	}
done:

	v, _ := strconv.ParseFloat(string(l.data[start:l.pos]), 64)
	return &Token{Type: TokenOperand, Value: v}, nil
}

func (l *Lexer) readOperator() (*Token, error) {
	start := l.pos

	for l.pos < len(l.data) {
		ch := l.data[l.pos]
		if isDelimiter(ch) || isWhitespace(ch) ||
			ch == '+' || ch == '-' || ch == '.' || (ch >= '0' && ch <= '9') {
			break
		}
		l.pos++
	}

	if l.pos == start {
		// lone delimiter that reached the operator path, consume it
		l.pos++
	}

	return &Token{Type: TokenOperator, Value: string(l.data[start:l.pos])}, nil
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == '\f' || b == 0
}

func isDelimiter(b byte) bool {
	return b == '(' || b == ')' || b == '<' || b == '>' || b == '[' || b == ']' ||
		b == '{' || b == '}' || b == '/' || b == '%'
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// unescapeString resolves literal string escapes, including octal codes.
func unescapeString(text []byte) []byte {
	var result []byte
	escaped := false

	for i := 0; i < len(text); i++ {
		ch := text[i]
		if !escaped {
			if ch == '\\' {
				escaped = true
			} else {
				result = append(result, ch)
			}
			continue
		}

		escaped = false
		switch ch {
		case 'n':
			result = append(result, '\n')
		case 'r':
			result = append(result, '\r')
		case 't':
			result = append(result, '\t')
		case 'b':
			result = append(result, '\b')
		case 'f':
			result = append(result, '\f')
		case '\\', '(', ')':
			result = append(result, ch)
		case '\r', '\n':
			// escaped newline is a continuation
		default:
			if ch >= '0' && ch <= '7' {
				end := i + 3
				if end > len(text) {
					end = len(text)
				}
				j := i
				for j < end && text[j] >= '0' && text[j] <= '7' {
					j++
				}
				if v, err := strconv.ParseUint(string(text[i:j]), 8, 8); err == nil {
					result = append(result, byte(v))
					i = j - 1
				} else {
					result = append(result, ch)
				}
			} else {
				result = append(result, ch)
			}
		}
	}

	return result
}
