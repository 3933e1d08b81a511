package script

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// tabSize is the tab stop used to measure indentation.
const tabSize = 8

// lexer turns source text into tokens, tracking brackets so that newlines
// inside them do not end a logical line.
type lexer struct {
	filename string
	input    []byte
	pos      Position
	tokens   []Token
	brackets []Token
	indents  []int
	bol      bool // at the beginning of a logical line
}

// Tokenize splits source into tokens, ending with a single EOF token.
// Newline tokens end logical lines; Indent and Dedent tokens bracket
// indented blocks. Comments and blank lines produce no tokens.
func Tokenize(filename, source string) ([]Token, error) {
	lx := &lexer{
		filename: filename,
		input:    []byte(source),
		pos:      Position{Offset: 0, Line: 1, Column: 1},
		indents:  []int{0},
		bol:      true,
	}

	if err := lx.run(); err != nil {
		return nil, err
	}

	return lx.tokens, nil
}

func (lx *lexer) run() error {
	// A byte order mark is not part of the program.
	if strings.HasPrefix(string(lx.input), "\ufeff") {
		lx.pos.Offset = len("\ufeff")
	}

	for {
		if lx.bol && len(lx.brackets) == 0 {
			blank, err := lx.indentation()
			if err != nil {
				return err
			}

			if blank {
				continue
			}
		}

		lx.skipBlanks()

		if lx.eof() {
			return lx.finish()
		}

		if err := lx.next(); err != nil {
			return err
		}
	}
}

// indentation measures the leading whitespace of a line and emits Indent or
// Dedent tokens. Blank and comment-only lines are consumed entirely and
// reported as blank.
func (lx *lexer) indentation() (blank bool, err error) {
	width := 0

measure:
	for !lx.eof() {
		switch lx.peek() {
		case ' ':
			width++
		case '\t':
			width = (width/tabSize + 1) * tabSize
		case '\f':
			width = 0
		default:
			break measure
		}

		lx.advance()
	}

	switch ch := lx.peek(); {
	case lx.eof():
		return false, nil
	case ch == '#':
		lx.skipComment()
		lx.newline(false)

		return true, nil
	case ch == '\n' || ch == '\r':
		lx.newline(false)

		return true, nil
	}

	lx.bol = false

	top := lx.indents[len(lx.indents)-1]

	switch {
	case width > top:
		if !lx.opensBlock() {
			return false, lx.errorAt(lx.pos, "unexpected indent")
		}

		lx.indents = append(lx.indents, width)
		lx.emit(Indent, lx.pos, lx.pos)

	case width < top:
		for width < lx.indents[len(lx.indents)-1] {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.emit(Dedent, lx.pos, lx.pos)
		}

		if width != lx.indents[len(lx.indents)-1] {
			return false, lx.errorAt(lx.pos,
				"unindent does not match any outer indentation level")
		}
	}

	return false, nil
}

// opensBlock reports whether the previous logical line ended with a colon.
func (lx *lexer) opensBlock() bool {
	n := len(lx.tokens)

	return n >= 2 && lx.tokens[n-1].Kind == Newline && lx.tokens[n-2].Is(":")
}

// next scans one token, or a newline, comment, or continuation.
func (lx *lexer) next() error {
	ch := lx.peek()

	switch {
	case ch == '#':
		lx.skipComment()

		return nil

	case ch == '\n' || ch == '\r':
		lx.newline(len(lx.brackets) == 0)

		return nil

	case ch == '\\':
		start := lx.pos
		if !lx.continuation() {
			return lx.errorAt(start,
				"unexpected character after line continuation character")
		}

		lx.advance()
		lx.newline(false)

		if lx.eof() {
			return lx.errorAt(start, "unexpected EOF after line continuation")
		}

		return nil

	case ch == 0:
		return lx.errorAt(lx.pos, "source code cannot contain null bytes")

	case lx.stringStart():
		return lx.scanString()

	case isIdentifierStart(ch):
		lx.scanName()

		return nil

	case isDigit(ch) || (ch == '.' && isDigit(lx.peekAt(1))):
		lx.scanNumber()

		return nil
	}

	return lx.scanOperator()
}

// newline consumes one line break. When logical is true, it also ends the
// current logical line unless that line is empty.
func (lx *lexer) newline(logical bool) {
	start := lx.pos

	if lx.peek() == '\r' {
		lx.advance()

		if lx.peek() == '\n' {
			lx.advance()
		}
	} else {
		lx.advance()
	}

	if logical {
		if !lx.lineEnded() {
			lx.emit(Newline, start, lx.pos)
		}

		lx.bol = true
	}
}

// lineEnded reports whether no tokens have been emitted since the last
// Newline or the start of input.
func (lx *lexer) lineEnded() bool {
	n := len(lx.tokens)

	return n == 0 || lx.tokens[n-1].Kind == Newline
}

func (lx *lexer) finish() error {
	if n := len(lx.brackets); n > 0 {
		open := lx.brackets[n-1]

		return lx.errorAt(open.Pos, "'"+open.Text+"' was never closed")
	}

	if !lx.lineEnded() {
		lx.emit(Newline, lx.pos, lx.pos)
	}

	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.emit(Dedent, lx.pos, lx.pos)
	}

	lx.emit(EOF, lx.pos, lx.pos)

	return nil
}

func (lx *lexer) scanName() {
	start := lx.pos

	for !lx.eof() && isIdentifierContinue(lx.peek()) {
		lx.advance()
	}

	lx.emit(Name, start, lx.pos)
}

// scanNumber accepts every valid numeric literal (and some invalid ones,
// which the interpreter rejects when compiling).
func (lx *lexer) scanNumber() {
	start := lx.pos

	for !lx.eof() {
		ch := lx.peek()

		switch {
		case isDigit(ch) || ch == '_' || ch == '.' ||
			(ch < utf8.RuneSelf && unicode.IsLetter(ch)):
			prev := ch
			lx.advance()

			if (prev == 'e' || prev == 'E') && (lx.peek() == '+' || lx.peek() == '-') &&
				!isHexPrefixed(lx.input[start.Offset:lx.pos.Offset]) {
				lx.advance()
			}
		default:
			lx.emit(Number, start, lx.pos)

			return
		}
	}

	lx.emit(Number, start, lx.pos)
}

func isHexPrefixed(b []byte) bool {
	return len(b) > 1 && b[0] == '0' && (b[1] == 'x' || b[1] == 'X')
}

// stringStart reports whether a string literal, with optional prefix,
// begins at the current position.
func (lx *lexer) stringStart() bool {
	n := lx.prefixLen()

	return n >= 0
}

// prefixLen returns the length of the string prefix at the current
// position, or -1 if no string literal starts here.
func (lx *lexer) prefixLen() int {
	for n := 0; n <= 2; n++ {
		q := lx.peekAt(n)
		if q == '"' || q == '\'' {
			if validPrefix(string(lx.input[lx.pos.Offset : lx.pos.Offset+n])) {
				return n
			}

			return -1
		}

		if q >= utf8.RuneSelf || !strings.ContainsRune("rRbBuUfF", q) {
			return -1
		}
	}

	return -1
}

func validPrefix(p string) bool {
	switch strings.ToLower(p) {
	case "", "r", "u", "b", "f", "br", "rb", "fr", "rf":
		return true
	default:
		return false
	}
}

func (lx *lexer) scanString() error {
	start := lx.pos

	for range lx.prefixLen() {
		lx.advance()
	}

	quote := lx.peek()
	triple := lx.peekAt(1) == quote && lx.peekAt(2) == quote

	n := 1
	if triple {
		n = 3
	}

	for range n {
		lx.advance()
	}

	for {
		if lx.eof() {
			if triple {
				return lx.errorAt(start, "unterminated triple-quoted string literal")
			}

			return lx.errorAt(start, "unterminated string literal")
		}

		ch := lx.peek()

		switch {
		case ch == 0:
			return lx.errorAt(lx.pos, "source code cannot contain null bytes")

		case ch == '\\':
			lx.advance()

			if !lx.eof() {
				if lx.peek() == '\r' {
					lx.advance()

					if lx.peek() == '\n' {
						lx.advance()
					}
				} else {
					lx.advance()
				}
			}

		case (ch == '\n' || ch == '\r') && !triple:
			return lx.errorAt(start, "unterminated string literal")

		case ch == quote && (!triple || (lx.peekAt(1) == quote && lx.peekAt(2) == quote)):
			for range n {
				lx.advance()
			}

			lx.emit(String, start, lx.pos)

			return nil

		default:
			lx.advance()
		}
	}
}

func (lx *lexer) scanOperator() error {
	start := lx.pos
	rest := string(lx.input[lx.pos.Offset:])

	for _, op := range operators {
		if !strings.HasPrefix(rest, op) {
			continue
		}

		for range len(op) {
			lx.advance()
		}

		tok := lx.emit(Op, start, lx.pos)

		switch op {
		case "(", "[", "{":
			lx.brackets = append(lx.brackets, tok)

		case ")", "]", "}":
			n := len(lx.brackets)
			if n == 0 {
				return lx.errorAt(start, "unmatched '"+op+"'")
			}

			open := lx.brackets[n-1]
			if closer[open.Text] != op {
				return lx.errorAt(start, "closing parenthesis '"+op+
					"' does not match opening parenthesis '"+open.Text+"'")
			}

			lx.brackets = lx.brackets[:n-1]
		}

		return nil
	}

	return lx.errorAt(start, fmt.Sprintf("invalid character %q (%U)", lx.peek(), lx.peek()))
}

func (lx *lexer) emit(kind Kind, start, end Position) Token {
	tok := Token{
		Kind: kind,
		Text: string(lx.input[start.Offset:end.Offset]),
		Pos:  start,
		End:  end,
	}

	if kind == Newline || kind == Indent || kind == Dedent || kind == EOF {
		tok.Text = ""
	}

	lx.tokens = append(lx.tokens, tok)

	return tok
}

func (lx *lexer) errorAt(pos Position, reason string) error {
	return &ParseError{
		Filename: lx.filename,
		Source:   string(lx.input),
		Pos:      pos,
		Reason:   reason,
	}
}

// continuation reports whether a backslash at the current position is
// followed immediately by a line break.
func (lx *lexer) continuation() bool {
	next := lx.peekAt(1)

	return lx.peek() == '\\' && (next == '\n' || next == '\r')
}

func (lx *lexer) skipBlanks() {
	for !lx.eof() {
		switch lx.peek() {
		case ' ', '\t', '\f':
			lx.advance()
		default:
			return
		}
	}
}

func (lx *lexer) skipComment() {
	for !lx.eof() && lx.peek() != '\n' && lx.peek() != '\r' {
		lx.advance()
	}
}

func (lx *lexer) eof() bool {
	return lx.pos.Offset >= len(lx.input)
}

func (lx *lexer) peek() rune {
	return lx.peekAt(0)
}

// peekAt returns the rune n runes ahead, or 0 past the end of input.
func (lx *lexer) peekAt(n int) rune {
	off := lx.pos.Offset

	for ; n > 0 && off < len(lx.input); n-- {
		_, size := utf8.DecodeRune(lx.input[off:])
		off += size
	}

	if off >= len(lx.input) {
		return 0
	}

	r, _ := utf8.DecodeRune(lx.input[off:])

	return r
}

func (lx *lexer) advance() {
	if lx.eof() {
		return
	}

	r, size := utf8.DecodeRune(lx.input[lx.pos.Offset:])
	lx.pos.Offset += size

	switch {
	case r == '\n', r == '\r' && lx.peek() != '\n':
		lx.pos.Line++
		lx.pos.Column = 1
	default:
		lx.pos.Column++
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentifierStart(r rune) bool {
	return unicode.In(r,
		unicode.L,
		unicode.Nl,
		unicode.Other_ID_Start,
	) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return unicode.In(r,
		unicode.L,
		unicode.Nl,
		unicode.Other_ID_Start,
		unicode.Mn,
		unicode.Mc,
		unicode.Nd,
		unicode.Pc,
		unicode.Other_ID_Continue,
	)
}
