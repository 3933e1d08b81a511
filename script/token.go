package script

import (
	"strconv"
)

// Kind classifies a token.
type Kind int

const (
	EOF Kind = iota
	Name
	Number
	String
	Op
	Newline
	Indent
	Dedent
)

var kindName = [...]string{
	EOF:     "EOF",
	Name:    "NAME",
	Number:  "NUMBER",
	String:  "STRING",
	Op:      "OP",
	Newline: "NEWLINE",
	Indent:  "INDENT",
	Dedent:  "DEDENT",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindName) {
		return kindName[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Position is a location in source text. Offset is a byte offset; Line and
// Column are 1-based, and Column counts runes.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Token is a lexical token. Text is the exact source text of the token;
// it is empty for Newline, Indent, Dedent, and EOF.
type Token struct {
	Kind Kind
	Text string
	Pos  Position
	End  Position
}

// Is reports whether t is an operator or name with the given text.
func (t Token) Is(text string) bool {
	return (t.Kind == Op || t.Kind == Name) && t.Text == text
}

func (t Token) String() string {
	if t.Text == "" {
		return t.Kind.String()
	}

	return t.Kind.String() + " " + strconv.Quote(t.Text)
}

var keywords = map[string]struct{}{
	"False": {}, "None": {}, "True": {}, "and": {}, "as": {}, "assert": {},
	"async": {}, "await": {}, "break": {}, "class": {}, "continue": {},
	"def": {}, "del": {}, "elif": {}, "else": {}, "except": {}, "finally": {},
	"for": {}, "from": {}, "global": {}, "if": {}, "import": {}, "in": {},
	"is": {}, "lambda": {}, "nonlocal": {}, "not": {}, "or": {}, "pass": {},
	"raise": {}, "return": {}, "try": {}, "while": {}, "with": {}, "yield": {},
}

// IsKeyword reports whether name is a reserved word. Soft keywords (match,
// case, type, _) are ordinary names.
func IsKeyword(name string) bool {
	_, ok := keywords[name]

	return ok
}

// operators ordered longest first so the scanner can take the first match.
var operators = []string{
	"**=", "//=", ">>=", "<<=", "...",
	"->", ":=", "**", "//", "<<", ">>", "<=", ">=", "==", "!=",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
	"+", "-", "*", "/", "%", "@", "&", "|", "^", "~", "<", ">",
	"(", ")", "[", "]", "{", "}", ",", ":", ";", ".", "=",
}

var closer = map[string]string{"(": ")", "[": "]", "{": "}"}
