package script

import (
	"iter"
	"log/slog"
	"strings"
)

// Program is a tokenized build script with its top-level statements.
type Program struct {
	Filename   string
	Source     string
	Tokens     []Token
	Statements []*Statement
}

// Calls returns an iterator over the top-level expression statements that
// are a single call, in source order.
func (p *Program) Calls() iter.Seq[*Call] {
	return func(yield func(*Call) bool) {
		for _, stmt := range p.Statements {
			if stmt.Call == nil {
				continue
			}

			if !yield(stmt.Call) {
				return
			}
		}
	}
}

// Text returns the source text spanned by x.
func (p *Program) Text(x Expr) string {
	if len(x.Tokens) == 0 {
		return ""
	}

	return p.Source[x.Pos().Offset:x.End().Offset]
}

// Statement is one simple statement of a logical line at indentation zero.
// Compound statement headers (if, def, class, ...) are statements too; their
// indented bodies are not.
type Statement struct {
	Tokens []Token
	// Call is non-nil when the statement is exactly one call expression.
	Call *Call
}

// Pos returns the position of the first token of s.
func (s *Statement) Pos() Position { return s.Tokens[0].Pos }

// End returns the position following the last token of s.
func (s *Statement) End() Position { return s.Tokens[len(s.Tokens)-1].End }

// Assignment reports whether s binds a single name, as in "x = value" or
// "x: T = value", and returns the name and value.
func (s *Statement) Assignment() (name string, value Expr, ok bool) {
	toks := s.Tokens
	if len(toks) < 3 || toks[0].Kind != Name || IsKeyword(toks[0].Text) {
		return "", Expr{}, false
	}

	eq := -1

	switch {
	case toks[1].Is("="):
		eq = 1
	case toks[1].Is(":"):
		eq = indexTopLevel(toks[2:], "=")
		if eq >= 0 {
			eq += 2
		}
	}

	if eq < 0 || eq == len(toks)-1 {
		return "", Expr{}, false
	}

	// Chained assignments bind more than one name.
	if indexTopLevel(toks[eq+1:], "=") >= 0 {
		return "", Expr{}, false
	}

	return toks[0].Text, Expr{Tokens: toks[eq+1:]}, true
}

// Call is a call expression statement: callee ( args ).
type Call struct {
	// Callee holds the components of a simple or dotted name.
	Callee []string
	Args   []*Argument
	Pos    Position // start of the callee
	Lparen Position
	Rparen Position
	End    Position
}

// Name returns the callee as written, e.g. "setup" or "setuptools.setup".
func (c *Call) Name() string { return strings.Join(c.Callee, ".") }

// Keyword returns the keyword argument with the given name.
func (c *Call) Keyword(name string) (*Argument, error) {
	for _, arg := range c.Args {
		if arg.Kind == ArgKeyword && arg.Keyword == name {
			return arg, nil
		}
	}

	return nil, ErrArgumentNotFound.With(
		slog.String("keyword", name),
		slog.String("callee", c.Name()),
		slog.Int("line", c.Pos.Line),
		slog.Any("keywords", c.Keywords()),
	)
}

// Keywords returns the names of the keyword arguments of c in order.
func (c *Call) Keywords() []string {
	names := make([]string, 0, len(c.Args))

	for _, arg := range c.Args {
		if arg.Kind == ArgKeyword {
			names = append(names, arg.Keyword)
		}
	}

	return names
}

// ArgKind distinguishes the forms of call arguments.
type ArgKind int

const (
	ArgPositional ArgKind = iota
	ArgKeyword
	ArgStar       // *iterable
	ArgDoubleStar // **mapping
)

func (k ArgKind) String() string {
	switch k {
	case ArgPositional:
		return "positional"
	case ArgKeyword:
		return "keyword"
	case ArgStar:
		return "star"
	case ArgDoubleStar:
		return "double-star"
	default:
		return "unknown"
	}
}

// Argument is one argument of a call.
type Argument struct {
	Kind    ArgKind
	Keyword string // set for ArgKeyword
	Value   Expr
}

// Expr is an expression identified by the tokens it spans. The tree does not
// look inside expressions; it only needs their extent.
type Expr struct {
	Tokens []Token
}

// Pos returns the position of the first token of x.
func (x Expr) Pos() Position { return x.Tokens[0].Pos }

// End returns the position following the last token of x.
func (x Expr) End() Position { return x.Tokens[len(x.Tokens)-1].End }

// indexTopLevel returns the index of the first operator op in toks that is
// not nested in brackets, or -1.
func indexTopLevel(toks []Token, op string) int {
	depth := 0

	for i, tok := range toks {
		if tok.Kind != Op {
			continue
		}

		switch tok.Text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		case op:
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}
