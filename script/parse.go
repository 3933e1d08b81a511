package script

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/wrapsetup/log"
)

// ParseReader reads a build script from r and parses it.
func ParseReader(
	ctx context.Context,
	filename string,
	r io.Reader,
) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("file", filename))
	}

	return Parse(ctx, filename, string(data))
}

// Parse tokenizes source and collects its top-level statements. Expressions
// are not parsed beyond their extent; syntax errors inside them are left for
// the interpreter to report.
func Parse(ctx context.Context, filename, source string) (*Program, error) {
	tokens, err := Tokenize(filename, source)
	if err != nil {
		return nil, err
	}

	p := &parser{filename: filename, source: source}
	prog := &Program{
		Filename: filename,
		Source:   source,
		Tokens:   tokens,
	}

	var (
		line  []Token
		depth int
	)

	for _, tok := range tokens {
		switch tok.Kind {
		case Indent:
			depth++
		case Dedent:
			depth--
		case Newline:
			if depth == 0 && len(line) > 0 {
				stmts, err := p.statements(line)
				if err != nil {
					return nil, err
				}

				prog.Statements = append(prog.Statements, stmts...)
			}

			line = nil
		case EOF:
		default:
			if depth == 0 {
				line = append(line, tok)
			}
		}
	}

	log.TraceContext(ctx, "parse complete",
		slog.String("file", filename),
		slog.Int("tokens", len(tokens)),
		slog.Int("statements", len(prog.Statements)))

	return prog, nil
}

type parser struct {
	filename string
	source   string
}

// statements splits a logical line on top-level semicolons.
func (p *parser) statements(line []Token) ([]*Statement, error) {
	var stmts []*Statement

	for len(line) > 0 {
		end := indexTopLevel(line, ";")
		if end < 0 {
			end = len(line)
		}

		if end > 0 {
			stmt := &Statement{Tokens: line[:end]}

			call, err := p.call(stmt.Tokens)
			if err != nil {
				return nil, err
			}

			stmt.Call = call
			stmts = append(stmts, stmt)
		}

		if end == len(line) {
			break
		}

		line = line[end+1:]
	}

	return stmts, nil
}

// call returns the call that toks consists of exactly, or nil if toks is
// any other kind of statement.
func (p *parser) call(toks []Token) (*Call, error) {
	if toks[0].Kind != Name || IsKeyword(toks[0].Text) {
		return nil, nil
	}

	c := &Call{
		Callee: []string{toks[0].Text},
		Pos:    toks[0].Pos,
	}

	i := 1
	for i+1 < len(toks) && toks[i].Is(".") && toks[i+1].Kind == Name {
		c.Callee = append(c.Callee, toks[i+1].Text)
		i += 2
	}

	if i >= len(toks) || !toks[i].Is("(") {
		return nil, nil
	}

	closing := matching(toks, i)
	if closing != len(toks)-1 {
		return nil, nil
	}

	args, err := p.arguments(toks[i+1 : closing])
	if err != nil {
		return nil, err
	}

	c.Args = args
	c.Lparen = toks[i].Pos
	c.Rparen = toks[closing].Pos
	c.End = toks[closing].End

	return c, nil
}

// arguments splits the tokens between a call's parentheses into arguments.
func (p *parser) arguments(toks []Token) ([]*Argument, error) {
	var (
		args   []*Argument
		start  int
		depth  int
		lambda int // lambdas whose parameter list is still open
	)

	flush := func(end int, sep *Token) error {
		seg := toks[start:end]
		if len(seg) == 0 {
			if sep == nil {
				return nil // trailing comma or empty list
			}

			return p.errorAt(sep.Pos, "invalid syntax: expected argument")
		}

		arg, err := p.argument(seg)
		if err != nil {
			return err
		}

		args = append(args, arg)

		return nil
	}

	for i, tok := range toks {
		switch {
		case tok.Is("(") || tok.Is("[") || tok.Is("{"):
			depth++
		case tok.Is(")") || tok.Is("]") || tok.Is("}"):
			depth--
		case depth > 0:
		case tok.Kind == Name && tok.Text == "lambda":
			lambda++
		case tok.Is(":") && lambda > 0:
			lambda--
		case tok.Is(",") && lambda == 0:
			if err := flush(i, &toks[i]); err != nil {
				return nil, err
			}

			start = i + 1
		}
	}

	if err := flush(len(toks), nil); err != nil {
		return nil, err
	}

	return args, nil
}

func (p *parser) argument(seg []Token) (*Argument, error) {
	head := seg[0]

	switch {
	case head.Is("*") || head.Is("**"):
		if len(seg) == 1 {
			return nil, p.errorAt(head.End, "invalid syntax: expected expression")
		}

		kind := ArgStar
		if head.Text == "**" {
			kind = ArgDoubleStar
		}

		return &Argument{Kind: kind, Value: Expr{Tokens: seg[1:]}}, nil

	case head.Kind == Name && len(seg) > 1 && seg[1].Is("="):
		if IsKeyword(head.Text) {
			return nil, p.errorAt(head.Pos,
				"cannot assign to "+head.Text)
		}

		if len(seg) == 2 {
			return nil, p.errorAt(seg[1].End, "invalid syntax: expected expression")
		}

		return &Argument{
			Kind:    ArgKeyword,
			Keyword: head.Text,
			Value:   Expr{Tokens: seg[2:]},
		}, nil
	}

	return &Argument{Kind: ArgPositional, Value: Expr{Tokens: seg}}, nil
}

func (p *parser) errorAt(pos Position, reason string) error {
	return &ParseError{
		Filename: p.filename,
		Source:   p.source,
		Pos:      pos,
		Reason:   reason,
	}
}

// matching returns the index of the bracket closing toks[open], or -1. The
// tokenizer guarantees brackets are balanced.
func matching(toks []Token, open int) int {
	depth := 0

	for i := open; i < len(toks); i++ {
		switch {
		case toks[i].Is("(") || toks[i].Is("[") || toks[i].Is("{"):
			depth++
		case toks[i].Is(")") || toks[i].Is("]") || toks[i].Is("}"):
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}
