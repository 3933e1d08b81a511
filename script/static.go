package script

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// StaticVersion evaluates the version expression of the target call without
// running the script. It understands string literals, "+", implicit
// concatenation of adjacent literals, parentheses, and names bound by
// earlier top-level assignments of such expressions. Anything else fails
// with [ErrNotStatic].
func (p *Program) StaticVersion() (string, error) {
	call, err := p.Target()
	if err != nil {
		return "", err
	}

	arg, err := call.Keyword(VersionKeyword)
	if err != nil {
		return "", WrapError(err).With(slog.String("file", p.Filename))
	}

	ev := newEvaluator()

	for _, stmt := range p.Statements {
		if stmt.Call == call {
			break
		}

		name, value, ok := stmt.Assignment()
		if !ok {
			continue
		}

		s, err := ev.eval(value)
		if err != nil {
			// A later non-static binding shadows any earlier one.
			ev.unbind(name)

			continue
		}

		ev.bind(name, s)
	}

	s, err := ev.eval(arg.Value)
	if err != nil {
		return "", ErrNotStatic.Wrap(err).With(
			slog.String("file", p.Filename),
			slog.Int("line", arg.Value.Pos().Line),
			slog.String("expression", p.Text(arg.Value)),
		)
	}

	return s, nil
}

// evaluator translates string expressions into expr-lang programs. Script
// names and literals are both carried into the expr environment under
// generated identifiers so that neither needs re-quoting.
type evaluator struct {
	env   map[string]any
	names map[string]string
}

func newEvaluator() *evaluator {
	return &evaluator{
		env:   make(map[string]any),
		names: make(map[string]string),
	}
}

func (ev *evaluator) bind(name, value string) {
	key := "v" + strconv.Itoa(len(ev.env))
	ev.env[key] = value
	ev.names[name] = key
}

func (ev *evaluator) unbind(name string) {
	delete(ev.names, name)
}

func (ev *evaluator) eval(x Expr) (string, error) {
	source, env, err := ev.translate(x.Tokens)
	if err != nil {
		return "", err
	}

	program, err := expr.Compile(source, expr.Env(env), expr.AsKind(reflect.String))
	if err != nil {
		return "", err
	}

	return run(program, env)
}

func run(program *vm.Program, env map[string]any) (string, error) {
	out, err := expr.Run(program, env)
	if err != nil {
		return "", err
	}

	s, ok := out.(string)
	if !ok {
		return "", fmt.Errorf("result is %T, not a string", out)
	}

	return s, nil
}

// translate renders toks as an expr-lang expression over a copy of the
// evaluator's environment extended with the literals in toks.
func (ev *evaluator) translate(toks []Token) (string, map[string]any, error) {
	env := maps.Clone(ev.env)

	var (
		src     strings.Builder
		literal *strings.Builder // adjacent literals being joined
	)

	flush := func() {
		if literal == nil {
			return
		}

		key := "s" + strconv.Itoa(len(env))
		env[key] = literal.String()
		src.WriteString(key)

		literal = nil
	}

	for _, tok := range toks {
		if tok.Kind == String {
			s, err := decodeString(tok.Text)
			if err != nil {
				return "", nil, err
			}

			if literal == nil {
				literal = new(strings.Builder)
			}

			literal.WriteString(s)

			continue
		}

		flush()

		switch {
		case tok.Kind == Name:
			key, ok := ev.names[tok.Text]
			if !ok {
				return "", nil, fmt.Errorf("name %q is not bound to a static string", tok.Text)
			}

			src.WriteString(key)

		case tok.Is("+"), tok.Is("("), tok.Is(")"):
			src.WriteString(" " + tok.Text + " ")

		default:
			return "", nil, fmt.Errorf("unsupported %s at %s", tok, tok.Pos)
		}
	}

	flush()

	return src.String(), env, nil
}

var errUnsupportedLiteral = errors.New("unsupported string literal")

// decodeString returns the value of a string literal token. Bytes and
// formatted literals have no static string value.
func decodeString(text string) (string, error) {
	q := strings.IndexAny(text, `'"`)
	if q < 0 {
		return "", errUnsupportedLiteral
	}

	prefix := strings.ToLower(text[:q])
	if strings.ContainsAny(prefix, "bf") {
		return "", fmt.Errorf("%w: %s", errUnsupportedLiteral, text)
	}

	body := text[q:]
	quote := body[:1]

	if len(body) >= 6 && strings.HasPrefix(body, strings.Repeat(quote, 3)) {
		body = body[3 : len(body)-3]
	} else {
		body = body[1 : len(body)-1]
	}

	body = strings.ReplaceAll(body, "\r\n", "\n")

	if strings.Contains(prefix, "r") {
		return body, nil
	}

	return unescape(body)
}

var simpleEscapes = map[byte]string{
	'\\': "\\", '\'': "'", '"': "\"",
	'a': "\a", 'b': "\b", 'f': "\f", 'n': "\n", 'r': "\r", 't': "\t", 'v': "\v",
	'\n': "",
}

// unescape interprets backslash escapes. Unrecognized escapes are kept
// verbatim, backslash included.
func unescape(s string) (string, error) {
	var out strings.Builder

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			out.WriteByte(s[i])

			continue
		}

		i++
		c := s[i]

		if r, ok := simpleEscapes[c]; ok {
			out.WriteString(r)

			continue
		}

		switch c {
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}

			n, _ := strconv.ParseUint(s[i:j], 8, 32)
			out.WriteRune(rune(n))

			i = j - 1

		case 'x', 'u', 'U':
			width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[c]
			if i+1+width > len(s) {
				return "", fmt.Errorf("truncated \\%c escape", c)
			}

			n, err := strconv.ParseUint(s[i+1:i+1+width], 16, 32)
			if err != nil {
				return "", fmt.Errorf("invalid \\%c escape: %w", c, err)
			}

			out.WriteRune(rune(n))

			i += width

		case 'N':
			return "", fmt.Errorf("%w: named unicode escape", errUnsupportedLiteral)

		default:
			out.WriteByte('\\')
			out.WriteByte(c)
		}
	}

	return out.String(), nil
}
