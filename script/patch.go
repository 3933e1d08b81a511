package script

import (
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"
)

const (
	// TargetName is the callee a qualifying call must name.
	TargetName = "setup"
	// VersionKeyword is the keyword argument that is rewritten.
	VersionKeyword = "version"

	maxCandidates = 5
)

// Unit is a patched build script ready to compile.
type Unit struct {
	Filename string
	// Source is the patched text. It has the same line structure as the
	// original; only the version argument's line gains characters.
	Source   string
	Original string
	Binding  string
	Call     *Call
	Argument *Argument
	// Value is the source text of the original version expression.
	Value string
}

// Replacement returns the text that replaced the version expression.
func (u *Unit) Replacement() string {
	return u.Binding + "(" + u.Value + ")"
}

// Report describes a rewrite for display.
type Report struct {
	File        string `json:"file"        yaml:"file"`
	Line        int    `json:"line"        yaml:"line"`
	Column      int    `json:"column"      yaml:"column"`
	Callee      string `json:"callee"      yaml:"callee"`
	Keyword     string `json:"keyword"     yaml:"keyword"`
	Original    string `json:"original"    yaml:"original"`
	Replacement string `json:"replacement" yaml:"replacement"`
}

// Report returns the location and text of the rewrite.
func (u *Unit) Report() Report {
	pos := u.Argument.Value.Pos()

	return Report{
		File:        u.Filename,
		Line:        pos.Line,
		Column:      pos.Column,
		Callee:      u.Call.Name(),
		Keyword:     u.Argument.Keyword,
		Original:    u.Value,
		Replacement: u.Replacement(),
	}
}

// LogValue implements slog.LogValuer.
func (u *Unit) LogValue() slog.Value {
	pos := u.Argument.Value.Pos()

	return slog.GroupValue(
		slog.String("file", u.Filename),
		slog.Int("line", pos.Line),
		slog.Int("column", pos.Column),
		slog.String("version", u.Value),
	)
}

// Target returns the single top-level call to [TargetName]. Calls through a
// dotted name or an alias do not qualify.
func (p *Program) Target() (*Call, error) {
	var found []*Call

	for call := range p.Calls() {
		if len(call.Callee) == 1 && call.Callee[0] == TargetName {
			found = append(found, call)
		}
	}

	switch len(found) {
	case 0:
		return nil, ErrTargetNotFound.With(
			slog.String("file", p.Filename),
			slog.Any("candidates", p.Candidates()),
		)

	case 1:
		return found[0], nil

	default:
		lines := make([]int, len(found))
		for i, call := range found {
			lines[i] = call.Pos.Line
		}

		return nil, ErrAmbiguousTarget.With(
			slog.String("file", p.Filename),
			slog.Any("lines", lines),
		)
	}
}

// Candidates returns call sites anywhere in the script whose callee
// resembles [TargetName], best match first, formatted as "name:line".
func (p *Program) Candidates() []string {
	sites := p.callSites()

	names := make([]string, len(sites))
	for i, s := range sites {
		names[i] = s.name
	}

	matches := fuzzy.Find(TargetName, names)

	out := make([]string, 0, min(len(matches), maxCandidates))
	for _, m := range matches {
		if len(out) == maxCandidates {
			break
		}

		out = append(out, sites[m.Index].String())
	}

	return out
}

type callSite struct {
	name string
	pos  Position
}

func (s callSite) String() string {
	return s.name + ":" + s.pos.String()
}

// callSites finds every name or dotted name followed by an opening
// parenthesis, at any depth.
func (p *Program) callSites() []callSite {
	var sites []callSite

	toks := p.Tokens

	for i := 0; i < len(toks); i++ {
		if toks[i].Kind != Name || IsKeyword(toks[i].Text) {
			continue
		}

		if i > 0 && toks[i-1].Is(".") {
			continue
		}

		start := i
		parts := []string{toks[i].Text}

		for i+2 < len(toks) && toks[i+1].Is(".") && toks[i+2].Kind == Name {
			parts = append(parts, toks[i+2].Text)
			i += 2
		}

		if i+1 < len(toks) && toks[i+1].Is("(") {
			sites = append(sites, callSite{
				name: strings.Join(parts, "."),
				pos:  toks[start].Pos,
			})
		}
	}

	return sites
}

// Patch rewrites the version argument of the target call to pass through a
// call to binding: "version=EXPR" becomes "version=binding(EXPR)". EXPR is
// kept verbatim and therefore evaluated exactly once, and no line break is
// added or removed.
func (p *Program) Patch(binding string) (*Unit, error) {
	if !isIdentifier(binding) || IsKeyword(binding) {
		return nil, ErrInvalidBinding.With(slog.String("name", binding))
	}

	call, err := p.Target()
	if err != nil {
		return nil, err
	}

	arg, err := call.Keyword(VersionKeyword)
	if err != nil {
		return nil, WrapError(err).With(slog.String("file", p.Filename))
	}

	buf := NewBuffer(p.Source)
	buf.Insert(arg.Value.Pos().Offset, binding+"(")
	buf.Insert(arg.Value.End().Offset, ")")

	return &Unit{
		Filename: p.Filename,
		Source:   buf.String(),
		Original: p.Source,
		Binding:  binding,
		Call:     call,
		Argument: arg,
		Value:    p.Text(arg.Value),
	}, nil
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if (i == 0 && !isIdentifierStart(r)) || (i > 0 && !isIdentifierContinue(r)) {
			return false
		}
	}

	return s != ""
}
