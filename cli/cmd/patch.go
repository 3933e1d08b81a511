package cmd

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/wrapsetup/script"
)

// reportIndent is the indentation of YAML and JSON reports.
const reportIndent = 2

// Patch prints a build script as it would be executed.
type Patch struct {
	Script string `arg:"" help:"Python build script, usually setup.py."`
	Report string `default:"" enum:",yaml,json" help:"Print the rewrite location instead of the source (${enum})." placeholder:"FORMAT"`
	Color  bool   `help:"Highlight the inserted text when writing to a terminal." negatable:""`
}

// Run executes the patch command.
func (p *Patch) Run(ctx context.Context) error {
	unit, err := patchScript(ctx, p.Script)
	if err != nil {
		return err
	}

	out := stdout(ctx)

	var data []byte

	switch p.Report {
	case "yaml":
		data, err = yaml.MarshalContext(ctx, unit.Report(), yaml.Indent(reportIndent))
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

	case "json":
		data, err = json.MarshalIndent(unit.Report(), "", "  ")
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		data = append(data, '\n')

	default:
		src := unit.Source
		if p.Color {
			src = highlight(out, unit)
		}

		data = []byte(src)
	}

	if _, err := out.Write(data); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("command", "patch"))
	}

	return nil
}

// highlight renders the patched source with the inserted text styled for w.
// Where w does not support color the result equals unit.Source.
func highlight(w io.Writer, unit *script.Unit) string {
	style := lipgloss.NewRenderer(w).NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "42"}).
		Bold(true)

	buf := script.NewBuffer(unit.Original)
	buf.Insert(unit.Argument.Value.Pos().Offset, style.Render(unit.Binding+"("))
	buf.Insert(unit.Argument.Value.End().Offset, style.Render(")"))

	return buf.String()
}
