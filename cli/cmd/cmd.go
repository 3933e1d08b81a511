package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/wrapsetup/log"
	"github.com/ardnew/wrapsetup/runner"
	"github.com/ardnew/wrapsetup/script"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Exec holds the flags that select the interpreter and its environment.
type Exec struct {
	Python     string   `help:"Python interpreter to run (default: python3, then python)." placeholder:"NAME|PATH"`
	SearchPath []string `help:"Directories searched for the interpreter ahead of PATH."      placeholder:"DIR"       type:"path"`
	EnvFile    []string `help:"Dotenv files adding variables that are not already set."     placeholder:"FILE"      type:"path"`
}

type execKey struct{}

// WithExec returns a new context.Context carrying the interpreter flags.
func WithExec(ctx context.Context, e Exec) context.Context {
	return context.WithValue(ctx, execKey{}, e)
}

func execFrom(ctx context.Context) Exec {
	e, _ := ctx.Value(execKey{}).(Exec)

	return e
}

// stdout returns the writer commands print results to.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// loadScript reads the script at path and parses it. The file is closed
// before parsing begins.
func loadScript(ctx context.Context, path string) (*script.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, script.ErrReadInput.Wrap(err).With(slog.String("file", path))
	}

	return script.Parse(ctx, path, string(data))
}

// patchScript reads and patches the script at path with the reserved
// version binding.
func patchScript(ctx context.Context, path string) (*script.Unit, error) {
	prog, err := loadScript(ctx, path)
	if err != nil {
		return nil, err
	}

	unit, err := prog.Patch(runner.VersionBinding)
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "patched", slog.Any("unit", unit))

	return unit, nil
}
