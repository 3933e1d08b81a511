package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/wrapsetup/log"
	"github.com/ardnew/wrapsetup/runner"
)

// Run patches a build script and executes it.
type Run struct {
	Script string   `arg:"" help:"Python build script, usually setup.py."`
	Args   []string `arg:"" help:"Arguments passed to the script unchanged." optional:"" passthrough:"all"`
}

// Run executes the run command. The script's exit status is returned as a
// [*runner.ExitError].
func (r *Run) Run(ctx context.Context) error {
	ex := execFrom(ctx)

	unit, err := patchScript(ctx, r.Script)
	if err != nil {
		return err
	}

	interpreter, err := runner.LookPath(ex.Python, ex.SearchPath...)
	if err != nil {
		return err
	}

	env, err := runner.Environ(os.Environ(), ex.EnvFile...)
	if err != nil {
		return err
	}

	rc := runner.MakeContext(r.Args...)
	rc.Env = env

	log.DebugContext(ctx, "interpreter",
		slog.String("path", interpreter),
		slog.Any("env_files", ex.EnvFile))

	return runner.Run(ctx, interpreter, unit, rc)
}
