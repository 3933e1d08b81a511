package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/wrapsetup/suffix"
)

// Version prints the version a build would use without running the script.
// Only versions built from string literals can be determined this way.
type Version struct {
	Script string `arg:"" help:"Python build script, usually setup.py."`
	Base   bool   `help:"Print the declared version without the suffix."`
}

// Run executes the version command.
func (v *Version) Run(ctx context.Context) error {
	prog, err := loadScript(ctx, v.Script)
	if err != nil {
		return err
	}

	version, err := prog.StaticVersion()
	if err != nil {
		return err
	}

	if !v.Base {
		version = suffix.Suffix(version)
	}

	if _, err := fmt.Fprintln(stdout(ctx), version); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
