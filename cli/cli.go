package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/ardnew/wrapsetup/cli/cmd"
	"github.com/ardnew/wrapsetup/log"
	"github.com/ardnew/wrapsetup/pkg"
	"github.com/ardnew/wrapsetup/runner"
)

// Configuration file names within [pkg.ConfigDir].
const (
	configYAML = "config.yaml"
	configJSON = "config.json"
)

// configPath returns the path of a configuration file. Tests replace it.
var configPath = func(name string) string { return pkg.ConfigPath(name) }

// CLI is the top-level command-line interface for wrapsetup.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`
	Exec  cmd.Exec    `embed:"" group:"exec"`

	Print kong.VersionFlag `help:"Print the wrapsetup version and exit." name:"version" short:"V"`

	Init    cmd.Init    `cmd:"" help:"Initialize configuration file"`
	Patch   cmd.Patch   `cmd:"" help:"Print a build script as it would be executed"`
	Version cmd.Version `cmd:"" help:"Print the version a build would produce"`

	Run cmd.Run `cmd:"" default:"withargs" help:"Patch and run a build script"`
}

// commands lists the command names recognized ahead of the build script.
var commands = []string{"init", "patch", "version", "run"}

// Run executes the wrapsetup CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
//
// The exit status of a build script is returned as a [*runner.ExitError].
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	configFilePath := configPath(configYAML)

	vars := kong.Vars{
		"version":            pkg.Version,
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cli.Log.scan(args, commands...)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), execGroup()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(configJSON)),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithExec(ctx, cli.Exec)

	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

func execGroup() kong.Group {
	return kong.Group{Key: "exec", Title: "Interpreter options"}
}

// ExitStatus returns the process exit status for an error returned by [Run].
//
// A build script's own failure is mirrored silently since the script has
// already reported it. Any other error is logged with its structured
// attributes and yields status 1.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}

	var exit *runner.ExitError
	if errors.As(err, &exit) {
		log.Debug("script exited", slog.Any("status", exit))

		return exit.Code
	}

	log.Error("run failed", slog.Any("error", errorValue(err)))

	return runner.ExitCode(err)
}

// errorValue returns the outermost error in err's tree that carries
// structured attributes, or err itself if none does. Kong joins and wraps
// command errors, which hides their LogValue from slog.
func errorValue(err error) any {
	var lv slog.LogValuer
	if errors.As(err, &lv) {
		return lv
	}

	return err
}
