package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/wrapsetup/cli/cmd"
	"github.com/ardnew/wrapsetup/log"
	"github.com/ardnew/wrapsetup/runner"
)

// useConfigDir points configuration lookups at dir for the duration of t.
func useConfigDir(t *testing.T, dir string) {
	t.Helper()

	orig := configPath
	configPath = func(name string) string { return filepath.Join(dir, name) }

	t.Cleanup(func() { configPath = orig })
}

func noExit(t *testing.T) func(int) {
	return func(code int) { t.Fatalf("unexpected exit(%d)", code) }
}

func TestRun_ConfigPython(t *testing.T) {
	dir := t.TempDir()
	useConfigDir(t, dir)

	err := os.WriteFile(filepath.Join(dir, configYAML),
		[]byte("python: wrapsetup-no-such-python\nsearch-path: ["+dir+"]\n"), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	err = Run(context.Background(), noExit(t), "testdata/setup.py", "build")
	if !errors.Is(err, runner.ErrInterpreterNotFound) {
		t.Fatalf("Run() error = %v, want %v", err, runner.ErrInterpreterNotFound)
	}

	if !strings.Contains(errorLog(err), "wrapsetup-no-such-python") {
		t.Errorf("Run() error %v does not name the configured interpreter", err)
	}
}

func TestRun_FlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	useConfigDir(t, dir)

	err := os.WriteFile(filepath.Join(dir, configYAML), []byte("python: from-config\n"), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	err = Run(context.Background(), noExit(t),
		"--python=from-flag", "--search-path="+dir, "run", "testdata/setup.py")
	if !errors.Is(err, runner.ErrInterpreterNotFound) {
		t.Fatalf("Run() error = %v, want %v", err, runner.ErrInterpreterNotFound)
	}

	if log := errorLog(err); !strings.Contains(log, "from-flag") || strings.Contains(log, "from-config") {
		t.Errorf("Run() error %s, want interpreter from flag", log)
	}
}

func TestRun_Init(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "wrapsetup")
	useConfigDir(t, dir)

	if err := Run(context.Background(), noExit(t), "--python=python3.12", "init"); err != nil {
		t.Fatalf("Run(init) error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, configYAML))
	if err != nil {
		t.Fatal(err)
	}

	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}

	if m["python"] != "python3.12" || m["log-level"] != "info" {
		t.Errorf("init wrote %v", m)
	}

	err = Run(context.Background(), noExit(t), "init")
	if !errors.Is(err, cmd.ErrFileExists) {
		t.Errorf("Run(init) again error = %v, want %v", err, cmd.ErrFileExists)
	}
}

// captureLog sends plain text log output to the returned buffer for the
// duration of t.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	log.Config(log.WithOutput(&buf), log.WithFormat(log.FormatText), log.WithPretty(false))
	t.Cleanup(func() { log.Config(log.WithDefaults(os.Stderr)) })

	return &buf
}

func TestExitStatus_LogsAttributes(t *testing.T) {
	dir := t.TempDir()
	useConfigDir(t, dir)

	path := filepath.Join(dir, "setup.py")

	err := os.WriteFile(path, []byte("import setuptools\nsetuptools.setup(version='1')\n"), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	runErr := Run(context.Background(), noExit(t), "--log-level=info", path)
	if runErr == nil {
		t.Fatal("Run() succeeded without a setup call")
	}

	buf := captureLog(t)

	if code := ExitStatus(runErr); code != 1 {
		t.Errorf("ExitStatus() = %d, want 1", code)
	}

	out := buf.String()
	for _, want := range []string{"run failed", "candidates=", "setuptools.setup:2:1", "file=" + path} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestExitStatus_ScriptFailure(t *testing.T) {
	buf := captureLog(t)

	if code := ExitStatus(nil); code != 0 {
		t.Errorf("ExitStatus(nil) = %d, want 0", code)
	}

	if code := ExitStatus(&runner.ExitError{Code: 7}); code != 7 {
		t.Errorf("ExitStatus(exit 7) = %d, want 7", code)
	}

	if strings.Contains(buf.String(), "run failed") {
		t.Errorf("script failure was logged as a tool error:\n%s", buf.String())
	}
}

// errorLog renders err with its structured attributes.
func errorLog(err error) string {
	var e interface{ LogValue() slog.Value }
	if errors.As(err, &e) {
		return e.LogValue().String()
	}

	return err.Error()
}
