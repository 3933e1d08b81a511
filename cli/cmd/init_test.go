package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, exists: true},
		{name: "fail_without_force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "wrapsetup", "config.yaml")

			if tt.exists {
				if err := os.MkdirAll(filepath.Dir(confPath), 0o700); err != nil {
					t.Fatal(err)
				}

				if err := os.WriteFile(confPath, []byte("existing: content\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			var out bytes.Buffer

			ctx := testContext(t, &out, kong.Vars{ConfigIdentifier: confPath})

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrWriteConfig) {
					t.Errorf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() error = %v", err)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var m map[string]any
			if err := yaml.Unmarshal(content, &m); err != nil {
				t.Errorf("generated config is not valid YAML: %v", err)
			}

			if _, ok := m["existing"]; ok {
				t.Error("Init.Run() kept previous content")
			}
		})
	}
}

func TestInitValues(t *testing.T) {
	t.Parallel()

	type level string

	var cli struct {
		Level   level    `default:"info"`
		Verbose bool     `help:"Enable verbose output"`
		Output  string   `help:"Output file"`
		Empty   string   `help:"Unset"`
		Count   int      `help:"Number of items"`
		Dirs    []string `help:"Directories"`
	}

	parser, err := kong.New(&cli)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse([]string{
		"--verbose", "--output=test.txt", "--count=5", "--dirs=a,b",
	})
	if err != nil {
		t.Fatal(err)
	}

	values := (&Init{}).values(WithContext(context.Background(), ktx))

	got := map[string]any{}
	for _, item := range values {
		got[item.Key.(string)] = item.Value
	}

	want := map[string]any{
		"level":   "info",
		"verbose": true,
		"output":  "test.txt",
		"count":   int64(5),
	}

	for k, v := range want {
		if got[k] != v {
			t.Errorf("values()[%q] = %#v, want %#v", k, got[k], v)
		}
	}

	if _, ok := got["empty"]; ok {
		t.Error("values() included an empty string flag")
	}

	if _, ok := got["help"]; ok {
		t.Error("values() included the help flag")
	}

	if dirs, ok := got["dirs"].([]string); !ok || len(dirs) != 2 {
		t.Errorf("values()[dirs] = %#v, want [a b]", got["dirs"])
	}
}
