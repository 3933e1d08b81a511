package cli

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
		want config
	}{
		{
			name: "hyphen_and_underscore",
			yaml: "log-level: debug\nlog_pretty: false\npython: python3.12\n",
			want: config{"log-level": "debug", "log_pretty": false, "python": "python3.12"},
		},
		{
			name: "numbers_become_strings",
			yaml: "count: 5\nratio: 0.5\n",
			want: config{"count": "5", "ratio": "0.5"},
		},
		{
			name: "lists",
			yaml: "search-path:\n  - /opt/bin\n  - /usr/local/bin\n",
			want: config{"search-path": []any{"/opt/bin", "/usr/local/bin"}},
		},
		{
			name: "empty",
			yaml: "",
			want: config{},
		},
		{
			name: "not_a_mapping",
			yaml: "- a\n- b\n",
			want: config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := resolve(context.Background())(strings.NewReader(tt.yaml))
			if err != nil {
				t.Fatalf("resolve() error = %v", err)
			}

			if got := r.(config); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("resolve() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestConfigResolve(t *testing.T) {
	t.Parallel()

	c := config{"log_level": "debug", "python": "python3"}

	tests := []struct {
		flag string
		want any
	}{
		{flag: "log-level", want: "debug"},
		{flag: "python", want: "python3"},
		{flag: "env-file", want: nil},
	}

	for _, tt := range tests {
		got, err := c.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: tt.flag}})
		if err != nil {
			t.Fatalf("Resolve(%q) error = %v", tt.flag, err)
		}

		if got != tt.want {
			t.Errorf("Resolve(%q) = %v, want %v", tt.flag, got, tt.want)
		}
	}
}
