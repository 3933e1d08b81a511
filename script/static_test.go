package script

import (
	"errors"
	"testing"
)

func TestStaticVersion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"literal", `setup(version="1.0.7")`, "1.0.7"},
		{"single quotes", `setup(version='1.0.7')`, "1.0.7"},
		{"implicit concatenation", `setup(version="1.0" ".7")`, "1.0.7"},
		{"plus and parens", `setup(version=("1" + ".0") + '.7')`, "1.0.7"},
		{"triple quoted", `setup(version="""1.0""")`, "1.0"},
		{"raw", `setup(version=r"1\d")`, `1\d`},
		{"escapes", `setup(version="café\x21\101\q")`, `café!A\q`},
		{"name", "V = '2.1'\nsetup(version=V)", "2.1"},
		{"annotated name", "V: str = '2.1'\nsetup(version=V + '.3')", "2.1.3"},
		{"chain of names", "A = '1'\nB = A + '.2'\nsetup(version=B)", "1.2"},
		{"later binding wins", "V = '1'\nV = '2'\nsetup(version=V)", "2"},
		{"expr keyword as name", "nil = '1'\nsetup(version=nil)", "1"},
		{"fixture", "", "1.0.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			if input == "" {
				input = fixture(t)
			}

			got, err := mustParse(t, input+"\n").StaticVersion()
			if err != nil {
				t.Fatalf("static version error: %v", err)
			}

			if got != tt.want {
				t.Errorf("version = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStaticVersion_NotStatic(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"call", "setup(version=compute())"},
		{"number", "setup(version=1.0)"},
		{"unbound name", "setup(version=V)"},
		{"bound after setup", "setup(version=V)\nV = '1'"},
		{"rebound to non-static", "V = '1'\nV = compute()\nsetup(version=V)"},
		{"bytes", "setup(version=b'1')"},
		{"formatted", "V = '1'\nsetup(version=f'{V}')"},
		{"attribute", "setup(version=pkg.__version__)"},
		{"named escape", `setup(version="\N{BULLET}")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mustParse(t, tt.input+"\n").StaticVersion()
			if !errors.Is(err, ErrNotStatic) {
				t.Errorf("error = %v, want %v", err, ErrNotStatic)
			}
		})
	}
}

func TestStaticVersion_TargetErrors(t *testing.T) {
	if _, err := mustParse(t, "x = 1\n").StaticVersion(); !errors.Is(err, ErrTargetNotFound) {
		t.Errorf("error = %v", err)
	}

	if _, err := mustParse(t, "setup(name='x')\n").StaticVersion(); !errors.Is(err, ErrArgumentNotFound) {
		t.Errorf("error = %v", err)
	}
}
