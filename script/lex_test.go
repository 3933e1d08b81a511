package script

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

// render summarizes tokens as "KIND text" entries for comparison.
func render(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = strings.TrimSpace(tok.Kind.String() + " " + tok.Text)
	}

	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "assignment",
			input: "x = 1\n",
			want:  []string{"NAME x", "OP =", "NUMBER 1", "NEWLINE", "EOF"},
		},
		{
			name:  "missing final newline",
			input: "x",
			want:  []string{"NAME x", "NEWLINE", "EOF"},
		},
		{
			name:  "indented block",
			input: "if a:\n    b()\nc\n",
			want: []string{
				"NAME if", "NAME a", "OP :", "NEWLINE",
				"INDENT", "NAME b", "OP (", "OP )", "NEWLINE",
				"DEDENT", "NAME c", "NEWLINE", "EOF",
			},
		},
		{
			name:  "block closed at end of input",
			input: "def f():\n\treturn 1",
			want: []string{
				"NAME def", "NAME f", "OP (", "OP )", "OP :", "NEWLINE",
				"INDENT", "NAME return", "NUMBER 1", "NEWLINE", "DEDENT", "EOF",
			},
		},
		{
			name:  "newline inside brackets",
			input: "f(1,\n  2)\n",
			want: []string{
				"NAME f", "OP (", "NUMBER 1", "OP ,", "NUMBER 2", "OP )",
				"NEWLINE", "EOF",
			},
		},
		{
			name:  "explicit continuation",
			input: "x = 1 + \\\n    2\n",
			want: []string{
				"NAME x", "OP =", "NUMBER 1", "OP +", "NUMBER 2", "NEWLINE", "EOF",
			},
		},
		{
			name:  "comments and blank lines",
			input: "# c\n\n   # d\nx  # e\n\n",
			want:  []string{"NAME x", "NEWLINE", "EOF"},
		},
		{
			name:  "carriage returns",
			input: "x\r\ny\r\n",
			want:  []string{"NAME x", "NEWLINE", "NAME y", "NEWLINE", "EOF"},
		},
		{
			name:  "operators longest first",
			input: "a **= b // c != d := e -> f ...\n",
			want: []string{
				"NAME a", "OP **=", "NAME b", "OP //", "NAME c", "OP !=",
				"NAME d", "OP :=", "NAME e", "OP ->", "NAME f", "OP ...",
				"NEWLINE", "EOF",
			},
		},
		{
			name:  "numbers",
			input: "0x1F 1_000 3.14 1e-5 .5 2j\n",
			want: []string{
				"NUMBER 0x1F", "NUMBER 1_000", "NUMBER 3.14", "NUMBER 1e-5",
				"NUMBER .5", "NUMBER 2j", "NEWLINE", "EOF",
			},
		},
		{
			name:  "string prefixes",
			input: `r'\d' B"x" Rb'y' f"{v}" u'z' bar` + "\n",
			want: []string{
				`STRING r'\d'`, `STRING B"x"`, `STRING Rb'y'`, `STRING f"{v}"`,
				`STRING u'z'`, "NAME bar", "NEWLINE", "EOF",
			},
		},
		{
			name:  "escaped quotes",
			input: `'it\'s' "say \"hi\"" r'\''` + "\n",
			want: []string{
				`STRING 'it\'s'`, `STRING "say \"hi\""`, `STRING r'\''`,
				"NEWLINE", "EOF",
			},
		},
		{
			name:  "triple quoted across lines",
			input: "d = '''a\n'b'\n\"\"\"'''\nx\n",
			want: []string{
				"NAME d", "OP =", "STRING '''a\n'b'\n\"\"\"'''", "NEWLINE",
				"NAME x", "NEWLINE", "EOF",
			},
		},
		{
			name:  "escaped newline in string",
			input: "s = 'a\\\nb'\n",
			want:  []string{"NAME s", "OP =", "STRING 'a\\\nb'", "NEWLINE", "EOF"},
		},
		{
			name:  "unicode identifiers",
			input: "café = ñ\n",
			want:  []string{"NAME café", "OP =", "NAME ñ", "NEWLINE", "EOF"},
		},
		{
			name:  "byte order mark",
			input: "\ufeffx\n",
			want:  []string{"NAME x", "NEWLINE", "EOF"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize("setup.py", tt.input)
			if err != nil {
				t.Fatalf("tokenize error: %v", err)
			}

			if got := render(tokens); !slices.Equal(got, tt.want) {
				t.Errorf("tokens mismatch\n got: %q\nwant: %q", got, tt.want)
			}
		})
	}
}

func TestTokenize_Positions(t *testing.T) {
	tokens, err := Tokenize("setup.py", "a = 1\nx = \"é\" + y\n")
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}

	idx := slices.IndexFunc(tokens, func(tok Token) bool { return tok.Is("y") })
	if idx < 0 {
		t.Fatal("token y not found")
	}

	y := tokens[idx]
	want := Position{Offset: 17, Line: 2, Column: 11}

	if y.Pos != want {
		t.Errorf("y at %+v, want %+v", y.Pos, want)
	}

	if y.End.Offset != 18 || y.End.Column != 12 {
		t.Errorf("y ends at %+v", y.End)
	}

	str := tokens[idx-2]
	if str.Kind != String || str.Pos.Column != 5 || str.End.Column != 8 {
		t.Errorf("string token %v at %v..%v", str, str.Pos, str.End)
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		column int
		reason string
	}{
		{"unterminated string", "s = 'abc\n", 1, 5, "unterminated string literal"},
		{"unterminated triple", "x = 1\ns = \"\"\"abc", 2, 5, "unterminated triple-quoted string literal"},
		{"unclosed bracket", "f(1, 2\n", 1, 2, "'(' was never closed"},
		{"unmatched close", "x = )", 1, 5, "unmatched ')'"},
		{"mismatched close", "f(]", 1, 3, "closing parenthesis ']' does not match opening parenthesis '('"},
		{"unexpected indent", "x = 1\n  y = 2\n", 2, 3, "unexpected indent"},
		{"bad dedent", "if a:\n    b\n  c\n", 3, 3, "unindent does not match any outer indentation level"},
		{"null byte", "x = 1\x00", 1, 6, "source code cannot contain null bytes"},
		{"null byte in string", "x = 'a\x00'", 1, 7, "source code cannot contain null bytes"},
		{"invalid character", "x = $", 1, 5, "invalid character '$' (U+0024)"},
		{"bad continuation", "x = 1 \\ y", 1, 7, "unexpected character after line continuation character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize("setup.py", tt.input)
			if err == nil {
				t.Fatal("expected error")
			}

			if !errors.Is(err, ErrParse) {
				t.Errorf("error %v does not match ErrParse", err)
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not a *ParseError", err)
			}

			if pe.Pos.Line != tt.line || pe.Pos.Column != tt.column {
				t.Errorf("error at %d:%d, want %d:%d", pe.Pos.Line, pe.Pos.Column, tt.line, tt.column)
			}

			if pe.Reason != tt.reason {
				t.Errorf("reason %q, want %q", pe.Reason, tt.reason)
			}

			if pe.Filename != "setup.py" {
				t.Errorf("filename %q", pe.Filename)
			}
		})
	}
}
