package runner

import (
	"io"
	"os"

	"github.com/ardnew/wrapsetup/suffix"
)

// VersionBinding is the reserved name under which the suffix function is
// visible to the patched script.
const VersionBinding = "__wrapsetup_version__"

// Binding is a function injected into the script's namespace before it
// runs. Source is the definition of Name in the script's language.
type Binding struct {
	Name   string
	Source string
}

// SuffixBinding returns the binding of the suffix rule c under
// [VersionBinding].
func SuffixBinding(c suffix.Calculator) Binding {
	return Binding{Name: VersionBinding, Source: c.Binding(VersionBinding)}
}

// Context is everything the patched script runs with besides its source.
type Context struct {
	// Args become sys.argv[1:] of the script.
	Args []string
	// Bindings are defined in the script's namespace, in order.
	Bindings []Binding
	// Env is the child environment as "KEY=value" entries. Nil means the
	// environment of the current process.
	Env []string
	// Dir is the working directory of the child. Empty means the current
	// directory.
	Dir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// MakeContext returns a Context that passes args to the script, binds the
// default suffix rule, and inherits the standard streams.
func MakeContext(args ...string) Context {
	return Context{
		Args:     args,
		Bindings: []Binding{SuffixBinding(suffix.Default)},
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
}
