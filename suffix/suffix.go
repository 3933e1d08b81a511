// Package suffix derives the distribution version used for a build from the
// version declared in the build script and an optional build identifier
// taken from the environment.
//
// Without a build identifier the result is a development release
// ("1.0.7" becomes "1.0.7.dev0"). With one it is a post release
// ("1.0.7" with BUILD_NUMBER=19 becomes "1.0.7.post19"). The identifier is
// used verbatim.
package suffix

import (
	"os"
	"strconv"
	"strings"
)

// LookupFunc reports the value of an environment variable and whether it is
// set, like [os.LookupEnv].
type LookupFunc func(key string) (string, bool)

// Calculator holds the suffix rule.
type Calculator struct {
	// Variable names the environment variable holding the build identifier.
	Variable string
	// DevMarker is appended when the build identifier is absent.
	DevMarker string
	// PostMarker precedes the build identifier when it is present.
	PostMarker string
}

// Default is the rule applied by wrapsetup.
var Default = Calculator{
	Variable:   "BUILD_NUMBER",
	DevMarker:  ".dev0",
	PostMarker: ".post",
}

// Apply returns base with the suffix selected by the build identifier that
// lookup reports. A nil lookup means no identifier.
//
// A variable that is set to the empty string is present: the result ends in
// PostMarker with nothing after it.
func (c Calculator) Apply(base string, lookup LookupFunc) string {
	if lookup != nil {
		if build, ok := lookup(c.Variable); ok {
			return base + c.PostMarker + build
		}
	}

	return base + c.DevMarker
}

// Suffix applies [Default] using the process environment at call time.
func Suffix(base string) string {
	return Default.Apply(base, os.LookupEnv)
}

// MapLookup returns a LookupFunc over a fixed set of variables.
func MapLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]

		return v, ok
	}
}

// Binding returns the source of a Python function named name that applies
// the same rule as [Calculator.Apply], reading the environment each time it
// is called.
func (c Calculator) Binding(name string) string {
	var sb strings.Builder

	sb.WriteString("def " + name + "(version):\n")
	sb.WriteString("    import os\n")
	sb.WriteString("    build = os.environ.get(" + pyQuote(c.Variable) + ")\n")
	sb.WriteString("    if build is None:\n")
	sb.WriteString("        return version + " + pyQuote(c.DevMarker) + "\n")
	sb.WriteString("    return version + " + pyQuote(c.PostMarker) + " + build\n")

	return sb.String()
}

// pyQuote renders s as a Python string literal. Go's double-quoted escapes
// for printable ASCII, \n, \t, \\, \" and \xNN/\uNNNN are valid Python.
func pyQuote(s string) string {
	return strconv.QuoteToASCII(s)
}
