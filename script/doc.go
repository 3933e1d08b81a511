// Package script reads a Python build script far enough to find the single
// top-level setup call and rewrite its version argument.
//
// The tokenizer understands the full lexical structure of the language
// (string literals, comments, line joining, indentation), so brackets and
// quotes inside strings or comments never confuse the statement structure.
// Expressions themselves are treated as opaque token spans: a rewrite wraps
// the original text of the version expression in a call without parsing it,
// and leaves every line of the script where it was.
package script
