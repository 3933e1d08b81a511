// Package runner executes a patched build script with a Python interpreter.
//
// The interpreter is started as a child process running a small bootstrap
// program. The bootstrap receives the original file name and the script's
// own arguments on its command line and the patched source as raw bytes on
// descriptor [SourceFD]. It defines the injected bindings, then compiles and
// executes the source so that the script
// observes the same sys.argv, sys.path, __name__ and __file__ it would if it
// had been run directly. The child inherits the standard streams, and its
// exit status is reported unchanged.
package runner
