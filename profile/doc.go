// Package profile provides optional runtime profiling for wrapsetup.
//
// Profiling wraps [github.com/pkg/profile] and is compiled in only when the
// binary is built with the "pprof" build tag:
//
//	go build -tags pprof -o wrapsetup .
//
// Without the tag, [Modes] is empty and [Config.Start] returns a no-op
// stopper, so callers never need to check the build configuration.
//
// Profiles are written to the configured directory with names matching the
// profiling mode (cpu.pprof, mem.pprof, ...). Profiling covers only the
// wrapper process: parsing, patching, and waiting on the interpreter. The
// wrapped build script runs in a child process and is not profiled.
//
//	wrapsetup --pprof-mode=cpu --pprof-dir=/tmp/prof setup.py bdist_wheel
//	go tool pprof -http=: /tmp/prof/cpu.pprof
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
