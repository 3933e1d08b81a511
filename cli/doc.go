// Package cli contains the command line interface for wrapsetup.
//
// # Usage
//
// The default command patches and runs a build script, passing every
// argument after the script to it unchanged:
//
//	wrapsetup setup.py bdist_wheel
//	BUILD_NUMBER=42 wrapsetup --python=python3.12 setup.py sdist
//
// Other commands inspect a script without running it:
//
//	wrapsetup patch setup.py           # print the rewritten source
//	wrapsetup patch --report=yaml setup.py
//	wrapsetup version setup.py         # 1.2.0.dev0 (static versions only)
//	wrapsetup init                     # write current flags to config.yaml
//
// # Configuration
//
// Flag values are read from config.yaml (see [resolve]) and config.json in
// the user configuration directory, e.g. ~/.config/wrapsetup. Command-line
// flags take precedence.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// Logs go to stderr. The script's own output is never touched.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o wrapsetup .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/wrapsetup/pprof)
package cli
