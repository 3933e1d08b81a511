// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured once, at creation, with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with some options overridden and
// [Logger.With] derives a logger carrying persistent attributes.
//
// Attributes are always typed [slog.Attr] values. Error types that implement
// [slog.LogValuer] are expanded into groups when logged with [slog.Any].
//
// # Levels
//
// [LevelTrace] sits below [slog.LevelDebug] and is rendered as "TRACE"
// rather than "DEBUG-4".
//
// # Default logger
//
// Package-level functions ([Info], [DebugContext], ...) write through a
// default logger that targets standard error, leaving standard output to
// whatever program wrapsetup runs. [Config] reconfigures it.
//
// # Pretty output
//
// With [WithPretty] enabled, text records are colorized and JSON records are
// indented. Colors are chosen by [github.com/charmbracelet/lipgloss] against
// the destination writer, so output to files and pipes stays plain.
package log
