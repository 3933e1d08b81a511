package log

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handlers. Styles are bound to
// a renderer created for the destination writer, so color is dropped
// automatically when the writer is not a terminal.
type palette struct {
	key, str, num, boolTrue, boolFalse, dur, time lipgloss.Style
	level                                         map[slog.Level]lipgloss.Style
}

func makePalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return palette{
		key:       fg("8"),
		str:       fg("6"),
		num:       fg("3"),
		boolTrue:  fg("2"),
		boolFalse: fg("1"),
		dur:       fg("5"),
		time:      fg("4"),
		level: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): fg("8"),
			slog.LevelDebug:        fg("4"),
			slog.LevelInfo:         fg("2"),
			slog.LevelWarn:         fg("3").Bold(true),
			slog.LevelError:        fg("1").Bold(true),
		},
	}
}

func (p palette) forLevel(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.level[slog.LevelError]
	case l >= slog.LevelWarn:
		return p.level[slog.LevelWarn]
	case l >= slog.LevelInfo:
		return p.level[slog.LevelInfo]
	case l >= slog.LevelDebug:
		return p.level[slog.LevelDebug]
	default:
		return p.level[slog.Level(LevelTrace)]
	}
}

// prettyTextHandler writes colorized key=value records without quoting.
type prettyTextHandler struct {
	opts   *slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	style  palette
	preset string // attributes added with WithAttrs, already rendered
	group  string // dotted prefix from WithGroup
}

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *prettyTextHandler {
	return &prettyTextHandler{
		opts:  opts,
		mu:    &sync.Mutex{},
		w:     w,
		style: makePalette(w),
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	builtin := func(a slog.Attr) {
		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if a.Key == "" {
			return
		}

		if a.Key == slog.LevelKey {
			h.writeKey(&buf, a.Key)
			buf.WriteString(h.style.forLevel(r.Level).Render(a.Value.String()))

			return
		}

		h.writeAttr(&buf, "", a)
	}

	if !r.Time.IsZero() {
		builtin(slog.Time(slog.TimeKey, r.Time))
	}

	builtin(slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			builtin(slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	builtin(slog.String(slog.MessageKey, r.Message))

	if h.preset != "" {
		buf.WriteString(h.preset)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&buf, h.group, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var buf bytes.Buffer

	buf.WriteString(h.preset)

	for _, a := range attrs {
		h.writeAttr(&buf, h.group, a)
	}

	c := *h
	c.preset = buf.String()

	return &c
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.group = h.group + name + "."

	return &c
}

func (h *prettyTextHandler) writeKey(buf *bytes.Buffer, key string) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(h.style.key.Render(key))
	buf.WriteByte('=')
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		sub := prefix
		if a.Key != "" {
			sub += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			h.writeAttr(buf, sub, g)
		}

		return
	}

	h.writeKey(buf, prefix+a.Key)
	h.writeValue(buf, a.Value)
}

func (h *prettyTextHandler) writeValue(buf *bytes.Buffer, v slog.Value) {
	var (
		s     string
		style = h.style.str
	)

	switch v.Kind() {
	case slog.KindInt64:
		s, style = strconv.FormatInt(v.Int64(), 10), h.style.num
	case slog.KindUint64:
		s, style = strconv.FormatUint(v.Uint64(), 10), h.style.num
	case slog.KindFloat64:
		s, style = strconv.FormatFloat(v.Float64(), 'g', -1, 64), h.style.num
	case slog.KindBool:
		s, style = strconv.FormatBool(v.Bool()), h.style.boolFalse
		if v.Bool() {
			style = h.style.boolTrue
		}
	case slog.KindDuration:
		s, style = v.Duration().String(), h.style.dur
	case slog.KindTime:
		s, style = v.Time().String(), h.style.time
	default:
		s = v.String()
		if strings.ContainsAny(s, " \t\n\"") {
			s = strconv.Quote(s)
		}
	}

	buf.WriteString(style.Render(s))
}

// prettyJSONHandler renders each record with the standard JSON handler and
// re-indents it, styling object keys.
type prettyJSONHandler struct {
	opts   *slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	style  palette
	derive []func(slog.Handler) slog.Handler
}

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *prettyJSONHandler {
	return &prettyJSONHandler{
		opts:  opts,
		mu:    &sync.Mutex{},
		w:     w,
		style: makePalette(w),
	}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

var jsonKey = regexp.MustCompile(`(?m)^(\s*)("(?:[^"\\]|\\.)*")(: )`)

func (h *prettyJSONHandler) Handle(ctx context.Context, r slog.Record) error {
	var raw, out bytes.Buffer

	var inner slog.Handler = slog.NewJSONHandler(&raw, h.opts)
	for _, d := range h.derive {
		inner = d(inner)
	}

	if err := inner.Handle(ctx, r); err != nil {
		return err
	}

	if err := json.Indent(&out, bytes.TrimSpace(raw.Bytes()), "", "  "); err != nil {
		return err
	}

	text := jsonKey.ReplaceAllStringFunc(out.String(), func(m string) string {
		sub := jsonKey.FindStringSubmatch(m)

		return sub[1] + h.style.key.Render(sub[2]) + sub[3]
	})

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.w, text+"\n")

	return err
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.extend(func(s slog.Handler) slog.Handler { return s.WithAttrs(attrs) })
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return h.extend(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (h *prettyJSONHandler) extend(fn func(slog.Handler) slog.Handler) slog.Handler {
	c := *h
	c.derive = append(h.derive[:len(h.derive):len(h.derive)], fn)

	return &c
}
