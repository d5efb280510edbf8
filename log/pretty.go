package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used to color pretty output. Styles are bound to
// a renderer for the handler's writer, so colors are dropped automatically
// when the output is not a terminal.
type palette struct {
	key      lipgloss.Style
	str      lipgloss.Style
	number   lipgloss.Style
	truth    lipgloss.Style
	falsity  lipgloss.Style
	duration lipgloss.Style
	time     lipgloss.Style
	null     lipgloss.Style
	levels   [4]lipgloss.Style // error, warn, info, debug and below
}

func makePalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:      fg("8"),
		str:      fg("6"),
		number:   fg("3"),
		truth:    fg("2"),
		falsity:  fg("1"),
		duration: fg("5"),
		time:     fg("4"),
		null:     fg("8"),
		levels: [4]lipgloss.Style{
			fg("1"),
			fg("3"),
			fg("2"),
			fg("4"),
		},
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.levels[0]
	case l >= slog.LevelWarn:
		return p.levels[1]
	case l >= slog.LevelInfo:
		return p.levels[2]
	default:
		return p.levels[3]
	}
}

// prettyBase holds the state shared by both pretty handlers.
type prettyBase struct {
	opts   slog.HandlerOptions
	style  palette
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr // qualified with groups at the time they were added
	groups []string
}

func makePrettyBase(w io.Writer, opts *slog.HandlerOptions) prettyBase {
	return prettyBase{
		opts:  *opts,
		style: makePalette(w),
		mu:    &sync.Mutex{},
		w:     w,
	}
}

func (b *prettyBase) Enabled(_ context.Context, level slog.Level) bool {
	return level >= b.opts.Level.Level()
}

// withAttrs returns a copy of b carrying attrs under the current groups.
func (b prettyBase) withAttrs(attrs []slog.Attr) prettyBase {
	b.attrs = slices.Clip(b.attrs)

	for _, a := range attrs {
		b.attrs = append(b.attrs, b.qualify(a))
	}

	return b
}

func (b prettyBase) withGroup(name string) prettyBase {
	if name != "" {
		b.groups = append(slices.Clip(b.groups), name)
	}

	return b
}

// qualify prefixes the key of a with the open groups.
func (b prettyBase) qualify(a slog.Attr) slog.Attr {
	if len(b.groups) > 0 {
		a.Key = strings.Join(b.groups, ".") + "." + a.Key
	}

	return a
}

// builtins returns the time, level, and source attributes of r after
// ReplaceAttr, with empty attributes removed.
func (b *prettyBase) builtins(r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, 3)

	if !r.Time.IsZero() {
		attrs = append(attrs, slog.Time(slog.TimeKey, r.Time))
	}

	attrs = append(attrs, slog.Any(slog.LevelKey, r.Level))

	if b.opts.AddSource {
		if src := r.Source(); src != nil {
			attrs = append(attrs, slog.String(slog.SourceKey,
				fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	out := attrs[:0]

	for _, a := range attrs {
		if b.opts.ReplaceAttr != nil {
			a = b.opts.ReplaceAttr(nil, a)
		}

		if a.Key != "" {
			out = append(out, a)
		}
	}

	return out
}

// record returns every attribute of r in output order: builtins, message,
// attributes from WithAttrs, then the record's own.
func (b *prettyBase) record(r slog.Record) []slog.Attr {
	attrs := b.builtins(r)
	attrs = append(attrs, slog.String(slog.MessageKey, r.Message))
	attrs = append(attrs, b.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, b.qualify(a))

		return true
	})

	return attrs
}

func (b *prettyBase) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler writes one colorized key=value line per record.
type prettyTextHandler struct {
	prettyBase
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{prettyBase: makePrettyBase(w, opts)}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range h.record(r) {
		h.writeAttr(buf, a.Key, a.Value, r.Level)
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{prettyBase: h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{prettyBase: h.withGroup(name)}
}

func (h *prettyTextHandler) writeAttr(
	buf *bytes.Buffer,
	key string,
	v slog.Value,
	level slog.Level,
) {
	v = v.Resolve()

	// Groups are flattened into dotted keys.
	if v.Kind() == slog.KindGroup {
		for _, a := range v.Group() {
			h.writeAttr(buf, key+"."+a.Key, a.Value, level)
		}

		return
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(h.style.key.Render(key))
	buf.WriteByte('=')

	if key == slog.LevelKey {
		buf.WriteString(h.style.level(level).Render(v.String()))

		return
	}

	buf.WriteString(h.renderValue(v))
}

func (h *prettyTextHandler) renderValue(v slog.Value) string {
	s := h.style

	switch v.Kind() {
	case slog.KindInt64:
		return s.number.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return s.number.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return s.number.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return s.truth.Render("true")
		}

		return s.falsity.Render("false")

	case slog.KindDuration:
		return s.duration.Render(v.Duration().String())

	case slog.KindTime:
		return s.time.Render(v.Time().String())

	default:
		return s.str.Render(v.String())
	}
}

// prettyJSONHandler writes each record as an indented, colorized object.
type prettyJSONHandler struct {
	prettyBase
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{prettyBase: makePrettyBase(w, opts)}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	h.writeObject(buf, h.record(r), r.Level, 1)

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{prettyBase: h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{prettyBase: h.withGroup(name)}
}

func (h *prettyJSONHandler) writeObject(
	buf *bytes.Buffer,
	attrs []slog.Attr,
	level slog.Level,
	depth int,
) {
	indent := strings.Repeat("  ", depth)

	buf.WriteString("{\n")

	for i, a := range attrs {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString(indent)
		buf.WriteString(h.style.key.Render(strconv.Quote(a.Key)))
		buf.WriteString(": ")

		v := a.Value.Resolve()

		switch {
		case v.Kind() == slog.KindGroup:
			h.writeObject(buf, v.Group(), level, depth+1)

		case a.Key == slog.LevelKey && depth == 1:
			buf.WriteString(h.style.level(level).Render(strconv.Quote(v.String())))

		default:
			buf.WriteString(h.renderValue(v))
		}
	}

	buf.WriteString("\n")
	buf.WriteString(strings.Repeat("  ", depth-1))
	buf.WriteString("}")
}

func (h *prettyJSONHandler) renderValue(v slog.Value) string {
	s := h.style

	switch v.Kind() {
	case slog.KindInt64:
		return s.number.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return s.number.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return s.number.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return s.truth.Render("true")
		}

		return s.falsity.Render("false")

	case slog.KindDuration:
		return s.duration.Render(strconv.Quote(v.Duration().String()))

	case slog.KindTime:
		return s.time.Render(strconv.Quote(v.Time().Format("2006-01-02T15:04:05Z07:00")))

	case slog.KindAny:
		if v.Any() == nil {
			return s.null.Render("null")
		}

		return s.str.Render(strconv.Quote(v.String()))

	default:
		return s.str.Render(strconv.Quote(v.String()))
	}
}
