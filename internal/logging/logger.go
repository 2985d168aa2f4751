package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

type prettyHandler struct {
	out    io.Writer
	level  slog.Leveler
	source bool
	color  bool

	// pre-rendered " key=value" pairs from WithAttrs
	attrs  string
	prefix string
}

func NewPrettyHandler(out io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if out == nil {
		out = os.Stderr
	}
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	_, noColor := os.LookupEnv("NO_COLOR")
	return &prettyHandler{
		out:    out,
		level:  opts.Level,
		source: opts.AddSource,
		color:  !noColor,
	}
}

// Init installs the pretty handler on stderr as the default logger. Stdout
// is left for command results.
func Init(levelName string) *slog.Logger {
	logger := slog.New(NewPrettyHandler(os.Stderr, &slog.HandlerOptions{
		Level:     ParseLevel(levelName),
		AddSource: true,
	}))
	slog.SetDefault(logger)
	return logger
}

func (h *prettyHandler) Enabled(_ context.Context, lvl slog.Level) bool {
	if h.level == nil {
		return true
	}
	return lvl >= h.level.Level()
}

func (h *prettyHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.Enabled(ctx, r.Level) {
		return nil
	}

	var buf bytes.Buffer

	// time: fixed layout, always same width
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	fmt.Fprintf(&buf, "%s ", ts.Format("2006-01-02 15:04:05.000"))

	// level: 5 chars, colorized, then single space
	if h.color {
		fmt.Fprintf(&buf, "%s%-5s%s ", colorForLevel(r.Level), levelToUpper(r.Level), "\033[0m")
	} else {
		fmt.Fprintf(&buf, "%-5s ", levelToUpper(r.Level))
	}

	// file:line, padded to a fixed width
	if h.source {
		if file, line := resolveCaller(r.PC); file != "" {
			loc := fmt.Sprintf("%s:%d", filepath.Base(file), line)
			fmt.Fprintf(&buf, "%-25s ", loc)
		}
	}

	buf.WriteString(r.Message)
	buf.WriteString(h.attrs)

	var errVal error
	r.Attrs(func(a slog.Attr) bool {
		if e, ok := a.Value.Any().(error); ok && a.Key == "error" {
			errVal = e
		}
		writeAttr(&buf, h.prefix, a)
		return true
	})

	buf.WriteByte('\n')

	// stack only for errors logged at ERROR
	if errVal != nil && r.Level >= slog.LevelError {
		fmt.Fprintf(&buf, "ERROR: %v\n", errVal)
		buf.Write(debug.Stack())
		buf.WriteByte('\n')
	}

	_, err := h.out.Write(buf.Bytes())
	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var buf bytes.Buffer
	buf.WriteString(h.attrs)
	for _, a := range attrs {
		writeAttr(&buf, h.prefix, a)
	}
	next := *h
	next.attrs = buf.String()
	return &next
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			writeAttr(buf, p, ga)
		}
		return
	}
	fmt.Fprintf(buf, " %s%s=%v", prefix, a.Key, a.Value.Any())
}

func levelToUpper(l slog.Level) string {
	switch {
	case l <= slog.LevelDebug:
		return "DEBUG"
	case l < slog.LevelWarn:
		return "INFO"
	case l < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(l string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func colorForLevel(l slog.Level) string {
	switch {
	case l <= slog.LevelDebug:
		return "\033[36m" // cyan
	case l < slog.LevelWarn:
		return "\033[32m" // green
	case l < slog.LevelError:
		return "\033[33m" // yellow
	default:
		return "\033[31m" // red
	}
}

func resolveCaller(pc uintptr) (string, int) {
	if pc == 0 {
		return "", 0
	}
	frames := runtime.CallersFrames([]uintptr{pc})
	f, _ := frames.Next()
	return f.File, f.Line
}
