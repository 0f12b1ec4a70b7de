package runtime

import (
	"bytes"
	"log/slog"
	"regexp"
	"strings"
)

// ansiRegex is a compiled regex for ANSI escape sequences
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// lineLogger is an io.Writer that emits each complete line as a debug log record.
type lineLogger struct {
	msg   string
	attrs []any
	buf   bytes.Buffer
}

func newLineLogger(msg string, attrs ...any) *lineLogger {
	return &lineLogger{msg: msg, attrs: attrs}
}

func (l *lineLogger) Write(p []byte) (int, error) {
	l.buf.Write(p)
	for {
		line, err := l.buf.ReadString('\n')
		if err != nil {
			// Partial line; keep it for the next write.
			l.buf.Reset()
			l.buf.WriteString(line)
			return len(p), nil
		}
		l.emit(line)
	}
}

// Flush logs any trailing partial line.
func (l *lineLogger) Flush() {
	if l.buf.Len() > 0 {
		l.emit(l.buf.String())
		l.buf.Reset()
	}
}

func (l *lineLogger) emit(line string) {
	if clean := cleanLogLine(line); clean != "" {
		slog.Debug(l.msg, append(l.attrs, "line", clean)...)
	}
}

// cleanLogLine removes ANSI escape sequences and control characters.
func cleanLogLine(line string) string {
	line = ansiRegex.ReplaceAllString(line, "")
	line = strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, line)
	return strings.TrimSpace(line)
}
