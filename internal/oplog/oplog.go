// Package oplog appends one timestamped line per CLI operation to a log sink.
package oplog

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StderrPath selects the process error stream instead of a file.
const StderrPath = "-"

// Logger writes operation records. The zero value is not usable; a nil *Logger
// discards everything.
type Logger struct {
	out    *log.Logger
	closer io.Closer
	runID  string
	now    func() time.Time
}

// Open appends to the file at path, creating it and its parent directories.
func Open(path string) (*Logger, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("log path is required")
	}
	if path == StderrPath {
		return New(os.Stderr), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}
	l := New(f)
	l.closer = f
	return l, nil
}

// New writes to w with a fresh run id.
func New(w io.Writer) *Logger {
	return &Logger{
		out:   log.New(w, "", 0),
		runID: uuid.NewString(),
		now:   time.Now,
	}
}

// RunID identifies this invocation in every line.
func (l *Logger) RunID() string {
	if l == nil {
		return ""
	}
	return l.runID
}

// Record writes `<RFC3339 UTC> run=<id> op=<op> key=value...`. String values
// containing spaces or quotes are quoted; error values are quoted with any
// connection-string password masked.
func (l *Logger) Record(op string, kv ...any) {
	if l == nil {
		return
	}
	var b strings.Builder
	b.WriteString(l.now().UTC().Format(time.RFC3339))
	b.WriteString(" run=")
	b.WriteString(l.runID)
	b.WriteString(" op=")
	b.WriteString(op)
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		var val any = "(missing)"
		if i+1 < len(kv) {
			val = kv[i+1]
		}
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(formatValue(val))
	}
	l.out.Print(b.String())
}

func formatValue(v any) string {
	switch x := v.(type) {
	case error:
		msg, _ := RedactCredentials(x.Error())
		return fmt.Sprintf("%q", msg)
	case string:
		if x == "" || strings.ContainsAny(x, " \t\n\"=") {
			return fmt.Sprintf("%q", x)
		}
		return x
	default:
		return fmt.Sprint(x)
	}
}

func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
