// Package activity keeps the append-only session log: one timestamped line
// per notable action, with a blank line opening each process run.
package activity

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// DefaultPath is the log file used when none is configured.
const DefaultPath = "toggl_cli_logs.txt"

// Log writes activity lines to w. Write failures are reported through the
// diagnostic logger and otherwise ignored.
type Log struct {
	mu  sync.Mutex
	w   io.Writer
	log *slog.Logger
	now func() time.Time
}

func New(w io.Writer, log *slog.Logger) *Log {
	return &Log{w: w, log: log, now: time.Now}
}

// Begin marks the start of a session with a blank line.
func (l *Log) Begin() {
	l.write("\n")
}

// Record appends "[YYYY-MM-DD HH:MM:SS] (kind): message". An empty kind
// leaves out the parenthesised prefix.
func (l *Log) Record(kind, message string) {
	ts := l.now().Format("2006-01-02 15:04:05")
	if kind == "" {
		l.write(fmt.Sprintf("[%s] %s\n", ts, message))
		return
	}
	l.write(fmt.Sprintf("[%s] (%s): %s\n", ts, kind, message))
}

func (l *Log) write(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := io.WriteString(l.w, s); err != nil {
		l.log.Warn("could not write to activity log", slog.String("error", err.Error()))
	}
}

// AppendFile is an io.Writer that opens path in append mode for every write,
// so the log survives the file being rotated or removed between writes.
type AppendFile string

func (p AppendFile) Write(b []byte) (int, error) {
	f, err := os.OpenFile(string(p), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, err
	}
	n, err := f.Write(b)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}
