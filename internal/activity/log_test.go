package activity

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedLog(w io.Writer) *Log {
	l := New(w, slog.New(slog.NewTextHandler(io.Discard, nil)))
	l.now = func() time.Time { return time.Date(2025, 8, 1, 9, 30, 0, 0, time.UTC) }
	return l
}

func TestLog_BeginAndRecord(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLog(&buf)

	l.Begin()
	l.Record("Start", "Dev work → Acme")
	l.Record("", "plain line")

	want := "\n[2025-08-01 09:30:00] (Start): Dev work → Acme\n[2025-08-01 09:30:00] plain line\n"
	if buf.String() != want {
		t.Fatalf("unexpected log output:\n%q\nwant\n%q", buf.String(), want)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestLog_WriteFailureIsSwallowed(t *testing.T) {
	var diag bytes.Buffer
	l := New(failingWriter{}, slog.New(slog.NewTextHandler(&diag, nil)))
	l.Record("Stop", "x")
	if !strings.Contains(diag.String(), "disk full") {
		t.Fatalf("expected diagnostic warning, got %q", diag.String())
	}
}

func TestAppendFile_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	l := fixedLog(AppendFile(path))
	l.Begin()
	l.Record("Login", "Logged in as a@b.c")
	l.Begin()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(string(b), "\n")
	if len(lines) != 4 || lines[0] != "" || lines[2] != "" {
		t.Fatalf("unexpected file contents %q", b)
	}
}
