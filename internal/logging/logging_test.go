package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelWarn, true},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseLevel(%q) err = %v", tc.in, err)
		}
		if !tc.wantErr && got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFanoutWritesTerminalAndFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "peano.log")
	lg, err := New(Options{Level: slog.LevelInfo, Writer: &buf, File: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	lg.Debug("hidden")
	lg.Info("checked", "file", "a.peano")
	if err := lg.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("debug record leaked at info level: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "file=a.peano") {
		t.Errorf("terminal output = %q", buf.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"file":"a.peano"`) {
		t.Errorf("json output = %q", data)
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	lg, err := New(Options{Level: slog.LevelError, Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	lg.Info("before")
	lg.SetLevel(slog.LevelDebug)
	lg.Debug("after")
	out := buf.String()
	if strings.Contains(out, "before") || !strings.Contains(out, "after") {
		t.Errorf("output = %q", out)
	}
}

func TestContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext returned nil without a logger")
	}
	var buf bytes.Buffer
	lg := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := WithLogger(context.Background(), lg)
	FromContext(ctx).Info("through context")
	if !strings.Contains(buf.String(), "through context") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestJournalKey(t *testing.T) {
	if got := journalKey("phase.ms"); got != "PHASE_MS" {
		t.Errorf("journalKey = %q", got)
	}
}
