package log

import (
	"bytes"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// syncBuffer 并发安全的缓冲区
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var testOut = &syncBuffer{}

func init() {
	LoadTo(testOut)
}

func TestLogger(t *testing.T) {
	l := New("test-module")
	l.Info("test info message")
	l.Debug("test debug %d", 42)
	l.Warn("line one\nline two")
	l.Error("test error message")

	out := testOut.String()
	for _, want := range []string{
		"[INFO][log] log inited",
		"[INFO][test-module] test info message",
		"[DEBUG][test-module] test debug 42",
		`[WARN][test-module] line one\nline two`,
		"[ERROR][test-module] test error message",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q\n%s", want, out)
		}
	}
}

func TestSanitizePath(t *testing.T) {
	if homeDir == "" {
		t.Skip("no home directory")
	}
	tests := []struct {
		input    string
		expected string
	}{
		{filepath.Join(homeDir, "mods", "a.json"), filepath.Join("~", "mods", "a.json")},
		{homeDir, "~"},
		{"/tmp/test", "/tmp/test"},
		{homeDir + "other", homeDir + "other"},
	}
	for _, tt := range tests {
		if got := SanitizePath(tt.input); got != tt.expected {
			t.Errorf("SanitizePath(%q) = %q; want %q", tt.input, got, tt.expected)
		}
	}

	msg := "failed to read " + filepath.Join(homeDir, "x.json")
	if got := Sanitize(msg); strings.Contains(got, homeDir+string(filepath.Separator)) {
		t.Errorf("Sanitize left home directory in %q", got)
	}
}
