package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLogLine(t *testing.T) {
	e := parseLogLine(`2026/10/19 10:00:00 [WARN][lint] (json-error)\nJson error: a.json:1:5: expected number but got '"'`)
	if e == nil {
		t.Fatalf("parseLogLine returned nil")
	}
	if e.Level != "WARN" || e.Category != "lint" || !strings.HasPrefix(e.Message, `(json-error)\n`) {
		t.Errorf("unexpected entry: %+v", e)
	}
	if parseLogLine("not a log line") != nil {
		t.Errorf("expected nil for unparsable line")
	}
}

func TestUnescapeMessage(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`plain`, "plain"},
		{`a\nb`, "a\nb"},
		{`tab\there`, "tab\there"},
		{`back\\slash\\n`, `back\slash\n`},
		{`trailing\`, `trailing\`},
	}
	for _, tt := range tests {
		if got := unescapeMessage(tt.in); got != tt.want {
			t.Errorf("unescapeMessage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReadLogFrom(t *testing.T) {
	input := strings.Join([]string{
		"2026/10/19 10:00:00 [INFO][log] log inited",
		"2026/10/19 10:00:01 [DEBUG][gorm] select 1",
		"",
		"garbage",
		`2026/10/19 10:00:02 [WARN][lint] (json-error)\nJson error: a.json:1:5: bad`,
	}, "\n")

	var out bytes.Buffer
	opts := Options{MinLevel: "INFO", NoColor: true, Expand: true}
	n, err := readLogFrom(strings.NewReader(input), &out, opts, 0)
	if err != nil || n != 5 {
		t.Fatalf("readLogFrom = %d, %v", n, err)
	}
	want := "2026/10/19 10:00:00 [INFO] [log] log inited\n" +
		"[LINE 4] unparsable: garbage\n" +
		"2026/10/19 10:00:02 [WARN] [lint] (json-error)\nJson error: a.json:1:5: bad\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}

	// 只读新增的行，并按模块过滤
	out.Reset()
	opts = Options{MinLevel: "DEBUG", Module: "gorm", NoColor: true}
	if _, err := readLogFrom(strings.NewReader(input), &out, opts, 1); err != nil {
		t.Fatalf("readLogFrom error: %v", err)
	}
	if out.String() != "2026/10/19 10:00:01 [DEBUG] [gorm] select 1\n[LINE 4] unparsable: garbage\n" {
		t.Errorf("module filter output = %q", out.String())
	}
}
