package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// run 执行命令并返回退出码与输出
func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const item = `{
  "id": "apple",
  "description": "Crisp. Sweet",
  "name": {"ctxt": "fruit"},
  "weight": 3
}
`

func TestVersion(t *testing.T) {
	code, out, _ := run(t, "version")
	if code != exitOK || !strings.HasPrefix(out, "Contentio/0.3.1 (") {
		t.Errorf("version = %d %q", code, out)
	}
}

func TestUsage(t *testing.T) {
	code, _, errOut := run(t, "nope")
	if code != exitUsage || !strings.Contains(errOut, `unknown command "nope"`) {
		t.Errorf("unknown command = %d %q", code, errOut)
	}
	if code, _, _ := run(t); code != exitUsage {
		t.Errorf("no command = %d", code)
	}
	if code, _, _ := run(t, "lint"); code != exitUsage {
		t.Errorf("lint without files = %d", code)
	}
}

func TestLint(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "item.json", item)

	code, out, _ := run(t, "-no-color", "lint", path)
	if code != exitFound {
		t.Errorf("exit code = %d, want %d", code, exitFound)
	}
	checks := []string{
		"warning: Json error: " + path + ":3:",
		"insufficient spaces at this location.  2 required, but only 1 found.",
		`Suggested fix: insert " "`,
		"error: Json error: " + path + ":4:",
		`missing member "str"`,
		"1 file checked, 1 error, 1 warning",
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("-no-color output contains escape sequences")
	}

	// 关闭风格检查后只剩一个错误
	_, out, _ = run(t, "-no-color", "lint", "-style=false", path)
	if !strings.Contains(out, "1 file checked, 1 error, 0 warnings") {
		t.Errorf("unexpected summary:\n%s", out)
	}
}

func TestLintClean(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", `[{"id": "a", "name": "apple", "tags": ["x", "y"]}]`)
	b := writeFile(t, dir, "b.json", `{"description": {"str": "Fine.  Really."}}`)
	code, out, _ := run(t, "-no-color", "lint", a, b)
	if code != exitOK || !strings.Contains(out, "2 files checked, 0 errors, 0 warnings") {
		t.Errorf("clean lint = %d:\n%s", code, out)
	}
}

func TestLintSyntaxError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.json", `{"a": tru}`)
	code, out, _ := run(t, "-no-color", "lint", path)
	if code != exitFound || !strings.Contains(out, "error: Json error: "+path+":1:") {
		t.Errorf("syntax error = %d:\n%s", code, out)
	}
	code, _, errOut := run(t, "lint", filepath.Join(dir, "missing.json"))
	if code != exitFound || errOut == "" {
		t.Errorf("missing file = %d %q", code, errOut)
	}
}

func TestFmt(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "list.json", `{ "b" : [1, 1, 1, 2], "a": [[0], [0]] }`)

	code, out, errOut := run(t, "fmt", "-indent=", path)
	if code != exitOK || out != `{"b":[1,1,1,2],"a":[[0],[0]]}`+"\n" {
		t.Errorf("fmt = %d %q %q", code, out, errOut)
	}

	code, out, _ = run(t, "fmt", "-indent=", "-rle", path)
	if code != exitOK || out != `{"b":[[3,1],2],"a":[[2,[0]]]}`+"\n" {
		t.Errorf("fmt -rle = %d %q", code, out)
	}

	code, out, _ = run(t, "fmt", "-indent=", "-w", path)
	if code != exitOK || out != "" {
		t.Errorf("fmt -w = %d %q", code, out)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != `{"b":[1,1,1,2],"a":[[0],[0]]}`+"\n" {
		t.Errorf("rewritten file = %q, %v", data, err)
	}
}

func TestFmtErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.json", `[1, 2] 3`)
	code, out, errOut := run(t, "-no-color", "fmt", path)
	if code != exitFound || out != "" {
		t.Errorf("fmt bad = %d %q", code, out)
	}
	if !strings.Contains(errOut, "unexpected '3' after the end of the document") {
		t.Errorf("stderr = %q", errOut)
	}
	if code, _, errOut := run(t, "fmt", "-rle", "-rule", "a.id ==", path); code != exitUsage || !strings.Contains(errOut, "invalid equivalence rule") {
		t.Errorf("bad rule = %d %q", code, errOut)
	}
}

func TestJournal(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONTENTIO_JOURNAL_PATH", filepath.Join(dir, "journal.sqlite"))
	path := writeFile(t, dir, "item.json", item)

	if code, _, _ := run(t, "-no-color", "journal"); code != exitOK {
		t.Errorf("empty journal = %d", code)
	}
	if code, _, errOut := run(t, "-no-color", "-journal", "lint", path); code != exitFound || errOut != "" {
		t.Fatalf("lint with journal = %d %q", code, errOut)
	}

	_, out, _ := run(t, "-no-color", "journal")
	if !strings.Contains(out, "warning: Json error: "+path+":3:") || !strings.Contains(out, "error: Json error: "+path+":4:") {
		t.Errorf("journal listing:\n%s", out)
	}
	_, out, _ = run(t, "-no-color", "journal", "-warnings")
	if strings.Contains(out, "error: Json error:") {
		t.Errorf("-warnings listed errors:\n%s", out)
	}
	_, out, _ = run(t, "-no-color", "journal", "-summary")
	if !strings.Contains(out, "SOURCE") || !strings.Contains(out, "item.json") {
		t.Errorf("summary:\n%s", out)
	}
	_, out, _ = run(t, "-no-color", "journal", "-runs")
	if !strings.Contains(out, "COMMAND") || !strings.Contains(out, "lint") {
		t.Errorf("runs:\n%s", out)
	}
}
