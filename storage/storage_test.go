package storage

import (
	"path/filepath"
	"testing"

	"github.com/cxykevin/contentio/library/json"
	"github.com/cxykevin/contentio/product"
	"github.com/cxykevin/contentio/storage/structs"
	"gorm.io/gorm"
)

func memoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	// 使用内存数据库进行测试
	db, err := InitDB(":memory:")
	if err != nil {
		t.Fatalf("InitDB error: %v", err)
	}
	return db
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.sqlite")
	t.Setenv(envJournalName, "")
	db, err := InitStorage(path)
	if err != nil {
		t.Fatalf("InitStorage error: %v", err)
	}
	meta, err := ReadMeta(db)
	if err != nil || meta.Version != product.VersionID {
		t.Errorf("meta = %+v, %v", meta, err)
	}
	// 重复初始化不应报错
	if _, err := InitDB(path); err != nil {
		t.Errorf("second InitDB error: %v", err)
	}
}

// readAll 读取 input 并把诊断写入 journal
func readAll(t *testing.T, j *Journal, source, input string) {
	t.Helper()
	r := json.NewReader([]byte(input), json.Options{Source: source, Sink: j, CheckStyle: true})
	if err := r.StartArray(); err != nil {
		t.Fatalf("StartArray error: %v", err)
	}
	for {
		done, err := r.EndArray()
		if err != nil {
			t.Fatalf("EndArray error: %v", err)
		}
		if done {
			return
		}
		var n int
		if _, err := r.TryRead(&n); err != nil {
			t.Fatalf("TryRead error: %v", err)
		}
	}
}

func TestJournal(t *testing.T) {
	db := memoryDB(t)
	j, err := NewJournal(db, "lint")
	if err != nil {
		t.Fatalf("NewJournal error: %v", err)
	}
	readAll(t, j, "a.json", `[1, "x", 2, true]`)
	readAll(t, j, "b.json", `[null]`)
	j.Report(json.Diagnostic{Severity: json.SeverityWarning, Err: &json.JSONError{
		Message: "something odd", Pos: json.Position{Source: "b.json"}, EOF: true,
	}})
	j.AddFile("a.json", 18, false)
	j.AddFile("b.json", 6, false)
	if err := j.Err(); err != nil {
		t.Fatalf("journal error: %v", err)
	}

	all, err := ListDiagnostics(db, ListFilter{RunID: j.RunID()})
	if err != nil {
		t.Fatalf("ListDiagnostics error: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("got %d diagnostics, want 4", len(all))
	}
	first := all[0]
	if first.Source != "a.json" || first.Line != 1 || first.Column != 5 || first.Severity != structs.DiagnosticsSeverityError {
		t.Errorf("unexpected first row: %+v", first)
	}
	if first.Message != "expected number but got '\"'" {
		t.Errorf("first message = %q", first.Message)
	}

	warnings, err := ListDiagnostics(db, ListFilter{Warnings: true})
	if err != nil || len(warnings) != 1 || !warnings[0].EOF {
		t.Errorf("warnings = %+v, %v", warnings, err)
	}
	bOnly, err := ListDiagnostics(db, ListFilter{Source: "b.json", Errors: true})
	if err != nil || len(bOnly) != 1 {
		t.Errorf("b.json errors = %+v, %v", bOnly, err)
	}

	counts, err := CountBySource(db, j.RunID())
	if err != nil {
		t.Fatalf("CountBySource error: %v", err)
	}
	want := []SourceCount{{"a.json", 2, 0}, {"b.json", 1, 1}}
	if len(counts) != len(want) {
		t.Fatalf("counts = %+v", counts)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("counts[%d] = %+v, want %+v", i, counts[i], want[i])
		}
	}

	run, err := LastRun(db)
	if err != nil {
		t.Fatalf("LastRun error: %v", err)
	}
	if run.ID != j.RunID() || run.Command != "lint" || run.Errors != 3 || run.Warnings != 1 || run.Files != 2 {
		t.Errorf("unexpected run: %+v", run)
	}
}

func TestListRuns(t *testing.T) {
	db := memoryDB(t)
	for _, cmd := range []string{"lint", "fmt", "lint"} {
		if _, err := NewJournal(db, cmd); err != nil {
			t.Fatalf("NewJournal error: %v", err)
		}
	}
	runs, err := ListRuns(db, 2)
	if err != nil {
		t.Fatalf("ListRuns error: %v", err)
	}
	if len(runs) != 2 || runs[0].Command != "lint" || runs[1].Command != "fmt" {
		t.Errorf("runs = %+v", runs)
	}
	if _, err := NewJournal(nil, "lint"); err == nil {
		t.Errorf("expected error for nil db")
	}
}
