package rle

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cxykevin/contentio/library/json"
)

var intCodec = Codec[int]{
	Equal: func(a, b int) bool { return a == b },
	Write: func(w *json.Writer, v int) { w.Int(v) },
	Read:  func(r *json.Reader) (int, error) { return r.GetInt() },
}

type item struct {
	N int
}

// itemCodec 不提供 Clone，副本通过重新解析得到
var itemCodec = Codec[*item]{
	Equal: func(a, b *item) bool { return a.N == b.N },
	Write: func(w *json.Writer, v *item) {
		w.StartObject()
		w.Member("n", v.N)
		w.EndObject()
	},
	Read: func(r *json.Reader) (*item, error) {
		obj, err := r.GetObject()
		if err != nil {
			return nil, err
		}
		n, err := obj.GetInt("n")
		if err != nil {
			return nil, err
		}
		return &item{N: n}, nil
	},
}

type collectSink struct {
	diags []json.Diagnostic
}

func (c *collectSink) Report(d json.Diagnostic) {
	c.diags = append(c.diags, d)
}

func encode[T any](t *testing.T, seq []T, c Codec[T]) string {
	t.Helper()
	var buf bytes.Buffer
	w := json.NewWriter(&buf)
	Write(w, seq, c)
	if err := w.Err(); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	return buf.String()
}

func TestWriteCollapsesRuns(t *testing.T) {
	tests := []struct {
		name string
		seq  []int
		want string
	}{
		{"empty", nil, "[]"},
		{"distinct", []int{1, 2}, "[1,2]"},
		{"run", []int{5, 5, 5, 5, 5, 5, 5, 5, 5, 5}, "[[10,5]]"},
		{"mixed", []int{1, 1, 2, 3, 3, 3}, "[[2,1],2,[3,3]]"},
		{"only adjacent", []int{1, 2, 1}, "[1,2,1]"},
	}
	for _, tt := range tests {
		if got := encode(t, tt.seq, intCodec); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestWriteMaxRun(t *testing.T) {
	c := intCodec
	c.MaxRun = 2
	if got := encode(t, []int{7, 7, 7}, c); got != "[[2,7],7]" {
		t.Errorf("got %s", got)
	}
}

func TestReadExpandsIndependentCopies(t *testing.T) {
	seq := make([]*item, 10)
	for i := range seq {
		seq[i] = &item{N: 4}
	}
	text := encode(t, seq, itemCodec)
	if text != `[[10,{"n":4}]]` {
		t.Fatalf("encoded = %s", text)
	}

	r := json.NewReader([]byte(text), json.Options{})
	out, err := Read(r, itemCodec)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if len(out) != 10 {
		t.Fatalf("len = %d, want 10", len(out))
	}
	out[0].N = 99
	for i := 1; i < len(out); i++ {
		if out[i] == out[0] || out[i].N != 4 {
			t.Fatalf("element %d shares state with element 0", i)
		}
	}
	if !r.EOF() {
		t.Errorf("expected reader at EOF")
	}
}

func TestReadSkipsMalformedGroups(t *testing.T) {
	sink := &collectSink{}
	r := json.NewReader([]byte(`[1, [0, 2], [2, 5, 6], "bad", [2, 3]]`), json.Options{Sink: sink})
	out, err := Read(r, intCodec)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	want := []int{1, 3, 3}
	if len(out) != len(want) {
		t.Fatalf("Read = %v, want %v", out, want)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("Read = %v, want %v", out, want)
		}
	}
	if len(sink.diags) != 3 {
		t.Fatalf("got %d diagnostics, want 3", len(sink.diags))
	}
	for _, d := range sink.diags {
		if d.Severity != json.SeverityWarning {
			t.Errorf("diagnostic should be a warning: %s", d)
		}
	}
	if msg := sink.diags[0].Err.Message; msg != "invalid run-length count '0'" {
		t.Errorf("first message = %q", msg)
	}
	if msg := sink.diags[1].Err.Message; msg != "run-length group must have exactly 2 elements" {
		t.Errorf("second message = %q", msg)
	}
	if pos := sink.diags[0].Err.Pos; pos.Line != 1 || pos.Column != 6 {
		t.Errorf("count error at %d:%d, want 1:6", pos.Line, pos.Column)
	}
}

func TestReadRunLimit(t *testing.T) {
	sink := &collectSink{}
	c := intCodec
	c.MaxRun = 5
	r := json.NewReader([]byte(`[[6, 1], 2]`), json.Options{Sink: sink})
	out, err := Read(r, c)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if len(out) != 1 || out[0] != 2 {
		t.Errorf("Read = %v", out)
	}
	if len(sink.diags) != 1 || !strings.Contains(sink.diags[0].Err.Message, "exceeds the limit of 5") {
		t.Errorf("unexpected diagnostics: %v", sink.diags)
	}
}

func TestReadEOFAborts(t *testing.T) {
	for _, input := range []string{`[1, [2, `, `[1, 2`, `[[3, {"a": `} {
		r := json.NewReader([]byte(input), json.Options{})
		_, err := Read(r, ValueCodec(nil))
		if err == nil || !json.IsEOF(err) {
			t.Errorf("%q: expected EOF error, got %v", input, err)
		}
	}
}

func TestArrayElementIsWrapped(t *testing.T) {
	inner := json.ArrayValue(json.IntValue(1), json.IntValue(2))
	seq := []json.Value{inner, json.IntValue(3)}
	text := encode(t, seq, ValueCodec(nil))
	if text != "[[1,[1,2]],3]" {
		t.Fatalf("encoded = %s", text)
	}
	r := json.NewReader([]byte(text), json.Options{})
	out, err := Read(r, ValueCodec(nil))
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if len(out) != 2 || !out[0].Equal(inner) || !out[1].Equal(json.IntValue(3)) {
		t.Errorf("round trip lost structure: %v", out)
	}
}

func TestRule(t *testing.T) {
	rule, err := CompileRule("a.id == b.id")
	if err != nil {
		t.Fatalf("CompileRule error: %v", err)
	}
	obj := func(id, hp int64) json.Value {
		return json.ObjectValue(
			json.Member{Name: "id", Value: json.IntValue(id)},
			json.Member{Name: "hp", Value: json.IntValue(hp)},
		)
	}
	seq := []json.Value{obj(1, 1), obj(1, 2), obj(2, 1)}
	got := encode(t, seq, ValueCodec(rule))
	want := `[[2,{"id":1,"hp":1}],{"id":2,"hp":1}]`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}

	// 默认规则为结构相等
	if got := encode(t, seq, ValueCodec(nil)); got != `[{"id":1,"hp":1},{"id":1,"hp":2},{"id":2,"hp":1}]` {
		t.Errorf("structural rule collapsed distinct values: %s", got)
	}
	if rule.String() != "a.id == b.id" {
		t.Errorf("String = %q", rule.String())
	}
}

func TestCompileRuleError(t *testing.T) {
	if _, err := CompileRule("a.id =="); err == nil {
		t.Errorf("expected compile error")
	}
	r, err := CompileRule("")
	if err != nil {
		t.Fatalf("empty rule: %v", err)
	}
	if !r.Equal(json.IntValue(1), json.FloatValue(1)) {
		t.Errorf("empty rule should compare structurally")
	}
}

var stringCodec = Codec[string]{
	Equal: func(a, b string) bool { return a == b },
	Write: func(w *json.Writer, v string) { w.String(v) },
	Read:  func(r *json.Reader) (string, error) { return r.GetString() },
}

func TestReadSkipsBadStringElement(t *testing.T) {
	sink := &collectSink{}
	r := json.NewReader([]byte(`["a\.b", [2, "ok"]]`), json.Options{Sink: sink})
	out, err := Read(r, stringCodec)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if len(out) != 2 || out[0] != "ok" || out[1] != "ok" {
		t.Errorf("Read = %q, want [ok ok]", out)
	}
	if len(sink.diags) != 1 || sink.diags[0].Err.Message != "invalid escape sequence" {
		t.Errorf("diagnostics = %v", sink.diags)
	}
}

func TestReadSkipsIncorrectItems(t *testing.T) {
	sink := &collectSink{}
	r := json.NewReader([]byte("[[{\"n\": 1}],\n {\"n\": 2}]"), json.Options{Sink: sink})
	out, err := Read(r, itemCodec)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if len(out) != 1 || out[0].N != 2 {
		t.Fatalf("Read = %v, want one item with n=2", out)
	}
	if len(sink.diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(sink.diags))
	}
	d := sink.diags[0]
	if d.Severity != json.SeverityWarning || d.Err.Message != "invalid run-length group: expected a positive integer count" {
		t.Errorf("unexpected diagnostic: %s", d)
	}
}
