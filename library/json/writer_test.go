package json

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/valyala/fastjson"
)

func TestMemberDefault(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	MemberDefault(w, "foo", "foo", "foo")
	MemberDefault(w, "bar", "foo", "bar")
	if err := w.Err(); err != nil {
		t.Fatalf("writer error: %v", err)
	}
	if buf.String() != `"bar":"foo"` {
		t.Errorf("got %s", buf.String())
	}
}

func TestWriterObject(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.StartObject()
	w.Member("s", "a\"b\\c\n…\x01")
	w.Member("i", 42)
	w.Member("f", 1.0)
	w.Member("neg", -0.5)
	w.Member("b", true)
	w.Member("n", nil)
	w.Name("arr")
	w.StartArray()
	w.Int(1)
	w.Raw(`{"pre":"encoded"}`)
	w.EndArray()
	w.EndObject()
	if err := w.Err(); err != nil {
		t.Fatalf("writer error: %v", err)
	}
	want := `{"s":"a\"b\\c\n…\u0001","i":42,"f":1.000000,"neg":-0.500000,"b":true,"n":null,"arr":[1,{"pre":"encoded"}]}`
	if buf.String() != want {
		t.Errorf("output mismatch\n got: %s\nwant: %s", buf.String(), want)
	}
	// 输出必须是标准 JSON
	if err := fastjson.Validate(buf.String()); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got := fastjson.GetString(buf.Bytes(), "s"); got != "a\"b\\c\n…\x01" {
		t.Errorf("fastjson decoded %q", got)
	}
	if got := fastjson.GetString(buf.Bytes(), "arr", "1", "pre"); got != "encoded" {
		t.Errorf("fastjson decoded %q", got)
	}
}

func TestIndentWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewIndentWriter(&buf, "  ")
	w.StartObject()
	w.Name("a")
	w.StartArray()
	w.Int(1)
	w.Int(2)
	w.EndArray()
	w.Name("b")
	w.StartObject()
	w.EndObject()
	w.EndObject()
	want := "{\n  \"a\": [\n    1,\n    2\n  ],\n  \"b\": {}\n}"
	if buf.String() != want {
		t.Errorf("output mismatch\n got: %q\nwant: %q", buf.String(), want)
	}
	if err := fastjson.Validate(buf.String()); err != nil {
		t.Errorf("invalid json: %v", err)
	}
}

func TestWriterErrors(t *testing.T) {
	tests := []struct {
		name string
		fn   func(w *Writer)
		want string
	}{
		{"nan", func(w *Writer) { w.Float(math.NaN()) }, "non-finite"},
		{"inf in slice", func(w *Writer) { w.Write([]float64{1, math.Inf(1)}) }, "non-finite"},
		{"unbalanced", func(w *Writer) { w.EndArray() }, "unbalanced"},
		{"mismatched", func(w *Writer) { w.StartArray(); w.EndObject() }, "mismatched"},
		{"name in array", func(w *Writer) { w.StartArray(); w.Name("x") }, "inside an array"},
		{"unsupported", func(w *Writer) { w.Write(make(chan int)) }, "unsupported type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter(&bytes.Buffer{})
			tt.fn(w)
			if w.Err() == nil || !strings.Contains(w.Err().Error(), tt.want) {
				t.Errorf("Err = %v, want %q", w.Err(), tt.want)
			}
		})
	}
}

func TestWriterValue(t *testing.T) {
	r := NewReader([]byte(`{"b": [1, 2.50, "x"], "a": {"n": null}}`), Options{})
	v, err := r.GetValue()
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Write(v)
	// 数字按原始文本输出，成员保持原顺序
	want := `{"b":[1,2.50,"x"],"a":{"n":null}}`
	if buf.String() != want {
		t.Errorf("got %s, want %s", buf.String(), want)
	}
}
