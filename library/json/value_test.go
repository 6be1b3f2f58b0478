package json

import (
	"reflect"
	"testing"
)

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"null", NullValue(), Value{}, true},
		{"numbers by value", NumberValue(Number{Text: "1"}), FloatValue(1), true},
		{"different numbers", IntValue(1), IntValue(2), false},
		{"kind mismatch", StringValue("1"), IntValue(1), false},
		{"arrays", ArrayValue(IntValue(1), StringValue("a")), ArrayValue(IntValue(1), StringValue("a")), true},
		{"array order", ArrayValue(IntValue(1), IntValue(2)), ArrayValue(IntValue(2), IntValue(1)), false},
		{"object member order",
			ObjectValue(Member{"a", BoolValue(true)}, Member{"b", NullValue()}),
			ObjectValue(Member{"b", NullValue()}, Member{"a", BoolValue(true)}), true},
		{"object missing member",
			ObjectValue(Member{"a", BoolValue(true)}, Member{"b", NullValue()}),
			ObjectValue(Member{"a", BoolValue(true)}, Member{"c", NullValue()}), false},
	}
	for _, tt := range tests {
		if got := tt.a.Equal(tt.b); got != tt.want {
			t.Errorf("%s: Equal = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestValueAccessors(t *testing.T) {
	v := ObjectValue(
		Member{"list", ArrayValue(IntValue(3), FloatValue(0.5), StringValue("x"))},
		Member{"flag", BoolValue(true)},
		Member{"flag", BoolValue(false)},
	)
	if v.Len() != 2 {
		t.Fatalf("Len = %d, want 2", v.Len())
	}
	flag, ok := v.Get("flag")
	if b, _ := flag.AsBool(); !ok || b {
		t.Errorf("duplicate member should be last-wins")
	}
	list, _ := v.Get("list")
	if list.Index(5).Kind() != KindNull {
		t.Errorf("out of range index should be null")
	}
	if s, ok := list.Index(2).AsString(); !ok || s != "x" {
		t.Errorf("Index(2) = %q", s)
	}
	want := map[string]any{
		"list": []any{int64(3), 0.5, "x"},
		"flag": false,
	}
	if got := v.Interface(); !reflect.DeepEqual(got, want) {
		t.Errorf("Interface = %#v", got)
	}
	if KindArray.String() != "array" {
		t.Errorf("unexpected kind name")
	}
}
