package json

import (
	"strconv"
)

// Kind 值的类型
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String 返回类型名
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Member 对象成员
type Member struct {
	Name  string
	Value Value
}

// Value 只用于临时检查的树形值，零值为 null
type Value struct {
	kind    Kind
	b       bool
	num     Number
	str     string
	elems   []Value
	members []Member
}

// NullValue null
func NullValue() Value {
	return Value{}
}

// BoolValue 布尔值
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// NumberValue 数字，保留原始文本
func NumberValue(n Number) Value {
	return Value{kind: KindNumber, num: n}
}

// IntValue 整数
func IntValue(i int64) Value {
	return NumberValue(Number{Text: strconv.FormatInt(i, 10)})
}

// FloatValue 浮点数，按写出时的固定精度保存
func FloatValue(f float64) Value {
	return NumberValue(Number{Text: formatFloat(f), Float: true})
}

// StringValue 字符串
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// ArrayValue 数组
func ArrayValue(elems ...Value) Value {
	return Value{kind: KindArray, elems: elems}
}

// ObjectValue 对象，成员按首次出现排序，重名时后者覆盖
func ObjectValue(members ...Member) Value {
	v := Value{kind: KindObject}
	index := map[string]int{}
	for _, m := range members {
		if i, ok := index[m.Name]; ok {
			v.members[i].Value = m.Value
			continue
		}
		index[m.Name] = len(v.members)
		v.members = append(v.members, m)
	}
	return v
}

// Kind 值的类型
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull 是否为 null
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsBool 布尔值
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsNumber 数字
func (v Value) AsNumber() (Number, bool) {
	return v.num, v.kind == KindNumber
}

// AsString 字符串
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// Len 数组元素数或对象成员数
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.elems)
	case KindObject:
		return len(v.members)
	}
	return 0
}

// Index 第 i 个数组元素，越界返回 null
func (v Value) Index(i int) Value {
	if v.kind != KindArray || i < 0 || i >= len(v.elems) {
		return Value{}
	}
	return v.elems[i]
}

// Elements 数组元素
func (v Value) Elements() []Value {
	return v.elems
}

// Members 对象成员
func (v Value) Members() []Member {
	return v.members
}

// Get 按名称查找对象成员
func (v Value) Get(name string) (Value, bool) {
	for _, m := range v.members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Clone 深拷贝
func (v Value) Clone() Value {
	out := v
	if v.elems != nil {
		out.elems = make([]Value, len(v.elems))
		for i, e := range v.elems {
			out.elems[i] = e.Clone()
		}
	}
	if v.members != nil {
		out.members = make([]Member, len(v.members))
		for i, m := range v.members {
			out.members[i] = Member{Name: m.Name, Value: m.Value.Clone()}
		}
	}
	return out
}

// Equal 结构相等，数字按数值比较，对象成员与顺序无关
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		if v.num.Text == o.num.Text {
			return true
		}
		a, err1 := v.num.Float64()
		b, err2 := o.num.Float64()
		return err1 == nil && err2 == nil && a == b
	case KindString:
		return v.str == o.str
	case KindArray:
		if len(v.elems) != len(o.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.members) != len(o.members) {
			return false
		}
		for _, m := range v.members {
			other, ok := o.Get(m.Name)
			if !ok || !m.Value.Equal(other) {
				return false
			}
		}
		return true
	}
	return false
}

// Interface 转为普通 Go 值：nil、bool、int64/float64、string、[]any、map[string]any
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		if !v.num.Float {
			if i, err := v.num.Int64(); err == nil {
				return i
			}
		}
		f, _ := v.num.Float64()
		return f
	case KindString:
		return v.str
	case KindArray:
		out := make([]any, len(v.elems))
		for i, e := range v.elems {
			out[i] = e.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.members))
		for _, m := range v.members {
			out[m.Name] = m.Value.Interface()
		}
		return out
	}
	return nil
}

// WriteJSON 实现 Serializer
func (v Value) WriteJSON(w *Writer) {
	w.Value(v)
}

// ReadJSON 实现 Deserializer
func (v *Value) ReadJSON(r *Reader) error {
	val, err := r.GetValue()
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// WriteJSON 按原始文本写出
func (n Number) WriteJSON(w *Writer) {
	w.Number(n)
}

// ReadJSON 实现 Deserializer
func (n *Number) ReadJSON(r *Reader) error {
	num, err := r.GetNumber()
	if err != nil {
		return err
	}
	*n = num
	return nil
}
