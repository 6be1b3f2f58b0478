package json

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cxykevin/contentio/library/stack"
)

type writerFrame struct {
	object bool
	count  int
}

// Writer 规范化输出，分隔符由 Writer 自动插入
type Writer struct {
	out       io.Writer
	indent    string
	frames    *stack.Stack[writerFrame]
	afterName bool
	err       error
}

// NewWriter 紧凑输出
func NewWriter(out io.Writer) *Writer {
	return NewIndentWriter(out, "")
}

// NewIndentWriter 每层缩进 indent 的多行输出
func NewIndentWriter(out io.Writer, indent string) *Writer {
	w := &Writer{
		out:    out,
		indent: indent,
		frames: stack.New[writerFrame](),
	}
	// 顶层帧，允许直接在顶层写成员
	w.frames.Push(writerFrame{})
	return w
}

// Err 返回第一个写入错误
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// Fail 记录一个错误，之后的写入全部忽略
func (w *Writer) Fail(err error) {
	if err != nil {
		w.fail(err)
	}
}

func (w *Writer) raw(s string) {
	if w.err != nil {
		return
	}
	if _, err := io.WriteString(w.out, s); err != nil {
		w.err = err
	}
}

func (w *Writer) newline(depth int) {
	w.raw("\n" + strings.Repeat(w.indent, depth))
}

// separator 在值或成员名之前写入分隔符
func (w *Writer) separator() {
	if w.afterName {
		w.afterName = false
		return
	}
	f := w.frames.TopPtr()
	if f.count > 0 {
		w.raw(",")
	}
	if w.indent != "" && w.frames.Size() > 1 {
		w.newline(w.frames.Size() - 1)
	}
	f.count++
}

// StartArray 开始数组
func (w *Writer) StartArray() {
	w.separator()
	w.raw("[")
	w.frames.Push(writerFrame{})
}

// EndArray 结束数组
func (w *Writer) EndArray() {
	w.end("]", false)
}

// StartObject 开始对象
func (w *Writer) StartObject() {
	w.separator()
	w.raw("{")
	w.frames.Push(writerFrame{object: true})
}

// EndObject 结束对象
func (w *Writer) EndObject() {
	w.end("}", true)
}

func (w *Writer) end(closer string, object bool) {
	if w.frames.Size() <= 1 {
		w.fail(fmt.Errorf("json: unbalanced '%s'", closer))
		return
	}
	if w.afterName {
		w.fail(errors.New("json: member name without value"))
		w.afterName = false
	}
	f, _ := w.frames.Pop()
	if f.object != object {
		w.fail(fmt.Errorf("json: mismatched '%s'", closer))
	}
	if w.indent != "" && f.count > 0 {
		w.newline(w.frames.Size() - 1)
	}
	w.raw(closer)
}

// Name 写成员名，之后必须紧跟一个值
func (w *Writer) Name(name string) {
	if f, _ := w.frames.Top(); !f.object && w.frames.Size() > 1 {
		w.fail(fmt.Errorf("json: member %q written inside an array", name))
		return
	}
	w.separator()
	w.quote(name)
	if w.indent != "" {
		w.raw(": ")
	} else {
		w.raw(":")
	}
	w.afterName = true
}

// quote 只转义引号、反斜杠和控制字符，其余 UTF-8 原样输出
func (w *Writer) quote(s string) {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if c < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	w.raw(b.String())
}

// String 写字符串
func (w *Writer) String(s string) {
	w.separator()
	w.quote(s)
}

// Int 写整数
func (w *Writer) Int(i int) {
	w.Int64(int64(i))
}

// Int64 写整数
func (w *Writer) Int64(i int64) {
	w.separator()
	w.raw(strconv.FormatInt(i, 10))
}

// Uint64 写无符号整数
func (w *Writer) Uint64(u uint64) {
	w.separator()
	w.raw(strconv.FormatUint(u, 10))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

// Float 以固定 6 位小数写浮点数，NaN 和无穷大为错误
func (w *Writer) Float(f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		w.fail(fmt.Errorf("json: cannot write non-finite number %v", f))
		return
	}
	w.separator()
	w.raw(formatFloat(f))
}

// Bool 写布尔值
func (w *Writer) Bool(b bool) {
	w.separator()
	if b {
		w.raw("true")
	} else {
		w.raw("false")
	}
}

// Null 写 null
func (w *Writer) Null() {
	w.separator()
	w.raw("null")
}

// Number 按原始文本写数字
func (w *Writer) Number(n Number) {
	if n.Text == "" {
		w.fail(errors.New("json: empty number"))
		return
	}
	w.separator()
	w.raw(n.Text)
}

// Raw 写入一段已编码的值
func (w *Writer) Raw(s string) {
	w.separator()
	w.raw(s)
}

// Value 写树形值
func (w *Writer) Value(v Value) {
	switch v.Kind() {
	case KindNull:
		w.Null()
	case KindBool:
		w.Bool(v.b)
	case KindNumber:
		w.Number(v.num)
	case KindString:
		w.String(v.str)
	case KindArray:
		w.StartArray()
		for _, e := range v.elems {
			w.Value(e)
		}
		w.EndArray()
	case KindObject:
		w.StartObject()
		for _, m := range v.members {
			w.Name(m.Name)
			w.Value(m.Value)
		}
		w.EndObject()
	}
}

// Member 写一个成员
func (w *Writer) Member(name string, v any) {
	w.Name(name)
	w.Write(v)
}

// MemberDefault 值等于默认值时省略该成员
func MemberDefault[T comparable](w *Writer, name string, v, def T) {
	if v == def {
		return
	}
	w.Member(name, v)
}
