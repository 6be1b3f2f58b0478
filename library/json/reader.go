package json

import (
	"fmt"
	"io"
	"math"
	"strconv"
)

const defaultMaxDepth = 512

// Options 读取配置，显式传入而非全局开关
type Options struct {
	Source      string // 诊断中显示的来源名
	Encoding    string // 源文本编码标签，空表示自动识别
	Sink        Sink   // 诊断接收端，nil 表示丢弃
	CheckStyle  bool   // 文本风格检查
	CheckPlural bool   // 要求可推导的复数形式
	MaxDepth    int    // 最大嵌套深度
}

// Reader 只进的拉取式游标
type Reader struct {
	s       *scanner
	opts    Options
	closers string // 当前打开的容器对应的结束符，末尾为最内层
	comma   int    // 最近一个尚未被值消费的逗号位置，-1 表示没有
}

// Mark 游标快照，用于失败时回退
type Mark struct {
	off     int
	closers string
	comma   int
}

// Offset 快照处的字节偏移
func (m Mark) Offset() int {
	return m.off
}

// NewReader 在内存中的输入上创建 Reader
func NewReader(data []byte, opts Options) *Reader {
	if opts.Source == "" {
		opts.Source = DefaultSource
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	return &Reader{
		s:     newScanner(data, opts.Source),
		opts:  opts,
		comma: -1,
	}
}

// ReadSource 读取整个输入并规范化编码后创建 Reader
func ReadSource(src io.Reader, opts Options) (*Reader, error) {
	content, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", opts.Source, err)
	}
	data, err := DecodeSource(content, opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", opts.Source, err)
	}
	return NewReader(data, opts), nil
}

// Options 返回读取配置
func (r *Reader) Options() Options {
	return r.opts
}

// Tracker 返回位置追踪器
func (r *Reader) Tracker() *PositionTracker {
	return r.s.tracker
}

// Tell 当前字节偏移
func (r *Reader) Tell() int {
	return r.s.off
}

// Depth 当前嵌套深度
func (r *Reader) Depth() int {
	return len(r.closers)
}

// Mark 记录当前游标
func (r *Reader) Mark() Mark {
	return Mark{off: r.s.off, closers: r.closers, comma: r.comma}
}

// Restore 回到快照处
func (r *Reader) Restore(m Mark) {
	r.s.off = m.off
	r.closers = m.closers
	r.comma = m.comma
}

// valueStart 跳过空白并返回下一个值的起点
func (r *Reader) valueStart() int {
	r.s.skipWhitespace()
	return r.s.off
}

// markValue 跳过空白后记录快照，失败时回退到值的起始记号
func (r *Reader) markValue() Mark {
	r.s.skipWhitespace()
	return r.Mark()
}

// beforeValue 开始读取一个值，该值消费掉之前的逗号
func (r *Reader) beforeValue() {
	r.s.skipWhitespace()
	r.comma = -1
}

// EOF 跳过空白后是否已到末尾
func (r *Reader) EOF() bool {
	r.s.skipWhitespace()
	return r.s.eof()
}

// PeekKind 查看下一个词法单元的类型，不移动游标（空白除外）
func (r *Reader) PeekKind() TokenKind {
	r.s.skipWhitespace()
	if r.s.eof() {
		return TokenEOF
	}
	return kindOf(r.s.data[r.s.off])
}

// Position 计算 offset 的行列
func (r *Reader) Position(offset int) Position {
	return r.s.tracker.PositionAt(offset)
}

// Error 在当前位置构造错误，已到末尾时为 EOF 类错误
func (r *Reader) Error(msg string) *JSONError {
	r.s.skipWhitespace()
	if r.s.eof() {
		return r.s.eofError(msg)
	}
	return r.s.errorAt(r.s.off, msg)
}

// ErrorAt 在 offset 处构造错误
func (r *Reader) ErrorAt(offset int, msg string) *JSONError {
	return r.s.errorAt(offset, msg)
}

// ErrorWithFix 在 offset 处构造带修复建议的错误
func (r *Reader) ErrorWithFix(offset int, msg, fix string) *JSONError {
	return newError(r.s.tracker, offset, msg, fix)
}

// StringError 定位到 start 处字符串字面量的第 n 个字符（开头引号为第 0 个）
func (r *Reader) StringError(start, n int, msg, fix string) *JSONError {
	return newError(r.s.tracker, r.s.tracker.CharOffset(start, n), msg, fix)
}

// Report 将错误交给诊断接收端
func (r *Reader) Report(sev Severity, err error) {
	if r.opts.Sink == nil || err == nil {
		return
	}
	je, ok := AsJSONError(err)
	if !ok {
		// 非解析错误只给出当前位置，不附带摘录
		je = &JSONError{
			Message: err.Error(),
			Pos:     r.Position(r.s.off),
		}
	}
	r.opts.Sink.Report(Diagnostic{Severity: sev, Err: je})
}

// Warn 报告一条警告
func (r *Reader) Warn(err error) {
	r.Report(SeverityWarning, err)
}

// endValue 读完一个值后检查容器内的分隔符
func (r *Reader) endValue() error {
	if len(r.closers) == 0 {
		return nil
	}
	r.s.skipWhitespace()
	if r.s.eof() {
		// 交给 EndArray/EndObject 报告 EOF
		return nil
	}
	closer := r.closers[len(r.closers)-1]
	switch c := r.s.data[r.s.off]; c {
	case ',':
		r.comma = r.s.off
		r.s.off++
	case closer:
	default:
		return r.s.errorAt(r.s.off, fmt.Sprintf("expected ',' or '%c' but got '%s'", closer, r.s.charAt(r.s.off)))
	}
	return nil
}

// GetString 读取字符串
func (r *Reader) GetString() (string, error) {
	r.beforeValue()
	str, err := r.s.scanString()
	if err != nil {
		return "", err
	}
	return str, r.endValue()
}

// GetNumber 读取数字，保留原始文本
func (r *Reader) GetNumber() (Number, error) {
	r.beforeValue()
	if r.s.eof() || kindOf(r.s.data[r.s.off]) != TokenNumber {
		return Number{}, r.s.unexpected("number")
	}
	n, err := r.s.scanNumber()
	if err != nil {
		return Number{}, err
	}
	return n, r.endValue()
}

// GetInt64 读取整数
func (r *Reader) GetInt64() (int64, error) {
	start := r.valueStart()
	n, err := r.GetNumber()
	if err != nil {
		return 0, err
	}
	v, err := n.Int64()
	if err != nil {
		return 0, r.ErrorAt(start, fmt.Sprintf("expected integer but got '%s'", n.Text))
	}
	return v, nil
}

// GetInt 读取 int 范围内的整数
func (r *Reader) GetInt() (int, error) {
	start := r.valueStart()
	v, err := r.GetInt64()
	if err != nil {
		return 0, err
	}
	if strconv.IntSize == 32 && (v < math.MinInt32 || v > math.MaxInt32) {
		return 0, r.ErrorAt(start, "integer out of range")
	}
	return int(v), nil
}

// GetFloat 读取浮点数
func (r *Reader) GetFloat() (float64, error) {
	start := r.valueStart()
	n, err := r.GetNumber()
	if err != nil {
		return 0, err
	}
	f, err := n.Float64()
	if err != nil {
		return 0, r.ErrorAt(start, fmt.Sprintf("number '%s' out of range", n.Text))
	}
	return f, nil
}

// GetBool 读取布尔值
func (r *Reader) GetBool() (bool, error) {
	r.beforeValue()
	if r.s.eof() {
		return false, r.s.unexpected("bool")
	}
	var err error
	v := false
	switch r.s.data[r.s.off] {
	case 't':
		v = true
		err = r.s.scanLiteral("true", "bool")
	case 'f':
		err = r.s.scanLiteral("false", "bool")
	default:
		err = r.s.unexpected("bool")
	}
	if err != nil {
		return false, err
	}
	return v, r.endValue()
}

// GetNull 读取 null
func (r *Reader) GetNull() error {
	r.beforeValue()
	if r.s.eof() {
		return r.s.unexpected("null")
	}
	if err := r.s.scanLiteral("null", "null"); err != nil {
		return err
	}
	return r.endValue()
}

// StartArray 进入数组
func (r *Reader) StartArray() error {
	return r.start('[', ']', "array")
}

// EndArray 到达数组末尾时消费 ']' 并返回 true
func (r *Reader) EndArray() (bool, error) {
	return r.end(']', '}')
}

// StartObject 进入对象
func (r *Reader) StartObject() error {
	return r.start('{', '}', "object")
}

// EndObject 到达对象末尾时消费 '}' 并返回 true
func (r *Reader) EndObject() (bool, error) {
	return r.end('}', ']')
}

func (r *Reader) start(opener, closer byte, what string) error {
	r.beforeValue()
	if r.s.eof() || r.s.data[r.s.off] != opener {
		return r.s.unexpected(what)
	}
	if len(r.closers) >= r.opts.MaxDepth {
		return r.s.errorAt(r.s.off, fmt.Sprintf("maximum nesting depth of %d exceeded", r.opts.MaxDepth))
	}
	r.s.off++
	r.closers += string(closer)
	return nil
}

func (r *Reader) end(closer, other byte) (bool, error) {
	r.s.skipWhitespace()
	if r.s.eof() {
		return false, r.s.eofError(fmt.Sprintf("couldn't find '%c', reached EOF.", closer))
	}
	switch r.s.data[r.s.off] {
	case closer:
	case other:
		return false, r.s.errorAt(r.s.off, fmt.Sprintf("expected '%c' but got '%c'", closer, other))
	default:
		return false, nil
	}
	if len(r.closers) == 0 || r.closers[len(r.closers)-1] != closer {
		return false, r.s.errorAt(r.s.off, fmt.Sprintf("unexpected '%c'", closer))
	}
	if r.comma >= 0 {
		return false, r.s.errorAt(r.comma, "trailing comma is not allowed")
	}
	r.s.off++
	r.closers = r.closers[:len(r.closers)-1]
	return true, r.endValue()
}

// GetMemberName 读取成员名并消费其后的 ':'
func (r *Reader) GetMemberName() (string, error) {
	r.beforeValue()
	name, err := r.s.scanString()
	if err != nil {
		return "", err
	}
	r.s.skipWhitespace()
	if r.s.eof() || r.s.data[r.s.off] != ':' {
		return "", r.s.unexpected("':'")
	}
	r.s.off++
	return name, nil
}

// skipMemberName 跳过成员名和其后的 ':'，不解码
func (r *Reader) skipMemberName() error {
	r.beforeValue()
	if err := r.s.skipString(); err != nil {
		return err
	}
	r.s.skipWhitespace()
	if r.s.eof() || r.s.data[r.s.off] != ':' {
		return r.s.unexpected("':'")
	}
	r.s.off++
	return nil
}

// SkipValue 跳过下一个完整的值
func (r *Reader) SkipValue() error {
	switch k := r.PeekKind(); k {
	case TokenString:
		r.beforeValue()
		if err := r.s.skipString(); err != nil {
			return err
		}
		return r.endValue()
	case TokenNumber:
		_, err := r.GetNumber()
		return err
	case TokenBool:
		_, err := r.GetBool()
		return err
	case TokenNull:
		return r.GetNull()
	case TokenArrayStart:
		if err := r.StartArray(); err != nil {
			return err
		}
		for {
			done, err := r.EndArray()
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			if err := r.SkipValue(); err != nil {
				return err
			}
		}
	case TokenObjectStart:
		if err := r.StartObject(); err != nil {
			return err
		}
		for {
			done, err := r.EndObject()
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			if err := r.skipMemberName(); err != nil {
				return err
			}
			if err := r.SkipValue(); err != nil {
				return err
			}
		}
	case TokenEOF:
		return r.s.eofError("couldn't find value, reached EOF.")
	default:
		return r.s.unexpected("value")
	}
}

// GetValue 将下一个值读成树
func (r *Reader) GetValue() (Value, error) {
	switch r.PeekKind() {
	case TokenString:
		s, err := r.GetString()
		return StringValue(s), err
	case TokenNumber:
		n, err := r.GetNumber()
		return NumberValue(n), err
	case TokenBool:
		b, err := r.GetBool()
		return BoolValue(b), err
	case TokenNull:
		return NullValue(), r.GetNull()
	case TokenArrayStart:
		if err := r.StartArray(); err != nil {
			return Value{}, err
		}
		var elems []Value
		for {
			done, err := r.EndArray()
			if err != nil {
				return Value{}, err
			}
			if done {
				return ArrayValue(elems...), nil
			}
			v, err := r.GetValue()
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, v)
		}
	case TokenObjectStart:
		if err := r.StartObject(); err != nil {
			return Value{}, err
		}
		var members []Member
		for {
			done, err := r.EndObject()
			if err != nil {
				return Value{}, err
			}
			if done {
				return ObjectValue(members...), nil
			}
			name, err := r.GetMemberName()
			if err != nil {
				return Value{}, err
			}
			v, err := r.GetValue()
			if err != nil {
				return Value{}, err
			}
			members = append(members, Member{Name: name, Value: v})
		}
	case TokenEOF:
		return Value{}, r.s.eofError("couldn't find value, reached EOF.")
	default:
		return Value{}, r.s.unexpected("value")
	}
}

// Finish 确认输入中只剩空白
func (r *Reader) Finish() error {
	r.s.skipWhitespace()
	if !r.s.eof() {
		return r.s.errorAt(r.s.off, fmt.Sprintf("unexpected '%s' after the end of the document", r.s.charAt(r.s.off)))
	}
	return nil
}
