package json

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// DefaultSource 未指定来源时诊断信息中使用的名称
const DefaultSource = "<unknown source file>"

const (
	contextLinesBefore = 3
	contextLinesAfter  = 3
)

// widthCond 固定按非东亚宽度计算，避免插入符位置随终端 locale 变化
var widthCond = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// Position 源文本中的位置
type Position struct {
	Source string
	Line   int // 从 1 开始
	Column int // 从 1 开始，按字符（而非字节）计
	Offset int // 从 0 开始的字节偏移
}

// String 以 source:line:col 形式输出
func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Source, p.Line, p.Column)
}

// IsValid 行号为 0 的位置无效
func (p Position) IsValid() bool {
	return p.Line > 0
}

// PositionTracker 将字节偏移换算为行列并渲染带插入符的源码摘录
//
// 行首索引按需增量建立，只会遍历已驻留内存的输入，不修改任何状态之外的内容。
type PositionTracker struct {
	data       []byte
	source     string
	lineStarts []int
	indexed    int
}

// NewPositionTracker 创建位置追踪器
func NewPositionTracker(data []byte, source string) *PositionTracker {
	if source == "" {
		source = DefaultSource
	}
	return &PositionTracker{
		data:       data,
		source:     source,
		lineStarts: []int{0},
	}
}

// Source 返回来源名称
func (t *PositionTracker) Source() string {
	return t.source
}

// Len 输入长度
func (t *PositionTracker) Len() int {
	return len(t.data)
}

func (t *PositionTracker) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(t.data) {
		return len(t.data)
	}
	return offset
}

// index 将行首索引扩展到 offset
func (t *PositionTracker) index(offset int) {
	for i := t.indexed; i < offset; i++ {
		switch t.data[i] {
		case '\n':
			t.lineStarts = append(t.lineStarts, i+1)
		case '\r':
			// 单独的 \r 也算换行，\r\n 只在 \n 处计一次
			if i+1 >= len(t.data) || t.data[i+1] != '\n' {
				t.lineStarts = append(t.lineStarts, i+1)
			}
		}
	}
	if offset > t.indexed {
		t.indexed = offset
	}
}

// lineOf 返回 offset 所在行的下标（从 0 开始）
func (t *PositionTracker) lineOf(offset int) int {
	t.index(offset)
	return sort.Search(len(t.lineStarts), func(i int) bool {
		return t.lineStarts[i] > offset
	}) - 1
}

// lineEnd 返回从 start 开始的行的结束位置（不含换行符）
func (t *PositionTracker) lineEnd(start int) int {
	if i := bytes.IndexAny(t.data[start:], "\r\n"); i >= 0 {
		return start + i
	}
	return len(t.data)
}

// nextLine 跳过 end 处的换行符，返回下一行的行首
func (t *PositionTracker) nextLine(end int) int {
	if end < len(t.data) && t.data[end] == '\r' {
		end++
	}
	if end < len(t.data) && t.data[end] == '\n' {
		end++
	}
	return end
}

// PositionAt 计算 offset 处的行列
func (t *PositionTracker) PositionAt(offset int) Position {
	offset = t.clamp(offset)
	line := t.lineOf(offset)
	start := t.lineStarts[line]
	return Position{
		Source: t.source,
		Line:   line + 1,
		Column: t.columnOf(start, offset),
		Offset: offset,
	}
}

// columnOf 统计行首到 offset 之间的字符数
// 字符串字面量不会跨行，因此引号状态从行首开始追踪即可。
func (t *PositionTracker) columnOf(start, offset int) int {
	col := 1
	inString := false
	for i := start; i < offset; {
		n := charLen(t.data, i, inString)
		if i+n > offset {
			// offset 落在多字节序列或转义序列内部，归到该字符起点
			break
		}
		if t.data[i] == '"' {
			inString = !inString
		}
		i += n
		col++
	}
	return col
}

// CharOffset 返回以 start 处引号开头的字符串字面量中第 n 个字符的字节偏移
// 开头的引号为第 0 个字符，一个转义序列算一个字符。
func (t *PositionTracker) CharOffset(start, n int) int {
	i := t.clamp(start)
	inString := false
	for k := 0; k < n && i < len(t.data); k++ {
		if t.data[i] == '"' {
			if inString {
				return i
			}
			inString = true
			i++
			continue
		}
		i += charLen(t.data, i, inString)
	}
	return i
}

// charLen 返回 i 处一个字符占用的字节数
func charLen(data []byte, i int, inString bool) int {
	c := data[i]
	if inString && c == '\\' {
		return escapeLen(data, i)
	}
	if c < utf8.RuneSelf {
		return 1
	}
	_, size := utf8.DecodeRune(data[i:])
	return size
}

// escapeLen 返回 i 处转义序列的字节数，代理对按一个字符计
// 非法转义只计反斜杠本身，使错误能定位到其后的字符。
func escapeLen(data []byte, i int) int {
	if i+1 >= len(data) {
		return 1
	}
	switch data[i+1] {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return 2
	case 'u':
	default:
		return 1
	}
	if !isHex4(data, i+2) {
		return 1
	}
	hi := hex4(data[i+2:])
	if hi >= 0xD800 && hi < 0xDC00 && i+12 <= len(data) &&
		data[i+6] == '\\' && data[i+7] == 'u' && isHex4(data, i+8) {
		if lo := hex4(data[i+8:]); lo >= 0xDC00 && lo <= 0xDFFF {
			return 12
		}
	}
	return 6
}

func isHex4(data []byte, i int) bool {
	if i+4 > len(data) {
		return false
	}
	for _, c := range data[i : i+4] {
		if _, ok := hexValue(c); !ok {
			return false
		}
	}
	return true
}

func hex4(data []byte) rune {
	var r rune
	for _, c := range data[:4] {
		v, _ := hexValue(c)
		r = r<<4 | rune(v)
	}
	return r
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Excerpt 渲染 offset 附近的源码，并在出错字符下方标出插入符
func (t *PositionTracker) Excerpt(offset int) string {
	offset = t.clamp(offset)
	line := t.lineOf(offset)
	var b strings.Builder

	first := line - contextLinesBefore
	if first < 0 {
		first = 0
	}
	for l := first; l < line; l++ {
		start := t.lineStarts[l]
		b.Write(t.data[start:t.lineEnd(start)])
		b.WriteByte('\n')
	}

	start := t.lineStarts[line]
	end := t.lineEnd(start)
	text := string(t.data[start:end])
	rel := offset - start
	if rel > len(text) {
		rel = len(text)
	}
	prefix := text[:rel]
	ch := ""
	if rel < len(text) {
		_, size := utf8.DecodeRuneInString(text[rel:])
		ch = text[rel : rel+size]
	}

	b.WriteString(prefix)
	if ch != "" && !isWhitespace(ch[0]) {
		b.WriteString(ch)
	}
	b.WriteByte('\n')
	pad := displayWidth(prefix)
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString("^\n")
	if rest := text[rel+len(ch):]; rest != "" {
		b.WriteString(strings.Repeat(" ", pad+displayWidth(ch)))
		b.WriteString(rest)
		b.WriteByte('\n')
	}

	next := t.nextLine(end)
	for l := 0; l < contextLinesAfter && next < len(t.data); l++ {
		e := t.lineEnd(next)
		b.Write(t.data[next:e])
		b.WriteByte('\n')
		next = t.nextLine(e)
	}
	return b.String()
}

// displayWidth 终端显示宽度，控制字符和非法字节按 1 列计
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		rw := widthCond.RuneWidth(r)
		if rw == 0 && (r < 0x20 || r == utf8.RuneError) {
			rw = 1
		}
		w += rw
	}
	return w
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
