package json

import (
	"errors"
	"strings"
)

// JSONError 带位置信息的解析/校验错误，构造后不可变
type JSONError struct {
	Message string
	Fix     string // 可自动修复时给出的建议
	Pos     Position
	EOF     bool // 到达输入末尾，没有可标注的位置
	excerpt string
}

// Error 输出多行诊断文本
func (e *JSONError) Error() string {
	var b strings.Builder
	b.WriteString("Json error: ")
	if e.EOF {
		b.WriteString(e.Pos.Source)
		b.WriteString(":EOF: ")
		b.WriteString(e.Message)
		return b.String()
	}
	b.WriteString(e.Pos.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.excerpt == "" {
		return b.String()
	}
	b.WriteByte('\n')
	if e.Fix != "" {
		b.WriteString("    Suggested fix: ")
		b.WriteString(e.Fix)
		b.WriteByte('\n')
		b.WriteString("    At the following position (marked with caret)\n")
	}
	b.WriteByte('\n')
	b.WriteString(e.excerpt)
	return b.String()
}

// Excerpt 返回渲染好的源码摘录
func (e *JSONError) Excerpt() string {
	return e.excerpt
}

// newError 在 offset 处构造错误；摘录渲染失败时退化为只有消息头
func newError(t *PositionTracker, offset int, msg, fix string) (err *JSONError) {
	err = &JSONError{
		Message: msg,
		Fix:     fix,
		Pos:     Position{Source: t.Source(), Offset: offset},
	}
	defer func() {
		if r := recover(); r != nil {
			err.excerpt = ""
		}
	}()
	err.Pos = t.PositionAt(offset)
	err.excerpt = t.Excerpt(offset)
	return err
}

// newEOFError 构造 EOF 类错误，不带位置和摘录
func newEOFError(t *PositionTracker, msg string) *JSONError {
	return &JSONError{
		Message: msg,
		Pos:     Position{Source: t.Source(), Offset: t.Len()},
		EOF:     true,
	}
}

// AsJSONError 从错误链中取出 *JSONError
func AsJSONError(err error) (*JSONError, bool) {
	var je *JSONError
	if errors.As(err, &je) {
		return je, true
	}
	return nil, false
}

// IsEOF 判断是否为提前到达输入末尾的错误
func IsEOF(err error) bool {
	je, ok := AsJSONError(err)
	return ok && je.EOF
}
