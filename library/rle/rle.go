// Package rle 将相邻的等价元素折叠为 [count, element] 组
package rle

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/cxykevin/contentio/library/json"
)

// DefaultMaxRun 单个组允许的最大重复次数
const DefaultMaxRun = 1 << 20

// Codec 元素的等价判定与读写方式
type Codec[T any] struct {
	Equal  func(a, b T) bool
	Write  func(w *json.Writer, v T)
	Read   func(r *json.Reader) (T, error)
	Clone  func(v T) T // 为空时通过重新解析代表元素得到副本
	MaxRun int
}

func (c Codec[T]) maxRun() int {
	if c.MaxRun <= 0 {
		return DefaultMaxRun
	}
	return c.MaxRun
}

// startsWithArray 判断元素的编码是否以 '[' 开头，这类元素单独出现时必须包装
func (c Codec[T]) startsWithArray(v T) bool {
	var buf bytes.Buffer
	tmp := json.NewWriter(&buf)
	c.Write(tmp, v)
	return strings.HasPrefix(buf.String(), "[")
}

// Write 写出序列，严格按相邻等价折叠
func Write[T any](w *json.Writer, seq []T, c Codec[T]) {
	max := c.maxRun()
	w.StartArray()
	for i := 0; i < len(seq); {
		j := i + 1
		for j < len(seq) && j-i < max && c.Equal(seq[i], seq[j]) {
			j++
		}
		count := j - i
		if count > 1 || c.startsWithArray(seq[i]) {
			w.StartArray()
			w.Int(count)
			c.Write(w, seq[i])
			w.EndArray()
		} else {
			c.Write(w, seq[i])
		}
		i = j
	}
	w.EndArray()
}

// Read 读取序列并展开所有组；格式错误的组和元素被跳过并给出警告，EOF 直接返回
func Read[T any](r *json.Reader, c Codec[T]) ([]T, error) {
	if err := r.StartArray(); err != nil {
		return nil, err
	}
	out := make([]T, 0)
	for {
		done, err := r.EndArray()
		if err != nil {
			return nil, err
		}
		if done {
			return out, nil
		}
		if r.PeekKind() == json.TokenArrayStart {
			items, err := readGroup(r, c)
			if err != nil {
				return nil, err
			}
			out = append(out, items...)
			continue
		}
		m := r.Mark()
		v, err := c.Read(r)
		if err != nil {
			if err := skip(r, m, err); err != nil {
				return nil, err
			}
			continue
		}
		out = append(out, v)
	}
}

// skip 报告警告后回到 m 并跳过该值
func skip(r *json.Reader, m json.Mark, cause error) error {
	if json.IsEOF(cause) {
		return cause
	}
	r.Warn(cause)
	r.Restore(m)
	return r.SkipValue()
}

func readGroup[T any](r *json.Reader, c Codec[T]) ([]T, error) {
	start := r.Mark()
	fail := func(err error) ([]T, error) {
		return nil, skip(r, start, err)
	}
	if err := r.StartArray(); err != nil {
		return fail(err)
	}
	if r.PeekKind() != json.TokenNumber {
		return fail(r.Error("invalid run-length group: expected a positive integer count"))
	}
	countOff := r.Tell()
	n, err := r.GetNumber()
	if err != nil {
		return fail(err)
	}
	count, err := n.Int64()
	if err != nil || count < 1 {
		return fail(r.ErrorAt(countOff, fmt.Sprintf("invalid run-length count '%s'", n.Text)))
	}
	if count > int64(c.maxRun()) {
		return fail(r.ErrorAt(countOff, fmt.Sprintf("run-length count %d exceeds the limit of %d", count, c.maxRun())))
	}
	reprMark := r.Mark()
	repr, err := c.Read(r)
	if err != nil {
		return fail(err)
	}
	done, err := r.EndArray()
	if err != nil {
		return fail(err)
	}
	if !done {
		return fail(r.ErrorAt(start.Offset(), "run-length group must have exactly 2 elements"))
	}

	items := make([]T, 0, count)
	items = append(items, repr)
	for i := int64(1); i < count; i++ {
		if c.Clone != nil {
			items = append(items, c.Clone(repr))
			continue
		}
		// 重新解析代表元素得到独立副本
		after := r.Mark()
		r.Restore(reprMark)
		cp, err := c.Read(r)
		r.Restore(after)
		if err != nil {
			return fail(err)
		}
		items = append(items, cp)
	}
	return items, nil
}
