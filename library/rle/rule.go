package rle

import (
	"fmt"

	"github.com/cxykevin/contentio/library/json"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Rule 可配置的等价规则，表达式中 a、b 为两个相邻元素
type Rule struct {
	src     string
	program *vm.Program
}

// CompileRule 编译等价规则，空串表示结构相等
func CompileRule(src string) (*Rule, error) {
	if src == "" {
		return &Rule{}, nil
	}
	program, err := expr.Compile(src,
		expr.Env(map[string]any{"a": nil, "b": nil}),
		expr.AsBool(),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid equivalence rule %q: %w", src, err)
	}
	return &Rule{src: src, program: program}, nil
}

// String 规则源码
func (r *Rule) String() string {
	if r == nil {
		return ""
	}
	return r.src
}

// Equal 判断两个值是否等价，表达式运行出错时视为不等价
func (r *Rule) Equal(a, b json.Value) bool {
	if r == nil || r.program == nil {
		return a.Equal(b)
	}
	out, err := expr.Run(r.program, map[string]any{
		"a": a.Interface(),
		"b": b.Interface(),
	})
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}

// ValueCodec 按规则折叠任意 JSON 值
func ValueCodec(rule *Rule) Codec[json.Value] {
	return Codec[json.Value]{
		Equal: rule.Equal,
		Write: func(w *json.Writer, v json.Value) { w.Value(v) },
		Read:  func(r *json.Reader) (json.Value, error) { return r.GetValue() },
		Clone: func(v json.Value) json.Value { return v.Clone() },
	}
}
