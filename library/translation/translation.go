// Package translation 可带单复数形式的自然语言文本
package translation

import (
	"strings"
)

// Kind 复数形式的来源
type Kind int

const (
	// Plain 只有单数，复数由单数推导
	Plain Kind = iota
	// WithPlural 显式给出复数
	WithPlural
	// SameForm 单复数相同（str_sp）
	SameForm
)

// String 返回类型名
func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case WithPlural:
		return "with_plural"
	case SameForm:
		return "same_form"
	}
	return "unknown"
}

// NolintMember 出现该成员时跳过文本风格检查
const NolintMember = "//NOLINT(cata-text-style)"

// Translation 一条待翻译文本，零值为空的非复数文本
type Translation struct {
	ctxt        string
	raw         string
	rawPl       string
	kind        Kind
	needsPlural bool
	verbatim    bool
}

// New 非复数文本
func New(s string) Translation {
	return Translation{raw: s}
}

// NewPlural 需要复数的文本，pl 为空时复数自动推导；读取复数文本前也用它构造空值
func NewPlural(s, pl string) Translation {
	t := Translation{raw: s, needsPlural: true}
	if pl != "" {
		t.rawPl = pl
		t.kind = WithPlural
	}
	return t
}

// NewSameForm 单复数相同的文本
func NewSameForm(s string) Translation {
	return Translation{raw: s, rawPl: s, kind: SameForm, needsPlural: true}
}

// NoTranslation 不需要翻译的文本，原样输出
func NoTranslation(s string) Translation {
	return Translation{raw: s, verbatim: true}
}

// WithContext 返回带消息上下文的副本
func (t Translation) WithContext(ctxt string) Translation {
	t.ctxt = ctxt
	return t
}

// Singular 单数原文
func (t Translation) Singular() string {
	return t.raw
}

// Plural 复数原文
func (t Translation) Plural() string {
	switch t.kind {
	case WithPlural:
		return t.rawPl
	case SameForm:
		return t.raw
	}
	if t.needsPlural && t.raw != "" {
		return t.raw + "s"
	}
	return t.raw
}

// Context 消息上下文
func (t Translation) Context() string {
	return t.ctxt
}

// Kind 复数形式的来源
func (t Translation) Kind() Kind {
	return t.kind
}

// NeedsPlural 是否区分单复数
func (t Translation) NeedsPlural() bool {
	return t.needsPlural
}

// Empty 原文是否为空
func (t Translation) Empty() bool {
	return t.raw == ""
}

// Equal 原文、上下文和复数形式都相同
func (t Translation) Equal(o Translation) bool {
	return t.ctxt == o.ctxt && t.raw == o.raw && t.Plural() == o.Plural() &&
		t.needsPlural == o.needsPlural && t.verbatim == o.verbatim
}

// canAutogeneratePlural 是否能通过加 s 得到规则复数
func canAutogeneratePlural(s string) bool {
	lower := strings.ToLower(s)
	for _, suffix := range []string{"s", "x", "z", "ch", "sh"} {
		if strings.HasSuffix(lower, suffix) {
			return false
		}
	}
	if n := len(lower); n >= 2 && lower[n-1] == 'y' && !strings.ContainsRune("aeiou", rune(lower[n-2])) {
		return false
	}
	return true
}
