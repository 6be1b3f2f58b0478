package translation

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

// Catalog 译文查找，由外部的翻译目录实现
type Catalog interface {
	Lookup(ctxt, singular, plural string, n int) (string, bool)
}

// Translated 按 tag 的基数规则为数量 n 选择单数或复数原文
func (t Translation) Translated(tag language.Tag, n int) string {
	if !t.needsPlural {
		return t.raw
	}
	if n < 0 {
		n = -n
	}
	if plural.Cardinal.MatchPlural(tag, n, 0, 0, 0, 0) == plural.One {
		return t.raw
	}
	return t.Plural()
}

// TranslatedWith 先查译文目录，查不到时回退到原文
func (t Translation) TranslatedWith(cat Catalog, tag language.Tag, n int) string {
	if cat != nil && !t.verbatim && t.raw != "" {
		if s, ok := cat.Lookup(t.ctxt, t.raw, t.Plural(), n); ok {
			return s
		}
	}
	return t.Translated(tag, n)
}
