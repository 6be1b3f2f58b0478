package translation

import (
	"github.com/cxykevin/contentio/library/json"
)

const (
	msgAutogenerate   = "Cannot autogenerate plural form.  Please specify the plural form explicitly."
	msgSpNotSupported = "str_sp not supported here"
	msgPlNotSupported = "str_pl not supported here"
	msgSpCombined     = `"str_sp" cannot be combined with "str" or "str_pl"`
	msgPlUnnecessary  = `"str_pl" is not necessary here since the plural form can be automatically generated.`
	msgUseSp          = `Please use "str_sp" instead of "str" and "str_pl" for text with identical singular and plural forms`
)

// ReadJSON 读取字符串或 {"str", "str_pl", "str_sp", "ctxt"} 对象
// 风格问题只作为警告报告，不影响读取结果；t 原有的 NeedsPlural 决定是否接受复数成员。
func (t *Translation) ReadJSON(r *json.Reader) error {
	opts := r.Options()
	if r.PeekKind() == json.TokenString {
		start := r.Tell()
		s, err := r.GetString()
		if err != nil {
			return err
		}
		if t.needsPlural && opts.CheckPlural && !canAutogeneratePlural(s) {
			return r.ErrorAt(start, msgAutogenerate)
		}
		if opts.CheckStyle && !t.needsPlural {
			checkSpacing(r, start, s)
		}
		*t = Translation{raw: s, needsPlural: t.needsPlural}
		return nil
	}

	obj, err := r.GetObject()
	if err != nil {
		return err
	}
	nolint := obj.Has(NolintMember)
	out := Translation{needsPlural: t.needsPlural}
	if obj.Has("ctxt") {
		if out.ctxt, err = obj.GetString("ctxt"); err != nil {
			return err
		}
	}

	if obj.Has("str_sp") {
		if !t.needsPlural {
			return obj.ErrorAt("str_sp", msgSpNotSupported)
		}
		if obj.Has("str") || obj.Has("str_pl") {
			return obj.ErrorAt("str_sp", msgSpCombined)
		}
		s, _, err := stringMember(obj, "str_sp")
		if err != nil {
			return err
		}
		out.raw, out.rawPl, out.kind = s, s, SameForm
		*t = out
		return nil
	}

	s, start, err := stringMember(obj, "str")
	if err != nil {
		return err
	}
	out.raw = s
	if obj.Has("str_pl") {
		if !t.needsPlural {
			return obj.ErrorAt("str_pl", msgPlNotSupported)
		}
		pl, _, err := stringMember(obj, "str_pl")
		if err != nil {
			return err
		}
		out.rawPl, out.kind = pl, WithPlural
		if opts.CheckStyle && !nolint {
			switch {
			case pl == s:
				r.Warn(obj.ErrorAt("str_pl", msgUseSp))
			case pl == s+"s" && canAutogeneratePlural(s):
				r.Warn(obj.ErrorAt("str_pl", msgPlUnnecessary))
			}
		}
	} else if t.needsPlural && opts.CheckPlural && !nolint && !canAutogeneratePlural(s) {
		return obj.ErrorAt("str", msgAutogenerate)
	}
	if opts.CheckStyle && !t.needsPlural && !nolint {
		checkSpacing(r, start, s)
	}
	*t = out
	return nil
}

// stringMember 读取字符串成员，同时返回其开头引号的偏移
func stringMember(obj *json.Object, name string) (string, int, error) {
	if err := obj.Seek(name); err != nil {
		return "", 0, err
	}
	defer obj.End()
	r := obj.Reader()
	r.PeekKind() // 跳过空白
	start := r.Tell()
	s, err := r.GetString()
	return s, start, err
}

// checkSpacing 报告第一个句末标点后空格不足的位置
func checkSpacing(r *json.Reader, start int, s string) {
	i := sentenceGap(s)
	if i < 0 {
		return
	}
	// 开头引号算第 0 个字符
	r.Warn(r.StringError(start, i+1, msgInsufficientSpaces, fixInsertSpace))
}

// WriteJSON 能写成字符串时写字符串，否则写对象
func (t Translation) WriteJSON(w *json.Writer) {
	if t.ctxt == "" && t.kind == Plain {
		w.String(t.raw)
		return
	}
	w.StartObject()
	if t.ctxt != "" {
		w.Member("ctxt", t.ctxt)
	}
	switch t.kind {
	case SameForm:
		w.Member("str_sp", t.raw)
	case WithPlural:
		w.Member("str", t.raw)
		w.Member("str_pl", t.rawPl)
	default:
		w.Member("str", t.raw)
	}
	w.EndObject()
}
