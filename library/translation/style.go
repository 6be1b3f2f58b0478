package translation

import (
	"strings"
	"unicode"
)

const (
	msgInsufficientSpaces = "insufficient spaces at this location.  2 required, but only 1 found."
	fixInsertSpace        = `insert " "`
)

// abbreviations 句点后只跟一个空格也不算断句的缩写
var abbreviations = map[string]bool{
	"e.g":    true,
	"i.e":    true,
	"etc":    true,
	"vs":     true,
	"mr":     true,
	"mrs":    true,
	"ms":     true,
	"dr":     true,
	"st":     true,
	"no":     true,
	"approx": true,
}

// sentenceGap 返回第一个后面只跟一个空格的句末标点的字符下标，没有则返回 -1
func sentenceGap(s string) int {
	runes := []rune(s)
	for i, c := range runes {
		if c != '.' && c != '?' && c != '!' {
			continue
		}
		if i+2 >= len(runes) || runes[i+1] != ' ' || unicode.IsSpace(runes[i+2]) {
			continue
		}
		if c == '.' && (i > 0 && runes[i-1] == '.') {
			// 省略号
			continue
		}
		if c == '.' && isAbbreviation(runes[:i]) {
			continue
		}
		return i
	}
	return -1
}

// isAbbreviation 判断句点前的单词是否为缩写或姓名首字母
func isAbbreviation(before []rune) bool {
	start := len(before)
	for start > 0 && !unicode.IsSpace(before[start-1]) {
		start--
	}
	word := strings.TrimLeft(string(before[start:]), `("'`)
	if word == "" {
		return false
	}
	if w := []rune(word); len(w) == 1 && unicode.IsUpper(w[0]) {
		return true
	}
	return abbreviations[strings.ToLower(word)]
}
