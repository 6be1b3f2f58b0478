package json

import (
	"fmt"
	"math"
	"strconv"
)

// TokenKind 词法单元类型
type TokenKind int

const (
	TokenInvalid TokenKind = iota
	TokenString
	TokenNumber
	TokenBool
	TokenNull
	TokenArrayStart
	TokenArrayEnd
	TokenObjectStart
	TokenObjectEnd
	TokenMemberSep
	TokenComma
	TokenEOF
)

// String 返回类型名，用于 "expected <type>" 类错误
func (k TokenKind) String() string {
	switch k {
	case TokenInvalid:
		return "invalid"
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenBool:
		return "bool"
	case TokenNull:
		return "null"
	case TokenArrayStart:
		return "array"
	case TokenArrayEnd:
		return "array end"
	case TokenObjectStart:
		return "object"
	case TokenObjectEnd:
		return "object end"
	case TokenMemberSep:
		return "member separator"
	case TokenComma:
		return "comma"
	case TokenEOF:
		return "EOF"
	}
	return "unknown"
}

// kindOf 根据首字符判断词法单元类型
func kindOf(c byte) TokenKind {
	switch c {
	case '"':
		return TokenString
	case '[':
		return TokenArrayStart
	case ']':
		return TokenArrayEnd
	case '{':
		return TokenObjectStart
	case '}':
		return TokenObjectEnd
	case ':':
		return TokenMemberSep
	case ',':
		return TokenComma
	case 't', 'f':
		return TokenBool
	case 'n':
		return TokenNull
	case '-':
		return TokenNumber
	}
	if c >= '0' && c <= '9' {
		return TokenNumber
	}
	return TokenInvalid
}

// Number 数字字面量，保留原始文本
type Number struct {
	Text  string
	Float bool // 含小数点或指数
}

// Int64 按整数解析，带小数部分的数字返回错误
func (n Number) Int64() (int64, error) {
	if n.Float {
		f, err := strconv.ParseFloat(n.Text, 64)
		if err != nil {
			return 0, err
		}
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, fmt.Errorf("%s is not an integer", n.Text)
		}
		return int64(f), nil
	}
	return strconv.ParseInt(n.Text, 10, 64)
}

// Float64 按浮点数解析
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(n.Text, 64)
}

// String 原始文本
func (n Number) String() string {
	return n.Text
}

// Token 词法单元
type Token struct {
	Kind   TokenKind
	Text   string // 字符串解码后的内容
	Number Number
	Bool   bool
	Offset int
}

// Scan 将整段输入切分为词法单元，只做词法检查不校验结构
func Scan(data []byte, source string) ([]Token, error) {
	s := newScanner(data, source)
	var tokens []Token
	for {
		tok, err := s.next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}
