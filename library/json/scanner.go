package json

import (
	"bytes"
	"fmt"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

const msgStringEOF = "couldn't find end of string, reached EOF."

// scanner 字节级词法扫描，所有错误都通过 PositionTracker 定位
type scanner struct {
	data    []byte
	off     int
	tracker *PositionTracker
}

func newScanner(data []byte, source string) *scanner {
	return &scanner{
		data:    data,
		tracker: NewPositionTracker(data, source),
	}
}

func (s *scanner) eof() bool {
	return s.off >= len(s.data)
}

func (s *scanner) skipWhitespace() {
	for s.off < len(s.data) && isWhitespace(s.data[s.off]) {
		s.off++
	}
}

func (s *scanner) errorAt(offset int, msg string) *JSONError {
	return newError(s.tracker, offset, msg, "")
}

func (s *scanner) eofError(msg string) *JSONError {
	return newEOFError(s.tracker, msg)
}

// charAt 返回 offset 处完整的一个字符，用于错误信息
func (s *scanner) charAt(offset int) string {
	if offset >= len(s.data) {
		return ""
	}
	_, size := utf8.DecodeRune(s.data[offset:])
	return string(s.data[offset : offset+size])
}

// unexpected 构造 "expected <what> but got 'c'" 错误
func (s *scanner) unexpected(what string) *JSONError {
	if s.eof() {
		return s.eofError(fmt.Sprintf("expected %s but reached EOF.", what))
	}
	return s.errorAt(s.off, fmt.Sprintf("expected %s but got '%s'", what, s.charAt(s.off)))
}

// scanString 读取并解码一个字符串字面量
func (s *scanner) scanString() (string, error) {
	if s.eof() {
		return "", s.eofError(msgStringEOF)
	}
	if s.data[s.off] != '"' {
		return "", s.unexpected("string")
	}
	s.off++
	buf := make([]byte, 0, 16)
	for {
		if s.eof() {
			return "", s.eofError(msgStringEOF)
		}
		c := s.data[s.off]
		switch {
		case c == '"':
			s.off++
			return string(buf), nil
		case c == '\\':
			var err error
			if buf, err = s.scanEscape(buf); err != nil {
				return "", err
			}
		case c == '\n' || c == '\r':
			return "", s.errorAt(s.off, "reached end of line without closing string")
		case c < utf8.RuneSelf:
			buf = append(buf, c)
			s.off++
		default:
			var err error
			if buf, err = s.scanUTF8(buf); err != nil {
				return "", err
			}
		}
	}
}

// skipString 只寻找未转义的结束引号，不解码内容
// 非法转义和 UTF-8 留给 scanString 报告，这样出错的值仍然可以被跳过。
func (s *scanner) skipString() error {
	if s.eof() {
		return s.eofError(msgStringEOF)
	}
	if s.data[s.off] != '"' {
		return s.unexpected("string")
	}
	s.off++
	for {
		if s.eof() {
			return s.eofError(msgStringEOF)
		}
		switch s.data[s.off] {
		case '"':
			s.off++
			return nil
		case '\\':
			s.off += 2
		case '\n', '\r':
			return s.errorAt(s.off, "reached end of line without closing string")
		default:
			s.off++
		}
	}
}

// scanEscape 解码 s.off 处以反斜杠开头的转义序列
func (s *scanner) scanEscape(buf []byte) ([]byte, error) {
	start := s.off
	s.off++
	if s.eof() {
		return buf, s.eofError(msgStringEOF)
	}
	switch c := s.data[s.off]; c {
	case '"', '\\', '/':
		buf = append(buf, c)
	case 'b':
		buf = append(buf, '\b')
	case 'f':
		buf = append(buf, '\f')
	case 'n':
		buf = append(buf, '\n')
	case 'r':
		buf = append(buf, '\r')
	case 't':
		buf = append(buf, '\t')
	case 'u':
		s.off++
		r, err := s.scanHex4()
		if err != nil {
			return buf, err
		}
		if utf16.IsSurrogate(r) {
			if r >= 0xDC00 {
				return buf, s.errorAt(start, "invalid unicode codepoint")
			}
			// 高代理后必须紧跟低代理转义
			if s.off+1 >= len(s.data) {
				return buf, s.eofError(msgStringEOF)
			}
			if s.data[s.off] != '\\' || s.data[s.off+1] != 'u' {
				return buf, s.errorAt(s.off, "invalid unicode codepoint")
			}
			lowStart := s.off
			s.off += 2
			lo, err := s.scanHex4()
			if err != nil {
				return buf, err
			}
			if lo < 0xDC00 || lo > 0xDFFF {
				return buf, s.errorAt(lowStart, "invalid unicode codepoint")
			}
			r = utf16.DecodeRune(r, lo)
		}
		return utf8.AppendRune(buf, r), nil
	default:
		return buf, s.errorAt(s.off, "invalid escape sequence")
	}
	s.off++
	return buf, nil
}

func (s *scanner) scanHex4() (rune, error) {
	var r rune
	for i := 0; i < 4; i++ {
		if s.eof() {
			return 0, s.eofError(msgStringEOF)
		}
		v, ok := hexValue(s.data[s.off])
		if !ok {
			return 0, s.errorAt(s.off, "expected hex digit")
		}
		r = r<<4 | rune(v)
		s.off++
	}
	return r, nil
}

// scanUTF8 手工解码多字节序列，兼容旧式 5/6 字节前导以便准确报告超范围码点
func (s *scanner) scanUTF8(buf []byte) ([]byte, error) {
	c := s.data[s.off]
	var n int
	var cp rune
	switch {
	case c&0xE0 == 0xC0:
		n, cp = 1, rune(c&0x1F)
	case c&0xF0 == 0xE0:
		n, cp = 2, rune(c&0x0F)
	case c&0xF8 == 0xF0:
		n, cp = 3, rune(c&0x07)
	case c&0xFC == 0xF8:
		n, cp = 4, rune(c&0x03)
	case c&0xFE == 0xFC:
		n, cp = 5, rune(c&0x01)
	default:
		return buf, s.errorAt(s.off, "invalid utf8 sequence")
	}
	s.off++
	for i := 0; i < n; i++ {
		if s.eof() {
			return buf, s.eofError(msgStringEOF)
		}
		b := s.data[s.off]
		if b&0xC0 != 0x80 {
			return buf, s.errorAt(s.off, "invalid utf8 sequence")
		}
		cp = cp<<6 | rune(b&0x3F)
		s.off++
	}
	if cp > unicode.MaxRune || utf16.IsSurrogate(cp) {
		return buf, s.errorAt(s.off-1, "invalid unicode codepoint")
	}
	return utf8.AppendRune(buf, cp), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// scanDigits 至少读取一位数字
func (s *scanner) scanDigits() error {
	if s.eof() || !isDigit(s.data[s.off]) {
		return s.unexpected("digit")
	}
	for s.off < len(s.data) && isDigit(s.data[s.off]) {
		s.off++
	}
	return nil
}

// scanNumber 读取数字字面量，调用方保证首字符为 '-' 或数字
func (s *scanner) scanNumber() (Number, error) {
	start := s.off
	if s.data[s.off] == '-' {
		s.off++
	}
	if err := s.scanDigits(); err != nil {
		return Number{}, err
	}
	float := false
	if s.off < len(s.data) && s.data[s.off] == '.' {
		float = true
		s.off++
		if err := s.scanDigits(); err != nil {
			return Number{}, err
		}
	}
	if s.off < len(s.data) && (s.data[s.off] == 'e' || s.data[s.off] == 'E') {
		float = true
		s.off++
		if s.off < len(s.data) && (s.data[s.off] == '+' || s.data[s.off] == '-') {
			s.off++
		}
		if err := s.scanDigits(); err != nil {
			return Number{}, err
		}
	}
	return Number{Text: string(s.data[start:s.off]), Float: float}, nil
}

// scanLiteral 读取 true/false/null
func (s *scanner) scanLiteral(word, what string) error {
	if !bytes.HasPrefix(s.data[s.off:], []byte(word)) {
		return s.unexpected(what)
	}
	end := s.off + len(word)
	if end < len(s.data) && isIdentChar(s.data[end]) {
		return s.errorAt(end, fmt.Sprintf("unexpected character '%s' after %s", s.charAt(end), word))
	}
	s.off = end
	return nil
}

func isIdentChar(c byte) bool {
	return c == '_' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// next 读取下一个词法单元
func (s *scanner) next() (Token, error) {
	s.skipWhitespace()
	if s.eof() {
		return Token{Kind: TokenEOF, Offset: s.off}, nil
	}
	start := s.off
	c := s.data[s.off]
	kind := kindOf(c)
	tok := Token{Kind: kind, Offset: start}
	switch kind {
	case TokenString:
		str, err := s.scanString()
		if err != nil {
			return tok, err
		}
		tok.Text = str
	case TokenNumber:
		n, err := s.scanNumber()
		if err != nil {
			return tok, err
		}
		tok.Number = n
	case TokenBool:
		word := "false"
		if c == 't' {
			word = "true"
		}
		if err := s.scanLiteral(word, "bool"); err != nil {
			return tok, err
		}
		tok.Bool = c == 't'
	case TokenNull:
		if err := s.scanLiteral("null", "null"); err != nil {
			return tok, err
		}
	case TokenInvalid:
		return tok, s.errorAt(start, fmt.Sprintf("unexpected character '%s'", s.charAt(start)))
	default:
		s.off++
	}
	return tok, nil
}
