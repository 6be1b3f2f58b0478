package json

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// DecodeSource 将源文本规范化为 UTF-8
// 仅在显式指定编码或带 BOM 时转码，其余字节原样保留以便精确报告非法 UTF-8。
func DecodeSource(content []byte, label string) ([]byte, error) {
	if label != "" {
		enc, name := charset.Lookup(label)
		if enc == nil {
			return nil, fmt.Errorf("unknown encoding %q", label)
		}
		if name == "utf-8" {
			return bytes.TrimPrefix(content, bomUTF8), nil
		}
		return transformAll(content, enc.NewDecoder())
	}
	switch {
	case bytes.HasPrefix(content, bomUTF8):
		return content[len(bomUTF8):], nil
	case bytes.HasPrefix(content, bomUTF16BE):
		return transformAll(content, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder())
	case bytes.HasPrefix(content, bomUTF16LE):
		return transformAll(content, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder())
	}
	return content, nil
}

func transformAll(content []byte, t transform.Transformer) ([]byte, error) {
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(content), t))
	if err != nil {
		return nil, fmt.Errorf("failed to decode source: %w", err)
	}
	return decoded, nil
}
