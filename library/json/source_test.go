package json

import (
	"bytes"
	"testing"
)

func TestDecodeSource(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		label   string
		want    []byte
		wantErr bool
	}{
		{"plain utf8", []byte(`"é"`), "", []byte(`"é"`), false},
		{"invalid bytes kept", []byte("\"\x80\""), "", []byte("\"\x80\""), false},
		{"utf8 bom", []byte("\xEF\xBB\xBF[]"), "", []byte("[]"), false},
		{"utf16le bom", []byte{0xFF, 0xFE, '[', 0, ']', 0}, "", []byte("[]"), false},
		{"utf16be bom", []byte{0xFE, 0xFF, 0, '[', 0, ']'}, "", []byte("[]"), false},
		{"latin1 label", []byte{'"', 0xE9, '"'}, "latin1", []byte(`"é"`), false},
		{"utf8 label", []byte("\xEF\xBB\xBF1"), "utf-8", []byte("1"), false},
		{"gbk label", []byte{'"', 0xD6, 0xD0, '"'}, "gbk", []byte(`"中"`), false},
		{"unknown label", []byte("1"), "klingon", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeSource(tt.content, tt.label)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeSource error = %v, wantErr %v", err, tt.wantErr)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("DecodeSource = %q, want %q", got, tt.want)
			}
		})
	}
}
