package core

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestBOMSkippingReader(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{"file with BOM", append([]byte{0xEF, 0xBB, 0xBF}, "a,b"...), "a,b"},
		{"file without BOM", []byte("a,b"), "a,b"},
		{"empty file", []byte{}, ""},
		{"only BOM", []byte{0xEF, 0xBB, 0xBF}, ""},
		{"partial BOM kept", []byte{0xEF, 0xBB, 'a'}, string([]byte{0xEF, 0xBB, 'a'})},
		{"short file", []byte("a"), "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(NewBOMSkippingReader(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestUTF8Sanitizer(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{"ascii", []byte("a,b"), "a,b"},
		{"multibyte kept", []byte("Zürich,東京"), "Zürich,東京"},
		{"invalid byte replaced", []byte{'h', 'e', 0x80, 'l', 'o'}, "he?lo"},
		{"truncated rune at end", []byte{'a', 0xE6, 0x9D}, "a??"},
		{"empty", []byte{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(NewUTF8Sanitizer(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestUTF8Sanitizer_SplitAcrossReads(t *testing.T) {
	input := strings.Repeat("東京,", 50)
	r := NewUTF8Sanitizer(iotest.OneByteReader(strings.NewReader(input)))

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != input {
		t.Errorf("split runes were corrupted: got %q", got)
	}
}

func TestSizeLimitedReader(t *testing.T) {
	r := NewSizeLimitedReader(strings.NewReader("0123456789"), 5)
	_, err := io.ReadAll(r)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("error = %v, want ErrFileTooLarge", err)
	}

	r = NewSizeLimitedReader(strings.NewReader("01234"), 5)
	got, err := io.ReadAll(r)
	if err != nil || string(got) != "01234" || r.BytesRead != 5 {
		t.Errorf("at limit: got %q, %d bytes, err %v", got, r.BytesRead, err)
	}
}

func TestWrapForLoad(t *testing.T) {
	in := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Name\nAc\xffme")...)
	got, err := io.ReadAll(WrapForLoad(bytes.NewReader(in), 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "Name\nAc?me" {
		t.Errorf("got %q", got)
	}
}
