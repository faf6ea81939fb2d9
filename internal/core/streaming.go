package core

// streaming.go normalizes CSV bytes on their way from a file or HTTP body
// into the parser:
//
//   - BOMSkippingReader drops a leading UTF-8 byte order mark
//   - UTF8Sanitizer replaces invalid UTF-8 bytes with '?'
//   - SizeLimitedReader fails with ErrFileTooLarge past a byte limit
//
// WrapForLoad chains them in that order.

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// ErrFileTooLarge is returned once more than the allowed bytes are read.
var ErrFileTooLarge = errors.New("file too large")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// BOMSkippingReader skips a UTF-8 BOM at the start of the stream.
type BOMSkippingReader struct {
	r       io.Reader
	checked bool
	head    []byte // bytes read while checking that were not a BOM
}

// NewBOMSkippingReader wraps r.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{r: r}
}

func (b *BOMSkippingReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		buf := make([]byte, len(utf8BOM))
		n, err := io.ReadFull(b.r, buf)
		switch {
		case n == len(utf8BOM) && bytes.Equal(buf, utf8BOM):
			// dropped
		case n > 0:
			b.head = buf[:n]
		}
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, err
		}
	}

	if len(b.head) > 0 {
		n := copy(p, b.head)
		b.head = b.head[n:]
		return n, nil
	}
	return b.r.Read(p)
}

// UTF8Sanitizer replaces invalid UTF-8 bytes with '?'. Multi-byte
// sequences split across reads are held back until complete.
type UTF8Sanitizer struct {
	r       io.Reader
	pending []byte
	eof     bool
}

// NewUTF8Sanitizer wraps r.
func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	return &UTF8Sanitizer{r: r, pending: make([]byte, 0, utf8.UTFMax)}
}

func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if s.eof && len(s.pending) == 0 {
		return 0, io.EOF
	}

	n := copy(p, s.pending)
	s.pending = append(s.pending[:0], s.pending[n:]...)

	var err error
	if !s.eof && n < len(p) {
		var m int
		m, err = s.r.Read(p[n:])
		n += m
		if errors.Is(err, io.EOF) {
			s.eof = true
			err = nil
		}
	}
	if n == 0 {
		if s.eof {
			return 0, io.EOF
		}
		return 0, err
	}

	return s.sanitize(p[:n]), err
}

// sanitize rewrites data in place and returns the usable length. Without
// EOF, a trailing partial rune moves to pending.
func (s *UTF8Sanitizer) sanitize(data []byte) int {
	w := 0
	for r := 0; r < len(data); {
		if data[r] < utf8.RuneSelf {
			data[w] = data[r]
			w++
			r++
			continue
		}
		if !s.eof && !utf8.FullRune(data[r:]) {
			s.pending = append(append([]byte{}, data[r:]...), s.pending...)
			return w
		}
		ch, size := utf8.DecodeRune(data[r:])
		if ch == utf8.RuneError && size == 1 {
			data[w] = '?'
			w++
			r++
			continue
		}
		w += copy(data[w:], data[r:r+size])
		r += size
	}
	return w
}

// SizeLimitedReader counts bytes and fails once Limit is exceeded.
type SizeLimitedReader struct {
	r         io.Reader
	Limit     int64 // 0 means unlimited
	BytesRead int64
}

// NewSizeLimitedReader wraps r with the given byte limit.
func NewSizeLimitedReader(r io.Reader, limit int64) *SizeLimitedReader {
	return &SizeLimitedReader{r: r, Limit: limit}
}

func (l *SizeLimitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.BytesRead += int64(n)
	if l.Limit > 0 && l.BytesRead > l.Limit {
		return n, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, l.Limit)
	}
	return n, err
}

// WrapForLoad chains BOM skipping, UTF-8 sanitizing and the size limit.
func WrapForLoad(r io.Reader, limit int64) *SizeLimitedReader {
	return NewSizeLimitedReader(NewUTF8Sanitizer(NewBOMSkippingReader(r)), limit)
}
