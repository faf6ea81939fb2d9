package leads

// parse.go turns raw CSV text into a Table.
//
// The format handled here is the one produced by the leads export, not full
// RFC 4180: records are split on line breaks first, so a quoted field cannot
// span lines. Within a line, fields are separated by commas outside double
// quotes and "" inside a quoted field is a literal quote.

import (
	"io"
	"regexp"
	"strings"
)

const byteOrderMark = "\uFEFF"

var lineBreak = regexp.MustCompile(`\r?\n`)

// ParseString parses CSV text. The first line becomes the headers and every
// following line becomes one row. It never fails: empty text yields an empty
// table and odd quoting yields a best-effort field list.
func ParseString(text string) Table {
	text = strings.TrimPrefix(text, byteOrderMark)
	text = strings.TrimSpace(text)
	if text == "" {
		return EmptyTable()
	}

	lines := lineBreak.Split(text, -1)
	t := Table{
		Headers: SplitLine(lines[0]),
		Rows:    make([]Row, 0, len(lines)-1),
	}
	for _, line := range lines[1:] {
		t.Rows = append(t.Rows, Row(SplitLine(line)))
	}
	return t
}

// Parse reads all of r and parses it with ParseString.
// A nil reader yields ErrInvalidInput; read failures yield *FileReadError.
func Parse(r io.Reader) (Table, error) {
	if r == nil {
		return Table{}, ErrInvalidInput
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, &FileReadError{Err: err}
	}
	return ParseString(string(data)), nil
}

// Load parses r and removes the redacted column positions. This is the only
// constructor the service uses, so every stored Table is redacted once.
func Load(r io.Reader, redact []int) (Table, error) {
	t, err := Parse(r)
	if err != nil {
		return Table{}, err
	}
	return Redact(t, redact...), nil
}

// LoadString is Load for text already in memory.
func LoadString(text string, redact []int) Table {
	return Redact(ParseString(text), redact...)
}

// SplitLine splits a single CSV line into cleaned fields.
func SplitLine(line string) []string {
	fields := make([]string, 0, 8)
	i := 0
	for {
		start := i
		i = fieldEnd(line, i)
		fields = append(fields, cleanField(line[start:i]))
		if i >= len(line) {
			return fields
		}
		i++ // skip the comma
	}
}

// fieldEnd returns the index of the comma (or end of line) that terminates
// the field starting at start. A field whose first non-blank character is a
// quote runs to its closing quote; if that quote never comes, the field is
// treated as unquoted and ends at the next comma.
func fieldEnd(line string, start int) int {
	j := start
	for j < len(line) && (line[j] == ' ' || line[j] == '\t') {
		j++
	}
	if j < len(line) && line[j] == '"' {
		if closed, ok := closingQuote(line, j+1); ok {
			j = closed + 1
			return nextComma(line, j)
		}
	}
	return nextComma(line, start)
}

// closingQuote finds the quote that closes a quoted run starting at from,
// skipping escaped "" pairs.
func closingQuote(line string, from int) (int, bool) {
	for i := from; i < len(line); i++ {
		if line[i] != '"' {
			continue
		}
		if i+1 < len(line) && line[i+1] == '"' {
			i++
			continue
		}
		return i, true
	}
	return 0, false
}

func nextComma(line string, from int) int {
	if idx := strings.IndexByte(line[from:], ','); idx >= 0 {
		return from + idx
	}
	return len(line)
}

// cleanField strips surrounding quotes, unescapes "" and trims whitespace.
func cleanField(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	s = strings.ReplaceAll(s, `""`, `"`)
	return strings.TrimSpace(s)
}
