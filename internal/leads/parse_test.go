package leads

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Table
	}{
		{
			name:  "quoted fields with embedded commas",
			input: "a,\"b,c\",d\n1,\"2,2\",3",
			want: Table{
				Headers: []string{"a", "b,c", "d"},
				Rows:    []Row{{"1", "2,2", "3"}},
			},
		},
		{
			name:  "empty input",
			input: "",
			want:  EmptyTable(),
		},
		{
			name:  "whitespace only",
			input: "  \r\n\n  ",
			want:  EmptyTable(),
		},
		{
			name:  "byte order mark and CRLF",
			input: "\uFEFFName,Email\r\nAcme,a@acme.test\r\nBeta,b@beta.test\r\n",
			want: Table{
				Headers: []string{"Name", "Email"},
				Rows:    []Row{{"Acme", "a@acme.test"}, {"Beta", "b@beta.test"}},
			},
		},
		{
			name:  "escaped quotes",
			input: "quote\n\"she said \"\"hi\"\"\"",
			want: Table{
				Headers: []string{"quote"},
				Rows:    []Row{{`she said "hi"`}},
			},
		},
		{
			name:  "fields are trimmed",
			input: " a , b \n 1 ,  \"2, 3\"  ",
			want: Table{
				Headers: []string{"a", "b"},
				Rows:    []Row{{"1", "2, 3"}},
			},
		},
		{
			name:  "ragged rows are kept",
			input: "a,b,c\n1\n1,2,3,4",
			want: Table{
				Headers: []string{"a", "b", "c"},
				Rows:    []Row{{"1"}, {"1", "2", "3", "4"}},
			},
		},
		{
			name:  "trailing comma yields empty field",
			input: "a,b\n1,",
			want: Table{
				Headers: []string{"a", "b"},
				Rows:    []Row{{"1", ""}},
			},
		},
		{
			name:  "unterminated quote degrades to comma split",
			input: "a,b\n\"open,close",
			want: Table{
				Headers: []string{"a", "b"},
				Rows:    []Row{{"open", "close"}},
			},
		},
		{
			name:  "header only",
			input: "a,b",
			want: Table{
				Headers: []string{"a", "b"},
				Rows:    []Row{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseString(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseString() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseString_RoundTripsPlainFields(t *testing.T) {
	headers := []string{"Name", "Website", "Phone"}
	rows := [][]string{
		{"Acme Ltd", "https://acme.test/about", "07123456789"},
		{"Beta", "", "123"},
	}

	var b strings.Builder
	b.WriteString(strings.Join(headers, ","))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(strings.Join(r, ","))
	}

	got := ParseString(b.String())
	if diff := cmp.Diff(headers, got.Headers); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}
	for i, r := range rows {
		if diff := cmp.Diff(Row(r), got.Rows[i]); diff != "" {
			t.Errorf("row %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestParse_NilReader(t *testing.T) {
	_, err := Parse(nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Parse(nil) error = %v, want ErrInvalidInput", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestParse_ReadError(t *testing.T) {
	_, err := Parse(failingReader{})

	var fre *FileReadError
	if !errors.As(err, &fre) {
		t.Fatalf("Parse() error = %v, want *FileReadError", err)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("FileReadError should unwrap to the read error, got %v", err)
	}
}

func TestLoad_RedactsOnce(t *testing.T) {
	got, err := Load(strings.NewReader("a,secret,b\n1,x,2"), []int{1})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := Table{Headers: []string{"a", "b"}, Rows: []Row{{"1", "2"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", []string{""}},
		{",", []string{"", ""}},
		{`"a""b",c`, []string{`a"b`, "c"}},
		{`x, "y,z" ,w`, []string{"x", "y,z", "w"}},
		{`"ab"cd,e`, []string{`ab"cd`, "e"}},
	}

	for _, tt := range tests {
		got := SplitLine(tt.line)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("SplitLine(%q) mismatch (-want +got):\n%s", tt.line, diff)
		}
	}
}
