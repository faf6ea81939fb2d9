package leads

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

func TestWriteCSV(t *testing.T) {
	tbl := Table{
		Headers: []string{"Company", "Notes"},
		Rows:    []Row{{"Acme", `said "hi", left`}, {"Beta"}},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, tbl); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	want := "Company,Notes\nAcme,\"said \"\"hi\"\", left\"\nBeta\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteCSV() = %q, want %q", got, want)
	}

	// The parser reads its own export back.
	if diff := cmp.Diff(tbl, ParseString(buf.String())); diff != "" {
		t.Errorf("re-parse mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteXLSX(t *testing.T) {
	tbl := Table{
		Headers: []string{"Company", "City"},
		Rows:    []Row{{"Acme", "Leeds"}, {"Beta", "Bath"}},
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, tbl); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	want := [][]string{{"Company", "City"}, {"Acme", "Leeds"}, {"Beta", "Bath"}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("xlsx rows mismatch (-want +got):\n%s", diff)
	}
}

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    ExportFormat
		wantErr bool
	}{
		{"", FormatCSV, false},
		{"csv", FormatCSV, false},
		{"xlsx", FormatXLSX, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseExportFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseExportFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseExportFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
