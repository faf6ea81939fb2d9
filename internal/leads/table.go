package leads

// Row is one parsed CSV record. Its length may differ from the header count.
type Row []string

// Cell returns the value at position i, or "" when the row is too short.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Table is a parsed header list plus the rows in source order.
type Table struct {
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// EmptyTable returns a table with non-nil, zero-length headers and rows.
func EmptyTable() Table {
	return Table{Headers: []string{}, Rows: []Row{}}
}

// ColumnIndex returns the position of the header that equals name exactly,
// or -1 when there is no such column.
func (t Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Clone returns a deep copy of t.
func (t Table) Clone() Table {
	out := Table{
		Headers: append([]string{}, t.Headers...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = append(Row{}, r...)
	}
	return out
}

// DistinctValues returns the distinct non-empty values of the named column
// in first-seen order. It returns nil when the column does not exist.
func DistinctValues(t Table, column string) []string {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil
	}

	seen := make(map[string]bool)
	var values []string
	for _, r := range t.Rows {
		v := r.Cell(idx)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}
