package leads

// Redact returns a copy of t without the fields at the given zero-based
// positions. Removal is by position in each row independently, so an index
// past the end of a short row leaves that row unchanged.
//
// Redact is not idempotent: after one pass the remaining columns shift left,
// and a second pass with the same indices removes different data. Apply it
// exactly once per raw parse (see Load).
func Redact(t Table, indices ...int) Table {
	if len(indices) == 0 {
		return t.Clone()
	}

	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}

	out := Table{
		Headers: withoutPositions(t.Headers, drop),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = Row(withoutPositions(r, drop))
	}
	return out
}

func withoutPositions(fields []string, drop map[int]bool) []string {
	out := make([]string, 0, len(fields))
	for i, f := range fields {
		if drop[i] {
			continue
		}
		out = append(out, f)
	}
	return out
}
