package leads

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// QueryState is the live search/filter/sort input from the dashboard.
// Empty Industry means no filter; empty SortColumn means source order.
type QueryState struct {
	Search         string `json:"search"`
	Industry       string `json:"industry"`
	SortColumn     string `json:"sortColumn"`
	SortDescending bool   `json:"sortDescending"`
}

// ToggleSort returns the state after a click on a column header: the active
// column flips direction, any other column becomes active ascending.
func (s QueryState) ToggleSort(column string) QueryState {
	if s.SortColumn == column {
		s.SortDescending = !s.SortDescending
		return s
	}
	s.SortColumn = column
	s.SortDescending = false
	return s
}

// Engine applies QueryState to a Table.
type Engine struct {
	industryHeader string
	locale         language.Tag
}

// NewEngine builds an engine from rules. An unparseable locale falls back
// to English.
func NewEngine(rules Rules) *Engine {
	rules = rules.WithDefaults()
	tag, err := language.Parse(rules.Locale)
	if err != nil {
		tag = language.English
	}
	return &Engine{industryHeader: rules.IndustryHeader, locale: tag}
}

var defaultEngine = NewEngine(DefaultRules())

// Query runs the default engine.
func Query(t Table, s QueryState) []Row {
	return defaultEngine.Query(t, s)
}

// Query returns the visible rows: search, then industry filter, then sort.
// The result is a new slice; t is never modified.
func (e *Engine) Query(t Table, s QueryState) []Row {
	rows := make([]Row, len(t.Rows))
	copy(rows, t.Rows)

	rows = e.search(rows, s.Search)
	rows = e.filterIndustry(t, rows, s.Industry)
	return e.sortRows(t, rows, s.SortColumn, s.SortDescending)
}

// search keeps rows where any cell contains the trimmed text, ignoring case.
func (e *Engine) search(rows []Row, text string) []Row {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return rows
	}

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		for _, cell := range r {
			if strings.Contains(strings.ToLower(cell), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// filterIndustry keeps rows whose industry column equals industry exactly.
// It is a no-op when the table has no industry column.
func (e *Engine) filterIndustry(t Table, rows []Row, industry string) []Row {
	if industry == "" {
		return rows
	}
	idx := t.ColumnIndex(e.industryHeader)
	if idx < 0 {
		return rows
	}

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.Cell(idx) == industry {
			out = append(out, r)
		}
	}
	return out
}

// sortRows stable-sorts a copy of rows by the named column using locale
// collation. Unknown columns leave the order unchanged.
func (e *Engine) sortRows(t Table, rows []Row, column string, desc bool) []Row {
	if column == "" {
		return rows
	}
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return rows
	}

	sorted := make([]Row, len(rows))
	copy(sorted, rows)

	// Collators keep internal buffers; one per call keeps Query safe for
	// concurrent use.
	col := collate.New(e.locale)
	sort.SliceStable(sorted, func(i, j int) bool {
		c := col.CompareString(sorted[i].Cell(idx), sorted[j].Cell(idx))
		if desc {
			return c > 0
		}
		return c < 0
	})
	return sorted
}
