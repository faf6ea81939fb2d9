package core

import "github.com/JonMunkholm/leadboard/internal/leads"

// HeaderCell is one column header of the dashboard table.
type HeaderCell struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	Sorted     bool   `json:"sorted"`
	Descending bool   `json:"descending"`
}

// ViewRow is a classified visible row. Number is the 1-based position in
// the visible list.
type ViewRow struct {
	Number int          `json:"number"`
	Cells  []leads.Cell `json:"cells"`
}

// View is everything the dashboard renders for one query.
type View struct {
	Headers    []HeaderCell     `json:"headers"`
	Rows       []ViewRow        `json:"rows"`
	Total      int              `json:"total"`
	Visible    int              `json:"visible"`
	Query      leads.QueryState `json:"query"`
	Industries []string         `json:"industries"`
	Status     Status           `json:"status"`
}

// View runs q against the committed table and classifies every visible
// cell. Rows shorter than the header list read missing cells as "".
// Table, status and industries all come from one snapshot.
func (s *Service) View(q leads.QueryState) View {
	t, st := s.state.Snapshot()
	rows := s.engine.Query(t, q)

	v := View{
		Headers:    make([]HeaderCell, len(t.Headers)),
		Rows:       make([]ViewRow, len(rows)),
		Total:      t.Len(),
		Visible:    len(rows),
		Query:      q,
		Industries: s.industries(t),
		Status:     st,
	}
	for i, h := range t.Headers {
		sorted := q.SortColumn == h
		v.Headers[i] = HeaderCell{
			Name:       h,
			Title:      h,
			Sorted:     sorted,
			Descending: sorted && q.SortDescending,
		}
	}
	for i, r := range rows {
		cells := make([]leads.Cell, len(t.Headers))
		for c, h := range t.Headers {
			cells[c] = s.classifier.Classify(h, r.Cell(c))
		}
		v.Rows[i] = ViewRow{Number: i + 1, Cells: cells}
	}
	return v
}
