package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/JonMunkholm/leadboard/internal/core"
	"github.com/JonMunkholm/leadboard/internal/leads"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Foreground(lipgloss.Color("245")).Align(lipgloss.Right)
	linkStyle   = cellStyle.Foreground(lipgloss.Color("#87CEEB")).Underline(true)
	timeStyle   = cellStyle.Foreground(lipgloss.Color("#90EE90"))
	phoneStyle  = cellStyle.Foreground(lipgloss.Color("#DDA0DD"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// industryColors maps style names from the display rules to terminal colors.
// Unknown names render uncolored.
var industryColors = map[string]lipgloss.Color{
	"neutral": lipgloss.Color("250"),
	"blue":    lipgloss.Color("#4682B4"),
	"green":   lipgloss.Color("#6B8E23"),
	"red":     lipgloss.Color("#CD5C5C"),
	"purple":  lipgloss.Color("#9370DB"),
	"orange":  lipgloss.Color("#FFA500"),
}

// writeViewTable renders the classified view as a terminal table with a
// leading # column. limit <= 0 shows every row.
func writeViewTable(w io.Writer, v core.View, limit int) error {
	if len(v.Headers) == 0 {
		_, err := fmt.Fprintln(w, "No data.")
		return err
	}

	rows := v.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	headers := make([]string, 0, len(v.Headers)+1)
	headers = append(headers, "#")
	for _, h := range v.Headers {
		label := h.Name
		if h.Sorted {
			if h.Descending {
				label += " ▼"
			} else {
				label += " ▲"
			}
		}
		headers = append(headers, label)
	}

	cells := make([][]string, len(rows))
	kinds := make([][]leads.Cell, len(rows))
	for i, r := range rows {
		line := make([]string, 0, len(r.Cells)+1)
		line = append(line, strconv.Itoa(r.Number))
		for _, c := range r.Cells {
			line = append(line, c.Label)
		}
		cells[i] = line
		kinds[i] = r.Cells
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return numberStyle
			}
			if row < 0 || row >= len(kinds) || col-1 >= len(kinds[row]) {
				return cellStyle
			}
			return styleFor(kinds[row][col-1])
		})

	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d of %d (%d matched)\n", len(rows), v.Total, v.Visible)
	return err
}

func styleFor(c leads.Cell) lipgloss.Style {
	switch c.Kind {
	case leads.KindURL:
		return linkStyle
	case leads.KindTimestamp:
		return timeStyle
	case leads.KindPhone:
		return phoneStyle
	case leads.KindIndustry:
		if color, ok := industryColors[c.Style]; ok {
			return cellStyle.Foreground(color)
		}
	}
	return cellStyle
}
