// Package views holds the dashboard's templ components. Components live in
// the .templ files; run `templ generate` after editing them.
package views

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/leadboard/internal/core"
	"github.com/JonMunkholm/leadboard/internal/leads"
)

//go:generate templ generate

// HTMXSrc is the htmx build the dashboard loads. Its origin must be allowed
// by the Content-Security-Policy script-src.
const HTMXSrc = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"

// htmxConfig lets error responses swap into their target so alerts render.
const htmxConfig = `{"responseHandling":[{"code":"204","swap":false},{"code":"[23]..","swap":true},{"code":"[45]..","swap":true,"error":true}]}`

// PageData is everything the full dashboard page needs.
type PageData struct {
	View core.View

	// AuthRequired shows the sign-in form when Authenticated is false.
	AuthRequired  bool
	Authenticated bool

	// Flash is an optional one-line notice, e.g. the generation message.
	Flash string
}

// SortURL is the dashboard link a header click leads to.
func SortURL(q leads.QueryState, column string) string {
	return "/?" + QueryValues(q.ToggleSort(column)).Encode()
}

// QueryValues encodes q as dashboard query parameters.
func QueryValues(q leads.QueryState) url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.Industry != "" {
		v.Set("industry", q.Industry)
	}
	if q.SortColumn != "" {
		v.Set("sort", q.SortColumn)
		if q.SortDescending {
			v.Set("desc", "1")
		}
	}
	return v
}

// ParseQuery reads the dashboard query parameters. Unknown desc values are
// treated as ascending.
func ParseQuery(v url.Values) leads.QueryState {
	desc, _ := strconv.ParseBool(v.Get("desc"))
	return leads.QueryState{
		Search:         v.Get("q"),
		Industry:       v.Get("industry"),
		SortColumn:     v.Get("sort"),
		SortDescending: desc,
	}
}

func sortArrow(h core.HeaderCell) string {
	switch {
	case !h.Sorted:
		return ""
	case h.Descending:
		return " ▼"
	default:
		return " ▲"
	}
}

// statusSummary is the first line of the status banner.
func statusSummary(s core.Status) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(s.Rows))
	b.WriteString(" leads from ")
	b.WriteString(string(s.Source))
	if s.Name != "" {
		b.WriteString(" (" + s.Name + ")")
	}
	return b.String()
}
