package views

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/leadboard/internal/core"
	"github.com/JonMunkholm/leadboard/internal/leads"
)

func TestParseQuery(t *testing.T) {
	v := url.Values{"q": {"acme"}, "industry": {"Retail"}, "sort": {"Company"}, "desc": {"true"}}
	got := ParseQuery(v)
	assert.Equal(t, leads.QueryState{Search: "acme", Industry: "Retail", SortColumn: "Company", SortDescending: true}, got)

	assert.False(t, ParseQuery(url.Values{"desc": {"maybe"}}).SortDescending)
}

func TestSortURL(t *testing.T) {
	q := leads.QueryState{Search: "a b", SortColumn: "Company"}
	assert.Equal(t, "/?desc=1&q=a+b&sort=Company", SortURL(q, "Company"))
	assert.Equal(t, "/?q=a+b&sort=City", SortURL(q, "City"))
}

func TestLeadsTable(t *testing.T) {
	v := core.View{
		Headers: []core.HeaderCell{
			{Name: "Website", Title: "Website"},
			{Name: "Industry Type", Title: "Industry Type", Sorted: true, Descending: true},
		},
		Rows: []core.ViewRow{{
			Number: 1,
			Cells: []leads.Cell{
				{Match: leads.Match{Kind: leads.KindURL, Label: "acme.test", Href: "https://acme.test/"}, Title: "https://acme.test/"},
				{Match: leads.Match{Kind: leads.KindIndustry, Label: "Retail", Style: "neutral"}, Title: "Retail"},
			},
		}},
		Total:   4,
		Visible: 1,
		Query:   leads.QueryState{SortColumn: "Industry Type", SortDescending: true},
	}

	var b strings.Builder
	require.NoError(t, LeadsTable(v).Render(context.Background(), &b))
	html := b.String()

	assert.Contains(t, html, "Showing 1 of 4")
	assert.Contains(t, html, `<td class="num">1</td>`)
	assert.Contains(t, html, `<a href="https://acme.test/" target="_blank" rel="noopener noreferrer">acme.test</a>`)
	assert.Contains(t, html, `<span class="badge badge-neutral">Retail</span>`)
	assert.Contains(t, html, "Industry Type ▼")
}

func TestLeadsTable_Empty(t *testing.T) {
	var b strings.Builder
	require.NoError(t, LeadsTable(core.View{}).Render(context.Background(), &b))
	assert.Contains(t, b.String(), "No data.")
}

func TestLeadsTable_UnsafeHref(t *testing.T) {
	v := core.View{
		Headers: []core.HeaderCell{{Name: "Link", Title: "Link"}},
		Rows: []core.ViewRow{{Number: 1, Cells: []leads.Cell{
			{Match: leads.Match{Kind: leads.KindURL, Label: "x", Href: "javascript:alert(1)"}, Title: "x"},
		}}},
	}
	var b strings.Builder
	require.NoError(t, LeadsTable(v).Render(context.Background(), &b))
	assert.NotContains(t, b.String(), "javascript:")
}

func TestStatusBanner(t *testing.T) {
	var b strings.Builder
	require.NoError(t, StatusBanner(core.Status{}).Render(context.Background(), &b))
	assert.Contains(t, b.String(), "No leads loaded yet.")

	b.Reset()
	st := core.Status{
		Generation: 2,
		Rows:       5,
		Source:     core.SourceUpload,
		Name:       "leads.csv",
		Problem:    &core.UserMessage{Message: "The file could not be read", Action: "Try again", Code: "FILE002"},
	}
	require.NoError(t, StatusBanner(st).Render(context.Background(), &b))
	assert.Contains(t, b.String(), "5 leads from upload (leads.csv)")
	assert.Contains(t, b.String(), "(Code: FILE002)")
}

func TestErrorAlert(t *testing.T) {
	var b strings.Builder
	require.NoError(t, ErrorAlert("Bad <thing>", "Retry", "ERR000").Render(context.Background(), &b))
	assert.Contains(t, b.String(), "Bad &lt;thing&gt;")
	assert.Contains(t, b.String(), "Code: ERR000")
}

func TestStatusBanner_LoadedAndRefreshing(t *testing.T) {
	var b strings.Builder
	st := core.Status{
		Generation: 1,
		Rows:       3,
		Source:     core.SourceUpstream,
		LoadedAt:   time.Date(2024, 12, 25, 23, 30, 0, 0, time.UTC),
		Loading:    true,
	}
	require.NoError(t, StatusBanner(st).Render(context.Background(), &b))
	assert.Contains(t, b.String(),
		`<p>3 leads from upstream, loaded <time datetime="2024-12-25T23:30:00Z">25/12/2024, 23:30:00</time>; refreshing…</p>`)
}

func TestSortState(t *testing.T) {
	tests := []struct {
		name string
		q    leads.QueryState
		oob  bool
		want string
	}{
		{
			name: "unsorted",
			want: `<span id="sort-state"></span>`,
		},
		{
			name: "ascending in form",
			q:    leads.QueryState{SortColumn: "City"},
			want: `<span id="sort-state"><input type="hidden" name="sort" value="City"></span>`,
		},
		{
			name: "descending out of band",
			q:    leads.QueryState{SortColumn: "A&B", SortDescending: true},
			oob:  true,
			want: `<span id="sort-state" hx-swap-oob="true"><input type="hidden" name="sort" value="A&amp;B"><input type="hidden" name="desc" value="1"></span>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			require.NoError(t, SortState(tt.q, tt.oob).Render(context.Background(), &b))
			assert.Equal(t, tt.want, b.String())
		})
	}
}

func TestLeadsTable_SortLinksSwapTable(t *testing.T) {
	v := core.View{
		Headers: []core.HeaderCell{{Name: "City", Title: "City"}},
		Query:   leads.QueryState{Search: "x"},
	}
	var b strings.Builder
	require.NoError(t, LeadsTable(v).Render(context.Background(), &b))
	assert.Contains(t, b.String(),
		`<a href="/?q=x&amp;sort=City" hx-get="/?q=x&amp;sort=City" hx-target="#leads" hx-push-url="true">City</a>`)
	assert.Contains(t, b.String(), `<td colspan="2" class="empty">No leads match.</td>`)
}

func TestDashboard(t *testing.T) {
	d := PageData{
		View: core.View{
			Industries: []string{"Retail", "Energy"},
			Query:      leads.QueryState{Industry: "Energy", SortColumn: "City"},
		},
		Flash: "Lead generation started",
	}
	var b strings.Builder
	require.NoError(t, Dashboard(d).Render(context.Background(), &b))
	html := b.String()

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, `<script src="`+HTMXSrc+`"></script>`)
	assert.Contains(t, html, `<meta name="htmx-config" content="{&#34;responseHandling&#34;:`)
	assert.Contains(t, html, `<div id="flash"><p class="flash" role="status">Lead generation started</p></div>`)
	assert.Contains(t, html, `<section id="status" class="status">`)
	assert.Contains(t, html, `<option value="Energy" selected>Energy</option>`)
	assert.Contains(t, html, `<option value="Retail">Retail</option>`)
	assert.Contains(t, html, `<span id="sort-state"><input type="hidden" name="sort" value="City"></span>`)
	assert.Contains(t, html, `hx-trigger="input changed delay:300ms, search"`)
	assert.NotContains(t, html, "Sign out")
	assert.NotContains(t, html, `action="/api/auth/login"`)
}

func TestDashboard_SignInRequired(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Dashboard(PageData{AuthRequired: true}).Render(context.Background(), &b))
	html := b.String()

	assert.Contains(t, html, `<form class="login" method="post" action="/api/auth/login">`)
	assert.NotContains(t, html, `id="leads"`)
	assert.NotContains(t, html, `id="status"`)

	b.Reset()
	require.NoError(t, Dashboard(PageData{AuthRequired: true, Authenticated: true}).Render(context.Background(), &b))
	assert.Contains(t, b.String(), "Sign out")
	assert.Contains(t, b.String(), `id="leads"`)
}

func TestFlash_Escapes(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Flash("<b>done</b>").Render(context.Background(), &b))
	assert.Equal(t, `<p class="flash" role="status">&lt;b&gt;done&lt;/b&gt;</p>`, b.String())
}
