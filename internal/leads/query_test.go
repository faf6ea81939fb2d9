package leads

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleTable() Table {
	return Table{
		Headers: []string{"Company", "Industry Type", "City"},
		Rows: []Row{
			{"Acme", "Retail", "leeds"},
			{"beta", "Finance", "London"},
			{"Cobalt", "Retail", "bath"},
			{"delta", "Retail", "London"},
			{"Echo"},
		},
	}
}

func TestQuery(t *testing.T) {
	tests := []struct {
		name  string
		state QueryState
		want  []Row
	}{
		{
			name:  "zero state returns source order",
			state: QueryState{},
			want:  sampleTable().Rows,
		},
		{
			name:  "search is case-insensitive and trimmed",
			state: QueryState{Search: "  LONDON "},
			want:  []Row{{"beta", "Finance", "London"}, {"delta", "Retail", "London"}},
		},
		{
			name:  "industry filter is exact",
			state: QueryState{Industry: "Retail"},
			want: []Row{
				{"Acme", "Retail", "leeds"},
				{"Cobalt", "Retail", "bath"},
				{"delta", "Retail", "London"},
			},
		},
		{
			name:  "search then filter then sort",
			state: QueryState{Search: "a", Industry: "Retail", SortColumn: "City", SortDescending: true},
			want: []Row{
				{"delta", "Retail", "London"},
				{"Acme", "Retail", "leeds"},
				{"Cobalt", "Retail", "bath"},
			},
		},
		{
			name:  "sort ignores case under collation",
			state: QueryState{SortColumn: "Company"},
			want: []Row{
				{"Acme", "Retail", "leeds"},
				{"beta", "Finance", "London"},
				{"Cobalt", "Retail", "bath"},
				{"delta", "Retail", "London"},
				{"Echo"},
			},
		},
		{
			name:  "descending collation",
			state: QueryState{SortColumn: "Company", SortDescending: true},
			want: []Row{
				{"Echo"},
				{"delta", "Retail", "London"},
				{"Cobalt", "Retail", "bath"},
				{"beta", "Finance", "London"},
				{"Acme", "Retail", "leeds"},
			},
		},
		{
			name:  "missing cells sort as empty",
			state: QueryState{SortColumn: "City"},
			want: []Row{
				{"Echo"},
				{"Cobalt", "Retail", "bath"},
				{"Acme", "Retail", "leeds"},
				{"beta", "Finance", "London"},
				{"delta", "Retail", "London"},
			},
		},
		{
			name:  "unknown sort column keeps order",
			state: QueryState{SortColumn: "Nope"},
			want:  sampleTable().Rows,
		},
		{
			name:  "no match",
			state: QueryState{Search: "zzz"},
			want:  []Row{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Query(sampleTable(), tt.state)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Query() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestQuery_FilterWithoutIndustryColumn(t *testing.T) {
	tbl := Table{Headers: []string{"Company"}, Rows: []Row{{"Acme"}, {"Beta"}}}
	got := Query(tbl, QueryState{Industry: "Retail"})
	if diff := cmp.Diff(tbl.Rows, got); diff != "" {
		t.Errorf("filter without industry column should be a no-op (-want +got):\n%s", diff)
	}
}

func TestQuery_SortIsStable(t *testing.T) {
	tbl := Table{
		Headers: []string{"Name", "Group"},
		Rows:    []Row{{"first", "b"}, {"second", "a"}, {"third", "b"}, {"fourth", "a"}},
	}

	asc := Query(tbl, QueryState{SortColumn: "Group"})
	wantAsc := []Row{{"second", "a"}, {"fourth", "a"}, {"first", "b"}, {"third", "b"}}
	if diff := cmp.Diff(wantAsc, asc); diff != "" {
		t.Errorf("ascending mismatch (-want +got):\n%s", diff)
	}

	desc := Query(tbl, QueryState{SortColumn: "Group", SortDescending: true})
	wantDesc := []Row{{"first", "b"}, {"third", "b"}, {"second", "a"}, {"fourth", "a"}}
	if diff := cmp.Diff(wantDesc, desc); diff != "" {
		t.Errorf("descending mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_DoesNotMutateTable(t *testing.T) {
	tbl := sampleTable()
	before := tbl.Clone()

	_ = Query(tbl, QueryState{Search: "a", Industry: "Retail", SortColumn: "Company", SortDescending: true})

	if diff := cmp.Diff(before, tbl); diff != "" {
		t.Errorf("Query mutated the table (-before +after):\n%s", diff)
	}
}

func TestQueryState_ToggleSort(t *testing.T) {
	s := QueryState{}

	s = s.ToggleSort("Company")
	if s.SortColumn != "Company" || s.SortDescending {
		t.Fatalf("first click = %+v, want Company ascending", s)
	}
	s = s.ToggleSort("Company")
	if !s.SortDescending {
		t.Fatalf("second click = %+v, want descending", s)
	}
	s = s.ToggleSort("City")
	if s.SortColumn != "City" || s.SortDescending {
		t.Fatalf("other column = %+v, want City ascending", s)
	}
}

func TestDistinctValues(t *testing.T) {
	got := DistinctValues(sampleTable(), "Industry Type")
	if diff := cmp.Diff([]string{"Retail", "Finance"}, got); diff != "" {
		t.Errorf("DistinctValues() mismatch (-want +got):\n%s", diff)
	}
	if got := DistinctValues(sampleTable(), "Missing"); got != nil {
		t.Errorf("DistinctValues(missing) = %v, want nil", got)
	}
}
