package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/leadboard/internal/core"
	"github.com/JonMunkholm/leadboard/internal/leads"
)

// Output formats for query.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	leads.QueryState
	Format string
	Output string
	Limit  int
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query <file|->",
		Short: "Search, filter and sort a lead export",
		Long: `Search, filter and sort a lead export the way the dashboard does.

Formats:
  table  classified cells in a terminal table (default)
  json   the dashboard's view model
  csv    raw cells of the matching rows
  xlsx   raw cells of the matching rows as a workbook (needs --output)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Search, "search", "q", "", "case-insensitive text to search for in any cell")
	cmd.Flags().StringVar(&opts.Industry, "industry", "", "keep only rows with this industry")
	cmd.Flags().StringVar(&opts.SortColumn, "sort", "", "column to sort by")
	cmd.Flags().BoolVar(&opts.SortDescending, "desc", false, "sort descending")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", FormatTable, "output format (table|json|csv|xlsx)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "show at most this many rows in table output (0 = all)")

	return cmd
}

func runQuery(cmd *cobra.Command, rootOpts *RootOptions, opts *QueryOptions, path string) error {
	switch opts.Format {
	case FormatTable, FormatJSON, string(leads.FormatCSV), string(leads.FormatXLSX):
	default:
		return fmt.Errorf("invalid format %q: must be one of table, json, csv, xlsx", opts.Format)
	}
	if opts.Format == string(leads.FormatXLSX) && opts.Output == "" {
		return fmt.Errorf("xlsx output needs --output")
	}

	svc, err := loadService(cmd.Context(), rootOpts, path)
	if err != nil {
		return err
	}
	view := svc.View(opts.QueryState)

	out := cmd.OutOrStdout()
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case FormatTable:
		return writeViewTable(out, view, opts.Limit)
	default:
		return exportVisible(out, svc, opts.QueryState, leads.ExportFormat(opts.Format))
	}
}

// exportVisible writes the raw cells of the rows matching q.
func exportVisible(w io.Writer, svc *core.Service, q leads.QueryState, format leads.ExportFormat) error {
	t := svc.Table()
	visible := leads.Table{
		Headers: t.Headers,
		Rows:    leads.NewEngine(svc.Rules()).Query(t, q),
	}
	return leads.Export(w, visible, format)
}
