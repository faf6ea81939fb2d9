package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/leadboard/internal/leads"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file|->",
		Short: "Show the columns of a lead export and how they are displayed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(cmd.Context(), rootOpts, args[0])
			if err != nil {
				return err
			}

			t := svc.Table()
			classifier := leads.NewClassifier(svc.Rules(), rootOpts.Logger)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Rows: %d\n", t.Len())
			fmt.Fprintf(out, "Columns: %d\n\n", len(t.Headers))
			for i, h := range t.Headers {
				fmt.Fprintf(out, "  %2d  %-30s %s\n", i, h, columnRole(classifier, h))
			}

			if industries := svc.Industries(); len(industries) > 0 {
				fmt.Fprintf(out, "\nIndustries: %s\n", strings.Join(industries, ", "))
			}
			return nil
		},
	}
}

// columnRole names the header-driven treatment a column receives. URLs are
// detected per cell and do not appear here.
func columnRole(c *leads.Classifier, header string) string {
	var roles []string
	if c.IsIndustryColumn(header) {
		roles = append(roles, leads.KindIndustry.String())
	}
	if c.IsTimestampColumn(header) {
		roles = append(roles, leads.KindTimestamp.String())
	}
	if c.IsPhoneColumn(header) {
		roles = append(roles, leads.KindPhone.String())
	}
	if len(roles) == 0 {
		return leads.KindPlain.String()
	}
	return strings.Join(roles, ",")
}
