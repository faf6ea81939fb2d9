package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/leadboard/internal/leads"
)

// NewConvertTimeCommand creates the convert-time command.
func NewConvertTimeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "convert-time VALUE...",
		Short: "Convert lead timestamps between the configured offsets",
		Example: `  leadsctl convert-time "3/7/2024 9:05:00"
  leadsctl --rules rules.yaml convert-time "12/31/2024 23:30:00"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conv := leads.NewTimestampConverter(rootOpts.Rules.Zones, rootOpts.Logger)
			for _, v := range args {
				fmt.Fprintln(cmd.OutOrStdout(), conv.Convert(v))
			}
			return nil
		},
	}
}

// NewPhoneCommand creates the format-phone command.
func NewPhoneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "format-phone NUMBER...",
		Short: "Group phone numbers the way the dashboard shows them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, v := range args {
				fmt.Fprintln(cmd.OutOrStdout(), leads.FormatPhone(v))
			}
			return nil
		},
	}
}
