// Package cli implements leadsctl, a command-line companion to the
// dashboard for working with lead exports outside the browser.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/leadboard/internal/config"
	"github.com/JonMunkholm/leadboard/internal/leads"
	"github.com/JonMunkholm/leadboard/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	RulesFile string
	LogLevel  string
	Redact    []int

	// Set by PersistentPreRunE.
	Rules  leads.Rules
	Logger *slog.Logger
}

// NewRootCommand creates the leadsctl root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "leadsctl",
		Short: "Inspect and query lead CSV exports",
		Long: `leadsctl applies the dashboard's parsing, redaction and display rules to
lead exports on disk or fetched from the lead server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			rules, err := config.LoadRules(opts.RulesFile)
			if err != nil {
				return err
			}
			for _, idx := range opts.Redact {
				if idx < 0 {
					return fmt.Errorf("invalid --redact %d: must be non-negative", idx)
				}
			}
			opts.Rules = rules
			opts.Logger = logging.New(cmd.ErrOrStderr(), opts.LogLevel, "text")
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.RulesFile, "rules", "", "display rules YAML file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().IntSliceVar(&opts.Redact, "redact", []int{15}, "zero-based column positions to remove")

	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewConvertTimeCommand(opts))
	cmd.AddCommand(NewPhoneCommand())
	cmd.AddCommand(NewFetchCommand(opts))
	cmd.AddCommand(NewGenerateCommand())

	return cmd
}
