package cli

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/leadboard/internal/core"
	"github.com/JonMunkholm/leadboard/internal/leads"
	"github.com/JonMunkholm/leadboard/internal/upstream"
)

// UpstreamOptions holds flags shared by commands that call the backend.
type UpstreamOptions struct {
	URL     string
	CSVPath string
	Cookies []string
	Timeout time.Duration
}

func (o *UpstreamOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.URL, "url", os.Getenv("UPSTREAM_URL"), "backend base URL (default $UPSTREAM_URL)")
	cmd.Flags().StringVar(&o.CSVPath, "csv-path", upstream.DefaultCSVPath, "path of the leads export on the backend")
	cmd.Flags().StringArrayVar(&o.Cookies, "cookie", nil, "session cookie as name=value (repeatable)")
	cmd.Flags().DurationVar(&o.Timeout, "timeout", 30*time.Second, "timeout for each backend call")
}

func (o *UpstreamOptions) client() (*upstream.Client, error) {
	if o.URL == "" {
		return nil, fmt.Errorf("no backend URL: pass --url or set UPSTREAM_URL")
	}
	return upstream.New(o.URL, o.CSVPath, o.Timeout)
}

// parseCookies turns name=value pairs into cookies.
func parseCookies(pairs []string) ([]*http.Cookie, error) {
	cookies := make([]*http.Cookie, 0, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --cookie %q: want name=value", p)
		}
		cookies = append(cookies, &http.Cookie{Name: name, Value: value})
	}
	return cookies, nil
}

// NewFetchCommand creates the fetch command.
func NewFetchCommand(rootOpts *RootOptions) *cobra.Command {
	up := &UpstreamOptions{}
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the latest leads export from the backend",
		Long: `Download the latest leads export, apply redaction and write the table
as CSV or XLSX. The export is validated with the same parser the dashboard uses.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := leads.ParseExportFormat(format)
			if err != nil {
				return err
			}
			if f == leads.FormatXLSX && output == "" {
				return fmt.Errorf("xlsx output needs --output")
			}
			client, err := up.client()
			if err != nil {
				return err
			}
			cookies, err := parseCookies(up.Cookies)
			if err != nil {
				return err
			}

			svc := core.NewService(client, core.Options{
				RedactColumns: rootOpts.Redact,
				Rules:         rootOpts.Rules,
				Logger:        rootOpts.Logger,
			})
			st, err := svc.Refresh(core.ContextWithCookies(cmd.Context(), cookies))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer file.Close()
				out = file
			}
			if err := svc.Export(out, f); err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d leads to %s\n", st.Rows, output)
			}
			return nil
		},
	}

	up.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", string(leads.FormatCSV), "output format (csv|xlsx)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	up := &UpstreamOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Ask the backend to produce a new leads export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := up.client()
			if err != nil {
				return err
			}
			cookies, err := parseCookies(up.Cookies)
			if err != nil {
				return err
			}
			msg, err := client.Generate(cmd.Context(), cookies)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	up.register(cmd)
	return cmd
}
