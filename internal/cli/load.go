package cli

import (
	"context"
	"os"

	"github.com/JonMunkholm/leadboard/internal/core"
)

// loadService reads path ("-" for stdin) into a fresh service using the
// same pipeline as the dashboard.
func loadService(ctx context.Context, opts *RootOptions, path string) (*core.Service, error) {
	svc := core.NewService(nil, core.Options{
		RedactColumns: opts.Redact,
		Rules:         opts.Rules,
		Logger:        opts.Logger,
	})

	var err error
	if path == "-" {
		_, err = svc.Upload(ctx, "", os.Stdin, -1)
	} else {
		_, err = svc.LoadFile(ctx, path)
	}
	if err != nil {
		return nil, err
	}
	return svc, nil
}
