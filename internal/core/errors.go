package core

import "errors"

var (
	// ErrSuperseded is returned by a load whose result was discarded because
	// a newer load started after it.
	ErrSuperseded = errors.New("load superseded by a newer request")

	// ErrNoUpstream is returned by Refresh and Generate when no backend is
	// configured.
	ErrNoUpstream = errors.New("no upstream backend configured")

	// ErrAuthRequired is returned when a gated operation runs without a
	// valid session.
	ErrAuthRequired = errors.New("authentication required")

	// ErrUnsupportedFileType is returned for uploads that are not CSV.
	ErrUnsupportedFileType = errors.New("unsupported file type: expected .csv")

	// ErrNoFile is returned when an upload carries no file.
	ErrNoFile = errors.New("no file provided")
)
