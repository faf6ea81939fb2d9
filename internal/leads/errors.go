package leads

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when the parser is handed no input at all.
// Malformed CSV is not an error; it degrades into a best-effort table.
var ErrInvalidInput = errors.New("invalid input: no csv text provided")

// ErrConversionFallback marks a timestamp that could not be converted.
// It is logged, never returned to callers of ConvertZone.
var ErrConversionFallback = errors.New("timestamp conversion fallback")

// FileReadError wraps a failure to read CSV content from a file or stream.
type FileReadError struct {
	Name string // File name, if known
	Err  error
}

func (e *FileReadError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("file read error: %v", e.Err)
	}
	return fmt.Sprintf("file read error: %s: %v", e.Name, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}
