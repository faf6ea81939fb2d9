package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/JonMunkholm/leadboard/internal/leads"
	"github.com/JonMunkholm/leadboard/internal/upstream"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"invalid input", leads.ErrInvalidInput, "INP001"},
		{"wrapped invalid input", fmt.Errorf("parse: %w", leads.ErrInvalidInput), "INP001"},
		{
			"unreachable upstream",
			&upstream.TransportError{Method: "GET", URL: "http://x", Err: errors.New("dial tcp: connection refused")},
			"TRN001",
		},
		{
			"upstream timeout",
			&upstream.TransportError{Method: "GET", URL: "http://x", Err: context.DeadlineExceeded},
			"LOAD004",
		},
		{"upstream 500", &upstream.TransportError{Method: "GET", URL: "http://x", Status: 500}, "TRN002"},
		{"upstream 429", &upstream.TransportError{Method: "GET", URL: "http://x", Status: 429}, "TRN002"},
		{"upstream 404", &upstream.TransportError{Method: "GET", URL: "http://x", Status: 404}, "TRN003"},
		{"upstream 401", &upstream.TransportError{Method: "GET", URL: "http://x", Status: http.StatusUnauthorized}, "AUTH001"},
		{"file read", &leads.FileReadError{Name: "a.csv", Err: errors.New("permission denied")}, "FILE002"},
		{"file too large inside read error", &leads.FileReadError{Err: fmt.Errorf("%w: more than 5 bytes", ErrFileTooLarge)}, "FILE001"},
		{"no file", ErrNoFile, "FILE004"},
		{"unsupported type", ErrUnsupportedFileType, "FILE005"},
		{"busy", ErrTooManyLoads, "LOAD001"},
		{"superseded", ErrSuperseded, "LOAD002"},
		{"cancelled", context.Canceled, "LOAD003"},
		{"auth required", ErrAuthRequired, "AUTH001"},
		{"auth rejected", &upstream.AuthError{Status: 401, Message: "bad password"}, "AUTH001"},
		{"rate limit", errors.New("rate limit exceeded"), "RATE001"},
		{"unknown", errors.New("something odd"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if tt.err != nil && (got.Message == "" || got.Action == "") {
				t.Errorf("MapError() = %+v, want message and action", got)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrTooManyLoads)
	want := "Other loads are still in progress (Code: LOAD001). Please wait a moment and try again"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("nil should not be user facing")
	}
	if !IsUserFacing(ErrNoFile) {
		t.Error("ErrNoFile should be user facing")
	}
	if IsUserFacing(errors.New("random")) {
		t.Error("unknown error should not be user facing")
	}
}

func TestNewUserError(t *testing.T) {
	if NewUserError(nil) != nil {
		t.Fatal("NewUserError(nil) should be nil")
	}

	ue := NewUserError(ErrSuperseded)
	if ue.Error() != "A newer load replaced this one" {
		t.Errorf("Error() = %q", ue.Error())
	}
	if !errors.Is(ue, ErrSuperseded) {
		t.Error("UserError should unwrap to the technical error")
	}
}
