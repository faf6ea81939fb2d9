package core

// # Error Codes Reference
//
// Errors shown to dashboard users carry a code that support staff can look
// up here. Typed errors are matched first (errors.Is / errors.As), then the
// message is matched case-insensitively against known patterns. The first
// match wins.
//
// # Input (INP001)
//
//	INP001 - No CSV text was provided to the parser
//	         Action: Choose a file or refresh from the server
//
// # Transport (TRN001-TRN003)
//
//	TRN001 - Lead server unreachable
//	         Action: Check your connection and try again
//	TRN002 - Lead server returned an error (5xx, 429)
//	         Action: Try again in a few minutes
//	TRN003 - Lead server rejected the request (4xx)
//	         Action: Sign in again or contact the administrator
//
// # File (FILE001-FILE005)
//
//	FILE001 - File too large                 Patterns: "file too large"
//	FILE002 - File could not be read         Patterns: "file read error"
//	FILE003 - Encoding error                 Patterns: "encoding error"
//	FILE004 - No file selected               Patterns: "no file provided"
//	FILE005 - Not a CSV file                 Patterns: "unsupported file type"
//
// # Load (LOAD001-LOAD004)
//
//	LOAD001 - Too many loads in progress     Patterns: "too many concurrent loads"
//	LOAD002 - Superseded by a newer load     Patterns: "superseded"
//	LOAD003 - Request cancelled              Patterns: "context canceled"
//	LOAD004 - Request timed out              Patterns: "context deadline exceeded", "timeout"
//
// # Auth (AUTH001) and rate limiting (RATE001)
//
//	AUTH001 - Sign-in required or rejected   Patterns: "authentication"
//	RATE001 - Too many requests              Patterns: "rate limit"
//
// # Default (ERR000)
//
// Fallback when nothing matches. Check the application log for the
// original error; every log line for a load carries its load_id.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/leadboard/internal/leads"
	"github.com/JonMunkholm/leadboard/internal/upstream"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Support reference
}

var (
	msgInvalidInput = UserMessage{
		Message: "No lead data was provided",
		Action:  "Choose a CSV file or refresh from the server",
		Code:    "INP001",
	}
	msgUnreachable = UserMessage{
		Message: "The lead server could not be reached",
		Action:  "Check your connection and try again",
		Code:    "TRN001",
	}
	msgUpstreamFailed = UserMessage{
		Message: "The lead server returned an error",
		Action:  "Try again in a few minutes",
		Code:    "TRN002",
	}
	msgUpstreamRejected = UserMessage{
		Message: "The lead server rejected the request",
		Action:  "Sign in again or contact the administrator",
		Code:    "TRN003",
	}
	msgFileRead = UserMessage{
		Message: "The file could not be read",
		Action:  "Check the file is not open elsewhere and try again",
		Code:    "FILE002",
	}
	msgAuth = UserMessage{
		Message: "You need to sign in to view leads",
		Action:  "Sign in and try again",
		Code:    "AUTH001",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns are checked in order after the typed checks in MapError.
// Specific patterns come before general ones.
var errorPatterns = []errorPattern{
	// File errors
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "The file is larger than the upload limit",
			Action:  "Remove old rows or split the file",
			Code:    "FILE001",
		},
	},
	{
		pattern: "file read error",
		msg:     msgFileRead,
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "The file contains invalid characters",
			Action:  "Save the file as UTF-8",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Choose a CSV file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "Only CSV files can be loaded",
			Action:  "Export the sheet as CSV and try again",
			Code:    "FILE005",
		},
	},

	// Load errors
	{
		pattern: "too many concurrent loads",
		msg: UserMessage{
			Message: "Other loads are still in progress",
			Action:  "Please wait a moment and try again",
			Code:    "LOAD001",
		},
	},
	{
		pattern: "superseded",
		msg: UserMessage{
			Message: "A newer load replaced this one",
			Action:  "No action needed; the newest data is shown",
			Code:    "LOAD002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "LOAD003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try again or load a smaller file",
			Code:    "LOAD004",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try again or load a smaller file",
			Code:    "LOAD004",
		},
	},

	// Auth and rate limiting
	{
		pattern: "authentication",
		msg:     msgAuth,
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Typed errors are recognised first; otherwise the first matching pattern
// wins and ERR000 is the fallback.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	if errors.Is(err, leads.ErrInvalidInput) {
		return msgInvalidInput
	}
	if errors.Is(err, ErrAuthRequired) {
		return msgAuth
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return mapPattern(err)
	}

	var te *upstream.TransportError
	if errors.As(err, &te) {
		switch {
		case te.Status == 0:
			if errors.Is(te.Err, context.DeadlineExceeded) {
				return mapPattern(te.Err)
			}
			return msgUnreachable
		case te.Temporary():
			return msgUpstreamFailed
		case te.Status == http.StatusUnauthorized || te.Status == http.StatusForbidden:
			return msgAuth
		default:
			return msgUpstreamRejected
		}
	}

	var ae *upstream.AuthError
	if errors.As(err, &ae) {
		return msgAuth
	}

	var fre *leads.FileReadError
	if errors.As(err, &fre) && !errors.Is(err, ErrFileTooLarge) {
		return msgFileRead
	}

	return mapPattern(err)
}

func mapPattern(err error) UserMessage {
	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError creates a formatted error string for display:
// "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error (for logs) with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
