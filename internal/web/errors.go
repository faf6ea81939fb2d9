package web

// errors.go provides unified error response handling for the web layer.
//
// Every handler error goes through respondError, which:
//  1. maps the error with core.MapError to a user message and code
//  2. logs the technical error with the request ID for correlation
//  3. renders the user message as an HTMX fragment, JSON or plain text
//
// The HTTP status is derived from the support code, so handlers never pick
// one by hand.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/leadboard/internal/core"
	"github.com/JonMunkholm/leadboard/internal/logging"
	"github.com/JonMunkholm/leadboard/internal/web/views"
)

var errRateLimited = errors.New("rate limit exceeded")

// ErrorResponse is the JSON body of an API error.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusByCode maps support codes to HTTP status codes.
var statusByCode = map[string]int{
	"INP001":  http.StatusBadRequest,
	"TRN001":  http.StatusBadGateway,
	"TRN002":  http.StatusBadGateway,
	"TRN003":  http.StatusBadGateway,
	"FILE001": http.StatusRequestEntityTooLarge,
	"FILE002": http.StatusBadRequest,
	"FILE003": http.StatusBadRequest,
	"FILE004": http.StatusBadRequest,
	"FILE005": http.StatusUnsupportedMediaType,
	"LOAD001": http.StatusServiceUnavailable,
	"LOAD002": http.StatusConflict,
	"LOAD003": http.StatusRequestTimeout,
	"LOAD004": http.StatusGatewayTimeout,
	"AUTH001": http.StatusUnauthorized,
	"RATE001": http.StatusTooManyRequests,
}

// statusFor returns the HTTP status for err.
func statusFor(err error, msg core.UserMessage) int {
	if errors.Is(err, core.ErrNoUpstream) {
		return http.StatusServiceUnavailable
	}
	if code, ok := statusByCode[msg.Code]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes its user message in the format the
// client asked for.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	userMsg := core.MapError(err)
	statusCode := statusFor(err, userMsg)

	level := slog.LevelWarn
	if statusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	switch {
	case isHTMX(r):
		renderErrorPartial(w, r, userMsg, statusCode)
	case wantsJSON(r):
		respondErrorJSON(w, userMsg, statusCode)
	default:
		respondErrorHTML(w, userMsg, statusCode)
	}
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorHTML writes a plain text error response.
func respondErrorHTML(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	http.Error(w, msg.Message+". "+msg.Action+" ("+msg.Code+")", statusCode)
}

// renderErrorPartial renders an HTMX-compatible error fragment into the
// page's alert region, whatever the triggering element targeted.
func renderErrorPartial(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("HX-Retarget", "#alerts")
	w.Header().Set("HX-Reswap", "innerHTML")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := views.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
		slog.Error("render error partial", "error", err)
	}
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON reports whether the client prefers a JSON response. API routes
// default to JSON unless the client is a browser form asking for HTML.
func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	if strings.Contains(accept, "text/html") {
		return false
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
