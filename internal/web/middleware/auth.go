package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/JonMunkholm/leadboard/internal/core"
	"github.com/JonMunkholm/leadboard/internal/logging"
	"github.com/JonMunkholm/leadboard/internal/upstream"
)

// SessionChecker asks the backend who the browser's cookies belong to.
type SessionChecker interface {
	Me(ctx context.Context, cookies []*http.Cookie) (*upstream.Session, error)
}

// SessionAuth gates routes behind a valid backend session. If required is
// false, all requests pass through. Unauthenticated requests get 401; an
// unreachable backend gets 502.
func SessionAuth(checker SessionChecker, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !required {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := checker.Me(r.Context(), r.Cookies())
			if err != nil {
				logging.FromContext(r.Context()).Warn("auth: session check failed",
					"path", r.URL.Path,
					"error", err,
				)
				writeDenied(w, core.MapError(err), http.StatusBadGateway)
				return
			}
			if !sess.Authenticated {
				logging.FromContext(r.Context()).Info("auth: no session",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				writeDenied(w, core.MapError(core.ErrAuthRequired), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeDenied(w http.ResponseWriter, msg core.UserMessage, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   msg.Message,
		"message": msg.Message,
		"action":  msg.Action,
		"code":    msg.Code,
	})
}
