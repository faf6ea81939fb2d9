package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/leadboard/internal/core"
	"github.com/JonMunkholm/leadboard/internal/upstream"
)

// maxLoginBody bounds the login request body.
const maxLoginBody = 64 << 10

// sessionResponse is the JSON body of the auth proxy routes.
type sessionResponse struct {
	Authenticated bool            `json:"authenticated"`
	User          json.RawMessage `json:"user,omitempty"`
}

// relayCookies copies the backend's Set-Cookie headers to the browser.
func relayCookies(w http.ResponseWriter, values []string) {
	for _, v := range values {
		w.Header().Add("Set-Cookie", v)
	}
}

// handleLogin forwards credentials to the backend. Accepts a JSON body or a
// regular form post from the dashboard.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil {
		s.respondError(w, r, core.ErrNoUpstream)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxLoginBody)

	var creds upstream.Credentials
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			respondErrorJSON(w, core.UserMessage{
				Message: "The sign-in request was malformed",
				Action:  "Send email and password as JSON",
				Code:    "INP001",
			}, http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			s.respondError(w, r, fmt.Errorf("parse login form: %w", err))
			return
		}
		creds.Email = r.PostFormValue("email")
		creds.Password = r.PostFormValue("password")
	}

	sess, err := s.auth.Login(r.Context(), creds, r.Cookies())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	relayCookies(w, sess.SetCookies)

	if !wantsJSON(r) && !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Authenticated: true, User: sess.User})
}

// handleMe reports the backend session for the browser's cookies.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil {
		s.respondError(w, r, core.ErrNoUpstream)
		return
	}

	sess, err := s.auth.Me(r.Context(), r.Cookies())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	relayCookies(w, sess.SetCookies)
	writeJSON(w, http.StatusOK, sessionResponse{Authenticated: sess.Authenticated, User: sess.User})
}

// handleLogout ends the backend session and clears its cookies.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil {
		s.respondError(w, r, core.ErrNoUpstream)
		return
	}

	cookies, err := s.auth.Logout(r.Context(), r.Cookies())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	relayCookies(w, cookies)

	if !wantsJSON(r) && !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Authenticated: false})
}
