package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/JonMunkholm/leadboard/internal/core"
	"github.com/JonMunkholm/leadboard/internal/leads"
	"github.com/JonMunkholm/leadboard/internal/logging"
	"github.com/JonMunkholm/leadboard/internal/web/views"
)

// loadResponse is the JSON body returned by refresh and upload.
type loadResponse struct {
	Status core.Status `json:"status"`

	// Superseded is true when a newer load started while this one ran; the
	// table shown is the newer one.
	Superseded bool `json:"superseded"`
}

// statusResponse is the JSON body of GET /api/leads/status.
type statusResponse struct {
	Status  core.Status        `json:"status"`
	Limiter core.LimiterStatus `json:"limiter"`
	History []core.LoadRecord  `json:"history"`
}

// requestContext attaches the client IP and the browser cookies that the
// upstream backend expects.
func requestContext(r *http.Request) context.Context {
	ctx := core.ContextWithIPAddress(r.Context(), clientIP(r))
	return core.ContextWithCookies(ctx, r.Cookies())
}

// handleDashboard renders the full page, or for HTMX swaps the table plus an
// out-of-band copy of the sort state.
// With AUTH_REQUIRED the page shows the sign-in form until the backend
// reports a session.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	authenticated := true
	if s.cfg.Security.AuthRequired {
		authenticated = false
		if s.auth != nil {
			sess, err := s.auth.Me(r.Context(), r.Cookies())
			authenticated = err == nil && sess.Authenticated
		}
	}

	if isHTMX(r) {
		if !authenticated {
			s.respondError(w, r, core.ErrAuthRequired)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		v := s.service.View(views.ParseQuery(r.URL.Query()))
		if err := views.LeadsTable(v).Render(r.Context(), w); err != nil {
			logging.FromContext(r.Context()).Error("render leads table", "error", err)
			return
		}
		// Sort links change the sort outside the controls form.
		if err := views.SortState(v.Query, true).Render(r.Context(), w); err != nil {
			logging.FromContext(r.Context()).Error("render sort state", "error", err)
		}
		return
	}

	data := views.PageData{
		AuthRequired:  s.cfg.Security.AuthRequired,
		Authenticated: authenticated,
		Flash:         r.URL.Query().Get("flash"),
	}
	if authenticated {
		data.View = s.service.View(views.ParseQuery(r.URL.Query()))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.Dashboard(data).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render dashboard", "error", err)
	}
}

// handleHealth reports liveness and the loaded generation.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.service.Status()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"generation": st.Generation,
		"rows":       st.Rows,
	})
}

// handleLeads returns the classified view for the query parameters.
func (s *Server) handleLeads(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.View(views.ParseQuery(r.URL.Query())))
}

// handleIndustries returns the distinct industry values for the filter.
func (s *Server) handleIndustries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"industries": s.service.Industries()})
}

// handleStatus returns load state, limiter occupancy and recent loads.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := views.StatusBanner(s.service.Status()).Render(r.Context(), w); err != nil {
			logging.FromContext(r.Context()).Error("render status", "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Status:  s.service.Status(),
		Limiter: s.service.Limiter().Status(),
		History: s.service.History(),
	})
}

// handleRefresh reloads the table from the backend.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	st, err := s.service.Refresh(requestContext(r))
	s.respondLoad(w, r, st, err)
}

// handleUpload replaces the table with the multipart "file" field.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	// Multipart framing adds a little on top of the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1<<20)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			s.respondError(w, r, fmt.Errorf("%w: request exceeds %d bytes", core.ErrFileTooLarge, mbe.Limit))
			return
		}
		s.respondError(w, r, fmt.Errorf("%w: %v", core.ErrNoFile, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, core.ErrNoFile)
		return
	}
	defer file.Close()

	st, err := s.service.Upload(requestContext(r), header.Filename, file, header.Size)
	s.respondLoad(w, r, st, err)
}

// respondLoad answers a refresh or upload. A superseded load is not an
// error for the caller: the newer table is reported instead.
func (s *Server) respondLoad(w http.ResponseWriter, r *http.Request, st core.Status, err error) {
	superseded := core.IsSuperseded(err)
	if err != nil && !superseded {
		s.respondError(w, r, err)
		return
	}

	switch {
	case isHTMX(r):
		w.Header().Set("HX-Trigger", "leads-loaded")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := views.StatusBanner(st).Render(r.Context(), w); err != nil {
			logging.FromContext(r.Context()).Error("render status", "error", err)
		}
	case wantsJSON(r):
		writeJSON(w, http.StatusOK, loadResponse{Status: st, Superseded: superseded})
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// handleDownload streams the current table as CSV or XLSX.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	format, err := leads.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondErrorJSON(w, core.UserMessage{
			Message: "Unknown download format",
			Action:  "Use format=csv or format=xlsx",
			Code:    "INP001",
		}, http.StatusBadRequest)
		return
	}

	// Buffer so an encoding failure can still produce an error status.
	var buf bytes.Buffer
	if err := s.service.Export(&buf, format); err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="leads.%s"`, format))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		logging.FromContext(r.Context()).Warn("download interrupted", "error", err)
	}
}

// handleGenerate asks the backend for a new export and relays its message.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	msg, err := s.service.Generate(requestContext(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	switch {
	case isHTMX(r):
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := views.Flash(msg).Render(r.Context(), w); err != nil {
			logging.FromContext(r.Context()).Error("render flash", "error", err)
		}
	case wantsJSON(r):
		writeJSON(w, http.StatusOK, map[string]string{"message": msg})
	default:
		http.Redirect(w, r, "/?flash="+url.QueryEscape(msg), http.StatusSeeOther)
	}
}
