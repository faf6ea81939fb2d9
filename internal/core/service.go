package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JonMunkholm/leadboard/internal/leads"
	"github.com/JonMunkholm/leadboard/internal/logging"
	"github.com/JonMunkholm/leadboard/internal/upstream"
)

// Upstream is the part of the backend client the service needs.
type Upstream interface {
	FetchCSV(ctx context.Context, cookies []*http.Cookie) (*upstream.CSV, error)
	Generate(ctx context.Context, cookies []*http.Cookie) (string, error)
}

// Options configures a Service. Zero values use the defaults.
type Options struct {
	RedactColumns []int
	Rules         leads.Rules
	MaxFileSize   int64
	LoadTimeout   time.Duration
	MaxConcurrent int
	MaxWait       time.Duration
	HistorySize   int
	Logger        *slog.Logger
}

// DefaultLoadTimeout bounds a single load when Options.LoadTimeout is zero.
const DefaultLoadTimeout = 2 * time.Minute

// Service owns the dashboard's current table and every way of replacing it.
type Service struct {
	upstream Upstream

	state   *State
	history *History
	limiter *LoadLimiter

	classifier *leads.Classifier
	engine     *leads.Engine
	rules      leads.Rules

	redact      []int
	maxFileSize int64
	loadTimeout time.Duration
}

// NewService creates a service. up may be nil when only local files and
// uploads are used.
func NewService(up Upstream, opts Options) *Service {
	rules := opts.Rules.WithDefaults()
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = DefaultLoadTimeout
	}
	return &Service{
		upstream:    up,
		state:       NewState(),
		history:     NewHistory(opts.HistorySize),
		limiter:     NewLoadLimiter(opts.MaxConcurrent, opts.MaxWait),
		classifier:  leads.NewClassifier(rules, opts.Logger),
		engine:      leads.NewEngine(rules),
		rules:       rules,
		redact:      append([]int(nil), opts.RedactColumns...),
		maxFileSize: opts.MaxFileSize,
		loadTimeout: opts.LoadTimeout,
	}
}

// Rules returns the display rules in effect.
func (s *Service) Rules() leads.Rules { return s.rules }

// Limiter exposes the load limiter for shutdown draining and status.
func (s *Service) Limiter() *LoadLimiter { return s.limiter }

// Status returns the current table status.
func (s *Service) Status() Status { return s.state.Status() }

// History returns recent loads, newest first.
func (s *Service) History() []LoadRecord { return s.history.Entries() }

// Table returns the committed table. Callers must not modify it.
func (s *Service) Table() leads.Table { return s.state.Table() }

// opener produces the raw CSV stream for a load.
type opener func(ctx context.Context) (io.ReadCloser, error)

// Refresh replaces the table with the backend's most recent export.
// Cookies attached with ContextWithCookies are forwarded.
func (s *Service) Refresh(ctx context.Context) (Status, error) {
	if s.upstream == nil {
		return s.Status(), ErrNoUpstream
	}
	return s.load(ctx, SourceUpstream, "", func(ctx context.Context) (io.ReadCloser, error) {
		csv, err := s.upstream.FetchCSV(ctx, CookiesFromContext(ctx))
		if err != nil {
			return nil, err
		}
		return csv.Body, nil
	})
}

// Upload replaces the table with an uploaded file. size is advisory and
// may be -1; the configured limit is enforced while reading.
func (s *Service) Upload(ctx context.Context, name string, r io.Reader, size int64) (Status, error) {
	if r == nil {
		return s.Status(), ErrNoFile
	}
	if !isCSVName(name) {
		return s.Status(), ErrUnsupportedFileType
	}
	if s.maxFileSize > 0 && size > s.maxFileSize {
		return s.Status(), fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, size, s.maxFileSize)
	}
	return s.load(ctx, SourceUpload, name, func(context.Context) (io.ReadCloser, error) {
		return io.NopCloser(r), nil
	})
}

// LoadFile replaces the table with a local CSV file.
func (s *Service) LoadFile(ctx context.Context, path string) (Status, error) {
	return s.load(ctx, SourceFile, filepath.Base(path), func(context.Context) (io.ReadCloser, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, &leads.FileReadError{Name: path, Err: err}
		}
		return f, nil
	})
}

// load waits for a limiter slot, then runs one parse+redact under a ticket
// and commits it if still newest. A load refused a slot never gets a ticket
// and leaves the state untouched.
func (s *Service) load(ctx context.Context, source LoadSource, name string, open opener) (Status, error) {
	logger := logging.WithFields(ctx, "source", string(source))
	if ip := GetIPAddressFromContext(ctx); ip != "" {
		logger = logger.With("client_ip", ip)
	}

	waitStart := time.Now()
	if err := s.limiter.Acquire(ctx); err != nil {
		s.history.Add(LoadRecord{
			Source:     source,
			Name:       name,
			DurationMs: time.Since(waitStart).Milliseconds(),
			Outcome:    OutcomeRejected,
			Error:      err.Error(),
			FinishedAt: time.Now(),
		})
		logger.Warn("load rejected", "name", name, "error", err)
		return s.Status(), err
	}
	defer s.limiter.Release()

	ticket := s.state.Begin(source, name)
	logger = logger.With("load_id", ticket.LoadID, "generation", ticket.Generation)
	logger.Info("load started", "name", name)

	table, err := s.read(ctx, open)
	if err != nil {
		s.state.Fail(ticket, err)
		s.record(ticket, 0, OutcomeFailed, err)
		logger.Error("load failed", "error", err, "duration_ms", time.Since(ticket.StartedAt).Milliseconds())
		return s.Status(), err
	}

	if !s.state.Commit(ticket, table) {
		s.record(ticket, table.Len(), OutcomeSuperseded, nil)
		logger.Info("load superseded, result discarded", "rows", table.Len())
		return s.Status(), ErrSuperseded
	}

	s.record(ticket, table.Len(), OutcomeCommitted, nil)
	logger.Info("load committed",
		"rows", table.Len(),
		"columns", len(table.Headers),
		"duration_ms", time.Since(ticket.StartedAt).Milliseconds(),
	)
	return s.Status(), nil
}

// read opens and parses one source. The caller holds a limiter slot.
func (s *Service) read(ctx context.Context, open opener) (leads.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()

	rc, err := open(ctx)
	if err != nil {
		return leads.Table{}, err
	}
	defer rc.Close()

	table, err := leads.Load(WrapForLoad(rc, s.maxFileSize), s.redact)
	if err != nil {
		return leads.Table{}, err
	}
	if err := ctx.Err(); err != nil {
		return leads.Table{}, err
	}
	return table, nil
}

func (s *Service) record(t Ticket, rows int, outcome LoadOutcome, err error) {
	rec := LoadRecord{
		LoadID:     t.LoadID,
		Generation: t.Generation,
		Source:     t.Source,
		Name:       t.Name,
		Rows:       rows,
		DurationMs: time.Since(t.StartedAt).Milliseconds(),
		Outcome:    outcome,
		FinishedAt: time.Now(),
	}
	if err != nil {
		rec.Error = err.Error()
	}
	s.history.Add(rec)
}

// Generate asks the backend to produce a new export and returns its
// message verbatim. It does not reload the table.
func (s *Service) Generate(ctx context.Context) (string, error) {
	if s.upstream == nil {
		return "", ErrNoUpstream
	}
	msg, err := s.upstream.Generate(ctx, CookiesFromContext(ctx))
	if err != nil {
		logging.FromContext(ctx).Error("lead generation failed", "error", err)
		return "", err
	}
	logging.FromContext(ctx).Info("lead generation triggered", "message", msg)
	return msg, nil
}

// Export writes the committed table in the given format.
func (s *Service) Export(w io.Writer, format leads.ExportFormat) error {
	return leads.Export(w, s.state.Table(), format)
}

// Industries returns the distinct industry values of the current table.
func (s *Service) Industries() []string {
	return s.industries(s.state.Table())
}

func (s *Service) industries(t leads.Table) []string {
	values := leads.DistinctValues(t, s.rules.IndustryHeader)
	if values == nil {
		return []string{}
	}
	return values
}

func isCSVName(name string) bool {
	if name == "" {
		return true
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return true
	}
	return false
}

// IsSuperseded reports whether err only means a newer load won.
func IsSuperseded(err error) bool {
	return errors.Is(err, ErrSuperseded)
}
