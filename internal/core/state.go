package core

// state.go holds the single current Table and decides which load wins.
//
// A load takes a Ticket from Begin once it has been admitted by the load
// limiter. Tickets carry a strictly increasing generation. A load commits
// only if no newer table has been committed and no newer load is still in
// flight. A load that fails leaves the race without superseding anyone, so
// an older load still running can commit its result.

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/leadboard/internal/leads"
)

// LoadSource identifies where a table came from.
type LoadSource string

const (
	SourceNone     LoadSource = ""
	SourceUpstream LoadSource = "upstream"
	SourceUpload   LoadSource = "upload"
	SourceFile     LoadSource = "file"
)

// Ticket is issued by Begin and redeemed by Commit or Fail.
type Ticket struct {
	Generation uint64
	LoadID     string
	Source     LoadSource
	Name       string
	StartedAt  time.Time
}

// Status describes the current table and any load in flight.
type Status struct {
	Generation uint64     `json:"generation"`
	LoadID     string     `json:"loadId,omitempty"`
	Source     LoadSource `json:"source,omitempty"`
	Name       string     `json:"name,omitempty"`
	LoadedAt   time.Time  `json:"loadedAt,omitempty"`
	Rows       int        `json:"rows"`
	Columns    int        `json:"columns"`
	Loading    bool       `json:"loading"`
	Error      string     `json:"error,omitempty"`

	// Problem is the user-facing form of Error.
	Problem *UserMessage `json:"problem,omitempty"`
}

// State is the dashboard's current table. It is safe for concurrent use.
type State struct {
	mu sync.RWMutex

	latest   uint64              // newest generation handed out
	inflight map[uint64]struct{} // generations begun but not yet settled

	table   leads.Table
	current Ticket // ticket of the committed table
	loaded  time.Time
	lastErr string
	errGen  uint64 // generation that reported lastErr
	problem *UserMessage

	now func() time.Time
}

// NewState returns a state holding an empty table.
func NewState() *State {
	return &State{
		table:    leads.EmptyTable(),
		inflight: make(map[uint64]struct{}),
		now:      time.Now,
	}
}

// Begin issues a ticket for an admitted load.
func (s *State) Begin(source LoadSource, name string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest++
	s.inflight[s.latest] = struct{}{}
	return Ticket{
		Generation: s.latest,
		LoadID:     uuid.NewString(),
		Source:     source,
		Name:       name,
		StartedAt:  s.now(),
	}
}

// newestLocked reports whether gen is ahead of the committed table and
// every load still in flight. s.mu must be held.
func (s *State) newestLocked(gen uint64) bool {
	if gen <= s.current.Generation {
		return false
	}
	for g := range s.inflight {
		if g > gen {
			return false
		}
	}
	return true
}

// Commit stores table if t is still the newest load and reports whether
// it did. A committed table clears any previous load error.
func (s *State) Commit(t Ticket, table leads.Table) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inflight, t.Generation)
	if !s.newestLocked(t.Generation) {
		return false
	}
	s.table = table
	s.current = t
	s.loaded = s.now()
	s.lastErr = ""
	s.errGen = 0
	s.problem = nil
	return true
}

// Fail settles t without touching the table. The error is recorded for
// display only if t is still the newest load; either way older loads in
// flight keep their chance to commit.
func (s *State) Fail(t Ticket, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inflight, t.Generation)
	if !s.newestLocked(t.Generation) || t.Generation < s.errGen {
		return false
	}
	if err != nil {
		msg := MapError(err)
		s.lastErr = err.Error()
		s.errGen = t.Generation
		s.problem = &msg
	}
	return true
}

// Table returns the committed table. Callers must not modify it.
func (s *State) Table() leads.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// Status returns a snapshot of the state.
func (s *State) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statusLocked()
}

// Snapshot returns the committed table and the status describing it, read
// under one lock. Callers must not modify the table.
func (s *State) Snapshot() (leads.Table, Status) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table, s.statusLocked()
}

func (s *State) statusLocked() Status {
	return Status{
		Generation: s.current.Generation,
		LoadID:     s.current.LoadID,
		Source:     s.current.Source,
		Name:       s.current.Name,
		LoadedAt:   s.loaded,
		Rows:       s.table.Len(),
		Columns:    len(s.table.Headers),
		Loading:    len(s.inflight) > 0,
		Error:      s.lastErr,
		Problem:    s.problem,
	}
}
