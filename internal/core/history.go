package core

import (
	"sync"
	"time"
)

// LoadOutcome is how a load ended.
type LoadOutcome string

const (
	OutcomeCommitted  LoadOutcome = "committed"
	OutcomeSuperseded LoadOutcome = "superseded"
	OutcomeFailed     LoadOutcome = "failed"

	// OutcomeRejected marks a load refused a limiter slot. It has no
	// generation and never touched the table.
	OutcomeRejected LoadOutcome = "rejected"
)

// LoadRecord is one finished load, newest first in History.
type LoadRecord struct {
	LoadID     string      `json:"loadId,omitempty"`
	Generation uint64      `json:"generation,omitempty"`
	Source     LoadSource  `json:"source"`
	Name       string      `json:"name,omitempty"`
	Rows       int         `json:"rows"`
	DurationMs int64       `json:"durationMs"`
	Outcome    LoadOutcome `json:"outcome"`
	Error      string      `json:"error,omitempty"`
	FinishedAt time.Time   `json:"finishedAt"`
}

// DefaultHistorySize is how many load records are kept.
const DefaultHistorySize = 20

// History is a bounded in-memory log of recent loads.
type History struct {
	mu      sync.Mutex
	size    int
	records []LoadRecord
}

// NewHistory keeps at most size records.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{size: size}
}

// Add records a finished load, dropping the oldest beyond the size limit.
func (h *History) Add(r LoadRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, r)
	if over := len(h.records) - h.size; over > 0 {
		h.records = append(h.records[:0:0], h.records[over:]...)
	}
}

// Entries returns the records newest first.
func (h *History) Entries() []LoadRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]LoadRecord, len(h.records))
	for i, r := range h.records {
		out[len(h.records)-1-i] = r
	}
	return out
}
