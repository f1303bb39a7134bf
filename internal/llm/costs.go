package llm

import (
	"sync"
	"time"
)

// CostEntry records the spend of a single provider call.
type CostEntry struct {
	Timestamp    time.Time `json:"timestamp"`
	Operation    string    `json:"operation"`
	Model        string    `json:"model"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	CostUSD      float64   `json:"cost_usd"`
}

// CostRecorder accumulates per-call LLM costs for a single process. It is
// injected into provider clients rather than shared globally, so each
// process and each test owns its own ledger.
type CostRecorder struct {
	mu      sync.Mutex
	entries []CostEntry
}

// NewCostRecorder constructs an empty recorder.
func NewCostRecorder() *CostRecorder {
	return &CostRecorder{}
}

// Record appends one cost entry. A zero timestamp is stamped with the
// current time.
func (r *CostRecorder) Record(entry CostEntry) {
	if r == nil {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

// Snapshot returns a copy of the recorded entries, oldest first.
func (r *CostRecorder) Snapshot() []CostEntry {
	if r == nil {
		return []CostEntry{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]CostEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Flush returns the recorded entries and clears the ledger.
func (r *CostRecorder) Flush() []CostEntry {
	if r == nil {
		return []CostEntry{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.entries
	if out == nil {
		out = []CostEntry{}
	}
	r.entries = nil
	return out
}

// TotalUSD sums the recorded costs.
func (r *CostRecorder) TotalUSD() float64 {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var total float64
	for _, e := range r.entries {
		total += e.CostUSD
	}
	return total
}
