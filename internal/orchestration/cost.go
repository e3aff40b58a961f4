package orchestration

import (
	"sync"

	"github.com/demoforge/demo-orchestrator/internal/models"
)

// CostTracker accumulates process-wide billable usage across all generation
// calls. Totals increase monotonically for the life of the process.
type CostTracker struct {
	mu     sync.Mutex
	totals models.CostRecord
}

// NewCostTracker creates an empty tracker.
func NewCostTracker() *CostTracker {
	return &CostTracker{}
}

// Record accumulates one generation call's usage.
func (t *CostTracker) Record(usage models.CostRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totals.Add(usage)
}

// Totals returns a snapshot of the accumulated usage.
func (t *CostTracker) Totals() models.CostRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totals
}
