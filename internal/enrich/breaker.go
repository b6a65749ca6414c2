package enrich

import (
	"errors"
	"sync"
)

// ErrQuotaExceeded is returned by a provider when the upstream answers with a
// rate-limit-class status. It trips that provider's breaker for the rest of
// the ingestion cycle.
var ErrQuotaExceeded = errors.New("enrich: provider quota exceeded")

// BreakerSet holds the per-provider quota flags for one ingestion cycle.
// It is passed into the orchestrator explicitly and reset exactly once at
// cycle start, never mid-cycle.
type BreakerSet struct {
	mu      sync.Mutex
	tripped map[string]bool
}

func NewBreakerSet() *BreakerSet {
	return &BreakerSet{tripped: make(map[string]bool)}
}

func (b *BreakerSet) Trip(provider string) {
	b.mu.Lock()
	b.tripped[provider] = true
	b.mu.Unlock()
}

func (b *BreakerSet) Tripped(provider string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tripped[provider]
}

// Reset clears every flag. Called at the start of each genre's cycle.
func (b *BreakerSet) Reset() {
	b.mu.Lock()
	b.tripped = make(map[string]bool)
	b.mu.Unlock()
}
