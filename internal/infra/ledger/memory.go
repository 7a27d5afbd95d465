package ledger

import (
	"context"
	"sync"
	"time"

	"stay-event-adapter/internal/pkg/clock"
)

// MemoryLedger keeps ledger entries in process memory with the same expiry
// semantics as the DynamoDB table. Used for local runs and tests.
type MemoryLedger struct {
	mu      sync.Mutex
	expires map[string]time.Time
	clock   clock.Clock
}

func NewMemoryLedger(clock clock.Clock) *MemoryLedger {
	return &MemoryLedger{
		expires: make(map[string]time.Time),
		clock:   clock,
	}
}

func (l *MemoryLedger) IsDuplicate(_ context.Context, hash string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	expiry, ok := l.expires[hash]
	if !ok {
		return false, nil
	}
	if !l.clock.Now().Before(expiry) {
		delete(l.expires, hash)
		return false, nil
	}
	return true, nil
}

func (l *MemoryLedger) Commit(_ context.Context, hash string, retention time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.expires[hash] = l.clock.Now().Add(retention)
	return nil
}
