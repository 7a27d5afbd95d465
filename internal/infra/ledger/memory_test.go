//go:build unit

package ledger_test

import (
	"context"
	"testing"
	"time"

	"stay-event-adapter/internal/infra/ledger"
	"stay-event-adapter/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHash = "a3f2b8c1d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0c1d2e3f4a5b6c7d8e9f0a1"

func TestMemoryLedger_Idempotence(t *testing.T) {
	ctx := context.Background()
	mockClock := clock.NewMockClock(time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC))
	l := ledger.NewMemoryLedger(mockClock)

	dup, err := l.IsDuplicate(ctx, testHash)
	require.NoError(t, err)
	assert.False(t, dup)

	require.NoError(t, l.Commit(ctx, testHash, 72*time.Hour))

	dup, err = l.IsDuplicate(ctx, testHash)
	require.NoError(t, err)
	assert.True(t, dup)
}

func TestMemoryLedger_EntriesExpire(t *testing.T) {
	ctx := context.Background()
	mockClock := clock.NewMockClock(time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC))
	l := ledger.NewMemoryLedger(mockClock)

	require.NoError(t, l.Commit(ctx, testHash, 72*time.Hour))

	mockClock.Add(71 * time.Hour)
	dup, err := l.IsDuplicate(ctx, testHash)
	require.NoError(t, err)
	assert.True(t, dup, "entry must survive inside the retention window")

	mockClock.Add(2 * time.Hour)
	dup, err = l.IsDuplicate(ctx, testHash)
	require.NoError(t, err)
	assert.False(t, dup, "expired entry must read as new")
}

func TestMemoryLedger_UnknownHashIsNew(t *testing.T) {
	ctx := context.Background()
	l := ledger.NewMemoryLedger(clock.NewRealClock())

	dup, err := l.IsDuplicate(ctx, "never-seen")
	require.NoError(t, err)
	assert.False(t, dup)
}
