package usecase

import (
	"context"
	"log/slog"
	"time"

	"stay-event-adapter/internal/domain/stay"
	"stay-event-adapter/internal/pkg/clock"
	"stay-event-adapter/internal/pkg/errs"

	"github.com/google/uuid"
)

// RowSource yields one bounded batch of raw warehouse records. A failure here
// is fatal for the whole invocation.
type RowSource interface {
	FetchRows(ctx context.Context) ([]map[string]any, error)
}

// Ledger is the deduplication store keyed by content fingerprint.
type Ledger interface {
	IsDuplicate(ctx context.Context, hash string) (bool, error)
	Commit(ctx context.Context, hash string, retention time.Duration) error
}

// EventPublisher hands one event to the pub/sub transport. No internal retry:
// redelivery is the host's job.
type EventPublisher interface {
	Publish(ctx context.Context, event stay.StayCompletedEvent) error
}

// Summary is the per-invocation outcome returned to the host. RowsFetched
// counts every row in the batch, including ones that failed row-level.
type Summary struct {
	RowsFetched int
	Published   int
	Duplicates  int
	Ineligible  int
	Failed      int
}

type StayEventUseCase interface {
	ProcessBatch(ctx context.Context, src RowSource) (Summary, error)
}

type stayEventUseCaseImpl struct {
	ledger    Ledger
	publisher EventPublisher
	policy    stay.EligibilityPolicy
	retention time.Duration
	clock     clock.Clock
	logger    *slog.Logger
}

func NewStayEventUseCase(
	ledger Ledger,
	publisher EventPublisher,
	policy stay.EligibilityPolicy,
	retention time.Duration,
	clock clock.Clock,
	logger *slog.Logger,
) StayEventUseCase {
	return &stayEventUseCaseImpl{
		ledger:    ledger,
		publisher: publisher,
		policy:    policy,
		retention: retention,
		clock:     clock,
		logger:    logger,
	}
}

type rowOutcome int

const (
	outcomePublished rowOutcome = iota
	outcomeDuplicate
	outcomeIneligible
	outcomeFailed
)

// ProcessBatch drives one invocation: fetch the batch, then process each row
// in isolation. Only the fetch can fail the invocation; inside the loop every
// error is logged and the row skipped.
func (u *stayEventUseCaseImpl) ProcessBatch(ctx context.Context, src RowSource) (Summary, error) {
	runID := uuid.New()
	logger := u.logger.With(slog.String("run_id", runID.String()))

	raws, err := src.FetchRows(ctx)
	if err != nil {
		logger.Error("batch fetch failed", slog.Any("error", err))
		return Summary{}, errs.Mark(err, errs.ErrBatchFetchFailed)
	}

	todayKey := stay.DateKeyOf(u.clock.Now().UTC())
	summary := Summary{RowsFetched: len(raws)}
	logger.Info("batch fetched",
		slog.Int("rows", summary.RowsFetched),
		slog.Int("today_key", todayKey),
	)

	for i, raw := range raws {
		switch u.processRow(ctx, logger.With(slog.Int("row", i)), raw, todayKey) {
		case outcomePublished:
			summary.Published++
		case outcomeDuplicate:
			summary.Duplicates++
		case outcomeIneligible:
			summary.Ineligible++
		case outcomeFailed:
			summary.Failed++
		}
	}

	logger.Info("batch done",
		slog.Int("rows", summary.RowsFetched),
		slog.Int("published", summary.Published),
		slog.Int("duplicates", summary.Duplicates),
		slog.Int("ineligible", summary.Ineligible),
		slog.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (u *stayEventUseCaseImpl) processRow(ctx context.Context, logger *slog.Logger, raw map[string]any, todayKey int) (outcome rowOutcome) {
	// One bad row must never abort the batch.
	defer func() {
		if r := recover(); r != nil {
			logger.Error("row processing panicked", slog.Any("panic", r))
			outcome = outcomeFailed
		}
	}()

	row := stay.Normalize(raw)
	if !u.policy.Eligible(row, todayKey) {
		return outcomeIneligible
	}

	hash := stay.Fingerprint(row)
	logger = logger.With(slog.String("hash", hash))

	duplicate, err := u.ledger.IsDuplicate(ctx, hash)
	if err != nil {
		// Prefer a potential duplicate publish over silently dropping a new
		// event.
		logger.Warn("ledger read failed, treating row as new", slog.Any("error", err))
		duplicate = false
	}
	if duplicate {
		logger.Info("duplicate detected, skipping")
		return outcomeDuplicate
	}

	event := stay.NewStayCompletedEvent(row)
	if err := u.publisher.Publish(ctx, event); err != nil {
		logger.Error("publish failed", slog.Any("error", err))
		return outcomeFailed
	}

	// Commit strictly after a successful publish: marking first would drop
	// the event for good if the publish then failed.
	if err := u.ledger.Commit(ctx, hash, u.retention); err != nil {
		logger.Warn("ledger commit failed, accepting ledger drift", slog.Any("error", err))
	}

	logger.Info("event published")
	return outcomePublished
}
