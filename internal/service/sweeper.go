package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/placement-service/internal/domain"
	"github.com/spec-kit/placement-service/internal/events"
	"github.com/spec-kit/placement-service/internal/observability"
	"github.com/spec-kit/placement-service/internal/repository"
)

// ExpirySweeper closes postings whose deadline has passed.
type ExpirySweeper struct {
	postings   repository.PostingRepository
	loc        *time.Location
	now        func() time.Time
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// SweeperDependencies bundles collaborators for the sweeper.
type SweeperDependencies struct {
	Postings   repository.PostingRepository
	Location   *time.Location
	Clock      func() time.Time
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewExpirySweeper builds the sweeper. Location defaults to time.Local.
func NewExpirySweeper(deps SweeperDependencies) *ExpirySweeper {
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpirySweeper{
		postings:   deps.Postings,
		loc:        loc,
		now:        clock,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger.With(zap.String("component", "expiry_sweeper")),
	}
}

// Sweep closes every non-closed posting with a deadline before today and
// returns how many were closed. Failures are logged and returned; the next
// run re-evaluates the full predicate.
func (s *ExpirySweeper) Sweep(ctx context.Context) (int64, error) {
	start := time.Now()
	today := domain.StartOfDay(s.now(), s.loc)

	ids, err := s.postings.CloseExpired(ctx, today)
	s.metrics.RecordSweep(int64(len(ids)), time.Since(start), err)
	if err != nil {
		s.logger.Error("expiry sweep failed",
			zap.String("cutoff", today.Format(domain.DateLayout)),
			zap.Error(err))
		return 0, err
	}

	s.logger.Info("expiry sweep finished",
		zap.String("cutoff", today.Format(domain.DateLayout)),
		zap.Int("closed", len(ids)))

	if len(ids) > 0 && s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:    events.EventPostingsClosed,
			Actor:   events.SystemActor,
			Payload: events.PostingsClosedPayload{Cutoff: today, PostingIDs: ids},
		})
	}
	return int64(len(ids)), nil
}
