package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/placement-service/internal/domain"
	"github.com/spec-kit/placement-service/internal/events"
	"github.com/spec-kit/placement-service/internal/observability"
	"github.com/spec-kit/placement-service/internal/repository/memory"
)

func seedPosting(t *testing.T, store *memory.Store, id string, deadline time.Time, status domain.PostingStatus) {
	t.Helper()
	p := &domain.Posting{ID: id, CompanyName: id, JobRole: "SDE", Deadline: deadline, Status: status}
	require.NoError(t, store.Postings().Create(context.Background(), p))
}

func postingStatus(t *testing.T, store *memory.Store, id string) domain.PostingStatus {
	t.Helper()
	p, err := store.Postings().GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Status
}

func TestSweepClosesOnlyPastDeadlines(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2024, 5, 10, 0, 30, 0, 0, loc)
	today := domain.StartOfDay(now, loc)
	store := memory.NewStore()

	seedPosting(t, store, "yesterday", today.AddDate(0, 0, -1), domain.PostingOpen)
	seedPosting(t, store, "today", today, domain.PostingOpen)
	seedPosting(t, store, "tomorrow", today.AddDate(0, 0, 1), domain.PostingOpen)

	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	var published []events.Event
	dispatcher.Subscribe(events.EventPostingsClosed, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	sweeper := NewExpirySweeper(SweeperDependencies{
		Postings:   store.Postings(),
		Location:   loc,
		Clock:      func() time.Time { return now },
		Dispatcher: dispatcher,
		Metrics:    observability.NewMetrics(),
	})

	closed, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), closed)
	assert.Equal(t, domain.PostingClosed, postingStatus(t, store, "yesterday"))
	assert.Equal(t, domain.PostingOpen, postingStatus(t, store, "today"))
	assert.Equal(t, domain.PostingOpen, postingStatus(t, store, "tomorrow"))

	closed, err = sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, closed)
	require.Len(t, published, 1)
	assert.Equal(t, []string{"yesterday"}, published[0].Payload.(events.PostingsClosedPayload).PostingIDs)
}

func TestSweepReclosesReopenedPosting(t *testing.T) {
	now := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	seedPosting(t, store, "late", now.AddDate(0, 0, -2), domain.PostingOpen)
	sweeper := NewExpirySweeper(SweeperDependencies{
		Postings: store.Postings(),
		Location: time.UTC,
		Clock:    func() time.Time { return now },
	})

	_, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.PostingClosed, postingStatus(t, store, "late"))

	p, err := store.Postings().GetByID(context.Background(), "late")
	require.NoError(t, err)
	p.Status = domain.PostingOpen
	require.NoError(t, store.Postings().Update(context.Background(), p))

	closed, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), closed)
	assert.Equal(t, domain.PostingClosed, postingStatus(t, store, "late"))
}

func TestSweepClosesComingSoonAndSkipsClosed(t *testing.T) {
	now := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	seedPosting(t, store, "closed-future", now.AddDate(0, 0, 5), domain.PostingClosed)
	seedPosting(t, store, "soon-past", now.AddDate(0, 0, -1), domain.PostingComingSoon)
	sweeper := NewExpirySweeper(SweeperDependencies{Postings: store.Postings(), Location: time.UTC, Clock: func() time.Time { return now }})

	closed, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), closed)
	assert.Equal(t, domain.PostingClosed, postingStatus(t, store, "closed-future"))
	assert.Equal(t, domain.PostingClosed, postingStatus(t, store, "soon-past"))
}

func TestSweepStoreFailureIsReported(t *testing.T) {
	store := memory.NewStore()
	seedPosting(t, store, "past", time.Now().AddDate(0, 0, -3), domain.PostingOpen)
	store.Fail = errors.New("connection reset")
	sweeper := NewExpirySweeper(SweeperDependencies{Postings: store.Postings()})

	closed, err := sweeper.Sweep(context.Background())
	require.Error(t, err)
	assert.Zero(t, closed)

	store.Fail = nil
	closed, err = sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), closed)
}
