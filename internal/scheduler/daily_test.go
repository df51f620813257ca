package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRun(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"before fire time", time.Date(2024, 5, 10, 23, 59, 0, 0, ist), time.Date(2024, 5, 11, 0, 0, 0, 0, ist)},
		{"exactly at fire time", time.Date(2024, 5, 11, 0, 0, 0, 0, ist), time.Date(2024, 5, 12, 0, 0, 0, 0, ist)},
		{"utc input converted", time.Date(2024, 5, 10, 18, 29, 0, 0, time.UTC), time.Date(2024, 5, 11, 0, 0, 0, 0, ist)},
		{"month rollover", time.Date(2024, 1, 31, 12, 0, 0, 0, ist), time.Date(2024, 2, 1, 0, 0, 0, 0, ist)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextRun(tt.now, 0, 0, ist)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestNextRunAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, ny)
	got := NextRun(now, 3, 30, ny)
	assert.Equal(t, 10, got.Day())
	assert.Equal(t, 3, got.Hour())
	assert.Equal(t, 30, got.Minute())
	// Clocks spring forward overnight, so the wait is one hour shorter than the wall-clock gap.
	assert.Equal(t, 14*time.Hour+30*time.Minute, got.Sub(now))
}

type fakeLocker struct {
	acquired bool
	err      error
	keys     []string
}

func (f *fakeLocker) TryLock(_ context.Context, key string, _ time.Duration) (bool, error) {
	f.keys = append(f.keys, key)
	return f.acquired, f.err
}

func newTestDaily(job Job, locker Locker) *Daily {
	d := &Daily{Name: "sweep", LockTTL: time.Minute, Locker: locker, Job: job, Location: time.UTC}
	d.now = func() time.Time { return time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC) }
	d.defaults()
	return d
}

func TestTickRespectsLock(t *testing.T) {
	var runs int32
	job := func(context.Context) error { atomic.AddInt32(&runs, 1); return nil }

	held := &fakeLocker{acquired: false}
	newTestDaily(job, held).tick(context.Background())
	assert.Zero(t, atomic.LoadInt32(&runs))
	assert.Equal(t, []string{"sweep:2024-05-10"}, held.keys)

	free := &fakeLocker{acquired: true}
	newTestDaily(job, free).tick(context.Background())
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))

	broken := &fakeLocker{err: errors.New("redis down")}
	newTestDaily(job, broken).tick(context.Background())
	assert.Equal(t, int32(2), atomic.LoadInt32(&runs))
}

func TestTickSurvivesPanicAndError(t *testing.T) {
	d := newTestDaily(func(context.Context) error { panic("boom") }, nil)
	require.NotPanics(t, func() { d.tick(context.Background()) })

	d = newTestDaily(func(context.Context) error { return errors.New("store down") }, nil)
	require.NotPanics(t, func() { d.tick(context.Background()) })
}

func TestRunFiresAndStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fire := make(chan time.Time)
	var runs int32

	d := &Daily{
		Name:         "sweep",
		RunOnStartup: true,
		Location:     time.UTC,
		Job: func(context.Context) error {
			atomic.AddInt32(&runs, 1)
			return nil
		},
	}
	d.after = func(time.Duration) <-chan time.Time { return fire }

	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	fire <- time.Now()
	fire <- time.Now()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&runs))
}
