package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishRunsAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())
	var seen []string

	d.Subscribe(EventPostingCreated, func(_ context.Context, e Event) error {
		seen = append(seen, "first")
		return errors.New("handler failed")
	})
	d.Subscribe(EventPostingCreated, func(_ context.Context, e Event) error {
		seen = append(seen, "second:"+e.ID)
		return nil
	})
	d.Subscribe(EventPostingsClosed, func(context.Context, Event) error {
		seen = append(seen, "other")
		return nil
	})

	err := d.Publish(context.Background(), Event{ID: "evt-1", Type: EventPostingCreated})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second:evt-1"}, seen)
}

func TestPublishFillsIdentity(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	var got Event
	d.Subscribe(EventStudentRegistered, func(_ context.Context, e Event) error {
		got = e
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventStudentRegistered}))
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.Timestamp.IsZero())
}

func TestPublishSurvivesPanickingHandler(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	ran := false
	d.Subscribe(EventApplicationSubmitted, func(context.Context, Event) error {
		panic("boom")
	})
	d.Subscribe(EventApplicationSubmitted, func(context.Context, Event) error {
		ran = true
		return nil
	})

	assert.NotPanics(t, func() {
		require.NoError(t, d.Publish(context.Background(), Event{Type: EventApplicationSubmitted}))
	})
	assert.True(t, ran)
}
