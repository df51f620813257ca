package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/placement-service/internal/events"
	"github.com/spec-kit/placement-service/internal/repository/memory"
	"github.com/spec-kit/placement-service/internal/service"
)

func TestStartNotificationWorkerSubscribesAllEvents(t *testing.T) {
	store := memory.NewStore()
	notifications := service.NewNotificationService(service.NotificationDependencies{
		Notifications: store.Notifications(),
		Students:      store.Students(),
		Dispatcher:    events.NewInMemoryDispatcher(nil),
	})

	subscribed := StartNotificationWorker(notifications, nil)
	assert.ElementsMatch(t, []events.EventType{
		events.EventPostingCreated,
		events.EventApplicationSubmitted,
		events.EventPostingsClosed,
		events.EventStudentRegistered,
	}, subscribed)
}

func TestStartNotificationWorkerWithoutService(t *testing.T) {
	assert.Empty(t, StartNotificationWorker(nil, nil))
}
