package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/placement-service/internal/events"
	"github.com/spec-kit/placement-service/internal/service"
)

// StartNotificationWorker subscribes the notification service to the event
// dispatcher. Handlers run synchronously inside Publish.
func StartNotificationWorker(notifications *service.NotificationService, logger *zap.Logger) []events.EventType {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifications == nil {
		logger.Warn("notification worker disabled")
		return nil
	}
	subscribed := notifications.RegisterHandlers()
	names := make([]string, len(subscribed))
	for i, t := range subscribed {
		names[i] = string(t)
	}
	logger.Info("notification worker subscribed", zap.Strings("events", names))
	return subscribed
}
