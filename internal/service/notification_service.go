package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/placement-service/internal/config"
	"github.com/spec-kit/placement-service/internal/domain"
	"github.com/spec-kit/placement-service/internal/events"
	"github.com/spec-kit/placement-service/internal/observability"
	"github.com/spec-kit/placement-service/internal/repository"
	apperrors "github.com/spec-kit/placement-service/pkg/util/errorutil"
)

// BroadcastTarget addresses every registered student.
const BroadcastTarget = "all"

// NotificationService delivers student notifications and reacts to domain events.
type NotificationService struct {
	notifications repository.NotificationRepository
	students      repository.StudentRepository
	dispatcher    events.Dispatcher
	metrics       *observability.Metrics
	logger        *zap.Logger
	cfg           config.NotificationConfig
}

// NotificationDependencies bundles collaborators for the notification service.
type NotificationDependencies struct {
	Notifications repository.NotificationRepository
	Students      repository.StudentRepository
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
	Logger        *zap.Logger
	Config        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		notifications: deps.Notifications,
		students:      deps.Students,
		dispatcher:    deps.Dispatcher,
		metrics:       deps.Metrics,
		logger:        logger.With(zap.String("component", "notifications")),
		cfg:           deps.Config,
	}
}

// Send notifies one student, or every student when studentID is "all".
// It returns the number of notifications written.
func (n *NotificationService) Send(ctx context.Context, studentID, message string) (int64, error) {
	studentID = strings.TrimSpace(studentID)
	message = strings.TrimSpace(message)
	details := map[string]any{}
	if message == "" {
		details["message"] = "required"
	}
	if studentID == "" {
		details["student_id"] = "required"
	}
	if len(details) > 0 {
		return 0, apperrors.NewValidationError("invalid notification", details)
	}

	if strings.EqualFold(studentID, BroadcastTarget) {
		count, err := n.notifications.Broadcast(ctx, message)
		if err != nil {
			return 0, storeFailure(n.logger, "broadcast notification", err)
		}
		n.metrics.RecordNotifications("broadcast", count)
		return count, nil
	}

	if _, err := n.students.GetByStudentID(ctx, studentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, apperrors.NewNotFound("student", map[string]any{"student_id": studentID})
		}
		return 0, storeFailure(n.logger, "notification recipient", err)
	}
	if err := n.notifications.Create(ctx, &domain.Notification{StudentID: studentID, Message: message}); err != nil {
		return 0, storeFailure(n.logger, "create notification", err)
	}
	n.metrics.RecordNotifications("direct", 1)
	return 1, nil
}

// ListForStudent returns a student's notifications, newest first.
func (n *NotificationService) ListForStudent(ctx context.Context, studentID string) ([]domain.Notification, error) {
	items, err := n.notifications.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, storeFailure(n.logger, "list notifications", err)
	}
	if items == nil {
		items = []domain.Notification{}
	}
	return items, nil
}

// RegisterHandlers subscribes to events and returns the subscribed types.
func (n *NotificationService) RegisterHandlers() []events.EventType {
	if n.dispatcher == nil {
		return nil
	}
	handlers := map[events.EventType]events.EventHandler{
		events.EventPostingCreated:       n.handlePostingCreated,
		events.EventApplicationSubmitted: n.handleApplicationSubmitted,
		events.EventPostingsClosed:       n.handlePostingsClosed,
		events.EventStudentRegistered:    n.handleStudentRegistered,
	}
	subscribed := make([]events.EventType, 0, len(handlers))
	for eventType, handler := range handlers {
		n.dispatcher.Subscribe(eventType, handler)
		subscribed = append(subscribed, eventType)
	}
	sort.Slice(subscribed, func(i, j int) bool { return subscribed[i] < subscribed[j] })
	return subscribed
}

func (n *NotificationService) handlePostingCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PostingCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	if payload.Status == domain.PostingClosed {
		return nil
	}
	message := fmt.Sprintf("New company %s is hiring for %s. Apply before %s.",
		payload.CompanyName, payload.JobRole, payload.Deadline.Format(domain.DateLayout))
	count, err := n.notifications.Broadcast(ctx, message)
	if err != nil {
		return err
	}
	n.metrics.RecordNotifications("posting_created", count)
	n.logger.Info("PostingCreated", zap.String("posting_id", payload.PostingID), zap.Int64("notified", count))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleApplicationSubmitted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ApplicationSubmittedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	err := n.notifications.Create(ctx, &domain.Notification{
		StudentID: payload.StudentID,
		Message:   fmt.Sprintf("Your application to %s has been submitted.", payload.CompanyName),
	})
	if err != nil {
		return err
	}
	n.metrics.RecordNotifications("application_submitted", 1)
	n.logger.Info("ApplicationSubmitted",
		zap.String("application_id", payload.ApplicationID),
		zap.String("posting_id", payload.PostingID))
	n.sendEmailNotificationStub(ctx, event, payload.StudentEmail)
	return nil
}

func (n *NotificationService) handlePostingsClosed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PostingsClosedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.logger.Info("PostingsClosed",
		zap.String("cutoff", payload.Cutoff.Format(domain.DateLayout)),
		zap.Strings("posting_ids", payload.PostingIDs))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleStudentRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.StudentRegisteredPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.sendEmailNotificationStub(ctx, event, payload.Email)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event, to string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || to == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
}
