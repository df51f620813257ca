package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/placement-service/internal/domain"
	"github.com/spec-kit/placement-service/internal/observability"
	"github.com/spec-kit/placement-service/internal/repository/memory"
	apperrors "github.com/spec-kit/placement-service/pkg/util/errorutil"
)

func TestSendNotification(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	for _, id := range []string{"S1", "S2", "S3"} {
		require.NoError(t, store.Students().Create(ctx, &domain.Student{StudentID: id, Email: id + "@example.com"}))
	}
	svc := NewNotificationService(NotificationDependencies{
		Notifications: store.Notifications(),
		Students:      store.Students(),
		Metrics:       observability.NewMetrics(),
	})

	count, err := svc.Send(ctx, "all", "Placement drive on Monday")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = svc.Send(ctx, "S2", "Bring your ID card")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = svc.Send(ctx, "S9", "hello")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	_, err = svc.Send(ctx, "S1", "  ")
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	s2, err := svc.ListForStudent(ctx, "S2")
	require.NoError(t, err)
	require.Len(t, s2, 2)
	assert.Equal(t, "Bring your ID card", s2[0].Message)

	s1, err := svc.ListForStudent(ctx, "S1")
	require.NoError(t, err)
	assert.Len(t, s1, 1)
}

func TestContentService(t *testing.T) {
	store := memory.NewStore()
	svc := NewContentService(store.Announcements(), store.Resources(), nil)
	ctx := context.Background()

	_, err := svc.AddAnnouncement(ctx, &domain.Admin{ID: "A1"}, "", "body")
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	a, err := svc.AddAnnouncement(ctx, &domain.Admin{ID: "A1"}, "Drive", "Acme on Monday")
	require.NoError(t, err)
	assert.Equal(t, "A1", a.AdminID)

	list, err := svc.Announcements(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	resources, err := svc.Resources(ctx)
	require.NoError(t, err)
	assert.Empty(t, resources)
	_, err = svc.AddResource(ctx, domain.Resource{Name: "DSA sheet", Link: "https://example.com/dsa", Kind: "link"})
	require.NoError(t, err)
	resources, err = svc.Resources(ctx)
	require.NoError(t, err)
	assert.Len(t, resources, 1)
}
