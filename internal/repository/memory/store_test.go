package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/placement-service/internal/domain"
	"github.com/spec-kit/placement-service/internal/repository"
)

func TestStudentEmailIsUnique(t *testing.T) {
	ctx := context.Background()
	students := NewStore().Students()

	require.NoError(t, students.Create(ctx, &domain.Student{StudentID: "SSGI1", Email: "a@b.com"}))
	err := students.Create(ctx, &domain.Student{StudentID: "SSGI2", Email: "A@b.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	all, err := students.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCloseExpiredPredicate(t *testing.T) {
	ctx := context.Background()
	postings := NewStore().Postings()
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	seed := map[string]domain.Posting{
		"past-open":   {ID: "past-open", Deadline: today.AddDate(0, 0, -1), Status: domain.PostingOpen},
		"past-soon":   {ID: "past-soon", Deadline: today.AddDate(0, 0, -3), Status: domain.PostingComingSoon},
		"past-closed": {ID: "past-closed", Deadline: today.AddDate(0, 0, -1), Status: domain.PostingClosed},
		"today":       {ID: "today", Deadline: today, Status: domain.PostingOpen},
		"future":      {ID: "future", Deadline: today.AddDate(0, 0, 1), Status: domain.PostingOpen},
	}
	for _, p := range seed {
		p := p
		require.NoError(t, postings.Create(ctx, &p))
	}

	closed, err := postings.CloseExpired(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, []string{"past-open", "past-soon"}, closed)

	again, err := postings.CloseExpired(ctx, today)
	require.NoError(t, err)
	assert.Empty(t, again)

	p, err := postings.GetByID(ctx, "today")
	require.NoError(t, err)
	assert.Equal(t, domain.PostingOpen, p.Status)
}

func TestDuplicateApplication(t *testing.T) {
	ctx := context.Background()
	apps := NewStore().Applications()

	require.NoError(t, apps.Create(ctx, &domain.Application{StudentID: "s1", PostingID: "p1"}))
	require.NoError(t, apps.Create(ctx, &domain.Application{StudentID: "s1", PostingID: "p2"}))
	assert.ErrorIs(t, apps.Create(ctx, &domain.Application{StudentID: "s1", PostingID: "p1"}), repository.ErrDuplicate)

	list, err := apps.ListByStudent(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "p2", list[0].PostingID)
}
