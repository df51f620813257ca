package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/placement-service/internal/domain"
	"github.com/spec-kit/placement-service/internal/repository/memory"
	apperrors "github.com/spec-kit/placement-service/pkg/util/errorutil"
)

func newAdminFixture(t *testing.T) (*AdminService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	for i, st := range []domain.PlacementStatus{domain.PlacementPlaced, domain.PlacementUnplaced, domain.PlacementUnplaced, domain.PlacementUnplaced} {
		id := string(rune('A' + i))
		require.NoError(t, store.Students().Create(ctx, &domain.Student{
			StudentID: id, Email: id + "@example.com", PasswordHash: "hash", PlacementStatus: st,
		}))
	}
	require.NoError(t, store.Postings().Create(ctx, &domain.Posting{CompanyName: "Open", Status: domain.PostingOpen}))
	require.NoError(t, store.Postings().Create(ctx, &domain.Posting{CompanyName: "Gone", Status: domain.PostingClosed}))
	return NewAdminService(store.Students(), store.Postings(), nil), store
}

func TestListStudentsPlacementRate(t *testing.T) {
	svc, _ := newAdminFixture(t)
	roster, err := svc.ListStudents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, roster.TotalStudents)
	assert.Equal(t, 1, roster.TotalPlaced)
	assert.Equal(t, 25.0, roster.PlacementRate)
	for _, st := range roster.Students {
		assert.Empty(t, st.PasswordHash)
	}
}

func TestDashboardCountsPostings(t *testing.T) {
	svc, _ := newAdminFixture(t)
	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalStudents)
	assert.Equal(t, int64(1), stats.TotalPlacedStudents)
	assert.Equal(t, 1, stats.ActiveCompanies)
	assert.Equal(t, 2, stats.TotalCompanies)
}

func TestSetEditAccess(t *testing.T) {
	svc, store := newAdminFixture(t)
	ctx := context.Background()
	actor := &domain.Admin{Email: "admin@college.edu"}

	result, err := svc.SetEditAccess(ctx, actor, true, false, []string{"A", "B", "Z", "A"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, result.Targeted)
	assert.Equal(t, []string{"Z"}, result.InvalidIDs)
	assert.Equal(t, int64(2), result.ModifiedCount)

	st, err := store.Students().GetByStudentID(ctx, "B")
	require.NoError(t, err)
	assert.True(t, st.CanEditProfile)

	_, err = svc.SetEditAccess(ctx, actor, true, false, nil)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	_, err = svc.SetEditAccess(ctx, actor, true, false, []string{"Y", "Z"})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	result, err = svc.SetEditAccess(ctx, actor, false, true, nil)
	require.NoError(t, err)
	assert.True(t, result.All)
	assert.Equal(t, int64(4), result.ModifiedCount)
}

func TestAdminServiceStoreOutage(t *testing.T) {
	svc, store := newAdminFixture(t)
	store.Fail = errors.New("timeout")
	_, err := svc.Dashboard(context.Background())
	assert.Equal(t, apperrors.CodeUpstreamUnavailable, apperrors.CodeOf(err))
}
