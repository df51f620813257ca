package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePostingStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want PostingStatus
	}{
		{"", PostingComingSoon},
		{"ComingSoon", PostingComingSoon},
		{"Coming Soon", PostingComingSoon},
		{"Open", PostingOpen},
		{"Closed", PostingClosed},
	}
	for _, tt := range tests {
		got, err := ParsePostingStatus(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParsePostingStatus("open")
	assert.Error(t, err)
}

func TestParseRole(t *testing.T) {
	for _, r := range []Role{RoleStudent, RoleAdmin, RoleSuperAdmin} {
		got, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	_, err := ParseRole("root")
	assert.Error(t, err)

	assert.Equal(t, PrincipalStudent, RoleStudent.Class())
	assert.Equal(t, PrincipalAdmin, RoleSuperAdmin.Class())
}

func TestExpiredByComparesCalendarDays(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+1800)
	today := StartOfDay(time.Date(2024, 5, 10, 1, 30, 0, 0, kolkata), kolkata)

	yesterday := Posting{Deadline: time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC)}
	sameDay := Posting{Deadline: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)}
	tomorrow := Posting{Deadline: time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)}

	assert.True(t, yesterday.ExpiredBy(today))
	assert.False(t, sameDay.ExpiredBy(today))
	assert.False(t, tomorrow.ExpiredBy(today))
}

func TestStudentRedactedDropsHash(t *testing.T) {
	s := Student{StudentID: "SSGI1", PasswordHash: "hash"}
	assert.Empty(t, s.Redacted().PasswordHash)
	assert.Equal(t, "hash", s.PasswordHash)
}
