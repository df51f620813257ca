package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/placement-service/internal/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueValidateRoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	tm := NewTokenManager("secret", time.Hour, WithClock(fixedClock(now)))

	for _, role := range []domain.Role{domain.RoleStudent, domain.RoleAdmin, domain.RoleSuperAdmin} {
		token, exp, err := tm.Issue("SSGI123", role, 30*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, now.Add(30*time.Minute), exp)

		claims, err := tm.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "SSGI123", claims.Subject)
		assert.Equal(t, role, claims.Role)
		assert.True(t, exp.Equal(claims.ExpiresAt))
	}
}

func TestIssueSessionUsesDefaultTTL(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	tm := NewTokenManager("secret", 0, WithClock(fixedClock(now)))

	_, exp, err := tm.IssueSession("admin@example.com", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, now.Add(12*time.Hour), exp)
}

func TestValidateExpired(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := now
	tm := NewTokenManager("secret", time.Hour, WithClock(func() time.Time { return clock }))

	zero, _, err := tm.Issue("SSGI1", domain.RoleStudent, 0)
	require.NoError(t, err)
	_, err = tm.Validate(zero)
	assert.ErrorIs(t, err, ErrTokenExpired)

	short, _, err := tm.Issue("SSGI1", domain.RoleStudent, time.Minute)
	require.NoError(t, err)
	clock = now.Add(2 * time.Minute)
	_, err = tm.Validate(short)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateRejectsTampering(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.Issue("SSGI1", domain.RoleStudent, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	for i := range parts {
		segment := []byte(parts[i])
		mid := len(segment) / 2
		if segment[mid] == 'A' {
			segment[mid] = 'B'
		} else {
			segment[mid] = 'A'
		}
		tampered := append([]string(nil), parts...)
		tampered[i] = string(segment)

		_, err := tm.Validate(strings.Join(tampered, "."))
		assert.ErrorIs(t, err, ErrTokenInvalid, "segment %d", i)
	}
}

const base64URLAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

func TestValidateRejectsTrailingCharacterBitFlips(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.Issue("SSGI1", domain.RoleStudent, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	for i := range parts {
		last := len(parts[i]) - 1
		value := strings.IndexByte(base64URLAlphabet, parts[i][last])
		require.GreaterOrEqual(t, value, 0)

		// The low bits of a final base64 character can be padding that a lax decoder ignores.
		for bit := 0; bit < 6; bit++ {
			segment := []byte(parts[i])
			segment[last] = base64URLAlphabet[value^(1<<bit)]
			tampered := append([]string(nil), parts...)
			tampered[i] = string(segment)

			_, err := tm.Validate(strings.Join(tampered, "."))
			assert.ErrorIs(t, err, ErrTokenInvalid, "segment %d bit %d", i, bit)
		}
	}
}

func TestIssueReportsEnforcedExpiry(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 900_000_000, time.UTC)
	tm := NewTokenManager("secret", time.Hour, WithClock(fixedClock(now)))

	token, exp, err := tm.Issue("SSGI1", domain.RoleStudent, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 1, 0, 0, time.UTC), exp.UTC())

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.True(t, exp.Equal(claims.ExpiresAt))
}

func TestValidateRejectsForeignSecretAndGarbage(t *testing.T) {
	issuer := NewTokenManager("other-secret", time.Hour)
	token, _, err := issuer.Issue("SSGI1", domain.RoleStudent, time.Hour)
	require.NoError(t, err)

	tm := NewTokenManager("secret", time.Hour)
	_, err = tm.Validate(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	for _, raw := range []string{"", "abc", "a.b.c", "...."} {
		_, err := tm.Validate(raw)
		assert.ErrorIs(t, err, ErrTokenInvalid, raw)
	}
}

func TestValidateRejectsUnknownRole(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.Issue("SSGI1", domain.Role("root"), time.Hour)
	require.NoError(t, err)

	_, err = tm.Validate(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
