package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskplanner/planner-api/internal/config"
)

const testSecret = "thisisasecretkeythatis32charslong!!"

func newTestService(t *testing.T, now time.Time) *hmacJWTService {
	t.Helper()
	svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60})
	require.NoError(t, err)
	impl := svc.(*hmacJWTService)
	impl.timeFunc = func() time.Time { return now }
	return impl
}

func TestNewJWTService_RejectsShortSecret(t *testing.T) {
	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	assert.Error(t, err)
}

func TestGenerateAndValidate(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, "alice")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, now, claims.IssuedAt.UTC())
	assert.Equal(t, now.Add(time.Hour), claims.ExpiresAt.UTC())
	assert.NotEmpty(t, claims.ID)

	_, err = svc.GenerateToken(ctx, "")
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestValidateToken_Failures(t *testing.T) {
	issued := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()
	token, err := newTestService(t, issued).GenerateToken(ctx, "alice")
	require.NoError(t, err)

	otherKey, err := NewJWTService(config.AuthConfig{JWTSecret: "a-completely-different-secret-of-32+chars", TokenLifetimeMinutes: 60})
	require.NoError(t, err)
	foreign, err := otherKey.GenerateToken(ctx, "alice")
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(issued.Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		now   time.Time
		token string
		want  error
	}{
		{name: "expired", now: issued.Add(2 * time.Hour), token: token, want: ErrExpiredToken},
		{name: "within skew", now: issued.Add(time.Hour + time.Minute), token: token, want: nil},
		{name: "future iat ignored", now: issued.Add(-10 * time.Minute), token: token, want: nil},
		{name: "wrong key", now: issued, token: foreign, want: ErrInvalidToken},
		{name: "garbage", now: issued, token: "not.a.jwt", want: ErrInvalidToken},
		{name: "empty", now: issued, token: "", want: ErrMissingToken},
		{name: "no subject", now: issued, token: noSubject, want: ErrMissingSubject},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newTestService(t, tc.now).ValidateToken(ctx, tc.token)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
