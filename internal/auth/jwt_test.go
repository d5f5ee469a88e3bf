package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medbook/backend/internal/domain"
)

func newStore(t *testing.T) *JWTStore {
	t.Helper()
	s, err := NewJWTStore(JWTConfig{Secret: []byte("test-secret"), Issuer: "medbook", Audience: "medbook-api"})
	require.NoError(t, err)
	return s
}

func TestJWTStore_IssueThenVerify(t *testing.T) {
	s := newStore(t)
	actor := domain.Actor{UserID: uuid.New(), Role: domain.RolePractitioner}

	token, err := s.Issue(actor, time.Hour, time.Now())
	require.NoError(t, err)

	got, err := s.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, actor, got)
}

func TestJWTStore_RejectsBadTokens(t *testing.T) {
	s := newStore(t)
	actor := domain.Actor{UserID: uuid.New(), Role: domain.RolePatient}

	expired, err := s.Issue(actor, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	other, err := NewJWTStore(JWTConfig{Secret: []byte("another-secret"), Issuer: "medbook", Audience: "medbook-api"})
	require.NoError(t, err)
	foreign, err := other.Issue(actor, time.Hour, time.Now())
	require.NoError(t, err)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.UserID.String(),
			Issuer:    "medbook",
			Audience:  jwt.ClaimStrings{"medbook-api"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "superuser",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			Issuer:    "medbook",
			Audience:  jwt.ClaimStrings{"medbook-api"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "patient",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"expired":      expired,
		"wrong secret": foreign,
		"unknown role": badRole,
		"numeric user": badSubject,
		"garbage":      "not.a.jwt",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := s.Verify(context.Background(), token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err = s.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestNewJWTStore_RequiresSecret(t *testing.T) {
	_, err := NewJWTStore(JWTConfig{})
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	tok, err := BearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", tok)

	tok, err = BearerToken("bearer   xyz ")
	require.NoError(t, err)
	assert.Equal(t, "xyz", tok)

	for _, h := range []string{"", "Basic abc", "Bearer", "Bearer   "} {
		_, err := BearerToken(h)
		assert.ErrorIs(t, err, ErrMissingToken, h)
	}
}

func TestActorContext(t *testing.T) {
	_, ok := ActorFromContext(context.Background())
	assert.False(t, ok)

	actor := domain.Actor{UserID: uuid.New(), Role: domain.RoleAdmin}
	got, ok := ActorFromContext(WithActor(context.Background(), actor))
	assert.True(t, ok)
	assert.Equal(t, actor, got)
}
