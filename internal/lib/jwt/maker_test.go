package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaker_GenerateAndParseToken(t *testing.T) {
	maker := NewMaker("test_secret_key_1234567890", 15*time.Minute, 72*time.Hour)

	tests := []struct {
		name   string
		userID string
		role   string
	}{
		{"участник", "2f1c6a9e-6d0c-4c52-9a62-0c9b8f5d7a10", "member"},
		{"тренер", "b8f0a4d3-3a39-4d35-8f4f-0f6f2e2d9b11", "coach"},
		{"супер-админ", "0d4b2f8a-52c4-4b8e-9d7c-6e1a3f0b2c12", "super_admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issued, err := maker.GenerateToken(tt.userID, tt.role)
			require.NoError(t, err)
			assert.NotEmpty(t, issued.ID)

			claims, err := maker.ParseToken(issued.Token)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, claims.UserID())
			assert.Equal(t, tt.role, claims.Role)
			assert.Equal(t, issued.ID, claims.ID)
			assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
		})
	}
}

func TestMaker_InvitePurpose(t *testing.T) {
	maker := NewMaker("secret", time.Hour, time.Hour)

	invite, err := maker.GenerateInviteToken("user-1")
	require.NoError(t, err)

	_, err = maker.ParseToken(invite.Token)
	assert.ErrorIs(t, err, ErrWrongPurpose)

	claims, err := maker.ParseInviteToken(invite.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())

	session, err := maker.GenerateToken("user-1", "member")
	require.NoError(t, err)
	_, err = maker.ParseInviteToken(session.Token)
	assert.ErrorIs(t, err, ErrWrongPurpose)
}

func TestMaker_InvalidTokens(t *testing.T) {
	maker := NewMaker("secret", time.Minute, time.Minute)
	other := NewMaker("other-secret", time.Minute, time.Minute)

	foreign, err := other.GenerateToken("user-1", "member")
	require.NoError(t, err)

	expired := NewMaker("secret", time.Minute, time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, err := expired.GenerateToken("user-1", "member")
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"пустой":         "",
		"мусор":          "not.a.jwt",
		"чужая подпись":  foreign.Token,
		"истёкший токен": old.Token,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := maker.ParseToken(tok)
			assert.Error(t, err)
		})
	}
}
