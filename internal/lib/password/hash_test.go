package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGetHashAndCompare(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"обычный пароль", "password123"},
		{"спецсимволы", "p@ssw0rd!@#$%^&*()"},
		{"кириллица", "пароль-для-зала"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := GetHash(tt.password)
			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)

			assert.NoError(t, CompareHash(hash, tt.password))
			assert.ErrorIs(t, CompareHash(hash, tt.password+"x"), bcrypt.ErrMismatchedHashAndPassword)
		})
	}
}

func TestCompareHash_EmptyHash(t *testing.T) {
	assert.ErrorIs(t, CompareHash("", "anything"), bcrypt.ErrMismatchedHashAndPassword)
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Validate("short"), ErrTooShort)
	assert.ErrorIs(t, Validate("пароль7"), ErrTooShort)
	assert.NoError(t, Validate("12345678"))
}
