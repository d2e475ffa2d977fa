package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	key := []byte("secret")

	token, err := GenerateJWT(key, "user_1", RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(key, token)
	require.NoError(t, err)
	assert.Equal(t, "user_1", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestParseJWT_Rejects(t *testing.T) {
	key := []byte("secret")

	expired, err := GenerateJWT(key, "user_1", RoleUser, -time.Minute)
	require.NoError(t, err)
	noSubject, err := GenerateJWT(key, "", RoleUser, time.Hour)
	require.NoError(t, err)
	otherKey, err := GenerateJWT([]byte("other"), "user_1", RoleUser, time.Hour)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":    expired,
		"no subject": noSubject,
		"wrong key":  otherKey,
		"garbage":    "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJWT(key, token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
