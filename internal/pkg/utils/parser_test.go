package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionJWT(t *testing.T) {
	t.Run("Round trip", func(t *testing.T) {
		token, err := GenerateSessionJWT("session-1", "secret", time.Hour)
		require.NoError(t, err)

		sessionID, err := ParseSessionJWT(token, "secret")
		require.NoError(t, err)
		assert.Equal(t, "session-1", sessionID)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		token, err := GenerateSessionJWT("session-1", "secret", time.Hour)
		require.NoError(t, err)

		_, err = ParseSessionJWT(token, "other")
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		token, err := GenerateSessionJWT("session-1", "secret", -time.Minute)
		require.NoError(t, err)

		_, err = ParseSessionJWT(token, "secret")
		assert.Error(t, err)
	})
}

func TestGeneratePhotoObjectName(t *testing.T) {
	name := GeneratePhotoObjectName("A-99", "Portrait.JPG")

	assert.Regexp(t, `^patients/A-99/[0-9a-f-]{36}\.jpg$`, name)
}
