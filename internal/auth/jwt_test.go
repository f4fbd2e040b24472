package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateuszmatysiak/collab-list/internal/config"
)

func TestGenerateAndValidateToken(t *testing.T) {
	manager := NewJWTManager(config.JWTConfig{Secret: "test-secret", AccessExpiresIn: time.Minute})

	token, err := manager.GenerateToken("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	manager := NewJWTManager(config.JWTConfig{Secret: "test-secret", AccessExpiresIn: time.Minute})
	other := NewJWTManager(config.JWTConfig{Secret: "other-secret", AccessExpiresIn: time.Minute})

	token, err := manager.GenerateToken("user-1")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	manager := NewJWTManager(config.JWTConfig{Secret: "test-secret", AccessExpiresIn: -time.Minute})

	token, err := manager.GenerateToken("user-1")
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateGarbageToken(t *testing.T) {
	manager := NewJWTManager(config.JWTConfig{Secret: "test-secret", AccessExpiresIn: time.Minute})

	_, err := manager.ValidateToken("not-a-token")
	assert.Error(t, err)
}
