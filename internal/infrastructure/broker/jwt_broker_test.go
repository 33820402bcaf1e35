package broker

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTBroker_GetTokenForTown_SignsExpectedClaims(t *testing.T) {
	b := NewJWTBroker("test-secret", time.Second)

	token, err := b.GetTokenForTown(context.Background(), "town-1", "player-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "town-1", claims["townId"])
	assert.Equal(t, "player-1", claims["playerId"])
}

func TestJWTBroker_GetTokenForTown_RespectsContextTimeout(t *testing.T) {
	b := NewJWTBroker("test-secret", time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.GetTokenForTown(ctx, "town-1", "player-1")
	assert.Error(t, err)
}
