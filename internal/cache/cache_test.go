// internal/cache/cache_test.go
package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	Rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = Close()
	})
	return mr
}

func TestRoomIndexLifecycle(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, RegisterRoom(ctx, "ABCDE"))
	require.NoError(t, RegisterRoom(ctx, "FGHIJ"))

	rooms, err := ListRooms(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ABCDE", "FGHIJ"}, rooms)

	require.NoError(t, DropRoom(ctx, "ABCDE"))
	rooms, err = ListRooms(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"FGHIJ"}, rooms)
}

func TestPublishAndFetchRoomState(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	state := map[string]any{"roomCode": "ABCDE", "phase": "playing"}
	require.NoError(t, PublishRoomState(ctx, "ABCDE", state))

	raw, err := RoomState(ctx, "ABCDE")
	require.NoError(t, err)
	require.NotNil(t, raw)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "ABCDE", got["roomCode"])
	assert.Equal(t, "playing", got["phase"])

	// The snapshot expires rather than lingering forever.
	mr.FastForward(roomStateExpiry + 1)
	raw, err = RoomState(ctx, "ABCDE")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestRoomStateMissingReturnsNil(t *testing.T) {
	setupMiniredis(t)

	raw, err := RoomState(context.Background(), "ZZZZZ")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestDisabledClientIsNoOp(t *testing.T) {
	Rdb = nil
	ctx := context.Background()

	assert.NoError(t, RegisterRoom(ctx, "ABCDE"))
	assert.NoError(t, DropRoom(ctx, "ABCDE"))
	assert.NoError(t, PublishRoomState(ctx, "ABCDE", map[string]string{"k": "v"}))

	rooms, err := ListRooms(ctx)
	assert.NoError(t, err)
	assert.Nil(t, rooms)

	raw, err := RoomState(ctx, "ABCDE")
	assert.NoError(t, err)
	assert.Nil(t, raw)

	assert.NoError(t, Close())
}
