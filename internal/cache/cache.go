// internal/cache/cache.go

// Package cache mirrors each room's observable state surface into Redis so
// external synchronization layers (observers, lobby listings) can read it
// without touching a live game instance. The mirror is optional: with no
// client configured every operation is a no-op.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Rdb is the shared Redis client. A nil client disables the mirror.
var Rdb *redis.Client

const (
	roomKeyPrefix   = "uno:room:"
	roomIndexKey    = "uno:rooms"
	roomStateExpiry = 10 * time.Minute
)

// Init connects and pings the Redis instance at addr.
func Init(ctx context.Context, addr, password string, db int) error {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return err
	}
	Rdb = client
	return nil
}

// Close releases the client if one was initialized.
func Close() error {
	if Rdb == nil {
		return nil
	}
	err := Rdb.Close()
	Rdb = nil
	return err
}

// RegisterRoom records a live room code in the room index.
func RegisterRoom(ctx context.Context, code string) error {
	if Rdb == nil {
		return nil
	}
	return Rdb.SAdd(ctx, roomIndexKey, code).Err()
}

// DropRoom removes a room's mirror and its index entry.
func DropRoom(ctx context.Context, code string) error {
	if Rdb == nil {
		return nil
	}
	pipe := Rdb.TxPipeline()
	pipe.Del(ctx, roomKeyPrefix+code)
	pipe.SRem(ctx, roomIndexKey, code)
	_, err := pipe.Exec(ctx)
	return err
}

// ListRooms returns the codes of every registered room.
func ListRooms(ctx context.Context) ([]string, error) {
	if Rdb == nil {
		return nil, nil
	}
	return Rdb.SMembers(ctx, roomIndexKey).Result()
}

// PublishRoomState stores the room's post-mutation state snapshot and
// notifies subscribers on the room's channel.
func PublishRoomState(ctx context.Context, code string, state any) error {
	if Rdb == nil {
		return nil
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	pipe := Rdb.TxPipeline()
	pipe.Set(ctx, roomKeyPrefix+code, raw, roomStateExpiry)
	pipe.Publish(ctx, roomKeyPrefix+code+":events", raw)
	_, err = pipe.Exec(ctx)
	return err
}

// RoomState fetches the last mirrored snapshot for a room, or nil when
// none is stored.
func RoomState(ctx context.Context, code string) ([]byte, error) {
	if Rdb == nil {
		return nil, nil
	}
	raw, err := Rdb.Get(ctx, roomKeyPrefix+code).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return raw, err
}
