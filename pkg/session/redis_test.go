package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxline/voxline/pkg/models"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	return NewRedisStore(client, time.Minute), mr
}

func TestRedisStore_PutGetDelete(t *testing.T) {
	store, _ := newRedisStore(t)
	defer store.Close()

	ctx := context.Background()

	state := &models.SessionState{
		CallID:       "call-1",
		SystemPrompt: "You are a receptionist.",
		History: []models.Utterance{
			{Role: models.RoleUser, Content: "hello"},
		},
	}
	require.NoError(t, store.Put(ctx, state))

	loaded, err := store.Get(ctx, "call-1")
	require.NoError(t, err)
	assert.Equal(t, "You are a receptionist.", loaded.SystemPrompt)
	require.Len(t, loaded.History, 1)
	assert.Equal(t, "hello", loaded.History[0].Content)

	require.NoError(t, store.Delete(ctx, "call-1"))

	_, err = store.Get(ctx, "call-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_MissingSession(t *testing.T) {
	store, _ := newRedisStore(t)
	defer store.Close()

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_EntriesCarryTTL(t *testing.T) {
	store, mr := newRedisStore(t)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, &models.SessionState{CallID: "call-1"}))

	assert.Positive(t, mr.TTL(redisKeyPrefix+"call-1"))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "call-1")
	assert.ErrorIs(t, err, ErrNotFound)
}
