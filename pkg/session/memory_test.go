package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxline/voxline/pkg/models"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()

	ctx := context.Background()

	state := &models.SessionState{
		CallID:       "call-1",
		SystemPrompt: "You are a receptionist.",
		WorkflowID:   "wf-1",
		TenantID:     "tenant-1",
	}
	require.NoError(t, store.Put(ctx, state))

	loaded, err := store.Get(ctx, "call-1")
	require.NoError(t, err)
	assert.Equal(t, "You are a receptionist.", loaded.SystemPrompt)

	require.NoError(t, store.Delete(ctx, "call-1"))

	_, err = store.Get(ctx, "call-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_GetUnknownCall(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ExpiredEntryIsGone(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, &models.SessionState{CallID: "call-1"}))

	time.Sleep(30 * time.Millisecond)

	_, err := store.Get(ctx, "call-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_JanitorEvicts(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, &models.SessionState{CallID: "call-1"}))
	require.NoError(t, store.Put(ctx, &models.SessionState{CallID: "call-2"}))
	assert.Equal(t, 2, store.Len())

	assert.Eventually(t, func() bool {
		return store.Len() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestMemoryStore_AppendAcrossTurns(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()

	ctx := context.Background()

	state := &models.SessionState{CallID: "call-1"}
	state.Append(models.RoleUser, "hello")
	require.NoError(t, store.Put(ctx, state))

	loaded, err := store.Get(ctx, "call-1")
	require.NoError(t, err)
	loaded.Append(models.RoleAssistant, "hi, how can I help?")
	require.NoError(t, store.Put(ctx, loaded))

	final, err := store.Get(ctx, "call-1")
	require.NoError(t, err)
	require.Len(t, final.History, 2)
	assert.Equal(t, models.RoleAssistant, final.History[1].Role)
}

func TestMemoryStore_CloseIsIdempotent(t *testing.T) {
	store := NewMemoryStore(time.Minute)

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
