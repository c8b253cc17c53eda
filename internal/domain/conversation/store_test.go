package conversation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companion-server/internal/domain/chat"
)

func TestStoreBoundsHistory(t *testing.T) {
	store := NewStore(StoreOptions{MaxMessages: 20})

	for i := 1; i <= 25; i++ {
		store.Append("user", chat.RoleUser, fmt.Sprintf("message %d", i))
	}

	history := store.History("user")
	require.Len(t, history, 20)
	assert.Equal(t, "message 6", history[0].Content)
	assert.Equal(t, "message 25", history[19].Content)
}

func TestStoreHistoryIsACopy(t *testing.T) {
	store := NewStore(StoreOptions{})
	store.Append("user", chat.RoleUser, "hello")

	history := store.History("user")
	history[0].Content = "mutated"

	assert.Equal(t, "hello", store.History("user")[0].Content)
}

func TestStoreFirstMessageTracking(t *testing.T) {
	store := NewStore(StoreOptions{})

	assert.True(t, store.IsFirstMessage("user"))
	store.MarkGreeted("user")
	assert.False(t, store.IsFirstMessage("user"))
}

func TestStoreClear(t *testing.T) {
	store := NewStore(StoreOptions{})
	store.Append("user", chat.RoleUser, "hello")
	store.MarkGreeted("user")

	store.Clear("user")

	assert.Empty(t, store.History("user"))
	assert.True(t, store.IsFirstMessage("user"))
}

func TestStoreCleanupExpiresIdleSessions(t *testing.T) {
	now := time.Now()
	store := NewStore(StoreOptions{TTL: 24 * time.Hour})
	store.now = func() time.Time { return now }

	store.Append("stale", chat.RoleUser, "old message")
	now = now.Add(25 * time.Hour)
	store.Append("fresh", chat.RoleUser, "new message")

	removed := store.Cleanup()

	assert.Equal(t, 1, removed)
	assert.Empty(t, store.History("stale"))
	assert.Len(t, store.History("fresh"), 1)
}

func TestStoreCleanupKeepsActiveSessions(t *testing.T) {
	now := time.Now()
	store := NewStore(StoreOptions{TTL: 24 * time.Hour})
	store.now = func() time.Time { return now }

	store.Append("user", chat.RoleUser, "hello")
	now = now.Add(23 * time.Hour)

	assert.Equal(t, 0, store.Cleanup())
	assert.Len(t, store.History("user"), 1)
}

func TestStoreStats(t *testing.T) {
	store := NewStore(StoreOptions{})
	store.Append("a", chat.RoleUser, "one")
	store.Append("a", chat.RoleAssistant, "two")
	store.Append("b", chat.RoleUser, "three")

	sessions, messages := store.Stats()
	assert.Equal(t, 2, sessions)
	assert.Equal(t, 3, messages)
}
