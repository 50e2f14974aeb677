package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zero-Base-1/DonationTracker/internal/model"
)

func TestEnsure(t *testing.T) {
	store := NewStore()

	sid := store.Ensure("")
	require.NotEmpty(t, sid)

	// A live id is kept as-is; an unknown one is replaced.
	assert.Equal(t, sid, store.Ensure(sid))
	assert.NotEqual(t, "stale-id", store.Ensure("stale-id"))
}

func TestIdentityLifecycle(t *testing.T) {
	store := NewStore()
	sid := store.Ensure("")

	assert.Nil(t, store.Identity(sid))

	ident := model.Identity{ID: 7, Name: "Alice", Email: "alice@example.org", Role: model.RoleUser}
	store.SetIdentity(sid, ident)

	got := store.Identity(sid)
	require.NotNil(t, got)
	assert.Equal(t, ident, *got)

	store.Destroy(sid)
	assert.Nil(t, store.Identity(sid))
}

func TestIdentityIsSnapshot(t *testing.T) {
	store := NewStore()
	sid := store.Ensure("")
	store.SetIdentity(sid, model.Identity{ID: 7, Role: model.RoleAdmin})

	// Mutating the returned copy must not touch the stored snapshot.
	got := store.Identity(sid)
	got.Role = model.RoleUser

	assert.Equal(t, model.RoleAdmin, store.Identity(sid).Role)
}

func TestFlashReadOnce(t *testing.T) {
	store := NewStore()
	sid := store.Ensure("")

	_, ok := store.TakeFlash(sid, "error")
	assert.False(t, ok)

	store.SetFlash(sid, "error", "Please sign in to continue.")

	msg, ok := store.TakeFlash(sid, "error")
	require.True(t, ok)
	assert.Equal(t, "Please sign in to continue.", msg)

	_, ok = store.TakeFlash(sid, "error")
	assert.False(t, ok)
}

func TestFlashIgnoredForDeadSession(t *testing.T) {
	store := NewStore()

	store.SetFlash("no-such-session", "error", "dropped")
	_, ok := store.TakeFlash("no-such-session", "error")
	assert.False(t, ok)
}
