package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := env.seedUser(t, "user-alice", "Alice Wonderland", "alice@example.com")
	bob := env.seedUser(t, "user-bob", "Bob The Builder", "bob@example.com")
	env.seedCandidate(t, "cand-1", "John Doe")
	env.seedCandidate(t, "cand-2", "Jane Smith")

	for _, candidateID := range []string{"cand-1", "cand-2"} {
		_, err := env.notes.AddNote(ctx, alice.ID, AddNoteRequest{
			CandidateID: candidateID,
			Text:        "@Bob The Builder take a look",
		})
		require.NoError(t, err)
	}

	list, err := env.notifications.ListForUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// Newest first.
	assert.False(t, list[0].Timestamp.Before(list[1].Timestamp))

	count, err := env.notifications.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Mark one read, twice; the second call is a no-op.
	require.NoError(t, env.notifications.MarkRead(ctx, bob.ID, list[0].ID))
	require.NoError(t, env.notifications.MarkRead(ctx, bob.ID, list[0].ID))

	count, err = env.notifications.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Another user naming Bob's notification ID changes nothing.
	require.NoError(t, env.notifications.MarkRead(ctx, alice.ID, list[1].ID))
	count, err = env.notifications.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMarkAllRead(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := env.seedUser(t, "user-alice", "Alice Wonderland", "alice@example.com")
	bob := env.seedUser(t, "user-bob", "Bob The Builder", "bob@example.com")
	env.seedCandidate(t, "cand-1", "John Doe")

	for range 3 {
		_, err := env.notes.AddNote(ctx, alice.ID, AddNoteRequest{
			CandidateID: "cand-1",
			Text:        "@Bob The Builder another update",
		})
		require.NoError(t, err)
	}

	changed, err := env.notifications.MarkAllRead(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, changed)

	count, err := env.notifications.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// All notifications survive, just flipped to read.
	list, err := env.notifications.ListForUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, n := range list {
		assert.True(t, n.Read)
	}

	changed, err = env.notifications.MarkAllRead(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, changed)
}

func TestUserSuggest(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	env.seedUser(t, "user-alice", "Alice Wonderland", "alice@example.com")
	env.seedUser(t, "user-bob", "Bob The Builder", "bob@example.com")
	env.seedUser(t, "user-bob2", "Bobby Tables", "bobby@example.com")

	suggestions, err := env.users.Suggest(ctx, "bob", 10)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)

	suggestions, err = env.users.Suggest(ctx, "BOB", 1)
	require.NoError(t, err)
	assert.Len(t, suggestions, 1)

	suggestions, err = env.users.Suggest(ctx, "zzz", 10)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestUserList_StripsPasswordHash(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Signup(ctx, SignupRequest{
		Name:     "Alice Wonderland",
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	users, err := env.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Empty(t, users[0].PasswordHash)
}
