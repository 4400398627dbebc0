package store

import (
	"context"
	"encoding/json/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talenttrackapp/talenttrack-server/internal/domain"
	domainerrors "github.com/talenttrackapp/talenttrack-server/internal/errors"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "talenttrack-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	store, err := New(dbPath, nil)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		_ = store.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

func testTime(offset time.Duration) time.Time {
	base := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	return base.Add(offset)
}

func TestCreateUser(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	user := &domain.User{
		ID:        "user-alice",
		Name:      "Alice Wonderland",
		Email:     "alice@example.com",
		CreatedAt: testTime(0),
	}

	err := store.CreateUser(ctx, user)
	require.NoError(t, err)

	retrieved, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Name, retrieved.Name)
	assert.Equal(t, user.Email, retrieved.Email)
}

func TestCreateUser_DuplicateEmailCaseInsensitive(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	err := store.CreateUser(ctx, &domain.User{
		ID:    "user-1",
		Name:  "Alice Wonderland",
		Email: "alice@example.com",
	})
	require.NoError(t, err)

	err = store.CreateUser(ctx, &domain.User{
		ID:    "user-2",
		Name:  "Other Alice",
		Email: "Alice@Example.COM",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	err := store.CreateUser(ctx, &domain.User{
		ID:    "user-1",
		Name:  "Bob The Builder",
		Email: "bob@example.com",
	})
	require.NoError(t, err)

	user, err := store.GetUserByEmail(ctx, "BOB@example.COM")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)

	_, err = store.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUser(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	user := &domain.User{
		ID:    "user-1",
		Name:  "Charlie Brown",
		Email: "charlie@example.com",
	}
	require.NoError(t, store.CreateUser(ctx, user))

	loginTime := testTime(time.Hour)
	user.LastLoginAt = &loginTime
	require.NoError(t, store.UpdateUser(ctx, user))

	retrieved, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, retrieved.LastLoginAt)
	assert.True(t, retrieved.LastLoginAt.Equal(loginTime))
}

func TestListUsers_SortedByCreation(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, &domain.User{
		ID: "user-b", Name: "Second", Email: "second@example.com", CreatedAt: testTime(time.Minute),
	}))
	require.NoError(t, store.CreateUser(ctx, &domain.User{
		ID: "user-a", Name: "First", Email: "first@example.com", CreatedAt: testTime(0),
	}))

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "user-a", users[0].ID)
	assert.Equal(t, "user-b", users[1].ID)
}

func TestGetCandidate_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.GetCandidate(context.Background(), "cand-missing")
	assert.ErrorIs(t, err, ErrCandidateNotFound)
}

func TestListCandidates_NewestFirst(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.CreateCandidate(ctx, &domain.Candidate{
		ID: "cand-1", Name: "John Doe", CreatedAt: testTime(0),
	}))
	require.NoError(t, store.CreateCandidate(ctx, &domain.Candidate{
		ID: "cand-2", Name: "Jane Smith", CreatedAt: testTime(time.Minute),
	}))

	candidates, err := store.ListCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "cand-2", candidates[0].ID)
	assert.Equal(t, "cand-1", candidates[1].ID)

	exists, err := store.CandidateExists(ctx, "cand-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.CandidateExists(ctx, "cand-99")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetNotesForCandidate_OldestFirst(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.AppendNote(ctx, &domain.Note{
		ID: "note-2", CandidateID: "cand-1", AuthorID: "user-1", Text: "second", Timestamp: testTime(time.Minute),
	}))
	require.NoError(t, store.AppendNote(ctx, &domain.Note{
		ID: "note-1", CandidateID: "cand-1", AuthorID: "user-1", Text: "first", Timestamp: testTime(0),
	}))
	require.NoError(t, store.AppendNote(ctx, &domain.Note{
		ID: "note-3", CandidateID: "cand-2", AuthorID: "user-1", Text: "other thread", Timestamp: testTime(0),
	}))

	notes, err := store.GetNotesForCandidate(ctx, "cand-1")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "first", notes[0].Text)
	assert.Equal(t, "second", notes[1].Text)
}

func TestGetNotesForCandidate_EmptyThread(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	notes, err := store.GetNotesForCandidate(context.Background(), "cand-empty")
	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.NotNil(t, notes)
}

func TestListNotificationsForUser_NewestFirst(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.CreateNotification(ctx, &domain.Notification{
		ID: "notif-1", RecipientUserID: "user-1", Timestamp: testTime(0),
	}))
	require.NoError(t, store.CreateNotification(ctx, &domain.Notification{
		ID: "notif-2", RecipientUserID: "user-1", Timestamp: testTime(time.Minute),
	}))
	require.NoError(t, store.CreateNotification(ctx, &domain.Notification{
		ID: "notif-3", RecipientUserID: "user-2", Timestamp: testTime(time.Hour),
	}))

	notifications, err := store.ListNotificationsForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, "notif-2", notifications[0].ID)
	assert.Equal(t, "notif-1", notifications[1].ID)
}

func TestMarkNotificationRead_Idempotent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.CreateNotification(ctx, &domain.Notification{
		ID: "notif-1", RecipientUserID: "user-1", Timestamp: testTime(0),
	}))

	changed, err := store.MarkNotificationRead(ctx, "user-1", "notif-1")
	require.NoError(t, err)
	assert.True(t, changed)

	// Second call is a no-op.
	changed, err = store.MarkNotificationRead(ctx, "user-1", "notif-1")
	require.NoError(t, err)
	assert.False(t, changed)

	count, err := store.UnreadNotificationCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestMarkNotificationRead_WrongUserIsNoop(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.CreateNotification(ctx, &domain.Notification{
		ID: "notif-1", RecipientUserID: "user-1", Timestamp: testTime(0),
	}))

	// Another user naming this notification ID changes nothing.
	changed, err := store.MarkNotificationRead(ctx, "user-2", "notif-1")
	require.NoError(t, err)
	assert.False(t, changed)

	count, err := store.UnreadNotificationCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	for i, id := range []string{"notif-1", "notif-2", "notif-3"} {
		require.NoError(t, store.CreateNotification(ctx, &domain.Notification{
			ID: id, RecipientUserID: "user-1", Timestamp: testTime(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, store.CreateNotification(ctx, &domain.Notification{
		ID: "notif-4", RecipientUserID: "user-2", Timestamp: testTime(0),
	}))

	changed, err := store.MarkAllNotificationsRead(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, changed)

	count, err := store.UnreadNotificationCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Other users' notifications are untouched.
	count, err = store.UnreadNotificationCount(ctx, "user-2")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Re-running changes nothing.
	changed, err = store.MarkAllNotificationsRead(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, changed)
}

func TestSnapshot_TupleLayout(t *testing.T) {
	thread := CandidateNotes{
		CandidateID: "cand-1",
		Notes: []domain.Note{
			{ID: "note-1", CandidateID: "cand-1", AuthorID: "user-1", Text: "hello", Timestamp: testTime(0)},
		},
	}

	data, err := json.Marshal(thread)
	require.NoError(t, err)

	// The wire shape is a two-element array, not an object.
	var raw []any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 2)
	assert.Equal(t, "cand-1", raw[0])

	var decoded CandidateNotes
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, thread.CandidateID, decoded.CandidateID)
	require.Len(t, decoded.Notes, 1)
	assert.Equal(t, "hello", decoded.Notes[0].Text)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	source, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, source.AppendNote(ctx, &domain.Note{
		ID: "note-1", CandidateID: "cand-1", AuthorID: "user-1", Text: "first", Timestamp: testTime(0),
	}))
	require.NoError(t, source.AppendNote(ctx, &domain.Note{
		ID: "note-2", CandidateID: "cand-1", AuthorID: "user-2", Text: "second", Timestamp: testTime(time.Minute),
	}))
	require.NoError(t, source.CreateNotification(ctx, &domain.Notification{
		ID: "notif-1", RecipientUserID: "user-2", MessagePreview: "first", Timestamp: testTime(0),
	}))

	exported, err := source.ExportSnapshot(ctx)
	require.NoError(t, err)

	data, err := json.Marshal(exported)
	require.NoError(t, err)

	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)

	target, cleanupTarget := setupTestStore(t)
	defer cleanupTarget()

	require.NoError(t, target.ImportSnapshot(ctx, decoded))

	reExported, err := target.ExportSnapshot(ctx)
	require.NoError(t, err)

	reData, err := json.Marshal(reExported)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(reData))
}

func TestDecodeSnapshot_MalformedFallsBackToEmpty(t *testing.T) {
	snapshot, err := DecodeSnapshot([]byte(`{"app_notes": "not-an-array"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrDeserialization)
	require.NotNil(t, snapshot)
	assert.Empty(t, snapshot.Notes)
	assert.Empty(t, snapshot.Notifications)
}

func TestDecodeSnapshot_Empty(t *testing.T) {
	snapshot, err := DecodeSnapshot(nil)
	require.NoError(t, err)
	assert.NotNil(t, snapshot.Notes)
	assert.NotNil(t, snapshot.Notifications)
}

func TestEntity_CreateDuplicateID(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	candidate := &domain.Candidate{ID: "cand-1", Name: "John Doe"}
	require.NoError(t, store.Candidates.Create(ctx, candidate.ID, candidate))

	err := store.Candidates.Create(ctx, candidate.ID, candidate)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}
