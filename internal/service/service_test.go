package service

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/talenttrackapp/talenttrack-server/internal/auth"
	"github.com/talenttrackapp/talenttrack-server/internal/domain"
	"github.com/talenttrackapp/talenttrack-server/internal/search"
	"github.com/talenttrackapp/talenttrack-server/internal/store"
)

const testMaxNoteLength = 500

// testEnv wires the services against a real store and search index in a
// temp directory.
type testEnv struct {
	store         *store.Store
	auth          *AuthService
	candidates    *CandidateService
	notes         *NoteService
	notifications *NotificationService
	users         *UserService
	search        *SearchService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	st, err := store.New(filepath.Join(tmpDir, "db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	idx, err := search.NewIndex(search.Options{DataPath: tmpDir, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	key := bytes.Repeat([]byte{0x42}, 32)
	tokenService, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	emitter := NewNoopEmitter()

	return &testEnv{
		store:         st,
		auth:          NewAuthService(st, tokenService, logger),
		candidates:    NewCandidateService(st, idx, emitter, logger),
		notes:         NewNoteService(st, idx, emitter, testMaxNoteLength, logger),
		notifications: NewNotificationService(st, logger),
		users:         NewUserService(st, logger),
		search:        NewSearchService(st, idx, logger),
	}
}

// seedUser creates a user directly in the store with a known ID.
func (env *testEnv) seedUser(t *testing.T, id, name, email string) *domain.User {
	t.Helper()

	user := &domain.User{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
	}
	require.NoError(t, env.store.CreateUser(context.Background(), user))
	return user
}

// searchParamsForNotes builds note-scoped search params for a query.
func searchParamsForNotes(query string) search.Params {
	return search.Params{
		Query: query,
		Types: []search.DocType{search.DocTypeNote},
		Limit: 10,
	}
}

// seedCandidate creates a candidate directly in the store with a known ID.
func (env *testEnv) seedCandidate(t *testing.T, id, name string) *domain.Candidate {
	t.Helper()

	candidate := &domain.Candidate{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now(),
	}
	require.NoError(t, env.store.CreateCandidate(context.Background(), candidate))
	return candidate
}
