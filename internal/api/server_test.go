package api

import (
	"bytes"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talenttrackapp/talenttrack-server/internal/auth"
	"github.com/talenttrackapp/talenttrack-server/internal/config"
	"github.com/talenttrackapp/talenttrack-server/internal/search"
	"github.com/talenttrackapp/talenttrack-server/internal/service"
	"github.com/talenttrackapp/talenttrack-server/internal/sse"
	"github.com/talenttrackapp/talenttrack-server/internal/store"
)

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// setupTestServer builds a full server against a temp Badger store and a
// real Bleve index. The login limiter burst is raised so ordinary test
// traffic never trips it.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServerWithAuthLimits(t, 100, 100)
}

func setupTestServerWithAuthLimits(t *testing.T, rps float64, burst int) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.New(filepath.Join(tmpDir, "db"), logger)
	require.NoError(t, err)

	searchIndex, err := search.NewIndex(search.Options{DataPath: tmpDir, Logger: logger})
	require.NoError(t, err)

	cfg := &config.Config{
		App: config.AppConfig{
			Environment: "test",
			Version:     "test",
		},
		Server: config.ServerConfig{
			Name: "TalentTrack Test",
		},
		Auth: config.AuthConfig{
			AccessTokenKey:      bytes.Repeat([]byte{0x42}, 32),
			AccessTokenDuration: time.Hour,
			LoginRPS:            rps,
			LoginBurst:          burst,
		},
		Notes: config.NotesConfig{
			MaxLength: 500,
		},
	}

	tokenService, err := auth.NewTokenService(cfg.Auth.AccessTokenKey, cfg.Auth.AccessTokenDuration)
	require.NoError(t, err)

	sseManager := sse.NewManager(logger)

	services := &Services{
		Auth:         service.NewAuthService(st, tokenService, logger),
		User:         service.NewUserService(st, logger),
		Candidate:    service.NewCandidateService(st, searchIndex, sseManager, logger),
		Note:         service.NewNoteService(st, searchIndex, sseManager, cfg.Notes.MaxLength, logger),
		Notification: service.NewNotificationService(st, logger),
		Search:       service.NewSearchService(st, searchIndex, logger),
	}

	server := NewServer(cfg, st, services, sseManager, logger)

	t.Cleanup(func() {
		server.Close()
		_ = searchIndex.Close()
		_ = st.Close()
	})

	return &testServer{
		Server: server,
		api:    humatest.Wrap(t, server.api),
	}
}

// signup creates an account through the API and returns the token and user ID.
func (ts *testServer) signup(t *testing.T, name, email string) (token, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"name":     name,
		"email":    email,
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, resp.Code, "signup failed: %s", resp.Body.String())

	var authResp AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &authResp))
	require.NotEmpty(t, authResp.AccessToken)

	return authResp.AccessToken, authResp.User.ID
}

func (ts *testServer) createCandidate(t *testing.T, token, name string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/candidates",
		"Authorization: Bearer "+token,
		map[string]any{"name": name},
	)
	require.Equal(t, http.StatusOK, resp.Code, "create candidate failed: %s", resp.Body.String())

	var candidate CandidateResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &candidate))
	return candidate.ID
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &health))

	// Fresh server: database reachable, search index still empty.
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "healthy", health.Components["database"].Status)
	assert.Equal(t, "degraded", health.Components["search"].Status)
}

func TestSignupAndLogin(t *testing.T) {
	ts := setupTestServer(t)

	token, userID := ts.signup(t, "Alice Wonderland", "alice@example.com")
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, userID)

	// Signing up again with the same email, different case, conflicts.
	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"name":     "Alice Again",
		"email":    "ALICE@example.com",
		"password": "another-password",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	// Login with the right password works.
	resp = ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "correct-horse-battery",
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	var authResp AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &authResp))
	assert.Equal(t, userID, authResp.User.ID)
	assert.Equal(t, "Bearer", authResp.TokenType)
	assert.NotContains(t, resp.Body.String(), "password_hash")

	// Wrong password and unknown email both return 401.
	resp = ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "nobody@example.com",
		"password": "correct-horse-battery",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestSignup_ValidationErrors(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"empty name", map[string]any{"name": "", "email": "a@b.com", "password": "longenough"}},
		{"bad email", map[string]any{"name": "A", "email": "not-an-email", "password": "longenough"}},
		{"short password", map[string]any{"name": "A", "email": "a@b.com", "password": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/auth/signup", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
		})
	}
}

func TestProtectedRoutes_RequireAuth(t *testing.T) {
	ts := setupTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/candidates"},
		{http.MethodGet, "/api/v1/users"},
		{http.MethodGet, "/api/v1/notifications"},
		{http.MethodGet, "/api/v1/notifications/unread-count"},
		{http.MethodGet, "/api/v1/search?q=test"},
	}

	for _, tt := range paths {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp := ts.api.Do(tt.method, tt.path)
			assert.Equal(t, http.StatusUnauthorized, resp.Code)

			resp = ts.api.Do(tt.method, tt.path, "Authorization: Bearer not-a-real-token")
			assert.Equal(t, http.StatusUnauthorized, resp.Code)
		})
	}
}

func TestCandidateLifecycle(t *testing.T) {
	ts := setupTestServer(t)

	token, userID := ts.signup(t, "Alice Wonderland", "alice@example.com")

	candidateID := ts.createCandidate(t, token, "John Doe")

	resp := ts.api.Get("/api/v1/candidates/"+candidateID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var candidate CandidateResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &candidate))
	assert.Equal(t, "John Doe", candidate.Name)
	assert.Equal(t, userID, candidate.CreatedBy)

	resp = ts.api.Get("/api/v1/candidates", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var list struct {
		Candidates []CandidateResponse `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Len(t, list.Candidates, 1)

	resp = ts.api.Get("/api/v1/candidates/cand-does-not-exist", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestNoteAndNotificationFlow(t *testing.T) {
	ts := setupTestServer(t)

	aliceToken, _ := ts.signup(t, "Alice Wonderland", "alice@example.com")
	bobToken, bobID := ts.signup(t, "Bob The Builder", "bob@example.com")

	candidateID := ts.createCandidate(t, aliceToken, "John Doe")

	// Alice mentions Bob in a note.
	resp := ts.api.Post("/api/v1/candidates/"+candidateID+"/notes",
		"Authorization: Bearer "+aliceToken,
		map[string]any{"text": "Talked to @Bob The Builder about next steps"},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var note NoteResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &note))
	assert.Equal(t, []string{bobID}, note.TaggedUserIDs)

	// The thread returns the note oldest first.
	resp = ts.api.Get("/api/v1/candidates/"+candidateID+"/notes", "Authorization: Bearer "+aliceToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var thread struct {
		Notes []NoteResponse `json:"notes"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &thread))
	require.Len(t, thread.Notes, 1)
	assert.Equal(t, note.ID, thread.Notes[0].ID)

	// Bob got notified; Alice did not.
	resp = ts.api.Get("/api/v1/notifications", "Authorization: Bearer "+bobToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var notifications struct {
		Notifications []NotificationResponse `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &notifications))
	require.Len(t, notifications.Notifications, 1)
	notif := notifications.Notifications[0]
	assert.Equal(t, candidateID, notif.CandidateID)
	assert.Equal(t, note.ID, notif.MessageID)
	assert.False(t, notif.Read)

	resp = ts.api.Get("/api/v1/notifications", "Authorization: Bearer "+aliceToken)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &notifications))
	assert.Empty(t, notifications.Notifications)

	// Unread count drops to zero after marking read; a second mark is a no-op.
	var count struct {
		UnreadCount int `json:"unread_count"`
	}
	resp = ts.api.Get("/api/v1/notifications/unread-count", "Authorization: Bearer "+bobToken)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &count))
	assert.Equal(t, 1, count.UnreadCount)

	resp = ts.api.Post("/api/v1/notifications/"+notif.ID+"/read", "Authorization: Bearer "+bobToken)
	assert.Equal(t, http.StatusOK, resp.Code)
	resp = ts.api.Post("/api/v1/notifications/"+notif.ID+"/read", "Authorization: Bearer "+bobToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/notifications/unread-count", "Authorization: Bearer "+bobToken)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &count))
	assert.Equal(t, 0, count.UnreadCount)

	// Alice cannot flip Bob's notification back or mark it through her account.
	resp = ts.api.Post("/api/v1/notifications/"+notif.ID+"/read", "Authorization: Bearer "+aliceToken)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestAddNote_Rejections(t *testing.T) {
	ts := setupTestServer(t)

	token, _ := ts.signup(t, "Alice Wonderland", "alice@example.com")
	candidateID := ts.createCandidate(t, token, "John Doe")

	// Blank text.
	resp := ts.api.Post("/api/v1/candidates/"+candidateID+"/notes",
		"Authorization: Bearer "+token,
		map[string]any{"text": "   "},
	)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Over the length limit.
	long := bytes.Repeat([]byte("x"), 501)
	resp = ts.api.Post("/api/v1/candidates/"+candidateID+"/notes",
		"Authorization: Bearer "+token,
		map[string]any{"text": string(long)},
	)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Unknown candidate.
	resp = ts.api.Post("/api/v1/candidates/cand-missing/notes",
		"Authorization: Bearer "+token,
		map[string]any{"text": "hello"},
	)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	ts := setupTestServer(t)

	aliceToken, _ := ts.signup(t, "Alice Wonderland", "alice@example.com")
	bobToken, _ := ts.signup(t, "Bob The Builder", "bob@example.com")

	candidateID := ts.createCandidate(t, aliceToken, "John Doe")
	for range 3 {
		resp := ts.api.Post("/api/v1/candidates/"+candidateID+"/notes",
			"Authorization: Bearer "+aliceToken,
			map[string]any{"text": "ping @Bob The Builder"},
		)
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Post("/api/v1/notifications/read-all", "Authorization: Bearer "+bobToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var marked struct {
		Marked int `json:"marked"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &marked))
	assert.Equal(t, 3, marked.Marked)

	// Second pass has nothing left to mark.
	resp = ts.api.Post("/api/v1/notifications/read-all", "Authorization: Bearer "+bobToken)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &marked))
	assert.Equal(t, 0, marked.Marked)
}

func TestUserSuggest(t *testing.T) {
	ts := setupTestServer(t)

	token, _ := ts.signup(t, "Bob The Builder", "bob@example.com")
	_, _ = ts.signup(t, "Bobby Tables", "bobby@example.com")

	resp := ts.api.Get("/api/v1/users/suggest?prefix=bob", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var suggest struct {
		Suggestions []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &suggest))
	assert.Len(t, suggest.Suggestions, 2)
}

func TestSearchEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	token, _ := ts.signup(t, "Alice Wonderland", "alice@example.com")
	candidateID := ts.createCandidate(t, token, "Jane Smith")

	resp := ts.api.Post("/api/v1/candidates/"+candidateID+"/notes",
		"Authorization: Bearer "+token,
		map[string]any{"text": "Strong distributed systems background"},
	)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/search?q=Jane", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var result search.Result
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, candidateID, result.Hits[0].ID)

	resp = ts.api.Get("/api/v1/search?q=distributed&types=note", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, search.DocTypeNote, result.Hits[0].Type)
}

func TestLoginRateLimit(t *testing.T) {
	ts := setupTestServerWithAuthLimits(t, 0.1, 2)

	body := map[string]any{
		"email":    "alice@example.com",
		"password": "whatever-password",
	}

	// Burst of 2, then throttled regardless of outcome.
	resp := ts.api.Post("/api/v1/auth/login", body)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	resp = ts.api.Post("/api/v1/auth/login", body)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	resp = ts.api.Post("/api/v1/auth/login", body)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
}

func TestCurrentUser(t *testing.T) {
	ts := setupTestServer(t)

	token, userID := ts.signup(t, "Alice Wonderland", "alice@example.com")

	resp := ts.api.Get("/api/v1/users/me", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var user UserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &user))
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
}
