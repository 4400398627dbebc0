// Package main provides a tool to seed the database with demo data.
//
// It creates a few recruiter accounts, a handful of candidates, and some
// notes with @mentions so the notification and search features have data
// to work with.
//
// Usage:
//
//	DATA_PATH=~/talenttrack go run ./cmd/seed
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	domainerrors "github.com/talenttrackapp/talenttrack-server/internal/errors"

	"github.com/talenttrackapp/talenttrack-server/internal/auth"
	"github.com/talenttrackapp/talenttrack-server/internal/search"
	"github.com/talenttrackapp/talenttrack-server/internal/service"
	"github.com/talenttrackapp/talenttrack-server/internal/store"
)

const demoPassword = "talenttrack-demo"

var maxNoteLength = flag.Int("max-note-length", 500, "Maximum note length")

type seedUser struct {
	name  string
	email string
}

type seedNote struct {
	candidate string // candidate name
	author    string // author email
	text      string
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/talenttrack")
	}

	fmt.Printf("Seeding data under: %s\n", dataPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	st, err := store.New(filepath.Join(dataPath, "db"), logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	searchIndex, err := search.NewIndex(search.Options{DataPath: dataPath, Logger: logger})
	if err != nil {
		log.Fatalf("Failed to open search index: %v", err)
	}
	defer searchIndex.Close()

	// The token service is only needed to satisfy the auth service
	// constructor; seeded tokens are never used.
	tokenService, err := auth.NewTokenService(bytes.Repeat([]byte{0x5d}, 32), time.Hour)
	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}

	emitter := service.NewNoopEmitter()
	authService := service.NewAuthService(st, tokenService, logger)
	candidateService := service.NewCandidateService(st, searchIndex, emitter, logger)
	noteService := service.NewNoteService(st, searchIndex, emitter, *maxNoteLength, logger)

	ctx := context.Background()

	users := []seedUser{
		{"Alice Wonderland", "alice@example.com"},
		{"Bob The Builder", "bob@example.com"},
		{"Charlie Brown", "charlie@example.com"},
	}

	userIDs := make(map[string]string, len(users))
	for _, u := range users {
		id, err := ensureUser(ctx, st, authService, u)
		if err != nil {
			log.Fatalf("Failed to seed user %s: %v", u.email, err)
		}
		userIDs[u.email] = id
		fmt.Printf("  user %-18s %s\n", u.name, id)
	}

	candidates := []string{"John Doe", "Jane Smith"}
	candidateIDs := make(map[string]string, len(candidates))
	for _, name := range candidates {
		id, err := ensureCandidate(ctx, st, candidateService, userIDs["alice@example.com"], name)
		if err != nil {
			log.Fatalf("Failed to seed candidate %s: %v", name, err)
		}
		candidateIDs[name] = id
		fmt.Printf("  candidate %-13s %s\n", name, id)
	}

	notes := []seedNote{
		{"John Doe", "alice@example.com", "Phone screen went well. @Bob The Builder can you take the technical round?"},
		{"John Doe", "bob@example.com", "Strong systems background. Scheduling an onsite with @Charlie Brown."},
		{"Jane Smith", "charlie@example.com", "Referred by a former colleague. @Alice Wonderland please reach out."},
	}

	for _, n := range notes {
		result, err := noteService.AddNote(ctx, userIDs[n.author], service.AddNoteRequest{
			CandidateID: candidateIDs[n.candidate],
			Text:        n.text,
		})
		if err != nil {
			log.Fatalf("Failed to seed note on %s: %v", n.candidate, err)
		}
		fmt.Printf("  note %s (%d notifications)\n", result.Note.ID, len(result.Notifications))
	}

	fmt.Printf("\nDone. Demo accounts use password %q.\n", demoPassword)
}

// ensureUser creates the account unless the email is already registered.
func ensureUser(ctx context.Context, st *store.Store, authService *service.AuthService, u seedUser) (string, error) {
	if existing, err := st.GetUserByEmail(ctx, u.email); err == nil {
		return existing.ID, nil
	}

	resp, err := authService.Signup(ctx, service.SignupRequest{
		Name:     u.name,
		Email:    u.email,
		Password: demoPassword,
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrEmailInUse) {
			existing, lookupErr := st.GetUserByEmail(ctx, u.email)
			if lookupErr == nil {
				return existing.ID, nil
			}
		}
		return "", err
	}
	return resp.User.ID, nil
}

// ensureCandidate reuses a candidate with the same name when present.
func ensureCandidate(ctx context.Context, st *store.Store, candidateService *service.CandidateService, createdBy, name string) (string, error) {
	existing, err := st.ListCandidates(ctx)
	if err != nil {
		return "", err
	}
	for _, c := range existing {
		if c.Name == name {
			return c.ID, nil
		}
	}

	candidate, err := candidateService.Create(ctx, createdBy, service.CreateCandidateRequest{Name: name})
	if err != nil {
		return "", err
	}
	return candidate.ID, nil
}
