package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/talenttrackapp/talenttrack-server/internal/domain"
	domainerrors "github.com/talenttrackapp/talenttrack-server/internal/errors"
	"github.com/talenttrackapp/talenttrack-server/internal/id"
	"github.com/talenttrackapp/talenttrack-server/internal/mention"
	"github.com/talenttrackapp/talenttrack-server/internal/search"
	"github.com/talenttrackapp/talenttrack-server/internal/sse"
	"github.com/talenttrackapp/talenttrack-server/internal/store"
)

// NoteService appends notes to candidate threads and fans out mention
// notifications.
type NoteService struct {
	store         *store.Store
	search        *search.Index
	emitter       EventEmitter
	logger        *slog.Logger
	maxNoteLength int
}

// NewNoteService creates a new note service.
// maxNoteLength bounds note text in characters (runes, not bytes).
func NewNoteService(store *store.Store, searchIndex *search.Index, emitter EventEmitter, maxNoteLength int, logger *slog.Logger) *NoteService {
	return &NoteService{
		store:         store,
		search:        searchIndex,
		emitter:       emitter,
		logger:        logger,
		maxNoteLength: maxNoteLength,
	}
}

// AddNoteRequest contains a new note for a candidate thread.
// TaggedNames carries the display names the client resolved while the note
// was typed; mentions are additionally re-extracted server side from Text.
type AddNoteRequest struct {
	CandidateID string   `json:"candidate_id" validate:"required"`
	Text        string   `json:"text"`
	TaggedNames []string `json:"tagged_names"`
}

// AddNoteResult is the outcome of adding a note.
type AddNoteResult struct {
	Note          *domain.Note           `json:"note"`
	Notifications []*domain.Notification `json:"notifications"`
}

// AddNote validates and appends a note to a candidate's thread, then creates
// one notification per mentioned user, excluding the author. No partial
// writes: validation and the candidate existence check happen before
// anything is stored.
func (s *NoteService) AddNote(ctx context.Context, authorID string, req AddNoteRequest) (*AddNoteResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	if strings.TrimSpace(req.Text) == "" {
		return nil, domainerrors.Validation("note text must not be empty")
	}
	// Length is counted in characters; a note of exactly the limit passes.
	if utf8.RuneCountInString(req.Text) > s.maxNoteLength {
		return nil, domainerrors.Validationf("note text exceeds maximum length of %d characters", s.maxNoteLength)
	}

	candidate, err := s.store.GetCandidate(ctx, req.CandidateID)
	if err != nil {
		if errors.Is(err, store.ErrCandidateNotFound) {
			return nil, domainerrors.NotFoundf("candidate %s not found", req.CandidateID)
		}
		return nil, fmt.Errorf("get candidate: %w", err)
	}

	author, err := s.store.GetUser(ctx, authorID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFoundf("author %s not found", authorID)
		}
		return nil, fmt.Errorf("get author: %w", err)
	}

	taggedIDs, err := s.resolveTaggedUsers(ctx, author.ID, req)
	if err != nil {
		return nil, err
	}

	noteID, err := id.Generate("note")
	if err != nil {
		return nil, fmt.Errorf("generate note ID: %w", err)
	}

	note := &domain.Note{
		ID:            noteID,
		CandidateID:   candidate.ID,
		AuthorID:      author.ID,
		AuthorName:    author.Name,
		Text:          req.Text,
		Timestamp:     time.Now(),
		TaggedUserIDs: taggedIDs,
	}

	if err := s.store.AppendNote(ctx, note); err != nil {
		return nil, fmt.Errorf("append note: %w", err)
	}

	notifications, err := s.notifyTaggedUsers(ctx, note, candidate)
	if err != nil {
		return nil, err
	}

	if err := s.search.IndexDocument(search.DocumentFromNote(note, candidate.Name)); err != nil {
		s.logger.Warn("failed to index note", "note_id", noteID, "error", err)
	}

	s.emitter.Emit(sse.NewNoteCreatedEvent(note))

	s.logger.Info("note added",
		"note_id", noteID,
		"candidate_id", candidate.ID,
		"author_id", author.ID,
		"tagged", len(taggedIDs),
	)

	return &AddNoteResult{Note: note, Notifications: notifications}, nil
}

// GetThread returns a candidate's notes, oldest first.
func (s *NoteService) GetThread(ctx context.Context, candidateID string) ([]*domain.Note, error) {
	exists, err := s.store.CandidateExists(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("check candidate: %w", err)
	}
	if !exists {
		return nil, domainerrors.NotFoundf("candidate %s not found", candidateID)
	}

	notes, err := s.store.GetNotesForCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("get notes: %w", err)
	}
	return notes, nil
}

// resolveTaggedUsers merges the client-supplied tagged names with mentions
// extracted from the note text, deduplicated in first-appearance order.
// Names and mentions that don't resolve to a known user are dropped, and so
// is the author: a note never tags its own writer.
func (s *NoteService) resolveTaggedUsers(ctx context.Context, authorID string, req AddNoteRequest) ([]string, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	refs := make([]mention.UserRef, 0, len(users))
	for _, u := range users {
		refs = append(refs, mention.UserRef{ID: u.ID, Name: u.Name})
	}
	index := mention.NewIndex(refs)

	var taggedIDs []string
	seen := map[string]bool{authorID: true}
	for _, userID := range append(index.ResolveNames(req.TaggedNames), index.Extract(req.Text)...) {
		if !seen[userID] {
			seen[userID] = true
			taggedIDs = append(taggedIDs, userID)
		}
	}

	return taggedIDs, nil
}

// notifyTaggedUsers creates one unread notification per tagged user,
// excluding the note's author, and pushes each to its recipient.
func (s *NoteService) notifyTaggedUsers(ctx context.Context, note *domain.Note, candidate *domain.Candidate) ([]*domain.Notification, error) {
	notifications := make([]*domain.Notification, 0, len(note.TaggedUserIDs))

	for _, userID := range note.TaggedUserIDs {
		// AddNote strips the author from the tag set; keep the skip for
		// notes that arrive with the author already tagged (imports).
		if userID == note.AuthorID {
			continue
		}

		notificationID, err := id.Generate("notif")
		if err != nil {
			return nil, fmt.Errorf("generate notification ID: %w", err)
		}

		notification := &domain.Notification{
			ID:              notificationID,
			RecipientUserID: userID,
			CandidateID:     candidate.ID,
			CandidateName:   candidate.Name,
			MessageID:       note.ID,
			MessagePreview:  note.Preview(),
			Timestamp:       note.Timestamp,
			Read:            false,
		}

		if err := s.store.CreateNotification(ctx, notification); err != nil {
			return nil, fmt.Errorf("create notification: %w", err)
		}

		s.emitter.Emit(sse.NewNotificationCreatedEvent(notification))
		notifications = append(notifications, notification)
	}

	return notifications, nil
}
