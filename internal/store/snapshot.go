package store

import (
	"context"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"fmt"
	"sort"

	"github.com/talenttrackapp/talenttrack-server/internal/domain"
	domainerrors "github.com/talenttrackapp/talenttrack-server/internal/errors"
)

// Snapshot is the portable interchange format for notes and notifications.
// Notes serialize as an array of [candidateID, notes] pairs and notifications
// as a flat array, so snapshots stay readable by earlier clients that stored
// their data in exactly this shape.
type Snapshot struct {
	Notes         []CandidateNotes      `json:"app_notes"`
	Notifications []domain.Notification `json:"app_notifications"`
}

// CandidateNotes is one candidate's note thread inside a snapshot.
// It marshals as a two-element JSON array: [candidateID, [note, ...]].
type CandidateNotes struct {
	CandidateID string
	Notes       []domain.Note
}

// MarshalJSON encodes the pair as a two-element array.
func (c CandidateNotes) MarshalJSON() ([]byte, error) {
	notes := c.Notes
	if notes == nil {
		notes = []domain.Note{}
	}
	return json.Marshal([2]any{c.CandidateID, notes})
}

// UnmarshalJSON decodes a two-element [candidateID, notes] array.
// Anything other than exactly two elements is an error.
func (c *CandidateNotes) UnmarshalJSON(data []byte) error {
	var pair [2]jsontext.Value
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("candidate notes pair: %w", err)
	}

	if err := json.Unmarshal(pair[0], &c.CandidateID); err != nil {
		return fmt.Errorf("candidate notes pair: candidate id: %w", err)
	}
	if err := json.Unmarshal(pair[1], &c.Notes); err != nil {
		return fmt.Errorf("candidate notes pair: notes: %w", err)
	}
	return nil
}

// DecodeSnapshot parses snapshot bytes. On malformed input it returns an
// empty, usable snapshot alongside the error, so callers can log the failure
// and start fresh instead of refusing to boot.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	snapshot := &Snapshot{
		Notes:         []CandidateNotes{},
		Notifications: []domain.Notification{},
	}

	if len(data) == 0 {
		return snapshot, nil
	}

	var decoded Snapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		return snapshot, domainerrors.Deserialization("malformed snapshot data").WithCause(err)
	}

	if decoded.Notes != nil {
		snapshot.Notes = decoded.Notes
	}
	if decoded.Notifications != nil {
		snapshot.Notifications = decoded.Notifications
	}
	return snapshot, nil
}

// ExportSnapshot builds a snapshot of all notes and notifications.
// Candidate groups are ordered by candidate ID and notes within a group
// oldest first, so exports of equal state are byte-identical.
func (s *Store) ExportSnapshot(ctx context.Context) (*Snapshot, error) {
	allNotes, err := s.ListAllNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("export snapshot: %w", err)
	}

	grouped := make(map[string][]*domain.Note)
	for _, note := range allNotes {
		grouped[note.CandidateID] = append(grouped[note.CandidateID], note)
	}

	candidateIDs := make([]string, 0, len(grouped))
	for id := range grouped {
		candidateIDs = append(candidateIDs, id)
	}
	sort.Strings(candidateIDs)

	snapshot := &Snapshot{
		Notes:         make([]CandidateNotes, 0, len(candidateIDs)),
		Notifications: []domain.Notification{},
	}

	for _, candidateID := range candidateIDs {
		notes := grouped[candidateID]
		sortNotes(notes)

		thread := CandidateNotes{CandidateID: candidateID, Notes: make([]domain.Note, 0, len(notes))}
		for _, note := range notes {
			thread.Notes = append(thread.Notes, *note)
		}
		snapshot.Notes = append(snapshot.Notes, thread)
	}

	notifications, err := s.ListAllNotifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("export snapshot: %w", err)
	}
	for _, notification := range notifications {
		snapshot.Notifications = append(snapshot.Notifications, *notification)
	}

	return snapshot, nil
}

// ImportSnapshot writes a snapshot's notes and notifications into the store.
// Existing records with the same IDs are overwritten.
func (s *Store) ImportSnapshot(ctx context.Context, snapshot *Snapshot) error {
	for _, thread := range snapshot.Notes {
		for i := range thread.Notes {
			note := thread.Notes[i]
			// The pair's candidate ID is authoritative for key placement.
			note.CandidateID = thread.CandidateID
			if err := s.AppendNote(ctx, &note); err != nil {
				return fmt.Errorf("import snapshot: %w", err)
			}
		}
	}

	for i := range snapshot.Notifications {
		if err := s.CreateNotification(ctx, &snapshot.Notifications[i]); err != nil {
			return fmt.Errorf("import snapshot: %w", err)
		}
	}

	return nil
}
