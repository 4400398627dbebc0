package store

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/talenttrackapp/talenttrack-server/internal/domain"
)

// noteKey builds the composite key for a note. All notes of one candidate
// share the note:<candidateID>: prefix, so a thread is one prefix scan.
func noteKey(candidateID, noteID string) []byte {
	return []byte(notePrefix + candidateID + ":" + noteID)
}

// AppendNote persists a note on a candidate's thread.
// Caller is responsible for verifying the candidate exists.
func (s *Store) AppendNote(ctx context.Context, note *domain.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.set(noteKey(note.CandidateID, note.ID), note); err != nil {
		return fmt.Errorf("append note: %w", err)
	}
	return nil
}

// GetNotesForCandidate returns a candidate's notes ordered oldest first.
// A candidate with no notes yields an empty slice, not an error.
func (s *Store) GetNotesForCandidate(ctx context.Context, candidateID string) ([]*domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	notes := []*domain.Note{}
	prefix := []byte(notePrefix + candidateID + ":")

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var note domain.Note
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &note)
			})
			if err != nil {
				return fmt.Errorf("unmarshal note: %w", err)
			}
			notes = append(notes, &note)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortNotes(notes)
	return notes, nil
}

// ListAllNotes returns every note in the store, grouped nowhere, ordered by
// candidate key then timestamp. Used by the snapshot exporter.
func (s *Store) ListAllNotes(ctx context.Context) ([]*domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var notes []*domain.Note
	prefix := []byte(notePrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var note domain.Note
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &note)
			})
			if err != nil {
				return fmt.Errorf("unmarshal note: %w", err)
			}
			notes = append(notes, &note)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return notes, nil
}

// sortNotes orders notes oldest first, falling back to ID so that notes
// created within the same instant keep a stable order.
func sortNotes(notes []*domain.Note) {
	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].Timestamp.Equal(notes[j].Timestamp) {
			return notes[i].Timestamp.Before(notes[j].Timestamp)
		}
		return notes[i].ID < notes[j].ID
	})
}
